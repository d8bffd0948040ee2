package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Store errors
	ErrConnection          = fmt.Errorf("database connection failed")
	ErrConstraintViolation = fmt.Errorf("constraint violation")
	ErrNotFound            = fmt.Errorf("not found")

	// Input validation errors
	ErrInvalidInput     = fmt.Errorf("invalid input")
	ErrInvalidReference = fmt.Errorf("%w: invalid reference", ErrInvalidInput)
	ErrInvalidArgument  = fmt.Errorf("invalid argument")
)
