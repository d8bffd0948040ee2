package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/trackrate/internal/models"
	"github.com/desertthunder/trackrate/internal/shared"
	"github.com/jmoiron/sqlx"
)

// AccountRepository reads and writes rows in the account table.
//
// Logins are matched case-insensitively everywhere; the stored spelling is kept as entered.
type AccountRepository struct {
	db *sqlx.DB
}

// NewAccountRepository creates a new AccountRepository with the given database handle
func NewAccountRepository(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// CheckLogin returns the session for the account whose login matches case-insensitively
// and whose password matches exactly. A failed match returns [shared.ErrNotFound].
func (r *AccountRepository) CheckLogin(ctx context.Context, login, password string) (*models.Session, error) {
	query := `
		SELECT login, firstname, lastname, role
		FROM account
		WHERE LOWER(login) = LOWER(?) AND password = ?
	`

	var session models.Session
	if err := r.db.GetContext(ctx, &session, r.db.Rebind(query), login, password); err != nil {
		return nil, Classify("check login", err)
	}
	return &session, nil
}

// List returns every account ordered by role, then login
func (r *AccountRepository) List(ctx context.Context) ([]models.UserProfile, error) {
	query := `
		SELECT login, firstname, lastname, COALESCE(email, '') AS email, role
		FROM account
		ORDER BY role ASC, login ASC
	`

	var users []models.UserProfile
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, Classify("list accounts", err)
	}
	return users, nil
}

// Lookup returns the stored spelling and role of the account matching login case-insensitively.
func (r *AccountRepository) Lookup(ctx context.Context, login string) (string, models.Role, error) {
	query := `SELECT login, role FROM account WHERE LOWER(login) = LOWER(?)`

	var row struct {
		Login string      `db:"login"`
		Role  models.Role `db:"role"`
	}
	if err := r.db.GetContext(ctx, &row, r.db.Rebind(query), login); err != nil {
		return "", "", Classify("look up account", err)
	}
	return row.Login, row.Role, nil
}

// ResolveRole returns the stored login of an account that holds the given role.
//
// A missing account or a role mismatch returns [shared.ErrInvalidReference].
func (r *AccountRepository) ResolveRole(ctx context.Context, login string, role models.Role) (string, error) {
	stored, actual, err := r.Lookup(ctx, login)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		return "", fmt.Errorf("%w: account %q does not exist", shared.ErrInvalidReference, login)
	case err != nil:
		return "", err
	case actual != role:
		return "", fmt.Errorf("%w: account %q is a %s, not a %s", shared.ErrInvalidReference, stored, actual, role)
	}
	return stored, nil
}

// Create inserts a new account. A login already taken in any letter case returns [shared.ErrConstraintViolation].
func (r *AccountRepository) Create(ctx context.Context, account models.NewAccount) error {
	if err := account.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	role, _ := models.ParseRole(string(account.Role))

	if existing, _, err := r.Lookup(ctx, account.Login); err == nil {
		return fmt.Errorf("%w: login %q is already taken by %q", shared.ErrConstraintViolation, account.Login, existing)
	} else if !errors.Is(err, shared.ErrNotFound) {
		return err
	}

	query := `
		INSERT INTO account (login, firstname, lastname, password, email, role)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := exec(ctx, r.db, "insert account", query,
		account.Login,
		account.FirstName,
		account.LastName,
		account.Password,
		nullString(account.Email),
		role,
	)
	return err
}

// Update changes the names and email of the account matching update.Login case-insensitively.
func (r *AccountRepository) Update(ctx context.Context, update models.AccountUpdate) error {
	if err := update.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		UPDATE account
		SET firstname = ?, lastname = ?, email = ?
		WHERE LOWER(login) = LOWER(?)
	`

	rows, err := exec(ctx, r.db, "update account", query,
		update.FirstName,
		update.LastName,
		nullString(update.Email),
		update.Login,
	)
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: account %q", shared.ErrNotFound, update.Login)
	}
	return nil
}
