// package models defines the data model for the music review store
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/trackrate/internal/shared"
)

// Validator is implemented by every write request.
type Validator interface {
	Validate() error // Validate checks the request's fields and returns an error wrapping [shared.ErrInvalidInput]
}

// Role is an account's role on the platform.
type Role string

const (
	RoleCustomer Role = "Customer"
	RoleArtist   Role = "Artist"
	RoleStaff    Role = "Staff"
)

// Roles lists the valid roles in their sort order.
var Roles = []Role{RoleArtist, RoleCustomer, RoleStaff}

// ParseRole matches s case-insensitively against the known roles and returns the canonical spelling.
func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if strings.EqualFold(strings.TrimSpace(s), string(r)) {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: role must be one of Customer, Artist, Staff, got %q", shared.ErrInvalidInput, s)
}

func (r Role) String() string { return string(r) }

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleArtist || r == RoleStaff
}

// Session is the identity returned by a successful login check.
type Session struct {
	Login     string `db:"login" json:"login"`
	FirstName string `db:"firstname" json:"firstName"`
	LastName  string `db:"lastname" json:"lastName"`
	Role      Role   `db:"role" json:"role"`
}

// TrackSummary is a track joined with its singer and composer names and aggregated review rating.
type TrackSummary struct {
	ID             int64   `db:"trackid" json:"trackid"`
	Title          string  `db:"title" json:"title"`
	Duration       int     `db:"duration" json:"duration"`
	AgeRestriction bool    `db:"age_restriction" json:"age_restriction"`
	SingerName     string  `db:"singer_name" json:"singer_name"`
	ComposerName   string  `db:"composer_name" json:"composer_name"`
	AvgRating      float64 `db:"avg_rating" json:"avg_rating"`
}

// UserProfile is the public part of an account.
type UserProfile struct {
	Login     string `db:"login" json:"login"`
	FirstName string `db:"firstname" json:"firstname"`
	LastName  string `db:"lastname" json:"lastname"`
	Email     string `db:"email" json:"email"`
	Role      Role   `db:"role" json:"role"`
}

// ReviewSummary is a review joined with its track title and the reviewer's name.
type ReviewSummary struct {
	ID            int64  `db:"reviewid" json:"reviewid"`
	TrackTitle    string `db:"track_title" json:"track_title"`
	Rating        int    `db:"rating" json:"rating"`
	Content       string `db:"content" json:"content"`
	CustomerLogin string `db:"customer_login" json:"customer_login"`
	CustomerName  string `db:"customer_name" json:"customer_name"`
	ReviewDate    Date   `db:"review_date" json:"review_date"`
}

// Date is a calendar day. It is stored as midnight UTC and serialized to JSON as YYYY-MM-DD.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

var dateLayouts = []string{
	dateLayout,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// NewDate truncates t to its calendar day.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current local calendar day.
func Today() Date {
	return NewDate(time.Now())
}

// ParseDate parses YYYY-MM-DD or an RFC 3339 timestamp.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NewDate(t), nil
		}
	}
	return Date{}, fmt.Errorf("%w: invalid date %q, want YYYY-MM-DD", shared.ErrInvalidInput, s)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// MarshalJSON implements [json.Marshaler].
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON implements [json.Unmarshaler].
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: date must be a string", shared.ErrInvalidInput)
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Scan implements [sql.Scanner]. Drivers hand back dates as time.Time or as text.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = NewDate(v)
		return nil
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		return d.Scan(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}

// Value implements [driver.Valuer].
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return NewDate(d.Time).Time, nil
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", shared.ErrInvalidInput, field)
	}
	return nil
}

func validRating(rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5, got %d", shared.ErrInvalidInput, rating)
	}
	return nil
}
