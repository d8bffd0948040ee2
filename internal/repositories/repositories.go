package repositories

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/desertthunder/trackrate/internal/shared"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

// Classify wraps a driver error with the matching sentinel from package shared.
//
// The original error stays in the chain, so errors.As still reaches the driver's error type.
// Errors that match no category are wrapped with the action only.
func Classify(action string, err error) error {
	if err == nil {
		return nil
	}
	if kind := kindOf(err); kind != nil {
		return fmt.Errorf("failed to %s: %w: %w", action, kind, err)
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

func kindOf(err error) error {
	switch {
	case errors.Is(err, shared.ErrNotFound),
		errors.Is(err, shared.ErrInvalidInput),
		errors.Is(err, shared.ErrConstraintViolation),
		errors.Is(err, shared.ErrConnection):
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return shared.ErrNotFound
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone):
		return shared.ErrConnection
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code {
		case sqlite3.ErrConstraint:
			return shared.ErrConstraintViolation
		case sqlite3.ErrCantOpen, sqlite3.ErrBusy, sqlite3.ErrLocked, sqlite3.ErrNotADB:
			return shared.ErrConnection
		}
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case strings.HasPrefix(pgErr.Code, "23"):
			return shared.ErrConstraintViolation
		case strings.HasPrefix(pgErr.Code, "08"), strings.HasPrefix(pgErr.Code, "28"), strings.HasPrefix(pgErr.Code, "57P"):
			return shared.ErrConnection
		}
		return nil
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return shared.ErrConnection
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return shared.ErrConnection
	}

	return nil
}

// exec runs a write statement and returns the number of affected rows.
func exec(ctx context.Context, db *sqlx.DB, action, query string, args ...any) (int64, error) {
	result, err := db.ExecContext(ctx, db.Rebind(query), args...)
	if err != nil {
		return 0, Classify(action, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, Classify("get affected rows", err)
	}
	return rows, nil
}

// nullString maps an empty string to SQL NULL.
func nullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}

// likePattern builds a case-insensitive substring pattern for LIKE ... ESCAPE '\'.
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(strings.TrimSpace(q))) + "%"
}
