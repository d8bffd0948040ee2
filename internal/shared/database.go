package shared

import (
	"context"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/rqlite/gorqlite/stdlib"
)

func init() {
	sqlx.BindDriver(DriverRQLite, sqlx.QUESTION)
}

// Connect opens a pooled handle for the configured driver and verifies it with a ping.
//
// Open and ping failures are wrapped with [ErrConnection].
func Connect(ctx context.Context, cfg DatabaseConfig) (*sqlx.DB, error) {
	dsn := cfg.DataSourceName()
	if cfg.Driver == DriverSQLite {
		dsn = sqliteDSN(dsn)
	}

	db, err := sqlx.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %v", ErrConnection, err)
	}

	ConfigureDatabase(db, cfg)
	if cfg.Driver == DriverSQLite && isMemoryDSN(cfg.DSN) {
		// every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to ping database: %v", ErrConnection, err)
	}

	return db, nil
}

// NewDatabase opens a connection to a SQLite database at the specified path.
// The path can be ":memory:" for an in-memory database.
func NewDatabase(path string) (*sqlx.DB, error) {
	return Connect(context.Background(), DatabaseConfig{Driver: DriverSQLite, DSN: path})
}

// ConfigureDatabase sets connection pool settings for the database.
// Zero values leave the database/sql defaults in place.
func ConfigureDatabase(db *sqlx.DB, cfg DatabaseConfig) {
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
}

func isMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || strings.Contains(dsn, "mode=memory")
}

// sqliteDSN enables foreign key enforcement on every pooled connection.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on"
}
