// Package repositories implements the SQL queries behind the music review store.
//
// Each repository wraps a shared [sqlx.DB] pool and scans rows into the projections in package models
// through named columns. Queries are written with ? placeholders and rebound for the active driver,
// so the same statements run against SQLite, PostgreSQL and rqlite.
//
// Key Implementations:
//   - [AccountRepository] : Login checks, account listing, registration and profile updates
//   - [TrackRepository] : Track listing and search with singer/composer names and average ratings
//   - [ReviewRepository] : Review listing, creation and rating updates
//
// Driver errors are classified by [Classify] into the sentinel errors in package shared,
// so callers can branch with errors.Is regardless of the database in use.
package repositories
