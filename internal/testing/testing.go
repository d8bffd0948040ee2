// package testing contains shared testing utilities
package testing

import (
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/desertthunder/trackrate/internal/models"
	"github.com/desertthunder/trackrate/internal/shared"
	"github.com/jmoiron/sqlx"
)

// Fixture accounts seeded by [Seed]
const (
	CustomerLogin  = "alice"
	CustomerPass   = "secret"
	Customer2Login = "bob"
	ArtistLogin    = "carol"
	Artist2Login   = "dave"
	StaffLogin     = "sam"
)

// Fixture counts and ids seeded by [Seed]
const (
	FixtureAccounts = 5
	FixtureTracks   = 4
	FixtureReviews  = 7

	TrackBlueMorning = 1 // reviews rated 3 and 4
	TrackNightDrive  = 2 // reviews rated 5 and 4
	TrackQuietSong   = 3 // no reviews
	TrackLongForm    = 4 // reviews rated 1, 2 and 2
)

// FixtureReviewOrder is the review ids of the fixture, newest first and ties by id.
var FixtureReviewOrder = []int64{2, 3, 1, 4, 5, 6, 7}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// NewTestDB creates an in-memory SQLite database with migrations applied.
// The database is closed when the test ends.
func NewTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

// NewSeededDB creates a test database loaded with the fixture from [Seed].
func NewSeededDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db := NewTestDB(t)
	Seed(t, db)
	return db
}

// Seed loads the fixture accounts, tracks and reviews.
func Seed(t *testing.T, db *sqlx.DB) {
	t.Helper()

	SeedAccount(t, db, CustomerLogin, "Alice", "Smith", CustomerPass, "alice@example.com", models.RoleCustomer)
	SeedAccount(t, db, Customer2Login, "Bob", "Jones", "hunter2", "", models.RoleCustomer)
	SeedAccount(t, db, ArtistLogin, "Carol", "King", "pw", "carol@example.com", models.RoleArtist)
	SeedAccount(t, db, Artist2Login, "Dave", "Grohl", "pw", "", models.RoleArtist)
	SeedAccount(t, db, StaffLogin, "Sam", "Admin", "pw", "sam@example.com", models.RoleStaff)

	SeedTrack(t, db, TrackBlueMorning, "Blue Morning", 215, false, ArtistLogin, Artist2Login)
	SeedTrack(t, db, TrackNightDrive, "Night Drive", 184, true, Artist2Login, ArtistLogin)
	SeedTrack(t, db, TrackQuietSong, "Quiet Song", 240, false, ArtistLogin, ArtistLogin)
	SeedTrack(t, db, TrackLongForm, "Long Form", 3725, false, Artist2Login, Artist2Login)

	SeedReview(t, db, TrackBlueMorning, 3, "Decent", CustomerLogin, Day(2024, 5, 1))
	SeedReview(t, db, TrackBlueMorning, 4, "Great", Customer2Login, Day(2024, 5, 3))
	SeedReview(t, db, TrackNightDrive, 5, "", CustomerLogin, Day(2024, 5, 3))
	SeedReview(t, db, TrackNightDrive, 4, "Solid", Customer2Login, Day(2024, 4, 20))
	SeedReview(t, db, TrackLongForm, 1, "Too long", CustomerLogin, Day(2024, 3, 1))
	SeedReview(t, db, TrackLongForm, 2, "", Customer2Login, Day(2024, 3, 1))
	SeedReview(t, db, TrackLongForm, 2, "Still long", CustomerLogin, Day(2024, 3, 1))
}

// SeedAccount inserts an account row. An empty email is stored as NULL.
func SeedAccount(t *testing.T, db *sqlx.DB, login, first, last, password, email string, role models.Role) {
	t.Helper()
	var mail any
	if email != "" {
		mail = email
	}
	MustExec(t, db, `INSERT INTO account (login, firstname, lastname, password, email, role) VALUES (?, ?, ?, ?, ?, ?)`,
		login, first, last, password, mail, string(role))
}

// SeedTrack inserts a track row with an explicit id.
func SeedTrack(t *testing.T, db *sqlx.DB, id int64, title string, duration int, restricted bool, singer, composer string) {
	t.Helper()
	MustExec(t, db, `INSERT INTO track (id, title, duration, age_restriction, singer, composer) VALUES (?, ?, ?, ?, ?, ?)`,
		id, title, duration, restricted, singer, composer)
}

// SeedReview inserts a review row. An empty content is stored as NULL.
func SeedReview(t *testing.T, db *sqlx.DB, trackID int64, rating int, content, customer string, date models.Date) {
	t.Helper()
	var body any
	if content != "" {
		body = content
	}
	MustExec(t, db, `INSERT INTO review (trackid, rating, content, customerid, reviewdate) VALUES (?, ?, ?, ?, ?)`,
		trackID, rating, body, customer, date)
}

// MustExec runs a statement or fails the test.
func MustExec(t *testing.T, db *sqlx.DB, query string, args ...any) {
	t.Helper()
	if _, err := db.Exec(db.Rebind(query), args...); err != nil {
		t.Fatalf("failed to execute %q: %v", query, err)
	}
}

// Day builds a [models.Date] for the given calendar day.
func Day(year int, month time.Month, day int) models.Date {
	return models.NewDate(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
