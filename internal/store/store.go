package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/trackrate/internal/models"
	"github.com/desertthunder/trackrate/internal/repositories"
	"github.com/desertthunder/trackrate/internal/shared"
	"github.com/jmoiron/sqlx"
)

// Service is the set of operations exposed to presentation layers.
type Service interface {
	CheckLogin(ctx context.Context, login, password string) (*models.Session, error)
	ListTracks(ctx context.Context) ([]models.TrackSummary, error)
	ListUsers(ctx context.Context) ([]models.UserProfile, error)
	ListReviews(ctx context.Context) ([]models.ReviewSummary, error)
	FindTracks(ctx context.Context, q string) ([]models.TrackSummary, error)
	AddUser(ctx context.Context, account models.NewAccount) error
	AddReview(ctx context.Context, review models.NewReview) (int64, error)
	UpdateTrack(ctx context.Context, update models.TrackUpdate) error
	UpdateReview(ctx context.Context, update models.ReviewUpdate) error
	UpdateUser(ctx context.Context, update models.AccountUpdate) error
}

var _ Service = (*Store)(nil)

// Store implements [Service] over a shared [sqlx.DB] pool.
type Store struct {
	db       *sqlx.DB
	accounts *repositories.AccountRepository
	tracks   *repositories.TrackRepository
	reviews  *repositories.ReviewRepository
	logger   *log.Logger
	timeout  time.Duration
	today    func() models.Date
}

// Open connects to the configured database and returns a ready [Store].
//
// Connection failures are logged and wrapped with [shared.ErrConnection].
func Open(ctx context.Context, cfg shared.DatabaseConfig, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	db, err := shared.Connect(ctx, cfg)
	if err != nil {
		logger.Error("failed to open database", "driver", cfg.Driver, "error", err)
		return nil, err
	}

	logger.Debug("database opened", "driver", cfg.Driver)
	return New(db, logger, cfg.QueryTimeout), nil
}

// New wraps an open database handle. A zero timeout disables the per-operation deadline.
func New(db *sqlx.DB, logger *log.Logger, timeout time.Duration) *Store {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Store{
		db:       db,
		accounts: repositories.NewAccountRepository(db),
		tracks:   repositories.NewTrackRepository(db),
		reviews:  repositories.NewReviewRepository(db),
		logger:   shared.WithLogger(logger, "component", "store"),
		timeout:  timeout,
		today:    models.Today,
	}
}

// DB returns the underlying pool.
func (s *Store) DB() *sqlx.DB { return s.db }

// Close releases every pooled connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks that the database is reachable within the query timeout.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		return s.fail("ping", fmt.Errorf("%w: %v", shared.ErrConnection, err))
	}
	return nil
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// fail logs err at a level matching its kind and returns it unchanged.
func (s *Store) fail(op string, err error, kv ...any) error {
	kv = append([]any{"op", op, "error", err}, kv...)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		s.logger.Debug("no rows", kv...)
	case errors.Is(err, shared.ErrInvalidInput), errors.Is(err, shared.ErrConstraintViolation):
		s.logger.Warn("rejected", kv...)
	default:
		s.logger.Error("query failed", kv...)
	}
	return err
}

// nonEmpty turns an empty list into [shared.ErrNotFound].
func nonEmpty[T any](rows []T, err error) ([]T, error) {
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty result", shared.ErrNotFound)
	}
	return rows, nil
}

// CheckLogin returns the session for a matching login and password.
// A failed match returns [shared.ErrNotFound].
func (s *Store) CheckLogin(ctx context.Context, login, password string) (*models.Session, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	session, err := s.accounts.CheckLogin(ctx, login, password)
	if err != nil {
		return nil, s.fail("check_login", err, "login", login)
	}
	return session, nil
}

// ListTracks returns every track ordered by id.
func (s *Store) ListTracks(ctx context.Context) ([]models.TrackSummary, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tracks, err := nonEmpty(s.tracks.List(ctx))
	if err != nil {
		return nil, s.fail("list_tracks", err)
	}
	return tracks, nil
}

// ListUsers returns every account ordered by role, then login.
func (s *Store) ListUsers(ctx context.Context) ([]models.UserProfile, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	users, err := nonEmpty(s.accounts.List(ctx))
	if err != nil {
		return nil, s.fail("list_users", err)
	}
	return users, nil
}

// ListReviews returns every review, newest first.
func (s *Store) ListReviews(ctx context.Context) ([]models.ReviewSummary, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	reviews, err := nonEmpty(s.reviews.List(ctx))
	if err != nil {
		return nil, s.fail("list_reviews", err)
	}
	return reviews, nil
}

// FindTracks returns the tracks whose title, singer or composer contains q, ignoring case.
func (s *Store) FindTracks(ctx context.Context, q string) ([]models.TrackSummary, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tracks, err := nonEmpty(s.tracks.Find(ctx, q))
	if err != nil {
		return nil, s.fail("find_tracks", err, "query", q)
	}
	return tracks, nil
}

// AddUser registers an account.
func (s *Store) AddUser(ctx context.Context, account models.NewAccount) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.accounts.Create(ctx, account); err != nil {
		return s.fail("add_user", err, "login", account.Login)
	}
	s.logger.Info("account added", "login", account.Login)
	return nil
}

// AddReview stores a review and returns its id.
//
// The track must exist and the reviewer must be a Customer account.
func (s *Store) AddReview(ctx context.Context, review models.NewReview) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	id, err := s.addReview(ctx, review)
	if err != nil {
		return 0, s.fail("add_review", err, "trackid", review.TrackID, "customer", review.CustomerLogin)
	}
	s.logger.Info("review added", "reviewid", id, "trackid", review.TrackID)
	return id, nil
}

func (s *Store) addReview(ctx context.Context, review models.NewReview) (int64, error) {
	if err := review.Validate(); err != nil {
		return 0, fmt.Errorf("validation failed: %w", err)
	}

	ok, err := s.tracks.Exists(ctx, review.TrackID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: track %d does not exist", shared.ErrInvalidReference, review.TrackID)
	}

	customer, err := s.accounts.ResolveRole(ctx, review.CustomerLogin, models.RoleCustomer)
	if err != nil {
		return 0, err
	}

	if review.ReviewDate.IsZero() {
		review.ReviewDate = s.today()
	}
	return s.reviews.Create(ctx, review, customer)
}

// UpdateTrack replaces a track's details. Singer and composer must be Artist accounts.
func (s *Store) UpdateTrack(ctx context.Context, update models.TrackUpdate) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.updateTrack(ctx, update); err != nil {
		return s.fail("update_track", err, "trackid", update.ID)
	}
	s.logger.Info("track updated", "trackid", update.ID)
	return nil
}

func (s *Store) updateTrack(ctx context.Context, update models.TrackUpdate) error {
	if err := update.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	singer, err := s.accounts.ResolveRole(ctx, update.SingerLogin, models.RoleArtist)
	if err != nil {
		return fmt.Errorf("singer: %w", err)
	}
	composer, err := s.accounts.ResolveRole(ctx, update.ComposerLogin, models.RoleArtist)
	if err != nil {
		return fmt.Errorf("composer: %w", err)
	}
	return s.tracks.Update(ctx, update, singer, composer)
}

// UpdateReview sets a review's rating and content and moves its date to today.
func (s *Store) UpdateReview(ctx context.Context, update models.ReviewUpdate) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.reviews.Update(ctx, update, s.today()); err != nil {
		return s.fail("update_review", err, "reviewid", update.ID)
	}
	s.logger.Info("review updated", "reviewid", update.ID)
	return nil
}

// UpdateUser changes an account's names and email.
func (s *Store) UpdateUser(ctx context.Context, update models.AccountUpdate) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.accounts.Update(ctx, update); err != nil {
		return s.fail("update_user", err, "login", update.Login)
	}
	s.logger.Info("account updated", "login", update.Login)
	return nil
}
