package repositories

import (
	"context"
	"fmt"

	"github.com/desertthunder/trackrate/internal/models"
	"github.com/desertthunder/trackrate/internal/shared"
	"github.com/jmoiron/sqlx"
)

// trackSummaryQuery joins each track to its singer, composer and reviews.
// The %s verb takes an optional WHERE clause applied before grouping.
const trackSummaryQuery = `
	SELECT
		tra.id AS trackid,
		tra.title AS title,
		tra.duration AS duration,
		tra.age_restriction AS age_restriction,
		TRIM(COALESCE(sin.firstname, '') || ' ' || COALESCE(sin.lastname, '')) AS singer_name,
		TRIM(COALESCE(com.firstname, '') || ' ' || COALESCE(com.lastname, '')) AS composer_name,
		CAST(COALESCE(ROUND(AVG(rev.rating), 2), 0) AS DOUBLE PRECISION) AS avg_rating
	FROM track AS tra
	LEFT JOIN account AS sin ON tra.singer = sin.login
	LEFT JOIN account AS com ON tra.composer = com.login
	LEFT JOIN review AS rev ON tra.id = rev.trackid
	%s
	GROUP BY tra.id, tra.title, tra.duration, tra.age_restriction,
		sin.firstname, sin.lastname, com.firstname, com.lastname
	ORDER BY tra.id ASC
`

const trackSearchFilter = `
	WHERE LOWER(tra.title) LIKE ? ESCAPE '\'
		OR LOWER(COALESCE(sin.firstname, '') || ' ' || COALESCE(sin.lastname, '')) LIKE ? ESCAPE '\'
		OR LOWER(COALESCE(com.firstname, '') || ' ' || COALESCE(com.lastname, '')) LIKE ? ESCAPE '\'
`

// TrackRepository reads and updates rows in the track table.
type TrackRepository struct {
	db *sqlx.DB
}

// NewTrackRepository creates a new TrackRepository with the given database handle
func NewTrackRepository(db *sqlx.DB) *TrackRepository {
	return &TrackRepository{db: db}
}

// List returns every track with singer/composer names and average rating, ordered by id.
// Tracks without reviews report an average of 0.
func (r *TrackRepository) List(ctx context.Context) ([]models.TrackSummary, error) {
	var tracks []models.TrackSummary
	if err := r.db.SelectContext(ctx, &tracks, fmt.Sprintf(trackSummaryQuery, "")); err != nil {
		return nil, Classify("list tracks", err)
	}
	return tracks, nil
}

// Find returns the tracks whose title, singer name or composer name contains q, ignoring case.
// An empty q matches every track.
func (r *TrackRepository) Find(ctx context.Context, q string) ([]models.TrackSummary, error) {
	pattern := likePattern(q)
	query := r.db.Rebind(fmt.Sprintf(trackSummaryQuery, trackSearchFilter))

	var tracks []models.TrackSummary
	if err := r.db.SelectContext(ctx, &tracks, query, pattern, pattern, pattern); err != nil {
		return nil, Classify("find tracks", err)
	}
	return tracks, nil
}

// Exists reports whether a track with the given id is stored.
func (r *TrackRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int
	query := r.db.Rebind(`SELECT COUNT(*) FROM track WHERE id = ?`)
	if err := r.db.GetContext(ctx, &count, query, id); err != nil {
		return false, Classify("check track", err)
	}
	return count > 0, nil
}

// Update replaces a track's details. singer and composer must be stored account logins;
// callers resolve them from the request with [AccountRepository.ResolveRole].
func (r *TrackRepository) Update(ctx context.Context, update models.TrackUpdate, singer, composer string) error {
	if err := update.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		UPDATE track
		SET title = ?, duration = ?, age_restriction = ?, singer = ?, composer = ?
		WHERE id = ?
	`

	rows, err := exec(ctx, r.db, "update track", query,
		update.Title,
		update.Duration,
		update.AgeRestriction,
		singer,
		composer,
		update.ID,
	)
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: track %d", shared.ErrNotFound, update.ID)
	}
	return nil
}
