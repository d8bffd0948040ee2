package repositories

import (
	"context"
	"fmt"

	"github.com/desertthunder/trackrate/internal/models"
	"github.com/desertthunder/trackrate/internal/shared"
	"github.com/jmoiron/sqlx"
)

// ReviewRepository reads and writes rows in the review table.
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository creates a new ReviewRepository with the given database handle
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// List returns every review, newest first, with ties broken by ascending review id.
func (r *ReviewRepository) List(ctx context.Context) ([]models.ReviewSummary, error) {
	query := `
		SELECT
			rev.reviewid AS reviewid,
			COALESCE(tra.title, '') AS track_title,
			rev.rating AS rating,
			COALESCE(rev.content, '') AS content,
			rev.customerid AS customer_login,
			TRIM(COALESCE(acc.firstname, '') || ' ' || COALESCE(acc.lastname, '')) AS customer_name,
			rev.reviewdate AS review_date
		FROM review AS rev
		LEFT JOIN track AS tra ON rev.trackid = tra.id
		LEFT JOIN account AS acc ON rev.customerid = acc.login
		ORDER BY rev.reviewdate DESC, rev.reviewid ASC
	`

	var reviews []models.ReviewSummary
	if err := r.db.SelectContext(ctx, &reviews, query); err != nil {
		return nil, Classify("list reviews", err)
	}
	return reviews, nil
}

// Create inserts a review written by customer and returns its generated id.
//
// customer must be a stored login; a zero review date is stored as today.
func (r *ReviewRepository) Create(ctx context.Context, review models.NewReview, customer string) (int64, error) {
	if err := review.Validate(); err != nil {
		return 0, fmt.Errorf("validation failed: %w", err)
	}

	date := review.ReviewDate
	if date.IsZero() {
		date = models.Today()
	}

	query := r.db.Rebind(`
		INSERT INTO review (trackid, rating, content, customerid, reviewdate)
		VALUES (?, ?, ?, ?, ?)
		RETURNING reviewid
	`)

	var id int64
	err := r.db.QueryRowxContext(ctx, query,
		review.TrackID,
		review.Rating,
		nullString(review.Content),
		customer,
		date,
	).Scan(&id)
	if err != nil {
		return 0, Classify("insert review", err)
	}
	return id, nil
}

// Update sets a review's rating and content and moves its date to the given day.
func (r *ReviewRepository) Update(ctx context.Context, update models.ReviewUpdate, date models.Date) error {
	if err := update.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		UPDATE review
		SET rating = ?, content = ?, reviewdate = ?
		WHERE reviewid = ?
	`

	rows, err := exec(ctx, r.db, "update review", query,
		update.Rating,
		nullString(update.Content),
		date,
		update.ID,
	)
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: review %d", shared.ErrNotFound, update.ID)
	}
	return nil
}
