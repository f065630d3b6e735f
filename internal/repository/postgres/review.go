package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/realtora/EstateHub/internal/domain"
	"github.com/realtora/EstateHub/pkg/database"
	apperrors "github.com/realtora/EstateHub/pkg/errors"
)

// ReviewRepository implements repository.ReviewRepository using PostgreSQL.
type ReviewRepository struct {
	pool database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool database.DBTX) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

const reviewColumns = `id, property_id, property_title, agent_uid, agent_name,
	reviewer_uid, reviewer_name, reviewer_email, rating, body, created_at`

// Create inserts a new review.
func (r *ReviewRepository) Create(ctx context.Context, rev *domain.Review) error {
	query := `
		INSERT INTO reviews (id, property_id, property_title, agent_uid, agent_name,
			reviewer_uid, reviewer_name, reviewer_email, rating, body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.pool.Exec(ctx, query,
		rev.ID,
		rev.PropertyID,
		rev.PropertyTitle,
		rev.AgentUID,
		rev.AgentName,
		rev.ReviewerUID,
		rev.ReviewerName,
		rev.ReviewerEmail,
		rev.Rating,
		rev.Body,
		rev.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}

	return nil
}

// GetByID retrieves a review by its ID.
func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	var rev domain.Review
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rev.ID,
		&rev.PropertyID,
		&rev.PropertyTitle,
		&rev.AgentUID,
		&rev.AgentName,
		&rev.ReviewerUID,
		&rev.ReviewerName,
		&rev.ReviewerEmail,
		&rev.Rating,
		&rev.Body,
		&rev.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan review: %w", err)
	}

	return &rev, nil
}

// ListByProperty returns all reviews for the given property, newest first.
func (r *ReviewRepository) ListByProperty(ctx context.Context, propertyID string) ([]domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE property_id = $1 ORDER BY created_at DESC`
	return r.listReviews(ctx, query, propertyID)
}

// ListLatest returns the most recent reviews across all properties.
func (r *ReviewRepository) ListLatest(ctx context.Context, limit int) ([]domain.Review, error) {
	if limit <= 0 {
		limit = 3
	}
	query := `SELECT ` + reviewColumns + ` FROM reviews ORDER BY created_at DESC LIMIT $1`
	return r.listReviews(ctx, query, limit)
}

// ListByReviewer returns all reviews written by the given user, newest first.
func (r *ReviewRepository) ListByReviewer(ctx context.Context, reviewerUID string) ([]domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE reviewer_uid = $1 ORDER BY created_at DESC`
	return r.listReviews(ctx, query, reviewerUID)
}

// ListAll returns every review, newest first.
func (r *ReviewRepository) ListAll(ctx context.Context) ([]domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews ORDER BY created_at DESC`
	return r.listReviews(ctx, query)
}

// Delete removes a review from the database.
func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM reviews WHERE id = $1`

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("review", id)
	}

	return nil
}

// listReviews executes a query expected to return review rows.
func (r *ReviewRepository) listReviews(ctx context.Context, query string, args ...any) ([]domain.Review, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]domain.Review, 0)
	for rows.Next() {
		var rev domain.Review
		if err := rows.Scan(
			&rev.ID,
			&rev.PropertyID,
			&rev.PropertyTitle,
			&rev.AgentUID,
			&rev.AgentName,
			&rev.ReviewerUID,
			&rev.ReviewerName,
			&rev.ReviewerEmail,
			&rev.Rating,
			&rev.Body,
			&rev.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, rev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	return reviews, nil
}
