package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/realtora/EstateHub/internal/domain"
	"github.com/realtora/EstateHub/internal/event"
	"github.com/realtora/EstateHub/internal/repository"
	apperrors "github.com/realtora/EstateHub/pkg/errors"
)

// ReviewService implements the review store.
type ReviewService struct {
	reviewRepo   repository.ReviewRepository
	propertyRepo repository.PropertyRepository
	producer     *event.Producer
	logger       *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	propertyRepo repository.PropertyRepository,
	producer *event.Producer,
	logger *slog.Logger,
) *ReviewService {
	return &ReviewService{
		reviewRepo:   reviewRepo,
		propertyRepo: propertyRepo,
		producer:     producer,
		logger:       logger,
	}
}

// CreateReviewInput holds the parameters for posting a review.
type CreateReviewInput struct {
	PropertyID string
	Rating     int
	Body       string
}

// Reviewer identifies the user posting a review.
type Reviewer struct {
	UID   string
	Email string
	Name  string
}

// Create posts a review of a property. Property and reviewer display
// fields are snapshotted at creation; reviews are immutable afterwards.
func (s *ReviewService) Create(ctx context.Context, reviewer Reviewer, input CreateReviewInput) (*domain.Review, error) {
	if input.PropertyID == "" {
		return nil, apperrors.InvalidInput("property id is required")
	}
	if !domain.IsValidRating(input.Rating) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("rating must be between %d and %d", domain.MinRating, domain.MaxRating))
	}
	if input.Body == "" {
		return nil, apperrors.InvalidInput("review body is required")
	}

	property, err := s.propertyRepo.GetByID(ctx, input.PropertyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("property", input.PropertyID)
		}
		return nil, fmt.Errorf("get property for review: %w", err)
	}

	review := &domain.Review{
		ID:            uuid.New().String(),
		PropertyID:    property.ID,
		PropertyTitle: property.Title,
		AgentUID:      property.AgentUID,
		AgentName:     property.AgentName,
		ReviewerUID:   reviewer.UID,
		ReviewerName:  reviewer.Name,
		ReviewerEmail: reviewer.Email,
		Rating:        input.Rating,
		Body:          input.Body,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	if err := s.producer.PublishReviewCreated(ctx, review); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.created event",
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review created",
		slog.String("review_id", review.ID),
		slog.String("property_id", property.ID),
		slog.Int("rating", review.Rating),
	)

	return review, nil
}

// ListByProperty returns all reviews for a property, newest first.
func (s *ReviewService) ListByProperty(ctx context.Context, propertyID string) ([]domain.Review, error) {
	reviews, err := s.reviewRepo.ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("list property reviews: %w", err)
	}
	return reviews, nil
}

// ListLatest returns the most recent reviews across all properties.
func (s *ReviewService) ListLatest(ctx context.Context, limit int) ([]domain.Review, error) {
	reviews, err := s.reviewRepo.ListLatest(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list latest reviews: %w", err)
	}
	return reviews, nil
}

// ListMine returns the reviews written by the given user.
func (s *ReviewService) ListMine(ctx context.Context, reviewerUID string) ([]domain.Review, error) {
	reviews, err := s.reviewRepo.ListByReviewer(ctx, reviewerUID)
	if err != nil {
		return nil, fmt.Errorf("list own reviews: %w", err)
	}
	return reviews, nil
}

// ListAll returns every review. Admin only; enforced at the router.
func (s *ReviewService) ListAll(ctx context.Context) ([]domain.Review, error) {
	reviews, err := s.reviewRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list all reviews: %w", err)
	}
	return reviews, nil
}

// Delete removes a review. Only its author or an admin may delete it.
func (s *ReviewService) Delete(ctx context.Context, actorUID, actorRole, id string) error {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("review", id)
		}
		return fmt.Errorf("get review for delete: %w", err)
	}

	if review.ReviewerUID != actorUID && actorRole != domain.RoleAdmin {
		return apperrors.Forbidden("review belongs to another user")
	}

	if err := s.reviewRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	s.logger.InfoContext(ctx, "review deleted",
		slog.String("review_id", id),
	)

	return nil
}
