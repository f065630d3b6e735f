package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/realtora/EstateHub/internal/cache"
	"github.com/realtora/EstateHub/internal/domain"
	"github.com/realtora/EstateHub/internal/repository"
	apperrors "github.com/realtora/EstateHub/pkg/errors"
	"github.com/realtora/EstateHub/pkg/slug"
)

// PropertyService implements the business logic for the property catalog.
type PropertyService struct {
	propertyRepo repository.PropertyRepository
	cache        *cache.PropertyCache
	logger       *slog.Logger
}

// NewPropertyService creates a new property service.
func NewPropertyService(
	propertyRepo repository.PropertyRepository,
	propertyCache *cache.PropertyCache,
	logger *slog.Logger,
) *PropertyService {
	return &PropertyService{
		propertyRepo: propertyRepo,
		cache:        propertyCache,
		logger:       logger,
	}
}

// CreatePropertyInput holds the parameters for listing a property.
type CreatePropertyInput struct {
	Title       string
	Location    string
	Description string
	ImageURL    string
	PriceMin    int64
	PriceMax    int64
}

// UpdatePropertyInput holds the parameters for updating a property listing.
type UpdatePropertyInput struct {
	Title       *string
	Location    *string
	Description *string
	ImageURL    *string
	PriceMin    *int64
	PriceMax    *int64
}

// ListPropertiesInput narrows the public property listing.
type ListPropertiesInput struct {
	Location *string
	Sort     string
	Page     int
	PerPage  int
}

// Create lists a new property for the given agent. New listings start
// unverified and unadvertised.
func (s *PropertyService) Create(ctx context.Context, agentUID, agentName string, input CreatePropertyInput) (*domain.Property, error) {
	if input.Title == "" {
		return nil, apperrors.InvalidInput("title is required")
	}
	if input.Location == "" {
		return nil, apperrors.InvalidInput("location is required")
	}
	if input.PriceMin <= 0 || input.PriceMax <= 0 {
		return nil, apperrors.InvalidInput("price range must be positive")
	}
	if input.PriceMin > input.PriceMax {
		return nil, apperrors.InvalidInput("minimum price must not exceed maximum price")
	}

	now := time.Now().UTC()
	property := &domain.Property{
		ID:                 uuid.New().String(),
		Title:              input.Title,
		Slug:               slug.Generate(input.Title),
		Location:           input.Location,
		Description:        input.Description,
		ImageURL:           input.ImageURL,
		PriceMin:           input.PriceMin,
		PriceMax:           input.PriceMax,
		AgentUID:           agentUID,
		AgentName:          agentName,
		VerificationStatus: domain.VerificationPending,
		Status:             domain.PropertyStatusActive,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.propertyRepo.Create(ctx, property); err != nil {
		return nil, fmt.Errorf("create property: %w", err)
	}

	s.logger.InfoContext(ctx, "property listed",
		slog.String("property_id", property.ID),
		slog.String("agent_uid", agentUID),
	)

	return property, nil
}

// Get retrieves a property by its ID.
func (s *PropertyService) Get(ctx context.Context, id string) (*domain.Property, error) {
	property, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("property", id)
		}
		return nil, fmt.Errorf("get property: %w", err)
	}
	return property, nil
}

// List returns the public catalog: verified, unsold listings only.
func (s *PropertyService) List(ctx context.Context, input ListPropertiesInput) ([]domain.Property, int, error) {
	verified := domain.VerificationVerified
	active := domain.PropertyStatusActive

	filter := repository.PropertyFilter{
		Location:           input.Location,
		VerificationStatus: &verified,
		Status:             &active,
		Sort:               input.Sort,
		Page:               input.Page,
		PerPage:            input.PerPage,
	}

	properties, total, err := s.propertyRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list properties: %w", err)
	}

	return properties, total, nil
}

// ListAll returns properties without the public visibility filter.
// Admin only; enforced at the router.
func (s *PropertyService) ListAll(ctx context.Context, filter repository.PropertyFilter) ([]domain.Property, int, error) {
	properties, total, err := s.propertyRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list all properties: %w", err)
	}
	return properties, total, nil
}

// ListByAgent returns the given agent's listings regardless of status.
func (s *PropertyService) ListByAgent(ctx context.Context, agentUID string) ([]domain.Property, error) {
	filter := repository.PropertyFilter{
		AgentUID: &agentUID,
		PerPage:  100,
	}

	properties, _, err := s.propertyRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list agent properties: %w", err)
	}

	return properties, nil
}

// ListAdvertised returns the advertised-listing strip, served from cache
// when possible.
func (s *PropertyService) ListAdvertised(ctx context.Context, limit int) ([]domain.Property, error) {
	if cached, err := s.cache.GetAdvertised(ctx); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.WarnContext(ctx, "advertised cache read failed",
			slog.String("error", err.Error()),
		)
	}

	properties, err := s.propertyRepo.ListAdvertised(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list advertised properties: %w", err)
	}

	if err := s.cache.SetAdvertised(ctx, properties); err != nil {
		s.logger.WarnContext(ctx, "advertised cache write failed",
			slog.String("error", err.Error()),
		)
	}

	return properties, nil
}

// Update modifies a listing. Only the owning agent or an admin may update.
func (s *PropertyService) Update(ctx context.Context, actorUID, actorRole, id string, input UpdatePropertyInput) (*domain.Property, error) {
	property, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if property.AgentUID != actorUID && actorRole != domain.RoleAdmin {
		return nil, apperrors.Forbidden("property belongs to another agent")
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, apperrors.InvalidInput("title must not be empty")
		}
		property.Title = *input.Title
		property.Slug = slug.Generate(*input.Title)
	}
	if input.Location != nil {
		if *input.Location == "" {
			return nil, apperrors.InvalidInput("location must not be empty")
		}
		property.Location = *input.Location
	}
	if input.Description != nil {
		property.Description = *input.Description
	}
	if input.ImageURL != nil {
		property.ImageURL = *input.ImageURL
	}
	if input.PriceMin != nil {
		property.PriceMin = *input.PriceMin
	}
	if input.PriceMax != nil {
		property.PriceMax = *input.PriceMax
	}
	if property.PriceMin <= 0 || property.PriceMin > property.PriceMax {
		return nil, apperrors.InvalidInput("invalid price range")
	}

	if err := s.propertyRepo.Update(ctx, property); err != nil {
		return nil, fmt.Errorf("update property: %w", err)
	}

	s.cache.InvalidateAdvertised(ctx)

	s.logger.InfoContext(ctx, "property updated",
		slog.String("property_id", id),
	)

	return property, nil
}

// Delete removes a listing. Only the owning agent or an admin may delete.
func (s *PropertyService) Delete(ctx context.Context, actorUID, actorRole, id string) error {
	property, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if property.AgentUID != actorUID && actorRole != domain.RoleAdmin {
		return apperrors.Forbidden("property belongs to another agent")
	}

	if err := s.propertyRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete property: %w", err)
	}

	s.cache.InvalidateAdvertised(ctx)

	s.logger.InfoContext(ctx, "property deleted",
		slog.String("property_id", id),
	)

	return nil
}

// SetVerificationStatus updates the admin verification status.
func (s *PropertyService) SetVerificationStatus(ctx context.Context, id, status string) error {
	if !domain.IsValidVerificationStatus(status) {
		return apperrors.InvalidInput(fmt.Sprintf("invalid verification status %q", status))
	}

	if err := s.propertyRepo.SetVerificationStatus(ctx, id, status); err != nil {
		return fmt.Errorf("set verification status: %w", err)
	}

	s.cache.InvalidateAdvertised(ctx)

	s.logger.InfoContext(ctx, "property verification updated",
		slog.String("property_id", id),
		slog.String("status", status),
	)

	return nil
}

// SetAdvertised toggles the advertisement flag. Only verified, unsold
// listings can be advertised.
func (s *PropertyService) SetAdvertised(ctx context.Context, id string, advertised bool) error {
	if advertised {
		property, err := s.Get(ctx, id)
		if err != nil {
			return err
		}
		if property.VerificationStatus != domain.VerificationVerified {
			return apperrors.StateConflict("only verified properties can be advertised")
		}
		if property.IsSold() {
			return apperrors.StateConflict("sold properties cannot be advertised")
		}
	}

	if err := s.propertyRepo.SetAdvertised(ctx, id, advertised); err != nil {
		return fmt.Errorf("set advertised flag: %w", err)
	}

	s.cache.InvalidateAdvertised(ctx)

	s.logger.InfoContext(ctx, "property advertisement updated",
		slog.String("property_id", id),
		slog.Bool("advertised", advertised),
	)

	return nil
}
