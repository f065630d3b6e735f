package repository

import (
	"context"
	"time"

	"github.com/realtora/EstateHub/internal/domain"
)

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Upsert inserts the user if unknown, otherwise refreshes the profile
	// fields and last-login timestamp. The stored role is never changed by
	// an upsert. The bool reports whether a new row was inserted.
	Upsert(ctx context.Context, user *domain.User) (*domain.User, bool, error)

	// GetByUID retrieves a user by their provider-issued UID.
	GetByUID(ctx context.Context, uid string) (*domain.User, error)

	// List returns all users ordered by creation time.
	List(ctx context.Context) ([]domain.User, error)

	// UpdateRole changes a user's role.
	UpdateRole(ctx context.Context, uid, role string) error

	// SetFraud flags or unflags a user as fraudulent.
	SetFraud(ctx context.Context, uid string, isFraud bool) error

	// Delete removes a user from the store.
	Delete(ctx context.Context, uid string) error
}

// PropertyFilter narrows property list queries.
type PropertyFilter struct {
	Location           *string
	VerificationStatus *string
	Status             *string
	AgentUID           *string

	// Sort is "price_asc", "price_desc" or "" (newest first).
	Sort string

	Page    int
	PerPage int
}

// PropertyRepository defines the interface for property persistence operations.
type PropertyRepository interface {
	// Create inserts a new property listing.
	Create(ctx context.Context, p *domain.Property) error

	// GetByID retrieves a property by its ID.
	GetByID(ctx context.Context, id string) (*domain.Property, error)

	// List returns properties matching the filter with the total count.
	List(ctx context.Context, filter PropertyFilter) ([]domain.Property, int, error)

	// ListAdvertised returns verified, unsold, advertised properties.
	ListAdvertised(ctx context.Context, limit int) ([]domain.Property, error)

	// Update modifies an existing property.
	Update(ctx context.Context, p *domain.Property) error

	// Delete removes a property from the store.
	Delete(ctx context.Context, id string) error

	// SetVerificationStatus updates the admin verification status.
	SetVerificationStatus(ctx context.Context, id, status string) error

	// SetAdvertised toggles the advertisement flag.
	SetAdvertised(ctx context.Context, id string, advertised bool) error

	// MarkSold transitions the property to sold, recording the buyer.
	MarkSold(ctx context.Context, id, buyerUID string, soldAt time.Time) error
}

// OfferRepository defines the interface for offer persistence operations.
type OfferRepository interface {
	// Create inserts a new offer.
	Create(ctx context.Context, o *domain.Offer) error

	// GetByID retrieves an offer by its ID.
	GetByID(ctx context.Context, id string) (*domain.Offer, error)

	// ListByBuyer returns all offers placed by the given buyer.
	ListByBuyer(ctx context.Context, buyerUID string) ([]domain.Offer, error)

	// ListByAgentEmail returns all offers on the given agent's properties.
	ListByAgentEmail(ctx context.Context, agentEmail string) ([]domain.Offer, error)

	// ListSoldByAgent returns bought offers for the given agent.
	ListSoldByAgent(ctx context.Context, agentEmail string) ([]domain.Offer, error)

	// TotalSoldByAgent returns the summed amount of the agent's bought offers.
	TotalSoldByAgent(ctx context.Context, agentEmail string) (int64, error)

	// UpdateStatus changes the status of a single offer.
	UpdateStatus(ctx context.Context, id, status string) error

	// Accept marks the offer accepted and rejects every other offer on the
	// same property, regardless of its prior status, in one transaction.
	// It returns the number of sibling offers rejected.
	Accept(ctx context.Context, id, propertyID string) (int, error)

	// MarkBought records a completed purchase on an accepted offer.
	MarkBought(ctx context.Context, id, transactionID string, paidAt time.Time) error
}

// ReviewRepository defines the interface for review persistence operations.
type ReviewRepository interface {
	// Create inserts a new review.
	Create(ctx context.Context, rev *domain.Review) error

	// GetByID retrieves a review by its ID.
	GetByID(ctx context.Context, id string) (*domain.Review, error)

	// ListByProperty returns all reviews for the given property, newest first.
	ListByProperty(ctx context.Context, propertyID string) ([]domain.Review, error)

	// ListLatest returns the most recent reviews across all properties.
	ListLatest(ctx context.Context, limit int) ([]domain.Review, error)

	// ListByReviewer returns all reviews written by the given user.
	ListByReviewer(ctx context.Context, reviewerUID string) ([]domain.Review, error)

	// ListAll returns every review, newest first.
	ListAll(ctx context.Context) ([]domain.Review, error)

	// Delete removes a review from the store.
	Delete(ctx context.Context, id string) error
}
