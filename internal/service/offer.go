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
	"github.com/realtora/EstateHub/internal/event"
	"github.com/realtora/EstateHub/internal/repository"
	apperrors "github.com/realtora/EstateHub/pkg/errors"
)

// Offer response actions.
const (
	OfferActionAccept = "accept"
	OfferActionReject = "reject"
)

// OfferService implements the offer lifecycle state machine.
type OfferService struct {
	offerRepo    repository.OfferRepository
	propertyRepo repository.PropertyRepository
	userRepo     repository.UserRepository
	cache        *cache.PropertyCache
	producer     *event.Producer
	logger       *slog.Logger
}

// NewOfferService creates a new offer service.
func NewOfferService(
	offerRepo repository.OfferRepository,
	propertyRepo repository.PropertyRepository,
	userRepo repository.UserRepository,
	propertyCache *cache.PropertyCache,
	producer *event.Producer,
	logger *slog.Logger,
) *OfferService {
	return &OfferService{
		offerRepo:    offerRepo,
		propertyRepo: propertyRepo,
		userRepo:     userRepo,
		cache:        propertyCache,
		producer:     producer,
		logger:       logger,
	}
}

// CreateOfferInput holds the parameters for placing an offer.
type CreateOfferInput struct {
	PropertyID  string
	Amount      int64
	ClosingDate time.Time
}

// Buyer identifies the user placing or confirming an offer.
type Buyer struct {
	UID   string
	Email string
	Name  string
}

// Create places a pending offer on a property. The amount must fall within
// the property's advertised price range. Property and buyer display fields
// are snapshotted onto the offer at this instant.
func (s *OfferService) Create(ctx context.Context, buyer Buyer, input CreateOfferInput) (*domain.Offer, error) {
	if input.PropertyID == "" {
		return nil, apperrors.InvalidInput("property id is required")
	}
	if input.ClosingDate.IsZero() {
		return nil, apperrors.InvalidInput("closing date is required")
	}

	property, err := s.propertyRepo.GetByID(ctx, input.PropertyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("property", input.PropertyID)
		}
		return nil, fmt.Errorf("get property for offer: %w", err)
	}

	if property.IsSold() {
		return nil, apperrors.StateConflict("property has already been sold")
	}
	if !property.PriceInRange(input.Amount) {
		return nil, apperrors.InvalidInput("offer amount is outside the property price range")
	}

	agent, err := s.userRepo.GetByUID(ctx, property.AgentUID)
	if err != nil {
		return nil, fmt.Errorf("get listing agent: %w", err)
	}

	now := time.Now().UTC()
	offer := &domain.Offer{
		ID:               uuid.New().String(),
		PropertyID:       property.ID,
		PropertyTitle:    property.Title,
		PropertyLocation: property.Location,
		AgentUID:         agent.UID,
		AgentEmail:       agent.Email,
		AgentName:        property.AgentName,
		BuyerUID:         buyer.UID,
		BuyerEmail:       buyer.Email,
		BuyerName:        buyer.Name,
		Amount:           input.Amount,
		ClosingDate:      input.ClosingDate,
		Status:           domain.OfferStatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.offerRepo.Create(ctx, offer); err != nil {
		return nil, fmt.Errorf("create offer: %w", err)
	}

	if err := s.producer.PublishOfferCreated(ctx, offer); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish offer.created event",
			slog.String("offer_id", offer.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "offer created",
		slog.String("offer_id", offer.ID),
		slog.String("property_id", property.ID),
		slog.Int64("amount", offer.Amount),
	)

	return offer, nil
}

// Get retrieves an offer by its ID.
func (s *OfferService) Get(ctx context.Context, id string) (*domain.Offer, error) {
	offer, err := s.offerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("offer", id)
		}
		return nil, fmt.Errorf("get offer: %w", err)
	}
	return offer, nil
}

// ListMine returns the buyer's own offers.
func (s *OfferService) ListMine(ctx context.Context, buyerUID string) ([]domain.Offer, error) {
	offers, err := s.offerRepo.ListByBuyer(ctx, buyerUID)
	if err != nil {
		return nil, fmt.Errorf("list buyer offers: %w", err)
	}
	return offers, nil
}

// ListRequested returns the offers placed on the agent's listings.
func (s *OfferService) ListRequested(ctx context.Context, agentEmail string) ([]domain.Offer, error) {
	offers, err := s.offerRepo.ListByAgentEmail(ctx, agentEmail)
	if err != nil {
		return nil, fmt.Errorf("list requested offers: %w", err)
	}
	return offers, nil
}

// ListSold returns the agent's completed sales.
func (s *OfferService) ListSold(ctx context.Context, agentEmail string) ([]domain.Offer, error) {
	offers, err := s.offerRepo.ListSoldByAgent(ctx, agentEmail)
	if err != nil {
		return nil, fmt.Errorf("list sold offers: %w", err)
	}
	return offers, nil
}

// TotalSold returns the summed amount of the agent's completed sales.
func (s *OfferService) TotalSold(ctx context.Context, agentEmail string) (int64, error) {
	total, err := s.offerRepo.TotalSoldByAgent(ctx, agentEmail)
	if err != nil {
		return 0, fmt.Errorf("total sold: %w", err)
	}
	return total, nil
}

// Respond lets the listing agent accept or reject a pending offer.
// Accepting rejects every other offer on the same property in the
// same transaction; the first accepted offer wins regardless of amounts.
func (s *OfferService) Respond(ctx context.Context, agentEmail, offerID, action string) (*domain.Offer, error) {
	if action != OfferActionAccept && action != OfferActionReject {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid action %q", action))
	}

	offer, err := s.Get(ctx, offerID)
	if err != nil {
		return nil, err
	}

	if offer.AgentEmail != agentEmail {
		return nil, apperrors.Forbidden("offer belongs to another agent")
	}
	if !offer.IsPending() {
		return nil, apperrors.StateConflict("offer already responded")
	}

	now := time.Now().UTC()

	switch action {
	case OfferActionAccept:
		rejected, err := s.offerRepo.Accept(ctx, offer.ID, offer.PropertyID)
		if err != nil {
			return nil, err
		}
		offer.Status = domain.OfferStatusAccepted
		offer.UpdatedAt = now

		if err := s.producer.PublishOfferAccepted(ctx, offer); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish offer.accepted event",
				slog.String("offer_id", offer.ID),
				slog.String("error", err.Error()),
			)
		}

		s.logger.InfoContext(ctx, "offer accepted",
			slog.String("offer_id", offer.ID),
			slog.String("property_id", offer.PropertyID),
			slog.Int("siblings_rejected", rejected),
		)

	case OfferActionReject:
		if err := s.offerRepo.UpdateStatus(ctx, offer.ID, domain.OfferStatusRejected); err != nil {
			return nil, err
		}
		offer.Status = domain.OfferStatusRejected
		offer.UpdatedAt = now

		if err := s.producer.PublishOfferRejected(ctx, offer); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish offer.rejected event",
				slog.String("offer_id", offer.ID),
				slog.String("error", err.Error()),
			)
		}

		s.logger.InfoContext(ctx, "offer rejected",
			slog.String("offer_id", offer.ID),
			slog.String("property_id", offer.PropertyID),
		)
	}

	return offer, nil
}

// MarkBought records a completed purchase after payment confirmation.
// The property's sold transition is a best-effort secondary effect: its
// failure is logged and never fails the confirmed payment.
func (s *OfferService) MarkBought(ctx context.Context, buyerEmail, offerID, transactionID string) (*domain.Offer, error) {
	offer, err := s.Get(ctx, offerID)
	if err != nil {
		return nil, err
	}

	if offer.BuyerEmail != buyerEmail {
		return nil, apperrors.Forbidden("offer belongs to another buyer")
	}

	paidAt := time.Now().UTC()
	if err := s.offerRepo.MarkBought(ctx, offer.ID, transactionID, paidAt); err != nil {
		return nil, err
	}

	offer.Status = domain.OfferStatusBought
	offer.TransactionID = transactionID
	offer.PaidAt = &paidAt
	offer.UpdatedAt = paidAt

	if err := s.propertyRepo.MarkSold(ctx, offer.PropertyID, offer.BuyerUID, paidAt); err != nil {
		s.logger.ErrorContext(ctx, "failed to mark property sold after payment",
			slog.String("offer_id", offer.ID),
			slog.String("property_id", offer.PropertyID),
			slog.String("error", err.Error()),
		)
	} else {
		s.cache.InvalidateAdvertised(ctx)

		if property, err := s.propertyRepo.GetByID(ctx, offer.PropertyID); err == nil {
			if err := s.producer.PublishPropertySold(ctx, property, offer.Amount); err != nil {
				s.logger.ErrorContext(ctx, "failed to publish property.sold event",
					slog.String("property_id", property.ID),
					slog.String("error", err.Error()),
				)
			}
		}
	}

	if err := s.producer.PublishOfferBought(ctx, offer); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish offer.bought event",
			slog.String("offer_id", offer.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "offer bought",
		slog.String("offer_id", offer.ID),
		slog.String("property_id", offer.PropertyID),
		slog.String("transaction_id", transactionID),
	)

	return offer, nil
}
