package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/realtora/EstateHub/internal/domain"
	"github.com/realtora/EstateHub/internal/provider"
	apperrors "github.com/realtora/EstateHub/pkg/errors"
)

// minorUnitFactor converts a whole-currency amount to the provider's
// minor unit (cents for USD).
const minorUnitFactor = 100

// PaymentService bridges accepted offers to the external payment provider.
type PaymentService struct {
	offers   *OfferService
	provider provider.Provider
	currency string
	logger   *slog.Logger
}

// NewPaymentService creates a new payment service. A nil provider means the
// payment feature is not configured; operations then fail with a service
// unavailable error instead of crashing at startup.
func NewPaymentService(
	offers *OfferService,
	paymentProvider provider.Provider,
	currency string,
	logger *slog.Logger,
) *PaymentService {
	return &PaymentService{
		offers:   offers,
		provider: paymentProvider,
		currency: currency,
		logger:   logger,
	}
}

// CreateIntentInput holds the parameters for minting a payment intent.
type CreateIntentInput struct {
	OfferID string
	Amount  int64
}

// PaymentIntent is the client-facing result of creating an intent.
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
}

// ConfirmPaymentInput holds the parameters for confirming a payment.
type ConfirmPaymentInput struct {
	PaymentIntentID string
	OfferID         string
}

// CreateIntent mints a payment intent for an accepted offer. The amount is
// converted to minor currency units; no other computation happens here.
func (s *PaymentService) CreateIntent(ctx context.Context, buyerEmail string, input CreateIntentInput) (*PaymentIntent, error) {
	if s.provider == nil {
		return nil, apperrors.Unavailable("payment provider is not configured")
	}
	if input.OfferID == "" {
		return nil, apperrors.InvalidInput("offer id is required")
	}
	if input.Amount <= 0 {
		return nil, apperrors.InvalidInput("amount must be positive")
	}

	offer, err := s.offers.Get(ctx, input.OfferID)
	if err != nil {
		return nil, err
	}

	if offer.BuyerEmail != buyerEmail {
		return nil, apperrors.Forbidden("offer belongs to another buyer")
	}
	if offer.Status != domain.OfferStatusAccepted {
		return nil, apperrors.StateConflict("offer is not in accepted state")
	}
	if input.Amount != offer.Amount {
		return nil, apperrors.InvalidInput("amount does not match the accepted offer")
	}

	intent, err := s.provider.CreateIntent(ctx, &provider.IntentInput{
		Amount:      input.Amount * minorUnitFactor,
		Currency:    s.currency,
		Description: fmt.Sprintf("Offer on %s", offer.PropertyTitle),
		Metadata: map[string]string{
			"offer_id":    offer.ID,
			"buyer_email": offer.BuyerEmail,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	s.logger.InfoContext(ctx, "payment intent created",
		slog.String("offer_id", offer.ID),
		slog.String("intent_id", intent.ID),
		slog.Int64("amount_minor", intent.Amount),
	)

	return &PaymentIntent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
	}, nil
}

// ConfirmPayment verifies a payment intent has succeeded with the provider
// and drives the offer's terminal bought transition. A repeated confirmation
// fails on the offer's status guard rather than being silently accepted.
func (s *PaymentService) ConfirmPayment(ctx context.Context, buyerEmail string, input ConfirmPaymentInput) (*domain.Offer, error) {
	if s.provider == nil {
		return nil, apperrors.Unavailable("payment provider is not configured")
	}
	if input.PaymentIntentID == "" {
		return nil, apperrors.InvalidInput("payment intent id is required")
	}
	if input.OfferID == "" {
		return nil, apperrors.InvalidInput("offer id is required")
	}

	intent, err := s.provider.RetrieveIntent(ctx, input.PaymentIntentID)
	if err != nil {
		return nil, fmt.Errorf("retrieve payment intent: %w", err)
	}

	if intent.Status != "succeeded" {
		return nil, apperrors.PaymentIncomplete(fmt.Sprintf("payment intent status is %q", intent.Status))
	}

	offer, err := s.offers.MarkBought(ctx, buyerEmail, input.OfferID, intent.ID)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "payment confirmed",
		slog.String("offer_id", offer.ID),
		slog.String("intent_id", intent.ID),
	)

	return offer, nil
}
