package provider

import (
	"context"
)

// IntentInput holds the parameters for creating a payment intent.
// Amount is expressed in the currency's minor unit (cents for USD).
type IntentInput struct {
	Amount      int64
	Currency    string
	Description string
	Metadata    map[string]string
}

// Intent is a payment intent as reported by the provider.
type Intent struct {
	ID           string
	ClientSecret string
	Amount       int64
	Currency     string
	Status       string // e.g. "requires_payment_method", "succeeded"
}

// Provider defines the interface for payment provider integrations.
type Provider interface {
	// Name returns the provider name (e.g., "mock", "stripe").
	Name() string

	// CreateIntent creates a payment intent with the provider.
	CreateIntent(ctx context.Context, input *IntentInput) (*Intent, error)

	// RetrieveIntent fetches the current state of a payment intent.
	RetrieveIntent(ctx context.Context, id string) (*Intent, error)
}
