package mock

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/realtora/EstateHub/internal/provider"
	apperrors "github.com/realtora/EstateHub/pkg/errors"
)

// Provider is a mock payment provider that always succeeds.
// It is intended for development and testing purposes.
type Provider struct {
	mu      sync.Mutex
	intents map[string]*provider.Intent
}

// NewProvider creates a new mock payment provider.
func NewProvider() *Provider {
	return &Provider{intents: make(map[string]*provider.Intent)}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "mock"
}

// CreateIntent creates an intent that is immediately payable.
func (p *Provider) CreateIntent(_ context.Context, input *provider.IntentInput) (*provider.Intent, error) {
	id := "mock_pi_" + uuid.New().String()
	intent := &provider.Intent{
		ID:           id,
		ClientSecret: id + "_secret_" + uuid.New().String(),
		Amount:       input.Amount,
		Currency:     input.Currency,
		Status:       "requires_payment_method",
	}

	p.mu.Lock()
	p.intents[id] = intent
	p.mu.Unlock()

	return intent, nil
}

// RetrieveIntent reports every known intent as succeeded, so confirmation
// flows can be exercised without a real payment.
func (p *Provider) RetrieveIntent(_ context.Context, id string) (*provider.Intent, error) {
	p.mu.Lock()
	intent, ok := p.intents[id]
	p.mu.Unlock()

	if !ok {
		// Tolerate intents created by a previous process.
		if !strings.HasPrefix(id, "mock_pi_") {
			return nil, apperrors.NotFound("payment intent", id)
		}
		intent = &provider.Intent{ID: id, Currency: "usd"}
	}

	out := *intent
	out.Status = "succeeded"
	return &out, nil
}
