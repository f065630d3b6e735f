package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/realtora/EstateHub/internal/provider"
	apperrors "github.com/realtora/EstateHub/pkg/errors"
	"github.com/realtora/EstateHub/pkg/httpclient"
)

// Provider talks to the Stripe PaymentIntents API over a circuit-breaking
// HTTP client. Amounts are passed through untouched; callers are expected
// to supply them in the currency's minor unit already.
type Provider struct {
	client    *httpclient.CircuitBreakerClient
	apiBase   string
	secretKey string
	logger    *slog.Logger
}

// NewProvider creates a Stripe-backed payment provider.
func NewProvider(client *httpclient.CircuitBreakerClient, apiBase, secretKey string, logger *slog.Logger) *Provider {
	return &Provider{
		client:    client,
		apiBase:   strings.TrimSuffix(apiBase, "/"),
		secretKey: secretKey,
		logger:    logger,
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "stripe"
}

// intentResponse mirrors the subset of the PaymentIntent object we consume.
type intentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreateIntent creates a PaymentIntent with automatic payment methods enabled.
func (p *Provider) CreateIntent(ctx context.Context, input *provider.IntentInput) (*provider.Intent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(input.Amount, 10))
	form.Set("currency", input.Currency)
	form.Set("automatic_payment_methods[enabled]", "true")
	if input.Description != "" {
		form.Set("description", input.Description)
	}
	for k, v := range input.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.apiBase+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create payment intent request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+p.secretKey)

	return p.doIntent(ctx, req)
}

// RetrieveIntent fetches the current state of a PaymentIntent.
func (p *Provider) RetrieveIntent(ctx context.Context, id string) (*provider.Intent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		p.apiBase+"/v1/payment_intents/"+url.PathEscape(id), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create retrieve intent request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.secretKey)

	return p.doIntent(ctx, req)
}

// doIntent executes the request and decodes the PaymentIntent response.
func (p *Provider) doIntent(ctx context.Context, req *http.Request) (*provider.Intent, error) {
	resp, err := p.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("call payment provider: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read payment provider response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr errorResponse
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
			p.logger.ErrorContext(ctx, "payment provider returned error",
				slog.Int("status", resp.StatusCode),
				slog.String("code", apiErr.Error.Code),
				slog.String("message", apiErr.Error.Message),
			)
			if resp.StatusCode == http.StatusNotFound {
				return nil, apperrors.NotFound("payment intent", path.Base(req.URL.Path))
			}
			return nil, apperrors.PaymentFailed(apiErr.Error.Message)
		}
		return nil, apperrors.PaymentFailed(fmt.Sprintf("payment provider returned status %d", resp.StatusCode))
	}

	var out intentResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode payment intent: %w", err)
	}

	return &provider.Intent{
		ID:           out.ID,
		ClientSecret: out.ClientSecret,
		Amount:       out.Amount,
		Currency:     out.Currency,
		Status:       out.Status,
	}, nil
}
