package http

import (
	"log/slog"
	"net/http"

	"github.com/realtora/EstateHub/internal/service"
	"github.com/realtora/EstateHub/pkg/httputil"
	"github.com/realtora/EstateHub/pkg/middleware"
	"github.com/realtora/EstateHub/pkg/validator"
)

// PaymentHandler exposes the payment bridge endpoints.
type PaymentHandler struct {
	payments *service.PaymentService
	logger   *slog.Logger
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(payments *service.PaymentService, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{
		payments: payments,
		logger:   logger,
	}
}

type createIntentRequest struct {
	OfferID string `json:"offer_id" validate:"required,uuid"`
	Amount  int64  `json:"amount" validate:"required,gt=0"`
}

type confirmPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id" validate:"required"`
	OfferID         string `json:"offer_id" validate:"required,uuid"`
}

// CreateIntent handles POST /api/payment/create-payment-intent. The buyer of
// an accepted offer mints a provider payment intent for the offer amount.
func (h *PaymentHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	var req createIntentRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	principal := middleware.PrincipalFromContext(r.Context())

	intent, err := h.payments.CreateIntent(r.Context(), principal.Email, service.CreateIntentInput{
		OfferID: req.OfferID,
		Amount:  req.Amount,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: intent})
}

// Confirm handles POST /api/payment/confirm-payment. It checks the intent
// has succeeded with the provider and completes the purchase.
func (h *PaymentHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req confirmPaymentRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	principal := middleware.PrincipalFromContext(r.Context())

	offer, err := h.payments.ConfirmPayment(r.Context(), principal.Email, service.ConfirmPaymentInput{
		PaymentIntentID: req.PaymentIntentID,
		OfferID:         req.OfferID,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: offer})
}
