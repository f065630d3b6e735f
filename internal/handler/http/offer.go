package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/realtora/EstateHub/internal/service"
	"github.com/realtora/EstateHub/pkg/httputil"
	"github.com/realtora/EstateHub/pkg/middleware"
	"github.com/realtora/EstateHub/pkg/validator"
)

// OfferHandler exposes the offer lifecycle endpoints.
type OfferHandler struct {
	offers *service.OfferService
	logger *slog.Logger
}

// NewOfferHandler creates a new offer handler.
func NewOfferHandler(offers *service.OfferService, logger *slog.Logger) *OfferHandler {
	return &OfferHandler{
		offers: offers,
		logger: logger,
	}
}

type createOfferRequest struct {
	PropertyID  string    `json:"property_id" validate:"required,uuid"`
	Amount      int64     `json:"amount" validate:"required,gt=0"`
	ClosingDate time.Time `json:"closing_date" validate:"required"`
}

type respondOfferRequest struct {
	Action string `json:"action" validate:"required,oneof=accept reject"`
}

// Create handles POST /api/offers. Buyers place pending offers on properties.
func (h *OfferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOfferRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	principal := middleware.PrincipalFromContext(r.Context())
	buyer := service.Buyer{
		UID:   principal.UID,
		Email: principal.Email,
		Name:  principal.Name,
	}

	offer, err := h.offers.Create(r.Context(), buyer, service.CreateOfferInput{
		PropertyID:  req.PropertyID,
		Amount:      req.Amount,
		ClosingDate: req.ClosingDate,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: offer})
}

// Get handles GET /api/offers/{id}.
func (h *OfferHandler) Get(w http.ResponseWriter, r *http.Request) {
	offer, err := h.offers.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: offer})
}

// ListMine handles GET /api/offers/my-offers. Buyers see the offers they
// have placed.
func (h *OfferHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	buyerUID := middleware.UserIDFromContext(r.Context())

	offers, err := h.offers.ListMine(r.Context(), buyerUID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: offers})
}

// ListRequested handles GET /api/offers/requested. Agents see the offers
// placed on their listings.
func (h *OfferHandler) ListRequested(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())

	offers, err := h.offers.ListRequested(r.Context(), principal.Email)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: offers})
}

// ListSold handles GET /api/offers/sold. Agents see their completed sales.
func (h *OfferHandler) ListSold(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())

	offers, err := h.offers.ListSold(r.Context(), principal.Email)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: offers})
}

// TotalSold handles GET /api/offers/sold/total.
func (h *OfferHandler) TotalSold(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())

	total, err := h.offers.TotalSold(r.Context(), principal.Email)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]int64{
		"total": total,
	}})
}

// Respond handles PATCH /api/offers/{id}/respond. The listing agent accepts
// or rejects a pending offer; accepting rejects every sibling offer
// on the same property.
func (h *OfferHandler) Respond(w http.ResponseWriter, r *http.Request) {
	var req respondOfferRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	principal := middleware.PrincipalFromContext(r.Context())

	offer, err := h.offers.Respond(r.Context(), principal.Email, chi.URLParam(r, "id"), req.Action)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: offer})
}
