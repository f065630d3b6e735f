package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/realtora/EstateHub/internal/repository"
	"github.com/realtora/EstateHub/internal/service"
	"github.com/realtora/EstateHub/pkg/httputil"
	"github.com/realtora/EstateHub/pkg/middleware"
	"github.com/realtora/EstateHub/pkg/pagination"
	"github.com/realtora/EstateHub/pkg/validator"
)

// Default and maximum sizes for the advertised-listing strip.
const (
	defaultAdvertisedLimit = 4
	maxAdvertisedLimit     = 20
)

// PropertyHandler exposes the property catalog endpoints.
type PropertyHandler struct {
	properties *service.PropertyService
	logger     *slog.Logger
}

// NewPropertyHandler creates a new property handler.
func NewPropertyHandler(properties *service.PropertyService, logger *slog.Logger) *PropertyHandler {
	return &PropertyHandler{
		properties: properties,
		logger:     logger,
	}
}

type createPropertyRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Location    string `json:"location" validate:"required,max=200"`
	Description string `json:"description" validate:"max=5000"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
	PriceMin    int64  `json:"price_min" validate:"required,gt=0"`
	PriceMax    int64  `json:"price_max" validate:"required,gt=0"`
}

type updatePropertyRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Location    *string `json:"location" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	ImageURL    *string `json:"image_url" validate:"omitempty,url"`
	PriceMin    *int64  `json:"price_min" validate:"omitempty,gt=0"`
	PriceMax    *int64  `json:"price_max" validate:"omitempty,gt=0"`
}

type verifyPropertyRequest struct {
	Status string `json:"status" validate:"required,oneof=pending verified rejected"`
}

type advertisePropertyRequest struct {
	Advertised *bool `json:"advertised" validate:"required"`
}

// Create handles POST /api/properties. Agents list new properties; listings
// start unverified and invisible to the public catalog.
func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPropertyRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	principal := middleware.PrincipalFromContext(r.Context())

	property, err := h.properties.Create(r.Context(), principal.UID, principal.Name, service.CreatePropertyInput{
		Title:       req.Title,
		Location:    req.Location,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		PriceMin:    req.PriceMin,
		PriceMax:    req.PriceMax,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: property})
}

// List handles GET /api/properties. Only verified, unsold listings are
// visible here.
func (h *PropertyHandler) List(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	input := service.ListPropertiesInput{
		Sort:    r.URL.Query().Get("sort"),
		Page:    params.Page,
		PerPage: params.PerPage,
	}
	if location := r.URL.Query().Get("location"); location != "" {
		input.Location = &location
	}

	properties, total, err := h.properties.List(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(properties, total, params.Page, params.PerPage))
}

// ListAll handles GET /api/properties/all. Admins see every listing
// regardless of verification or sale status.
func (h *PropertyHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	filter := repository.PropertyFilter{
		Sort:    r.URL.Query().Get("sort"),
		Page:    params.Page,
		PerPage: params.PerPage,
	}
	if location := r.URL.Query().Get("location"); location != "" {
		filter.Location = &location
	}
	if status := r.URL.Query().Get("verification_status"); status != "" {
		filter.VerificationStatus = &status
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = &status
	}

	properties, total, err := h.properties.ListAll(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(properties, total, params.Page, params.PerPage))
}

// ListAdvertised handles GET /api/properties/advertised.
func (h *PropertyHandler) ListAdvertised(w http.ResponseWriter, r *http.Request) {
	limit := defaultAdvertisedLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= maxAdvertisedLimit {
			limit = v
		}
	}

	properties, err := h.properties.ListAdvertised(r.Context(), limit)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: properties})
}

// ListMine handles GET /api/properties/my-properties. Agents see their own
// listings regardless of status.
func (h *PropertyHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	agentUID := middleware.UserIDFromContext(r.Context())

	properties, err := h.properties.ListByAgent(r.Context(), agentUID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: properties})
}

// Get handles GET /api/properties/{id}.
func (h *PropertyHandler) Get(w http.ResponseWriter, r *http.Request) {
	property, err := h.properties.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: property})
}

// Update handles PUT /api/properties/{id}.
func (h *PropertyHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updatePropertyRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	principal := middleware.PrincipalFromContext(r.Context())

	property, err := h.properties.Update(r.Context(), principal.UID, principal.Role, chi.URLParam(r, "id"), service.UpdatePropertyInput{
		Title:       req.Title,
		Location:    req.Location,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		PriceMin:    req.PriceMin,
		PriceMax:    req.PriceMax,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: property})
}

// Delete handles DELETE /api/properties/{id}.
func (h *PropertyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())

	if err := h.properties.Delete(r.Context(), principal.UID, principal.Role, chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Verify handles PATCH /api/properties/{id}/verify. Admins move listings
// through the verification pipeline.
func (h *PropertyHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyPropertyRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.properties.SetVerificationStatus(r.Context(), id, req.Status); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{
		"id":                  id,
		"verification_status": req.Status,
	}})
}

// Advertise handles PATCH /api/properties/{id}/advertise.
func (h *PropertyHandler) Advertise(w http.ResponseWriter, r *http.Request) {
	var req advertisePropertyRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.properties.SetAdvertised(r.Context(), id, *req.Advertised); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{
		"id":            id,
		"is_advertised": *req.Advertised,
	}})
}
