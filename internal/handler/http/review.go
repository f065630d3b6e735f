package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/realtora/EstateHub/internal/service"
	"github.com/realtora/EstateHub/pkg/httputil"
	"github.com/realtora/EstateHub/pkg/middleware"
	"github.com/realtora/EstateHub/pkg/validator"
)

// Default and maximum sizes for the latest-review strip.
const (
	defaultLatestReviews = 6
	maxLatestReviews     = 50
)

// ReviewHandler exposes the review endpoints.
type ReviewHandler struct {
	reviews *service.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(reviews *service.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviews: reviews,
		logger:  logger,
	}
}

type createReviewRequest struct {
	PropertyID string `json:"property_id" validate:"required,uuid"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	Body       string `json:"body" validate:"required,max=5000"`
}

// Create handles POST /api/reviews.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createReviewRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	principal := middleware.PrincipalFromContext(r.Context())
	reviewer := service.Reviewer{
		UID:   principal.UID,
		Email: principal.Email,
		Name:  principal.Name,
	}

	review, err := h.reviews.Create(r.Context(), reviewer, service.CreateReviewInput{
		PropertyID: req.PropertyID,
		Rating:     req.Rating,
		Body:       req.Body,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: review})
}

// ListByProperty handles GET /api/reviews/property/{id}.
func (h *ReviewHandler) ListByProperty(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.ListByProperty(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: reviews})
}

// ListLatest handles GET /api/reviews/latest.
func (h *ReviewHandler) ListLatest(w http.ResponseWriter, r *http.Request) {
	limit := defaultLatestReviews
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= maxLatestReviews {
			limit = v
		}
	}

	reviews, err := h.reviews.ListLatest(r.Context(), limit)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: reviews})
}

// ListMine handles GET /api/reviews/my-reviews.
func (h *ReviewHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	reviewerUID := middleware.UserIDFromContext(r.Context())

	reviews, err := h.reviews.ListMine(r.Context(), reviewerUID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: reviews})
}

// ListAll handles GET /api/reviews/all. Admin moderation view.
func (h *ReviewHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.ListAll(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: reviews})
}

// Delete handles DELETE /api/reviews/{id}. Authors delete their own reviews;
// admins may delete any.
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())

	if err := h.reviews.Delete(r.Context(), principal.UID, principal.Role, chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
