package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/realtora/EstateHub/internal/service"
	apperrors "github.com/realtora/EstateHub/pkg/errors"
	"github.com/realtora/EstateHub/pkg/httputil"
	"github.com/realtora/EstateHub/pkg/validator"
)

// UserHandler exposes the admin user-management endpoints.
type UserHandler struct {
	identity *service.IdentityService
	logger   *slog.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(identity *service.IdentityService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		identity: identity,
		logger:   logger,
	}
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user agent admin"`
}

type setFraudRequest struct {
	IsFraud *bool `json:"is_fraud" validate:"required"`
}

// List handles GET /api/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.identity.ListUsers(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: users})
}

// Get handles GET /api/users/{uid}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")

	user, err := h.identity.GetUser(r.Context(), uid)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			err = apperrors.NotFound("user", uid)
		}
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: user})
}

// UpdateRole handles PATCH /api/users/{uid}/role.
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var req updateRoleRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	uid := chi.URLParam(r, "uid")
	if err := h.identity.UpdateRole(r.Context(), uid, req.Role); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{
		"uid":  uid,
		"role": req.Role,
	}})
}

// SetFraud handles PATCH /api/users/{uid}/fraud. Flagged users cannot
// authenticate until the flag is lifted.
func (h *UserHandler) SetFraud(w http.ResponseWriter, r *http.Request) {
	var req setFraudRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	uid := chi.URLParam(r, "uid")
	if err := h.identity.SetFraud(r.Context(), uid, *req.IsFraud); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{
		"uid":      uid,
		"is_fraud": *req.IsFraud,
	}})
}

// Delete handles DELETE /api/users/{uid}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.identity.DeleteUser(r.Context(), chi.URLParam(r, "uid")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
