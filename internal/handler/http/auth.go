package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/realtora/EstateHub/internal/auth"
	"github.com/realtora/EstateHub/internal/service"
	apperrors "github.com/realtora/EstateHub/pkg/errors"
	"github.com/realtora/EstateHub/pkg/httputil"
	"github.com/realtora/EstateHub/pkg/middleware"
	"github.com/realtora/EstateHub/pkg/validator"
)

// AuthHandler exposes the identity endpoints.
type AuthHandler struct {
	verifier auth.Verifier
	identity *service.IdentityService
	logger   *slog.Logger
}

// NewAuthHandler creates a new auth handler. A nil verifier means the
// identity provider is not configured; login then answers 503.
func NewAuthHandler(verifier auth.Verifier, identity *service.IdentityService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		verifier: verifier,
		identity: identity,
		logger:   logger,
	}
}

type loginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

// Login handles POST /api/auth/login. It verifies the identity-provider
// token and resolves or provisions the account behind it.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if h.verifier == nil {
		httputil.WriteError(w, r, apperrors.Unavailable("identity provider is not configured"), h.logger)
		return
	}

	identity, err := h.verifier.Verify(r.Context(), req.IDToken)
	if err != nil {
		httputil.WriteError(w, r, apperrors.Unauthorized("invalid or expired identity token"), h.logger)
		return
	}

	user, err := h.identity.ResolveOrProvision(r.Context(), identity)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: user})
}

// Me handles GET /api/auth/me. It returns the authenticated caller's account.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UserIDFromContext(r.Context())

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
