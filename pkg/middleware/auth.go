package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type contextKeyType string

const principalKey contextKeyType = "principal"

// Principal is the authenticated caller attached to the request context.
type Principal struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// PrincipalResolver verifies a bearer token and resolves it to a Principal.
// The service injects its own logic here (token verification plus user
// lookup or provisioning).
type PrincipalResolver func(ctx context.Context, token string) (*Principal, error)

// Authenticate validates the bearer token and injects the resolved Principal
// into the request context. A nil resolver means the identity provider is not
// configured; every guarded request then answers 503.
func Authenticate(resolve PrincipalResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if resolve == nil {
				writeMiddlewareError(w, http.StatusServiceUnavailable,
					"SERVICE_UNAVAILABLE", "identity provider is not configured")
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeMiddlewareError(w, http.StatusUnauthorized,
					"UNAUTHORIZED", "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				writeMiddlewareError(w, http.StatusUnauthorized,
					"UNAUTHORIZED", "invalid authorization header format")
				return
			}

			principal, err := resolve(r.Context(), parts[1])
			if err != nil {
				writeMiddlewareError(w, http.StatusUnauthorized,
					"UNAUTHORIZED", "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole checks that the authenticated principal has one of the given
// roles. It is the single authorization policy point; handlers never branch
// on roles themselves.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	roleSet := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		roleSet[r] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := PrincipalFromContext(r.Context())
			if principal == nil {
				writeMiddlewareError(w, http.StatusUnauthorized,
					"UNAUTHORIZED", "authentication required")
				return
			}
			if _, ok := roleSet[principal.Role]; !ok {
				writeMiddlewareError(w, http.StatusForbidden,
					"FORBIDDEN", "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// PrincipalFromContext extracts the authenticated principal, or nil.
func PrincipalFromContext(ctx context.Context) *Principal {
	if p, ok := ctx.Value(principalKey).(*Principal); ok {
		return p
	}
	return nil
}

// UserIDFromContext extracts the authenticated user's UID, or "".
func UserIDFromContext(ctx context.Context) string {
	if p := PrincipalFromContext(ctx); p != nil {
		return p.UID
	}
	return ""
}

// RoleFromContext extracts the authenticated user's role, or "".
func RoleFromContext(ctx context.Context) string {
	if p := PrincipalFromContext(ctx); p != nil {
		return p.Role
	}
	return ""
}

// WithPrincipal returns a context carrying the given principal. Used by tests
// and by internal callers that bypass the HTTP middleware.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

func writeMiddlewareError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
