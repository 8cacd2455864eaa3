package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"inkwell/internal/identity/models"
)

// SessionValidator defines the interface for validating session tokens.
type SessionValidator interface {
	Validate(ctx context.Context, tokenString string) (*models.Principal, error)
}

// Context key for storing the authenticated principal.
type contextKeyPrincipal struct{}

// ContextKeyPrincipal is exported for use in handlers and tests.
var ContextKeyPrincipal = contextKeyPrincipal{}

// GetPrincipal retrieves the authenticated principal from the context.
// Returns nil when the request did not pass RequireAuth.
func GetPrincipal(ctx context.Context) *models.Principal {
	if p, ok := ctx.Value(ContextKeyPrincipal).(*models.Principal); ok {
		return p
	}
	return nil
}

// WithPrincipal injects a principal into a context. Test seam for handler tests
// that do not run the full middleware chain.
func WithPrincipal(ctx context.Context, p *models.Principal) context.Context {
	return context.WithValue(ctx, ContextKeyPrincipal, p)
}

// RequireAuth validates the bearer session token and stores the identity
// projection in the request context. Missing or invalid tokens get a uniform
// 401 with no detail about why validation failed.
func RequireAuth(validator SessionValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			authHeader := r.Header.Get("Authorization")
			const bearerPrefix = "Bearer "

			token, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", GetRequestID(ctx),
				)
				writeAuthError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
				return
			}

			principal, err := validator.Validate(ctx, token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", GetRequestID(ctx),
				)
				writeAuthError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired session")
				return
			}

			ctx = WithPrincipal(ctx, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole enforces that the authenticated principal's role snapshot is a
// member of the explicitly provided allowed set. Call sites always name the
// set; there is no implicit "current user can do everything" path.
// Must be mounted after RequireAuth.
func RequireRole(logger *slog.Logger, allowed ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			principal := GetPrincipal(ctx)
			if principal == nil {
				// RequireAuth was not mounted; refuse rather than assume.
				logger.ErrorContext(ctx, "role check without authenticated principal",
					"request_id", GetRequestID(ctx),
					"path", r.URL.Path,
				)
				writeAuthError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
				return
			}

			if !principal.Role.In(allowed...) {
				logger.WarnContext(ctx, "forbidden - insufficient role",
					"request_id", GetRequestID(ctx),
					"role", principal.Role,
					"path", r.URL.Path,
				)
				writeAuthError(w, http.StatusForbidden, "forbidden", "Insufficient role for this operation")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, status int, code, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + code + `","error_description":"` + description + `"}`))
}
