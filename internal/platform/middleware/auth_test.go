package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	"inkwell/internal/identity/models"
	id "inkwell/pkg/domain"
	dErrors "inkwell/pkg/domain-errors"
)

// stubValidator returns a fixed principal or error, standing in for the
// session service so the middleware can be tested in isolation.
type stubValidator struct {
	principal *models.Principal
	err       error
}

func (v *stubValidator) Validate(context.Context, string) (*models.Principal, error) {
	return v.principal, v.err
}

type AuthMiddlewareSuite struct {
	suite.Suite
	logger *slog.Logger
}

func TestAuthMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareSuite))
}

func (s *AuthMiddlewareSuite) SetupSuite() {
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *AuthMiddlewareSuite) serve(handler http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func (s *AuthMiddlewareSuite) okHandler(sawPrincipal **models.Principal) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*sawPrincipal = GetPrincipal(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func (s *AuthMiddlewareSuite) TestRequireAuth() {
	principal := &models.Principal{UserID: id.NewUserID(), Role: models.RoleEditor}

	s.Run("no Authorization header - 401", func() {
		var saw *models.Principal
		h := RequireAuth(&stubValidator{principal: principal}, s.logger)(s.okHandler(&saw))

		rec := s.serve(h, "")
		s.Equal(http.StatusUnauthorized, rec.Code)
		s.Nil(saw)
	})

	s.Run("invalid token - 401", func() {
		var saw *models.Principal
		v := &stubValidator{err: dErrors.New(dErrors.CodeUnauthorized, "invalid session token")}
		h := RequireAuth(v, s.logger)(s.okHandler(&saw))

		rec := s.serve(h, "Bearer bogus")
		s.Equal(http.StatusUnauthorized, rec.Code)
		s.Nil(saw)
	})

	s.Run("valid token - principal in context", func() {
		var saw *models.Principal
		h := RequireAuth(&stubValidator{principal: principal}, s.logger)(s.okHandler(&saw))

		rec := s.serve(h, "Bearer good")
		s.Equal(http.StatusOK, rec.Code)
		s.Require().NotNil(saw)
		s.Equal(principal.UserID, saw.UserID)
		s.Equal(models.RoleEditor, saw.Role)
	})
}

func (s *AuthMiddlewareSuite) TestRequireRole() {
	auth := func(role models.Role, allowed ...models.Role) *httptest.ResponseRecorder {
		principal := &models.Principal{UserID: id.NewUserID(), Role: role}
		var saw *models.Principal
		h := RequireAuth(&stubValidator{principal: principal}, s.logger)(
			RequireRole(s.logger, allowed...)(s.okHandler(&saw)),
		)
		return s.serve(h, "Bearer good")
	}

	s.Run("admin allowed on admin-only - 200", func() {
		rec := auth(models.RoleAdmin, models.RoleAdmin)
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("editor on admin-only - 403", func() {
		rec := auth(models.RoleEditor, models.RoleAdmin)
		s.Equal(http.StatusForbidden, rec.Code)
	})

	s.Run("viewer allowed in wider set - 200", func() {
		rec := auth(models.RoleViewer, models.RoleAdmin, models.RoleEditor, models.RoleViewer)
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("role check without auth middleware - 401", func() {
		var saw *models.Principal
		h := RequireRole(s.logger, models.RoleAdmin)(s.okHandler(&saw))
		rec := s.serve(h, "")
		s.Equal(http.StatusUnauthorized, rec.Code)
	})
}
