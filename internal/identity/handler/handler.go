package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/audit"
	"inkwell/internal/identity/models"
	"inkwell/internal/platform/middleware"
	id "inkwell/pkg/domain"
	dErrors "inkwell/pkg/domain-errors"
	"inkwell/pkg/httputil"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks

// IdentityService is the application surface the transport layer calls.
type IdentityService interface {
	Authenticate(ctx context.Context, req models.LoginRequest, origin audit.Origin) (*models.LoginResult, error)
	CreateUser(ctx context.Context, actor *models.Principal, req models.CreateUserRequest, origin audit.Origin) (*models.User, error)
	UpdateRole(ctx context.Context, actor *models.Principal, userID id.UserID, req models.UpdateRoleRequest, origin audit.Origin) (*models.User, error)
	DeactivateUser(ctx context.Context, actor *models.Principal, userID id.UserID, origin audit.Origin) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
}

type Handler struct {
	service IdentityService
	logger  *slog.Logger
}

func NewHandler(service IdentityService, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// AuthRoutes is the public login surface; it carries no auth middleware.
func (h *Handler) AuthRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/login", h.Login)
	return r
}

// UserRoutes is the admin-only account management surface. Role enforcement
// is mounted by the caller.
func (h *Handler) UserRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListUsers)
	r.Post("/", h.CreateUser)
	r.Put("/{userID}/role", h.UpdateRole)
	r.Delete("/{userID}", h.DeactivateUser)
	return r
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.LoginRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Authenticate(ctx, *req, audit.OriginFromRequest(r))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	summaries := make([]models.UserSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, u.Summary())
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"users": summaries})
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal := middleware.GetPrincipal(ctx)
	if principal == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[models.CreateUserRequest](w, r, h.logger, ctx, middleware.GetRequestID(ctx))
	if !ok {
		return
	}

	user, err := h.service.CreateUser(ctx, principal, *req, audit.OriginFromRequest(r))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, user.Summary())
}

func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal := middleware.GetPrincipal(ctx)
	if principal == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	userID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid user id"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[models.UpdateRoleRequest](w, r, h.logger, ctx, middleware.GetRequestID(ctx))
	if !ok {
		return
	}

	user, err := h.service.UpdateRole(ctx, principal, userID, *req, audit.OriginFromRequest(r))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user.Summary())
}

func (h *Handler) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal := middleware.GetPrincipal(ctx)
	if principal == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	userID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid user id"))
		return
	}

	user, err := h.service.DeactivateUser(ctx, principal, userID, audit.OriginFromRequest(r))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user.Summary())
}
