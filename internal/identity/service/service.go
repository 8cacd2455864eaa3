package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"inkwell/internal/audit"
	"inkwell/internal/identity/models"
	"inkwell/internal/platform/metrics"
	"inkwell/internal/sentinel"
	"inkwell/internal/tracer"
	id "inkwell/pkg/domain"
	dErrors "inkwell/pkg/domain-errors"
	"inkwell/pkg/requesttime"
	"inkwell/pkg/secrets"
)

const loginScopePrefix = "auth:"

// invalidCredentials is the single failure surface for every login problem:
// unknown email, wrong password, deactivated account. Callers can never tell
// which one happened.
func invalidCredentials() error {
	return dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
}

// Service implements authentication and staff account administration.
type Service struct {
	users    UserStore
	limiter  RateLimiter
	tokens   TokenIssuer
	recorder AuditRecorder
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   tracer.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

func New(users UserStore, limiter RateLimiter, tokens TokenIssuer, recorder AuditRecorder, opts ...Option) *Service {
	s := &Service{
		users:    users,
		limiter:  limiter,
		tokens:   tokens,
		recorder: recorder,
		logger:   slog.Default(),
		tracer:   tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Authenticate checks credentials and returns a fresh session on success.
//
// The rate limit gate runs before the account lookup, so probing a scope past
// its budget reveals nothing about whether the email exists. Blocked attempts
// surface rate_limited with a Retry-After hint; every other failure collapses
// to the uniform invalid-credentials error.
func (s *Service) Authenticate(ctx context.Context, req models.LoginRequest, origin audit.Origin) (*models.LoginResult, error) {
	ctx, span := s.tracer.Start(ctx, "identity.authenticate")
	defer span.End()

	req.Normalize()
	if err := req.Validate(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	if err := s.limiter.CheckAndIncrement(ctx, loginScopePrefix+req.Email); err != nil {
		span.RecordError(err)
		s.recorder.Record(ctx, audit.Entry{
			Action:     audit.ActionLoginFailed,
			EntityType: "session",
			Detail:     map[string]any{"email": req.Email, "reason": "rate_limited"},
			Origin:     origin,
		})
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, s.failLogin(ctx, id.UserID{}, req.Email, "unknown_email", origin)
		}
		span.RecordError(err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}

	if !user.CanLogin() {
		return nil, s.failLogin(ctx, user.ID, req.Email, "inactive_account", origin)
	}

	if err := secrets.Verify(req.Password, user.PasswordHash); err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
			return nil, s.failLogin(ctx, user.ID, req.Email, "bad_password", origin)
		}
		span.RecordError(err)
		return nil, err
	}

	token, expiresAt, err := s.tokens.Issue(ctx, user.ID, user.Role)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.recorder.Record(ctx, audit.Entry{
		ActorID:    user.ID,
		Action:     audit.ActionLogin,
		EntityType: "session",
		Origin:     origin,
	})
	s.metrics.IncrementLoginSuccess()
	s.logger.InfoContext(ctx, "login succeeded", "user_id", user.ID.String(), "role", user.Role.String())

	return &models.LoginResult{
		Token:       token,
		UserID:      user.ID.String(),
		DisplayName: user.DisplayName,
		Role:        user.Role,
		ExpiresAt:   expiresAt,
	}, nil
}

// failLogin records the attempt and returns the uniform failure. The audit
// detail keeps the real reason; the caller-facing error does not.
func (s *Service) failLogin(ctx context.Context, actorID id.UserID, email, reason string, origin audit.Origin) error {
	s.recorder.Record(ctx, audit.Entry{
		ActorID:    actorID,
		Action:     audit.ActionLoginFailed,
		EntityType: "session",
		Detail:     map[string]any{"email": email, "reason": reason},
		Origin:     origin,
	})
	s.metrics.IncrementAuthFailures()
	s.logger.WarnContext(ctx, "login failed", "reason", reason)
	return invalidCredentials()
}

// CreateUser registers a staff account. The operation only counts once its
// audit record is durably written.
func (s *Service) CreateUser(ctx context.Context, actor *models.Principal, req models.CreateUserRequest, origin audit.Origin) (*models.User, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	role, err := models.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}

	hash, err := secrets.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := requesttime.Now(ctx)
	user := &models.User{
		ID:           id.NewUserID(),
		Email:        req.Email,
		PasswordHash: hash,
		DisplayName:  req.DisplayName,
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrDuplicate) {
			return nil, dErrors.New(dErrors.CodeConflict, "email is already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
	}

	if err := s.recorder.RecordSync(ctx, audit.Entry{
		ActorID:    actor.UserID,
		Action:     audit.ActionCreate,
		EntityType: "user",
		EntityID:   user.ID.String(),
		Detail:     map[string]any{"email": user.Email, "role": role.String()},
		Origin:     origin,
	}); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user created", "user_id", user.ID.String(), "role", role.String())
	return user, nil
}

// UpdateRole changes an account's role. Sessions already issued keep their
// old role snapshot until they expire.
func (s *Service) UpdateRole(ctx context.Context, actor *models.Principal, userID id.UserID, req models.UpdateRoleRequest, origin audit.Origin) (*models.User, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	role, err := models.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}

	previous := user.Role
	user.ChangeRole(role, requesttime.Now(ctx))
	if err := s.users.Update(ctx, user); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update user")
	}

	if err := s.recorder.RecordSync(ctx, audit.Entry{
		ActorID:    actor.UserID,
		Action:     audit.ActionUpdate,
		EntityType: "user",
		EntityID:   user.ID.String(),
		Detail:     map[string]any{"role_from": previous.String(), "role_to": role.String()},
		Origin:     origin,
	}); err != nil {
		return nil, err
	}

	return user, nil
}

// DeactivateUser soft-disables an account. Its sessions remain valid until
// expiry; new logins are refused.
func (s *Service) DeactivateUser(ctx context.Context, actor *models.Principal, userID id.UserID, origin audit.Origin) (*models.User, error) {
	if actor.UserID == userID {
		return nil, dErrors.New(dErrors.CodeValidation, "cannot deactivate your own account")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}

	if !user.Deactivate(requesttime.Now(ctx)) {
		return nil, dErrors.New(dErrors.CodeConflict, "user is already inactive")
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update user")
	}

	if err := s.recorder.RecordSync(ctx, audit.Entry{
		ActorID:    actor.UserID,
		Action:     audit.ActionUpdate,
		EntityType: "user",
		EntityID:   user.ID.String(),
		Detail:     map[string]any{"active": false},
		Origin:     origin,
	}); err != nil {
		return nil, err
	}

	return user, nil
}

// ListUsers returns all accounts for the admin listing.
func (s *Service) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list users")
	}
	return users, nil
}

// SessionTTL exposes the token lifetime for response metadata.
func (s *Service) SessionTTL() time.Duration {
	return s.tokens.TTL()
}
