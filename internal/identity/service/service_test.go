package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"inkwell/internal/audit"
	"inkwell/internal/identity/models"
	"inkwell/internal/identity/store"
	"inkwell/internal/ratelimit"
	"inkwell/internal/session"
	id "inkwell/pkg/domain"
	dErrors "inkwell/pkg/domain-errors"
	"inkwell/pkg/requesttime"
	"inkwell/pkg/secrets"
)

const (
	testPassword = "correct-horse-battery"
	testEmail    = "alice@example.com"
)

type ServiceSuite struct {
	suite.Suite
	users      *store.InMemoryUserStore
	auditStore *audit.InMemoryStore
	service    *Service
	admin      *models.Principal
	alice      *models.User
	base       time.Time
	origin     audit.Origin
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.base = time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	s.users = store.NewInMemoryUserStore()
	s.auditStore = audit.NewInMemoryStore()
	s.origin = audit.Origin{IP: "203.0.113.9", UserAgent: "go-test"}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service = New(
		s.users,
		ratelimit.New(60*time.Second, 5),
		session.NewService("test-signing-key", "inkwell-test", time.Hour),
		audit.NewRecorder(s.auditStore, audit.WithRecorderLogger(logger)),
		WithLogger(logger),
	)

	hash, err := secrets.Hash(testPassword)
	s.Require().NoError(err)
	s.alice = &models.User{
		ID:           id.NewUserID(),
		Email:        testEmail,
		PasswordHash: hash,
		DisplayName:  "Alice",
		Role:         models.RoleEditor,
		Active:       true,
		CreatedAt:    s.base,
		UpdatedAt:    s.base,
	}
	s.Require().NoError(s.users.Create(context.Background(), s.alice))

	s.admin = &models.Principal{UserID: id.NewUserID(), Role: models.RoleAdmin}
}

func (s *ServiceSuite) ctx(offset time.Duration) context.Context {
	return requesttime.WithTime(context.Background(), s.base.Add(offset))
}

func (s *ServiceSuite) auditedActions(action audit.Action) []*audit.Record {
	got, err := s.auditStore.Query(context.Background(), audit.Filter{Action: &action})
	s.Require().NoError(err)
	return got
}

func (s *ServiceSuite) TestAuthenticateSuccess() {
	result, err := s.service.Authenticate(s.ctx(0), models.LoginRequest{Email: "ALICE@example.com", Password: testPassword}, s.origin)
	s.Require().NoError(err)

	s.NotEmpty(result.Token)
	s.Equal(s.alice.ID.String(), result.UserID)
	s.Equal(models.RoleEditor, result.Role)
	s.Equal(s.base.Add(time.Hour), result.ExpiresAt)

	logins := s.auditedActions(audit.ActionLogin)
	s.Require().Len(logins, 1)
	s.Equal(s.alice.ID, logins[0].ActorID)
	s.Equal("203.0.113.9", logins[0].OriginIP)
}

func (s *ServiceSuite) TestAuthenticateWrongPasswordIsUniform() {
	_, errWrong := s.service.Authenticate(s.ctx(0), models.LoginRequest{Email: testEmail, Password: "wrong-password-here"}, s.origin)
	_, errGhost := s.service.Authenticate(s.ctx(0), models.LoginRequest{Email: "ghost@example.com", Password: "wrong-password-here"}, s.origin)

	s.Require().Error(errWrong)
	s.Require().Error(errGhost)
	s.True(dErrors.HasCode(errWrong, dErrors.CodeUnauthorized))
	s.True(dErrors.HasCode(errGhost, dErrors.CodeUnauthorized))
	// Identical messages: the caller cannot distinguish unknown email from bad password.
	s.Equal(errWrong.Error(), errGhost.Error())

	failures := s.auditedActions(audit.ActionLoginFailed)
	s.Require().Len(failures, 2)
	s.Equal("bad_password", failures[0].Detail["reason"])
	s.Equal("unknown_email", failures[1].Detail["reason"])
}

func (s *ServiceSuite) TestAuthenticateInactiveAccountIsUniform() {
	s.alice.Active = false
	s.Require().NoError(s.users.Update(context.Background(), s.alice))

	_, err := s.service.Authenticate(s.ctx(0), models.LoginRequest{Email: testEmail, Password: testPassword}, s.origin)
	s.Require().True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	s.Equal("invalid credentials", err.Error())
}

func (s *ServiceSuite) TestSixthAttemptWithinWindowIsRateLimited() {
	for i := 0; i < 5; i++ {
		_, err := s.service.Authenticate(s.ctx(time.Duration(i)*time.Second), models.LoginRequest{Email: testEmail, Password: "wrong-password-here"}, s.origin)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	}

	_, err := s.service.Authenticate(s.ctx(10*time.Second), models.LoginRequest{Email: testEmail, Password: testPassword}, s.origin)
	s.Require().True(dErrors.HasCode(err, dErrors.CodeRateLimited))

	retryAfter := dErrors.RetryAfter(err)
	s.Greater(retryAfter, 0)
	s.LessOrEqual(retryAfter, 60)

	// The blocked attempt never touched credentials, but it is still audited.
	failures := s.auditedActions(audit.ActionLoginFailed)
	s.Equal("rate_limited", failures[len(failures)-1].Detail["reason"])
}

func (s *ServiceSuite) TestRateLimitScopeIsCaseInsensitive() {
	for i := 0; i < 5; i++ {
		_, _ = s.service.Authenticate(s.ctx(0), models.LoginRequest{Email: "Alice@Example.COM", Password: "wrong-password-here"}, s.origin)
	}

	_, err := s.service.Authenticate(s.ctx(0), models.LoginRequest{Email: testEmail, Password: testPassword}, s.origin)
	s.True(dErrors.HasCode(err, dErrors.CodeRateLimited))
}

func (s *ServiceSuite) TestSuccessfulLoginDoesNotResetTheCounter() {
	for i := 0; i < 4; i++ {
		_, _ = s.service.Authenticate(s.ctx(0), models.LoginRequest{Email: testEmail, Password: "wrong-password-here"}, s.origin)
	}

	_, err := s.service.Authenticate(s.ctx(time.Second), models.LoginRequest{Email: testEmail, Password: testPassword}, s.origin)
	s.Require().NoError(err)

	// Five attempts consumed; the next within the window is blocked even
	// with correct credentials.
	_, err = s.service.Authenticate(s.ctx(2*time.Second), models.LoginRequest{Email: testEmail, Password: testPassword}, s.origin)
	s.True(dErrors.HasCode(err, dErrors.CodeRateLimited))
}

func (s *ServiceSuite) TestCreateUser() {
	req := models.CreateUserRequest{
		Email:       "Bob@Example.com",
		Password:    "a-long-enough-password",
		DisplayName: "Bob",
		Role:        "viewer",
	}
	user, err := s.service.CreateUser(s.ctx(0), s.admin, req, s.origin)
	s.Require().NoError(err)

	s.Equal("bob@example.com", user.Email)
	s.Equal(models.RoleViewer, user.Role)
	s.True(user.Active)
	s.NotEqual("a-long-enough-password", user.PasswordHash)

	created := s.auditedActions(audit.ActionCreate)
	s.Require().Len(created, 1)
	s.Equal(s.admin.UserID, created[0].ActorID)
	s.Equal("user", created[0].EntityType)
}

func (s *ServiceSuite) TestCreateUserDuplicateEmailConflicts() {
	req := models.CreateUserRequest{
		Email:       testEmail,
		Password:    "a-long-enough-password",
		DisplayName: "Impostor",
		Role:        "EDITOR",
	}
	_, err := s.service.CreateUser(s.ctx(0), s.admin, req, s.origin)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *ServiceSuite) TestCreateUserShortPasswordRejected() {
	req := models.CreateUserRequest{Email: "bob@example.com", Password: "short", DisplayName: "Bob", Role: "VIEWER"}
	_, err := s.service.CreateUser(s.ctx(0), s.admin, req, s.origin)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestUpdateRoleAffectsNextIssuanceOnly() {
	before, err := s.service.Authenticate(s.ctx(0), models.LoginRequest{Email: testEmail, Password: testPassword}, s.origin)
	s.Require().NoError(err)

	_, err = s.service.UpdateRole(s.ctx(time.Minute), s.admin, s.alice.ID, models.UpdateRoleRequest{Role: "ADMIN"}, s.origin)
	s.Require().NoError(err)

	// The old session still carries the EDITOR snapshot.
	validator := session.NewService("test-signing-key", "inkwell-test", time.Hour)
	principal, err := validator.Validate(s.ctx(time.Minute), before.Token)
	s.Require().NoError(err)
	s.Equal(models.RoleEditor, principal.Role)

	// A fresh login picks up the new role.
	after, err := s.service.Authenticate(s.ctx(2*time.Minute), models.LoginRequest{Email: testEmail, Password: testPassword}, s.origin)
	s.Require().NoError(err)
	s.Equal(models.RoleAdmin, after.Role)
}

func (s *ServiceSuite) TestUpdateRoleUnknownUser() {
	_, err := s.service.UpdateRole(s.ctx(0), s.admin, id.NewUserID(), models.UpdateRoleRequest{Role: "ADMIN"}, s.origin)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestDeactivateUserBlocksNewLogins() {
	_, err := s.service.DeactivateUser(s.ctx(0), s.admin, s.alice.ID, s.origin)
	s.Require().NoError(err)

	_, err = s.service.Authenticate(s.ctx(time.Minute), models.LoginRequest{Email: testEmail, Password: testPassword}, s.origin)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *ServiceSuite) TestDeactivateSelfRejected() {
	self := &models.Principal{UserID: s.alice.ID, Role: models.RoleAdmin}
	_, err := s.service.DeactivateUser(s.ctx(0), self, s.alice.ID, s.origin)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestDeactivateTwiceConflicts() {
	_, err := s.service.DeactivateUser(s.ctx(0), s.admin, s.alice.ID, s.origin)
	s.Require().NoError(err)

	_, err = s.service.DeactivateUser(s.ctx(time.Minute), s.admin, s.alice.ID, s.origin)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *ServiceSuite) TestListUsers() {
	users, err := s.service.ListUsers(s.ctx(0))
	s.Require().NoError(err)
	s.Len(users, 1)
}
