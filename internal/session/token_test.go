package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"inkwell/internal/identity/models"
	id "inkwell/pkg/domain"
	dErrors "inkwell/pkg/domain-errors"
	"inkwell/pkg/requesttime"
)

type SessionSuite struct {
	suite.Suite
	svc *Service
}

func TestSessionSuite(t *testing.T) {
	suite.Run(t, new(SessionSuite))
}

func (s *SessionSuite) SetupTest() {
	s.svc = NewService("test-signing-key", "inkwell", 24*time.Hour)
}

func (s *SessionSuite) TestIssueAndValidateRoundTrip() {
	userID := id.NewUserID()
	token, expiresAt, err := s.svc.Issue(context.Background(), userID, models.RoleEditor)
	s.Require().NoError(err)
	s.Require().NotEmpty(token)
	s.WithinDuration(time.Now().Add(24*time.Hour), expiresAt, time.Minute)

	principal, err := s.svc.Validate(context.Background(), token)
	s.Require().NoError(err)
	s.Equal(userID, principal.UserID)
	s.Equal(models.RoleEditor, principal.Role)
}

func (s *SessionSuite) TestValidateChecksExpiryAgainstRequestClock() {
	issuedAt := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	issued := requesttime.WithTime(context.Background(), issuedAt)
	token, _, err := s.svc.Issue(issued, id.NewUserID(), models.RoleEditor)
	s.Require().NoError(err)

	within := requesttime.WithTime(context.Background(), issuedAt.Add(23*time.Hour))
	_, err = s.svc.Validate(within, token)
	s.NoError(err)

	after := requesttime.WithTime(context.Background(), issuedAt.Add(25*time.Hour))
	_, err = s.svc.Validate(after, token)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *SessionSuite) TestExpiryIsSnapshotAtIssuance() {
	issuedAt := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	ctx := requesttime.WithTime(context.Background(), issuedAt)

	_, expiresAt, err := s.svc.Issue(ctx, id.NewUserID(), models.RoleAdmin)
	s.Require().NoError(err)
	s.Equal(issuedAt.Add(24*time.Hour), expiresAt.UTC())
}

func (s *SessionSuite) TestValidateRejections() {
	s.Run("empty token", func() {
		_, err := s.svc.Validate(context.Background(), "")
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("garbage token", func() {
		_, err := s.svc.Validate(context.Background(), "not-a-jwt")
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("wrong signing key", func() {
		other := NewService("other-key", "inkwell", time.Hour)
		token, _, err := other.Issue(context.Background(), id.NewUserID(), models.RoleViewer)
		s.Require().NoError(err)

		_, err = s.svc.Validate(context.Background(), token)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("expired token", func() {
		past := requesttime.WithTime(context.Background(), time.Now().Add(-48*time.Hour))
		token, _, err := s.svc.Issue(past, id.NewUserID(), models.RoleViewer)
		s.Require().NoError(err)

		_, err = s.svc.Validate(context.Background(), token)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func (s *SessionSuite) TestIssueRejectsInvalidInput() {
	_, _, err := s.svc.Issue(context.Background(), id.UserID{}, models.RoleAdmin)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))

	_, _, err = s.svc.Issue(context.Background(), id.NewUserID(), models.Role("ROOT"))
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}
