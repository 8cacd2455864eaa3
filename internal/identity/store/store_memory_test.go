package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"inkwell/internal/identity/models"
	"inkwell/internal/sentinel"
	id "inkwell/pkg/domain"
	"inkwell/pkg/testutil"
)

type InMemoryUserStoreSuite struct {
	suite.Suite
	ctx   context.Context
	store *InMemoryUserStore
	now   time.Time
}

func TestInMemoryUserStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryUserStoreSuite))
}

func (s *InMemoryUserStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewInMemoryUserStore()
	s.now = time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
}

func (s *InMemoryUserStoreSuite) newUser(email string, role models.Role) *models.User {
	return testutil.NewUserBuilder().WithEmail(email).WithRole(role).Build()
}

func (s *InMemoryUserStoreSuite) TestCreateAndGetByID() {
	user := s.newUser("alice@example.com", models.RoleAdmin)
	s.Require().NoError(s.store.Create(s.ctx, user))

	got, err := s.store.GetByID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Equal("alice@example.com", got.Email)
	s.Equal(models.RoleAdmin, got.Role)
}

func (s *InMemoryUserStoreSuite) TestGetByEmailIsCaseInsensitive() {
	s.Require().NoError(s.store.Create(s.ctx, s.newUser("Alice@Example.COM", models.RoleEditor)))

	got, err := s.store.GetByEmail(s.ctx, "ALICE@example.com")
	s.Require().NoError(err)
	s.Equal("alice@example.com", got.Email)
}

func (s *InMemoryUserStoreSuite) TestCreateDuplicateEmailRejected() {
	s.Require().NoError(s.store.Create(s.ctx, s.newUser("alice@example.com", models.RoleViewer)))

	err := s.store.Create(s.ctx, s.newUser("ALICE@EXAMPLE.COM", models.RoleViewer))
	s.ErrorIs(err, sentinel.ErrDuplicate)
}

func (s *InMemoryUserStoreSuite) TestGetUnknownReturnsNotFound() {
	_, err := s.store.GetByID(s.ctx, id.NewUserID())
	s.ErrorIs(err, sentinel.ErrNotFound)

	_, err = s.store.GetByEmail(s.ctx, "ghost@example.com")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryUserStoreSuite) TestUpdatePersistsChanges() {
	user := s.newUser("alice@example.com", models.RoleViewer)
	s.Require().NoError(s.store.Create(s.ctx, user))

	user.ChangeRole(models.RoleEditor, s.now.Add(time.Hour))
	s.Require().NoError(s.store.Update(s.ctx, user))

	got, err := s.store.GetByID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Equal(models.RoleEditor, got.Role)
	s.Equal(s.now.Add(time.Hour), got.UpdatedAt)
}

func (s *InMemoryUserStoreSuite) TestUpdateUnknownReturnsNotFound() {
	err := s.store.Update(s.ctx, s.newUser("ghost@example.com", models.RoleViewer))
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryUserStoreSuite) TestReturnedUsersAreCopies() {
	user := s.newUser("alice@example.com", models.RoleViewer)
	s.Require().NoError(s.store.Create(s.ctx, user))

	got, err := s.store.GetByID(s.ctx, user.ID)
	s.Require().NoError(err)
	got.Role = models.RoleAdmin

	again, err := s.store.GetByID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Equal(models.RoleViewer, again.Role)
}

func (s *InMemoryUserStoreSuite) TestListSortsByEmail() {
	s.Require().NoError(s.store.Create(s.ctx, s.newUser("carol@example.com", models.RoleViewer)))
	s.Require().NoError(s.store.Create(s.ctx, s.newUser("alice@example.com", models.RoleAdmin)))
	s.Require().NoError(s.store.Create(s.ctx, s.newUser("bob@example.com", models.RoleEditor)))

	users, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(users, 3)
	s.Equal("alice@example.com", users[0].Email)
	s.Equal("carol@example.com", users[2].Email)
}
