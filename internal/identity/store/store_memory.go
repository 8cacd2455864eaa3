package store

import (
	"context"
	"sort"
	"sync"

	"inkwell/internal/identity/models"
	"inkwell/internal/sentinel"
	id "inkwell/pkg/domain"
)

// InMemoryUserStore keeps users indexed by ID with a secondary email index.
// Emails are stored lowercase, so lookups are case-insensitive as long as
// callers normalize before storing; the store normalizes defensively anyway
// via models.NormalizeEmail.
type InMemoryUserStore struct {
	mu      sync.RWMutex
	byID    map[id.UserID]*models.User
	byEmail map[string]id.UserID
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{
		byID:    make(map[id.UserID]*models.User),
		byEmail: make(map[string]id.UserID),
	}
}

func (s *InMemoryUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := models.NormalizeEmail(user.Email)
	if _, exists := s.byEmail[email]; exists {
		return sentinel.ErrDuplicate
	}
	if _, exists := s.byID[user.ID]; exists {
		return sentinel.ErrDuplicate
	}

	stored := *user
	stored.Email = email
	s.byID[user.ID] = &stored
	s.byEmail[email] = user.ID
	return nil
}

func (s *InMemoryUserStore) GetByID(_ context.Context, userID id.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byID[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *InMemoryUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, ok := s.byEmail[models.NormalizeEmail(email)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *s.byID[userID]
	return &copied, nil
}

func (s *InMemoryUserStore) Update(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.byID[user.ID]
	if !ok {
		return sentinel.ErrNotFound
	}

	// Email is immutable once created; keep the index consistent.
	stored := *user
	stored.Email = existing.Email
	s.byID[user.ID] = &stored
	return nil
}

func (s *InMemoryUserStore) List(_ context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*models.User, 0, len(s.byID))
	for _, user := range s.byID {
		copied := *user
		users = append(users, &copied)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].Email < users[j].Email
	})
	return users, nil
}
