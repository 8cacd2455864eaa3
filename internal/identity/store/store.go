package store

import (
	"context"

	"inkwell/internal/identity/models"
	id "inkwell/pkg/domain"
)

// UserStore is the persistence port for staff accounts.
//
// Error Contract:
// - Create returns sentinel.ErrDuplicate when the email is already taken
//   (case-insensitively).
// - GetByID / GetByEmail return sentinel.ErrNotFound for unknown identities.
// - Update returns sentinel.ErrNotFound when the user does not exist.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, userID id.UserID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context) ([]*models.User, error)
}
