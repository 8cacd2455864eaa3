package service

import (
	"context"
	"time"

	"inkwell/internal/audit"
	"inkwell/internal/identity/models"
	id "inkwell/pkg/domain"
)

// UserStore is the account persistence dependency.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, userID id.UserID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context) ([]*models.User, error)
}

// RateLimiter gates login attempts per scope before any account lookup.
type RateLimiter interface {
	CheckAndIncrement(ctx context.Context, scope string) error
}

// TokenIssuer mints the session token carrying the role snapshot.
type TokenIssuer interface {
	Issue(ctx context.Context, userID id.UserID, role models.Role) (string, time.Time, error)
	TTL() time.Duration
}

// AuditRecorder writes the audit trail. Record never fails the caller;
// RecordSync does when the trail must exist for the operation to count.
type AuditRecorder interface {
	Record(ctx context.Context, entry audit.Entry)
	RecordSync(ctx context.Context, entry audit.Entry) error
}
