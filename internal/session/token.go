// Package session issues and validates the signed tokens that prove a
// successful login. A token embeds the user id, a role snapshot taken at
// issuance, and an expiry; it is never persisted server-side, so role changes
// apply on next issuance only and tokens end only by expiry or client discard.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"inkwell/internal/identity/models"
	id "inkwell/pkg/domain"
	dErrors "inkwell/pkg/domain-errors"
	"inkwell/pkg/requesttime"
)

// Claims carries the identity projection inside the session token.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Service handles session token creation and validation.
type Service struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
}

func NewService(signingKey, issuer string, ttl time.Duration) *Service {
	return &Service{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		ttl:        ttl,
	}
}

// TTL exposes the configured session lifetime for response bodies.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue signs a new session token for the user with a role snapshot.
// The expiry is fixed at issuance time plus the configured TTL.
func (s *Service) Issue(ctx context.Context, userID id.UserID, role models.Role) (string, time.Time, error) {
	if userID.IsNil() {
		return "", time.Time{}, dErrors.New(dErrors.CodeInvalidInput, "user ID cannot be nil")
	}
	if !role.IsValid() {
		return "", time.Time{}, dErrors.New(dErrors.CodeInvalidInput, "invalid role")
	}

	now := requesttime.Now(ctx)
	expiresAt := now.Add(s.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID.String(),
		Role:   role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			ID:        uuid.New().String(),
		},
	})

	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", time.Time{}, dErrors.Wrap(err, dErrors.CodeInternal, "could not sign session token")
	}
	return signed, expiresAt, nil
}

// Validate parses and verifies a session token, returning the embedded
// identity projection. Expiry is checked against the request-scoped clock,
// the same source Issue stamps from. All failures collapse to unauthorized
// so the transport layer never leaks why a token was rejected.
func (s *Service) Validate(ctx context.Context, tokenString string) (*models.Principal, error) {
	if tokenString == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "missing session token")
	}

	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "unexpected signing algorithm")
		}
		return s.signingKey, nil
	}, jwt.WithTimeFunc(func() time.Time {
		return requesttime.Now(ctx)
	}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "session expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid session token")
	}
	if !token.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid session token")
	}

	userID, err := id.ParseUserID(claims.UserID)
	if err != nil || userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid session token")
	}
	role, err := models.ParseRole(claims.Role)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid session token")
	}

	return &models.Principal{UserID: userID, Role: role}, nil
}
