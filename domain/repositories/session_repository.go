package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionRepository stores refresh tokens. Tokens are opaque random strings;
// each maps to the user it was issued for and expires after its TTL.
type SessionRepository interface {
	// Save stores token -> userID for ttl.
	Save(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error
	// Lookup returns the user id for a live token, apperrors.ErrUnauthorized
	// for an unknown or expired one.
	Lookup(ctx context.Context, token string) (uuid.UUID, error)
	// Revoke deletes a token. Revoking an unknown token is not an error.
	Revoke(ctx context.Context, token string) error
}
