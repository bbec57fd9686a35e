package redis

import (
	"context"
	"errors"
	"fmt"

	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"taskhub/domain/apperrors"
	"taskhub/domain/repositories"
)

const sessionKeyPrefix = "session:"

// SessionRepository keeps refresh tokens in Redis. Expiry is handled by the
// key TTL, so no sweeping is needed on this path.
type SessionRepository struct {
	client *Client
}

func NewSessionRepository(client *Client) repositories.SessionRepository {
	return &SessionRepository{client: client}
}

func (r *SessionRepository) Save(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	return r.client.Set(ctx, sessionKeyPrefix+token, userID.String(), ttl)
}

func (r *SessionRepository) Lookup(ctx context.Context, token string) (uuid.UUID, error) {
	val, err := r.client.Get(ctx, sessionKeyPrefix+token)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, apperrors.ErrUnauthorized
		}
		return uuid.Nil, fmt.Errorf("session lookup: %w", err)
	}

	userID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, apperrors.ErrUnauthorized
	}
	return userID, nil
}

func (r *SessionRepository) Revoke(ctx context.Context, token string) error {
	return r.client.Del(ctx, sessionKeyPrefix+token)
}
