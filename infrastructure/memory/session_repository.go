package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"taskhub/domain/apperrors"
	"taskhub/domain/repositories"
)

type session struct {
	userID    uuid.UUID
	expiresAt time.Time
}

// SessionRepository is the fallback refresh-token store when Redis is not
// configured. Expired entries are swept by the scheduler via Prune.
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]session
	now      func() time.Time
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]session),
		now:      time.Now,
	}
}

var _ repositories.SessionRepository = (*SessionRepository)(nil)

func (r *SessionRepository) Save(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[token] = session{userID: userID, expiresAt: r.now().Add(ttl)}
	return nil
}

func (r *SessionRepository) Lookup(ctx context.Context, token string) (uuid.UUID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[token]
	if !ok || r.now().After(s.expiresAt) {
		return uuid.Nil, apperrors.ErrUnauthorized
	}
	return s.userID, nil
}

func (r *SessionRepository) Revoke(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
	return nil
}

// Prune drops expired sessions and returns how many were removed.
func (r *SessionRepository) Prune() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for token, s := range r.sessions {
		if now.After(s.expiresAt) {
			delete(r.sessions, token)
			removed++
		}
	}
	return removed
}
