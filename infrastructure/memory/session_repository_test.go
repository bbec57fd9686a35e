package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"taskhub/domain/apperrors"
)

func TestSessionRepository_Lifecycle(t *testing.T) {
	repo := NewSessionRepository()
	ctx := context.Background()
	userID := uuid.New()

	if err := repo.Save(ctx, "tok-1", userID, time.Hour); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.Lookup(ctx, "tok-1")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got != userID {
		t.Errorf("Lookup = %s, want %s", got, userID)
	}

	if err := repo.Revoke(ctx, "tok-1"); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if _, err := repo.Lookup(ctx, "tok-1"); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Errorf("Lookup after revoke = %v, want ErrUnauthorized", err)
	}
}

func TestSessionRepository_UnknownToken(t *testing.T) {
	repo := NewSessionRepository()

	if _, err := repo.Lookup(context.Background(), "never-saved"); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Errorf("Lookup = %v, want ErrUnauthorized", err)
	}
}

func TestSessionRepository_Expiry(t *testing.T) {
	repo := NewSessionRepository()
	ctx := context.Background()

	current := time.Now()
	repo.now = func() time.Time { return current }

	if err := repo.Save(ctx, "short", uuid.New(), time.Minute); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, err := repo.Lookup(ctx, "short"); err != nil {
		t.Fatalf("Lookup before expiry: %v", err)
	}

	current = current.Add(2 * time.Minute)
	if _, err := repo.Lookup(ctx, "short"); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Errorf("Lookup after expiry = %v, want ErrUnauthorized", err)
	}
}

func TestSessionRepository_Prune(t *testing.T) {
	repo := NewSessionRepository()
	ctx := context.Background()

	current := time.Now()
	repo.now = func() time.Time { return current }

	repo.Save(ctx, "keep", uuid.New(), time.Hour)
	repo.Save(ctx, "drop-1", uuid.New(), time.Minute)
	repo.Save(ctx, "drop-2", uuid.New(), time.Minute)

	current = current.Add(10 * time.Minute)

	if removed := repo.Prune(); removed != 2 {
		t.Errorf("Prune = %d, want 2", removed)
	}
	if _, err := repo.Lookup(ctx, "keep"); err != nil {
		t.Errorf("Lookup(keep) after prune: %v", err)
	}
	if removed := repo.Prune(); removed != 0 {
		t.Errorf("second Prune = %d, want 0", removed)
	}
}
