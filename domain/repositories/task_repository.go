package repositories

import (
	"context"

	"github.com/google/uuid"

	"taskhub/domain/dto"
	"taskhub/domain/models"
)

// TaskStats holds per-user aggregate counts.
type TaskStats struct {
	Total      int64
	ByStatus   map[string]int64
	ByPriority map[string]int64
}

// TaskRepository is the task store. Every lookup is scoped by the owning
// user id; a task owned by someone else behaves exactly like an absent one.
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	// GetByID returns the task only when it exists AND belongs to userID.
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Task, error)
	// ListByUserID returns the user's tasks matching all supplied filters,
	// ordered newest first (stable within a session).
	ListByUserID(ctx context.Context, userID uuid.UUID, filter dto.TaskFilter) ([]*models.Task, error)
	// Update persists the full record; the id/owner columns never change.
	Update(ctx context.Context, task *models.Task) error
	// Delete removes the record permanently when owned by userID.
	Delete(ctx context.Context, userID, id uuid.UUID) error
	StatsByUserID(ctx context.Context, userID uuid.UUID) (*TaskStats, error)
}
