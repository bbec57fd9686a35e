// Package memory holds in-memory repository implementations. They back the
// unit tests and let the server run without Postgres or Redis in development;
// semantics mirror the postgres package exactly.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"taskhub/domain/apperrors"
	"taskhub/domain/dto"
	"taskhub/domain/models"
	"taskhub/domain/repositories"
)

type TaskRepository struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]models.Task
}

func NewTaskRepository() repositories.TaskRepository {
	return &TaskRepository{tasks: make(map[uuid.UUID]models.Task)}
}

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[task.ID] = *task
	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok || task.UserID != userID {
		// Foreign and absent tasks are indistinguishable.
		return nil, apperrors.ErrNotFound
	}
	copied := task
	return &copied, nil
}

func (r *TaskRepository) ListByUserID(ctx context.Context, userID uuid.UUID, filter dto.TaskFilter) ([]*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search := strings.ToLower(filter.Search)

	var out []*models.Task
	for _, task := range r.tasks {
		if task.UserID != userID {
			continue
		}
		if filter.Status != "" && task.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && task.Priority != filter.Priority {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(task.Title), search) &&
			!strings.Contains(strings.ToLower(task.Description), search) {
			continue
		}
		copied := task
		out = append(out, &copied)
	}

	// Newest first, id as tiebreaker; same order the postgres repo produces.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})

	return out, nil
}

func (r *TaskRepository) Update(ctx context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.tasks[task.ID]
	if !ok || existing.UserID != task.UserID {
		return apperrors.ErrNotFound
	}
	r.tasks[task.ID] = *task
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok || task.UserID != userID {
		return apperrors.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *TaskRepository) StatsByUserID(ctx context.Context, userID uuid.UUID) (*repositories.TaskStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &repositories.TaskStats{
		ByStatus:   make(map[string]int64),
		ByPriority: make(map[string]int64),
	}
	for _, task := range r.tasks {
		if task.UserID != userID {
			continue
		}
		stats.Total++
		stats.ByStatus[task.Status]++
		stats.ByPriority[task.Priority]++
	}
	return stats, nil
}
