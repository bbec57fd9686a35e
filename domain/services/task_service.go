package services

import (
	"context"

	"github.com/google/uuid"

	"taskhub/domain/dto"
	"taskhub/domain/models"
	"taskhub/domain/repositories"
)

// TaskService mediates all reads and writes of a caller's tasks. Every
// operation is scoped to the calling user; a task not owned by the caller is
// reported as not found.
type TaskService interface {
	CreateTask(ctx context.Context, userID uuid.UUID, req *dto.CreateTaskRequest) (*models.Task, error)
	GetTask(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error)
	ListTasks(ctx context.Context, userID uuid.UUID, filter dto.TaskFilter) ([]*models.Task, error)
	UpdateTask(ctx context.Context, userID, taskID uuid.UUID, req *dto.UpdateTaskRequest) (*models.Task, error)
	DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error
	TaskStats(ctx context.Context, userID uuid.UUID) (*repositories.TaskStats, error)
}
