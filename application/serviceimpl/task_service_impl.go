package serviceimpl

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"taskhub/domain/apperrors"
	"taskhub/domain/dto"
	"taskhub/domain/models"
	"taskhub/domain/ports"
	"taskhub/domain/repositories"
	"taskhub/domain/services"
	"taskhub/pkg/logger"
)

type TaskServiceImpl struct {
	taskRepo repositories.TaskRepository
	events   ports.TaskEventPublisher // nil when no broker is configured
}

func NewTaskService(taskRepo repositories.TaskRepository, events ports.TaskEventPublisher) services.TaskService {
	return &TaskServiceImpl{
		taskRepo: taskRepo,
		events:   events,
	}
}

func (s *TaskServiceImpl) CreateTask(ctx context.Context, userID uuid.UUID, req *dto.CreateTaskRequest) (*models.Task, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("%w: title is required", apperrors.ErrInvalidInput)
	}
	if req.Status != "" && !models.ValidStatus(req.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrInvalidInput, req.Status)
	}
	if req.Priority != "" && !models.ValidPriority(req.Priority) {
		return nil, fmt.Errorf("%w: unknown priority %q", apperrors.ErrInvalidInput, req.Priority)
	}

	now := time.Now()
	task := &models.Task{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		UserID:      userID, // owner bound from the authenticated caller only
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if task.Status == "" {
		task.Status = models.StatusPending
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		logger.ErrorContext(ctx, "Failed to create task", "user_id", userID, "error", err)
		return nil, fmt.Errorf("%w: create task", apperrors.ErrInternal)
	}

	logger.InfoContext(ctx, "Task created", "task_id", task.ID, "user_id", userID)
	s.publish(ctx, task, "created")

	return task, nil
}

func (s *TaskServiceImpl) GetTask(ctx context.Context, userID, taskID uuid.UUID) (*models.Task, error) {
	return s.taskRepo.GetByID(ctx, userID, taskID)
}

func (s *TaskServiceImpl) ListTasks(ctx context.Context, userID uuid.UUID, filter dto.TaskFilter) ([]*models.Task, error) {
	if filter.Status != "" && !models.ValidStatus(filter.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrInvalidInput, filter.Status)
	}
	if filter.Priority != "" && !models.ValidPriority(filter.Priority) {
		return nil, fmt.Errorf("%w: unknown priority %q", apperrors.ErrInvalidInput, filter.Priority)
	}

	tasks, err := s.taskRepo.ListByUserID(ctx, userID, filter)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to list tasks", "user_id", userID, "error", err)
		return nil, fmt.Errorf("%w: list tasks", apperrors.ErrInternal)
	}
	return tasks, nil
}

func (s *TaskServiceImpl) UpdateTask(ctx context.Context, userID, taskID uuid.UUID, req *dto.UpdateTaskRequest) (*models.Task, error) {
	if req.Title != nil && *req.Title == "" {
		return nil, fmt.Errorf("%w: title must not be empty", apperrors.ErrInvalidInput)
	}
	if req.Status != nil && !models.ValidStatus(*req.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrInvalidInput, *req.Status)
	}
	if req.Priority != nil && !models.ValidPriority(*req.Priority) {
		return nil, fmt.Errorf("%w: unknown priority %q", apperrors.ErrInvalidInput, *req.Priority)
	}

	task, err := s.taskRepo.GetByID(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}

	// An empty update is valid: content fields stay put, updatedAt moves.
	task.UpdatedAt = time.Now()

	if err := s.taskRepo.Update(ctx, task); err != nil {
		logger.ErrorContext(ctx, "Failed to update task", "task_id", taskID, "error", err)
		return nil, fmt.Errorf("%w: update task", apperrors.ErrInternal)
	}

	logger.InfoContext(ctx, "Task updated", "task_id", taskID, "user_id", userID)
	s.publish(ctx, task, "updated")

	return task, nil
}

func (s *TaskServiceImpl) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	task, err := s.taskRepo.GetByID(ctx, userID, taskID)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, userID, taskID); err != nil {
		logger.ErrorContext(ctx, "Failed to delete task", "task_id", taskID, "error", err)
		return fmt.Errorf("%w: delete task", apperrors.ErrInternal)
	}

	logger.InfoContext(ctx, "Task deleted", "task_id", taskID, "user_id", userID)
	s.publish(ctx, task, "deleted")

	return nil
}

func (s *TaskServiceImpl) TaskStats(ctx context.Context, userID uuid.UUID) (*repositories.TaskStats, error) {
	stats, err := s.taskRepo.StatsByUserID(ctx, userID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to compute task stats", "user_id", userID, "error", err)
		return nil, fmt.Errorf("%w: task stats", apperrors.ErrInternal)
	}
	return stats, nil
}

func (s *TaskServiceImpl) publish(ctx context.Context, task *models.Task, action string) {
	if s.events == nil {
		return
	}

	event := ports.TaskEvent{
		TaskID: task.ID.String(),
		UserID: task.UserID.String(),
		Status: task.Status,
	}

	var err error
	switch action {
	case "created":
		err = s.events.TaskCreated(ctx, event)
	case "updated":
		err = s.events.TaskUpdated(ctx, event)
	case "deleted":
		err = s.events.TaskDeleted(ctx, event)
	}
	if err != nil {
		// Best-effort: the mutation already committed.
		logger.WarnContext(ctx, "Failed to publish task event", "task_id", task.ID, "action", action, "error", err)
	}
}
