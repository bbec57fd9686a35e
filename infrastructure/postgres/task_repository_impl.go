package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskhub/domain/apperrors"
	"taskhub/domain/dto"
	"taskhub/domain/models"
	"taskhub/domain/repositories"
)

type TaskRepositoryImpl struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) repositories.TaskRepository {
	return &TaskRepositoryImpl{db: db}
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// GetByID filters by user_id as well as id, so a foreign task surfaces as
// ErrNotFound. The same scoping exists in every query below (defense in depth
// on top of the service-level checks).
func (r *TaskRepositoryImpl) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepositoryImpl) ListByUserID(ctx context.Context, userID uuid.UUID, filter dto.TaskFilter) ([]*models.Task, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		q = q.Where("priority = ?", filter.Priority)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	var tasks []*models.Task
	err := q.Order("created_at DESC, id").Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepositoryImpl) Update(ctx context.Context, task *models.Task) error {
	// Full-record save; Select("*") also persists fields reset to zero values.
	res := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("id = ? AND user_id = ?", task.ID, task.UserID).
		Select("*").Omit("id", "user_id", "created_at").
		Updates(task)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *TaskRepositoryImpl) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Task{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *TaskRepositoryImpl) StatsByUserID(ctx context.Context, userID uuid.UUID) (*repositories.TaskStats, error) {
	stats := &repositories.TaskStats{
		ByStatus:   make(map[string]int64),
		ByPriority: make(map[string]int64),
	}

	type row struct {
		Key   string
		Count int64
	}

	var byStatus []row
	err := r.db.WithContext(ctx).Model(&models.Task{}).
		Select("status AS key, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&byStatus).Error
	if err != nil {
		return nil, err
	}
	for _, r := range byStatus {
		stats.ByStatus[r.Key] = r.Count
		stats.Total += r.Count
	}

	var byPriority []row
	err = r.db.WithContext(ctx).Model(&models.Task{}).
		Select("priority AS key, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("priority").
		Scan(&byPriority).Error
	if err != nil {
		return nil, err
	}
	for _, r := range byPriority {
		stats.ByPriority[r.Key] = r.Count
	}

	return stats, nil
}
