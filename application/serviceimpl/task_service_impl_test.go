package serviceimpl

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskhub/domain/apperrors"
	"taskhub/domain/dto"
	"taskhub/domain/models"
	"taskhub/domain/ports"
	"taskhub/domain/services"
	"taskhub/infrastructure/memory"
)

func newTaskService(events ports.TaskEventPublisher) services.TaskService {
	return NewTaskService(memory.NewTaskRepository(), events)
}

func strPtr(s string) *string { return &s }

func TestCreateTask_Defaults(t *testing.T) {
	svc := newTaskService(nil)
	owner := uuid.New()

	task, err := svc.CreateTask(context.Background(), owner, &dto.CreateTaskRequest{
		Title: "Write report",
	})
	require.NoError(t, err)

	assert.Equal(t, "Write report", task.Title)
	assert.Equal(t, models.StatusPending, task.Status)
	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.Equal(t, owner, task.UserID)
	assert.NotEqual(t, uuid.Nil, task.ID)
	assert.False(t, task.CreatedAt.IsZero())
}

func TestCreateTask_OwnerBoundFromCaller(t *testing.T) {
	svc := newTaskService(nil)
	owner := uuid.New()

	// The request carries no owner field; the caller identity wins.
	task, err := svc.CreateTask(context.Background(), owner, &dto.CreateTaskRequest{
		Title:    "Ship release",
		Status:   models.StatusInProgress,
		Priority: models.PriorityHigh,
	})
	require.NoError(t, err)
	assert.Equal(t, owner, task.UserID)
	assert.Equal(t, models.StatusInProgress, task.Status)
	assert.Equal(t, models.PriorityHigh, task.Priority)
}

func TestCreateTask_Invalid(t *testing.T) {
	svc := newTaskService(nil)
	owner := uuid.New()

	tests := []struct {
		name string
		req  dto.CreateTaskRequest
	}{
		{"empty title", dto.CreateTaskRequest{Title: ""}},
		{"unknown status", dto.CreateTaskRequest{Title: "x", Status: "done"}},
		{"unknown priority", dto.CreateTaskRequest{Title: "x", Priority: "urgent"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTask(context.Background(), owner, &tt.req)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}

	// Rejected creates persist nothing.
	tasks, err := svc.ListTasks(context.Background(), owner, dto.TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestGetTask_ForeignTaskIndistinguishableFromMissing(t *testing.T) {
	svc := newTaskService(nil)
	owner := uuid.New()
	other := uuid.New()

	task, err := svc.CreateTask(context.Background(), owner, &dto.CreateTaskRequest{Title: "Private"})
	require.NoError(t, err)

	_, errForeign := svc.GetTask(context.Background(), other, task.ID)
	_, errMissing := svc.GetTask(context.Background(), owner, uuid.New())

	assert.ErrorIs(t, errForeign, apperrors.ErrNotFound)
	assert.ErrorIs(t, errMissing, apperrors.ErrNotFound)
}

func TestUpdateTask_PartialFields(t *testing.T) {
	svc := newTaskService(nil)
	owner := uuid.New()

	task, err := svc.CreateTask(context.Background(), owner, &dto.CreateTaskRequest{
		Title:       "Draft",
		Description: "first pass",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateTask(context.Background(), owner, task.ID, &dto.UpdateTaskRequest{
		Status: strPtr(models.StatusCompleted),
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusCompleted, updated.Status)
	assert.Equal(t, "Draft", updated.Title)
	assert.Equal(t, "first pass", updated.Description)
	assert.Equal(t, models.PriorityMedium, updated.Priority)
}

func TestUpdateTask_EmptyUpdateOnlyMovesUpdatedAt(t *testing.T) {
	svc := newTaskService(nil)
	owner := uuid.New()

	task, err := svc.CreateTask(context.Background(), owner, &dto.CreateTaskRequest{Title: "Stable"})
	require.NoError(t, err)

	before := task.UpdatedAt
	time.Sleep(5 * time.Millisecond)

	updated, err := svc.UpdateTask(context.Background(), owner, task.ID, &dto.UpdateTaskRequest{})
	require.NoError(t, err)

	assert.Equal(t, "Stable", updated.Title)
	assert.Equal(t, models.StatusPending, updated.Status)
	assert.True(t, updated.UpdatedAt.After(before))
}

func TestUpdateTask_Invalid(t *testing.T) {
	svc := newTaskService(nil)
	owner := uuid.New()

	task, err := svc.CreateTask(context.Background(), owner, &dto.CreateTaskRequest{Title: "x"})
	require.NoError(t, err)

	tests := []struct {
		name string
		req  dto.UpdateTaskRequest
	}{
		{"empty title", dto.UpdateTaskRequest{Title: strPtr("")}},
		{"unknown status", dto.UpdateTaskRequest{Status: strPtr("archived")}},
		{"unknown priority", dto.UpdateTaskRequest{Priority: strPtr("critical")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateTask(context.Background(), owner, task.ID, &tt.req)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}
}

func TestUpdateTask_ForeignTask(t *testing.T) {
	svc := newTaskService(nil)
	owner := uuid.New()
	other := uuid.New()

	task, err := svc.CreateTask(context.Background(), owner, &dto.CreateTaskRequest{Title: "Mine"})
	require.NoError(t, err)

	_, err = svc.UpdateTask(context.Background(), other, task.ID, &dto.UpdateTaskRequest{
		Title: strPtr("Stolen"),
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	kept, err := svc.GetTask(context.Background(), owner, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mine", kept.Title)
}

func TestDeleteTask(t *testing.T) {
	svc := newTaskService(nil)
	owner := uuid.New()
	other := uuid.New()

	task, err := svc.CreateTask(context.Background(), owner, &dto.CreateTaskRequest{Title: "Temp"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteTask(context.Background(), other, task.ID), apperrors.ErrNotFound)

	require.NoError(t, svc.DeleteTask(context.Background(), owner, task.ID))

	// Second delete finds nothing.
	assert.ErrorIs(t, svc.DeleteTask(context.Background(), owner, task.ID), apperrors.ErrNotFound)
	_, err = svc.GetTask(context.Background(), owner, task.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListTasks_Filters(t *testing.T) {
	svc := newTaskService(nil)
	owner := uuid.New()
	other := uuid.New()

	seed := []dto.CreateTaskRequest{
		{Title: "Buy groceries", Status: models.StatusPending, Priority: models.PriorityLow},
		{Title: "Fix login bug", Description: "auth token expiry", Status: models.StatusInProgress, Priority: models.PriorityHigh},
		{Title: "Review PR", Status: models.StatusCompleted, Priority: models.PriorityHigh},
	}
	for i := range seed {
		_, err := svc.CreateTask(context.Background(), owner, &seed[i])
		require.NoError(t, err)
	}
	_, err := svc.CreateTask(context.Background(), other, &dto.CreateTaskRequest{Title: "Foreign Fix"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		filter dto.TaskFilter
		titles []string
	}{
		{"no filter lists only own tasks", dto.TaskFilter{}, []string{"Buy groceries", "Fix login bug", "Review PR"}},
		{"by status", dto.TaskFilter{Status: models.StatusInProgress}, []string{"Fix login bug"}},
		{"by priority", dto.TaskFilter{Priority: models.PriorityHigh}, []string{"Fix login bug", "Review PR"}},
		{"search title case-insensitive", dto.TaskFilter{Search: "FIX"}, []string{"Fix login bug"}},
		{"search matches description", dto.TaskFilter{Search: "expiry"}, []string{"Fix login bug"}},
		{"combined", dto.TaskFilter{Priority: models.PriorityHigh, Search: "review"}, []string{"Review PR"}},
		{"no match", dto.TaskFilter{Search: "nonexistent"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := svc.ListTasks(context.Background(), owner, tt.filter)
			require.NoError(t, err)

			var titles []string
			for _, task := range tasks {
				titles = append(titles, task.Title)
			}
			assert.ElementsMatch(t, tt.titles, titles)
		})
	}

	t.Run("invalid status filter", func(t *testing.T) {
		_, err := svc.ListTasks(context.Background(), owner, dto.TaskFilter{Status: "done"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestListTasks_NewestFirst(t *testing.T) {
	svc := newTaskService(nil)
	owner := uuid.New()

	for _, title := range []string{"first", "second", "third"} {
		_, err := svc.CreateTask(context.Background(), owner, &dto.CreateTaskRequest{Title: title})
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	tasks, err := svc.ListTasks(context.Background(), owner, dto.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "third", tasks[0].Title)
	assert.Equal(t, "first", tasks[2].Title)
}

func TestTaskStats(t *testing.T) {
	svc := newTaskService(nil)
	owner := uuid.New()
	other := uuid.New()

	seed := []dto.CreateTaskRequest{
		{Title: "a", Status: models.StatusPending, Priority: models.PriorityLow},
		{Title: "b", Status: models.StatusPending, Priority: models.PriorityHigh},
		{Title: "c", Status: models.StatusCompleted, Priority: models.PriorityHigh},
	}
	for i := range seed {
		_, err := svc.CreateTask(context.Background(), owner, &seed[i])
		require.NoError(t, err)
	}
	_, err := svc.CreateTask(context.Background(), other, &dto.CreateTaskRequest{Title: "foreign"})
	require.NoError(t, err)

	stats, err := svc.TaskStats(context.Background(), owner)
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.ByStatus[models.StatusPending])
	assert.Equal(t, int64(1), stats.ByStatus[models.StatusCompleted])
	assert.Equal(t, int64(2), stats.ByPriority[models.PriorityHigh])
	assert.Equal(t, int64(1), stats.ByPriority[models.PriorityLow])
}

// recordingPublisher captures emitted events for assertions.
type recordingPublisher struct {
	events []string
}

func (p *recordingPublisher) TaskCreated(ctx context.Context, e ports.TaskEvent) error {
	p.events = append(p.events, "created:"+e.TaskID)
	return nil
}

func (p *recordingPublisher) TaskUpdated(ctx context.Context, e ports.TaskEvent) error {
	p.events = append(p.events, "updated:"+e.TaskID)
	return nil
}

func (p *recordingPublisher) TaskDeleted(ctx context.Context, e ports.TaskEvent) error {
	p.events = append(p.events, "deleted:"+e.TaskID)
	return nil
}

func TestTaskEventsPublished(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newTaskService(pub)
	owner := uuid.New()

	task, err := svc.CreateTask(context.Background(), owner, &dto.CreateTaskRequest{Title: "evt"})
	require.NoError(t, err)

	_, err = svc.UpdateTask(context.Background(), owner, task.ID, &dto.UpdateTaskRequest{
		Status: strPtr(models.StatusCompleted),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTask(context.Background(), owner, task.ID))

	id := task.ID.String()
	assert.Equal(t, []string{"created:" + id, "updated:" + id, "deleted:" + id}, pub.events)
}
