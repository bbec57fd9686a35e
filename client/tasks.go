package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"taskhub/domain/dto"
)

// Refresh re-fetches the task list and replaces the cache. Subscribers are
// notified with the new snapshot.
func (c *TaskClient) Refresh(ctx context.Context) error {
	var resp dto.TaskListResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/tasks/", nil, &resp, true); err != nil {
		return err
	}
	c.cache.replace(resp.Tasks)
	return nil
}

// CreateTask creates a task and re-fetches the cache. The create request is
// never abandoned once sent: a cancelled context stops the caller waiting,
// not the mutation.
func (c *TaskClient) CreateTask(ctx context.Context, req dto.CreateTaskRequest) (dto.TaskResponse, error) {
	var resp dto.TaskResponse
	if err := c.do(context.WithoutCancel(ctx), http.MethodPost, "/api/v1/tasks/", req, &resp, true); err != nil {
		return dto.TaskResponse{}, err
	}
	if err := c.Refresh(context.WithoutCancel(ctx)); err != nil {
		return resp, err
	}
	return resp, ctx.Err()
}

// GetTask fetches a single task by id, bypassing the cache.
func (c *TaskClient) GetTask(ctx context.Context, id uuid.UUID) (dto.TaskResponse, error) {
	var resp dto.TaskResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/tasks/"+id.String(), nil, &resp, true); err != nil {
		return dto.TaskResponse{}, err
	}
	return resp, nil
}

// ListTasks queries the server with filters, bypassing the cache. For
// cache-backed filtering use Filter.
func (c *TaskClient) ListTasks(ctx context.Context, filter dto.TaskFilter) ([]dto.TaskResponse, error) {
	q := url.Values{}
	if filter.Status != "" {
		q.Set("status", filter.Status)
	}
	if filter.Priority != "" {
		q.Set("priority", filter.Priority)
	}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	path := "/api/v1/tasks/"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp dto.TaskListResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp, true); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

// UpdateTask applies a partial update and re-fetches the cache.
func (c *TaskClient) UpdateTask(ctx context.Context, id uuid.UUID, req dto.UpdateTaskRequest) (dto.TaskResponse, error) {
	var resp dto.TaskResponse
	if err := c.do(context.WithoutCancel(ctx), http.MethodPut, "/api/v1/tasks/"+id.String(), req, &resp, true); err != nil {
		return dto.TaskResponse{}, err
	}
	if err := c.Refresh(context.WithoutCancel(ctx)); err != nil {
		return resp, err
	}
	return resp, ctx.Err()
}

// DeleteTask removes a task and re-fetches the cache.
func (c *TaskClient) DeleteTask(ctx context.Context, id uuid.UUID) error {
	if err := c.do(context.WithoutCancel(ctx), http.MethodDelete, "/api/v1/tasks/"+id.String(), nil, nil, true); err != nil {
		return err
	}
	if err := c.Refresh(context.WithoutCancel(ctx)); err != nil {
		return err
	}
	return ctx.Err()
}

// TaskStats fetches per-status and per-priority counts for the caller.
func (c *TaskClient) TaskStats(ctx context.Context) (dto.TaskStatsResponse, error) {
	var resp dto.TaskStatsResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/tasks/stats", nil, &resp, true); err != nil {
		return dto.TaskStatsResponse{}, err
	}
	return resp, nil
}

// Tasks returns a snapshot copy of the cached task list.
func (c *TaskClient) Tasks() []dto.TaskResponse {
	return c.cache.snapshot()
}

// Filter evaluates status/priority/search over the cache, mirroring the
// server's list predicates. Search is a case-insensitive substring match on
// title or description.
func (c *TaskClient) Filter(status, priority, search string) []dto.TaskResponse {
	return c.cache.filter(status, priority, search)
}

// Subscribe registers a callback invoked with a snapshot copy on every cache
// change. The returned id cancels delivery via Unsubscribe.
func (c *TaskClient) Subscribe(fn func([]dto.TaskResponse)) int {
	return c.cache.subscribe(fn)
}

func (c *TaskClient) Unsubscribe(id int) {
	c.cache.unsubscribe(id)
}
