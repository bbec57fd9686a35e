package ports

import "context"

// TaskEvent is a plain struct (no broker dependency).
type TaskEvent struct {
	TaskID string `json:"taskId"`
	UserID string `json:"userId"`
	Status string `json:"status"`
}

// TaskEventPublisher emits task lifecycle events. Publishing is best-effort:
// task mutations succeed whether or not a broker is configured.
type TaskEventPublisher interface {
	TaskCreated(ctx context.Context, event TaskEvent) error
	TaskUpdated(ctx context.Context, event TaskEvent) error
	TaskDeleted(ctx context.Context, event TaskEvent) error
}
