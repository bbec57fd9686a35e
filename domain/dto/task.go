package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateTaskRequest deliberately has no owner field: the owner is always bound
// from the authenticated caller, never taken from the request body.
type CreateTaskRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"omitempty,max=1000"`
	Status      string `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high"`
}

// UpdateTaskRequest uses pointers so an absent field and a field set to its
// zero value are distinguishable. An empty body is a valid update; it only
// refreshes updatedAt.
type UpdateTaskRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Status      *string `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
	Priority    *string `json:"priority" validate:"omitempty,oneof=low medium high"`
}

// TaskFilter carries the optional list predicates. Zero values mean the filter
// is not applied. Search matches title or description, case-insensitively.
type TaskFilter struct {
	Status   string `query:"status" validate:"omitempty,oneof=pending in_progress completed"`
	Priority string `query:"priority" validate:"omitempty,oneof=low medium high"`
	Search   string `query:"search" validate:"omitempty,max=200"`
}

func (f TaskFilter) IsZero() bool {
	return f.Status == "" && f.Priority == "" && f.Search == ""
}

type TaskResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	UserID      uuid.UUID `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type TaskListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int            `json:"total"`
}

type TaskStatsResponse struct {
	Total      int64            `json:"total"`
	ByStatus   map[string]int64 `json:"byStatus"`
	ByPriority map[string]int64 `json:"byPriority"`
}
