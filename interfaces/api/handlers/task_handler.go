package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"taskhub/domain/dto"
	"taskhub/domain/services"
	"taskhub/pkg/logger"
	"taskhub/pkg/utils"
)

type TaskHandler struct {
	taskService services.TaskService
}

func NewTaskHandler(taskService services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

func (h *TaskHandler) CreateTask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		logger.WarnContext(ctx, "Unauthorized access attempt")
		return utils.UnauthorizedResponse(c, "")
	}

	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	if err := utils.ValidateStruct(&req); err != nil {
		errs := utils.GetValidationErrors(err)
		logger.WarnContext(ctx, "Validation failed", "errors", errs)
		return utils.ValidationErrorResponse(c, errs)
	}

	task, err := h.taskService.CreateTask(ctx, user.ID, &req)
	if err != nil {
		logger.WarnContext(ctx, "Task creation failed", "user_id", user.ID, "error", err)
		return respondError(c, err)
	}

	return utils.CreatedResponse(c, dto.TaskToTaskResponse(task))
}

func (h *TaskHandler) GetTask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		// An unparseable id can't name any record the caller owns.
		return utils.NotFoundResponse(c, "")
	}

	task, err := h.taskService.GetTask(ctx, user.ID, taskID)
	if err != nil {
		return respondError(c, err)
	}

	return utils.SuccessResponse(c, dto.TaskToTaskResponse(task))
}

func (h *TaskHandler) ListTasks(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	filter := dto.TaskFilter{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Search:   c.Query("search"),
	}
	if err := utils.ValidateStruct(&filter); err != nil {
		errs := utils.GetValidationErrors(err)
		logger.WarnContext(ctx, "Invalid list filters", "errors", errs)
		return utils.ValidationErrorResponse(c, errs)
	}

	tasks, err := h.taskService.ListTasks(ctx, user.ID, filter)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to list tasks", "user_id", user.ID, "error", err)
		return respondError(c, err)
	}

	return utils.SuccessResponse(c, dto.TasksToTaskListResponse(tasks))
}

func (h *TaskHandler) UpdateTask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.NotFoundResponse(c, "")
	}

	var req dto.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	if err := utils.ValidateStruct(&req); err != nil {
		errs := utils.GetValidationErrors(err)
		logger.WarnContext(ctx, "Validation failed", "errors", errs)
		return utils.ValidationErrorResponse(c, errs)
	}

	task, err := h.taskService.UpdateTask(ctx, user.ID, taskID, &req)
	if err != nil {
		logger.WarnContext(ctx, "Task update failed", "task_id", taskID, "error", err)
		return respondError(c, err)
	}

	return utils.SuccessResponse(c, dto.TaskToTaskResponse(task))
}

func (h *TaskHandler) DeleteTask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.NotFoundResponse(c, "")
	}

	if err := h.taskService.DeleteTask(ctx, user.ID, taskID); err != nil {
		logger.WarnContext(ctx, "Task deletion failed", "task_id", taskID, "error", err)
		return respondError(c, err)
	}

	return utils.NoContentResponse(c)
}

func (h *TaskHandler) TaskStats(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	stats, err := h.taskService.TaskStats(ctx, user.ID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to get task stats", "user_id", user.ID, "error", err)
		return respondError(c, err)
	}

	return utils.SuccessResponse(c, &dto.TaskStatsResponse{
		Total:      stats.Total,
		ByStatus:   stats.ByStatus,
		ByPriority: stats.ByPriority,
	})
}
