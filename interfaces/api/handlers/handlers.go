package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"taskhub/domain/apperrors"
	"taskhub/domain/services"
	"taskhub/pkg/utils"
)

// Services contains all the services needed for handlers
type Services struct {
	UserService services.UserService
	TaskService services.TaskService
	JWTSecret   string
}

// Handlers contains all HTTP handlers
type Handlers struct {
	AuthHandler *AuthHandler
	UserHandler *UserHandler
	TaskHandler *TaskHandler
	JWTSecret   string
}

func NewHandlers(services *Services) *Handlers {
	return &Handlers{
		AuthHandler: NewAuthHandler(services.UserService),
		UserHandler: NewUserHandler(services.UserService),
		TaskHandler: NewTaskHandler(services.TaskService),
		JWTSecret:   services.JWTSecret,
	}
}

// respondError maps the error taxonomy onto the response envelope. Not-found
// messages stay generic so they never confirm a foreign record's existence.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, apperrors.ErrUnauthorized):
		return utils.UnauthorizedResponse(c, "")
	case errors.Is(err, apperrors.ErrNotFound):
		return utils.NotFoundResponse(c, "")
	case errors.Is(err, apperrors.ErrInvalidInput):
		return utils.BadRequestResponse(c, err.Error())
	case errors.Is(err, apperrors.ErrConflict):
		return utils.ConflictResponse(c, err.Error())
	default:
		return utils.InternalServerErrorResponse(c)
	}
}
