package routes

import (
	"github.com/gofiber/fiber/v2"

	"taskhub/interfaces/api/handlers"
	"taskhub/interfaces/api/middleware"
)

func SetupTaskRoutes(api fiber.Router, h *handlers.Handlers) {
	tasks := api.Group("/tasks")
	tasks.Use(middleware.Protected(h.JWTSecret))

	tasks.Post("/", h.TaskHandler.CreateTask)
	tasks.Get("/", h.TaskHandler.ListTasks)
	// Register before ":id" so "stats" is never parsed as a task id.
	tasks.Get("/stats", h.TaskHandler.TaskStats)
	tasks.Get("/:id", h.TaskHandler.GetTask)
	tasks.Put("/:id", h.TaskHandler.UpdateTask)
	tasks.Delete("/:id", h.TaskHandler.DeleteTask)
}
