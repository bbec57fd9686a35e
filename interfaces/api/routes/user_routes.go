package routes

import (
	"github.com/gofiber/fiber/v2"

	"taskhub/interfaces/api/handlers"
	"taskhub/interfaces/api/middleware"
)

func SetupUserRoutes(api fiber.Router, h *handlers.Handlers) {
	users := api.Group("/users")
	users.Use(middleware.Protected(h.JWTSecret))

	users.Get("/profile", h.UserHandler.GetProfile)
}
