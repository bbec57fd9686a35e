package routes

import (
	"github.com/gofiber/fiber/v2"

	"taskhub/interfaces/api/handlers"
	"taskhub/interfaces/api/middleware"
)

func SetupAuthRoutes(api fiber.Router, h *handlers.Handlers) {
	auth := api.Group("/auth")

	auth.Post("/register", h.AuthHandler.Register)
	auth.Post("/login", h.AuthHandler.Login)
	auth.Post("/refresh", h.AuthHandler.Refresh)

	auth.Post("/logout", middleware.Protected(h.JWTSecret), h.AuthHandler.Logout)
	auth.Get("/me", middleware.Protected(h.JWTSecret), h.UserHandler.GetProfile)
}
