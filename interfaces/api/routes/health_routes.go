package routes

import (
	"github.com/gofiber/fiber/v2"

	"taskhub/pkg/utils"
)

func SetupHealthRoutes(app *fiber.App) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return utils.SuccessResponse(c, fiber.Map{
			"status": "ok",
		})
	})
}
