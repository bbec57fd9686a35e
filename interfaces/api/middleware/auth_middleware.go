package middleware

import (
	"github.com/gofiber/fiber/v2"

	"taskhub/pkg/logger"
	"taskhub/pkg/utils"
)

// Protected validates the bearer token and sets the caller in fiber locals.
// Every error variant maps to 401; the client treats them all the same and
// forces re-authentication.
func Protected(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return utils.UnauthorizedResponse(c, "Missing authorization header")
		}

		token := utils.ExtractTokenFromHeader(authHeader)
		if token == "" {
			return utils.UnauthorizedResponse(c, "Invalid authorization header format")
		}

		userCtx, err := utils.ValidateToken(token, jwtSecret)
		if err != nil {
			logger.WarnContext(c.UserContext(), "Token validation failed", "error", err)
			switch err {
			case utils.ErrExpiredToken:
				return utils.UnauthorizedResponse(c, "Token has expired")
			case utils.ErrMissingToken:
				return utils.UnauthorizedResponse(c, "Missing token")
			default:
				return utils.UnauthorizedResponse(c, "Invalid token")
			}
		}

		c.Locals("user", userCtx)

		return c.Next()
	}
}
