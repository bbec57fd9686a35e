package handlers

import (
	"github.com/gofiber/fiber/v2"

	"taskhub/domain/dto"
	"taskhub/domain/services"
	"taskhub/pkg/logger"
	"taskhub/pkg/utils"
)

type AuthHandler struct {
	userService services.UserService
}

func NewAuthHandler(userService services.UserService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	if err := utils.ValidateStruct(&req); err != nil {
		errs := utils.GetValidationErrors(err)
		logger.WarnContext(ctx, "Validation failed", "errors", errs)
		return utils.ValidationErrorResponse(c, errs)
	}

	logger.InfoContext(ctx, "Registration attempt", "email", req.Email, "username", req.Username)

	user, pair, err := h.userService.Register(ctx, &req)
	if err != nil {
		logger.WarnContext(ctx, "Registration failed", "email", req.Email, "error", err)
		return respondError(c, err)
	}

	return utils.CreatedResponse(c, &dto.AuthResponse{
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         *dto.UserToUserResponse(user),
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	if err := utils.ValidateStruct(&req); err != nil {
		errs := utils.GetValidationErrors(err)
		logger.WarnContext(ctx, "Validation failed", "errors", errs)
		return utils.ValidationErrorResponse(c, errs)
	}

	logger.InfoContext(ctx, "Login attempt", "email", req.Email)

	user, pair, err := h.userService.Login(ctx, &req)
	if err != nil {
		logger.WarnContext(ctx, "Login failed", "email", req.Email, "reason", err.Error())
		return utils.UnauthorizedResponse(c, "Invalid credentials")
	}

	return utils.SuccessResponse(c, &dto.AuthResponse{
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         *dto.UserToUserResponse(user),
	})
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req dto.RefreshTokenRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	if err := utils.ValidateStruct(&req); err != nil {
		return utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
	}

	pair, err := h.userService.Refresh(ctx, req.RefreshToken)
	if err != nil {
		logger.WarnContext(ctx, "Token refresh failed", "error", err)
		return respondError(c, err)
	}

	return utils.SuccessResponse(c, &dto.RefreshTokenResponse{
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req dto.LogoutRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	if err := h.userService.Logout(ctx, req.RefreshToken); err != nil {
		return respondError(c, err)
	}

	logger.InfoContext(ctx, "User logged out")

	return utils.SuccessResponse(c, &dto.LogoutResponse{Message: "Logged out"})
}
