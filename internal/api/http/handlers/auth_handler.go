package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lead-dashboard/internal/api/dto"
	"github.com/spec-kit/lead-dashboard/internal/service"
	apperrors "github.com/spec-kit/lead-dashboard/pkg/util"
)

// AuthHandler exposes the login endpoint.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	token, _, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user":    dto.UserResponse{Username: req.Username},
	})
}
