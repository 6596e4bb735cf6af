package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/kishanyadav-shop/support-portal/internal/api/dto"
	"github.com/kishanyadav-shop/support-portal/internal/auth"
	"github.com/kishanyadav-shop/support-portal/pkg/util"
)

// AuthHandler manages staff session endpoints.
type AuthHandler struct {
	authenticator auth.Authenticator
	tokens        *auth.TokenManager
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authenticator auth.Authenticator, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{authenticator: authenticator, tokens: tokens}
}

// Login POST /auth/staff/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" {
		return util.NewValidationError("email required", nil)
	}

	staff, err := h.authenticator.Authenticate(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return util.NewUnauthorized("invalid credentials")
		}
		return util.MapError(err)
	}

	token, expiresAt, err := h.tokens.GenerateToken(*staff)
	if err != nil {
		return util.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Name:      staff.Name,
		Role:      staff.Role,
	}})
}
