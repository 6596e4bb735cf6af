package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/kishanyadav-shop/support-portal/internal/domain"
	"github.com/kishanyadav-shop/support-portal/pkg/util"
)

const principalKey = "auth_principal"

// AuthMiddleware validates bearer tokens and loads the staff principal.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return util.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return util.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return util.NewUnauthorized("invalid token")
	}

	c.Locals(principalKey, &domain.StaffMember{
		Email: claims.Email,
		Name:  claims.Name,
		Role:  claims.Role,
	})
	return c.Next()
}

// StaffFromContext retrieves the authenticated staff member.
func StaffFromContext(c *fiber.Ctx) (*domain.StaffMember, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	staff, ok := val.(*domain.StaffMember)
	return staff, ok
}
