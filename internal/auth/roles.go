package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kishanyadav-shop/support-portal/internal/domain"
	"github.com/kishanyadav-shop/support-portal/pkg/util"
)

// RequireStaffRole ensures the principal has one of the allowed roles.
// With no roles given, any authenticated staff member passes.
func RequireStaffRole(allowed ...domain.StaffRole) fiber.Handler {
	allowedSet := make(map[domain.StaffRole]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		staff, ok := StaffFromContext(c)
		if !ok {
			return util.NewForbidden("staff role required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[staff.Role]; !exists {
			return util.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
