package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/upliftco/uplift-api/internal/models"
	"github.com/upliftco/uplift-api/internal/utils"
)

// RequirePlatformAdmin gates a route group to the platform administrator
// role. Callers without it get 401, matching the admin API contract: the
// admin surface does not acknowledge lesser principals.
func RequirePlatformAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := normalizeRoleValue(c.Locals("user_role"))
		if role != string(models.RolePlatformAdmin) {
			return utils.SendError(c, fiber.StatusUnauthorized, "administrator access required")
		}
		return c.Next()
	}
}

func normalizeRoleValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return strings.ToLower(strings.TrimSpace(v))
	case fmt.Stringer:
		return strings.ToLower(strings.TrimSpace(v.String()))
	default:
		if value == nil {
			return ""
		}
		return strings.ToLower(strings.TrimSpace(fmt.Sprintf("%v", value)))
	}
}
