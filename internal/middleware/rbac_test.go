package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/upliftco/uplift-api/internal/middleware"
	"github.com/upliftco/uplift-api/internal/models"
)

func rbacApp(role interface{}) *fiber.App {
	app := fiber.New()
	app.Get("/admin/ping",
		func(c *fiber.Ctx) error {
			if role != nil {
				c.Locals("user_role", role)
			}
			return c.Next()
		},
		middleware.RequirePlatformAdmin(),
		func(c *fiber.Ctx) error {
			return c.SendStatus(http.StatusOK)
		},
	)
	return app
}

func TestRequirePlatformAdminAllowsAdmins(t *testing.T) {
	app := rbacApp(string(models.RolePlatformAdmin))
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/ping", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequirePlatformAdminNormalizesCase(t *testing.T) {
	app := rbacApp("  Platform_Admin ")
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/ping", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequirePlatformAdminRejectsOtherRoles(t *testing.T) {
	for _, role := range []interface{}{
		string(models.RoleCharityEditor),
		string(models.RoleDonorViewer),
		nil,
		42,
	} {
		app := rbacApp(role)
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/ping", nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
}
