package auth_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"scale-sync/core/middleware/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(cfg auth.Config) *fiber.App {
	app := fiber.New()
	app.Use(auth.New(cfg))
	app.Get("/protected", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/webhook/withings", func(c *fiber.Ctx) error { return c.SendString("ok") })
	return app
}

func TestNew(t *testing.T) {
	t.Run("RejectsMissingKey", func(t *testing.T) {
		app := newApp(auth.Config{ApiKey: "secret"})

		resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("AcceptsValidKey", func(t *testing.T) {
		app := newApp(auth.Config{ApiKey: "secret"})

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set(auth.HeaderName, "secret")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("RejectsWrongKey", func(t *testing.T) {
		app := newApp(auth.Config{ApiKey: "secret"})

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set(auth.HeaderName, "wrong")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("NextSkipsWebhook", func(t *testing.T) {
		app := newApp(auth.Config{
			ApiKey: "secret",
			Next: func(c *fiber.Ctx) bool {
				return strings.HasPrefix(c.Path(), "/webhook/")
			},
		})

		resp, err := app.Test(httptest.NewRequest("GET", "/webhook/withings", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("EmptyKeyDisablesAuth", func(t *testing.T) {
		app := newApp(auth.Config{})

		resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}
