package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	t.Run("generates request ID when not present", func(t *testing.T) {
		app := fiber.New()

		app.Use(RequestID())
		app.Get("/test", func(c *fiber.Ctx) error {
			return c.SendStatus(200)
		})

		resp, err := app.Test(httptest.NewRequest("GET", "/test", nil))
		require.NoError(t, err)

		assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	})

	t.Run("preserves existing request ID from header", func(t *testing.T) {
		app := fiber.New()

		app.Use(RequestID())
		app.Get("/test", func(c *fiber.Ctx) error {
			return c.SendStatus(200)
		})

		existingID := "existing-request-id-12345"
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("X-Request-ID", existingID)

		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, existingID, resp.Header.Get("X-Request-ID"))
	})

	t.Run("stores request ID in locals", func(t *testing.T) {
		app := fiber.New()

		var seen string
		app.Use(RequestID())
		app.Get("/test", func(c *fiber.Ctx) error {
			seen = GetRequestID(c)
			return c.SendStatus(200)
		})

		_, err := app.Test(httptest.NewRequest("GET", "/test", nil))
		require.NoError(t, err)

		assert.NotEmpty(t, seen)
	})

	t.Run("GetRequestID is empty without the middleware", func(t *testing.T) {
		app := fiber.New()

		var seen string
		app.Get("/test", func(c *fiber.Ctx) error {
			seen = GetRequestID(c)
			return c.SendStatus(200)
		})

		_, err := app.Test(httptest.NewRequest("GET", "/test", nil))
		require.NoError(t, err)

		assert.Empty(t, seen)
	})
}

func TestRequestIDWithConfig(t *testing.T) {
	t.Run("uses custom header and generator", func(t *testing.T) {
		app := fiber.New()

		config := RequestIDConfig{
			Header: "X-Custom-Request-ID",
			Generator: func() string {
				return "custom-generated-id"
			},
		}
		app.Use(RequestID(config))
		app.Get("/test", func(c *fiber.Ctx) error {
			return c.SendStatus(200)
		})

		resp, err := app.Test(httptest.NewRequest("GET", "/test", nil))
		require.NoError(t, err)

		assert.Equal(t, "custom-generated-id", resp.Header.Get("X-Custom-Request-ID"))
	})

	t.Run("does not call generator when ID exists", func(t *testing.T) {
		app := fiber.New()

		callCount := 0
		config := RequestIDConfig{
			Header: "X-Request-ID",
			Generator: func() string {
				callCount++
				return "generated-id"
			},
		}
		app.Use(RequestID(config))
		app.Get("/test", func(c *fiber.Ctx) error {
			return c.SendStatus(200)
		})

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("X-Request-ID", "existing-id")
		_, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, 0, callCount)
	})
}

func TestDefaultRequestIDConfig(t *testing.T) {
	config := DefaultRequestIDConfig()
	assert.Equal(t, "X-Request-ID", config.Header)

	// UUID format: xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx
	id := config.Generator()
	assert.Len(t, id, 36)
	assert.Contains(t, id, "-")
}
