package apifault

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/apifault/apifault/failure"
	"github.com/apifault/apifault/query"
)

type createArticle struct {
	Name   string `json:"name" validate:"required"`
	Rating int    `json:"rating" validate:"omitempty,max=5"`
}

// newTestApp wires the translator into a Fiber app with routes that fail
// in each translatable way.
func newTestApp(translator *Translator) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: translator.Handler()})

	app.Get("/declared", func(c *fiber.Ctx) error {
		return failure.New(failure.NewPropertyFailure("must not be null", "name", failure.CodeEmpty, nil))
	})
	app.Post("/articles", func(c *fiber.Ctx) error {
		var in createArticle
		if err := ParseAndValidate(c, &in); err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(in)
	})
	app.Get("/query", func(c *fiber.Ctx) error {
		_, err := query.ParseSort(c.Query("sort"), []string{"name"})
		return err
	})
	app.Get("/driver", func(c *fiber.Ctx) error {
		return fmt.Errorf("list articles: %w", &pgconn.PgError{Code: "42703", Message: "column does not exist"})
	})
	app.Get("/unauthorized", func(c *fiber.Ctx) error {
		return fiber.ErrUnauthorized
	})
	app.Get("/runtime", func(c *fiber.Ctx) error {
		return errors.New("dial tcp 10.0.0.5:5432: connection refused")
	})

	return app
}

func TestTranslatorHandler(t *testing.T) {
	t.Parallel()

	t.Run("declared validation failure returns 400 with failures", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(New(DefaultConfig(zap.NewNop())))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/declared", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")

		body, _ := io.ReadAll(resp.Body)
		assert.JSONEq(t, `{
			"error": {"title": "Validation failure"},
			"content": [
				{"message": "must not be null", "field": "name", "code": "empty", "rejectedValue": null}
			]
		}`, string(body))
	})

	t.Run("binding failures are converted in field order", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(New(DefaultConfig(zap.NewNop())))

		req := httptest.NewRequest(http.MethodPost, "/articles", strings.NewReader(`{"rating": 9}`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

		body, _ := io.ReadAll(resp.Body)
		assert.JSONEq(t, `{
			"error": {"title": "Validation failure"},
			"content": [
				{"message": "must not be null", "field": "name", "code": "empty", "rejectedValue": ""},
				{"message": "must be at most 5", "field": "rating", "code": "", "rejectedValue": 9}
			]
		}`, string(body))
	})

	t.Run("valid body passes through untouched", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(New(DefaultConfig(zap.NewNop())))

		req := httptest.NewRequest(http.MethodPost, "/articles", strings.NewReader(`{"name": "go"}`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	})

	t.Run("unparseable body takes the framework path", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(New(DefaultConfig(zap.NewNop())))

		req := httptest.NewRequest(http.MethodPost, "/articles", bytes.NewReader([]byte(`{"name": `)))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

		body, _ := io.ReadAll(resp.Body)
		assert.JSONEq(t, `{"error": {"title": "Internal error", "type": "500"}}`, string(body))
	})

	t.Run("unknown sort property reads as an invalid query", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(New(DefaultConfig(zap.NewNop())))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/query?sort=nam", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

		body, _ := io.ReadAll(resp.Body)
		assert.JSONEq(t, `{"error": {"title": "Invalid query"}}`, string(body))
	})

	t.Run("driver errors read as an invalid query", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(New(DefaultConfig(zap.NewNop())))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/driver", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

		body, _ := io.ReadAll(resp.Body)
		assert.JSONEq(t, `{"error": {"title": "Invalid query"}}`, string(body))
	})

	t.Run("framework errors keep their status and carry type 500", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(New(DefaultConfig(zap.NewNop())))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/unauthorized", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

		body, _ := io.ReadAll(resp.Body)
		assert.JSONEq(t, `{"error": {"title": "Internal error", "type": "500"}}`, string(body))
	})

	t.Run("router misses are translated like any framework error", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(New(DefaultConfig(zap.NewNop())))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/no/such/route", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

		body, _ := io.ReadAll(resp.Body)
		assert.JSONEq(t, `{"error": {"title": "Internal error", "type": "500"}}`, string(body))
	})

	t.Run("anything else is an internal error without details", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(New(DefaultConfig(zap.NewNop())))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/runtime", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

		body, _ := io.ReadAll(resp.Body)
		assert.JSONEq(t, `{"error": {"title": "Internal error"}}`, string(body))
		assert.NotContains(t, string(body), "connection refused")
	})

	t.Run("nil logger falls back to a nop logger", func(t *testing.T) {
		t.Parallel()
		app := newTestApp(New(Config{}))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/runtime", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	})
}

func TestTranslatorLogging(t *testing.T) {
	t.Parallel()

	newObservedApp := func() (*fiber.App, *observer.ObservedLogs) {
		core, logs := observer.New(zapcore.WarnLevel)
		cfg := DefaultConfig(zap.New(core))
		cfg.MetricsEnabled = false
		return newTestApp(New(cfg)), logs
	}

	t.Run("declared validation failures log at warn", func(t *testing.T) {
		t.Parallel()
		app, logs := newObservedApp()

		_, err := app.Test(httptest.NewRequest(http.MethodGet, "/declared", nil))
		require.NoError(t, err)

		entries := logs.FilterMessage("validation failure").All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	})

	t.Run("each converted field is logged", func(t *testing.T) {
		t.Parallel()
		app, logs := newObservedApp()

		req := httptest.NewRequest(http.MethodPost, "/articles", strings.NewReader(`{"rating": 9}`))
		req.Header.Set("Content-Type", "application/json")
		_, err := app.Test(req)
		require.NoError(t, err)

		entries := logs.FilterMessage("invalid request field").All()
		require.Len(t, entries, 2)
		assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	})

	t.Run("invalid queries log at warn with the cause", func(t *testing.T) {
		t.Parallel()
		app, logs := newObservedApp()

		_, err := app.Test(httptest.NewRequest(http.MethodGet, "/driver", nil))
		require.NoError(t, err)

		entries := logs.FilterMessage("invalid query").All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	})

	t.Run("framework and uncaught failures log at error", func(t *testing.T) {
		t.Parallel()
		app, logs := newObservedApp()

		_, err := app.Test(httptest.NewRequest(http.MethodGet, "/unauthorized", nil))
		require.NoError(t, err)
		_, err = app.Test(httptest.NewRequest(http.MethodGet, "/runtime", nil))
		require.NoError(t, err)

		require.Len(t, logs.FilterMessage("request failed").All(), 1)
		require.Len(t, logs.FilterMessage("unhandled error").All(), 1)
		for _, entry := range logs.All() {
			assert.Equal(t, zapcore.ErrorLevel, entry.Level)
		}
	})
}
