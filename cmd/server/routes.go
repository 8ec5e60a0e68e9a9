package main

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/apifault/apifault"
	"github.com/apifault/apifault/docs"
	"github.com/apifault/apifault/failure"
	"github.com/apifault/apifault/query"
	"github.com/apifault/apifault/response"
)

// registerRoutes registers all HTTP routes
func registerRoutes(app *fiber.App, deps *Dependencies) {
	// Health check routes (no auth required)
	app.Get("/health", healthHandler(deps))
	app.Get("/healthz", healthHandler(deps))
	app.Get("/livez", livenessHandler)
	app.Get("/version", versionHandler)

	// API documentation
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Set("Content-Type", "application/x-yaml")
		return c.Send(docs.OpenAPISpec)
	})

	// Demo routes, one per translation path
	demo := app.Group("/demo")
	{
		demo.Post("/articles", createArticle())
		demo.Post("/articles/strict", createArticleStrict())
		demo.Get("/articles", listArticles(deps))
		demo.Get("/articles/:id", getArticle(deps))

		demo.Get("/panic", func(c *fiber.Ctx) error {
			panic("demo panic")
		})
		demo.Get("/error", func(c *fiber.Ctx) error {
			return errors.New("demo failure: downstream unavailable")
		})
	}

	// Protected routes (bearer token auth)
	admin := demo.Group("/admin")
	admin.Use(requireAuth(deps.Config.JWT))
	{
		admin.Get("/stats", adminStats())
	}
}

// CreateArticleRequest is the payload bound by the article routes
type CreateArticleRequest struct {
	Name    string `json:"name" validate:"required"`
	Summary string `json:"summary" validate:"omitempty,notblank"`
	Rating  int    `json:"rating" validate:"omitempty,min=1,max=5"`
}

// createArticle binds and validates the payload through struct tags.
// Violations surface as raw rule errors for the app's error handler.
func createArticle() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req CreateArticleRequest
		if err := apifault.ParseAndValidate(c, &req); err != nil {
			return err
		}

		article := Article{
			ID:        "art_" + uuid.New().String(),
			Name:      req.Name,
			Summary:   req.Summary,
			Rating:    req.Rating,
			CreatedAt: time.Now().UTC(),
		}
		return c.Status(fiber.StatusCreated).JSON(response.New(article))
	}
}

// createArticleStrict runs its checks in the handler and declares the
// outcome as property failures.
func createArticleStrict() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req struct {
			Name   *string `json:"name"`
			Rating *int    `json:"rating"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
		}

		var failures []failure.PropertyFailure
		switch {
		case req.Name == nil:
			failures = append(failures, failure.NewPropertyFailure("must not be null", "name", failure.CodeEmpty, nil))
		case strings.TrimSpace(*req.Name) == "":
			failures = append(failures, failure.NewPropertyFailure("must not be blank", "name", failure.CodeEmpty, *req.Name))
		}
		if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
			failures = append(failures, failure.NewPropertyFailure("must be between 1 and 5", "rating", "", *req.Rating))
		}
		if len(failures) > 0 {
			return failure.New(failures...)
		}

		article := Article{
			ID:        "art_" + uuid.New().String(),
			Name:      *req.Name,
			CreatedAt: time.Now().UTC(),
		}
		if req.Rating != nil {
			article.Rating = *req.Rating
		}
		return c.Status(fiber.StatusCreated).JSON(response.New(article))
	}
}

// listArticles sorts and pages the listing. Unknown sort properties
// surface as query errors; store failures surface as driver errors.
func listArticles(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sorts, err := query.ParseSort(c.Query("sort"), sortableProperties)
		if err != nil {
			return err
		}

		limit := c.QueryInt("limit", 20)
		if limit < 1 || limit > 100 {
			limit = 20
		}

		cursor, err := query.DecodeCursor(c.Query("cursor"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid cursor: "+err.Error())
		}
		offset := 0
		if cursor != nil {
			offset = cursor.Offset
		}

		articles, err := deps.Store.List(c.Context(), sorts, limit, offset)
		if err != nil {
			return err
		}

		if len(articles) == limit {
			c.Set("X-Next-Cursor", query.NewOffsetCursor(offset+limit).Encode())
		}
		return c.JSON(response.New(articles))
	}
}

// getArticle loads one article. Missing rows surface as driver errors.
func getArticle(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		article, err := deps.Store.Get(c.Context(), c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(response.New(article))
	}
}

func adminStats() fiber.Handler {
	start := time.Now()
	return func(c *fiber.Ctx) error {
		return c.JSON(response.New(fiber.Map{
			"version": appVersion,
			"uptime":  time.Since(start).String(),
		}))
	}
}
