package main

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

var startTime = time.Now()

// HealthStatus represents health check status
type HealthStatus struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Uptime    string            `json:"uptime"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// healthHandler reports readiness, including the article store backend
func healthHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := HealthStatus{
			Status:    "healthy",
			Version:   appVersion,
			Uptime:    time.Since(startTime).String(),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Checks:    make(map[string]string),
		}

		if deps.Postgres != nil {
			ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
			defer cancel()

			if err := deps.Postgres.Ping(ctx); err != nil {
				status.Status = "unhealthy"
				status.Checks["postgres"] = "unhealthy: " + err.Error()
			} else {
				status.Checks["postgres"] = "healthy"
			}
		} else {
			status.Checks["store"] = "in-memory"
		}

		code := fiber.StatusOK
		if status.Status != "healthy" {
			code = fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(status)
	}
}

// livenessHandler reports process liveness
func livenessHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "alive"})
}

// versionHandler reports the build version
func versionHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"version": appVersion})
}
