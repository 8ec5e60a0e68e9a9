package main

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/apifault/apifault/internal/config"
)

// requireAuth guards a route group with bearer token auth. Rejections
// are returned as framework errors so the app's error handler renders
// them.
func requireAuth(cfg config.JWTConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == "" || tokenString == header {
			return fiber.ErrUnauthorized
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		})
		if err != nil || !token.Valid {
			return fiber.ErrUnauthorized
		}

		if cfg.Issuer != "" {
			issuer, err := token.Claims.GetIssuer()
			if err != nil || issuer != cfg.Issuer {
				return fiber.ErrUnauthorized
			}
		}

		return c.Next()
	}
}
