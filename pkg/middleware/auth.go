// Package middleware provides fiber middleware shared by the HTTP routes.
package middleware

import (
	"strings"

	"github.com/amirasaad/strides/pkg/config"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

const problemContentType = "application/problem+json"

// JwtProtected rejects requests without a valid HS256 bearer token signed
// with cfg.Secret. The verified token is stored in c.Locals("user").
func JwtProtected(cfg *config.Jwt) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: []byte(cfg.Secret)},
		ContextKey:   "user",
		ErrorHandler: jwtError,
	})
}

// Protected is JwtProtected with the secret read from AUTH_JWT_SECRET.
func Protected() fiber.Handler {
	return JwtProtected(&config.Jwt{Secret: config.GetEnv("AUTH_JWT_SECRET", "")})
}

func jwtError(c *fiber.Ctx, err error) error {
	status := fiber.StatusUnauthorized
	title := "Invalid or expired JWT"
	if strings.EqualFold(err.Error(), "missing or malformed JWT") {
		status = fiber.StatusBadRequest
		title = "Missing or malformed JWT"
	}
	return c.Status(status).JSON(fiber.Map{
		"type":     "about:blank",
		"title":    title,
		"status":   status,
		"detail":   err.Error(),
		"instance": c.OriginalURL(),
	}, problemContentType)
}
