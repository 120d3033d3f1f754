// Package webapi provides the HTTP API of the application. It is organized
// into sub-packages per resource:
//   - auth: signup, login and the current user
//   - account: accounts and credit card analysis
//   - category: categories and subcategories
//   - transaction: expenses, incomes and transfers
package webapi

import (
	"errors"
	"strings"

	"github.com/amirasaad/strides/pkg/app"
	accountweb "github.com/amirasaad/strides/webapi/account"
	authweb "github.com/amirasaad/strides/webapi/auth"
	categoryweb "github.com/amirasaad/strides/webapi/category"
	"github.com/amirasaad/strides/webapi/common"
	transactionweb "github.com/amirasaad/strides/webapi/transaction"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
)

// SetupApp Initialize Fiber with custom configuration
func SetupApp(a *app.App) *fiber.App {
	cfg := a.Config

	fiberApp := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return common.ProblemDetailsJSON(c, fe.Message, nil, fe.Code)
			}
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		},
	})
	fiberApp.Get("/swagger/*", swagger.New(swagger.Config{
		TryItOutEnabled:      true,
		WithCredentials:      true,
		PersistAuthorization: true,
	}))

	// Rate limit per client IP. Behind a proxy the first X-Forwarded-For
	// entry is the client, then X-Real-IP.
	fiberApp.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimit.MaxRequests,
		Expiration: cfg.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
				if commaIndex := strings.Index(forwardedFor, ","); commaIndex != -1 {
					return strings.TrimSpace(forwardedFor[:commaIndex])
				}
				return strings.TrimSpace(forwardedFor)
			}
			if realIP := c.Get("X-Real-IP"); realIP != "" {
				return realIP
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return common.ProblemDetailsJSON(
				c,
				"Too Many Requests",
				errors.New("rate limit exceeded"),
				fiber.StatusTooManyRequests,
			)
		},
	}))
	fiberApp.Use(recover.New())
	fiberApp.Use(logger.New())
	fiberApp.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Cors.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, Idempotency-Key",
	}))

	// Health check endpoint
	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Strides API is running!")
	})

	// Debug endpoint to list all routes
	fiberApp.Get("/debug/routes", func(c *fiber.Ctx) error {
		routes := fiberApp.GetRoutes(true)
		routeList := make([]fiber.Map, 0, len(routes))
		for _, route := range routes {
			if route.Path != "" {
				routeList = append(routeList, fiber.Map{
					"method": route.Method,
					"path":   route.Path,
				})
			}
		}
		return c.JSON(routeList)
	})

	authweb.Routes(fiberApp, a.AuthService, a.UserService, cfg)
	accountweb.Routes(fiberApp, a.AccountService, a.AuthService, cfg)
	categoryweb.Routes(fiberApp, a.CategoryService, a.AuthService, cfg)
	transactionweb.Routes(
		fiberApp,
		a.TransactionService,
		a.TransferService,
		a.AuthService,
		a.Deps.Cache,
		cfg,
		a.Deps.Logger,
	)
	return fiberApp
}
