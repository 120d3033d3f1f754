package middleware

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/strides/pkg/cache"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"
)

const (
	// HeaderIdempotencyKey names the client supplied request key.
	HeaderIdempotencyKey = "Idempotency-Key"
	// HeaderIdempotentReplayed marks a response served from the store.
	HeaderIdempotentReplayed = "Idempotent-Replayed"
)

// Idempotency replays the stored response of an earlier request that
// carried the same Idempotency-Key for the same user and route. Concurrent
// duplicates wait for the first one and share its response. Only 2xx
// responses are stored, for ttl.
//
// It must run after JwtProtected. Requests without a key or a user pass
// straight through.
func Idempotency(
	store cache.ResponseCache,
	ttl time.Duration,
	logger *slog.Logger,
) fiber.Handler {
	var group singleflight.Group
	return func(c *fiber.Ctx) error {
		key := c.Get(HeaderIdempotencyKey)
		userID := tokenUserID(c)
		if key == "" || userID == "" {
			return c.Next()
		}
		storeKey := fmt.Sprintf("idempotency:%s:%s:%s:%s", userID, c.Method(), c.Path(), key)
		log := logger.With("userID", userID, "idempotencyKey", key, "path", c.Path())

		ctx := c.UserContext()
		cached, err := store.Get(ctx, storeKey)
		if err != nil {
			log.Warn("Idempotency lookup failed", "error", err)
		}
		if cached != nil {
			log.Info("Replaying stored response")
			return replay(c, cached)
		}

		ran := false
		v, err, _ := group.Do(storeKey, func() (any, error) {
			if cached, _ := store.Get(ctx, storeKey); cached != nil {
				return cached, nil
			}
			ran = true
			if err := c.Next(); err != nil {
				return nil, err
			}
			resp := &cache.Response{
				Status:      c.Response().StatusCode(),
				ContentType: string(c.Response().Header.ContentType()),
				Body:        append([]byte(nil), c.Response().Body()...),
			}
			if resp.Status >= fiber.StatusOK && resp.Status < fiber.StatusMultipleChoices {
				if err := store.Set(ctx, storeKey, resp, ttl); err != nil {
					log.Warn("Idempotency store failed", "error", err)
				}
			}
			return resp, nil
		})
		if err != nil {
			return err
		}
		if ran {
			return nil
		}
		log.Info("Replaying response of concurrent request")
		return replay(c, v.(*cache.Response))
	}
}

func replay(c *fiber.Ctx, resp *cache.Response) error {
	c.Set(HeaderIdempotentReplayed, "true")
	if resp.ContentType != "" {
		c.Set(fiber.HeaderContentType, resp.ContentType)
	}
	return c.Status(resp.Status).Send(resp.Body)
}

func tokenUserID(c *fiber.Ctx) string {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return ""
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	id, _ := claims["user_id"].(string)
	return id
}
