package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	infracache "github.com/amirasaad/strides/infra/cache"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withUser stands in for JwtProtected by storing an unsigned token.
func withUser(c *fiber.Ctx) error {
	if id := c.Get("X-Test-User"); id != "" {
		c.Locals("user", jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": id}))
	}
	return c.Next()
}

func idempotentApp(t *testing.T, calls *atomic.Int32, status int, delay time.Duration) *fiber.App {
	t.Helper()
	store := infracache.NewMemoryCache()
	t.Cleanup(func() { _ = store.Close() })
	app := fiber.New()
	app.Post("/transactions", withUser, Idempotency(store, time.Minute, slog.Default()), func(c *fiber.Ctx) error {
		n := calls.Add(1)
		time.Sleep(delay)
		return c.Status(status).JSON(fiber.Map{"call": n})
	})
	return app
}

func post(t *testing.T, app *fiber.App, user, key string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/transactions", nil)
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	if key != "" {
		req.Header.Set(HeaderIdempotencyKey, key)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp, string(body)
}

func TestIdempotency_Replay(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	app := idempotentApp(t, &calls, fiber.StatusCreated, 0)

	first, body1 := post(t, app, "u1", "k1")
	assert.Equal(t, fiber.StatusCreated, first.StatusCode)
	assert.Empty(t, first.Header.Get(HeaderIdempotentReplayed))

	second, body2 := post(t, app, "u1", "k1")
	assert.Equal(t, fiber.StatusCreated, second.StatusCode)
	assert.Equal(t, "true", second.Header.Get(HeaderIdempotentReplayed))
	assert.Equal(t, body1, body2)
	assert.Equal(t, fiber.MIMEApplicationJSON, second.Header.Get(fiber.HeaderContentType))
	assert.Equal(t, int32(1), calls.Load())

	// keys are scoped per user
	_, _ = post(t, app, "u2", "k1")
	assert.Equal(t, int32(2), calls.Load())

	// no key, no replay
	_, _ = post(t, app, "u1", "")
	_, _ = post(t, app, "u1", "")
	assert.Equal(t, int32(4), calls.Load())
}

func TestIdempotency_NoUserPassesThrough(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	app := idempotentApp(t, &calls, fiber.StatusCreated, 0)
	_, _ = post(t, app, "", "k1")
	_, _ = post(t, app, "", "k1")
	assert.Equal(t, int32(2), calls.Load())
}

func TestIdempotency_FailuresAreNotStored(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	app := idempotentApp(t, &calls, fiber.StatusBadRequest, 0)
	_, _ = post(t, app, "u1", "k1")
	resp, _ := post(t, app, "u1", "k1")
	assert.Empty(t, resp.Header.Get(HeaderIdempotentReplayed))
	assert.Equal(t, int32(2), calls.Load())
}

func TestIdempotency_ConcurrentDuplicates(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	app := idempotentApp(t, &calls, fiber.StatusCreated, 50*time.Millisecond)

	const n = 8
	var wg sync.WaitGroup
	bodies := make([]string, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, body := post(t, app, "u1", "same")
			assert.Equal(t, fiber.StatusCreated, resp.StatusCode, "request "+strconv.Itoa(i))
			bodies[i] = body
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), calls.Load())
	for _, b := range bodies {
		assert.Equal(t, bodies[0], b)
	}
}
