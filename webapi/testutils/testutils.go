// Package testutils builds a fully wired fiber app over the in-memory store
// and drives it the way a client would.
package testutils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	infracache "github.com/amirasaad/strides/infra/cache"
	"github.com/amirasaad/strides/internal/fixtures"
	"github.com/amirasaad/strides/pkg/app"
	"github.com/amirasaad/strides/pkg/config"
	"github.com/amirasaad/strides/pkg/utils"
	"github.com/amirasaad/strides/webapi"
	"github.com/amirasaad/strides/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// TestPassword is the password of every user created by SignupAndLogin.
const TestPassword = "password123"

func init() {
	utils.PasswordCost = bcrypt.MinCost
}

// TestConfig returns a configuration suitable for tests.
func TestConfig() *config.App {
	return &config.App{
		Env:    "test",
		Server: &config.Server{Scheme: "http", Host: "localhost", Port: 3000},
		Log:    &config.Log{Format: "text"},
		DB:     &config.DB{Driver: config.DriverPostgres},
		Auth: &config.Auth{
			Strategy: "jwt",
			Jwt:      &config.Jwt{Secret: "test-secret", Expiry: time.Hour},
		},
		Redis:        &config.Redis{},
		RateLimit:    &config.RateLimit{MaxRequests: 10000, Window: time.Second},
		Idempotency:  &config.Idempotency{TTL: time.Minute},
		Cors:         &config.Cors{AllowOrigins: "*"},
		Transactions: &config.Transactions{PageSize: 100},
	}
}

// TestApp is a fiber app wired to an in-memory store.
type TestApp struct {
	App    *fiber.App
	Store  *fixtures.Store
	Config *config.App
}

// NewTestApp builds a TestApp. cfg may be nil for TestConfig.
func NewTestApp(t testing.TB, cfg *config.App) *TestApp {
	t.Helper()
	if cfg == nil {
		cfg = TestConfig()
	}
	store := fixtures.NewStore()
	responses := infracache.NewMemoryCache()
	t.Cleanup(func() { _ = responses.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a := app.New(&app.Deps{
		Uow:    fixtures.NewUoW(store),
		Cache:  responses,
		Logger: logger,
	}, cfg)
	return &TestApp{App: webapi.SetupApp(a), Store: store, Config: cfg}
}

// MakeRequest is a helper for making HTTP requests in tests
func MakeRequest(app *fiber.App, method, path, body, token string) *http.Response {
	return MakeRequestWithHeaders(app, method, path, body, token, nil)
}

// MakeRequestWithHeaders is MakeRequest with extra request headers.
func MakeRequestWithHeaders(
	app *fiber.App,
	method, path, body, token string,
	headers map[string]string,
) *http.Response {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		panic(err) // For standalone tests, panic on error
	}
	return resp
}

// Request sends a request to the test app.
func (ta *TestApp) Request(method, path, body, token string) *http.Response {
	return MakeRequest(ta.App, method, path, body, token)
}

// DecodeData decodes the data of a success envelope into out.
func DecodeData(t testing.TB, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close() //nolint: errcheck
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &envelope), string(raw))
	require.NoError(t, json.Unmarshal(envelope.Data, out), string(raw))
}

// DecodeProblem decodes a problem details body.
func DecodeProblem(t testing.TB, resp *http.Response) common.ProblemDetails {
	t.Helper()
	defer resp.Body.Close() //nolint: errcheck
	var pd common.ProblemDetails
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pd))
	return pd
}

// SignupAndLogin registers a user with a random email and returns a bearer
// token and the user id.
func (ta *TestApp) SignupAndLogin(t testing.TB) (string, uuid.UUID) {
	t.Helper()
	email := fmt.Sprintf("test_%s@example.com", uuid.New().String()[:8])
	resp := ta.Request(http.MethodPost, "/auth/signup",
		fmt.Sprintf(`{"email":%q,"password":%q}`, email, TestPassword), "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var created struct {
		ID uuid.UUID `json:"id"`
	}
	DecodeData(t, resp, &created)

	resp = ta.Request(http.MethodPost, "/auth/login",
		fmt.Sprintf(`{"email":%q,"password":%q}`, email, TestPassword), "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var token struct {
		AccessToken string `json:"access_token"`
	}
	DecodeData(t, resp, &token)
	require.NotEmpty(t, token.AccessToken)
	return token.AccessToken, created.ID
}
