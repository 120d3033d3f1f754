//go:build integration

package cache

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/amirasaad/strides/pkg/cache"
	"github.com/amirasaad/strides/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedisCache(tb testing.TB) *RedisCache {
	tb.Helper()
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7.0.5",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(tb, err)
	tb.Cleanup(func() { _ = container.Terminate(ctx) })

	port, err := container.MappedPort(ctx, "6379")
	require.NoError(tb, err)
	host, err := container.Host(ctx)
	require.NoError(tb, err)

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	c, err := NewRedisCache(&config.Redis{
		URL:       "redis://" + host + ":" + port.Port(),
		KeyPrefix: "test:",
	}, logger)
	require.NoError(tb, err)
	tb.Cleanup(func() { _ = c.Close() })
	require.NoError(tb, c.Ping(ctx))
	return c
}

func TestRedisCache_RoundTrip(t *testing.T) {
	c := setupRedisCache(t)
	ctx := context.Background()

	got, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Set(ctx, "k", &cache.Response{Status: 201, Body: []byte("[]")}, time.Second))
	got, err = c.Get(ctx, "k")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 201, got.Status)

	assert.Eventually(t, func() bool {
		got, err := c.Get(ctx, "k")
		return err == nil && got == nil
	}, 5*time.Second, 100*time.Millisecond)
}

func TestNewRedisCache_BadURL(t *testing.T) {
	_, err := NewRedisCache(&config.Redis{URL: "::not a url"}, slog.Default())
	assert.Error(t, err)
}
