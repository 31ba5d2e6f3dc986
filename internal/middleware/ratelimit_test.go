package middleware

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestCheckRateLimit_EnforcesLimit(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	rdb := testRedis(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := CheckRateLimit(ctx, rdb, "login", "ip:1.2.3.4", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}

	allowed, err := CheckRateLimit(ctx, rdb, "login", "ip:1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestCheckRateLimit_SeparateResourcesAndIDs(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	rdb := testRedis(t)
	ctx := context.Background()

	allowed, err := CheckRateLimit(ctx, rdb, "login", "ip:1.2.3.4", 1, time.Minute)
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, _ = CheckRateLimit(ctx, rdb, "login", "ip:1.2.3.4", 1, time.Minute)
	assert.False(t, allowed)

	// Same ID against a different resource has its own counter.
	allowed, _ = CheckRateLimit(ctx, rdb, "register", "ip:1.2.3.4", 1, time.Minute)
	assert.True(t, allowed)

	// Different ID against the exhausted resource is unaffected.
	allowed, _ = CheckRateLimit(ctx, rdb, "login", "ip:5.6.7.8", 1, time.Minute)
	assert.True(t, allowed)
}

func TestCheckRateLimit_DisabledOutsideProduction(t *testing.T) {
	for _, env := range []string{"", "development", "test"} {
		t.Setenv("APP_ENV", env)
		allowed, err := CheckRateLimit(context.Background(), nil, "login", "ip:1.2.3.4", 1, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "env %q should bypass rate limiting", env)
	}
}

func TestCheckRateLimit_NilClientErrors(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	_, err := CheckRateLimit(context.Background(), nil, "login", "ip:1.2.3.4", 1, time.Minute)
	assert.Error(t, err)
}

func TestRateLimitMiddleware_BlocksOverLimit(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	rdb := testRedis(t)

	app := fiber.New()
	app.Get("/ping", RateLimit(rdb, 2, time.Minute, "ping"), func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}

func TestRateLimitMiddleware_FailOpenWithoutRedis(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	app := fiber.New()
	app.Get("/ping", RateLimit(nil, 1, time.Minute, "ping"), func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})

	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
}

func TestRateLimitMiddleware_FailClosedWithoutRedis(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	app := fiber.New()
	app.Get("/ping", RateLimitWithPolicy(nil, 1, time.Minute, FailClosed, "ping"), func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
