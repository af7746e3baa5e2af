package middleware

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCounter struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func (m *memoryCounter) Incr(_ context.Context, key string, _ time.Duration) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counts == nil {
		m.counts = make(map[string]int64)
	}
	m.counts[key]++
	return m.counts[key], nil
}

func limitedApp(limiter *RateLimiter) *fiber.App {
	app := fiber.New()
	app.Post("/login", limiter.Handler(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestRateLimiterBlocksAfterLimit(t *testing.T) {
	limiter := newRateLimiter(&memoryCounter{}, RateLimitConfig{Limit: 2, Window: time.Minute, KeyPrefix: "login"})
	limiter.now = func() time.Time { return time.Date(2030, 1, 1, 10, 0, 30, 0, time.UTC) }
	app := limitedApp(limiter)

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/login", nil))
		require.NoError(t, err)
		statuses = append(statuses, resp.StatusCode)
		if i == 2 {
			assert.Equal(t, "0", resp.Header.Get("X-RateLimit-Remaining"))
			assert.Equal(t, "30", resp.Header.Get(fiber.HeaderRetryAfter))
		}
		resp.Body.Close()
	}

	assert.Equal(t, []int{fiber.StatusOK, fiber.StatusOK, fiber.StatusTooManyRequests}, statuses)
}

func TestRateLimiterNewWindowResets(t *testing.T) {
	counter := &memoryCounter{}
	limiter := newRateLimiter(counter, RateLimitConfig{Limit: 1, Window: time.Minute})
	current := time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return current }

	allowed, _, _, err := limiter.IsAllowed(context.Background(), "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, _, _, err = limiter.IsAllowed(context.Background(), "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, allowed)

	current = current.Add(time.Minute)
	allowed, remaining, reset, err := limiter.IsAllowed(context.Background(), "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 0, remaining)
	assert.Equal(t, current.Add(time.Minute), reset)
}

func TestRateLimiterFailsOpen(t *testing.T) {
	limiter := newRateLimiter(&memoryCounter{err: errors.New("connection refused")}, RateLimitConfig{Limit: 1})
	app := limitedApp(limiter)

	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/login", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}
}
