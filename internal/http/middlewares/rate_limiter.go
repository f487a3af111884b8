package middleware

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	apperrors "complaint-desk.com/complaint-desk/internal/errors"
)

// Limiter decides whether the client identified by key may make another
// request in the current window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// MemoryLimiter is a fixed-window limiter local to one process.
type MemoryLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

type bucket struct {
	count int
	start time.Time
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}
}

func (m *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweep(now)

	b, ok := m.buckets[key]
	if !ok || now.Sub(b.start) > m.window {
		b = &bucket{start: now}
		m.buckets[key] = b
	}

	if b.count >= m.limit {
		return false, nil
	}

	b.count++
	return true, nil
}

// sweep drops buckets whose window has ended, at most once per window.
func (m *MemoryLimiter) sweep(now time.Time) {
	if now.Sub(m.lastSweep) <= m.window {
		return
	}
	for key, b := range m.buckets {
		if now.Sub(b.start) > m.window {
			delete(m.buckets, key)
		}
	}
	m.lastSweep = now
}

// RateLimiter rejects requests once the client's budget is spent. When the
// limiter itself fails the request is let through.
func RateLimiter(l Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ok, err := l.Allow(c.Request().Context(), c.RealIP())
			if err != nil {
				log.Printf("rate limiter unavailable: %v", err)
				return next(c)
			}
			if !ok {
				return apperrors.ErrRateLimited
			}
			return next(c)
		}
	}
}
