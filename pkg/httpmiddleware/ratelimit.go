package httpmiddleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimitConfig sizes the per-client sliding window.
type RateLimitConfig struct {
	// Max requests allowed inside one window.
	Max int
	// Window length.
	Window time.Duration
	// Key derives the bucket key from a request. Defaults to the client IP.
	Key func(c *gin.Context) string
}

// window holds the two adjacent counting windows for one client. The
// previous window's count is weighted by its remaining overlap, which
// smooths the boundary instead of resetting the budget at once.
type window struct {
	prevCount float64
	prevStart time.Time
	currCount float64
	currStart time.Time
}

type limiter struct {
	cfg     RateLimitConfig
	mu      sync.Mutex
	clients map[string]*window
}

func (l *limiter) take(key string, now time.Time) (remaining int, resetAt time.Time, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, found := l.clients[key]
	if !found {
		w = &window{currStart: now}
		l.clients[key] = w
	}

	if now.Sub(w.currStart) >= l.cfg.Window {
		w.prevCount, w.prevStart = w.currCount, w.currStart
		w.currCount = 0
		w.currStart = now.Truncate(l.cfg.Window)
		if now.Sub(w.prevStart) >= 2*l.cfg.Window {
			w.prevCount = 0
		}
	}

	overlap := 1 - now.Sub(w.currStart).Seconds()/l.cfg.Window.Seconds()
	if overlap < 0 {
		overlap = 0
	}
	weighted := w.prevCount*overlap + w.currCount
	resetAt = w.currStart.Add(l.cfg.Window)

	if weighted >= float64(l.cfg.Max) {
		return 0, resetAt, false
	}

	w.currCount++
	remaining = int(float64(l.cfg.Max) - weighted - 1)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, resetAt, true
}

func (l *limiter) sweep(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, w := range l.clients {
		if now.Sub(w.currStart) >= 2*l.cfg.Window {
			delete(l.clients, key)
		}
	}
}

// RateLimit caps requests per client with a sliding window and answers 429
// once the budget is spent. Stale client buckets are swept in the background
// until ctx is cancelled.
func RateLimit(ctx context.Context, cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Key == nil {
		cfg.Key = func(c *gin.Context) string { return c.ClientIP() }
	}
	l := &limiter{cfg: cfg, clients: make(map[string]*window)}

	go func() {
		ticker := time.NewTicker(2 * cfg.Window)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				l.sweep(now)
			}
		}
	}()

	return func(c *gin.Context) {
		remaining, resetAt, ok := l.take(cfg.Key(c), time.Now())

		h := c.Writer.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Max))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		h.Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

		if !ok {
			retryAfter := math.Ceil(time.Until(resetAt).Seconds())
			if retryAfter < 0 {
				retryAfter = 0
			}
			h.Set("Retry-After", strconv.Itoa(int(retryAfter)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
