package httpmiddleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// idleAfter is how long a client bucket may sit full before it is evicted.
const idleAfter = 10 * time.Minute

// RateLimiter is an in-memory per-IP token bucket. Each client may burst up
// to burst requests and regains perMinute tokens per minute.
type RateLimiter struct {
	burst     float64
	perSecond float64

	mu        sync.Mutex
	clients   map[string]*tokens
	lastSweep time.Time
	now       func() time.Time
}

type tokens struct {
	left float64
	seen time.Time
}

// NewRateLimiter creates a limiter. A non-positive perMinute disables
// limiting; a non-positive burst defaults to perMinute.
func NewRateLimiter(burst, perMinute int) *RateLimiter {
	if burst <= 0 {
		burst = perMinute
	}
	return &RateLimiter{
		burst:     float64(burst),
		perSecond: float64(perMinute) / 60,
		clients:   make(map[string]*tokens),
		now:       time.Now,
	}
}

// GinMiddleware rejects over-limit clients with 429 and a Retry-After hint.
func (l *RateLimiter) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.perSecond <= 0 {
			c.Next()
			return
		}
		ip := c.ClientIP()
		if ip == "" {
			ip = "unknown"
		}
		if wait, ok := l.take(ip); !ok {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

// take spends one token for key. When none is left it returns the time until
// the next token.
func (l *RateLimiter) take(key string) (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	t, ok := l.clients[key]
	if !ok {
		t = &tokens{left: l.burst, seen: now}
		l.clients[key] = t
	}
	t.left = math.Min(l.burst, t.left+now.Sub(t.seen).Seconds()*l.perSecond)
	t.seen = now

	if t.left < 1 {
		return time.Duration((1 - t.left) / l.perSecond * float64(time.Second)), false
	}
	t.left--
	return 0, true
}

// sweep drops buckets that have been idle long enough to be full again.
func (l *RateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < idleAfter {
		return
	}
	l.lastSweep = now
	for k, t := range l.clients {
		if now.Sub(t.seen) >= idleAfter {
			delete(l.clients, k)
		}
	}
}
