package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Clients idle for longer than this lose their bucket on the next sweep.
const limiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientLimiters hands out one token bucket per client key.
type ClientLimiters struct {
	mu      sync.Mutex
	every   rate.Limit
	burst   int
	clients map[string]*clientLimiter
	swept   time.Time
	now     func() time.Time
}

func NewClientLimiters(every rate.Limit, burst int) *ClientLimiters {
	return &ClientLimiters{
		every:   every,
		burst:   burst,
		clients: make(map[string]*clientLimiter),
		now:     time.Now,
	}
}

// Allow spends a token from key's bucket.
func (l *ClientLimiters) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.swept) > limiterIdleTTL {
		for k, cl := range l.clients {
			if now.Sub(cl.lastSeen) > limiterIdleTTL {
				delete(l.clients, k)
			}
		}
		l.swept = now
	}

	cl, ok := l.clients[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(l.every, l.burst)}
		l.clients[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}

// RateLimit rejects a client once its own bucket runs dry. Clients are keyed
// by gin's ClientIP, so one caller cannot exhaust the budget of another.
func RateLimit(limiters *ClientLimiters, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !limiters.Allow(ip) {
			log.Warn("too many requests", slog.String("path", c.FullPath()), slog.String("client_ip", ip))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
