package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	// limiterStaleAfter is how long a client may be idle before its limiter
	// is evicted.
	limiterStaleAfter = 10 * time.Minute
	// limiterSweepPeriod is the minimum interval between eviction sweeps.
	limiterSweepPeriod = time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiters holds one token bucket per client IP. Stale entries are
// swept on access so the map does not grow with every IP ever seen.
type clientLimiters struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	clients   map[string]*clientLimiter
	lastSweep time.Time
}

func newClientLimiters(limit rate.Limit, burst int) *clientLimiters {
	return &clientLimiters{
		limit:   limit,
		burst:   burst,
		clients: make(map[string]*clientLimiter),
	}
}

func (cl *clientLimiters) get(ip string, now time.Time) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if now.Sub(cl.lastSweep) >= limiterSweepPeriod {
		cl.sweepLocked(now.Add(-limiterStaleAfter))
		cl.lastSweep = now
	}

	entry, ok := cl.clients[ip]
	if !ok {
		entry = &clientLimiter{limiter: rate.NewLimiter(cl.limit, cl.burst)}
		cl.clients[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

func (cl *clientLimiters) sweepLocked(cutoff time.Time) {
	for ip, entry := range cl.clients {
		if entry.lastSeen.Before(cutoff) {
			delete(cl.clients, ip)
		}
	}
}

func (cl *clientLimiters) size() int {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return len(cl.clients)
}

// RateLimit throttles requests per client IP with a token bucket. Used on
// the credential endpoints to slow down brute-force attempts.
func RateLimit(limit rate.Limit, burst int) gin.HandlerFunc {
	limiters := newClientLimiters(limit, burst)
	return func(c *gin.Context) {
		if !limiters.get(c.ClientIP(), time.Now()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "too many requests"})
			return
		}
		c.Next()
	}
}
