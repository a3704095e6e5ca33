package middleware

import (
	"sync"
	"time"

	"budget-tracker/internal/errors"
	"budget-tracker/internal/handlers"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// client tracks one IP's token bucket and when it was last seen,
// so idle entries can be swept out of the registry.
type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	clients = make(map[string]*client)
	mu      sync.Mutex

	// 5 req/sec per IP keeps credential stuffing and accidental loops in check
	requestsPerSecond = 5
	burstSize         = 10

	sweepInterval = 2 * time.Minute
	idleExpiry    = 5 * time.Minute
)

// RateLimiter creates a middleware for rate limiting requests per IP
func RateLimiter() echo.MiddlewareFunc {
	go sweepIdleClients()

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !limiterFor(clientIP(c)).Allow() {
				return handlers.SendError(c, errors.SystemRateLimitExceeded)
			}

			return next(c)
		}
	}
}

// RateLimiterWithConfig creates a rate limiter with custom configuration
func RateLimiterWithConfig(rps int, burst int) echo.MiddlewareFunc {
	requestsPerSecond = rps
	burstSize = burst

	return RateLimiter()
}

func limiterFor(ip string) *rate.Limiter {
	mu.Lock()
	defer mu.Unlock()

	entry, ok := clients[ip]
	if !ok {
		entry = &client{
			limiter:  rate.NewLimiter(rate.Limit(requestsPerSecond), burstSize),
			lastSeen: time.Now(),
		}
		clients[ip] = entry
		return entry.limiter
	}

	entry.lastSeen = time.Now()
	return entry.limiter
}

// clientIP prefers proxy headers over the socket address, matching what the
// reverse proxy in front of the API reports.
func clientIP(c echo.Context) string {
	if xff := c.Request().Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}

	if xri := c.Request().Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	return c.RealIP()
}

func sweepIdleClients() {
	for {
		time.Sleep(sweepInterval)

		mu.Lock()
		for ip, entry := range clients {
			if time.Since(entry.lastSeen) > idleExpiry {
				delete(clients, ip)
			}
		}
		mu.Unlock()
	}
}
