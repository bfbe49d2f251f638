package auth

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	apperrors "github.com/spec-kit/lead-dashboard/pkg/util"
)

const minLimiterIdle = time.Minute

type ipLimiter struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// LoginLimiter throttles login attempts per client IP. Entries idle long
// enough to have refilled their burst are dropped on a later call.
type LoginLimiter struct {
	mu        sync.Mutex
	m         map[string]*ipLimiter
	r         rate.Limit
	b         int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewLoginLimiter allows perMinute attempts per IP with the given burst.
// A non-positive perMinute disables throttling.
func NewLoginLimiter(perMinute float64, burst int) *LoginLimiter {
	if burst < 1 {
		burst = 1
	}
	l := &LoginLimiter{
		m:    make(map[string]*ipLimiter),
		r:    rate.Limit(perMinute / 60),
		b:    burst,
		idle: minLimiterIdle,
		now:  time.Now,
	}
	if l.r > 0 {
		refill := time.Duration(float64(burst) / float64(l.r) * float64(time.Second))
		l.idle = max(l.idle, refill)
	}
	l.lastSweep = l.now()
	return l
}

func (l *LoginLimiter) limiterFor(ip string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= l.idle {
		for k, v := range l.m {
			if now.Sub(v.lastSeen) >= l.idle {
				delete(l.m, k)
			}
		}
		l.lastSweep = now
	}

	entry, ok := l.m[ip]
	if !ok {
		entry = &ipLimiter{lim: rate.NewLimiter(l.r, l.b)}
		l.m[ip] = entry
	}
	entry.lastSeen = now
	return entry.lim
}

func (l *LoginLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.m)
}

// Allow reports whether ip may attempt another login now.
func (l *LoginLimiter) Allow(ip string) bool {
	if l == nil || l.r <= 0 {
		return true
	}
	now := l.now()
	return l.limiterFor(ip, now).AllowN(now, 1)
}

// Handle rejects requests over the limit with 429.
func (l *LoginLimiter) Handle(c *fiber.Ctx) error {
	if !l.Allow(c.IP()) {
		return apperrors.NewTooManyRequests("Too many login attempts, try again later")
	}
	return c.Next()
}
