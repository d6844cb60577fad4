package middleware

import (
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/logger"
	"github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/metrics"
	tghelpers "github.com/sinharzs2k26/QR-Code-Generator-Scanner-Bot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// maxTrackedUsers triggers a sweep of idle per-user limiters.
const maxTrackedUsers = 4096

// RateLimitOptions configures behaviour of the rate limit middleware.
type RateLimitOptions struct {
	Interval  time.Duration
	Exclude   map[string]struct{}
	OnLimited tele.HandlerFunc
}

type userLimiter struct {
	lim  *rate.Limiter
	seen time.Time
}

// userLimiters hands out one token bucket per user: one update per interval, burst 1.
type userLimiters struct {
	every rate.Limit
	ttl   time.Duration

	mu    sync.Mutex
	users map[int64]*userLimiter
}

func newUserLimiters(interval time.Duration) *userLimiters {
	return &userLimiters{
		every: rate.Every(interval),
		ttl:   interval,
		users: make(map[int64]*userLimiter),
	}
}

func (u *userLimiters) allow(userID int64, now time.Time) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	entry, ok := u.users[userID]
	if !ok {
		if len(u.users) >= maxTrackedUsers {
			u.sweep(now)
		}
		entry = &userLimiter{lim: rate.NewLimiter(u.every, 1)}
		u.users[userID] = entry
	}
	entry.seen = now
	return entry.lim.AllowN(now, 1)
}

// sweep drops users whose bucket has refilled; their next update starts fresh.
func (u *userLimiters) sweep(now time.Time) {
	for id, entry := range u.users {
		if now.Sub(entry.seen) >= u.ttl {
			delete(u.users, id)
		}
	}
}

// RateLimitMiddleware drops updates that arrive from the same user faster
// than one per Interval. Excluded update kinds always pass.
func RateLimitMiddleware(opts RateLimitOptions) tele.MiddlewareFunc {
	if opts.Interval <= 0 {
		return func(next tele.HandlerFunc) tele.HandlerFunc { return next }
	}
	limiters := newUserLimiters(opts.Interval)
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil {
				return next(c)
			}
			if _, skip := opts.Exclude[UpdateKind(c.Update())]; skip {
				return next(c)
			}
			if limiters.allow(user.ID, time.Now()) {
				return next(c)
			}

			metrics.IncRateLimited()
			logger.Warn(tghelpers.BuildContext(c), "tg", "tg.rate_limit",
				slog.String("status", "rate_limited"),
			)
			if opts.OnLimited != nil {
				_ = opts.OnLimited(c)
			}
			return nil
		}
	}
}
