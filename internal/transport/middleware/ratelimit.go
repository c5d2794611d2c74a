package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/heartmarshall/solarsync/pkg/ctxutil"
)

// idleAfter is how long a caller's limiter survives without requests.
const idleAfter = 10 * time.Minute

// RateLimiter limits requests per caller. Callers are identified by user id
// when authenticated, by remote IP otherwise, so it must run after Auth.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*callerLimiter
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

type callerLimiter struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a RateLimiter that forgets idle callers every
// cleanupInterval. Call Stop on shutdown.
func NewRateLimiter(cleanupInterval time.Duration) *RateLimiter {
	rl := &RateLimiter{
		limiters: make(map[string]*callerLimiter),
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	go rl.cleanup(cleanupInterval)
	return rl
}

// Stop terminates the background cleanup goroutine.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// Limit returns middleware allowing maxPerMinute requests per caller, with
// bursts up to the full minute's allowance. Rejected requests get a 429
// with Retry-After in whole seconds.
func (rl *RateLimiter) Limit(maxPerMinute int) Middleware {
	every := rate.Every(time.Minute / time.Duration(maxPerMinute))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lim := rl.limiter(r.Pattern+"|"+callerKey(r), every, maxPerMinute)

			now := rl.now()
			res := lim.ReserveN(now, 1)
			if delay := res.DelayFrom(now); delay > 0 {
				res.CancelAt(now)
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
				writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func callerKey(r *http.Request) string {
	if id, ok := ctxutil.UserIDFromCtx(r.Context()); ok {
		return "user:" + id.String()
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}

func (rl *RateLimiter) limiter(key string, every rate.Limit, burst int) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, ok := rl.limiters[key]
	if !ok {
		cl = &callerLimiter{lim: rate.NewLimiter(every, burst)}
		rl.limiters[key] = cl
	}
	cl.lastSeen = rl.now()
	return cl.lim
}

// forgetIdle drops limiters unused since before cutoff and returns how many
// remain.
func (rl *RateLimiter) forgetIdle(cutoff time.Time) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, cl := range rl.limiters {
		if cl.lastSeen.Before(cutoff) {
			delete(rl.limiters, key)
		}
	}
	return len(rl.limiters)
}

func (rl *RateLimiter) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.forgetIdle(rl.now().Add(-idleAfter))
		}
	}
}
