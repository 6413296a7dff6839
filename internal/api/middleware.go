package api

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/isdelr/mindcare-be/internal/auth"
	"github.com/isdelr/mindcare-be/internal/monitoring"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Metrics records request counts and latency per matched route pattern.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		monitoring.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		monitoring.HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

const limiterIdle = 3 * time.Minute

type limitedClient struct {
	lim  *rate.Limiter
	seen time.Time
}

// RateLimiter hands out a token bucket per client.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*limitedClient
	r         rate.Limit
	burst     int
	lastSweep time.Time
}

// NewRateLimiter allows perMinute requests per client per minute. A
// non-positive perMinute disables limiting.
func NewRateLimiter(perMinute int) *RateLimiter {
	rl := &RateLimiter{clients: make(map[string]*limitedClient), lastSweep: time.Now()}
	if perMinute <= 0 {
		rl.r = rate.Inf
		return rl
	}
	rl.r = rate.Limit(float64(perMinute) / 60)
	rl.burst = perMinute
	return rl
}

func (rl *RateLimiter) get(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.Sub(rl.lastSweep) > time.Minute {
		for k, c := range rl.clients {
			if now.Sub(c.seen) > limiterIdle {
				delete(rl.clients, k)
			}
		}
		rl.lastSweep = now
	}

	if c, ok := rl.clients[key]; ok {
		c.seen = now
		return c.lim
	}
	l := rate.NewLimiter(rl.r, rl.burst)
	rl.clients[key] = &limitedClient{lim: l, seen: now}
	return l
}

// Limit rejects requests over the client's budget with 429. Signed-in users
// are keyed by id, everyone else by remote address.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.RemoteAddr
		if u, ok := auth.CurrentUser(r); ok {
			key = "user:" + u.ID
		}
		if !rl.get(key).Allow() {
			log.Warn().Str("client", key).Str("path", r.URL.Path).Msg("Rate limit exceeded")
			http.Error(w, "too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
