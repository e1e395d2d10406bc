package rest

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	redisadapter "github.com/devhermez/full-stack-sneakup/internal/adapter/redis"
	"github.com/devhermez/full-stack-sneakup/internal/platform/logger"
)

type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (redisadapter.LimitResult, error)
}

// RateLimitRule is one fixed-window policy keyed by client IP.
type RateLimitRule struct {
	Name   string
	Limit  int
	Window time.Duration
	// Body is written as JSON with status 429 when the limit is hit.
	Body interface{}
}

type apiLimitBody struct {
	Status int    `json:"status"`
	Error  string `json:"error"`
}

func APILimitRule(limit int, window time.Duration) RateLimitRule {
	return RateLimitRule{
		Name:   "api",
		Limit:  limit,
		Window: window,
		Body: apiLimitBody{
			Status: http.StatusTooManyRequests,
			Error:  "Too many requests from this IP, please try again later.",
		},
	}
}

func AuthLimitRule(limit int, window time.Duration) RateLimitRule {
	return RateLimitRule{
		Name:   "auth",
		Limit:  limit,
		Window: window,
		Body:   messageResponse{Message: "Too many requests, please try again later."},
	}
}

// RateLimit enforces rule per client IP. When the limiter itself fails the
// request is let through.
func RateLimit(limiter Limiter, rule RateLimitRule, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := rule.Name + ":" + clientIP(r)
			res, err := limiter.Allow(r.Context(), key, rule.Limit, rule.Window)
			if err != nil {
				log.Warnf("Rate limiter unavailable, allowing request: %v", err)
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("RateLimit-Limit", strconv.Itoa(res.Limit))
			h.Set("RateLimit-Remaining", strconv.Itoa(res.Remaining))
			h.Set("RateLimit-Reset", strconv.Itoa(int(math.Ceil(res.ResetIn.Seconds()))))

			if !res.Allowed {
				h.Set("Retry-After", strconv.Itoa(int(math.Ceil(res.ResetIn.Seconds()))))
				respondJSON(w, http.StatusTooManyRequests, rule.Body)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP expects chi's RealIP middleware to have already rewritten
// RemoteAddr from the proxy headers.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
