package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/punchclock/punchclock/internal/cache"
)

// RateLimitConfig holds configuration for rate limiting middleware.
type RateLimitConfig struct {
	Logger  *slog.Logger
	Cache   *cache.Cache
	Enabled bool
	// General API limits (per client IP)
	APIRPS   int
	APIBurst int
	// Stricter limits for credential endpoints (per client IP)
	AuthRPS   int
	AuthBurst int
}

// RateLimitAPI returns middleware that rate limits API requests per client IP.
func RateLimitAPI(cfg RateLimitConfig) func(http.Handler) http.Handler {
	return rateLimit(cfg, "api", func(ctx RateLimitConfig, r *http.Request) (*cache.RateLimitResult, error) {
		return ctx.Cache.CheckAPIRateLimit(r.Context(), getClientIP(r), ctx.APIRPS, ctx.APIBurst)
	}, func(cfg RateLimitConfig) int { return cfg.APIRPS })
}

// RateLimitAuth returns middleware with a stricter bucket for the
// register/login endpoints, which are the usual brute-force target.
func RateLimitAuth(cfg RateLimitConfig) func(http.Handler) http.Handler {
	return rateLimit(cfg, "auth", func(ctx RateLimitConfig, r *http.Request) (*cache.RateLimitResult, error) {
		return ctx.Cache.CheckAuthRateLimit(r.Context(), getClientIP(r), ctx.AuthRPS, ctx.AuthBurst)
	}, func(cfg RateLimitConfig) int { return cfg.AuthRPS })
}

// rateLimit is the shared limiter wrapper.
func rateLimit(
	cfg RateLimitConfig,
	kind string,
	check func(RateLimitConfig, *http.Request) (*cache.RateLimitResult, error),
	limit func(RateLimitConfig) int,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			result, err := check(cfg, r)
			if err != nil {
				cfg.Logger.Error("rate limit check failed",
					slog.String("error", err.Error()),
					slog.String("type", kind),
					slog.String("ip", getClientIP(r)),
				)
				// Fail open - allow request
				next.ServeHTTP(w, r)
				return
			}

			setRateLimitHeaders(w, limit(cfg), result.Remaining, result.ResetAt)

			if !result.Allowed {
				cfg.Logger.Warn("rate limit exceeded",
					slog.String("type", kind),
					slog.String("ip", getClientIP(r)),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.Int64("retry_after_seconds", int64(result.RetryAfter.Seconds())),
					slog.String("request_id", GetRequestID(r.Context())),
				)

				w.Header().Set("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())))
				writeRateLimitError(w, result.RetryAfter)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// setRateLimitHeaders sets standard rate limit response headers.
func setRateLimitHeaders(w http.ResponseWriter, limit int, remaining int64, resetAt time.Time) {
	if limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))
	}
}

// writeRateLimitError writes a 429 Too Many Requests response.
func writeRateLimitError(w http.ResponseWriter, retryAfter time.Duration) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	msg := fmt.Sprintf(`{"error":"Rate limit exceeded. Retry after %d seconds.","code":"RATE_LIMITED"}`,
		int(retryAfter.Seconds()))
	_, _ = w.Write([]byte(msg))
}

// getClientIP extracts the client IP from the request.
// Checks X-Forwarded-For and X-Real-IP headers for proxied requests.
func getClientIP(r *http.Request) string {
	// X-Forwarded-For may contain multiple IPs; the first is the client
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		for i := range xff {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}

	xri := r.Header.Get("X-Real-IP")
	if xri != "" {
		return xri
	}

	return r.RemoteAddr
}
