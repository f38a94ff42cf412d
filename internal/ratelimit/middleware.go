package ratelimit

import (
	"log/slog"
	"net/http"
	"strconv"

	"covera/pkg/platform/httputil"
	"covera/pkg/requestcontext"
)

// Middleware applies the sliding window limiter per client IP. It expects
// the metadata middleware to have resolved the IP already.
type Middleware struct {
	bucket   *Bucket
	logger   *slog.Logger
	disabled bool
}

// Option configures the middleware.
type Option func(*Middleware)

// WithDisabled turns rate limiting off, for tests and local development.
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) {
		m.disabled = disabled
	}
}

// New constructs the rate limit middleware.
func New(bucket *Bucket, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{
		bucket: bucket,
		logger: logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.disabled {
		logger.Info("rate limiting disabled")
	}
	return m
}

// Limit wraps a handler with the per-IP check. Requests with no resolvable
// IP pass through rather than sharing one bucket.
func (m *Middleware) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.disabled {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		ip := requestcontext.ClientIP(ctx)
		if ip == "" {
			next.ServeHTTP(w, r)
			return
		}

		now := requestcontext.Now(ctx)
		result := m.bucket.Allow(ip, now)

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if !result.Allowed {
			retryAfter := result.RetryAfter(now)
			m.logger.WarnContext(ctx, "rate limit exceeded",
				"request_id", requestcontext.RequestID(ctx),
			)
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			httputil.WriteJSON(w, http.StatusTooManyRequests, map[string]any{
				"error":       "rate_limit_exceeded",
				"message":     "Too many requests. Please try again later.",
				"retry_after": retryAfter,
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
