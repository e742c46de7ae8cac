package middleware

import (
	"net/http"
	"time"

	"foodie-backend/pkg/utils"

	"github.com/go-chi/httprate"
)

// RateLimitByIP caps anonymous endpoints per client IP. limit <= 0 disables it.
func RateLimitByIP(limit int, window time.Duration) func(http.Handler) http.Handler {
	if limit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if window <= 0 {
		window = time.Minute
	}

	return httprate.Limit(limit, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			utils.ResponseTooManyRequests(w, "Request was throttled. Try again later.")
		}),
	)
}
