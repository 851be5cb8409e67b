package middleware

import (
	"net/http"

	"github.com/mcoot/nickchat/internal/api/apierr"
	"github.com/mcoot/nickchat/internal/middleware"
)

// RateLimit rejects clients over their bucket with a JSON 429
func RateLimit(rl *middleware.RateLimiter) func(http.Handler) http.Handler {
	return middleware.RateLimit(rl, func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewTooManyRequestsError())
	})
}
