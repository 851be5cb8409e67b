package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/nickchat/internal/middleware"
)

// Logging wraps the shared request logger
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Logging(logger)
}
