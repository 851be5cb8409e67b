package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/nickchat/internal/api/apierr"
	"github.com/mcoot/nickchat/internal/api/handler"
	"github.com/mcoot/nickchat/internal/api/middleware"
	"github.com/mcoot/nickchat/internal/metrics"
	genericmw "github.com/mcoot/nickchat/internal/middleware"
	"github.com/mcoot/nickchat/internal/services/admin"
	"github.com/mcoot/nickchat/internal/services/chat"
	"github.com/mcoot/nickchat/internal/services/nick"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger       *slog.Logger
	APISecretKey string
	// StorageType is reported by the health endpoint
	StorageType  string
	NickService  *nick.Service
	ChatService  *chat.Service
	AdminService *admin.Service
	Metrics      *metrics.Metrics
	// RateLimiter is optional; nil disables rate limiting
	RateLimiter *genericmw.RateLimiter
}

// NewRouter creates a new API router with all routes configured. Auth
// wraps the router itself, so every path other than GET / is checked
// before it is matched.
func NewRouter(cfg RouterConfig) http.Handler {
	m := cfg.Metrics
	if m == nil {
		m = metrics.New()
	}

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewNotFoundError())
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewMethodNotAllowedError())
	})
	r.Use(m.RouteLabel)

	// Create handlers
	nickHandler := handler.NewNickHandler(cfg.NickService, m)
	chatHandler := handler.NewChatHandler(cfg.ChatService, m)
	adminHandler := handler.NewAdminHandler(cfg.AdminService, m)

	// Health check endpoint (no auth)
	r.HandleFunc("/", handler.Health(cfg.StorageType)).Methods(http.MethodGet)

	// Player nick routes
	r.HandleFunc("/player/{auth_id}/nick", nickHandler.Get).Methods(http.MethodGet)
	r.HandleFunc("/player/{auth_id}/nick", nickHandler.Set).Methods(http.MethodPost)
	r.HandleFunc("/nicks/check", nickHandler.Check).Methods(http.MethodGet)

	// Chat routes
	r.HandleFunc("/chat/messages", chatHandler.List).Methods(http.MethodGet)
	r.HandleFunc("/chat/message", chatHandler.Post).Methods(http.MethodPost)

	// Admin routes
	adminRoutes := r.PathPrefix("/admin").Subrouter()
	adminRoutes.HandleFunc("/player/{auth_id}", adminHandler.DeletePlayer).Methods(http.MethodDelete)
	adminRoutes.HandleFunc("/chat/delete_range", adminHandler.DeleteChatRange).Methods(http.MethodPost)

	r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)

	var h http.Handler = r
	h = middleware.Auth(cfg.APISecretKey)(h)
	if cfg.RateLimiter != nil {
		h = middleware.RateLimit(cfg.RateLimiter)(h)
	}
	h = middleware.Logging(cfg.Logger)(h)
	h = middleware.Recovery(cfg.Logger)(h)
	h = m.Middleware(h)
	return h
}
