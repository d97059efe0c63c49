package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/hankthebldr/cortex-dc-web-sub005/internal/config"
	"github.com/hankthebldr/cortex-dc-web-sub005/internal/domain"
	"github.com/hankthebldr/cortex-dc-web-sub005/internal/transport/middleware"
)

// TokenValidator resolves a bearer token to a user identity.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (uuid.UUID, domain.UserRole, error)
}

// Handlers bundles every REST handler for router construction.
type Handlers struct {
	Auth       *AuthHandler
	Record     *RecordHandler
	User       *UserHandler
	Disclaimer *DisclaimerHandler
	Admin      *AdminHandler
	Health     *HealthHandler
}

// NewRouter builds the HTTP handler: routes plus the shared middleware
// chain. The auth middleware resolves bearer tokens for every route;
// anonymous requests reach the handlers and are rejected per-operation.
func NewRouter(
	handlers Handlers,
	validator TokenValidator,
	limiter *middleware.RateLimiter,
	cfg config.Config,
	logger *slog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health probes bypass auth and rate limiting concerns but share the
	// chain for uniform logging.
	mux.HandleFunc("GET /live", handlers.Health.Live)
	mux.HandleFunc("GET /ready", handlers.Health.Ready)
	mux.HandleFunc("GET /health", handlers.Health.Health)

	mux.HandleFunc("POST /auth/register", handlers.Auth.Register)
	mux.HandleFunc("POST /auth/login", handlers.Auth.Login)
	mux.HandleFunc("POST /auth/refresh", handlers.Auth.Refresh)
	mux.HandleFunc("POST /auth/logout", handlers.Auth.Logout)

	mux.HandleFunc("POST /records", handlers.Record.Create)
	mux.HandleFunc("GET /records", handlers.Record.List)
	mux.HandleFunc("GET /records/{id}", handlers.Record.Get)
	mux.HandleFunc("PATCH /records/{id}", handlers.Record.Patch)
	mux.HandleFunc("DELETE /records/{id}", handlers.Record.Delete)
	mux.HandleFunc("POST /records/{id}/annotations", handlers.Record.Annotate)

	mux.HandleFunc("GET /users/me", handlers.User.Me)
	mux.HandleFunc("GET /users/me/preferences", handlers.User.GetPreferences)
	mux.HandleFunc("PUT /users/me/preferences", handlers.User.SetPreferences)

	mux.HandleFunc("GET /disclaimer", handlers.Disclaimer.Status)
	mux.HandleFunc("POST /disclaimer/ack", handlers.Disclaimer.Acknowledge)
	mux.HandleFunc("GET /disclaimer/history", handlers.Disclaimer.History)

	mux.HandleFunc("PUT /admin/users/{id}/role", handlers.Admin.SetUserRole)
	mux.HandleFunc("GET /admin/users", handlers.Admin.ListUsers)
	mux.HandleFunc("GET /admin/suggestions/stats", handlers.Admin.SuggestionStats)
	mux.HandleFunc("GET /admin/suggestions", handlers.Admin.ListSuggestions)

	chain := middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
		limiter.Limit(cfg.Server.RateLimitPerMin),
		middleware.Auth(validator),
	)
	return chain(mux)
}
