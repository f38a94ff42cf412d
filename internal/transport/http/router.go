// Package httptransport assembles the HTTP surface: middleware chain, public
// auth routes, token-gated recommendation routes and operational endpoints.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhandler "covera/internal/auth/handler"
	"covera/internal/ratelimit"
	rechandler "covera/internal/recommendation/handler"
	"covera/pkg/platform/httputil"
	"covera/pkg/platform/middleware/auth"
	"covera/pkg/platform/middleware/metadata"
	"covera/pkg/platform/middleware/requestid"
	"covera/pkg/platform/middleware/requesttime"
)

// Deps are the collaborators the router mounts.
type Deps struct {
	Auth            *authhandler.Handler
	Recommendations *rechandler.Handler
	TokenValidator  auth.TokenValidator
	RateLimit       *ratelimit.Middleware
	Logger          *slog.Logger
}

// NewRouter builds the chi router. Middleware order matters: request ID and
// time first so everything downstream can log consistently, client metadata
// before rate limiting so the limiter can key by IP.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	if deps.RateLimit != nil {
		r.Use(deps.RateLimit.Limit)
	}

	r.Get("/healthz", handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	deps.Auth.RegisterPublic(r)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(deps.TokenValidator, deps.Logger))
		deps.Auth.RegisterProtected(r)
		deps.Recommendations.Register(r)
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
