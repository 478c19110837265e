package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/transport/http/handlers"
	authmw "github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/transport/http/middleware"
	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/transport/http/response"
)

const BasePath = "/link-analyzer/v1"

type RateLimit struct {
	Enabled bool
	Limit   int
	Window  time.Duration
}

type Deps struct {
	Health *handlers.HealthHandler
	Ingest *handlers.IngestHandler
	Admin  *handlers.AdminHandler

	Auth           *authmw.AuthMiddleware
	Nonces         *authmw.Nonces
	AllowedOrigins []string
	RateLimit      RateLimit
}

func New(deps Deps) (http.Handler, error) {
	switch {
	case deps.Health == nil:
		return nil, fmt.Errorf("nil Health handler")
	case deps.Ingest == nil:
		return nil, fmt.Errorf("nil Ingest handler")
	case deps.Admin == nil:
		return nil, fmt.Errorf("nil Admin handler")
	case deps.Auth == nil:
		return nil, fmt.Errorf("nil Auth middleware")
	case deps.Nonces == nil:
		return nil, fmt.Errorf("nil Nonces")
	}

	r := chi.NewRouter()

	r.Use(authmw.RequestID)
	r.Use(authmw.SecurityHeaders)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(authmw.AccessLog)
	r.Use(authmw.Metrics)

	r.Get("/healthz", deps.Health.Healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route(BasePath, func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if deps.RateLimit.Enabled {
				r.Use(httprate.Limit(
					deps.RateLimit.Limit,
					deps.RateLimit.Window,
					httprate.WithKeyFuncs(httprate.KeyByIP),
					httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
						response.WriteError(w, r, domain.ErrRateLimited("ip"))
					}),
				))
			}
			r.Post("/add-data", deps.Ingest.AddData)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(deps.Auth.RequireAdmin)
			r.Use(authmw.OriginCheck(deps.AllowedOrigins))
			r.Use(deps.Nonces.RequireNonce)

			r.Get("/nonce", deps.Admin.Nonce)
			r.Get("/dashboard", deps.Admin.Dashboard)
			r.Get("/sessions/{session_id}/links", deps.Admin.SessionLinks)
			r.Delete("/remove-old-sessions", deps.Admin.RemoveOldSessions)
			r.Delete("/clear-data", deps.Admin.ClearData)
		})
	})

	return r, nil
}
