package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"vidgen/internal/http/handlers"
	"vidgen/internal/infra"
	"vidgen/internal/middleware"
)

// NewRouter wires the middleware chain and routes. All /api routes require a
// valid identity-provider session.
func NewRouter(cfg *infra.Config, logger infra.Logger, app *handlers.App) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, chimw.RealIP, chimw.Recoverer)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS([]string{"http://localhost:3000"}))
	r.Use(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute))

	r.Get("/v1/healthz", app.Health)
	r.Handle("/metrics", handlers.Metrics())

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.SessionJWTSecret))

		r.Post("/generate-video", app.GenerateVideo)
		r.Get("/history", app.History)
		r.Post("/history", app.DeleteVideo)
		r.Post("/user/sync", app.SyncUser)
	})

	uploads := stdhttp.StripPrefix(cfg.UploadsBaseURL+"/", stdhttp.FileServer(stdhttp.Dir(app.Store.BasePath())))
	r.Get(cfg.UploadsBaseURL+"/*", uploads.ServeHTTP)

	return r
}
