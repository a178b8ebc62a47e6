package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"thumbforge/internal/http/handlers"
	"thumbforge/internal/infra"
	"thumbforge/internal/middleware"
)

func NewRouter(app *handlers.App, cfg *infra.Config, logger infra.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(logger),
		middleware.CORS(cfg.AllowedOrigins),
		middleware.RateLimit(cfg.RateLimitPerMin),
	)

	r.Get("/v1/healthz", app.Health)

	r.Post("/v1/generate", app.Generate)
	r.Post("/v1/edit", app.Edit)

	r.Route("/v1/history", func(r chi.Router) {
		r.Get("/", app.HistoryList)
		r.Post("/undo", app.HistoryUndo)
		r.Post("/redo", app.HistoryRedo)
		r.Post("/load", app.HistoryLoad)
		r.Delete("/{index}", app.HistoryDelete)
		r.Delete("/", app.HistoryClear)
	})

	r.Post("/v1/style/train", app.StyleTrain)
	r.Post("/v1/reference/fetch", app.ReferenceFetch)

	return r
}
