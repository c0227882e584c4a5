package dashboardhttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

const defaultRateLimit = 30

// MountRoutes registers dashboard endpoints onto the router. Starting a page
// load and exporting share one per-IP limiter.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	limit := h.cfg.RateLimit
	if limit <= 0 {
		limit = defaultRateLimit
	}
	limiter := httprate.Limit(limit, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)

	r.With(limiter).Get("/", h.handleIndex)
	r.Route("/pages/{pageID}", func(r chi.Router) {
		r.Get("/", h.handlePage)
		r.Get("/state", h.handleState)
		r.With(limiter).Get("/export.csv", h.handleCSV)
	})
}
