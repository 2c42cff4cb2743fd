package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/homedash/homedash/src/frontend"
	"github.com/homedash/homedash/src/internal/catalog"
	"github.com/homedash/homedash/src/internal/importer"
	"github.com/homedash/homedash/src/internal/metrics"
)

// RouterOptions holds everything the router serves.
type RouterOptions struct {
	Store    *catalog.Store
	Importer *importer.Importer
	// Resolver enables GET /api/links/{id}/resolve when set.
	Resolver HostResolver
	// Metrics enables request metrics and the scrape endpoint when set.
	Metrics     *metrics.Collector
	MetricsPath string

	MaxUploadBytes     int64
	PrivateSubnetsOnly bool
	// UIPath is the directory with the built UI. Empty disables static serving.
	UIPath string
}

// NewRouter creates a new HTTP router with all API endpoints.
func NewRouter(opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(Recovery)
	r.Use(Logger)
	if opts.Metrics != nil {
		r.Use(Metrics(opts.Metrics))
	}
	if opts.PrivateSubnetsOnly {
		r.Use(PrivateSubnetOnly)
	}
	r.Use(CORS)
	r.Use(JSONContentType)

	var observer CatalogObserver
	if opts.Metrics != nil {
		observer = opts.Metrics
	}
	h := NewHandler(opts.Store, opts.Importer, opts.Resolver, observer, opts.MaxUploadBytes)

	r.Route("/api", func(r chi.Router) {
		r.Get("/data", h.GetData)

		r.Get("/links", h.GetLinks)
		r.Post("/links/batch", h.CreateLinks)
		r.Put("/links/{id}", h.UpdateLink)
		r.Delete("/links/{id}", h.DeleteLink)
		r.Post("/links/{id}/toggle", h.ToggleLink)
		r.Get("/links/{id}/resolve", h.ResolveLink)

		r.Put("/settings/appName", h.UpdateAppName)

		r.Post("/import", h.Import)

		r.Post("/proxy/render", h.RenderProxy)
		r.Post("/proxy", h.CreateProxy)

		r.Get("/status", h.GetStatus)
		r.Get("/health", h.CheckHealth)
	})

	if opts.Metrics != nil {
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, opts.Metrics.Handler())
	}

	if opts.UIPath != "" {
		r.Handle("/*", frontend.Handler(opts.UIPath))
	}

	return r
}
