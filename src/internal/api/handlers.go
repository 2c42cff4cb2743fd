package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/homedash/homedash/src/internal/apache"
	"github.com/homedash/homedash/src/internal/catalog"
	"github.com/homedash/homedash/src/internal/importer"
	"github.com/homedash/homedash/src/internal/log"
	"github.com/homedash/homedash/src/internal/resolver"
)

// HostResolver checks whether a host name resolves.
type HostResolver interface {
	Lookup(ctx context.Context, host string) (resolver.Result, error)
}

// CatalogObserver is told about the catalog after every change.
type CatalogObserver interface {
	ObserveCatalog(entries []catalog.Entry)
}

// Handler manages all API endpoints and dependencies.
type Handler struct {
	store          *catalog.Store
	importer       *importer.Importer
	resolver       HostResolver
	observer       CatalogObserver
	maxUploadBytes int64
}

// NewHandler creates a new API handler. resolver and observer may be nil.
func NewHandler(store *catalog.Store, imp *importer.Importer, res HostResolver, observer CatalogObserver, maxUploadBytes int64) *Handler {
	return &Handler{
		store:          store,
		importer:       imp,
		resolver:       res,
		observer:       observer,
		maxUploadBytes: maxUploadBytes,
	}
}

// catalogChanged refreshes the catalog gauges after a successful mutation.
func (h *Handler) catalogChanged() {
	if h.observer != nil {
		h.observer.ObserveCatalog(h.store.List())
	}
}

// renderConfig applies the preset, if any, and renders the VirtualHost.
func renderConfig(req RenderRequest) (apache.ProxyConfig, string, error) {
	c := req.ProxyConfig
	if req.Preset != "" && c.Target == "" {
		c = c.WithPreset(req.Preset)
	}
	out, err := apache.Render(c)
	return c, out, err
}

// writeJSON writes a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Debugf("Failed to encode response: %v", err)
	}
}

// writeJSONData writes a successful JSON response with data.
func writeJSONData(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, data)
}

// writeCreated writes a 201 Created response with data.
func writeCreated(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusCreated, data)
}

// writeNoContent writes a 204 No Content response.
func writeNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// decodeJSON decodes JSON from the request body.
func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
