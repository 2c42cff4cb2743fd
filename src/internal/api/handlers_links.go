package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/homedash/homedash/src/internal/catalog"
	"github.com/homedash/homedash/src/internal/log"
	"github.com/homedash/homedash/src/internal/resolver"
)

// GetData returns the whole catalog document.
// GET /api/data
func (h *Handler) GetData(w http.ResponseWriter, r *http.Request) {
	h.reload()
	writeJSONData(w, h.store.Snapshot())
}

// GetLinks returns the entries matching the optional "q" query.
// GET /api/links?q=
func (h *Handler) GetLinks(w http.ResponseWriter, r *http.Request) {
	h.reload()
	writeJSONData(w, nonNil(h.store.Search(r.URL.Query().Get("q"))))
}

// reload picks up entries other processes wrote to the data file. On failure
// the last known state is served.
func (h *Handler) reload() {
	if err := h.store.Reload(); err != nil {
		log.Warnf("Failed to reload catalog: %v", err)
	}
}

// nonNil keeps empty lists encoded as [] rather than null.
func nonNil(entries []catalog.Entry) []catalog.Entry {
	if entries == nil {
		return []catalog.Entry{}
	}
	return entries
}

// CreateLinks adds a batch of entries and returns the stored ones with their ids.
// Entries that collide with the catalog or with each other are skipped.
// POST /api/links/batch
func (h *Handler) CreateLinks(w http.ResponseWriter, r *http.Request) {
	var entries []catalog.Entry
	if err := decodeJSON(r, &entries); err != nil {
		WriteInvalidRequest(w, "Request body must be an array of entries: "+err.Error())
		return
	}
	if len(entries) == 0 {
		WriteInvalidRequest(w, "Request body must be a non-empty array of entries")
		return
	}

	res, err := h.store.AddBatch(entries)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	for _, rej := range res.Rejected {
		log.Warnf("Skipped entry %q: %v", rej.Entry.URL, rej.Err)
	}
	if len(res.Added) == 0 {
		WriteAppError(w, res.Rejected[0].Err)
		return
	}

	h.catalogChanged()
	writeCreated(w, res.Added)
}

// UpdateLink replaces an entry with the submitted one. The id in the path wins.
// PUT /api/links/{id}
func (h *Handler) UpdateLink(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var entry catalog.Entry
	if err := decodeJSON(r, &entry); err != nil {
		WriteInvalidRequest(w, "Invalid JSON: "+err.Error())
		return
	}

	updated, err := h.store.Update(id, catalog.FullPatch(entry))
	if err != nil {
		WriteAppError(w, err)
		return
	}

	h.catalogChanged()
	writeJSONData(w, updated)
}

// DeleteLink removes an entry.
// DELETE /api/links/{id}
func (h *Handler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Remove(chi.URLParam(r, "id")); err != nil {
		WriteAppError(w, err)
		return
	}

	h.catalogChanged()
	writeNoContent(w)
}

// ToggleLink flips the enabled flag of an entry.
// POST /api/links/{id}/toggle
func (h *Handler) ToggleLink(w http.ResponseWriter, r *http.Request) {
	entry, err := h.store.ToggleEnabled(chi.URLParam(r, "id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}

	h.catalogChanged()
	writeJSONData(w, entry)
}

// ResolveLink checks whether the host of an entry's URL resolves.
// GET /api/links/{id}/resolve
func (h *Handler) ResolveLink(w http.ResponseWriter, r *http.Request) {
	if h.resolver == nil {
		WriteError(w, http.StatusServiceUnavailable, NewAPIError(ErrCodeInternalError, "DNS checks are disabled"))
		return
	}

	entry, err := h.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}

	host, err := resolver.HostFromURL(entry.URL)
	if err != nil {
		WriteInvalidRequest(w, err.Error())
		return
	}

	result, err := h.resolver.Lookup(r.Context(), host)
	if err != nil {
		WriteError(w, http.StatusBadGateway, NewAPIError(ErrCodeInternalError, "DNS query failed: "+err.Error()).
			WithDetails(map[string]interface{}{"host": host}))
		return
	}

	writeJSONData(w, result)
}

// UpdateAppName renames the dashboard.
// PUT /api/settings/appName
func (h *Handler) UpdateAppName(w http.ResponseWriter, r *http.Request) {
	var req AppNameRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteInvalidRequest(w, "Invalid JSON: "+err.Error())
		return
	}

	if err := h.store.SetAppName(req.AppName); err != nil {
		WriteAppError(w, err)
		return
	}

	writeJSONData(w, AppNameRequest{AppName: h.store.AppName()})
}
