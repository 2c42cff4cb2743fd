package api

import (
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/homedash/homedash/src/internal/apache"
	"github.com/homedash/homedash/src/internal/log"
)

// multipartMemory is how much of a multipart form is kept in memory; the
// rest is spooled to temporary files.
const multipartMemory = 8 << 20

// Import runs the Apache import pipeline on pasted text and uploaded files.
// Parse outcomes and unreadable files are part of the 200 report.
// POST /api/import
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	var (
		text    string
		sources []apache.Source
	)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			writeBodyError(w, err)
			return
		}
		defer func() {
			if err := r.MultipartForm.RemoveAll(); err != nil {
				log.Debugf("Failed to remove multipart temp files: %v", err)
			}
		}()

		text = r.FormValue("text")
		for _, fh := range r.MultipartForm.File["files"] {
			sources = append(sources, apache.MultipartSource(fh))
		}
	} else {
		var req ImportRequest
		if err := decodeJSON(r, &req); err != nil {
			writeBodyError(w, err)
			return
		}
		text = req.Text
	}

	report, err := h.importer.Import(r.Context(), text, sources)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	if report.Accepted > 0 {
		h.catalogChanged()
	}
	writeJSONData(w, report)
}

func writeBodyError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		WriteError(w, http.StatusRequestEntityTooLarge, NewAPIError(ErrCodeInvalidRequest,
			fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit)))
		return
	}
	WriteInvalidRequest(w, "Invalid request body: "+err.Error())
}

// RenderProxy renders a VirtualHost config without touching the catalog.
// POST /api/proxy/render
func (h *Handler) RenderProxy(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteInvalidRequest(w, "Invalid JSON: "+err.Error())
		return
	}

	_, out, err := renderConfig(req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	writeJSONData(w, RenderResponse{Config: out})
}

// CreateProxy adds a service entry for a manually configured reverse proxy and
// returns it together with its VirtualHost config.
// POST /api/proxy
func (h *Handler) CreateProxy(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteInvalidRequest(w, "Invalid JSON: "+err.Error())
		return
	}

	cfg, out, err := renderConfig(req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	entry, err := apache.NewServiceEntry(cfg)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	stored, err := h.store.Add(entry)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	h.catalogChanged()
	writeCreated(w, ProxyServiceResponse{Entry: stored, Config: out})
}
