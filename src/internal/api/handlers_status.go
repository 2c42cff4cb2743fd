package api

import (
	"fmt"
	"net/http"
)

var (
	// Version information set via ldflags at build time
	Version = "dev"
	Date    = "n/a"
	Commit  = "n/a"
)

// GetStatus returns version information and catalog statistics.
// GET /api/status
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	writeJSONData(w, StatusResponse{
		Version: VersionInfo{
			Version: Version,
			Date:    Date,
			Commit:  Commit,
		},
		AppName: h.store.AppName(),
		Stats:   h.store.Stats(),
	})
}

// CheckHealth reports whether the catalog is loaded and DNS checks are available.
// GET /api/health
func (h *Handler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthCheckResponse{
		Healthy: true,
		Checks: map[string]CheckResult{
			"catalog": {
				Passed:  true,
				Message: fmt.Sprintf("%d entries loaded", h.store.Len()),
			},
		},
	}

	if h.resolver != nil {
		response.Checks["dns"] = CheckResult{Passed: true, Message: "DNS checks enabled"}
	} else {
		response.Checks["dns"] = CheckResult{Passed: true, Message: "DNS checks disabled"}
	}

	writeJSONData(w, response)
}
