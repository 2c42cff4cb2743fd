package api

import (
	"github.com/homedash/homedash/src/internal/apache"
	"github.com/homedash/homedash/src/internal/catalog"
)

// AppNameRequest renames the dashboard.
type AppNameRequest struct {
	AppName string `json:"appName"`
}

// ImportRequest is the JSON form of an import: pasted configuration text only.
type ImportRequest struct {
	Text string `json:"text"`
}

// RenderRequest asks for a VirtualHost config. Preset, when set, fills the
// target and WebSocket flag before the explicit fields are applied.
type RenderRequest struct {
	Preset apache.Preset `json:"preset,omitempty"`
	apache.ProxyConfig
}

// RenderResponse carries a rendered VirtualHost config.
type RenderResponse struct {
	Config string `json:"config"`
}

// ProxyServiceResponse is returned when a manually configured service is created.
type ProxyServiceResponse struct {
	Entry  catalog.Entry `json:"entry"`
	Config string        `json:"config"`
}

// StatusResponse returns version information and catalog statistics.
type StatusResponse struct {
	Version VersionInfo   `json:"version"`
	AppName string        `json:"appName"`
	Stats   catalog.Stats `json:"stats"`
}

// VersionInfo contains build version information.
type VersionInfo struct {
	Version string `json:"version"`
	Date    string `json:"date"`
	Commit  string `json:"commit"`
}

// HealthCheckResponse returns health check results.
type HealthCheckResponse struct {
	Healthy bool                   `json:"healthy"`
	Checks  map[string]CheckResult `json:"checks"`
}

// CheckResult contains the result of a single health check.
type CheckResult struct {
	Passed  bool   `json:"passed"`
	Message string `json:"message,omitempty"`
}
