// Package metrics exposes Prometheus metrics for imports, the catalog and the API.
package metrics
