// Package api provides the REST API server for the homedash catalog.
//
// Endpoints:
//   - GET /api/data: the whole catalog document ({appName, links})
//   - GET /api/links?q=: entries, optionally filtered
//   - POST /api/links/batch, PUT /api/links/{id}, DELETE /api/links/{id},
//     POST /api/links/{id}/toggle: catalog editing
//   - GET /api/links/{id}/resolve: DNS check of the entry host
//   - PUT /api/settings/appName: rename the dashboard
//   - POST /api/import: import Apache VirtualHost configs (JSON {text} or
//     multipart with a "text" field and "files")
//   - POST /api/proxy/render, POST /api/proxy: manual reverse proxy configs
//   - GET /api/status, GET /api/health
//
// # Response Format
//
// Successful responses carry the payload as is, so the UI reads the same
// shapes it persists. Error responses use the following format:
//
//	{
//	  "error": {
//	    "code": "not_found",
//	    "message": "Human-readable error message",
//	    "details": { /* optional context */ }
//	  }
//	}
//
// Domain error codes map to statuses: not found is 404, a duplicate URL is 409,
// validation failures are 400 and data file failures are 503.
package api
