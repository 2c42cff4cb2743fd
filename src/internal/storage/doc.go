// Package storage persists the catalog document on disk.
//
// The document is the same {appName, links} object the dashboard UI reads from
// GET /api/data. It is stored as JSON (db.json) or YAML, picked by file extension.
// Writes go to a temp file that is renamed over the data file, and every read or
// write holds a flock(2) lock on "<data file>.lock" so the API server and the
// import command never interleave.
package storage
