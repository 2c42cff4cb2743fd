// Package importer merges services detected in Apache configuration into the
// catalog.
//
// An import never fails because of its input. Missing or unusable VirtualHost
// blocks, duplicate services and unreadable files all end up in the Report.
// Candidates are compared with the catalog as it was before the import and with
// each other, so a URL is added at most once; the catalog.Store re-checks every
// entry when the batch is added.
package importer
