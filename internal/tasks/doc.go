// Package tasks runs long operations over the store with real-time progress reporting.
//
// # Export
//
// [ExportEngine.Export] writes a snapshot of the store's listings to an output directory:
//
//  1. One job per [Dataset] (tracks, users, reviews) is queued for a small worker pool
//  2. Each worker waits on a shared rate limiter, then runs the listing query
//  3. Rows are rendered with package formatter and written to {dir}/{dataset}{ext}
//  4. An export_manifest.json summarizes rows, files and failures per dataset
//
// An empty listing is exported as an empty file rather than a failure. A failing dataset does
// not stop the others.
//
// # Progress Reporting
//
// Operations send [ProgressUpdate] values on an optional channel. Sends use select with default,
// so a slow or absent reader never blocks the export.
package tasks
