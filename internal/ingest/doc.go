// Package ingest turns the raw spreadsheet export into a fresh set of
// department records.
//
// Pipeline.Ingest runs one full pass: resolve the export URL, download,
// parse the CSV, and map each data row through the fixed category
// configuration. Rows that cannot produce a record (too few fields, empty
// name) are silently filtered; a header-only sheet yields an empty, non-error
// result. The pipeline never retries — retry policy belongs to the refresh
// scheduler.
package ingest
