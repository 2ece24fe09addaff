// Package api implements the read-only HTTP REST API for deptpulse.
//
// New(...) returns an http.Handler that serves:
//
//	GET /api/v1/summary           — department count, overall progress, status
//	GET /api/v1/departments       — all departments; ?sort= selects the ordering
//	GET /api/v1/departments/{id}  — a single department; 404 if unknown
//	GET /api/v1/alerts            — active and recently resolved alerts
//	GET /api/v1/snapshot          — full dump: departments + status + generated_at
//
// All endpoints respond with Content-Type: application/json and return 405
// for non-GET methods. The presentation layer only ever reads this view; it
// never writes back into the pipeline. No external HTTP framework is used.
package api
