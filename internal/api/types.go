package api

import "github.com/deptpulse/deptpulse/pkg/model"

// SummaryResponse is the payload for GET /api/v1/summary.
type SummaryResponse struct {
	DepartmentCount int     `json:"department_count"`
	OverallProgress float64 `json:"overall_progress"`
	Loading         bool    `json:"loading"`
	Error           string  `json:"error,omitempty"`
	LastUpdated     string  `json:"last_updated,omitempty"` // RFC3339
}

// SnapshotResponse is the payload for GET /api/v1/snapshot and the body of
// every WebSocket broadcast.
type SnapshotResponse struct {
	Departments     []model.Department `json:"departments"`
	OverallProgress float64            `json:"overall_progress"`
	Loading         bool               `json:"loading"`
	Error           string             `json:"error,omitempty"`
	LastUpdated     string             `json:"last_updated,omitempty"` // RFC3339
	GeneratedAt     string             `json:"generated_at"`           // RFC3339
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}
