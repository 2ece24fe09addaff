package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/deptpulse/deptpulse/internal/alerts"
	"github.com/deptpulse/deptpulse/internal/config"
	"github.com/deptpulse/deptpulse/internal/refresh"
	"github.com/deptpulse/deptpulse/internal/view"
	"github.com/deptpulse/deptpulse/pkg/model"
)

// StateSource provides the current snapshot view.
// Satisfied by *refresh.Scheduler.
type StateSource interface {
	View() refresh.View
}

// AlertSource lists active alerts. Satisfied by *alerts.Engine.
type AlertSource interface {
	Active() []*alerts.Alert
}

// Handler is the HTTP handler for all /api/v1/* endpoints.
// It reads snapshot state and returns JSON responses.
type Handler struct {
	state  StateSource
	alerts AlertSource
	sorter *view.Sorter
	mux    *http.ServeMux
}

// New creates a Handler wired to the given state and alert sources and
// registers all routes. When auth configures an API key, every route is
// wrapped with key verification.
func New(state StateSource, al AlertSource, sorter *view.Sorter, auth config.AuthConfig) http.Handler {
	h := &Handler{state: state, alerts: al, sorter: sorter, mux: http.NewServeMux()}

	h.mux.HandleFunc("/api/v1/summary", h.summary)
	h.mux.HandleFunc("/api/v1/departments", h.listDepartments)
	h.mux.HandleFunc("/api/v1/departments/", h.getDepartment)
	h.mux.HandleFunc("/api/v1/alerts", h.listAlerts)
	h.mux.HandleFunc("/api/v1/snapshot", h.snapshot)

	return requireKey(auth, h)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// BuildSnapshot renders a refresh.View as the wire snapshot payload.
// Shared with the WebSocket hub so both surfaces agree on the format.
func BuildSnapshot(v refresh.View) SnapshotResponse {
	depts := v.Departments
	if depts == nil {
		depts = []model.Department{}
	}
	resp := SnapshotResponse{
		Departments:     depts,
		OverallProgress: model.OverallProgress(v.Departments),
		Loading:         v.Loading,
		Error:           v.Err,
		GeneratedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	if !v.LastUpdated.IsZero() {
		resp.LastUpdated = v.LastUpdated.UTC().Format(time.RFC3339)
	}
	return resp
}

// --- route handlers ---------------------------------------------------------

// summary returns GET /api/v1/summary: record count and overall progress.
func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	v := h.state.View()
	resp := SummaryResponse{
		DepartmentCount: len(v.Departments),
		OverallProgress: model.OverallProgress(v.Departments),
		Loading:         v.Loading,
		Error:           v.Err,
	}
	if !v.LastUpdated.IsZero() {
		resp.LastUpdated = v.LastUpdated.UTC().Format(time.RFC3339)
	}
	jsonResp(w, http.StatusOK, resp)
}

// listDepartments returns GET /api/v1/departments: the current records,
// ordered by the optional ?sort= key (source order when absent).
func (h *Handler) listDepartments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	v := h.state.View()
	key := view.Key(r.URL.Query().Get("sort"))
	if key == "" {
		key = view.KeyDefault
	}
	jsonResp(w, http.StatusOK, h.sorter.Sorted(v.Departments, key))
}

// getDepartment returns GET /api/v1/departments/{id}: a single record.
func (h *Handler) getDepartment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/v1/departments/")
	if id == "" {
		// Bare /api/v1/departments/ behaves like the list route.
		h.listDepartments(w, r)
		return
	}

	for _, d := range h.state.View().Departments {
		if d.ID == id {
			jsonResp(w, http.StatusOK, d)
			return
		}
	}
	jsonErr(w, http.StatusNotFound, "department not found")
}

// listAlerts returns GET /api/v1/alerts: active and recently resolved alerts.
func (h *Handler) listAlerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, h.alerts.Active())
}

// snapshot returns GET /api/v1/snapshot: the full current state.
func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, BuildSnapshot(h.state.View()))
}

// --- helpers ----------------------------------------------------------------

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
