package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/deptpulse/deptpulse/internal/alerts"
	"github.com/deptpulse/deptpulse/internal/config"
	"github.com/deptpulse/deptpulse/internal/refresh"
	"github.com/deptpulse/deptpulse/internal/view"
	"github.com/deptpulse/deptpulse/pkg/model"
)

type fakeState struct {
	view refresh.View
}

func (f *fakeState) View() refresh.View { return f.view }

type fakeAlerts struct {
	active []*alerts.Alert
}

func (f *fakeAlerts) Active() []*alerts.Alert { return f.active }

func testDepartments() []model.Department {
	return []model.Department{
		{ID: "1", Name: "Finance", TotalScore: 0.8},
		{ID: "2", Name: "Engineering", TotalScore: 0.4},
		{ID: "3", Name: "Operations", TotalScore: 0.6},
	}
}

func newTestHandler(t *testing.T, v refresh.View) http.Handler {
	t.Helper()
	return New(&fakeState{view: v}, &fakeAlerts{}, view.NewSorter("en"), config.AuthConfig{})
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestSummary(t *testing.T) {
	updated := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	h := newTestHandler(t, refresh.View{
		Departments: testDepartments(),
		LastUpdated: updated,
	})

	rec := get(t, h, "/api/v1/summary")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp SummaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.DepartmentCount != 3 {
		t.Errorf("DepartmentCount = %d, want 3", resp.DepartmentCount)
	}
	want := (0.8 + 0.4 + 0.6) / 3
	if diff := resp.OverallProgress - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("OverallProgress = %v, want %v", resp.OverallProgress, want)
	}
	if resp.LastUpdated != "2025-06-01T12:00:00Z" {
		t.Errorf("LastUpdated = %q", resp.LastUpdated)
	}
}

func TestSummaryLoading(t *testing.T) {
	h := newTestHandler(t, refresh.View{Loading: true})

	var resp SummaryResponse
	rec := get(t, h, "/api/v1/summary")
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Loading {
		t.Error("Loading = false, want true")
	}
	if resp.LastUpdated != "" {
		t.Errorf("LastUpdated = %q, want empty", resp.LastUpdated)
	}
}

func TestListDepartmentsSort(t *testing.T) {
	h := newTestHandler(t, refresh.View{Departments: testDepartments()})

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"default order", "", []string{"Finance", "Engineering", "Operations"}},
		{"name ascending", "?sort=name-asc", []string{"Engineering", "Finance", "Operations"}},
		{"score descending", "?sort=score-desc", []string{"Finance", "Operations", "Engineering"}},
		{"unknown key", "?sort=bogus", []string{"Finance", "Engineering", "Operations"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, "/api/v1/departments"+tt.query)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
			}

			var got []model.Department
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i, name := range tt.want {
				if got[i].Name != name {
					t.Errorf("[%d].Name = %q, want %q", i, got[i].Name, name)
				}
			}
		})
	}
}

func TestGetDepartment(t *testing.T) {
	h := newTestHandler(t, refresh.View{Departments: testDepartments()})

	rec := get(t, h, "/api/v1/departments/2")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var got model.Department
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Name != "Engineering" {
		t.Errorf("Name = %q, want %q", got.Name, "Engineering")
	}
}

func TestGetDepartmentNotFound(t *testing.T) {
	h := newTestHandler(t, refresh.View{Departments: testDepartments()})

	rec := get(t, h, "/api/v1/departments/nope")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestSnapshot(t *testing.T) {
	h := newTestHandler(t, refresh.View{
		Departments: testDepartments(),
		LastUpdated: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	})

	rec := get(t, h, "/api/v1/snapshot")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var resp SnapshotResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Departments) != 3 {
		t.Errorf("len(Departments) = %d, want 3", len(resp.Departments))
	}
	if resp.GeneratedAt == "" {
		t.Error("GeneratedAt is empty")
	}
}

func TestListAlerts(t *testing.T) {
	al := &fakeAlerts{active: []*alerts.Alert{{ID: "a1", RuleName: "low-score", State: "firing"}}}
	h := New(&fakeState{}, al, view.NewSorter("en"), config.AuthConfig{})

	rec := get(t, h, "/api/v1/alerts")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var got []*alerts.Alert
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].RuleName != "low-score" {
		t.Errorf("alerts = %+v, want one low-score alert", got)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestHandler(t, refresh.View{})

	for _, path := range []string{"/api/v1/summary", "/api/v1/departments", "/api/v1/snapshot", "/api/v1/alerts"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("POST %s: status = %d, want %d", path, rec.Code, http.StatusMethodNotAllowed)
		}
	}
}

func TestRequireKey(t *testing.T) {
	t.Setenv("DEPTPULSE_API_KEY", "secret")
	auth := config.AuthConfig{Mode: "apikey", KeyEnv: "DEPTPULSE_API_KEY"}
	h := New(&fakeState{}, &fakeAlerts{}, view.NewSorter("en"), auth)

	rec := get(t, h, "/api/v1/summary")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no key: status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/summary", nil)
	req.Header.Set("X-Api-Key", "wrong")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong key: status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/summary", nil)
	req.Header.Set("X-Api-Key", "secret")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid key: status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestRequireKeyDisabled(t *testing.T) {
	// Mode apikey with no resolvable key falls back to open access.
	auth := config.AuthConfig{Mode: "apikey", KeyEnv: "DEPTPULSE_UNSET_KEY"}
	h := New(&fakeState{}, &fakeAlerts{}, view.NewSorter("en"), auth)

	rec := get(t, h, "/api/v1/summary")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}
