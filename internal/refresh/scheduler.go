package refresh

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/deptpulse/deptpulse/internal/metrics"
	"github.com/deptpulse/deptpulse/pkg/model"
)

// Ingester is the single-method view of the ingestion pipeline the
// scheduler needs; tests substitute their own.
type Ingester interface {
	Ingest(ctx context.Context) ([]model.Department, error)
}

// View is the read-only state handed to API and WebSocket consumers.
type View struct {
	// Departments is the last successful result set, in source row order.
	Departments []model.Department

	// Loading is true only while the initial attempt is still outstanding,
	// so consumers can tell "still loading" from "loaded but empty".
	Loading bool

	// Err describes the most recent failed attempt, "" after a success.
	Err string

	// LastUpdated is the completion time of the last successful attempt,
	// zero until one succeeds. Failures never move it backwards.
	LastUpdated time.Time
}

// Scheduler drives the ingestion pipeline and owns the snapshot slot.
// All exported methods are safe for concurrent use.
type Scheduler struct {
	pipeline Ingester
	interval time.Duration
	now      func() time.Time // injectable for deterministic tests

	mu          sync.RWMutex
	records     []model.Department
	loading     bool
	lastErr     string
	lastUpdated time.Time

	onSnapshot func([]model.Department)
}

// New creates a Scheduler polling p every interval.
func New(p Ingester, interval time.Duration) *Scheduler {
	return &Scheduler{
		pipeline: p,
		interval: interval,
		now:      time.Now,
		loading:  true,
	}
}

// OnSnapshot registers fn to run with every successful result set, after
// the slot has been updated. Must be called before Run.
func (s *Scheduler) OnSnapshot(fn func([]model.Department)) {
	s.onSnapshot = fn
}

// Run performs the initial load and then refreshes every interval until
// ctx is cancelled. The ticker is released on return; no tick fires
// afterwards.
func (s *Scheduler) Run(ctx context.Context) {
	s.refresh(ctx)

	t := time.NewTicker(s.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.refresh(ctx)
		}
	}
}

// View returns a copy of the current state. The record slice is copied so
// callers may sort it freely.
func (s *Scheduler) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := View{
		Departments: make([]model.Department, len(s.records)),
		Loading:     s.loading,
		Err:         s.lastErr,
		LastUpdated: s.lastUpdated,
	}
	copy(out.Departments, s.records)
	return out
}

// refresh runs one ingestion attempt and folds its outcome into the slot.
// Every attempt is equally weighted — there is no backoff and no retry
// budget; the next tick is always a fresh try.
func (s *Scheduler) refresh(ctx context.Context) {
	start := s.now()
	records, err := s.pipeline.Ingest(ctx)
	elapsed := s.now().Sub(start)
	metrics.RefreshDuration.Observe(elapsed.Seconds())

	if err != nil {
		if ctx.Err() != nil {
			// Shutdown interrupted the attempt; not a source failure.
			return
		}
		metrics.RefreshTotal.WithLabelValues(metrics.OutcomeError).Inc()

		s.mu.Lock()
		s.loading = false
		s.lastErr = err.Error()
		// records and lastUpdated stay as they were: stale beats gone.
		s.mu.Unlock()

		slog.Warn("refresh failed — keeping last snapshot",
			"err", err, "elapsed", elapsed)
		return
	}

	metrics.RefreshTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	metrics.DepartmentCount.Set(float64(len(records)))
	metrics.OverallProgress.Set(model.OverallProgress(records))

	s.mu.Lock()
	s.records = records
	s.loading = false
	s.lastErr = ""
	s.lastUpdated = s.now()
	s.mu.Unlock()

	slog.Info("snapshot refreshed",
		"departments", len(records), "elapsed", elapsed)

	if s.onSnapshot != nil {
		s.onSnapshot(records)
	}
}
