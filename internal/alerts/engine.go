package alerts

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/deptpulse/deptpulse/internal/config"
	"github.com/deptpulse/deptpulse/pkg/model"
)

const (
	defaultCooldown   = 15 * time.Minute
	maxHistoryLen     = 200
	recentWindowHours = 1
)

// overallKey is the per-rule subject used for snapshot-wide conditions.
const overallKey = "overall"

// Alert is a single alert event produced by the rule engine.
type Alert struct {
	ID         string     `json:"id"`
	RuleName   string     `json:"rule_name"`
	Department string     `json:"department"` // "overall" for snapshot-wide rules
	Severity   string     `json:"severity"`
	Message    string     `json:"message"`
	Value      float64    `json:"value"`
	FiredAt    time.Time  `json:"fired_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	State      string     `json:"state"` // "firing" | "resolved"
}

// Engine evaluates alert rules against each successful snapshot and
// delivers webhook notifications when rules fire or resolve.
//
// Engine is safe for concurrent use.
type Engine struct {
	rules    []config.AlertRule
	webhooks []config.WebhookConfig

	mu       sync.Mutex
	active   map[string]*Alert    // key: "ruleName:department"
	lastFire map[string]time.Time // last fire time per key, for cooldown
	history  []*Alert             // recently resolved alerts
	client   *http.Client
}

// New creates an Engine from the alert configuration.
// An Engine with no rules is valid — Evaluate becomes a no-op.
func New(cfg config.AlertsConfig) *Engine {
	return &Engine{
		rules:    cfg.Rules,
		webhooks: cfg.Webhooks,
		active:   make(map[string]*Alert),
		lastFire: make(map[string]time.Time),
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Evaluate tests all configured rules against the snapshot. Department
// rules run once per record, overall rules once per snapshot. Alerts that
// fire are stored and webhook delivery runs asynchronously; alerts whose
// condition is no longer true are resolved.
func (e *Engine) Evaluate(records []model.Department) {
	if len(e.rules) == 0 {
		return
	}

	now := time.Now()
	for _, rule := range e.rules {
		if isOverall(rule.Condition) {
			fires, value, ok := evalOverall(rule.Condition, records)
			if ok {
				e.apply(rule, overallKey, fires, value, now)
			}
			continue
		}
		for _, dept := range records {
			fires, value, ok := evalCondition(rule.Condition, dept)
			if !ok {
				continue
			}
			e.apply(rule, dept.Name, fires, value, now)
		}
	}
}

// apply folds one rule outcome for one subject into the firing state.
func (e *Engine) apply(rule config.AlertRule, subject string, fires bool, value float64, now time.Time) {
	key := rule.Name + ":" + subject

	e.mu.Lock()

	if fires {
		cooldown := rule.Cooldown
		if cooldown <= 0 {
			cooldown = defaultCooldown
		}
		if now.Sub(e.lastFire[key]) <= cooldown {
			e.mu.Unlock()
			return
		}

		sev := rule.Severity
		if sev == "" {
			sev = "warning"
		}
		a := &Alert{
			ID:         fmt.Sprintf("%s:%s:%d", rule.Name, subject, now.UnixNano()),
			RuleName:   rule.Name,
			Department: subject,
			Severity:   sev,
			Value:      value,
			Message: fmt.Sprintf("[%s] %s fired on %s — %s = %.2f",
				sev, rule.Name, subject, rule.Condition, value),
			FiredAt: now,
			State:   "firing",
		}
		e.active[key] = a
		e.lastFire[key] = now
		alertCopy := *a
		e.mu.Unlock()

		slog.Warn("alert fired",
			"rule", rule.Name,
			"department", subject,
			"value", value,
			"severity", sev,
		)
		go e.deliver(&alertCopy)
		return
	}

	a, ok := e.active[key]
	if !ok || a.State != "firing" {
		e.mu.Unlock()
		return
	}

	resolved := now
	a.State = "resolved"
	a.ResolvedAt = &resolved
	delete(e.active, key)

	e.history = append(e.history, a)
	if len(e.history) > maxHistoryLen {
		e.history = e.history[len(e.history)-maxHistoryLen:]
	}
	alertCopy := *a
	e.mu.Unlock()

	slog.Info("alert resolved",
		"rule", rule.Name,
		"department", subject,
	)
	go e.deliver(&alertCopy)
}

// Active returns copies of all currently firing alerts plus any alerts
// resolved within the past hour.
func (e *Engine) Active() []*Alert {
	e.mu.Lock()
	defer e.mu.Unlock()

	cutoff := time.Now().Add(-recentWindowHours * time.Hour)
	out := make([]*Alert, 0, len(e.active))

	for _, a := range e.active {
		cp := *a
		out = append(out, &cp)
	}
	for _, a := range e.history {
		if a.ResolvedAt != nil && a.ResolvedAt.After(cutoff) {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out
}
