package alerts

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/centerpulse/centerpulse/internal/config"
	"github.com/centerpulse/centerpulse/internal/domain"
)

const (
	defaultCooldown = 15 * time.Minute
	maxHistoryLen   = 200
)

// Alert represents a single alert event produced by the rule engine.
type Alert struct {
	ID         string     `json:"id"`
	RuleName   string     `json:"rule_name"`
	Center     string     `json:"center"`
	Severity   string     `json:"severity"`
	Message    string     `json:"message"`
	Value      float64    `json:"value"`
	FiredAt    time.Time  `json:"fired_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	State      string     `json:"state"` // "firing" | "resolved"
}

// Engine evaluates alert rules against per-center metrics on every
// refresh cycle and delivers webhook notifications when rules fire or
// resolve.
//
// Engine is safe for concurrent use.
type Engine struct {
	rules    []config.AlertRule
	webhooks []config.WebhookConfig

	mu       sync.Mutex
	active   map[string]*Alert    // key: "ruleName:center"
	lastFire map[string]time.Time // last fire time per key (for cooldown)
	history  []*Alert             // recently resolved alerts
	client   *http.Client
	now      func() time.Time
}

// New creates an Engine from the alert configuration.
// An Engine with empty rules is valid — Evaluate becomes a no-op.
func New(cfg config.AlertsConfig) *Engine {
	return &Engine{
		rules:    cfg.Rules,
		webhooks: cfg.Webhooks,
		active:   make(map[string]*Alert),
		lastFire: make(map[string]time.Time),
		client:   &http.Client{Timeout: 10 * time.Second},
		now:      time.Now,
	}
}

// Evaluate tests all configured rules against every center metric.
// Alerts that fire are stored and webhook delivery is triggered
// asynchronously. Alerts that were firing but whose condition is now
// false are resolved.
func (e *Engine) Evaluate(metrics []domain.EnhancedCenterMetric) {
	if len(e.rules) == 0 {
		return
	}
	for _, m := range metrics {
		e.evaluateCenter(m)
	}
}

func (e *Engine) evaluateCenter(m domain.EnhancedCenterMetric) {
	now := e.now()
	for _, rule := range e.rules {
		key := rule.Name + ":" + m.Name
		fires, value := evalCondition(rule.Condition, m)

		e.mu.Lock()

		if fires {
			cooldown := rule.Cooldown
			if cooldown <= 0 {
				cooldown = defaultCooldown
			}
			if now.Sub(e.lastFire[key]) > cooldown {
				sev := rule.Severity
				if sev == "" {
					sev = "warning"
				}
				a := &Alert{
					ID:       fmt.Sprintf("%s:%s:%d", rule.Name, m.Name, now.UnixNano()),
					RuleName: rule.Name,
					Center:   m.Name,
					Severity: sev,
					Value:    value,
					Message: fmt.Sprintf("[%s] %s fired on %s — %s = %.2f",
						sev, rule.Name, m.Name, rule.Condition, value),
					FiredAt: now,
					State:   "firing",
				}
				e.active[key] = a
				e.lastFire[key] = now
				alertCopy := *a
				e.mu.Unlock()

				slog.Warn("alert fired",
					"rule", rule.Name,
					"center", m.Name,
					"value", value,
					"severity", sev,
				)
				go e.deliver(&alertCopy)
				continue
			}
			e.mu.Unlock()
			continue
		}

		if a, ok := e.active[key]; ok && a.State == "firing" {
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

			slog.Info("alert resolved", "rule", rule.Name, "center", m.Name)
			go e.deliver(&alertCopy)
			continue
		}
		e.mu.Unlock()
	}
}

// Active returns the currently-firing alerts.
func (e *Engine) Active() []Alert {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Alert, 0, len(e.active))
	for _, a := range e.active {
		out = append(out, *a)
	}
	return out
}

// History returns recently-resolved alerts, oldest first.
func (e *Engine) History() []Alert {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Alert, 0, len(e.history))
	for _, a := range e.history {
		out = append(out, *a)
	}
	return out
}
