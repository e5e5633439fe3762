// Package metrics holds the Prometheus collectors for approval decisions.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for decisions. Refused covers caller errors such as InvalidState;
// failed covers conflicts and store errors.
const (
	OutcomeApplied = "applied"
	OutcomeRefused = "refused"
	OutcomeFailed  = "failed"
)

// Workflow counts decisions and same-approver shortcuts. A nil *Workflow is valid and
// records nothing.
type Workflow struct {
	decisions     *prometheus.CounterVec
	autoApprovals prometheus.Counter
}

// NewWorkflow creates the collectors and registers them with reg.
func NewWorkflow(reg prometheus.Registerer) (*Workflow, error) {
	w := &Workflow{
		decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "approval_decisions_total",
				Help: "Approval decisions by level, action and outcome.",
			},
			[]string{"level", "action", "outcome"},
		),
		autoApprovals: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "approval_auto_approvals_total",
			Help: "Levels approved through the same-approver shortcut.",
		}),
	}

	for _, c := range []prometheus.Collector{w.decisions, w.autoApprovals} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// ObserveDecision records one Decide call.
func (w *Workflow) ObserveDecision(level, action, outcome string) {
	if w == nil {
		return
	}
	w.decisions.WithLabelValues(level, action, outcome).Inc()
}

// ObserveAutoApprovals adds n shortcut approvals.
func (w *Workflow) ObserveAutoApprovals(n int) {
	if w == nil || n <= 0 {
		return
	}
	w.autoApprovals.Add(float64(n))
}
