package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Formula commit outcomes.
const (
	OutcomeApplied   = "applied"   // parsed terms replaced the combination's terms
	OutcomeCleared   = "cleared"   // blank text cleared the terms
	OutcomeRejected  = "rejected"  // nothing resolved, previous terms kept
	OutcomeDiscarded = "discarded" // the combination was gone, nothing committed
)

// Metrics groups the engine's collectors.
type Metrics struct {
	FormulaCommits     *prometheus.CounterVec
	UnresolvedMentions prometheus.Counter
	MentionInserts     prometheus.Counter
	ActiveSessions     prometheus.Gauge
	Mutations          *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg skips registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FormulaCommits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blend_formula_commits_total",
				Help: "Direct-entry exits by outcome",
			},
			[]string{"outcome"},
		),
		UnresolvedMentions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blend_unresolved_mentions_total",
			Help: "Mentions dropped because no registry entry matched",
		}),
		MentionInserts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blend_mention_inserts_total",
			Help: "Autocomplete suggestions inserted into a formula",
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "blend_edit_sessions_active",
			Help: "Combinations currently in direct-entry mode",
		}),
		Mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blend_combination_mutations_total",
				Help: "Combination store operations by kind",
			},
			[]string{"op"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.FormulaCommits, m.UnresolvedMentions, m.MentionInserts, m.ActiveSessions, m.Mutations)
	}
	return m
}

// FormulaCommitted records a direct-entry exit.
func (m *Metrics) FormulaCommitted(outcome string, unresolved int) {
	if m == nil {
		return
	}
	m.FormulaCommits.WithLabelValues(outcome).Inc()
	m.UnresolvedMentions.Add(float64(unresolved))
}

// MentionInserted records an accepted suggestion.
func (m *Metrics) MentionInserted() {
	if m == nil {
		return
	}
	m.MentionInserts.Inc()
}

// SessionOpened records a combination entering direct-entry mode.
func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.ActiveSessions.Inc()
}

// SessionClosed records a combination leaving direct-entry mode.
func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.ActiveSessions.Dec()
}

// Mutated records a combination store operation.
func (m *Metrics) Mutated(op string) {
	if m == nil {
		return
	}
	m.Mutations.WithLabelValues(op).Inc()
}
