// Package metrics holds the Prometheus collectors exported by the service.
// This is part of the platform layer and contains no business logic.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the collectors the kit controller and report service update.
type Metrics struct {
	FetchFailures  *prometheus.CounterVec
	Snapshots      prometheus.Counter
	StaleDiscarded prometheus.Counter
	KitListFetches *prometheus.CounterVec
	ActiveSessions prometheus.Gauge
}

// New creates the collectors and registers them on reg. A nil reg leaves them
// unregistered, which is what tests want.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kitportal",
			Name:      "fetch_failures_total",
			Help:      "Backend queries degraded to an empty result, by resource.",
		}, []string{"resource"}),
		Snapshots: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kitportal",
			Name:      "default_kit_snapshots_total",
			Help:      "Default kit snapshots published.",
		}),
		StaleDiscarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kitportal",
			Name:      "stale_computations_discarded_total",
			Help:      "Default kit computations dropped because a newer one started.",
		}),
		KitListFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kitportal",
			Name:      "kit_list_fetches_total",
			Help:      "Kit list fetches, by outcome.",
		}, []string{"outcome"}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "kitportal",
			Name:      "active_sessions",
			Help:      "Sessions with a live kit controller.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.FetchFailures, m.Snapshots, m.StaleDiscarded, m.KitListFetches, m.ActiveSessions)
	}
	return m
}

// FetchFailed counts a degraded query for resource. Safe on a nil receiver.
func (m *Metrics) FetchFailed(resource string) {
	if m == nil {
		return
	}
	m.FetchFailures.WithLabelValues(resource).Inc()
}

// SnapshotPublished counts a published snapshot. Safe on a nil receiver.
func (m *Metrics) SnapshotPublished() {
	if m == nil {
		return
	}
	m.Snapshots.Inc()
}

// StaleDropped counts a discarded computation. Safe on a nil receiver.
func (m *Metrics) StaleDropped() {
	if m == nil {
		return
	}
	m.StaleDiscarded.Inc()
}

// KitListFetched counts a kit list fetch by outcome ("ok" or "error"). Safe on a nil receiver.
func (m *Metrics) KitListFetched(outcome string) {
	if m == nil {
		return
	}
	m.KitListFetches.WithLabelValues(outcome).Inc()
}

// SessionOpened increments the live session gauge. Safe on a nil receiver.
func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.ActiveSessions.Inc()
}

// SessionClosed decrements the live session gauge. Safe on a nil receiver.
func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.ActiveSessions.Dec()
}
