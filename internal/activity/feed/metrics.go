package feed

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"hotelmgt/internal/activity/domain"
)

const (
	outcomeSuccess = "success"
	outcomeError   = "error"
	outcomeInvalid = "invalid"

	resultChanged   = "changed"
	resultUnchanged = "unchanged"
	resultError     = "error"
)

// Metrics are the Prometheus collectors for the feed. A nil *Metrics records nothing.
type Metrics struct {
	merges          *prometheus.CounterVec
	mergeDuration   prometheus.Histogram
	skippedRows     *prometheus.CounterVec
	stalenessChecks *prometheus.CounterVec
	activeSessions  prometheus.Gauge
}

// NewMetrics creates the feed collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		merges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hotelmgt",
			Subsystem: "feed",
			Name:      "merges_total",
			Help:      "Feed merges by outcome",
		}, []string{"outcome"}),
		mergeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hotelmgt",
			Subsystem: "feed",
			Name:      "merge_duration_seconds",
			Help:      "Time spent fetching and merging both sources",
			Buckets:   prometheus.DefBuckets,
		}),
		skippedRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hotelmgt",
			Subsystem: "feed",
			Name:      "skipped_rows_total",
			Help:      "Rows excluded from the feed because they were malformed",
		}, []string{"source"}),
		stalenessChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hotelmgt",
			Subsystem: "feed",
			Name:      "staleness_checks_total",
			Help:      "Watermark checks by result",
		}, []string{"result"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hotelmgt",
			Subsystem: "feed",
			Name:      "active_sessions",
			Help:      "Polling sessions currently held in memory",
		}),
	}
	reg.MustRegister(m.merges, m.mergeDuration, m.skippedRows, m.stalenessChecks, m.activeSessions)
	return m
}

func (m *Metrics) observeMerge(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.merges.WithLabelValues(outcome).Inc()
	if outcome != outcomeInvalid {
		m.mergeDuration.Observe(d.Seconds())
	}
}

func (m *Metrics) addSkipped(kind domain.SourceKind, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.skippedRows.WithLabelValues(string(kind)).Add(float64(n))
}

func (m *Metrics) observeCheck(result string) {
	if m == nil {
		return
	}
	m.stalenessChecks.WithLabelValues(result).Inc()
}

func (m *Metrics) sessionOpened() {
	if m == nil {
		return
	}
	m.activeSessions.Inc()
}

func (m *Metrics) sessionClosed() {
	if m == nil {
		return
	}
	m.activeSessions.Dec()
}
