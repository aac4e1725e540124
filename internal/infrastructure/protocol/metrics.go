package protocol

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bnema/dumberproto/internal/domain/entity"
)

// Metrics collects per-scheme session counters. A nil *Metrics records
// nothing.
type Metrics struct {
	starts       *prometheus.CounterVec
	startLatency *prometheus.HistogramVec
	bytesLoaded  *prometheus.CounterVec
	bytesRead    *prometheus.CounterVec
	liveSessions *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them on reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		starts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "dumberproto",
				Subsystem: "session",
				Name:      "starts_total",
				Help:      "Session starts by scheme and result code.",
			},
			[]string{"scheme", "result"},
		),
		startLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "dumberproto",
				Subsystem: "session",
				Name:      "start_duration_seconds",
				Help:      "Time spent materializing content in Start.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"scheme"},
		),
		bytesLoaded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "dumberproto",
				Subsystem: "session",
				Name:      "loaded_bytes_total",
				Help:      "Bytes materialized into session buffers.",
			},
			[]string{"scheme"},
		),
		bytesRead: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "dumberproto",
				Subsystem: "session",
				Name:      "read_bytes_total",
				Help:      "Bytes drained from session buffers by Read.",
			},
			[]string{"scheme"},
		),
		liveSessions: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "dumberproto",
				Subsystem: "session",
				Name:      "live",
				Help:      "Sessions created and not yet fully released.",
			},
			[]string{"scheme"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.starts, m.startLatency, m.bytesLoaded, m.bytesRead, m.liveSessions)
	}
	return m
}

func (m *Metrics) sessionCreated(scheme entity.SchemeID) {
	if m == nil {
		return
	}
	m.liveSessions.WithLabelValues(scheme.Name).Inc()
}

func (m *Metrics) sessionReleased(scheme entity.SchemeID) {
	if m == nil {
		return
	}
	m.liveSessions.WithLabelValues(scheme.Name).Dec()
}

func (m *Metrics) recordStart(scheme entity.SchemeID, err error, loaded int, took time.Duration) {
	if m == nil {
		return
	}
	m.starts.WithLabelValues(scheme.Name, resultLabel(err)).Inc()
	m.startLatency.WithLabelValues(scheme.Name).Observe(took.Seconds())
	if err == nil {
		m.bytesLoaded.WithLabelValues(scheme.Name).Add(float64(loaded))
	}
}

func (m *Metrics) recordRead(scheme entity.SchemeID, n int) {
	if m == nil || n == 0 {
		return
	}
	m.bytesRead.WithLabelValues(scheme.Name).Add(float64(n))
}

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return entity.StatusCode(err).String()
}
