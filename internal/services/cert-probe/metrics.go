package cert_probe

import (
	"time"

	"github.com/NordCoder/certprobe/internal/domain/probe"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics lives on its own registry so one run can push exactly what it observed.
type Metrics struct {
	Registry *prometheus.Registry

	mStatus   prometheus.Gauge
	mHours    prometheus.Gauge
	mExpiry   prometheus.Gauge
	mFetch    prometheus.Histogram
	mOutcomes *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		mStatus: f.NewGauge(prometheus.GaugeOpts{
			Name: "cert_probe_status", Help: "Check severity (0=OK, 1=WARNING, 2=CRITICAL, 3=UNKNOWN)",
		}),
		mHours: f.NewGauge(prometheus.GaugeOpts{
			Name: "cert_probe_hours_remaining", Help: "Whole hours until the leaf certificate expires",
		}),
		mExpiry: f.NewGauge(prometheus.GaugeOpts{
			Name: "cert_probe_expiry_timestamp_seconds", Help: "Leaf certificate notAfter as unix time",
		}),
		mFetch: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "cert_probe_fetch_duration_seconds",
			Help:    "Time spent resolving, connecting and handshaking",
			Buckets: prometheus.DefBuckets,
		}),
		mOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cert_probe_outcomes_total", Help: "Fetch outcomes by kind",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) Observe(r probe.Result, fetch time.Duration) {
	if m == nil {
		return
	}
	m.mStatus.Set(float64(r.Severity.ExitCode()))
	m.mFetch.Observe(fetch.Seconds())
	m.mOutcomes.WithLabelValues(r.Outcome.Kind.String()).Inc()
	if r.Outcome.Cert != nil {
		m.mHours.Set(float64(r.HoursRemaining))
		m.mExpiry.Set(float64(r.Outcome.Cert.NotAfter.Unix()))
	}
}
