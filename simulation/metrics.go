package simulation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the simulation counters. Register them on a dedicated registry
// in tests; nil *Metrics disables recording.
type Metrics struct {
	Trials        prometheus.Counter
	Records       prometheus.Counter
	Unreachable   prometheus.Counter
	TrialDuration prometheus.Histogram
}

// NewMetrics registers the simulation metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		Trials: f.NewCounter(prometheus.CounterOpts{
			Namespace: "amo",
			Subsystem: "simulation",
			Name:      "trials_total",
			Help:      "Completed simulation trials.",
		}),
		Records: f.NewCounter(prometheus.CounterOpts{
			Namespace: "amo",
			Subsystem: "simulation",
			Name:      "records_total",
			Help:      "Transaction records produced.",
		}),
		Unreachable: f.NewCounter(prometheus.CounterOpts{
			Namespace: "amo",
			Subsystem: "simulation",
			Name:      "unreachable_total",
			Help:      "Destinations with no route from the source.",
		}),
		TrialDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "amo",
			Subsystem: "simulation",
			Name:      "trial_duration_seconds",
			Help:      "Wall time of one trial.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
	}
}

func (m *Metrics) observe(r Result, seconds float64) {
	if m == nil {
		return
	}
	m.Trials.Inc()
	m.Records.Add(float64(len(r.Records)))
	m.Unreachable.Add(float64(r.Unreachable))
	m.TrialDuration.Observe(seconds)
}
