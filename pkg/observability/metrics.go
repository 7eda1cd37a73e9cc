package observability

import (
	"github.com/aretw0/propbind/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by lifecycle hooks.
type Metrics struct {
	Binds    *prometheus.CounterVec
	Accesses *prometheus.CounterVec
	Latency  *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg registers nothing, which is useful when collectors are exposed elsewhere.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Binds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "propbind_binds_total",
				Help: "Total number of contract binds",
			},
			[]string{"contract", "result"},
		),
		Accesses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "propbind_accesses_total",
				Help: "Total number of accessor invocations",
			},
			[]string{"contract", "key", "origin", "result"},
		),
		Latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "propbind_access_duration_seconds",
				Help:    "Duration of accessor invocations",
				Buckets: prometheus.ExponentialBuckets(0.000001, 4, 10),
			},
			[]string{"contract"},
		),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.Binds, m.Accesses, m.Latency} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks recording into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnBind: func(e *domain.BindEvent) {
			m.Binds.WithLabelValues(e.Contract, result(e.Err)).Inc()
		},
		OnAccess: func(e *domain.AccessEvent) {
			m.Accesses.WithLabelValues(e.Contract, e.Key, string(e.Origin), result(e.Err)).Inc()
			m.Latency.WithLabelValues(e.Contract).Observe(e.Duration.Seconds())
		},
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
