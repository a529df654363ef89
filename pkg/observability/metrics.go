package observability

import (
	"context"

	"github.com/aretw0/enhance/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts plugin registrations, contained failures and runs.
type Metrics struct {
	Uses     prometheus.Counter
	Failures *prometheus.CounterVec
	Runs     *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Uses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "enhance_plugins_used_total",
			Help: "Total number of plugins handed to the original registration",
		}),
		Failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "enhance_plugin_failures_total",
				Help: "Total number of contained plugin failures",
			},
			[]string{"stage"},
		),
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "enhance_runs_total",
				Help: "Total number of runs by outcome",
			},
			[]string{"outcome"},
		),
	}

	for _, c := range []prometheus.Collector{m.Uses, m.Failures, m.Runs} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that record into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnUse: func(context.Context, *domain.PluginEvent) {
			m.Uses.Inc()
		},
		OnPluginError: func(_ context.Context, e *domain.ErrorEvent) {
			m.Failures.WithLabelValues(string(e.Stage)).Inc()
		},
		OnRun: func(_ context.Context, e *domain.RunEvent) {
			outcome := "ok"
			if e.Failed {
				outcome = "failed"
			}
			m.Runs.WithLabelValues(outcome).Inc()
		},
	}
}
