package fsmx

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Namespace and subsystem for all metrics.
	metricsNamespace = "fsmx"
	metricsSubsystem = "engine"
)

// Hook labels used by the callback error counter.
const (
	hookEnter  = "enter"
	hookUpdate = "update"
	hookExit   = "exit"
	hookGuard  = "guard"
)

// Metrics holds the engine's Prometheus collectors. One Metrics value can
// be shared by any number of machines; every series carries the machine ID
// as a label. Register at most one Metrics per prometheus.Registerer.
type Metrics struct {
	steps          *prometheus.CounterVec
	transitions    *prometheus.CounterVec
	callbackErrors *prometheus.CounterVec
	stepDuration   *prometheus.SummaryVec
}

// NewMetrics creates the engine collectors and registers them with reg.
// Pass prometheus.DefaultRegisterer to publish alongside an application's
// existing metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		steps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "steps_total",
				Help:      "Total number of Step invocations, whether or not a transition fired",
			},
			[]string{"machine"},
		),
		transitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "transitions_total",
				Help:      "Total number of committed transitions by edge",
			},
			[]string{"machine", "from", "to"},
		),
		callbackErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "callback_errors_total",
				Help:      "Total number of hook and guard errors by hook kind",
			},
			[]string{"machine", "hook"},
		),
		stepDuration: factory.NewSummaryVec(
			prometheus.SummaryOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "step_duration_seconds",
				Help:      "Time taken by one Step invocation (in seconds)",
				Objectives: map[float64]float64{
					0.5:  0.01, // 50th percentile with 1% error
					0.9:  0.01, // 90th percentile with 1% error
					0.95: 0.01, // 95th percentile with 1% error
					0.99: 0.01, // 99th percentile with 1% error
				},
			},
			[]string{"machine"},
		),
	}
}

func (x *Metrics) incStep(machine string) {
	x.steps.WithLabelValues(machine).Inc()
}

func (x *Metrics) observeStep(machine string, d time.Duration) {
	x.stepDuration.WithLabelValues(machine).Observe(d.Seconds())
}

func (m *Machine[C]) countTransition(from, to string) {
	if m.metrics != nil {
		m.metrics.transitions.WithLabelValues(m.id, from, to).Inc()
	}
}

func (m *Machine[C]) countCallbackError(hook string) {
	if m.metrics != nil {
		m.metrics.callbackErrors.WithLabelValues(m.id, hook).Inc()
	}
}
