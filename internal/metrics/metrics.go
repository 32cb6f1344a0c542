// Package metrics holds the shell's Prometheus collectors. All methods are
// safe on a nil *Metrics so components can run without instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the collectors registered on one registry.
type Metrics struct {
	Registry *prometheus.Registry

	Dispatches     *prometheus.CounterVec
	PersistWrites  *prometheus.CounterVec
	WindowsCreated prometheus.Counter
	WindowEvents   *prometheus.CounterVec
	WindowOpen     prometheus.Gauge
}

// New creates the collectors on a fresh registry, including Go runtime and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		Dispatches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "appshell_settings_dispatches_total",
				Help: "Settings actions dispatched, by action type",
			},
			[]string{"action"},
		),
		PersistWrites: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "appshell_settings_persist_writes_total",
				Help: "Settings snapshots written to storage, by result",
			},
			[]string{"result"},
		),
		WindowsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "appshell_windows_created_total",
			Help: "Main windows created since process start",
		}),
		WindowEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "appshell_window_events_total",
				Help: "Window geometry events observed, by kind",
			},
			[]string{"kind"},
		),
		WindowOpen: factory.NewGauge(prometheus.GaugeOpts{
			Name: "appshell_main_window_open",
			Help: "1 while the main window exists",
		}),
	}
}

// ObserveDispatch counts one dispatched action.
func (m *Metrics) ObserveDispatch(action string) {
	if m == nil {
		return
	}
	m.Dispatches.WithLabelValues(action).Inc()
}

// ObservePersist counts one storage write.
func (m *Metrics) ObservePersist(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.PersistWrites.WithLabelValues(result).Inc()
}

// ObserveWindowEvent counts one geometry event.
func (m *Metrics) ObserveWindowEvent(kind string) {
	if m == nil {
		return
	}
	m.WindowEvents.WithLabelValues(kind).Inc()
}

// SetWindowOpen records whether the main window exists.
func (m *Metrics) SetWindowOpen(open bool) {
	if m == nil {
		return
	}
	if open {
		m.WindowsCreated.Inc()
		m.WindowOpen.Set(1)
		return
	}
	m.WindowOpen.Set(0)
}
