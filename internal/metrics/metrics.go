// Package metrics exposes the runtime's Prometheus collectors: tick and
// firing counters plus a gauge of currently active schedulers. Supplements
// spec.md with the observability surface the distilled spec's Non-goals
// leave silent on (metrics are not named as a Non-goal, only as an
// out-of-scope *external collaborator* for logging/time/randomness).
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collectors bundles every metric the runtime loop updates. A nil
// *Collectors is valid and every method becomes a no-op, so wiring metrics
// is optional (the CLI's --metrics-addr flag controls whether a
// Collectors is constructed at all).
type Collectors struct {
	Ticks             *prometheus.CounterVec
	InstructionsFired *prometheus.CounterVec
	DriverErrors      prometheus.Counter
	ActiveSchedulers  prometheus.Gauge
}

// New registers a fresh set of collectors against reg.
func New(reg prometheus.Registerer) *Collectors {
	c := &Collectors{
		Ticks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "beanscript",
			Name:      "ticks_total",
			Help:      "Total scheduler ticks processed, by scheduler kind.",
		}, []string{"scheduler_kind"}),
		InstructionsFired: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "beanscript",
			Name:      "instructions_fired_total",
			Help:      "Total instructions executed, by kind.",
		}, []string{"kind"}),
		DriverErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "beanscript",
			Name:      "driver_errors_total",
			Help:      "Total non-fatal driver transport errors.",
		}),
		ActiveSchedulers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "beanscript",
			Name:      "scheduler_active",
			Help:      "Number of currently active schedulers.",
		}),
	}
	reg.MustRegister(c.Ticks, c.InstructionsFired, c.DriverErrors, c.ActiveSchedulers)
	return c
}

// Tick records one scheduler tick of the given kind ("routine", "waitlist",
// "random", "group").
func (c *Collectors) Tick(kind string) {
	if c == nil {
		return
	}
	c.Ticks.WithLabelValues(kind).Inc()
}

// Fired records one instruction execution of the given kind.
func (c *Collectors) Fired(kind string) {
	if c == nil {
		return
	}
	c.InstructionsFired.WithLabelValues(kind).Inc()
}

// DriverError records one non-fatal driver transport failure.
func (c *Collectors) DriverError() {
	if c == nil {
		return
	}
	c.DriverErrors.Inc()
}

// SetActive records the current count of active schedulers.
func (c *Collectors) SetActive(n int) {
	if c == nil {
		return
	}
	c.ActiveSchedulers.Set(float64(n))
}
