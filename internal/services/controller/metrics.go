package controller

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/farmtech-solutions/irrigation-core/internal/model"
)

// Metrics exposes the loop's operational counters.
type Metrics struct {
	cycles    prometheus.Counter
	faults    prometheus.Counter
	decisions *prometheus.CounterVec
	pumpOn    prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		cycles: factory.NewCounter(prometheus.CounterOpts{
			Name: "irrigation_cycles_total",
			Help: "Completed decision cycles, fault cycles included.",
		}),
		faults: factory.NewCounter(prometheus.CounterOpts{
			Name: "irrigation_sensor_faults_total",
			Help: "Cycles skipped because the humidity/temperature probe read NaN.",
		}),
		decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "irrigation_decisions_total",
			Help: "Decisions by reason code.",
		}, []string{"reason"}),
		pumpOn: factory.NewGauge(prometheus.GaugeOpts{
			Name: "irrigation_pump_engaged",
			Help: "1 while the pump relay is engaged.",
		}),
	}
}

func (m *Metrics) CycleCompleted(d model.Decision) {
	m.cycles.Inc()
	m.decisions.WithLabelValues(string(d.Reason)).Inc()
	if d.PumpOn {
		m.pumpOn.Set(1)
	} else {
		m.pumpOn.Set(0)
	}
}

func (m *Metrics) FaultCycle() {
	m.cycles.Inc()
	m.faults.Inc()
	m.pumpOn.Set(0)
}
