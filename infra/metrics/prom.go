package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/motorsim/core/metrics"
)

// PromSink exposes simulation steps as Prometheus metrics.
type PromSink struct {
	steps  *prometheus.CounterVec
	power  prometheus.Gauge
	torque prometheus.Gauge
	speed  prometheus.Gauge
}

// NewPromSink registers the simulation metrics on the provided registerer.
// If reg is nil, the default registerer is used. Already registered
// collectors are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	steps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "motorsim_steps_total",
		Help: "Total number of simulation steps",
	}, []string{"clamped", "constraint"})
	power := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "motorsim_power_watts",
		Help: "Net electrical power at the last step, positive for generation",
	})
	torque := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "motorsim_torque_nm",
		Help: "Applied torque at the last step",
	})
	speed := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "motorsim_rotor_speed_rad_s",
		Help: "Mechanical rotor speed at the last step",
	})

	s := &PromSink{steps: steps, power: power, torque: torque, speed: speed}
	if err := reg.Register(steps); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			s.steps = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	for _, g := range []*prometheus.Gauge{&s.power, &s.torque, &s.speed} {
		if err := reg.Register(*g); err != nil {
			if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
				*g = are.ExistingCollector.(prometheus.Gauge)
			} else {
				return nil, err
			}
		}
	}
	return s, nil
}

// RecordSteps implements coremetrics.StepSink.
func (s *PromSink) RecordSteps(results []coremetrics.StepResult) error {
	for _, r := range results {
		constraint := ""
		if r.Clamped {
			constraint = r.Constraint.String()
		}
		s.steps.WithLabelValues(strconv.FormatBool(r.Clamped), constraint).Inc()
		s.power.Set(r.PowerW)
		s.torque.Set(r.TorqueApplied)
		s.speed.Set(r.RotorSpeed)
	}
	return nil
}
