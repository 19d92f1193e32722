package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/motorsim/core/logger"
	"github.com/kilianp07/motorsim/core/metrics"
	"github.com/kilianp07/motorsim/core/motor"
)

// Config describes one simulation run.
type Config struct {
	DTSeconds  float64 `json:"dt_seconds"`
	BusVoltage float64 `json:"bus_voltage"`
	// RealTime paces the loop at wall clock speed instead of running
	// compute bound.
	RealTime bool    `json:"real_time"`
	Profile  Profile `json:"profile"`
}

// Validate checks the run parameters.
func (c Config) Validate() error {
	if c.DTSeconds <= 0 {
		return fmt.Errorf("dt_seconds must be positive, got %v", c.DTSeconds)
	}
	if c.BusVoltage < 0 {
		return fmt.Errorf("bus_voltage must not be negative, got %v", c.BusVoltage)
	}
	return c.Profile.Validate()
}

// Summary aggregates a completed run.
type Summary struct {
	Steps        int
	ClampedSteps int
	// EnergyJ is the net electrical energy over the run, positive for
	// generation.
	EnergyJ float64
}

// Simulator steps a torque command profile through the motor model, clamping
// every command to the feasible torque band before evaluating power.
type Simulator struct {
	params  motor.Params
	voltage float64
	log     logger.Logger
}

// New creates a Simulator. log may be nil.
func New(params motor.Params, busVoltage float64, log logger.Logger) *Simulator {
	return &Simulator{params: params, voltage: busVoltage, log: log}
}

// Step evaluates a single operating point.
func (s *Simulator) Step(simTime, speed, torqueCmd float64) metrics.StepResult {
	limits := motor.ComputeTorqueLimits(s.voltage, speed, s.params)

	applied := torqueCmd
	clamped := false
	constraint := motor.ConstraintPhaseCurrent
	switch {
	case torqueCmd > limits.Upper:
		applied = limits.Upper
		clamped = true
		constraint = limits.UpperConstraint
	case torqueCmd < limits.Lower:
		applied = limits.Lower
		clamped = true
		constraint = limits.LowerConstraint
	}

	power := motor.ComputeMotorPower(s.voltage, applied, speed, s.params)
	return metrics.StepResult{
		Time:          time.Now(),
		SimTime:       simTime,
		Voltage:       s.voltage,
		RotorSpeed:    speed,
		TorqueCommand: torqueCmd,
		TorqueApplied: applied,
		PowerW:        power,
		Clamped:       clamped,
		Constraint:    constraint,
	}
}

// Run steps the profile at fixed dt, calling emit for every step, and returns
// the run summary. The loop stops early when ctx is canceled.
func (s *Simulator) Run(ctx context.Context, profile Profile, dt float64, emit func(metrics.StepResult)) (Summary, error) {
	if err := profile.Validate(); err != nil {
		return Summary{}, fmt.Errorf("run profile: %w", err)
	}
	if dt <= 0 {
		return Summary{}, fmt.Errorf("run: dt must be positive, got %v", dt)
	}

	var sum Summary
	end := profile[len(profile)-1].T
	for t := profile[0].T; t <= end; t += dt {
		select {
		case <-ctx.Done():
			return sum, ctx.Err()
		default:
		}

		speed, torqueCmd := profile.At(t)
		res := s.Step(t, speed, torqueCmd)
		sum.Steps++
		if res.Clamped {
			sum.ClampedSteps++
			if s.log != nil {
				s.log.Debugw("torque command clamped", map[string]any{
					"sim_time":   t,
					"command":    torqueCmd,
					"applied":    res.TorqueApplied,
					"constraint": res.Constraint.String(),
				})
			}
		}
		sum.EnergyJ += res.PowerW * dt
		if emit != nil {
			emit(res)
		}
	}
	return sum, nil
}
