package metrics

import (
	"time"

	"github.com/kilianp07/motorsim/core/motor"
)

// StepResult is one evaluated operating point of the drive cycle simulation.
type StepResult struct {
	Time          time.Time
	SimTime       float64 // seconds since the start of the profile
	Voltage       float64 // bus voltage [V]
	RotorSpeed    float64 // mechanical speed [rad/s]
	TorqueCommand float64 // requested torque [N*m]
	TorqueApplied float64 // torque after clamping to the feasible band [N*m]
	PowerW        float64 // net electrical power, positive for generation
	Clamped       bool
	// Constraint binding at the bound the command was clamped against.
	// Only meaningful when Clamped is true.
	Constraint motor.Constraint
}

// StepSink records simulation steps for observability purposes.
type StepSink interface {
	RecordSteps(results []StepResult) error
}

// NopSink discards everything.
type NopSink struct{}

// RecordSteps implements StepSink.
func (NopSink) RecordSteps([]StepResult) error { return nil }
