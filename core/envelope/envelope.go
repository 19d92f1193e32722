package envelope

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/motorsim/core/motor"
)

// Point is the feasible torque band at one rotor speed together with the net
// electrical power at each bound.
type Point struct {
	Speed      float64
	Limits     motor.TorqueLimits
	UpperPower float64
	LowerPower float64
}

// Curve is a torque/power envelope over a speed grid at fixed bus voltage.
type Curve struct {
	Voltage float64
	Points  []Point
}

// Sweep evaluates the torque envelope on n evenly spaced speeds between
// minSpeed and maxSpeed.
func Sweep(voltage, minSpeed, maxSpeed float64, n int, params motor.Params) (Curve, error) {
	if n < 2 {
		return Curve{}, fmt.Errorf("envelope: need at least 2 grid points, got %d", n)
	}
	if maxSpeed <= minSpeed {
		return Curve{}, fmt.Errorf("envelope: max speed %v must exceed min speed %v", maxSpeed, minSpeed)
	}

	speeds := floats.Span(make([]float64, n), minSpeed, maxSpeed)
	curve := Curve{Voltage: voltage, Points: make([]Point, n)}
	for i, speed := range speeds {
		limits := motor.ComputeTorqueLimits(voltage, speed, params)
		curve.Points[i] = Point{
			Speed:      speed,
			Limits:     limits,
			UpperPower: motor.ComputeMotorPower(voltage, limits.Upper, speed, params),
			LowerPower: motor.ComputeMotorPower(voltage, limits.Lower, speed, params),
		}
	}
	return curve, nil
}

// BaseSpeed returns the lowest non-negative speed on the grid at which the
// upper torque bound is power limited, and false if the drive stays current
// limited over the whole grid.
func (c Curve) BaseSpeed() (float64, bool) {
	for _, pt := range c.Points {
		if pt.Speed >= 0 && pt.Limits.UpperConstraint == motor.ConstraintPower {
			return pt.Speed, true
		}
	}
	return 0, false
}

// PeakGeneration returns the point with the highest net generated power on
// the grid, considering both bounds of the band.
func (c Curve) PeakGeneration() (Point, float64) {
	powers := make([]float64, len(c.Points))
	for i, pt := range c.Points {
		powers[i] = pt.UpperPower
		if pt.LowerPower > powers[i] {
			powers[i] = pt.LowerPower
		}
	}
	idx := floats.MaxIdx(powers)
	return c.Points[idx], powers[idx]
}
