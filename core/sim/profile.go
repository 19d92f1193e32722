package sim

import "fmt"

// Setpoint is one knot of a drive cycle profile.
type Setpoint struct {
	T          float64 `json:"t"`           // seconds since profile start
	RotorSpeed float64 `json:"rotor_speed"` // mechanical speed [rad/s]
	Torque     float64 `json:"torque"`      // commanded torque [N*m]
}

// Profile is a piecewise linear drive cycle. Setpoints must be ordered by
// strictly increasing time.
type Profile []Setpoint

// Validate checks ordering and length.
func (p Profile) Validate() error {
	if len(p) < 2 {
		return fmt.Errorf("profile needs at least 2 setpoints, got %d", len(p))
	}
	for i := 1; i < len(p); i++ {
		if p[i].T <= p[i-1].T {
			return fmt.Errorf("profile setpoint %d: time %v not after %v", i, p[i].T, p[i-1].T)
		}
	}
	return nil
}

// Duration returns the time span covered by the profile.
func (p Profile) Duration() float64 {
	if len(p) == 0 {
		return 0
	}
	return p[len(p)-1].T - p[0].T
}

// At returns the linearly interpolated speed and torque command at time t.
// Times outside the profile clamp to the first or last setpoint.
func (p Profile) At(t float64) (speed, torque float64) {
	if len(p) == 0 {
		return 0, 0
	}
	if t <= p[0].T {
		return p[0].RotorSpeed, p[0].Torque
	}
	last := p[len(p)-1]
	if t >= last.T {
		return last.RotorSpeed, last.Torque
	}
	for i := 1; i < len(p); i++ {
		if t > p[i].T {
			continue
		}
		a, b := p[i-1], p[i]
		frac := (t - a.T) / (b.T - a.T)
		return a.RotorSpeed + frac*(b.RotorSpeed-a.RotorSpeed),
			a.Torque + frac*(b.Torque-a.Torque)
	}
	return last.RotorSpeed, last.Torque
}
