package motor

import "math"

// dblEpsilon is the spacing between 1.0 and the next representable float64.
const dblEpsilon = 2.220446049250313e-16

// Params describes a non-salient permanent magnet synchronous motor together
// with its drive electronics. All values are SI units; rotor speeds are
// mechanical rad/s.
type Params struct {
	Ld          float64 `json:"ld"`           // d-axis inductance [H]
	Lq          float64 `json:"lq"`           // q-axis inductance [H]
	Rs          float64 `json:"rs"`           // stator resistance [Ohm]
	FluxLinkage float64 `json:"flux_linkage"` // rotor flux linkage [Wb]

	NumPolePairs    int     `json:"num_pole_pairs"`
	ModulationLimit float64 `json:"modulation_limit"` // fraction of bus voltage deliverable as fundamental

	// Hard command limits applied before any physical constraint.
	PhaseCurrentCmdLimit float64 `json:"phase_current_cmd_limit"` // [A]
	IqCmdLowerLimit      float64 `json:"iq_cmd_lower_limit"`      // [A]
	IqCmdUpperLimit      float64 `json:"iq_cmd_upper_limit"`      // [A]

	// Motor controller (inverter) loss model.
	SwitchingFrequency    float64 `json:"switching_frequency"`     // [Hz]
	SpecificSwitchingLoss float64 `json:"specific_switching_loss"` // [J/(V*A)]
	FixedLossSqCoeff      float64 `json:"fixed_loss_sq_coeff"`     // [J/V^2]
	FixedLossLinCoeff     float64 `json:"fixed_loss_lin_coeff"`    // [J/V]
	RdsOn                 float64 `json:"rds_on"`                  // drive on-resistance [Ohm]

	// Mechanical and iron loss polynomial, cubic in rotor speed.
	OmegaLossCoeffCubic float64 `json:"omega_loss_coeff_cubic"`
	OmegaLossCoeffSq    float64 `json:"omega_loss_coeff_sq"`
	OmegaLossCoeffLin   float64 `json:"omega_loss_coeff_lin"`

	HysteresisLossCoeff float64 `json:"hysteresis_loss_coeff"`
}

// IsNonSalient reports whether the parameters describe a machine with
// negligible saliency. The torque and power calculations are only valid for
// non-salient machines.
func (p Params) IsNonSalient() bool {
	return math.Abs(p.Ld-p.Lq) <= dblEpsilon
}

// TorqueConstant returns the torque produced per ampere of quadrature current.
func (p Params) TorqueConstant() float64 {
	return 1.5 * float64(p.NumPolePairs) * p.FluxLinkage
}

// assertNonSalient halts on salient parameters. The analytic derivation below
// assumes Ld == Lq; running it on a salient machine would silently produce
// wrong numbers, which is worse than crashing.
func assertNonSalient(p Params) {
	if !p.IsNonSalient() {
		panic("motor: salient machine parameters (Ld != Lq) are not supported")
	}
}

// Constraint identifies which physical limit is binding at a torque bound.
type Constraint int

const (
	// ConstraintPhaseCurrent marks a bound set by the phase current command limit.
	ConstraintPhaseCurrent Constraint = iota
	// ConstraintPower marks a bound set by the available d-q voltage.
	ConstraintPower
)

// String implements fmt.Stringer.
func (c Constraint) String() string {
	switch c {
	case ConstraintPhaseCurrent:
		return "phase_current"
	case ConstraintPower:
		return "power"
	default:
		return "unknown"
	}
}

// TorqueLimits is the feasible torque band at one operating point, with the
// constraint active at each bound.
type TorqueLimits struct {
	Lower           float64
	Upper           float64
	LowerConstraint Constraint
	UpperConstraint Constraint
}

func saturate(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
