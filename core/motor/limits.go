package motor

import "math"

// ComputeTorqueLimits returns the feasible torque band for a non-salient PMSM
// under field oriented control, given the bus voltage [V] and mechanical rotor
// speed [rad/s]. The band starts from the hard quadrature current command
// limits and is tightened by the voltage limit circle and the phase current
// limit circle in the d-q current plane.
//
// Negative bus voltages are treated as zero; a drive cannot apply a negative
// bus voltage in this model.
func ComputeTorqueLimits(voltage, rotorVel float64, params Params) TorqueLimits {
	if voltage < 0 {
		voltage = 0
	}
	assertNonSalient(params)

	// The q-axis inductance is used as the machine inductance: it dominates
	// behaviour when not heavily flux weakening.
	L := params.Lq
	rs := params.Rs
	lambda := params.FluxLinkage
	iPhaseLim := params.PhaseCurrentCmdLimit
	npp := float64(params.NumPolePairs)
	omegaE := rotorVel * npp

	vdqMax := voltage / math.Sqrt(3) * params.ModulationLimit
	z2 := rs*rs + L*L*omegaE*omegaE

	// Seed with the hard quadrature current command limits.
	iqLower := params.IqCmdLowerLimit
	iqUpper := params.IqCmdUpperLimit
	limits := TorqueLimits{
		LowerConstraint: ConstraintPhaseCurrent,
		UpperConstraint: ConstraintPhaseCurrent,
	}

	// Voltage limit circle in the d-q current plane for a non-salient machine.
	idCenter := -omegaE * omegaE * L * lambda / z2
	iqCenter := -rs * omegaE * lambda / z2
	iqRadius := vdqMax / math.Sqrt(z2)
	if iqLower < iqCenter-iqRadius {
		limits.LowerConstraint = ConstraintPower
		iqLower = iqCenter - iqRadius
	}
	if iqUpper > iqCenter+iqRadius {
		limits.UpperConstraint = ConstraintPower
		iqUpper = iqCenter + iqRadius
	}

	// Angles on the phase current circle that also satisfy the voltage limit.
	// Round-off can push the cosine slightly outside [-1, 1], so clamp before
	// taking the arccosine.
	cosIdq := (vdqMax*vdqMax - z2*iPhaseLim*iPhaseLim - lambda*lambda*omegaE*omegaE) /
		(2 * math.Max(math.Abs(omegaE), 1) * lambda * iPhaseLim * math.Sqrt(z2))
	cosIdq = saturate(cosIdq, -1, 1)
	thetaDelta := math.Acos(cosIdq)
	thetaRef := 0.0
	if math.Abs(omegaE) > dblEpsilon {
		thetaRef = math.Atan(rs / (omegaE * L))
	}

	// Lower phase current limit.
	theta := math.Min(thetaRef-thetaDelta, -0.5*math.Pi)
	if idCenter < iPhaseLim*math.Cos(theta) && iPhaseLim*math.Sin(theta) > iqLower {
		limits.LowerConstraint = ConstraintPhaseCurrent
		iqLower = iPhaseLim * math.Sin(theta)
	}

	// Upper phase current limit.
	theta = math.Max(thetaRef+thetaDelta, 0.5*math.Pi)
	if idCenter < iPhaseLim*math.Cos(theta) && iPhaseLim*math.Sin(theta) < iqUpper {
		limits.UpperConstraint = ConstraintPhaseCurrent
		iqUpper = iPhaseLim * math.Sin(theta)
	}

	limits.Lower = 1.5 * npp * lambda * iqLower
	limits.Upper = 1.5 * npp * lambda * iqUpper
	return limits
}
