package motor

import "math"

// ComputeMotorPower returns the net electrical power [W] consumed or generated
// by the motor and its controller at the given bus voltage [V], shaft torque
// [N*m] and mechanical rotor speed [rad/s]. Sign convention is positive power
// for generation.
//
// The operating point is inferred by following the minimum phase current path
// for the requested torque: id = 0 until the voltage limit circle forces flux
// weakening. Torque produced by hysteresis and eddy current losses is ignored;
// those terms are pure power sinks here.
//
// The caller is expected to keep torque inside the band reported by
// ComputeTorqueLimits. Mild violations are tolerated: an unreachable point
// falls back to the circle center d-axis current as an approximation.
func ComputeMotorPower(voltage, torque, rotorVel float64, params Params) float64 {
	if voltage < 0 {
		voltage = 0
	}
	assertNonSalient(params)

	L := params.Lq
	rs := params.Rs
	lambda := params.FluxLinkage
	npp := float64(params.NumPolePairs)
	omegaE := rotorVel * npp

	vdqMax := voltage / math.Sqrt(3) * params.ModulationLimit
	z2 := rs*rs + L*L*omegaE*omegaE

	// Ignores saliency and magnetic loss torque.
	iq := torque / (1.5 * npp * lambda)

	idCenter := -omegaE * omegaE * L * lambda / z2
	iqCenter := -rs * omegaE * lambda / z2
	iqRadius := vdqMax / math.Sqrt(z2)

	// Phase current starts as all q current.
	peakPhaseCurrentSq := iq * iq

	iqHeight := iq - iqCenter
	if math.Abs(iqHeight) > iqRadius {
		// Unreachable point: assume maximum d current and proceed.
		peakPhaseCurrentSq += idCenter * idCenter
	} else {
		id := idCenter + math.Sqrt(iqRadius*iqRadius-iqHeight*iqHeight)
		// Positive id is never chosen by the minimum current strategy.
		if id < 0 {
			peakPhaseCurrentSq += id * id
		}
	}

	// Positive power for generation.
	mechanicalPower := -torque * rotorVel

	// Three phases; the 1.5 factor folds the peak-to-rms conversion into the
	// three phase sum.
	resistiveLoss := -1.5 * peakPhaseCurrentSq * rs

	// Cubic-in-speed fit of mechanical and iron losses.
	speedLoss := -(params.OmegaLossCoeffCubic*rotorVel*rotorVel +
		params.OmegaLossCoeffSq*rotorVel +
		params.OmegaLossCoeffLin) * rotorVel

	// 0.5 factor accounts for the peak-to-rms conversion.
	hysteresisLoss := -0.5 * params.HysteresisLossCoeff * peakPhaseCurrentSq * rotorVel * rotorVel

	controllerLoss := ComputeControllerLoss(voltage, peakPhaseCurrentSq, params)

	return mechanicalPower + resistiveLoss + speedLoss + hysteresisLoss + controllerLoss
}
