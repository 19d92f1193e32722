package motor

import "math"

// ComputeControllerLoss returns the inverter semiconductor loss [W] for the
// given bus voltage and squared peak phase current. Sign convention is
// negative for loss.
//
// Conduction assumes three phases with synchronous switching, so one leg of
// each half bridge is always conducting. Switching losses split into a part
// proportional to bus voltage times average phase current and a fixed part
// from the output capacitance, modeled linearly in voltage. Ripple current at
// the switching frequency is not accounted for.
func ComputeControllerLoss(voltage, peakPhaseCurrentSq float64, params Params) float64 {
	conductionLoss := -1.5 * peakPhaseCurrentSq * params.RdsOn

	variableSwitchingLossPerCycle := -(3 * 2 / math.Pi * voltage *
		math.Sqrt(peakPhaseCurrentSq) * params.SpecificSwitchingLoss)

	fixedSwitchingLossPerCycle := -3 *
		(params.FixedLossSqCoeff*voltage + params.FixedLossLinCoeff) * voltage

	return conductionLoss + params.SwitchingFrequency*
		(variableSwitchingLossPerCycle+fixedSwitchingLossPerCycle)
}
