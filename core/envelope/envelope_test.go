package envelope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/motorsim/core/motor"
)

func benchParams() motor.Params {
	return motor.Params{
		Ld:                    0.001,
		Lq:                    0.001,
		Rs:                    0.1,
		FluxLinkage:           0.1,
		NumPolePairs:          10,
		ModulationLimit:       1.0,
		PhaseCurrentCmdLimit:  250,
		IqCmdLowerLimit:       -240,
		IqCmdUpperLimit:       240,
		SwitchingFrequency:    15000,
		SpecificSwitchingLoss: 5e-7,
		FixedLossSqCoeff:      2e-8,
		FixedLossLinCoeff:     1e-5,
		RdsOn:                 0.003,
		OmegaLossCoeffCubic:   1e-6,
		OmegaLossCoeffSq:      1e-4,
		OmegaLossCoeffLin:     0.05,
		HysteresisLossCoeff:   1e-5,
	}
}

func TestSweepGrid(t *testing.T) {
	curve, err := Sweep(600, 0, 400, 41, benchParams())
	require.NoError(t, err)
	require.Len(t, curve.Points, 41)
	assert.Equal(t, 0.0, curve.Points[0].Speed)
	assert.Equal(t, 400.0, curve.Points[40].Speed)
	assert.InDelta(t, 10.0, curve.Points[1].Speed-curve.Points[0].Speed, 1e-9)

	for _, pt := range curve.Points {
		assert.LessOrEqual(t, pt.Limits.Lower, pt.Limits.Upper, "speed %v", pt.Speed)
	}
}

func TestSweepArgs(t *testing.T) {
	_, err := Sweep(600, 0, 400, 1, benchParams())
	assert.Error(t, err)
	_, err = Sweep(600, 400, 0, 10, benchParams())
	assert.Error(t, err)
}

func TestBaseSpeed(t *testing.T) {
	p := benchParams()
	p.IqCmdLowerLimit = -5000
	p.IqCmdUpperLimit = 5000

	curve, err := Sweep(600, 0, 400, 81, p)
	require.NoError(t, err)

	base, ok := curve.BaseSpeed()
	require.True(t, ok, "expected a power limited region on the grid")
	assert.Greater(t, base, 0.0)

	// Beyond base speed the envelope keeps shrinking.
	var prev float64
	seen := false
	for _, pt := range curve.Points {
		if pt.Speed < base {
			continue
		}
		if seen {
			assert.LessOrEqual(t, pt.Limits.Upper, prev+1e-9, "speed %v", pt.Speed)
		}
		prev = pt.Limits.Upper
		seen = true
	}
}

func TestPeakGeneration(t *testing.T) {
	curve, err := Sweep(600, 0, 300, 61, benchParams())
	require.NoError(t, err)

	pt, power := curve.PeakGeneration()
	// Braking along the lower bound at speed generates net power.
	assert.Greater(t, power, 0.0)
	assert.Equal(t, pt.LowerPower, power)
	assert.Greater(t, pt.Speed, 0.0)
}
