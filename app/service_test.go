package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kilianp07/motorsim/config"
	"github.com/kilianp07/motorsim/core/motor"
	"github.com/kilianp07/motorsim/core/sim"
)

func testConfig() *config.Config {
	return &config.Config{
		Motor: motor.Params{
			Ld:                   0.001,
			Lq:                   0.001,
			Rs:                   0.1,
			FluxLinkage:          0.1,
			NumPolePairs:         10,
			ModulationLimit:      1.0,
			PhaseCurrentCmdLimit: 250,
			IqCmdLowerLimit:      -240,
			IqCmdUpperLimit:      240,
		},
		Sim: sim.Config{
			DTSeconds:  0.01,
			BusVoltage: 600,
			Profile: sim.Profile{
				{T: 0, RotorSpeed: 0, Torque: 0},
				{T: 1, RotorSpeed: 100, Torque: 50},
			},
		},
	}
}

func TestServiceRunsProfile(t *testing.T) {
	svc, err := New(testConfig())
	require.NoError(t, err)
	defer func() { require.NoError(t, svc.Close()) }()

	require.NoError(t, svc.Run(context.Background()))
}

func TestServiceCanceled(t *testing.T) {
	cfg := testConfig()
	cfg.Sim.Profile = sim.Profile{
		{T: 0, RotorSpeed: 0, Torque: 0},
		{T: 10000, RotorSpeed: 100, Torque: 50},
	}
	svc, err := New(cfg)
	require.NoError(t, err)
	defer func() { require.NoError(t, svc.Close()) }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Error(t, svc.Run(ctx))
}
