package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/motorsim/config"
	"github.com/kilianp07/motorsim/core/motor"
)

var (
	limitsVoltage float64
	limitsSpeed   float64
)

var limitsCmd = &cobra.Command{
	Use:   "limits",
	Short: "Print the feasible torque band at one operating point",
	RunE:  runLimits,
}

func init() {
	limitsCmd.Flags().Float64Var(&limitsVoltage, "voltage", 600, "bus voltage [V]")
	limitsCmd.Flags().Float64Var(&limitsSpeed, "speed", 0, "mechanical rotor speed [rad/s]")
	rootCmd.AddCommand(limitsCmd)
}

func runLimits(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	limits := motor.ComputeTorqueLimits(limitsVoltage, limitsSpeed, cfg.Motor)
	fmt.Printf("voltage: %.1f V, speed: %.1f rad/s\n", limitsVoltage, limitsSpeed)
	fmt.Printf("lower: %.2f N*m (%s)\n", limits.Lower, limits.LowerConstraint)
	fmt.Printf("upper: %.2f N*m (%s)\n", limits.Upper, limits.UpperConstraint)

	power := motor.ComputeMotorPower(limitsVoltage, limits.Upper, limitsSpeed, cfg.Motor)
	fmt.Printf("power at upper bound: %.1f W\n", power)
	return nil
}
