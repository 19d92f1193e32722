package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/motorsim/config"
	"github.com/kilianp07/motorsim/core/envelope"
)

var (
	sweepVoltage  float64
	sweepMinSpeed float64
	sweepMaxSpeed float64
	sweepPoints   int
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Print the torque and power envelope over a speed range",
	RunE:  runSweep,
}

func init() {
	sweepCmd.Flags().Float64Var(&sweepVoltage, "voltage", 600, "bus voltage [V]")
	sweepCmd.Flags().Float64Var(&sweepMinSpeed, "min-speed", 0, "lowest rotor speed [rad/s]")
	sweepCmd.Flags().Float64Var(&sweepMaxSpeed, "max-speed", 400, "highest rotor speed [rad/s]")
	sweepCmd.Flags().IntVar(&sweepPoints, "points", 41, "number of grid points")
	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	curve, err := envelope.Sweep(sweepVoltage, sweepMinSpeed, sweepMaxSpeed, sweepPoints, cfg.Motor)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "speed [rad/s]\tlower [N*m]\tupper [N*m]\tconstraint\tpower@upper [W]")
	for _, pt := range curve.Points {
		fmt.Fprintf(w, "%.1f\t%.2f\t%.2f\t%s\t%.1f\n",
			pt.Speed, pt.Limits.Lower, pt.Limits.Upper, pt.Limits.UpperConstraint, pt.UpperPower)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if base, ok := curve.BaseSpeed(); ok {
		fmt.Printf("base speed: %.1f rad/s\n", base)
	}
	pt, power := curve.PeakGeneration()
	fmt.Printf("peak generation: %.1f W at %.1f rad/s\n", power, pt.Speed)
	return nil
}
