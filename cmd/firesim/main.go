// Command firesim replays weapon attack scenarios and estimates the damage
// they deal over many seeded runs.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"FireResolver/internal/scenario"
)

var (
	combatLogger *zap.Logger
	verbose      bool
)

// initLogger sets up the combat log. Without --verbose it stays silent.
func initLogger() {
	if !verbose {
		combatLogger = zap.NewNop()
		return
	}
	var err error
	if combatLogger, err = zap.NewDevelopment(); err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		combatLogger = zap.NewNop()
	}
}

func closeLogger() {
	if combatLogger != nil {
		_ = combatLogger.Sync()
		combatLogger = nil
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "firesim",
		Short:        "Resolve weapon attacks from scripted scenarios",
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			initLogger()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			closeLogger()
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every resolution stage")
	root.AddCommand(newRunCmd(), newSimCmd(), newCheckCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var seed int64
	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Play a scenario once and print the attack report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := scenario.Load(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("seed") {
				seed = s.Seed
			}
			res := s.Run(seed, combatLogger)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (seed %d)\n\n", s.Name, seed)
			for _, e := range res.Log.Entries() {
				fmt.Fprintln(out, e)
			}
			fmt.Fprintf(out, "\nDamage dealt: %d\n", res.Log.DamageDealt())
			if res.Pending > 0 {
				fmt.Fprintf(out, "Still pending: %d\n", res.Pending)
			}
			fmt.Fprintln(out)
			for _, u := range res.World.Units() {
				fmt.Fprintln(out, u)
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 0, "dice seed (defaults to the scenario's own)")
	return cmd
}

func newSimCmd() *cobra.Command {
	var (
		runs int
		seed int64
	)
	cmd := &cobra.Command{
		Use:   "sim <scenario.yaml>",
		Short: "Play a scenario many times and report the damage spread",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := scenario.Load(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("seed") {
				seed = s.Seed
			}
			stats, err := s.Simulate(runs, seed, combatLogger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: 68th: %v, 95th: %v\n%s\n", s.Name, stats.P68, stats.P95, stats)
			return nil
		},
	}
	cmd.Flags().IntVarP(&runs, "runs", "n", 1000, "number of runs")
	cmd.Flags().Int64Var(&seed, "seed", 0, "first seed (defaults to the scenario's own)")
	return cmd
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <scenario.yaml>...",
		Short: "Validate scenarios without playing them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				s, err := scenario.Load(path)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d units, %d phases ok\n", path, len(s.Units), len(s.Steps))
			}
			return nil
		},
	}
}
