package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "popsynth",
		Short: "Forecast population synthesizer for travel-demand models",
	}

	rootCmd.AddCommand(synthesizeCmd())
	rootCmd.AddCommand(workersCmd())
	rootCmd.AddCommand(validateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func synthesizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "synthesize [project-path]",
		Short: "Draw a synthetic household population matching the forecast",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runSynthesize(args[0])
		},
	}
}

func workersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "workers [project-path]",
		Short: "Regenerate worker-category tables from synthesized households",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runWorkers(args[0])
		},
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [project-path]",
		Short: "Check the inputs of a synthesis project without sampling",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(args[0])
		},
	}
}
