// Package main is the entry point for the nova dashboard CLI.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Red1Kir/NovaMotion-Core/internal/config"
)

// version is set at build time via -ldflags.
var version = "dev"

// Persistent flag values, bound in rootCmd.
var (
	flagConfig     string
	flagController string
)

func main() {
	registerQuitHandler()
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "nova",
		Short:   "NovaMotion machine-monitoring dashboard",
		Long:    "Real-time terminal dashboard for a NovaMotion motion controller:\nlive simulation telemetry, calibration runs, quality metrics and\nhardware status over a persistent websocket.",
		Version: version,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeDashboard()
		},
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "path to nova.toml (default: walk up from the working directory)")
	root.PersistentFlags().StringVar(&flagController, "controller", "", "controller base URL, e.g. http://127.0.0.1:5000 (overrides config and "+config.EnvController+")")

	root.AddCommand(
		dashboardCmd(),
		calibrateCmd(),
		exportCmd(),
		importCmd(),
		testPatternCmd(),
		statusCmd(),
		watchCmd(),
		initCmd(),
		versionCmd(),
	)

	return root
}
