package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/systmms/ccm/cmd/ccm/commands"
	"github.com/systmms/ccm/internal/config"
	dserrors "github.com/systmms/ccm/internal/errors"
	"github.com/systmms/ccm/internal/execenv"
	"github.com/systmms/ccm/internal/logging"
	"github.com/systmms/ccm/internal/metrics"
	"github.com/systmms/ccm/internal/secure"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	err := run()
	secure.Purge()

	var exitErr *execenv.ExitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.Code)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", dserrors.Present(err))
		os.Exit(1)
	}
}

func run() error {
	var (
		configDir   string
		noColor     bool
		debug       bool
		metricsFile string
	)

	// Filled in once flags are parsed.
	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:   "ccm",
		Short: "Manage provider profiles and their credentials",
		Long: `ccm keeps named provider profiles (endpoint, model and where the auth
token lives) and exports them to your shell.

Tokens are never written into profile files. They stay in the system
keychain, an environment variable, or a sealed file.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.New(debug, noColor)

			loaded, err := config.New(configDir, logger)
			if err != nil {
				return err
			}
			*cfg = *loaded
			cfg.Metrics = metrics.NewRecorder()

			return cfg.Load()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if metricsFile == "" {
				return nil
			}
			return cfg.Metrics.WriteTextfile(metricsFile)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Configuration directory (default $CCM_CONFIG_DIR or the user config dir)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics to this file on exit")

	rootCmd.AddCommand(
		commands.NewAddCommand(cfg),
		commands.NewListCommand(cfg),
		commands.NewShowCommand(cfg),
		commands.NewRemoveCommand(cfg),
		commands.NewUseCommand(cfg),
		commands.NewCurrentCommand(cfg),
		commands.NewTokenCommand(cfg),
		commands.NewEnvCommand(cfg),
		commands.NewRunCommand(cfg),
		commands.NewSealCommand(cfg),
		commands.NewDoctorCommand(cfg),
		commands.NewCompletionCommand(cfg),
	)

	return rootCmd.Execute()
}
