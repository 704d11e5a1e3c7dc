package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/config"
	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/logging"
	"github.com/galyanrajat/AI-Powered-Cricket-Analytics/internal/store"
)

var (
	flagConfig   string
	flagLogLevel string
	flagLogFile  string

	settings config.Config
)

var rootCmd = &cobra.Command{
	Use:   "athleterise",
	Short: "Cricket cover drive analysis",
	Long: `AthleteRise analyzes cover drive footage: pose estimation, bat
detection, phase segmentation, contact estimation, biomechanical metrics
and a per-category score card.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		settings, err = config.Load(flagConfig)
		if err != nil {
			return err
		}

		logFile := flagLogFile
		if logFile == "" && settings.LogsDir != "" {
			logFile = filepath.Join(settings.LogsDir, "athleterise.log")
		}
		return logging.Init(flagLogLevel, logFile)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to the settings file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "log file path (default under logs_dir)")
}

// openStore opens the run registry under the configured output directory.
func openStore() (*store.Store, error) {
	if err := os.MkdirAll(settings.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return store.New(filepath.Join(settings.OutputDir, "athleterise.db"))
}
