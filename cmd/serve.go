package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ObiAU/smartpost/internal/aggregator"
	"github.com/ObiAU/smartpost/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API, cache warming and the Telegram bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defer logging.Close()

		agg, err := aggregator.New(cfg)
		if err != nil {
			return fmt.Errorf("starting smartpost: %w", err)
		}

		logging.Info("Starting SmartPost AI", "version", version, "port", cfg.ServerPort)
		if err := agg.Run(cmd.Context()); err != nil {
			return err
		}
		logging.Info("SmartPost AI stopped gracefully")
		return nil
	},
}
