package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ObiAU/smartpost/internal/config"
	"github.com/ObiAU/smartpost/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:   "smartpost",
	Short: "Trending topic discovery and AI blog generation",
	Long: `smartpost finds trending topics for a business niche from NewsAPI and RSS feeds,
researches them and drafts SEO blog posts with OpenAI.

Run "smartpost serve" to start the HTTP API.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to YAML config file (overrides SMARTPOST_CONFIG)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(trendingCmd)
	rootCmd.AddCommand(researchCmd)
	rootCmd.AddCommand(generateCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "smartpost %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

// loadConfig loads the configuration and starts logging. Callers must defer
// logging.Close.
func loadConfig() (*config.Config, error) {
	if flagConfig != "" {
		if err := os.Setenv("SMARTPOST_CONFIG", flagConfig); err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := logging.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
