package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/keerthikaa27/factory-order-dashboard/config"
	"github.com/keerthikaa27/factory-order-dashboard/logging"
)

var Version = "dev"

var (
	configPath string
	apiBaseURL string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "factorydash",
	Short: "Factory order dashboard and CLI",
	Long: `factorydash serves the factory order dashboard to browsers and offers
the same searches, open-order listing and sales analytics from a terminal.

Examples:
  factorydash serve --config factorydash.yaml
  factorydash login --email ops@example.com
  factorydash search PO-1234
  factorydash open --today
  factorydash analytics --fy 2024-2025`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "factorydash", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "factorydash.yaml", "path to config file")
	rootCmd.PersistentFlags().StringVar(&apiBaseURL, "api", "", "backend base URL (overrides config and "+config.EnvAPIBaseURL+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(analyticsCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file and applies the command-line overrides.
func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if apiBaseURL != "" {
		cfg.API.BaseURL = strings.TrimRight(apiBaseURL, "/")
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
