package commands

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/alimon-app/mise/internal/config"
	"github.com/alimon-app/mise/pkg/logger"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "mise",
	Short: "Mise - meal prep and nutrition tracker",
	Long: `Mise tracks what you eat against daily nutrient goals and keeps a running
inventory of ingredients and prepared recipes.

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override LOG_LEVEL")
}

// setup loads configuration and builds the logger every command shares.
func setup() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, logger.New(cfg.LogLevel), nil
}

// openDatabase connects to DATABASE_URL.
func openDatabase(cfg *config.Config, l *logrus.Logger) (*config.Database, error) {
	if err := cfg.RequireDatabase(); err != nil {
		return nil, err
	}
	return config.NewDatabase(cfg.DatabaseURL, l)
}
