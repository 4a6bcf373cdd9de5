package commands

import (
	"fmt"
	"os"

	"blogcms/config"
	"blogcms/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	envFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "blogcms",
	Short: "Blog CMS API server and dashboard client",
	Long: `blogcms serves the blog REST API (posts, categories, JWT login) and ships a
small command line client that talks to it the way the dashboard does.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(envFile); err != nil && cmd.Flags().Changed("env-file") {
			logger.Warn("Could not load env file", "path", envFile, "error", err.Error())
		}
		if logLevel != "" {
			logger.SetLevel(logLevel)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// applyLogLevel uses the configured LOG_LEVEL unless --log-level was given.
func applyLogLevel(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("log-level") {
		return
	}
	logger.SetLevel(cfg.LogLevel)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file to load before reading configuration")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides LOG_LEVEL")
}
