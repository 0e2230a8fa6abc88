package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gurulost/FitnessForge/internal/logging"
)

const (
	logLevelKey   = "log.level"
	logFormatKey  = "log.format"
	logNoColorKey = "log.no_color"
)

func newRootCommand() *cobra.Command {
	logging.InitDefault()

	v := viper.New()
	rootCmd := &cobra.Command{
		Use:   "fitnessforge",
		Short: "FitnessForge API server with CSRF protection and rate limiting",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logging.Init(logging.Options{
				Level:   v.GetString(logLevelKey),
				Format:  v.GetString(logFormatKey),
				NoColor: v.GetBool(logNoColorKey),
			})
		},
		RunE: runServe,
	}

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	_ = v.BindPFlag(logLevelKey, rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.PersistentFlags().String("log-format", logging.FormatConsole, "Log format (console, json)")
	_ = v.BindPFlag(logFormatKey, rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.PersistentFlags().Bool("no-color", false, "Disable color output")
	_ = v.BindPFlag(logNoColorKey, rootCmd.PersistentFlags().Lookup("no-color"))

	v.SetEnvPrefix("FITNESSFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newGenerateSecretCommand())
	return rootCmd
}
