/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ssargent/logan/pkg/config"
	"github.com/ssargent/logan/pkg/observability"
)

type contextKey string

const sessionKey contextKey = "session"

// session is what PersistentPreRunE hands to subcommands
type session struct {
	config *config.Config
	logger zerolog.Logger
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "logan",
	Short: "Logan - diagnostic log container decoder",
	Long: `Logan decodes encrypted, compressed diagnostic-log containers pulled from
devices into annotated plain-text reports with a sync-failure summary.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadSession(cmd)
		if err != nil {
			return err
		}
		cmd.SetContext(context.WithValue(cmd.Context(), sessionKey, rt))
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default is $HOME/.config/logan/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (trace, debug, info, warn, error)")
}

// loadSession reads the config file and builds the logger. An explicit
// --config must exist; the default path is optional.
func loadSession(cmd *cobra.Command) (*session, error) {
	configPath, _ := cmd.Flags().GetString("config")
	explicit := configPath != ""
	if !explicit {
		configPath = config.GetDefaultConfigPath()
	}

	cfg := config.DefaultConfig()
	if explicit || config.ConfigExists(configPath) {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	level := cfg.Logging.Level
	if flagLevel, _ := cmd.Flags().GetString("log-level"); flagLevel != "" {
		level = flagLevel
	}

	return &session{
		config: cfg,
		logger: observability.InitLogger("logan", level, cmd.ErrOrStderr()),
	}, nil
}

// sessionFrom returns the session stored by PersistentPreRunE
func sessionFrom(cmd *cobra.Command) (*session, error) {
	if cmd.Context() != nil {
		if rt, ok := cmd.Context().Value(sessionKey).(*session); ok {
			return rt, nil
		}
	}
	return nil, fmt.Errorf("session not found in context")
}
