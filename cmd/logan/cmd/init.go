/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/logan/pkg/codec"
	"github.com/ssargent/logan/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a logan configuration file",
	Long: `Write a configuration file holding the container key and IV and a
generated API key for the report server.

Examples:
  logan init --key=0123456789abcdef --iv=fedcba9876543210
  logan init --key=hex:30313233343536373839616263646566 --iv=fedcba9876543210 --config=./logan.yaml --force`,
	// The file being written may not exist yet
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		key, _ := cmd.Flags().GetString("key")
		iv, _ := cmd.Flags().GetString("iv")
		force, _ := cmd.Flags().GetBool("force")
		configPath, _ := cmd.Flags().GetString("config")
		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		cfg, err := initializeConfig(configPath, key, iv, force)
		if err != nil {
			return err
		}

		cmd.Printf("Configuration written to %s\n", configPath)
		cmd.Printf("Server API key: %s\n", cfg.Server.APIKey)
		cmd.Printf("\nYou can now parse a container with:\n")
		cmd.Printf("  logan parse <container> --config=%s\n", configPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().String("key", "", "AES key (16, 24 or 32 bytes; prefix with hex: for hex)")
	initCmd.Flags().String("iv", "", "AES IV (16 bytes; prefix with hex: for hex)")
	initCmd.Flags().Bool("force", false, "Overwrite an existing configuration")
	for _, name := range []string{"key", "iv"} {
		if err := initCmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}
}

// initializeConfig checks the key material and writes a fresh config
func initializeConfig(configPath, key, iv string, force bool) (*config.Config, error) {
	if config.ConfigExists(configPath) && !force {
		return nil, fmt.Errorf("config already exists at %s, use --force to overwrite", configPath)
	}
	if _, err := codec.NewFromStrings(key, iv); err != nil {
		return nil, fmt.Errorf("invalid key or iv: %w", err)
	}
	return config.BootstrapConfig(configPath, key, iv)
}
