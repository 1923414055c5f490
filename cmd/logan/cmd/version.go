/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X .../cmd.Version=..."
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the logan version",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("logan %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
