/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ssargent/logan/pkg/api"
	"github.com/ssargent/logan/pkg/entry"
	"github.com/ssargent/logan/pkg/metrics"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the report API server",
	Long: `Start an HTTP server that turns uploaded containers into reports.

POST the raw container to /api/v1/reports (optionally naming it with an
X-Filename header) to receive the parse result as JSON. Prometheus metrics
are served on /metrics.

Examples:
  logan serve --port=8080 --api-key=mysecretkey --out-dir=./reports`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := sessionFrom(cmd)
		if err != nil {
			return err
		}
		cfg := s.config
		applyParseFlags(cmd, cfg)
		if cmd.Flags().Changed("port") {
			cfg.Server.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("bind") {
			cfg.Server.Bind, _ = cmd.Flags().GetString("bind")
		}
		if cmd.Flags().Changed("api-key") {
			cfg.Server.APIKey, _ = cmd.Flags().GetString("api-key")
		}
		if cmd.Flags().Changed("allowed-origin") {
			cfg.Server.AllowedOrigins, _ = cmd.Flags().GetStringSlice("allowed-origin")
		}
		withChunks, _ := cmd.Flags().GetBool("chunks")

		m := metrics.New()
		parser, err := newParser(cfg, s.logger, m)
		if err != nil {
			return err
		}
		mode, err := entry.ParseMode(cfg.Mode)
		if err != nil {
			return err
		}
		if cfg.Server.APIKey == "" {
			s.logger.Warn().Msg("no api key configured, report uploads are unauthenticated")
		}

		server := api.NewServer(parser, api.ServerConfig{
			Port:           cfg.Server.Port,
			Bind:           cfg.Server.Bind,
			APIKey:         cfg.Server.APIKey,
			OutputDir:      cfg.OutputDir,
			Mode:           mode,
			MaxUploadBytes: cfg.Server.MaxUploadBytes,
			IncludeChunks:  withChunks,
			AllowedOrigins: cfg.Server.AllowedOrigins,
		}, m, s.logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return server.ListenAndServe(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind to")
	serveCmd.Flags().String("api-key", "", "API key required in X-API-Key for uploads")
	serveCmd.Flags().String("key", "", "AES key (16, 24 or 32 bytes; prefix with hex: for hex)")
	serveCmd.Flags().String("iv", "", "AES IV (16 bytes; prefix with hex: for hex)")
	serveCmd.Flags().String("out-dir", "", "Directory for reports (default is the working directory)")
	serveCmd.Flags().String("mode", "", "Record parse failure handling: strict or lenient")
	serveCmd.Flags().String("tz", "", "IANA time zone for report timestamps")
	serveCmd.Flags().Bool("chunks", false, "Include decoded chunks in responses")
	serveCmd.Flags().StringSlice("allowed-origin", nil, "CORS origin allowed to upload (repeatable)")
}
