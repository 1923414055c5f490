/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ssargent/logan/pkg/codec"
	"github.com/ssargent/logan/pkg/config"
	"github.com/ssargent/logan/pkg/entry"
	"github.com/ssargent/logan/pkg/format"
	"github.com/ssargent/logan/pkg/logan"
	"github.com/ssargent/logan/pkg/metrics"
)

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse <container>",
	Short: "Decode a container into a text report",
	Long: `Decode a diagnostic-log container and write an annotated text report.

The report holds one formatted line per record, followed by the sync-center
lines, the detected error lines and file statistics.

Examples:
  logan parse device.log --key=hex:30313233343536373839616263646566 --iv=fedcba9876543210
  logan parse device.log --out-dir=./reports --mode=lenient --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := sessionFrom(cmd)
		if err != nil {
			return err
		}
		applyParseFlags(cmd, s.config)
		asJSON, _ := cmd.Flags().GetBool("json")
		withChunks, _ := cmd.Flags().GetBool("chunks")
		name, _ := cmd.Flags().GetString("name")

		res, err := runParse(s.config, s.logger, args[0], name)
		if err != nil {
			return err
		}
		if !withChunks {
			res.Chunks = nil
		}
		if err := printResult(cmd.OutOrStdout(), res, asJSON); err != nil {
			return err
		}
		if !res.Status {
			return fmt.Errorf("%s", res.Message)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().String("key", "", "AES key (16, 24 or 32 bytes; prefix with hex: for hex)")
	parseCmd.Flags().String("iv", "", "AES IV (16 bytes; prefix with hex: for hex)")
	parseCmd.Flags().String("out-dir", "", "Directory for the report (default is the working directory)")
	parseCmd.Flags().String("name", "", "Report file name (default is <input>_result)")
	parseCmd.Flags().String("mode", "", "Record parse failure handling: strict or lenient")
	parseCmd.Flags().String("tz", "", "IANA time zone for report timestamps")
	parseCmd.Flags().String("metrics-textfile", "", "Write Prometheus metrics to this file after the parse")
	parseCmd.Flags().Bool("json", false, "Print the result as JSON")
	parseCmd.Flags().Bool("chunks", false, "Include decoded chunks in JSON output")
}

// applyParseFlags overlays explicitly set flags on the config
func applyParseFlags(cmd *cobra.Command, cfg *config.Config) {
	overrides := map[string]*string{
		"key":              &cfg.Key,
		"iv":               &cfg.IV,
		"out-dir":          &cfg.OutputDir,
		"mode":             &cfg.Mode,
		"tz":               &cfg.TimeZone,
		"metrics-textfile": &cfg.Metrics.Textfile,
	}
	for name, target := range overrides {
		if cmd.Flags().Changed(name) {
			*target, _ = cmd.Flags().GetString(name)
		}
	}
}

// newParser builds a parser from the config
func newParser(cfg *config.Config, logger zerolog.Logger, m *metrics.Metrics) (*logan.Parser, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	c, err := codec.NewFromStrings(cfg.Key, cfg.IV)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return logan.NewParser(logan.ParserConfig{
		Decoder:      logan.NewFrameDecoder(c, logger, m),
		NewFormatter: func() logan.Formatter { return format.New(loc) },
		Logger:       logger,
		Metrics:      m,
	}), nil
}

// runParse parses one container. The error covers configuration problems;
// parse failures are reported in the Result.
func runParse(cfg *config.Config, logger zerolog.Logger, input, name string) (*logan.Result, error) {
	m := metrics.New()
	parser, err := newParser(cfg, logger, m)
	if err != nil {
		return nil, err
	}
	mode, err := entry.ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}

	res := parser.ParseFile(input, logan.Options{
		OutputDir: cfg.OutputDir,
		FileName:  name,
		Mode:      mode,
	})

	if cfg.Metrics.Textfile != "" {
		if err := m.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logger.Warn().Err(err).Str("path", cfg.Metrics.Textfile).Msg("failed to write metrics textfile")
		}
	}
	return res, nil
}

func printResult(w io.Writer, res *logan.Result, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Fprintf(w, "Status:      %t\n", res.Status)
	fmt.Fprintf(w, "Message:     %s\n", res.Message)
	fmt.Fprintf(w, "Run ID:      %s\n", res.RunID)
	if res.OutFile != "" {
		fmt.Fprintf(w, "Report:      %s\n", res.OutFile)
	}
	fmt.Fprintf(w, "Frames:      %d\n", res.Stats.Frames)
	fmt.Fprintf(w, "Entries:     %d (%d placeholders)\n", res.Stats.Entries, res.Stats.Placeholders)
	fmt.Fprintf(w, "Errors:      %s\n", res.FormatErrors)
	fmt.Fprintf(w, "Duration:    %s\n", time.Duration(res.Stats.ProcessingSeconds*float64(time.Second)).Round(time.Millisecond))
	return nil
}
