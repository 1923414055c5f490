/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/logan/pkg/codec"
	"github.com/ssargent/logan/pkg/container"
)

const defaultFrameSize = 16 << 10

// packCmd represents the pack command
var packCmd = &cobra.Command{
	Use:   "pack <records.jsonl>",
	Short: "Build a container from JSON-lines records",
	Long: `Build a container from a file holding one JSON record per line.

Records are grouped into frames of roughly --frame-size bytes; each frame is
gzip-compressed and AES-CBC encrypted with the configured key and IV. A record
larger than the frame size gets a frame of its own.

Examples:
  logan pack records.jsonl -o device.log --key=0123456789abcdef --iv=fedcba9876543210`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := sessionFrom(cmd)
		if err != nil {
			return err
		}
		applyParseFlags(cmd, s.config)
		output, _ := cmd.Flags().GetString("output")
		frameSize, _ := cmd.Flags().GetInt("frame-size")
		noSeparator, _ := cmd.Flags().GetBool("no-separator")

		c, err := codec.NewFromStrings(s.config.Key, s.config.IV)
		if err != nil {
			return fmt.Errorf("invalid key or iv: %w", err)
		}

		in, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer in.Close()

		out, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		frames, err := packRecords(in, out, c, frameSize, !noSeparator)
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}

		s.logger.Info().Str("output", output).Int("frames", frames).Msg("container written")
		cmd.Printf("Wrote %d frames to %s\n", frames, output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(packCmd)

	packCmd.Flags().StringP("output", "o", "", "Container file to write (required)")
	packCmd.Flags().Int("frame-size", defaultFrameSize, "Target plaintext bytes per frame")
	packCmd.Flags().Bool("no-separator", false, "Omit the separator byte after each frame")
	packCmd.Flags().String("key", "", "AES key (16, 24 or 32 bytes; prefix with hex: for hex)")
	packCmd.Flags().String("iv", "", "AES IV (16 bytes; prefix with hex: for hex)")
	if err := packCmd.MarkFlagRequired("output"); err != nil {
		panic(err)
	}
}

// packRecords seals the lines of r into frames written to w and returns the
// frame count. Every line is newline-terminated in the output.
func packRecords(r io.Reader, w io.Writer, c *codec.FrameCodec, frameSize int, separator bool) (int, error) {
	if frameSize <= 0 {
		frameSize = defaultFrameSize
	}
	cw := container.NewWriter(w, container.WriterConfig{Separator: separator})
	br := bufio.NewReader(r)

	var (
		pending bytes.Buffer
		frames  int
	)
	flush := func() error {
		if pending.Len() == 0 {
			return nil
		}
		payload, err := c.Seal(pending.Bytes())
		if err != nil {
			return fmt.Errorf("seal frame %d: %w", frames, err)
		}
		if _, err := cw.Append(payload); err != nil {
			return fmt.Errorf("write frame %d: %w", frames, err)
		}
		frames++
		pending.Reset()
		return nil
	}

	for {
		line, err := br.ReadBytes('\n')
		if len(bytes.TrimSpace(line)) > 0 {
			if line[len(line)-1] != '\n' {
				line = append(line, '\n')
			}
			if pending.Len() > 0 && pending.Len()+len(line) > frameSize {
				if ferr := flush(); ferr != nil {
					return frames, ferr
				}
			}
			pending.Write(line)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return frames, fmt.Errorf("read records: %w", err)
		}
	}
	if err := flush(); err != nil {
		return frames, err
	}
	return frames, cw.Flush()
}
