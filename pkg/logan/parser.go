// Package logan decodes diagnostic-log containers into annotated text reports.
//
// A parse runs one synchronous, single pass:
//
//	container -> frames -> decrypt+inflate -> join -> tokenize -> format -> classify -> report
//
// Per-frame and per-record faults become visible placeholder lines in the
// report. Only an unreadable input, an unwritable output or, in strict mode,
// a malformed record fail the parse. The input is read into memory whole, so
// the largest container that can be processed is bounded by available memory.
package logan

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/logan/pkg/classify"
	"github.com/ssargent/logan/pkg/entry"
	"github.com/ssargent/logan/pkg/errs"
	"github.com/ssargent/logan/pkg/format"
	"github.com/ssargent/logan/pkg/metrics"
	"github.com/ssargent/logan/pkg/report"
)

// ResultSuffix is appended to the input name to form the default report name.
const ResultSuffix = "_result"

// Formatter renders one record as a report line and exposes the device and
// app metadata observed so far.
type Formatter interface {
	Format(e entry.Entry) (string, error)
	Metadata() format.Metadata
}

// ParserConfig wires a Parser's collaborators.
type ParserConfig struct {
	Decoder      Decoder
	NewFormatter func() Formatter // Called once per parse; defaults to format.New(time.UTC)
	SyncMarkers  []string         // Defaults to classify.DefaultSyncMarkers
	Logger       zerolog.Logger
	Metrics      *metrics.Metrics
}

// Options control one parse.
type Options struct {
	OutputDir string     // Directory for the report; defaults to the working directory
	FileName  string     // Report file name; defaults to <input base name>_result
	Mode      entry.Mode // Record parse failure handling; defaults to strict
}

// Parser runs parses. Each call works on its own buffers and accumulators,
// so a Parser may be shared.
type Parser struct {
	decoder      Decoder
	newFormatter func() Formatter
	markers      []string
	logger       zerolog.Logger
	metrics      *metrics.Metrics
	now          func() time.Time
}

// NewParser creates a parser.
func NewParser(config ParserConfig) *Parser {
	p := &Parser{
		decoder:      config.Decoder,
		newFormatter: config.NewFormatter,
		markers:      config.SyncMarkers,
		logger:       config.Logger,
		metrics:      config.Metrics,
		now:          time.Now,
	}
	if p.newFormatter == nil {
		p.newFormatter = func() Formatter { return format.New(time.UTC) }
	}
	if p.markers == nil {
		p.markers = classify.DefaultSyncMarkers
	}
	return p
}

// ParseFile reads the container at path and writes its report.
func (p *Parser) ParseFile(path string, opts Options) *Result {
	start := p.now()
	res := p.newResult()

	buf, err := os.ReadFile(path)
	if err != nil {
		p.logger.Error().Str("run_id", res.RunID).Err(err).Msg("cannot read input")
		return p.finish(res, start, errs.Wrap(fmt.Errorf("read input: %w", err), errs.CategoryIOFatal))
	}
	if opts.FileName == "" {
		opts.FileName = filepath.Base(path) + ResultSuffix
	}
	return p.parse(res, start, buf, opts)
}

// ParseBytes writes the report for an in-memory container. name is used to
// derive the report file name when opts.FileName is empty.
func (p *Parser) ParseBytes(name string, buf []byte, opts Options) *Result {
	start := p.now()
	res := p.newResult()
	if opts.FileName == "" {
		opts.FileName = filepath.Base(name) + ResultSuffix
	}
	return p.parse(res, start, buf, opts)
}

func (p *Parser) newResult() *Result {
	return &Result{RunID: ksuid.New().String(), FormatErrors: "[]"}
}

func (p *Parser) parse(res *Result, start time.Time, buf []byte, opts Options) *Result {
	logger := p.logger.With().Str("run_id", res.RunID).Logger()
	res.Stats.OriginalSize = int64(len(buf))

	outDir := opts.OutputDir
	if outDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return p.finish(res, start, errs.Wrap(err, errs.CategoryIOFatal))
		}
		outDir = wd
	}
	if info, err := os.Stat(outDir); err != nil || !info.IsDir() {
		return p.finish(res, start, errs.Wrap(fmt.Errorf("output path does not exist: %s", outDir), errs.CategoryIOFatal))
	}
	outPath := filepath.Join(outDir, opts.FileName)

	chunks, err := p.decoder.DecodeContainer(buf)
	if err != nil {
		return p.finish(res, start, errs.Wrap(err, errs.CategoryContainerFormat))
	}
	chunks = entry.NormalizeChunks(chunks)
	res.Chunks = chunks
	res.Stats.Frames = len(chunks)

	out, err := os.Create(outPath)
	if err != nil {
		return p.finish(res, start, errs.Wrap(fmt.Errorf("create output: %w", err), errs.CategoryIOFatal))
	}
	res.OutFile = outPath

	err = p.writeReport(res, start, out, bytes.Join(chunks, nil), opts.Mode, logger)
	if cerr := out.Close(); err == nil && cerr != nil {
		err = errs.Wrap(fmt.Errorf("close output: %w", cerr), errs.CategoryIOFatal)
	}
	if err != nil {
		return p.finish(res, start, err)
	}
	if len(chunks) == 0 {
		logger.Warn().Int64("size", res.Stats.OriginalSize).Msg(MessageNotLogan)
		return p.finish(res, start, nil)
	}

	logger.Info().
		Str("out_file", outPath).
		Int("frames", res.Stats.Frames).
		Int("entries", res.Stats.Entries).
		Int("placeholders", res.Stats.Placeholders).
		Int("descriptors", len(res.Errors)).
		Msg("report written")
	return p.finish(res, start, nil)
}

// writeReport streams the body and appends the accumulated sections.
func (p *Parser) writeReport(res *Result, start time.Time, w io.Writer, stream []byte, mode entry.Mode, logger zerolog.Logger) error {
	rw := report.NewWriter(w)
	if err := rw.WriteHeader(res.OutFile); err != nil {
		return errs.Wrap(err, errs.CategoryIOFatal)
	}

	formatter := p.newFormatter()
	classifier := classify.NewWithMarkers(p.markers)
	tok := entry.NewTokenizer(stream, mode)

	for tok.Next() {
		e := tok.Entry()
		line, err := formatter.Format(e)
		if err != nil {
			if mode == entry.ModeLenient {
				logger.Debug().Err(err).Msg("entry skipped")
				continue
			}
			closeOnAbort(rw, logger)
			return errs.Wrap(fmt.Errorf("format entry: %w", err), errs.CategoryEntryParse)
		}
		if err := rw.WriteLine(line); err != nil {
			return errs.Wrap(err, errs.CategoryIOFatal)
		}
		classifier.Observe(line)

		res.Stats.Entries++
		if e.IsPlaceholder() {
			res.Stats.Placeholders++
		}
		p.metrics.RecordEntry(e.IsPlaceholder())
	}
	if err := tok.Err(); err != nil {
		closeOnAbort(rw, logger)
		return errs.Wrap(err, errs.CategoryEntryParse)
	}

	if err := rw.WriteSections(classifier.SyncLines(), classifier.ErrorLines()); err != nil {
		return errs.Wrap(err, errs.CategoryIOFatal)
	}
	elapsed := p.now().Sub(start)
	if err := rw.WriteStatistics(report.Statistics{OriginalSize: res.Stats.OriginalSize, Duration: elapsed}); err != nil {
		return errs.Wrap(err, errs.CategoryIOFatal)
	}
	if err := rw.Close(); err != nil {
		return errs.Wrap(err, errs.CategoryIOFatal)
	}

	res.AppInfo = formatter.Metadata()
	set := classifier.Errors()
	res.Errors = set.Descriptors()
	// json.Marshal would re-escape HTML characters in the encoded set
	raw, err := set.MarshalJSON()
	if err != nil {
		return err
	}
	res.FormatErrors = string(raw)
	if res.ErrorsDigest, err = set.Digest(); err != nil {
		return err
	}
	return nil
}

// closeOnAbort flushes what was written before a strict-mode abort. The
// abort error is what the caller sees, so a flush failure is only logged.
func closeOnAbort(rw *report.Writer, logger zerolog.Logger) {
	if err := rw.Close(); err != nil {
		logger.Debug().Err(err).Msg("flush after abort failed")
	}
}

func (p *Parser) finish(res *Result, start time.Time, err error) *Result {
	res.Stats.ProcessingSeconds = p.now().Sub(start).Seconds()
	switch {
	case err != nil:
		p.logger.Error().Str("run_id", res.RunID).Str("category", string(errs.CategoryOf(err))).Err(err).Msg("parse failed")
		res.fail(fmt.Sprintf("log parse failed: %v", err))
	case res.Stats.Frames == 0:
		res.fail(MessageNotLogan)
	default:
		res.Status = true
		res.Message = MessageSuccess
	}
	p.metrics.RecordParse(res.Status, res.Stats.OriginalSize, len(res.Errors), p.now().Sub(start))
	return res
}
