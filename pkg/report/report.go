// Package report writes the text report: a usage header, the streamed body,
// the filtered sections and a statistics block, always in that order.
package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"time"
)

const grepUsage = `grep usage:
-i: ignore case while searching
-n: show the line number of each result
-c: count matching lines (lines, not occurrences)
-o: print only the matching part, one match per line
-v: print lines that do NOT contain the pattern
-w: match whole words only
-Ax: include x lines after each match (A: after)
-Bx: include x lines before each match (B: before)
-Cx: include x lines before and after each match (C: context)
-e: combine several patterns (logical or)

`

const (
	syncBanner  = "\n\n\n\n*********************************************SYNC CENTER LOG FILTER******************\n\n"
	errorBanner = "\n\n\n\n*********************************************ERROR INFO******************\n\n"
	statsBanner = "\n\n*********************************************FILE STATISTICS******************\n"
)

var ErrOutOfOrder = errors.New("report: section written out of order")

type stage int

const (
	stageNew stage = iota
	stageBody
	stageSections
	stageDone
)

// Statistics are computed once, after the body pass.
type Statistics struct {
	OriginalSize int64         `json:"original_size_bytes"`
	Duration     time.Duration `json:"-"`
}

// Seconds returns the processing duration in seconds.
func (s Statistics) Seconds() float64 {
	return s.Duration.Seconds()
}

// Writer emits the report sections. Methods must be called in section
// order; calling one out of order returns ErrOutOfOrder.
type Writer struct {
	w     *bufio.Writer
	stage stage
	lines int
	err   error
}

// NewWriter wraps w. Callers must call Close to flush.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteHeader writes the usage block naming outputPath.
func (r *Writer) WriteHeader(outputPath string) error {
	if err := r.advance(stageNew, stageBody); err != nil {
		return err
	}
	r.printf("cat '%s'\n\n", outputPath)
	r.printf("%s", grepUsage)
	return r.err
}

// WriteLine appends one body line.
func (r *Writer) WriteLine(line string) error {
	if r.stage != stageBody {
		return ErrOutOfOrder
	}
	r.printf("%s\n", line)
	r.lines++
	return r.err
}

// WriteSections writes the sync-center and error sections. It closes the body.
func (r *Writer) WriteSections(syncLines, errorLines []string) error {
	if err := r.advance(stageBody, stageSections); err != nil {
		return err
	}
	r.printf("%s", syncBanner)
	for _, l := range syncLines {
		r.printf("%s\n", l)
	}
	r.printf("%s", errorBanner)
	for _, l := range errorLines {
		r.printf("%s\n", l)
	}
	return r.err
}

// WriteStatistics writes the final block.
func (r *Writer) WriteStatistics(stats Statistics) error {
	if err := r.advance(stageSections, stageDone); err != nil {
		return err
	}
	r.printf("%s", statsBanner)
	r.printf("\nFile size: %s", FormatSize(stats.OriginalSize))
	r.printf("\nProcessing time: %.2f s\n", stats.Seconds())
	return r.err
}

// Lines returns the number of body lines written.
func (r *Writer) Lines() int {
	return r.lines
}

// Close flushes buffered output. It does not close the underlying writer.
func (r *Writer) Close() error {
	if r.err != nil {
		return r.err
	}
	return r.w.Flush()
}

func (r *Writer) advance(from, to stage) error {
	if r.stage != from {
		return ErrOutOfOrder
	}
	r.stage = to
	return nil
}

func (r *Writer) printf(format string, args ...any) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, format, args...)
}
