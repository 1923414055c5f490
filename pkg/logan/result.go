package logan

import (
	"github.com/ssargent/logan/pkg/classify"
	"github.com/ssargent/logan/pkg/format"
)

const (
	MessageSuccess  = "log parsed successfully"
	MessageNotLogan = "no recognizable container data"
)

// Stats summarizes one parse.
type Stats struct {
	OriginalSize      int64   `json:"original_size_bytes"`
	ProcessingSeconds float64 `json:"processing_duration_seconds"`
	Frames            int     `json:"frames"`
	Entries           int     `json:"entries"`
	Placeholders      int     `json:"placeholders"`
}

// Result is what a parse hands back to its caller.
type Result struct {
	Status       bool                       `json:"status"`
	Message      string                     `json:"message"`
	RunID        string                     `json:"run_id"`
	Chunks       [][]byte                   `json:"unformat_data,omitempty"`
	AppInfo      format.Metadata            `json:"app_info"`
	OutFile      string                     `json:"out_file,omitempty"`
	FormatErrors string                     `json:"format_errors"`
	ErrorsDigest string                     `json:"errors_digest,omitempty"`
	Stats        Stats                      `json:"stats"`
	Errors       []classify.ErrorDescriptor `json:"-"`
}

func (r *Result) fail(message string) *Result {
	r.Status = false
	r.Message = message
	if r.FormatErrors == "" {
		r.FormatErrors = "[]"
	}
	return r
}
