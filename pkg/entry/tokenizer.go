package entry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"golang.org/x/text/encoding/unicode"
)

// Mode selects how a record that fails to parse is handled.
type Mode string

const (
	// ModeStrict stops tokenization at the first malformed record.
	ModeStrict Mode = "strict"
	// ModeLenient substitutes a placeholder and keeps going.
	ModeLenient Mode = "lenient"
)

// ParseMode validates a mode name; the empty string selects ModeStrict.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeStrict:
		return ModeStrict, nil
	case ModeLenient, "ignore":
		return ModeLenient, nil
	default:
		return "", fmt.Errorf("unknown parse mode %q", s)
	}
}

var (
	// Matches within one line: from an opening brace through a "c" key to the
	// first closing brace followed by a newline.
	recordPattern = regexp.MustCompile(`\{.*?"c":.*?\}\n`)
	contentKey    = []byte(`{"c`)

	ErrMalformedRecord = errors.New("entry: malformed record")
)

// ParseError reports a record that is not valid JSON.
type ParseError struct {
	Offset int    // Byte offset of the record in the stream
	Raw    string // Record text
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("entry at offset %d: %v", e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrMalformedRecord) true for any ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrMalformedRecord
}

// ToValidUTF8 decodes b as UTF-8, replacing invalid sequences with U+FFFD.
func ToValidUTF8(b []byte) []byte {
	out, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return bytes.ToValidUTF8(b, []byte("�"))
	}
	return out
}

// NormalizeChunk cleans up one frame's decoded bytes before concatenation.
// A chunk that holds no record at all is replaced by a placeholder line that
// carries the chunk text, so unrecognizable data still shows up in the report.
func NormalizeChunk(chunk []byte) []byte {
	clean := ToValidUTF8(chunk)
	if !bytes.Contains(clean, contentKey) {
		return PlaceholderLine("Format Error:" + string(clean))
	}
	return clean
}

// NormalizeChunks applies NormalizeChunk to each chunk in frame order, except
// that a chunk following one that ended mid-line is kept as the tail of a
// record straddling the frame boundary.
func NormalizeChunks(chunks [][]byte) [][]byte {
	out := make([][]byte, len(chunks))
	open := false
	for i, c := range chunks {
		if open {
			out[i] = ToValidUTF8(c)
		} else {
			out[i] = NormalizeChunk(c)
		}
		if n := len(out[i]); n > 0 {
			open = out[i][n-1] != '\n'
		}
	}
	return out
}

// Tokenizer yields records from a concatenated decoded stream. Records may
// straddle frame boundaries, so the stream must be joined before tokenizing.
type Tokenizer struct {
	stream []byte
	mode   Mode
	spans  [][]int
	pos    int
	entry  Entry
	raw    string
	err    error
	bad    int
}

// NewTokenizer prepares a tokenizer over stream.
func NewTokenizer(stream []byte, mode Mode) *Tokenizer {
	if mode == "" {
		mode = ModeStrict
	}
	return &Tokenizer{
		stream: stream,
		mode:   mode,
		spans:  recordPattern.FindAllIndex(stream, -1),
	}
}

// Next advances to the next record. It returns false at the end of the
// stream or, in strict mode, at the first malformed record; check Err.
func (t *Tokenizer) Next() bool {
	if t.err != nil || t.pos >= len(t.spans) {
		return false
	}
	span := t.spans[t.pos]
	t.pos++

	t.raw = string(ToValidUTF8(t.stream[span[0]:span[1]]))
	var e Entry
	if err := json.Unmarshal([]byte(t.raw), &e); err != nil {
		if t.mode == ModeStrict {
			t.err = &ParseError{Offset: span[0], Raw: t.raw, Err: err}
			return false
		}
		t.bad++
		e = Placeholder("JSONDecodeError: " + t.raw)
	}
	t.entry = e
	return true
}

// Entry returns the record produced by the last call to Next.
func (t *Tokenizer) Entry() Entry {
	return t.entry
}

// Raw returns the matched text of the current record.
func (t *Tokenizer) Raw() string {
	return t.raw
}

// Err returns the strict-mode parse failure, if any.
func (t *Tokenizer) Err() error {
	return t.err
}

// Malformed returns the number of records replaced by placeholders in lenient mode.
func (t *Tokenizer) Malformed() int {
	return t.bad
}

// Len returns the number of candidate records found in the stream.
func (t *Tokenizer) Len() int {
	return len(t.spans)
}
