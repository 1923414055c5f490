// Package entry defines the decoded log record and splits decoded byte
// streams into records.
package entry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// PlaceholderFlag marks records synthesized in place of data that could not be decoded.
const PlaceholderFlag = 4

// Entry is one JSON record recovered from a decoded stream.
type Entry struct {
	Content  string `json:"c"` // Inner message, itself a JSON object serialized as a string
	Flag     int    `json:"f"` // Record type flag
	Time     int64  `json:"l"` // Local time in milliseconds since the epoch
	Thread   string `json:"n"` // Thread name
	ThreadID int64  `json:"i"` // Thread id
	Main     bool   `json:"m"` // Written from the main thread
}

// UnmarshalJSON accepts any JSON object. Fields of an unexpected type are
// converted where a reading exists (1.0 as 1, 1 as true, "3" as 3) and left
// zero otherwise.
func (e *Entry) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return err
	}
	*e = Entry{
		Content:  looseString(fields["c"]),
		Flag:     int(looseInt(fields["f"])),
		Time:     looseInt(fields["l"]),
		Thread:   looseString(fields["n"]),
		ThreadID: looseInt(fields["i"]),
		Main:     looseBool(fields["m"]),
	}
	return nil
}

func looseString(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		// Objects and arrays keep their JSON text so DecodeInner can read them.
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func looseInt(v any) int64 {
	switch v := v.(type) {
	case json.Number:
		return numberToInt(string(v))
	case string:
		return numberToInt(v)
	case bool:
		if v {
			return 1
		}
	}
	return 0
}

func numberToInt(s string) int64 {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) >= math.MaxInt64 {
		return 0
	}
	return int64(f)
}

func looseBool(v any) bool {
	switch v := v.(type) {
	case bool:
		return v
	case json.Number:
		f, err := v.Float64()
		return err == nil && f != 0
	case string:
		b, err := strconv.ParseBool(v)
		return err == nil && b
	}
	return false
}

// Inner is the structured message carried in Entry.Content.
type Inner struct {
	Component string `json:"fc"`
	Level     string `json:"l"`
	Tag       string `json:"t"`
	TimeZone  string `json:"tz"`
	Message   string `json:"m"`
	Code      string `json:"cd,omitempty"`
	Time      string `json:"time,omitempty"`
}

// IsPlaceholder reports whether e was synthesized after a decode failure.
func (e Entry) IsPlaceholder() bool {
	return e.Flag == PlaceholderFlag && e.Time == 0 && e.ThreadID == 0 && e.Thread == ""
}

// DecodeInner parses Content. Content that is not a JSON object is returned
// as the message of an otherwise empty Inner.
func (e Entry) DecodeInner() Inner {
	var in Inner
	if err := json.Unmarshal([]byte(e.Content), &in); err != nil {
		return Inner{Message: e.Content}
	}
	return in
}

// Placeholder builds an entry carrying message in its inner message field,
// with the flag set to PlaceholderFlag and every other field zeroed.
func Placeholder(message string) Entry {
	inner, err := json.Marshal(Inner{Message: message})
	if err != nil {
		inner = []byte(`{"fc":"","l":"","t":"","tz":"","m":""}`)
	}
	return Entry{Content: string(inner), Flag: PlaceholderFlag}
}

// PlaceholderLine is Placeholder encoded as one newline-terminated JSON line,
// shaped so the tokenizer picks it up like any real record.
func PlaceholderLine(message string) []byte {
	line, err := json.Marshal(Placeholder(message))
	if err != nil {
		line = []byte(fmt.Sprintf(`{"c":"","f":%d,"l":0,"n":"","i":0,"m":false}`, PlaceholderFlag))
	}
	return append(line, '\n')
}

// Line encodes e as one newline-terminated JSON line.
func (e Entry) Line() ([]byte, error) {
	line, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return append(line, '\n'), nil
}
