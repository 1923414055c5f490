// Package format renders decoded records as report lines and collects the
// device and app metadata the records reveal along the way.
package format

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ssargent/logan/pkg/entry"
)

// TimeLayout is the timestamp layout that starts every rendered line.
const TimeLayout = "2006-01-02 15:04:05.000"

// Metadata describes the device and app that produced a container.
type Metadata struct {
	DeviceName    string `json:"device_name" yaml:"device_name"`
	UserID        string `json:"user_id" yaml:"user_id"`
	SystemVersion string `json:"system_version" yaml:"system_version"`
	AppName       string `json:"app_name" yaml:"app_name"`
	Platform      string `json:"platform" yaml:"platform"`
	VersionName   string `json:"version_name" yaml:"version_name"`
	VersionCode   string `json:"version_code" yaml:"version_code"`
	TimeZone      string `json:"time_zone" yaml:"time_zone"`
}

// field maps the keys seen in device info records to Metadata fields.
func (m *Metadata) field(key string) *string {
	switch key {
	case "deviceName", "device_name":
		return &m.DeviceName
	case "userId", "user_id":
		return &m.UserID
	case "systemVersion", "system_version":
		return &m.SystemVersion
	case "appName", "app_name":
		return &m.AppName
	case "platform":
		return &m.Platform
	case "versionName", "version_name":
		return &m.VersionName
	case "versionCode", "version_code":
		return &m.VersionCode
	case "timeZone", "time_zone":
		return &m.TimeZone
	}
	return nil
}

// Formatter is the default line renderer.
type Formatter struct {
	loc  *time.Location
	meta Metadata
}

// New creates a formatter that renders record times in loc (UTC when nil).
func New(loc *time.Location) *Formatter {
	if loc == nil {
		loc = time.UTC
	}
	return &Formatter{loc: loc}
}

// Format renders one record and folds any metadata it carries into Metadata.
func (f *Formatter) Format(e entry.Entry) (string, error) {
	inner := e.DecodeInner()
	f.observe(inner)

	var b strings.Builder
	if e.Time > 0 {
		b.WriteString(time.UnixMilli(e.Time).In(f.loc).Format(TimeLayout))
	} else {
		b.WriteString(strings.Repeat("-", len(TimeLayout)))
	}
	fmt.Fprintf(&b, " %s", levelOrDash(inner.Level))
	if e.Thread != "" || e.ThreadID != 0 {
		fmt.Fprintf(&b, " [%s:%d]", e.Thread, e.ThreadID)
	}
	if e.Main {
		b.WriteString(" [main]")
	}
	if inner.Component != "" {
		fmt.Fprintf(&b, " %s", inner.Component)
	}
	if inner.Tag != "" {
		fmt.Fprintf(&b, " %s", inner.Tag)
	}
	if inner.Code != "" {
		fmt.Fprintf(&b, " (%s)", inner.Code)
	}
	if e.IsPlaceholder() {
		fmt.Fprintf(&b, " <flag=%d>", e.Flag)
	}
	b.WriteString(" ")
	b.WriteString(strings.ReplaceAll(inner.Message, "\n", "\\n"))
	return b.String(), nil
}

// Metadata returns the metadata observed so far.
func (f *Formatter) Metadata() Metadata {
	return f.meta
}

func (f *Formatter) observe(inner entry.Inner) {
	if inner.TimeZone != "" {
		f.meta.TimeZone = inner.TimeZone
	}
	msg := strings.TrimSpace(inner.Message)
	if !strings.HasPrefix(msg, "{") {
		return
	}
	var fields map[string]any
	if err := json.Unmarshal([]byte(msg), &fields); err != nil {
		return
	}
	for k, v := range fields {
		field := f.meta.field(k)
		if field == nil || v == nil {
			continue
		}
		*field = fmt.Sprint(v)
	}
}

func levelOrDash(level string) string {
	if level == "" {
		return "-"
	}
	return level
}
