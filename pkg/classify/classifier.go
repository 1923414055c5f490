// Package classify sorts report lines into sync-center activity and sync
// errors, detects make-time anomalies and collects deduplicated error
// descriptors.
package classify

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Category names one of the independent checks run against every line.
type Category string

const (
	CategorySyncCenter   Category = "sync_center"
	CategoryTransferStop Category = "transfer_stop"
	CategoryFetchControl Category = "fetch_control"
	CategoryPlatformSync Category = "platform_sync"
	CategoryFutureTime   Category = "future_make_time"
	CategoryBacklogTime  Category = "backlog_make_time"
)

const (
	lineTimeLayout = "2006-01-02 15:04:05.000"
	mkTimeLayout   = "2006-01-02 15:04:05"

	futureTolerance = time.Hour
	backlogLimit    = 4 * 7 * 24 * time.Hour

	transferSuccess = "SUCCESS"
	fetchSuccess    = "成功"
)

// DefaultSyncMarkers identify components of the time-sync subsystem.
var DefaultSyncMarkers = []string{
	"GDSP",
	"SyncCenter",
	"HMBaseTask",
	"SyncTimeUseCaseImpl",
	"ServerSyncTimeRepository",
	"DeviceXBuilder",
}

var (
	transferStopPattern = regexp.MustCompile(`Stop transfer (\d+), code=(\w+)`)
	fetchControlPattern = regexp.MustCompile(`fetchData control point:.*?, desc=(\S+)`)
	platformSyncPattern = regexp.MustCompile(`BaseJob\.swift \| GDSPDomain.*?(\S+?)\(code: (\d+)\).*?errorCode is: (\d+)\((.*?)\)`)
	mkTimePattern       = regexp.MustCompile(`(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3}).*?type:(\d+) MkTime\{(.*?)\}`)
	mkFieldPattern      = regexp.MustCompile(`(\w+)=(\d+)`)
)

// Classifier accumulates findings over the lines of one report. It is not
// safe for concurrent use.
type Classifier struct {
	markers    []string
	syncLines  []string
	errorLines []string
	errors     *ErrorSet
	counts     map[Category]int
}

// New creates a classifier using DefaultSyncMarkers.
func New() *Classifier {
	return NewWithMarkers(DefaultSyncMarkers)
}

// NewWithMarkers creates a classifier with a custom set of sync-center markers.
func NewWithMarkers(markers []string) *Classifier {
	return &Classifier{
		markers: append([]string(nil), markers...),
		errors:  NewErrorSet(),
		counts:  make(map[Category]int),
	}
}

// Observe runs every check against line and returns the categories it matched.
func (c *Classifier) Observe(line string) []Category {
	var matched []Category
	if c.isSyncCenter(line) {
		c.syncLines = append(c.syncLines, line)
		matched = append(matched, CategorySyncCenter)
	}
	if c.transferStop(line) {
		matched = append(matched, CategoryTransferStop)
	}
	if c.fetchControl(line) {
		matched = append(matched, CategoryFetchControl)
	}
	if c.platformSync(line) {
		matched = append(matched, CategoryPlatformSync)
	}
	if cat, ok := c.makeTime(line); ok {
		matched = append(matched, cat)
	}
	for _, cat := range matched {
		c.counts[cat]++
	}
	return matched
}

// SyncLines returns sync-center lines in the order they were observed.
func (c *Classifier) SyncLines() []string {
	return c.syncLines
}

// ErrorLines returns error lines and anomaly notes in the order they were produced.
func (c *Classifier) ErrorLines() []string {
	return c.errorLines
}

// Errors returns the deduplicated descriptors.
func (c *Classifier) Errors() *ErrorSet {
	return c.errors
}

// Count returns how many lines matched cat.
func (c *Classifier) Count(cat Category) int {
	return c.counts[cat]
}

func (c *Classifier) isSyncCenter(line string) bool {
	for _, m := range c.markers {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}

func (c *Classifier) transferStop(line string) bool {
	for _, m := range transferStopPattern.FindAllStringSubmatch(line, -1) {
		if strings.HasPrefix(m[2], transferSuccess) {
			continue
		}
		c.errors.Add(ErrorDescriptor{Type: TypeName(m[1]), Code: m[2], ErrorType: ErrorTypeHeader})
		c.errorLines = append(c.errorLines, line)
		return true
	}
	return false
}

func (c *Classifier) fetchControl(line string) bool {
	for _, m := range fetchControlPattern.FindAllStringSubmatch(line, -1) {
		if strings.HasPrefix(m[1], fetchSuccess) {
			continue
		}
		c.errors.Add(ErrorDescriptor{Code: m[1], ErrorType: ErrorTypeData})
		c.errorLines = append(c.errorLines, line)
		return true
	}
	return false
}

func (c *Classifier) platformSync(line string) bool {
	m := platformSyncPattern.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	c.errors.Add(ErrorDescriptor{Type: m[1], Code: m[4], ErrorType: ErrorTypeData})
	c.errorLines = append(c.errorLines, line)
	return true
}

func (c *Classifier) makeTime(line string) (Category, bool) {
	m := mkTimePattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	stamp, err := time.Parse(lineTimeLayout, m[1])
	if err != nil {
		return "", false
	}
	mk, ok := parseMkTime(m[3])
	if !ok {
		return "", false
	}
	typeName := TypeName(m[2])

	switch {
	case mk.Sub(stamp) > futureTolerance && !IsExempt(m[2]):
		c.errorLines = append(c.errorLines, fmt.Sprintf("type:%s future timestamp, cannot sync timestamp=%s mk_time=%s",
			typeName, stamp.Format(lineTimeLayout), mk.Format(mkTimeLayout)))
		c.errors.Add(ErrorDescriptor{Type: typeName, ErrorType: ErrorTypeFuture})
		return CategoryFutureTime, true
	case stamp.Sub(mk) > backlogLimit:
		c.errorLines = append(c.errorLines, fmt.Sprintf("type:%s synced data older than four weeks, needs attention timestamp=%s mk_time=%s",
			typeName, stamp.Format(lineTimeLayout), mk.Format(mkTimeLayout)))
		c.errors.Add(ErrorDescriptor{Type: typeName, ErrorType: ErrorTypeBacklog})
		return CategoryBacklogTime, true
	}
	return "", false
}

// parseMkTime reads "year=2025, month=2, day=20, hour=0, minute=0, second=0, tz=28".
// The tz field is ignored; both clocks are compared as naive local times.
func parseMkTime(s string) (time.Time, bool) {
	fields := make(map[string]int)
	for _, kv := range mkFieldPattern.FindAllStringSubmatch(s, -1) {
		v, err := strconv.Atoi(kv[2])
		if err != nil {
			return time.Time{}, false
		}
		fields[kv[1]] = v
	}
	for _, k := range []string{"year", "month", "day", "hour", "minute", "second"} {
		if _, ok := fields[k]; !ok {
			return time.Time{}, false
		}
	}
	year, month, day := fields["year"], fields["month"], fields["day"]
	hour, minute, second := fields["hour"], fields["minute"], fields["second"]
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return time.Time{}, false
	}
	mk := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
	// time.Date normalizes out-of-range values (Feb 31 becomes Mar 3); such
	// dates do not exist and are skipped.
	if mk.Year() != year || int(mk.Month()) != month || mk.Day() != day {
		return time.Time{}, false
	}
	return mk, true
}
