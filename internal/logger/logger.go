// Package logger provides structured JSON logging and in-process metrics for the schedule
// calendar generator.
//
// Each log line is a JSON object with timestamp, level, message, optional fields and an
// optional error string. A package-level default logger writes to stderr so that generated
// calendars written to stdout stay clean.
//
// Example usage:
//
//	logger.Warn("Skipping event", logger.Fields{
//	    "title": item.Title,
//	    "kind":  item.Kind,
//	})
//
//	logger.IncrCounter("calendar.events_skipped")
//	logger.RecordTiming("calendar.build", time.Since(start))
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

var levelRank = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// ParseLevel converts a flag value such as "debug" or "WARN" into a Level.
// Unknown values fall back to INFO and report false.
func ParseLevel(s string) (Level, bool) {
	l := Level(strings.ToUpper(strings.TrimSpace(s)))
	if l == "WARNING" {
		l = LevelWarn
	}
	if _, ok := levelRank[l]; ok {
		return l, true
	}
	return LevelInfo, false
}

// Logger writes structured log lines. It is safe for concurrent use.
type Logger struct {
	mu       sync.Mutex
	minLevel Level
	output   io.Writer
	now      func() time.Time
}

// Fields represents structured log fields
type Fields map[string]interface{}

// LogEntry represents a single log entry
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Fields    Fields `json:"fields,omitempty"`
	Error     string `json:"error,omitempty"`
}

var (
	defaultMu     sync.RWMutex
	defaultLogger = New(LevelInfo, os.Stderr)
)

// New creates a logger that discards messages below level
func New(level Level, output io.Writer) *Logger {
	if _, ok := levelRank[level]; !ok {
		level = LevelInfo
	}
	return &Logger{
		minLevel: level,
		output:   output,
		now:      time.Now,
	}
}

// SetDefault replaces the logger used by the package-level functions
func SetDefault(l *Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

// Default returns the logger used by the package-level functions
func Default() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

func (l *Logger) log(level Level, message string, fields Fields, err error) {
	if !l.Enabled(level) {
		return
	}

	entry := LogEntry{
		Timestamp: l.now().UTC().Format(time.RFC3339),
		Level:     string(level),
		Message:   message,
		Fields:    fields,
	}
	if err != nil {
		entry.Error = err.Error()
	}

	data, marshalErr := json.Marshal(entry)

	l.mu.Lock()
	defer l.mu.Unlock()

	if marshalErr != nil {
		// Fields may hold values encoding/json cannot represent
		fmt.Fprintf(l.output, "[%s] %s: %s (marshal error: %v)\n",
			entry.Timestamp, entry.Level, entry.Message, marshalErr)
		return
	}
	fmt.Fprintln(l.output, string(data))
}

// Enabled reports whether messages at level would be written
func (l *Logger) Enabled(level Level) bool {
	return levelRank[level] >= levelRank[l.minLevel]
}

// Debug logs detailed diagnostic information
func (l *Logger) Debug(message string, fields Fields) {
	l.log(LevelDebug, message, fields, nil)
}

// Info logs general operational information
func (l *Logger) Info(message string, fields Fields) {
	l.log(LevelInfo, message, fields, nil)
}

// Warn logs a problem that was routed around, such as a skipped event
func (l *Logger) Warn(message string, fields Fields) {
	l.log(LevelWarn, message, fields, nil)
}

// Error logs a failure together with its error value
func (l *Logger) Error(message string, fields Fields, err error) {
	l.log(LevelError, message, fields, err)
}

// Package-level convenience functions using the default logger

func Debug(message string, fields Fields) {
	Default().Debug(message, fields)
}

func Info(message string, fields Fields) {
	Default().Info(message, fields)
}

func Warn(message string, fields Fields) {
	Default().Warn(message, fields)
}

func Error(message string, fields Fields, err error) {
	Default().Error(message, fields, err)
}

// Metrics tracks counters and timings. All operations are thread-safe.
type Metrics struct {
	mu       sync.Mutex
	counters map[string]int64
	timings  map[string][]time.Duration
}

// TimingStats summarises the durations recorded under one name
type TimingStats struct {
	Count   int    `json:"count"`
	Total   string `json:"total"`
	Average string `json:"average"`
	Min     string `json:"min"`
	Max     string `json:"max"`
}

// Snapshot is a point-in-time copy of all metrics
type Snapshot struct {
	Counters map[string]int64       `json:"counters"`
	Timings  map[string]TimingStats `json:"timings"`
}

var defaultMetrics = NewMetrics()

// NewMetrics creates an empty metrics tracker
func NewMetrics() *Metrics {
	return &Metrics{
		counters: make(map[string]int64),
		timings:  make(map[string][]time.Duration),
	}
}

// IncrCounter increments a counter by 1
func (m *Metrics) IncrCounter(name string) {
	m.AddCounter(name, 1)
}

// AddCounter increments a counter by n
func (m *Metrics) AddCounter(name string, n int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name] += n
}

// Counter returns the current value of a counter
func (m *Metrics) Counter(name string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[name]
}

// RecordTiming records a duration measurement
func (m *Metrics) RecordTiming(name string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timings[name] = append(m.timings[name], d)
}

// Snapshot returns a deep copy of all metrics, with timing statistics computed
func (m *Metrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		Counters: make(map[string]int64, len(m.counters)),
		Timings:  make(map[string]TimingStats, len(m.timings)),
	}
	for k, v := range m.counters {
		snap.Counters[k] = v
	}

	for name, durations := range m.timings {
		if len(durations) == 0 {
			continue
		}
		sorted := append([]time.Duration(nil), durations...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

		var total time.Duration
		for _, d := range sorted {
			total += d
		}
		snap.Timings[name] = TimingStats{
			Count:   len(sorted),
			Total:   total.String(),
			Average: (total / time.Duration(len(sorted))).String(),
			Min:     sorted[0].String(),
			Max:     sorted[len(sorted)-1].String(),
		}
	}
	return snap
}

// Package-level metrics functions using the default tracker

func IncrCounter(name string) {
	defaultMetrics.IncrCounter(name)
}

func AddCounter(name string, n int64) {
	defaultMetrics.AddCounter(name, n)
}

func RecordTiming(name string, d time.Duration) {
	defaultMetrics.RecordTiming(name, d)
}

// GetMetricsSnapshot returns a snapshot of the default tracker
func GetMetricsSnapshot() Snapshot {
	return defaultMetrics.Snapshot()
}
