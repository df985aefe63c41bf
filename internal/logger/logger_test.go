package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func fixedLogger(level Level, buf *bytes.Buffer) *Logger {
	l := New(level, buf)
	l.now = func() time.Time { return time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC) }
	return l
}

func TestLogger_WritesJSONLine(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(LevelInfo, &buf)

	l.Error("write failed", Fields{"path": "ics_files/x.ics"}, errors.New("disk full"))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry.Timestamp != "2025-03-14T09:30:00Z" {
		t.Errorf("Timestamp = %q", entry.Timestamp)
	}
	if entry.Level != "ERROR" || entry.Message != "write failed" {
		t.Errorf("entry = %+v", entry)
	}
	if entry.Error != "disk full" {
		t.Errorf("Error = %q, want disk full", entry.Error)
	}
	if entry.Fields["path"] != "ics_files/x.ics" {
		t.Errorf("Fields = %v", entry.Fields)
	}
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Error("log line should end with a newline")
	}
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name      string
		minLevel  Level
		logLevel  Level
		shouldLog bool
	}{
		{"debug logs at debug", LevelDebug, LevelDebug, true},
		{"info logs at debug", LevelDebug, LevelInfo, true},
		{"debug doesn't log at info", LevelInfo, LevelDebug, false},
		{"warn logs at info", LevelInfo, LevelWarn, true},
		{"warn doesn't log at error", LevelError, LevelWarn, false},
		{"error always logs", LevelDebug, LevelError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := fixedLogger(tt.minLevel, &buf)

			l.log(tt.logLevel, "test", nil, nil)

			if logged := buf.Len() > 0; logged != tt.shouldLog {
				t.Errorf("shouldLog = %v, want %v", logged, tt.shouldLog)
			}
		})
	}
}

func TestLogger_UnmarshalableFieldFallsBack(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(LevelInfo, &buf)

	l.Info("odd field", Fields{"ch": make(chan int)})

	if !strings.Contains(buf.String(), "marshal error") {
		t.Errorf("expected plain-text fallback, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
		ok   bool
	}{
		{"debug", LevelDebug, true},
		{" INFO ", LevelInfo, true},
		{"warning", LevelWarn, true},
		{"Error", LevelError, true},
		{"verbose", LevelInfo, false},
		{"", LevelInfo, false},
	}
	for _, tt := range tests {
		got, ok := ParseLevel(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSetDefault(t *testing.T) {
	prev := Default()
	defer SetDefault(prev)

	var buf bytes.Buffer
	SetDefault(fixedLogger(LevelWarn, &buf))

	Info("hidden", nil)
	Warn("Skipping event", Fields{"title": "Opening"})

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info message should be filtered at WARN")
	}
	if !strings.Contains(out, `"Skipping event"`) {
		t.Errorf("warn message missing: %q", out)
	}
}

func TestMetrics_Counter(t *testing.T) {
	m := NewMetrics()

	m.IncrCounter("calendar.events_skipped")
	m.IncrCounter("calendar.events_skipped")
	m.AddCounter("calendar.events_skipped", 3)

	if got := m.Counter("calendar.events_skipped"); got != 5 {
		t.Errorf("Counter = %d, want 5", got)
	}
	if got := m.Snapshot().Counters["calendar.events_skipped"]; got != 5 {
		t.Errorf("Snapshot counter = %d, want 5", got)
	}
}

func TestMetrics_Timing(t *testing.T) {
	m := NewMetrics()

	m.RecordTiming("calendar.build", 100*time.Millisecond)
	m.RecordTiming("calendar.build", 200*time.Millisecond)
	m.RecordTiming("calendar.build", 150*time.Millisecond)

	stats, ok := m.Snapshot().Timings["calendar.build"]
	if !ok {
		t.Fatal("timing missing from snapshot")
	}
	if stats.Count != 3 {
		t.Errorf("Count = %d, want 3", stats.Count)
	}
	if stats.Min != "100ms" || stats.Max != "200ms" {
		t.Errorf("Min/Max = %s/%s, want 100ms/200ms", stats.Min, stats.Max)
	}
	if stats.Average != "150ms" {
		t.Errorf("Average = %s, want 150ms", stats.Average)
	}
}

func TestMetrics_SnapshotIsCopy(t *testing.T) {
	m := NewMetrics()
	m.IncrCounter("a")

	snap := m.Snapshot()
	snap.Counters["a"] = 99

	if m.Counter("a") != 1 {
		t.Error("mutating a snapshot must not change the tracker")
	}
}

func TestPackageLevelMetrics(t *testing.T) {
	IncrCounter("pkg.test")
	AddCounter("pkg.test", 2)
	RecordTiming("pkg.test", time.Second)

	snap := GetMetricsSnapshot()
	if snap.Counters["pkg.test"] < 3 {
		t.Errorf("counter = %d, want >= 3", snap.Counters["pkg.test"])
	}
	if snap.Timings["pkg.test"].Count < 1 {
		t.Error("timing not recorded")
	}
}
