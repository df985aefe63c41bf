package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pfrederiksen/event-schedule/internal/calendar"
	"github.com/pfrederiksen/event-schedule/internal/export"
	"github.com/pfrederiksen/event-schedule/internal/schedule"
	"github.com/pfrederiksen/event-schedule/internal/storage"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

func parseFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", s)
	}
	return format, nil
}

// SkippedEvent is an event left out of a written calendar
type SkippedEvent struct {
	File string `json:"file"`
	calendar.SkipError
}

// GenerateResult reports what generate wrote
type GenerateResult struct {
	GeneratedAt time.Time             `json:"generated_at"`
	OutDir      string                `json:"out_dir"`
	Files       []storage.WrittenFile `json:"files"`
	Skipped     []SkippedEvent        `json:"skipped"`
	EventCount  int                   `json:"event_count"`
	WebConfig   string                `json:"web_config,omitempty"`
	Verified    bool                  `json:"verified"`
}

// ListResult summarises a schedule
type ListResult struct {
	Event     string            `json:"event"`
	Tracks    []export.WebTrack `json:"tracks"`
	Kinds     []KindSummary     `json:"kinds"`
	Items     []ListedItem      `json:"items,omitempty"`
	ItemCount int               `json:"item_count"`
}

// KindSummary counts the items of one source list
type KindSummary struct {
	Kind    schedule.Kind `json:"kind"`
	Emoji   string        `json:"emoji"`
	Enabled bool          `json:"enabled"`
	Items   int           `json:"items"`
}

// ListedItem is one row of list --items
type ListedItem struct {
	ID      string        `json:"id"`
	Kind    schedule.Kind `json:"kind"`
	Date    string        `json:"date,omitempty"`
	Time    string        `json:"time,omitempty"`
	Title   string        `json:"title"`
	Track   string        `json:"track,omitempty"`
	Emoji   string        `json:"emoji"`
	Private bool          `json:"private,omitempty"`
}

// ValidateResult holds one report per checked file
type ValidateResult struct {
	Files []ValidatedFile `json:"files"`
}

// ValidatedFile is the outcome of validating one file
type ValidatedFile struct {
	Path   string           `json:"path"`
	Report *calendar.Report `json:"report,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// Failed reports whether any file failed to validate
func (r *ValidateResult) Failed() int {
	n := 0
	for _, f := range r.Files {
		if f.Error != "" {
			n++
		}
	}
	return n
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result interface{}, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeText(w io.Writer, result interface{}) error {
	switch r := result.(type) {
	case *GenerateResult:
		writeGenerateText(w, r)
	case *ListResult:
		writeListText(w, r)
	case *ValidateResult:
		writeValidateText(w, r)
	default:
		return fmt.Errorf("no text output for %T", result)
	}
	return nil
}

func writeGenerateText(w io.Writer, result *GenerateResult) {
	if len(result.Files) == 0 {
		fmt.Fprintln(w, "No calendars generated.")
	}

	for _, f := range result.Files {
		fmt.Fprintf(w, "✓ %s (%d events)\n", f.Path, f.Events)
		for _, s := range result.Skipped {
			if s.File != f.Path {
				continue
			}
			fmt.Fprintf(w, "  ⚠ skipped %q (%s #%d): %s\n", s.Title, s.Kind, s.Index, s.Reason)
		}
	}
	if result.WebConfig != "" {
		fmt.Fprintf(w, "✓ %s\n", result.WebConfig)
	}

	fmt.Fprintf(w, "\nTotal: %d calendars, %d events, %d skipped", len(result.Files), result.EventCount, len(result.Skipped))
	if result.Verified {
		fmt.Fprint(w, ", all verified")
	}
	fmt.Fprintln(w)
}

func writeListText(w io.Writer, result *ListResult) {
	fmt.Fprintln(w, result.Event)

	fmt.Fprintf(w, "\nTracks (%d):\n", len(result.Tracks))
	for _, t := range result.Tracks {
		fmt.Fprintf(w, "  %s %s [%s]\n", t.Emoji, t.Name, t.Slug)
	}

	fmt.Fprintln(w, "\nData types:")
	for _, k := range result.Kinds {
		state := "enabled"
		if !k.Enabled {
			state = "disabled"
		}
		fmt.Fprintf(w, "  %s %-10s %3d items (%s)\n", k.Emoji, k.Kind, k.Items, state)
	}

	if len(result.Items) == 0 {
		return
	}
	fmt.Fprintf(w, "\nItems (%d):\n", result.ItemCount)
	for _, item := range result.Items {
		when := strings.TrimSpace(item.Date + " " + item.Time)
		if when == "" {
			when = "-"
		}
		fmt.Fprintf(w, "  %-22s %s %s", when, item.Emoji, item.Title)
		if item.Track != "" {
			fmt.Fprintf(w, " [%s]", item.Track)
		}
		if item.Private {
			fmt.Fprint(w, " (private)")
		}
		fmt.Fprintln(w)
	}
}

func writeValidateText(w io.Writer, result *ValidateResult) {
	for _, f := range result.Files {
		if f.Error != "" {
			fmt.Fprintf(w, "FAIL %s: %s\n", f.Path, f.Error)
			continue
		}
		fmt.Fprintf(w, "OK   %s: %q (%d events, %d all-day)\n", f.Path, f.Report.Name, f.Report.Events, f.Report.AllDay)
		for _, p := range f.Report.Problems {
			fmt.Fprintf(w, "     ! %s\n", p)
		}
	}
}
