package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pfrederiksen/event-schedule/internal/schedule"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Event.Name != DefaultEventName {
		t.Errorf("Event.Name = %q, want %q", cfg.Event.Name, DefaultEventName)
	}
	if !cfg.DataTypes.Stations.CreateAllDayEvents || !cfg.DataTypes.Quests.CreateAllDayEvents {
		t.Error("stations and quests should default to all-day events")
	}
	if cfg.DataTypes.Activities.CreateAllDayEvents {
		t.Error("activities should not default to all-day events")
	}
	if cfg.ExportOptions.IncludePrivateEvents {
		t.Error("private events should be excluded by default")
	}
	if got := cfg.DataTypes.Enabled(); len(got) != 4 {
		t.Errorf("Enabled() = %v, want all four lists", got)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Event.Name != DefaultEventName {
		t.Errorf("expected defaults, got %q", cfg.Event.Name)
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil || cfg == nil {
		t.Fatalf("Load(\"\") = %v, %v", cfg, err)
	}
}

func TestLoad_InvalidFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"event": {"name": `), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if cfg == nil || cfg.Event.Name != DefaultEventName {
		t.Errorf("expected default config alongside the error, got %+v", cfg)
	}
}

func TestLoad_JSONPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{
  "event": {"name": "Vas3k Camp 2025", "organizer": "Vas3k Club", "dates": {"start": "2025-06-06", "end": "2025-06-09"}},
  "data_types": {"meals": {"enabled": false}},
  "export_options": {"include_private_events": true},
  "activity_types": {"auto_detect": true, "keyword_mappings": {"workshop": "🛠️", "quiz": "🧠", "welcome": "👋"}}
}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Event.Name != "Vas3k Camp 2025" || cfg.Event.Organizer != "Vas3k Club" {
		t.Errorf("event not decoded: %+v", cfg.Event)
	}
	if cfg.Event.Timezone != DefaultTimezone {
		t.Errorf("timezone should keep default, got %q", cfg.Event.Timezone)
	}
	if cfg.DataTypes.Meals.Enabled {
		t.Error("meals should be disabled")
	}
	if !cfg.DataTypes.Stations.CreateAllDayEvents {
		t.Error("stations defaults should survive a partial data_types block")
	}
	if !cfg.ExportOptions.IncludePrivateEvents || !cfg.ExportOptions.IncludeDescription {
		t.Errorf("export options not merged: %+v", cfg.ExportOptions)
	}

	want := []string{"workshop", "quiz", "welcome"}
	if len(cfg.ActivityTypes.KeywordMappings) != len(want) {
		t.Fatalf("keyword table = %+v", cfg.ActivityTypes.KeywordMappings)
	}
	for i, kw := range want {
		if cfg.ActivityTypes.KeywordMappings[i].Keyword != kw {
			t.Errorf("keyword %d = %q, want %q", i, cfg.ActivityTypes.KeywordMappings[i].Keyword, kw)
		}
	}

	kinds := cfg.DataTypes.Enabled()
	for _, k := range kinds {
		if k == schedule.KindMeals {
			t.Error("Enabled() should not include meals")
		}
	}
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
event:
  name: Tramontana
  timezone: Europe/Berlin
tracks:
  mappings:
    "🧠 Geek Zone":
      emoji: "🤓"
activity_types:
  keyword_mappings:
    party: "🎉"
    dj: "🎵"
    food: "🍽️"
schedule:
  day_boundary_hour: 4
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Event.Name != "Tramontana" || cfg.Event.Timezone != "Europe/Berlin" {
		t.Errorf("event not decoded: %+v", cfg.Event)
	}
	if cfg.Event.Organizer != DefaultOrganizer {
		t.Errorf("organizer should keep default, got %q", cfg.Event.Organizer)
	}
	if cfg.Tracks.Mappings["🧠 Geek Zone"].Emoji != "🤓" {
		t.Errorf("track mapping missing: %+v", cfg.Tracks.Mappings)
	}
	if cfg.Schedule.DayBoundaryHour != 4 {
		t.Errorf("DayBoundaryHour = %d, want 4", cfg.Schedule.DayBoundaryHour)
	}

	got := cfg.ActivityTypes.KeywordMappings
	if len(got) != 3 || got[0].Keyword != "party" || got[1].Keyword != "dj" || got[2].Keyword != "food" {
		t.Errorf("YAML keyword order not preserved: %+v", got)
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("event: [unclosed"), FormatYAML)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestNormalize(t *testing.T) {
	cfg := &Config{}
	cfg.Event.Dates.Start = "2025-06-06"
	cfg.Schedule.DayBoundaryHour = 30
	cfg.Normalize()

	if cfg.Event.Name != DefaultEventName || cfg.Event.Organizer != DefaultOrganizer {
		t.Errorf("event defaults not applied: %+v", cfg.Event)
	}
	if cfg.Event.Dates.End != "2025-06-06" {
		t.Errorf("end date should default to start, got %q", cfg.Event.Dates.End)
	}
	if cfg.DataTypes.Meals.DefaultEmoji != GlobalDefaultEmoji {
		t.Errorf("data type emoji should default to %q, got %q", GlobalDefaultEmoji, cfg.DataTypes.Meals.DefaultEmoji)
	}
	if cfg.ExportOptions.MaxDescriptionLength != DefaultMaxDescriptionLength {
		t.Errorf("MaxDescriptionLength = %d", cfg.ExportOptions.MaxDescriptionLength)
	}
	if cfg.Schedule.DayBoundaryHour != 0 {
		t.Errorf("out-of-range boundary should reset to 0, got %d", cfg.Schedule.DayBoundaryHour)
	}
	if len(cfg.Localization.Weekdays) != 7 || cfg.Localization.Labels.Track != "Track" {
		t.Errorf("localization defaults not applied: %+v", cfg.Localization)
	}
}

func TestKeywordTable_Match(t *testing.T) {
	table := KeywordTable{
		{Keyword: "quiz", Emoji: "🧠"},
		{Keyword: "Night", Emoji: "🌙"},
		{Keyword: "quiz night", Emoji: "🎲"},
	}

	tests := []struct {
		title string
		want  string
		ok    bool
	}{
		{"Morning Quiz", "🧠", true},
		{"QUIZ NIGHT", "🧠", true}, // first match wins
		{"night walk", "🌙", true},
		{"Yoga", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			got, ok := table.Match(tt.title)
			if got != tt.want || ok != tt.ok {
				t.Errorf("Match(%q) = %q, %v; want %q, %v", tt.title, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestKeywordTable_JSONListFormAndMarshal(t *testing.T) {
	var table KeywordTable
	if err := json.Unmarshal([]byte(`[{"keyword": "b", "emoji": "2"}, {"keyword": "a", "emoji": "1"}]`), &table); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(table) != 2 || table[0].Keyword != "b" {
		t.Fatalf("unexpected table: %+v", table)
	}

	out, err := json.Marshal(table)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"b":"2","a":"1"}` {
		t.Errorf("Marshal() = %s", out)
	}

	var roundTrip KeywordTable
	if err := json.Unmarshal(out, &roundTrip); err != nil {
		t.Fatal(err)
	}
	if roundTrip[0].Keyword != "b" || roundTrip[1].Keyword != "a" {
		t.Errorf("order lost: %+v", roundTrip)
	}
}

func TestKeywordTable_JSONRejectsNonString(t *testing.T) {
	var table KeywordTable
	if err := json.Unmarshal([]byte(`{"quiz": 5}`), &table); err == nil {
		t.Error("expected error for non-string emoji")
	}
}
