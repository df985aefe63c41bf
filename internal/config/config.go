// Package config holds the generator configuration: event details, track and keyword emoji
// tables, per-list options and export toggles.
//
// Configuration is optional. A missing file yields DefaultConfig(); a file that fails to parse
// also yields DefaultConfig() together with an error wrapping ErrInvalidConfig so the caller can
// warn and carry on.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pfrederiksen/event-schedule/internal/schedule"
)

// ErrInvalidConfig is wrapped by Load when the file exists but cannot be decoded
var ErrInvalidConfig = errors.New("invalid config")

const (
	// GlobalDefaultEmoji is used when nothing else resolves
	GlobalDefaultEmoji = "📅"

	DefaultEventName            = "Event Schedule"
	DefaultEventDescription     = "Event schedule with activity types"
	DefaultTimezone             = "Europe/Belgrade"
	DefaultOrganizer            = "Event Team"
	DefaultMaxDescriptionLength = 1000
)

// Config is the top-level generator configuration
type Config struct {
	Event         EventConfig        `json:"event" yaml:"event"`
	Tracks        TracksConfig       `json:"tracks" yaml:"tracks"`
	ActivityTypes ActivityTypeConfig `json:"activity_types" yaml:"activity_types"`
	DataTypes     DataTypes          `json:"data_types" yaml:"data_types"`
	ExportOptions ExportOptions      `json:"export_options" yaml:"export_options"`
	Schedule      ScheduleOptions    `json:"schedule" yaml:"schedule"`
	UI            UIConfig           `json:"ui" yaml:"ui"`
	Localization  Localization       `json:"localization" yaml:"localization"`
}

// EventConfig describes the event as a whole
type EventConfig struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	// Timezone is the TZID written to X-WR-TIMEZONE and the VTIMEZONE block.
	Timezone  string     `json:"timezone" yaml:"timezone"`
	Organizer string     `json:"organizer" yaml:"organizer"`
	Dates     EventDates `json:"dates" yaml:"dates"`
}

// EventDates bound the event. All-day items without a date of their own span these dates.
type EventDates struct {
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

// TracksConfig maps track names to display hints
type TracksConfig struct {
	// AutoDetect fills in mappings for tracks found in the schedule but not configured here.
	AutoDetect   bool                    `json:"auto_detect" yaml:"auto_detect"`
	DefaultEmoji string                  `json:"default_emoji" yaml:"default_emoji"`
	Mappings     map[string]TrackMapping `json:"mappings" yaml:"mappings"`
}

// TrackMapping holds per-track overrides
type TrackMapping struct {
	Emoji       string `json:"emoji" yaml:"emoji"`
	Color       string `json:"color,omitempty" yaml:"color,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// ActivityTypeConfig controls keyword-based emoji detection
type ActivityTypeConfig struct {
	AutoDetect      bool         `json:"auto_detect" yaml:"auto_detect"`
	KeywordMappings KeywordTable `json:"keyword_mappings" yaml:"keyword_mappings"`
}

// DataTypeConfig holds per-list options
type DataTypeConfig struct {
	Enabled            bool   `json:"enabled" yaml:"enabled"`
	DefaultEmoji       string `json:"default_emoji" yaml:"default_emoji"`
	CreateAllDayEvents bool   `json:"create_all_day_events" yaml:"create_all_day_events"`
	CalendarNameSuffix string `json:"calendar_name_suffix" yaml:"calendar_name_suffix"`
	// DefaultDate is used for items of this list that carry no date.
	DefaultDate string `json:"default_date,omitempty" yaml:"default_date,omitempty"`
}

// DataTypes holds the options of the four source lists. It is a struct rather than a map so
// that partial config files decode onto the defaults field by field.
type DataTypes struct {
	Activities DataTypeConfig `json:"activities" yaml:"activities"`
	Meals      DataTypeConfig `json:"meals" yaml:"meals"`
	Stations   DataTypeConfig `json:"stations" yaml:"stations"`
	Quests     DataTypeConfig `json:"quests" yaml:"quests"`
}

// For returns the options of a source list
func (d DataTypes) For(kind schedule.Kind) DataTypeConfig {
	switch kind {
	case schedule.KindActivities:
		return d.Activities
	case schedule.KindMeals:
		return d.Meals
	case schedule.KindStations:
		return d.Stations
	case schedule.KindQuests:
		return d.Quests
	}
	return DataTypeConfig{}
}

// Enabled returns the enabled source lists in document order
func (d DataTypes) Enabled() []schedule.Kind {
	var kinds []schedule.Kind
	for _, k := range schedule.Kinds() {
		if d.For(k).Enabled {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

func (d *DataTypes) each(fn func(kind schedule.Kind, c *DataTypeConfig)) {
	fn(schedule.KindActivities, &d.Activities)
	fn(schedule.KindMeals, &d.Meals)
	fn(schedule.KindStations, &d.Stations)
	fn(schedule.KindQuests, &d.Quests)
}

// ExportOptions toggles what gets generated and what goes into each event
type ExportOptions struct {
	CreateCombinedCalendar  bool `json:"create_combined_calendar" yaml:"create_combined_calendar"`
	CreateSeparateCalendars bool `json:"create_separate_calendars" yaml:"create_separate_calendars"`
	CreateTrackCalendars    bool `json:"create_track_calendars" yaml:"create_track_calendars"`
	IncludePrivateEvents    bool `json:"include_private_events" yaml:"include_private_events"`
	IncludeAuthorInfo       bool `json:"include_author_info" yaml:"include_author_info"`
	IncludeLocationInfo     bool `json:"include_location_info" yaml:"include_location_info"`
	IncludeDescription      bool `json:"include_description" yaml:"include_description"`
	IncludeTimezoneInfo     bool `json:"include_timezone_info" yaml:"include_timezone_info"`
	MaxDescriptionLength    int  `json:"max_description_length" yaml:"max_description_length"`
	// FoldLines folds content lines longer than 75 octets.
	FoldLines bool `json:"fold_lines" yaml:"fold_lines"`
}

// ScheduleOptions tunes how times are interpreted by the viewer
type ScheduleOptions struct {
	// DayBoundaryHour treats start times before this hour as part of the previous night.
	// Zero disables the shift.
	DayBoundaryHour int `json:"day_boundary_hour" yaml:"day_boundary_hour"`
}

// UIConfig is passed through to the browser client
type UIConfig struct {
	Display DisplayConfig `json:"display" yaml:"display"`
	Search  SearchConfig  `json:"search" yaml:"search"`
}

// DisplayConfig controls presentation details shared by the viewer and the calendar export
type DisplayConfig struct {
	ShowEmojisInTitles bool `json:"show_emojis_in_titles" yaml:"show_emojis_in_titles"`
}

// SearchConfig configures the viewer's search box
type SearchConfig struct {
	Enabled       bool   `json:"enabled" yaml:"enabled"`
	DebounceDelay int    `json:"debounce_delay" yaml:"debounce_delay"`
	Placeholder   string `json:"placeholder" yaml:"placeholder"`
}

// Localization holds the labels used in event descriptions and the weekday names
type Localization struct {
	Language string `json:"language" yaml:"language"`
	Labels   Labels `json:"labels" yaml:"labels"`
	// Weekdays lists day names starting with Sunday.
	Weekdays []string `json:"weekdays" yaml:"weekdays"`
}

// Labels prefix the lines of an event description
type Labels struct {
	Track   string `json:"track" yaml:"track"`
	Author  string `json:"author" yaml:"author"`
	Profile string `json:"profile" yaml:"profile"`
	Time    string `json:"time" yaml:"time"`
	Day     string `json:"day" yaml:"day"`
	Type    string `json:"type" yaml:"type"`
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		Event: EventConfig{
			Name:        DefaultEventName,
			Description: DefaultEventDescription,
			Timezone:    DefaultTimezone,
			Organizer:   DefaultOrganizer,
		},
		Tracks: TracksConfig{
			AutoDetect:   true,
			DefaultEmoji: GlobalDefaultEmoji,
			Mappings:     map[string]TrackMapping{},
		},
		ActivityTypes: ActivityTypeConfig{
			AutoDetect:      true,
			KeywordMappings: KeywordTable{},
		},
		DataTypes: DataTypes{
			Activities: DataTypeConfig{Enabled: true, DefaultEmoji: "📅"},
			Meals:      DataTypeConfig{Enabled: true, DefaultEmoji: "🍽️", CalendarNameSuffix: " - Meals"},
			Stations:   DataTypeConfig{Enabled: true, DefaultEmoji: "🏪", CreateAllDayEvents: true, CalendarNameSuffix: " - Stations"},
			Quests:     DataTypeConfig{Enabled: true, DefaultEmoji: "🗺️", CreateAllDayEvents: true, CalendarNameSuffix: " - Quests"},
		},
		ExportOptions: ExportOptions{
			CreateCombinedCalendar:  true,
			CreateSeparateCalendars: true,
			CreateTrackCalendars:    true,
			IncludePrivateEvents:    false,
			IncludeAuthorInfo:       true,
			IncludeLocationInfo:     true,
			IncludeDescription:      true,
			IncludeTimezoneInfo:     true,
			MaxDescriptionLength:    DefaultMaxDescriptionLength,
		},
		UI: UIConfig{
			Display: DisplayConfig{ShowEmojisInTitles: true},
			Search:  SearchConfig{Enabled: true, DebounceDelay: 300, Placeholder: "🔍 Search..."},
		},
		Localization: Localization{
			Language: "en",
			Labels:   defaultLabels(),
			Weekdays: defaultWeekdays(),
		},
	}
}

func defaultLabels() Labels {
	return Labels{
		Track:   "Track",
		Author:  "Author",
		Profile: "Profile",
		Time:    "Time",
		Day:     "Day",
		Type:    "Type",
	}
}

func defaultWeekdays() []string {
	return []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
}

// Normalize fills in missing/zero values so partially-filled configs still behave
func (c *Config) Normalize() {
	if strings.TrimSpace(c.Event.Name) == "" {
		c.Event.Name = DefaultEventName
	}
	if c.Event.Description == "" {
		c.Event.Description = DefaultEventDescription
	}
	if c.Event.Timezone == "" {
		c.Event.Timezone = DefaultTimezone
	}
	if strings.TrimSpace(c.Event.Organizer) == "" {
		c.Event.Organizer = DefaultOrganizer
	}
	if c.Event.Dates.End == "" {
		c.Event.Dates.End = c.Event.Dates.Start
	}
	if c.Tracks.DefaultEmoji == "" {
		c.Tracks.DefaultEmoji = GlobalDefaultEmoji
	}
	if c.Tracks.Mappings == nil {
		c.Tracks.Mappings = map[string]TrackMapping{}
	}
	if c.ActivityTypes.KeywordMappings == nil {
		c.ActivityTypes.KeywordMappings = KeywordTable{}
	}
	c.DataTypes.each(func(_ schedule.Kind, dt *DataTypeConfig) {
		if dt.DefaultEmoji == "" {
			dt.DefaultEmoji = c.Tracks.DefaultEmoji
		}
	})
	if c.ExportOptions.MaxDescriptionLength <= 0 {
		c.ExportOptions.MaxDescriptionLength = DefaultMaxDescriptionLength
	}
	if c.Schedule.DayBoundaryHour < 0 || c.Schedule.DayBoundaryHour > 23 {
		c.Schedule.DayBoundaryHour = 0
	}

	defaults := defaultLabels()
	fill := func(v *string, d string) {
		if strings.TrimSpace(*v) == "" {
			*v = d
		}
	}
	fill(&c.Localization.Labels.Track, defaults.Track)
	fill(&c.Localization.Labels.Author, defaults.Author)
	fill(&c.Localization.Labels.Profile, defaults.Profile)
	fill(&c.Localization.Labels.Time, defaults.Time)
	fill(&c.Localization.Labels.Day, defaults.Day)
	fill(&c.Localization.Labels.Type, defaults.Type)
	if len(c.Localization.Weekdays) != 7 {
		c.Localization.Weekdays = defaultWeekdays()
	}
	if c.Localization.Language == "" {
		c.Localization.Language = "en"
	}
}

// Load reads the configuration at path.
//
// Behavior:
//   - empty path or missing file: DefaultConfig(), nil
//   - .yaml/.yml files are decoded as YAML, anything else as JSON
//   - values are decoded onto DefaultConfig(), so absent keys keep their defaults
//   - decode failure: DefaultConfig() plus an error wrapping ErrInvalidConfig
func Load(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return DefaultConfig(), fmt.Errorf("reading config: %w", err)
	}

	cfg, err := Parse(data, formatFor(path))
	if err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}

// Format selects the decoder used by Parse
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func formatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Parse decodes configuration bytes onto the defaults and normalizes the result
func Parse(data []byte, format Format) (*Config, error) {
	cfg := DefaultConfig()

	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}

	cfg.Normalize()
	return cfg, nil
}
