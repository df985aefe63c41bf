// Package calendar renders schedule items as iCalendar (RFC 5545) documents.
//
// The Builder holds only immutable inputs, so one Builder may serve concurrent
// BuildCalendar calls.
package calendar

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/pfrederiksen/event-schedule/internal/config"
	"github.com/pfrederiksen/event-schedule/internal/logger"
	"github.com/pfrederiksen/event-schedule/internal/schedule"
)

const crlf = "\r\n"

// Static CET/CEST transition rules written into every VTIMEZONE block.
// Calendar clients key off the TZID, so these lines stay fixed.
var timezoneRules = []string{
	"BEGIN:STANDARD",
	"DTSTART:20241027T030000",
	"TZOFFSETFROM:+0200",
	"TZOFFSETTO:+0100",
	"TZNAME:CET",
	"END:STANDARD",
	"BEGIN:DAYLIGHT",
	"DTSTART:20250330T020000",
	"TZOFFSETFROM:+0100",
	"TZOFFSETTO:+0200",
	"TZNAME:CEST",
	"END:DAYLIGHT",
}

// Builder turns schedule items into VEVENT and VCALENDAR text
type Builder struct {
	cfg    *config.Config
	places schedule.Places
	tracks TrackTable
	now    func() time.Time
	log    *logger.Logger
}

// Option configures a Builder
type Option func(*Builder)

// WithClock sets the clock used for DTSTAMP
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// WithLogger sets the logger that receives skip warnings
func WithLogger(l *logger.Logger) Option {
	return func(b *Builder) { b.log = l }
}

// WithTracks replaces the track table, e.g. with the result of DetectTracks
func WithTracks(t TrackTable) Option {
	return func(b *Builder) { b.tracks = t }
}

// NewBuilder creates a Builder. cfg must not be modified afterwards.
func NewBuilder(cfg *config.Config, places schedule.Places, opts ...Option) *Builder {
	b := &Builder{
		cfg:    cfg,
		places: places,
		tracks: TrackTable(cfg.Tracks.Mappings),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Config returns the configuration the builder renders with
func (b *Builder) Config() *config.Config {
	return b.cfg
}

// Tracks returns the track table used for emoji lookup
func (b *Builder) Tracks() TrackTable {
	return b.tracks
}

func (b *Builder) logger() *logger.Logger {
	if b.log != nil {
		return b.log
	}
	return logger.Default()
}

// SkipError reports an item that produced no VEVENT
type SkipError struct {
	Title  string        `json:"title"`
	Kind   schedule.Kind `json:"kind"`
	Index  int           `json:"index"`
	Reason string        `json:"reason"`
}

func (e *SkipError) Error() string {
	return fmt.Sprintf("skipping %s[%d] %q: %s", e.Kind, e.Index, e.Title, e.Reason)
}

// Document is one rendered VCALENDAR
type Document struct {
	Name        string
	Description string
	// Events holds the VEVENT blocks in output order, without trailing CRLF.
	Events  []string
	Skipped []SkipError
	text    string
}

// String returns the complete iCalendar text
func (d *Document) String() string {
	return d.text
}

// Bytes returns the complete iCalendar text as bytes
func (d *Document) Bytes() []byte {
	return []byte(d.text)
}

// eventTimes resolves DTSTART/DTEND values for an item
func (b *Builder) eventTimes(item schedule.Item, kind schedule.Kind) (start, end string, allDay bool, reason string) {
	dt := b.cfg.DataTypes.For(kind)
	allDay = dt.CreateAllDayEvents || item.TimeStart == ""

	if allDay {
		startDate := firstNonEmpty(item.Date, dt.DefaultDate, b.cfg.Event.Dates.Start)
		endDate := firstNonEmpty(item.Date, dt.DefaultDate, b.cfg.Event.Dates.End)
		if startDate == "" {
			return "", "", true, "no date and no fallback date configured"
		}
		start = FormatTimestamp(startDate, "")
		// DTEND of a DATE event is exclusive
		end = nextDay(endDate, "")
		if start == "" || end == "" {
			return "", "", true, "invalid date"
		}
		return start, end, true, ""
	}

	date := firstNonEmpty(item.Date, dt.DefaultDate)
	if date == "" {
		return "", "", false, "no date and no fallback date configured"
	}
	startMin, ok := schedule.ClockMinutes(item.TimeStart, 0)
	if !ok {
		return "", "", false, fmt.Sprintf("invalid start time %q", item.TimeStart)
	}
	if boundary := b.cfg.Schedule.DayBoundaryHour; boundary > 0 && startMin < boundary*60 {
		// a 01:30 slot listed under Friday happens on Saturday morning
		if d, ok := schedule.ParseDate(date); ok {
			date = d.AddDate(0, 0, 1).Format(schedule.DateLayout)
		}
	}
	start = FormatTimestamp(date, item.TimeStart)
	if start == "" {
		return "", "", false, fmt.Sprintf("invalid date %q", date)
	}

	if item.TimeEnd == "" {
		return "", "", false, "no end time"
	}
	endMin, ok := schedule.ClockMinutes(item.TimeEnd, 0)
	switch {
	case !ok:
		return "", "", false, fmt.Sprintf("invalid end time %q", item.TimeEnd)
	case endMin < startMin:
		end = nextDay(date, item.TimeEnd)
	default:
		end = FormatTimestamp(date, item.TimeEnd)
	}
	return start, end, false, ""
}

// BuildEvent renders one VEVENT block. index is the item's position in its source list
// and kind its source list. Items without a usable start or end return a *SkipError.
func (b *Builder) BuildEvent(item schedule.Item, index int, kind schedule.Kind) (string, error) {
	start, end, allDay, reason := b.eventTimes(item, kind)
	if reason != "" {
		return "", &SkipError{Title: item.Title, Kind: kind, Index: index, Reason: reason}
	}

	opts := b.cfg.ExportOptions
	dt := b.cfg.DataTypes.For(kind)

	summary := item.Title
	if b.cfg.UI.Display.ShowEmojisInTitles {
		summary = strings.TrimSpace(ResolveEmoji(item, dt.DefaultEmoji, b.cfg, b.tracks) + " " + item.Title)
	}

	var description string
	if opts.IncludeDescription {
		typeLabel := ""
		if kind != schedule.KindActivities {
			typeLabel = string(kind)
		}
		description = BuildDescription(item, DescriptionOptions{
			Labels:        b.cfg.Localization.Labels,
			Weekdays:      b.cfg.Localization.Weekdays,
			IncludeAuthor: opts.IncludeAuthorInfo,
			TypeLabel:     typeLabel,
		})
	}

	var location string
	if opts.IncludeLocationInfo {
		location = b.locationName(item.PlaceID)
	}

	category := item.Track
	if category == "" {
		category = string(kind)
	}

	class := "PUBLIC"
	if item.Private && !opts.IncludePrivateEvents {
		class = "PRIVATE"
	}

	dateParam := ""
	if allDay {
		dateParam = ";VALUE=DATE"
	}

	var w lineWriter
	w.fold = opts.FoldLines
	w.add("BEGIN:VEVENT", "")
	w.add("DTSTART"+dateParam+":", start)
	w.add("DTEND"+dateParam+":", end)
	w.add("SUMMARY:", EscapeText(summary, 0))
	w.add("DESCRIPTION:", EscapeText(description, opts.MaxDescriptionLength))
	w.add("LOCATION:", EscapeText(location, 0))
	w.add("UID:", b.uid(item.Date, index, kind))
	w.add("DTSTAMP:", formatStamp(b.now()))
	w.add(organizer(item))
	w.add("CATEGORIES:", EscapeText(category, 0))
	w.add("CLASS:", class)
	w.add("STATUS:", "CONFIRMED")
	w.add("TRANSP:", "OPAQUE")
	w.add("END:VEVENT", "")

	return w.join(), nil
}

// uid depends only on the configured names, the item's date and its source position
func (b *Builder) uid(date string, index int, kind schedule.Kind) string {
	if date == "" {
		date = "allday"
	}
	return fmt.Sprintf("%s-%s-%s-%d@%s",
		Slugify(b.cfg.Event.Name), kind, date, index, Slugify(b.cfg.Event.Organizer))
}

// organizer renders the author as a quoted CN parameter. The property value is a
// CAL-ADDRESS, so it takes the author's profile URL or the nomail placeholder.
func organizer(item schedule.Item) (prefix, value string) {
	name := strings.Map(func(r rune) rune {
		if r == '"' || unicode.IsControl(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(item.Author))
	if name == "" {
		return "ORGANIZER:", ""
	}
	value = item.AuthorURL
	if value == "" {
		value = "invalid:nomail"
	}
	return `ORGANIZER;CN="` + name + `":`, value
}

func (b *Builder) locationName(placeID string) string {
	if place, ok := b.places.Lookup(placeID); ok && place.Title != "" {
		return place.Title
	}
	if placeID != "" {
		return placeID
	}
	return "TBD"
}

// header renders the VCALENDAR preamble including the optional VTIMEZONE block
func (b *Builder) header(name, description string) string {
	ev := b.cfg.Event
	opts := b.cfg.ExportOptions
	if description == "" {
		description = ev.Description
	}

	var w lineWriter
	w.fold = opts.FoldLines
	w.add("BEGIN:VCALENDAR", "")
	w.add("VERSION:", "2.0")
	w.add("PRODID:", "-//"+ev.Organizer+"//Event Schedule//EN")
	w.add("METHOD:", "PUBLISH")
	w.add("X-WR-CALNAME:", EscapeText(name, 0))
	w.add("X-WR-CALDESC:", EscapeText(description, 0))
	if opts.IncludeTimezoneInfo {
		w.add("X-WR-TIMEZONE:", ev.Timezone)
	}
	w.add("CALSCALE:", "GREGORIAN")
	if opts.IncludeTimezoneInfo && ev.Timezone != "" {
		w.add("BEGIN:VTIMEZONE", "")
		w.add("TZID:", ev.Timezone)
		for _, line := range timezoneRules {
			w.add(line, "")
		}
		w.add("END:VTIMEZONE", "")
	}
	return w.join()
}

// BuildCalendar renders a complete VCALENDAR from items.
//
// Each item is rendered with its own source position (Item.Index). kind names the source
// list for every item; pass "" for mixed calendars so each item uses its own Kind.
// Items that cannot be placed in time are left out, logged and listed in Skipped.
func (b *Builder) BuildCalendar(items []schedule.Item, kind schedule.Kind, name, description string) *Document {
	started := time.Now()
	doc := &Document{Name: name, Description: description}

	parts := []string{b.header(name, description)}
	for _, item := range items {
		k := kind
		if k == "" {
			k = item.Kind
		}
		event, err := b.BuildEvent(item, item.Index, k)
		if err != nil {
			skip, ok := err.(*SkipError)
			if !ok {
				skip = &SkipError{Title: item.Title, Kind: k, Index: item.Index, Reason: err.Error()}
			}
			doc.Skipped = append(doc.Skipped, *skip)
			b.logger().Warn("Skipping event", logger.Fields{
				"calendar": name,
				"title":    skip.Title,
				"kind":     skip.Kind,
				"index":    skip.Index,
				"reason":   skip.Reason,
			})
			continue
		}
		doc.Events = append(doc.Events, event)
		parts = append(parts, event)
	}
	parts = append(parts, "END:VCALENDAR")
	doc.text = strings.Join(parts, crlf) + crlf

	logger.AddCounter("calendar.events_built", int64(len(doc.Events)))
	logger.AddCounter("calendar.events_skipped", int64(len(doc.Skipped)))
	logger.RecordTiming("calendar.build", time.Since(started))

	return doc
}

// lineWriter collects content lines, dropping any whose value is empty
type lineWriter struct {
	lines []string
	fold  bool
}

// add appends prefix+value. A bare line (empty value) is written when the prefix
// does not end in ':' or '='.
func (w *lineWriter) add(prefix, value string) {
	if value == "" && (strings.HasSuffix(prefix, ":") || strings.HasSuffix(prefix, "=")) {
		return
	}
	line := prefix + value
	if w.fold {
		line = foldLine(line)
	}
	w.lines = append(w.lines, line)
}

func (w *lineWriter) join() string {
	return strings.Join(w.lines, crlf)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
