// Package export groups schedule items into the calendars offered for download and
// names them and their files.
//
// Every method returns a freshly built calendar; an Exporter never changes after New,
// so it can be shared between goroutines.
package export

import (
	"errors"
	"fmt"
	"hash/fnv"
	"strconv"

	"github.com/pfrederiksen/event-schedule/internal/calendar"
	"github.com/pfrederiksen/event-schedule/internal/config"
	"github.com/pfrederiksen/event-schedule/internal/filter"
	"github.com/pfrederiksen/event-schedule/internal/schedule"
)

var (
	// ErrUnknownTrack is returned for a track that no enabled item uses
	ErrUnknownTrack = errors.New("unknown track")
	// ErrKindDisabled is returned for a source list switched off in data_types
	ErrKindDisabled = errors.New("data type disabled")
)

// Scope identifies which grouping produced a calendar
type Scope string

const (
	ScopeCombined  Scope = "combined"
	ScopeTrack     Scope = "track"
	ScopeDataType  Scope = "dataType"
	ScopeFavorites Scope = "favorites"
	ScopeSearch    Scope = "search"
)

// ParseScope converts a CLI flag value into a Scope
func ParseScope(s string) (Scope, error) {
	switch s {
	case "complete", "combined":
		return ScopeCombined, nil
	case "track":
		return ScopeTrack, nil
	case "type", "datatype", "dataType":
		return ScopeDataType, nil
	case "favorites":
		return ScopeFavorites, nil
	case "search":
		return ScopeSearch, nil
	}
	return "", fmt.Errorf("unknown scope %q: use complete, track, type, favorites or search", s)
}

// Calendar is one rendered calendar plus the metadata needed to save or serve it
type Calendar struct {
	Scope Scope
	// Key is the track name, data type or query the calendar was built for
	Key      string
	Emoji    string
	FileName string
	Doc      *calendar.Document
}

// Exporter builds calendars for one schedule document and configuration
type Exporter struct {
	doc       *schedule.Document
	cfg       *config.Config
	builder   *calendar.Builder
	tracks    []string
	table     calendar.TrackTable
	slugs     map[string]string // track name -> file slug
	bySlug    map[string]string // file slug -> track name
	eventSlug string
}

// New prepares an Exporter. Tracks are detected over the enabled source lists.
// opts are passed to the calendar builder.
func New(doc *schedule.Document, cfg *config.Config, opts ...calendar.Option) *Exporter {
	var tracks []string
	if enabled := cfg.DataTypes.Enabled(); len(enabled) > 0 {
		tracks = doc.Tracks(enabled...)
	}
	table := calendar.DetectTracks(cfg, tracks)

	e := &Exporter{
		doc:       doc,
		cfg:       cfg,
		builder:   calendar.NewBuilder(cfg, doc.Places, append([]calendar.Option{calendar.WithTracks(table)}, opts...)...),
		tracks:    tracks,
		table:     table,
		slugs:     make(map[string]string, len(tracks)),
		bySlug:    make(map[string]string, len(tracks)),
		eventSlug: calendar.Slugify(cfg.Event.Name),
	}
	if e.eventSlug == "" {
		e.eventSlug = "schedule"
	}

	for _, track := range tracks {
		base := calendar.Slugify(track)
		if base == "" {
			base = shortHash(track)
		}
		slug := base
		for n := 2; e.bySlug[slug] != ""; n++ {
			slug = base + "-" + strconv.Itoa(n)
		}
		e.slugs[track] = slug
		e.bySlug[slug] = track
	}
	return e
}

func shortHash(s string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return fmt.Sprintf("%08x", h.Sum32())
}

// Document returns the schedule the exporter was built from
func (e *Exporter) Document() *schedule.Document {
	return e.doc
}

// Config returns the configuration the exporter was built with
func (e *Exporter) Config() *config.Config {
	return e.cfg
}

// Tracks returns the detected track names in order of first appearance
func (e *Exporter) Tracks() []string {
	return append([]string(nil), e.tracks...)
}

// TrackTable returns the emoji/color table including auto-detected tracks
func (e *Exporter) TrackTable() calendar.TrackTable {
	return e.table
}

// TrackSlug returns the file name slug of a detected track
func (e *Exporter) TrackSlug(track string) (string, bool) {
	slug, ok := e.slugs[track]
	return slug, ok
}

// TrackBySlug resolves a file name slug back to its track
func (e *Exporter) TrackBySlug(slug string) (string, bool) {
	track, ok := e.bySlug[slug]
	return track, ok
}

func (e *Exporter) items(f *filter.Filter) []schedule.Item {
	enabled := e.cfg.DataTypes.Enabled()
	if len(enabled) == 0 {
		return nil
	}
	return f.Apply(e.doc.Items(enabled...))
}

// Combined builds the calendar with every enabled item
func (e *Exporter) Combined() *Calendar {
	f := filter.Combined(e.cfg.DataTypes.Enabled(), e.cfg.ExportOptions.IncludePrivateEvents)
	name := e.cfg.Event.Name + " 📅"
	return &Calendar{
		Scope:    ScopeCombined,
		Emoji:    "📅",
		FileName: e.eventSlug + "-complete.ics",
		Doc:      e.builder.BuildCalendar(e.items(f), "", name, ""),
	}
}

// Track builds the calendar of one track across all enabled lists
func (e *Exporter) Track(track string) (*Calendar, error) {
	slug, ok := e.slugs[track]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTrack, track)
	}

	f := filter.ForTrack(e.cfg.DataTypes.Enabled(), track, e.cfg.ExportOptions.IncludePrivateEvents)
	emoji := e.table.Emoji(track, e.cfg.Tracks.DefaultEmoji)
	name := fmt.Sprintf("%s %s - %s", emoji, track, e.cfg.Event.Name)
	description := fmt.Sprintf(`Events of track "%s" - %s`, track, e.cfg.Event.Name)

	return &Calendar{
		Scope:    ScopeTrack,
		Key:      track,
		Emoji:    emoji,
		FileName: fmt.Sprintf("%s-track-%s.ics", e.eventSlug, slug),
		Doc:      e.builder.BuildCalendar(e.items(f), "", name, description),
	}, nil
}

// DataType builds the calendar of exactly one source list
func (e *Exporter) DataType(kind schedule.Kind) (*Calendar, error) {
	dt := e.cfg.DataTypes.For(kind)
	if !dt.Enabled {
		return nil, fmt.Errorf("%w: %q", ErrKindDisabled, kind)
	}

	f := filter.ForKind(kind, e.cfg.ExportOptions.IncludePrivateEvents)
	emoji := dt.DefaultEmoji
	if emoji == "" {
		emoji = e.cfg.Tracks.DefaultEmoji
	}
	name := fmt.Sprintf("%s %s%s", emoji, e.cfg.Event.Name, dt.CalendarNameSuffix)
	description := fmt.Sprintf("%s - %s", kind, e.cfg.Event.Name)

	return &Calendar{
		Scope:    ScopeDataType,
		Key:      string(kind),
		Emoji:    emoji,
		FileName: fmt.Sprintf("%s-%s.ics", e.eventSlug, kind),
		Doc:      e.builder.BuildCalendar(f.Apply(e.doc.List(kind)), kind, name, description),
	}, nil
}

// Favorites builds the calendar of the items whose ActivityId is in ids.
// An empty set yields a valid calendar with no events.
func (e *Exporter) Favorites(ids schedule.IDSet) *Calendar {
	f := filter.ForFavorites(e.cfg.DataTypes.Enabled(), ids)
	name := fmt.Sprintf("⭐ %s - Favorites", e.cfg.Event.Name)
	description := fmt.Sprintf("Favorite events - %s", e.cfg.Event.Name)

	return &Calendar{
		Scope:    ScopeFavorites,
		Emoji:    "⭐",
		FileName: e.eventSlug + "-favorites.ics",
		Doc:      e.builder.BuildCalendar(e.items(f), "", name, description),
	}
}

// Search builds the calendar of items whose title, description, author or track
// contains query, ignoring case.
func (e *Exporter) Search(query string) *Calendar {
	f := filter.ForSearch(e.cfg.DataTypes.Enabled(), query, e.cfg.ExportOptions.IncludePrivateEvents)
	name := fmt.Sprintf(`🔍 %s - "%s"`, e.cfg.Event.Name, f.Query)
	description := fmt.Sprintf(`Search results for "%s" - %s`, f.Query, e.cfg.Event.Name)

	fileName := e.eventSlug + "-search.ics"
	if slug := calendar.Slugify(f.Query); slug != "" {
		fileName = fmt.Sprintf("%s-search-%s.ics", e.eventSlug, slug)
	}

	return &Calendar{
		Scope:    ScopeSearch,
		Key:      f.Query,
		Emoji:    "🔍",
		FileName: fileName,
		Doc:      e.builder.BuildCalendar(e.items(f), "", name, description),
	}
}

// Query applies a search box query (see filter.ParseQuery) to the enabled items.
// Private items stay hidden unless both the query and the configuration allow them.
func (e *Exporter) Query(q string) ([]schedule.Item, error) {
	f, err := filter.ParseQuery(q)
	if err != nil {
		return nil, err
	}
	f.IncludePrivate = f.IncludePrivate && e.cfg.ExportOptions.IncludePrivateEvents
	return e.items(f), nil
}

// All builds every calendar enabled by export_options: the combined calendar, one per
// detected track and one per enabled, non-empty source list.
func (e *Exporter) All() []*Calendar {
	opts := e.cfg.ExportOptions
	var out []*Calendar

	if opts.CreateCombinedCalendar {
		out = append(out, e.Combined())
	}

	if opts.CreateTrackCalendars {
		for _, track := range e.tracks {
			c, err := e.Track(track)
			if err != nil {
				continue
			}
			out = append(out, c)
		}
	}

	if opts.CreateSeparateCalendars {
		for _, kind := range e.cfg.DataTypes.Enabled() {
			if len(e.doc.List(kind)) == 0 {
				continue
			}
			c, err := e.DataType(kind)
			if err != nil {
				continue
			}
			out = append(out, c)
		}
	}

	return out
}
