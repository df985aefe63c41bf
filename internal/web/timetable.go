package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/event-schedule/internal/calendar"
	"github.com/pfrederiksen/event-schedule/internal/export"
	"github.com/pfrederiksen/event-schedule/internal/schedule"
)

//go:embed templates/*.html
var templateFS embed.FS

func parseTemplates() (*template.Template, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return tmpl, nil
}

type timetablePage struct {
	Title       string
	Description string
	Query       string
	SearchOn    bool
	Placeholder string
	Error       string
	Count       int
	Days        []timetableDay
	Undated     []timetableEntry
	Tracks      []export.WebTrack
	Kinds       []schedule.Kind
	LoadedAt    string
}

type timetableDay struct {
	Date    string
	Label   string
	Entries []timetableEntry
}

type timetableEntry struct {
	ID        string
	Time      string
	Title     string
	Emoji     string
	Track     string
	Kind      string
	Place     string
	PlaceInfo string
	Author    string
	Private   bool
}

func (s *Server) handleTimetable(w http.ResponseWriter, r *http.Request) {
	exp := s.Exporter()
	cfg := exp.Config()
	wc := exp.WebConfig()
	q := strings.TrimSpace(r.URL.Query().Get("q"))

	page := timetablePage{
		Title:       cfg.Event.Name,
		Description: cfg.Event.Description,
		Query:       q,
		SearchOn:    cfg.UI.Search.Enabled,
		Placeholder: cfg.UI.Search.Placeholder,
		Tracks:      wc.Tracks,
		Kinds:       wc.DataTypes,
		LoadedAt:    s.LoadedAt().UTC().Format("2006-01-02 15:04 MST"),
	}

	items, err := exp.Query(q)
	if err != nil {
		page.Error = err.Error()
		items = nil
	}
	schedule.SortByStart(items, cfg.Schedule.DayBoundaryHour)
	page.Count = len(items)

	places := exp.Document().Places
	var day *timetableDay
	for _, item := range items {
		entry := timetableEntry{
			ID:      item.ID(),
			Time:    clockRange(item),
			Title:   item.Title,
			Emoji:   calendar.ResolveEmoji(item, cfg.DataTypes.For(item.Kind).DefaultEmoji, cfg, exp.TrackTable()),
			Track:   item.Track,
			Kind:    string(item.Kind),
			Author:  item.Author,
			Private: item.Private,
		}
		if place, ok := places.Lookup(item.PlaceID); ok {
			entry.Place = place.Title
			entry.PlaceInfo = PlainText(place.Description)
		}

		if item.Date == "" {
			page.Undated = append(page.Undated, entry)
			continue
		}
		if day == nil || day.Date != item.Date {
			page.Days = append(page.Days, timetableDay{
				Date:  item.Date,
				Label: dayLabel(item, cfg.Localization.Weekdays),
			})
			day = &page.Days[len(page.Days)-1]
		}
		day.Entries = append(day.Entries, entry)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "timetable.html", page); err != nil {
		s.log.Error("rendering timetable failed", nil, err)
	}
}

func clockRange(item schedule.Item) string {
	switch {
	case item.TimeStart == "":
		return "All day"
	case item.TimeEnd == "":
		return item.TimeStart
	default:
		return item.TimeStart + " - " + item.TimeEnd
	}
}

func dayLabel(item schedule.Item, weekdays []string) string {
	if item.DayName != "" {
		return item.DayName + ", " + item.Date
	}
	if wd, ok := schedule.Weekday(item.Date); ok && int(wd) < len(weekdays) {
		return weekdays[wd] + ", " + item.Date
	}
	return item.Date
}

// PlainText reduces an HTML fragment, as found in place descriptions, to its text
func PlainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	doc.Find("script, style").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}
