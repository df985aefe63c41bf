package calendar

import (
	"strings"

	"github.com/pfrederiksen/event-schedule/internal/config"
	"github.com/pfrederiksen/event-schedule/internal/schedule"
)

// DescriptionOptions controls which lines BuildDescription emits
type DescriptionOptions struct {
	Labels config.Labels
	// Weekdays names the days starting with Sunday; used when the item has no dayName.
	Weekdays      []string
	IncludeAuthor bool
	// TypeLabel adds a trailing type line when non-empty.
	TypeLabel string
}

// BuildDescription assembles the unescaped DESCRIPTION text of an item.
//
// Layout: track line, description, author lines, then time/day/type lines, with a blank
// line between groups. Only present fields produce lines.
func BuildDescription(item schedule.Item, opts DescriptionOptions) string {
	var groups []string

	if item.Track != "" {
		groups = append(groups, opts.Labels.Track+": "+item.Track)
	}
	if item.Description != "" {
		groups = append(groups, item.Description)
	}

	var author []string
	if opts.IncludeAuthor && item.Author != "" {
		author = append(author, opts.Labels.Author+": "+item.Author)
	}
	if opts.IncludeAuthor && item.AuthorURL != "" {
		author = append(author, opts.Labels.Profile+": "+item.AuthorURL)
	}
	if len(author) > 0 {
		groups = append(groups, strings.Join(author, "\n"))
	}

	var when []string
	if item.TimeStart != "" && item.TimeEnd != "" {
		when = append(when, opts.Labels.Time+": "+item.TimeStart+" - "+item.TimeEnd)
	}
	if day := dayName(item, opts.Weekdays); day != "" {
		when = append(when, opts.Labels.Day+": "+day)
	}
	if opts.TypeLabel != "" {
		when = append(when, opts.Labels.Type+": "+opts.TypeLabel)
	}
	if len(when) > 0 {
		groups = append(groups, strings.Join(when, "\n"))
	}

	return strings.Join(groups, "\n\n")
}

func dayName(item schedule.Item, weekdays []string) string {
	if item.DayName != "" {
		return item.DayName
	}
	wd, ok := schedule.Weekday(item.Date)
	if !ok || int(wd) >= len(weekdays) {
		return ""
	}
	return weekdays[wd]
}
