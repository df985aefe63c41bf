package calendar

import (
	"time"

	"github.com/pfrederiksen/event-schedule/internal/schedule"
)

const (
	dateValueLayout = "20060102"
	localTimeLayout = "20060102T150405"
	utcStampLayout  = "20060102T150405Z"
)

// FormatTimestamp renders a schedule date and optional HH:MM clock.
//
// With a clock the result is a floating local date-time (YYYYMMDDTHHMMSS), meant to be
// read against the calendar's VTIMEZONE. Without one it is a DATE value (YYYYMMDD).
// An unparsable date or clock yields "".
func FormatTimestamp(date, clock string) string {
	day, ok := schedule.ParseDate(date)
	if !ok {
		return ""
	}
	if clock == "" {
		return day.Format(dateValueLayout)
	}
	h, m, ok := schedule.ParseClock(clock)
	if !ok {
		return ""
	}
	at := day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
	return at.Format(localTimeLayout)
}

// formatStamp renders t as a UTC DTSTAMP value.
func formatStamp(t time.Time) string {
	return t.UTC().Format(utcStampLayout)
}

// nextDay returns the DATE-TIME of clock on the day after date.
func nextDay(date, clock string) string {
	day, ok := schedule.ParseDate(date)
	if !ok {
		return ""
	}
	return FormatTimestamp(day.AddDate(0, 0, 1).Format(schedule.DateLayout), clock)
}
