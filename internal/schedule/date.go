package schedule

import (
	"regexp"
	"sort"
	"strconv"
	"time"
)

// DateLayout is the ISO date format used by the schedule document
const DateLayout = "2006-01-02"

// clockPattern matches a leading HH:MM, ignoring anything after it (e.g. "10:00 🎉")
var clockPattern = regexp.MustCompile(`^\s*(\d{1,2}):(\d{2})`)

// ParseDate parses an ISO YYYY-MM-DD date.
// Returns false if the text is empty or malformed.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseClock parses the leading HH:MM of a time string.
// Returns false if there is no valid time of day.
func ParseClock(s string) (hour, minute int, ok bool) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, false
	}
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

// ClockMinutes converts a time string to minutes since the start of the festival day.
// Hours before boundaryHour count as belonging to the previous night and get 24h added,
// so a 01:30 set sorts after a 23:00 one. A boundaryHour of 0 disables the shift.
func ClockMinutes(s string, boundaryHour int) (int, bool) {
	h, m, ok := ParseClock(s)
	if !ok {
		return 0, false
	}
	if boundaryHour > 0 && h < boundaryHour {
		h += 24
	}
	return h*60 + m, true
}

// Weekday returns the weekday of an ISO date
func Weekday(date string) (time.Weekday, bool) {
	t, ok := ParseDate(date)
	if !ok {
		return 0, false
	}
	return t.Weekday(), true
}

// SortByStart orders items by date, then by start time within the festival day, then by title.
// Undated items come last. The sort is stable so source order breaks remaining ties.
func SortByStart(items []Item, boundaryHour int) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Date != b.Date {
			if a.Date == "" {
				return false
			}
			if b.Date == "" {
				return true
			}
			return a.Date < b.Date
		}
		am, aok := ClockMinutes(a.TimeStart, boundaryHour)
		bm, bok := ClockMinutes(b.TimeStart, boundaryHour)
		if aok != bok {
			return !aok
		}
		if am != bm {
			return am < bm
		}
		return a.Title < b.Title
	})
}
