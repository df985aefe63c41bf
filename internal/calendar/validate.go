package calendar

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	ical "github.com/arran4/golang-ical"
)

// ErrMalformed is returned by Validate for documents a calendar client would reject
var ErrMalformed = errors.New("malformed calendar")

// Report summarises a parsed calendar document
type Report struct {
	Name     string `json:"name"`
	Timezone string `json:"timezone,omitempty"`
	Events   int    `json:"events"`
	AllDay   int    `json:"allDay"`
	// Problems lists non-fatal findings such as bare LF line endings.
	Problems []string `json:"problems,omitempty"`
}

// Validate re-parses an iCalendar document and checks the properties this package
// always writes. Parse failures and events without UID or DTSTART wrap ErrMalformed.
func Validate(data []byte) (*Report, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrMalformed)
	}

	if !bytes.HasSuffix(bytes.TrimRight(data, "\r\n"), []byte("END:VCALENDAR")) {
		return nil, fmt.Errorf("%w: missing END:VCALENDAR", ErrMalformed)
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	report := &Report{}
	for _, prop := range cal.CalendarProperties {
		switch prop.IANAToken {
		case "X-WR-CALNAME":
			report.Name = prop.Value
		case "X-WR-TIMEZONE":
			report.Timezone = prop.Value
		}
	}

	for i, ev := range cal.Events() {
		uid := ev.GetProperty(ical.ComponentPropertyUniqueId)
		if uid == nil || uid.Value == "" {
			return nil, fmt.Errorf("%w: event %d has no UID", ErrMalformed, i)
		}
		start := ev.GetProperty(ical.ComponentPropertyDtStart)
		if start == nil || start.Value == "" {
			return nil, fmt.Errorf("%w: event %s has no DTSTART", ErrMalformed, uid.Value)
		}
		if vs, ok := start.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
			report.AllDay++
		}
		report.Events++
	}

	if n := bareLineFeeds(data); n > 0 {
		report.Problems = append(report.Problems, fmt.Sprintf("%d line(s) end with LF instead of CRLF", n))
	}
	for _, line := range strings.Split(string(data), crlf) {
		if len(line) > maxLineOctets {
			report.Problems = append(report.Problems, "content lines longer than 75 octets (enable fold_lines)")
			break
		}
	}
	return report, nil
}

func bareLineFeeds(data []byte) int {
	n := 0
	for i, c := range data {
		if c == '\n' && (i == 0 || data[i-1] != '\r') {
			n++
		}
	}
	return n
}
