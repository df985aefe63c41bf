package calendar

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"not a calendar", "hello world\r\n"},
		{"unterminated", "BEGIN:VCALENDAR\r\nVERSION:2.0\r\n"},
		{"event without uid", strings.Join([]string{
			"BEGIN:VCALENDAR",
			"VERSION:2.0",
			"BEGIN:VEVENT",
			"DTSTART:20250606T100000",
			"END:VEVENT",
			"END:VCALENDAR",
		}, "\r\n") + "\r\n"},
		{"event without start", strings.Join([]string{
			"BEGIN:VCALENDAR",
			"VERSION:2.0",
			"BEGIN:VEVENT",
			"UID:x@y",
			"END:VEVENT",
			"END:VCALENDAR",
		}, "\r\n") + "\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate([]byte(tt.data))
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("Validate() error = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestValidate_ReportsBareLineFeeds(t *testing.T) {
	data := "BEGIN:VCALENDAR\nVERSION:2.0\nX-WR-CALNAME:Test\nBEGIN:VEVENT\nUID:a@b\nDTSTART;VALUE=DATE:20250606\nEND:VEVENT\nEND:VCALENDAR\n"

	report, err := Validate([]byte(data))
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if report.Name != "Test" || report.Events != 1 || report.AllDay != 1 {
		t.Errorf("report = %+v", report)
	}
	if len(report.Problems) == 0 || !strings.Contains(report.Problems[0], "LF") {
		t.Errorf("Problems = %v, want a line ending finding", report.Problems)
	}
}
