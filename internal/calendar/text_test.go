package calendar

import (
	"strings"
	"testing"
	"unicode/utf8"

	ical "github.com/arran4/golang-ical"
)

func TestEscapeText(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		maxLength int
		want      string
	}{
		{"empty", "", 0, ""},
		{"plain", "Morning Quiz", 0, "Morning Quiz"},
		{"backslash", `C:\camp`, 0, `C:\\camp`},
		{"semicolon and comma", "tea; coffee, juice", 0, `tea\; coffee\, juice`},
		{"newline", "line one\nline two", 0, `line one\nline two`},
		{"carriage return removed", "a\r\nb", 0, `a\nb`},
		{"escaped sequence in input", `\;`, 0, `\\\;`},
		{"truncated before escaping", "ab,cdef", 3, `ab\,...`},
		{"truncation counts characters", "привет мир", 2, "пр..."},
		{"at limit untouched", "abc", 3, "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeText(tt.raw, tt.maxLength); got != tt.want {
				t.Errorf("EscapeText(%q, %d) = %q, want %q", tt.raw, tt.maxLength, got, tt.want)
			}
		})
	}
}

func TestEscapeText_RoundTrip(t *testing.T) {
	inputs := []string{
		`back\slash`,
		"semi;colon",
		"com,ma",
		"multi\nline\ntext",
		`all \ of ; them , at
once`,
		`\n is not a newline`,
		"Track: 🧠 Geek Zone\n\nBring a laptop, charger; snacks.",
	}

	for _, in := range inputs {
		escaped := EscapeText(in, 0)
		if got := UnescapeText(escaped); got != in {
			t.Errorf("UnescapeText(EscapeText(%q)) = %q", in, got)
		}
		if got := ical.FromText(escaped); got != in {
			t.Errorf("golang-ical FromText(EscapeText(%q)) = %q", in, got)
		}
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Camp 2025", "camp-2025"},
		{"🧠 Geek Zone", "geek-zone"},
		{"  Hello,  World!  ", "hello-world"},
		{"snake_case--and - dashes", "snake-case-and-dashes"},
		{"Rock'n'Roll", "rocknroll"},
		{"Лагерь Вастрик", "лагерь-вастрик"},
		{"🎉", ""},
	}

	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFoldLine(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"ascii", "DESCRIPTION:" + strings.Repeat("a", 200)},
		{"multi-byte", "SUMMARY:" + strings.Repeat("é🧠", 60)},
		{"short", "SUMMARY:short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			folded := foldLine(tt.line)
			for i, part := range strings.Split(folded, "\r\n") {
				if len(part) > maxLineOctets {
					t.Errorf("line %d is %d octets", i, len(part))
				}
				if i > 0 && !strings.HasPrefix(part, " ") {
					t.Errorf("continuation line %d does not start with a space", i)
				}
				if !utf8.ValidString(part) {
					t.Errorf("line %d splits a multi-byte character", i)
				}
			}
			if unfolded := strings.ReplaceAll(folded, "\r\n ", ""); unfolded != tt.line {
				t.Errorf("unfolding changed the line:\n got %q\nwant %q", unfolded, tt.line)
			}
		})
	}
}
