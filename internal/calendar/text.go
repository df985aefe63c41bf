package calendar

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Ellipsis is appended to text cut short by EscapeText.
const Ellipsis = "..."

// maxLineOctets is the RFC 5545 content line limit, excluding CRLF.
const maxLineOctets = 75

var textEscaper = strings.NewReplacer(
	"\\", "\\\\",
	";", "\\;",
	",", "\\,",
	"\n", "\\n",
	"\r", "",
)

// EscapeText escapes raw for use as an iCalendar TEXT value.
//
// When maxLength is positive and raw is longer than maxLength characters, raw is
// cut to maxLength characters and Ellipsis is appended before escaping.
func EscapeText(raw string, maxLength int) string {
	if raw == "" {
		return ""
	}
	if maxLength > 0 && utf8.RuneCountInString(raw) > maxLength {
		raw = string([]rune(raw)[:maxLength]) + Ellipsis
	}
	// single pass: inserted backslashes are never escaped again
	return textEscaper.Replace(raw)
}

// UnescapeText reverses EscapeText. Unknown escape sequences keep the escaped character.
func UnescapeText(escaped string) string {
	if !strings.Contains(escaped, "\\") {
		return escaped
	}
	var b strings.Builder
	b.Grow(len(escaped))
	for i := 0; i < len(escaped); i++ {
		c := escaped[i]
		if c != '\\' || i+1 == len(escaped) {
			b.WriteByte(c)
			continue
		}
		i++
		switch escaped[i] {
		case 'n', 'N':
			b.WriteByte('\n')
		default:
			b.WriteByte(escaped[i])
		}
	}
	return b.String()
}

// Slugify lowercases text, drops punctuation and symbols (emoji included) and joins
// the remaining words with single hyphens. Letters of any script are kept.
func Slugify(text string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '_':
			pendingHyphen = true
		}
	}
	return b.String()
}

// foldLine splits a content line into 75-octet chunks joined by CRLF and a
// single space. Multi-byte characters are never split.
func foldLine(line string) string {
	if len(line) <= maxLineOctets {
		return line
	}
	var b strings.Builder
	limit := maxLineOctets
	n := 0
	for _, r := range line {
		size := utf8.RuneLen(r)
		if n+size > limit {
			b.WriteString("\r\n ")
			// the leading space counts toward the next line
			limit = maxLineOctets - 1
			n = 0
		}
		b.WriteRune(r)
		n += size
	}
	return b.String()
}
