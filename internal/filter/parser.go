package filter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pfrederiksen/event-schedule/internal/schedule"
)

// ParseDateRange parses an ISO date or date range.
//
// Supported formats:
//   - "2025-06-06" - a single day
//   - "2025-06-06..2025-06-08" - inclusive range
//   - "2025-06-06 - 2025-06-08" - inclusive range
//   - "2025-06-06.." or "..2025-06-08" - open-ended range
//
// Returns (dateFrom, dateTo, error); an open end is returned as "".
func ParseDateRange(input string) (string, string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", "", fmt.Errorf("date range cannot be empty")
	}

	from, to := input, input
	if i := strings.Index(input, ".."); i >= 0 {
		from, to = input[:i], input[i+2:]
	} else if m := spacedRange.FindStringSubmatch(input); m != nil {
		from, to = m[1], m[2]
	}
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)

	if from == "" && to == "" {
		return "", "", fmt.Errorf("date range needs at least one date")
	}
	for _, d := range []string{from, to} {
		if d == "" {
			continue
		}
		if _, ok := schedule.ParseDate(d); !ok {
			return "", "", fmt.Errorf("invalid date %q: use YYYY-MM-DD", d)
		}
	}
	if from != "" && to != "" && from > to {
		return "", "", fmt.Errorf("start date must be before end date")
	}

	return from, to, nil
}

var spacedRange = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\s+-\s+(\d{4}-\d{2}-\d{2})$`)

// ParseQuery parses a search box query into a Filter.
//
// Qualifiers narrow the result; everything else becomes free text:
//
//	track:"Geek Zone"    exact track (repeatable)
//	type:workshop        item type (repeatable)
//	kind:meals           source list (repeatable)
//	date:2025-06-06..2025-06-07
//	private:yes          include private items
//	quiz night           free text, matched as one phrase
//
// Values containing spaces are double-quoted. Unknown qualifiers are kept as free text.
func ParseQuery(input string) (*Filter, error) {
	f := NewFilter()
	var text []string

	for _, token := range tokenize(input) {
		key, value, ok := strings.Cut(token, ":")
		if !ok || value == "" {
			text = append(text, strings.Trim(token, `"`))
			continue
		}
		value = strings.Trim(value, `"`)

		switch strings.ToLower(key) {
		case "track":
			f.Tracks = append(f.Tracks, value)
		case "type":
			f.Types = append(f.Types, value)
		case "kind":
			kind, ok := schedule.ParseKind(value)
			if !ok {
				return nil, fmt.Errorf("unknown kind %q: use activities, meals, stations or quests", value)
			}
			f.Kinds = append(f.Kinds, kind)
		case "date":
			from, to, err := ParseDateRange(value)
			if err != nil {
				return nil, err
			}
			f.DateFrom, f.DateTo = from, to
		case "private":
			switch strings.ToLower(value) {
			case "yes", "true", "1":
				f.IncludePrivate = true
			case "no", "false", "0":
				f.IncludePrivate = false
			default:
				return nil, fmt.Errorf("invalid private value %q: use yes or no", value)
			}
		default:
			text = append(text, strings.Trim(token, `"`))
		}
	}

	f.Query = strings.Join(text, " ")
	return f, nil
}

// tokenize splits on whitespace, keeping double-quoted sections together
func tokenize(input string) []string {
	var tokens []string
	var cur strings.Builder
	quoted := false

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	for _, r := range input {
		switch {
		case r == '"':
			quoted = !quoted
			cur.WriteRune(r)
		case !quoted && (r == ' ' || r == '\t' || r == '\n'):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()

	return tokens
}
