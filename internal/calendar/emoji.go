package calendar

import (
	"fmt"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/pfrederiksen/event-schedule/internal/config"
	"github.com/pfrederiksen/event-schedule/internal/schedule"
)

// TrackTable maps track names to their display hints
type TrackTable map[string]config.TrackMapping

// DetectTracks returns the configured track mappings plus, when tracks.auto_detect is on,
// generated mappings for every name in tracks that is not configured.
func DetectTracks(cfg *config.Config, tracks []string) TrackTable {
	table := make(TrackTable, len(cfg.Tracks.Mappings)+len(tracks))
	for name, m := range cfg.Tracks.Mappings {
		table[name] = m
	}
	if !cfg.Tracks.AutoDetect {
		return table
	}
	for _, name := range tracks {
		if name == "" {
			continue
		}
		if _, ok := table[name]; ok {
			continue
		}
		emoji := LeadingEmoji(name)
		if emoji == "" {
			emoji = cfg.Tracks.DefaultEmoji
		}
		table[name] = config.TrackMapping{
			Emoji:       emoji,
			Color:       TrackColor(name),
			Description: name,
		}
	}
	return table
}

// Emoji returns the emoji of a track, or fallback if the track is unknown or has none
func (t TrackTable) Emoji(track, fallback string) string {
	if m, ok := t[track]; ok && m.Emoji != "" {
		return m.Emoji
	}
	return fallback
}

// ResolveEmoji picks the emoji shown in front of an event title.
//
// Order: first keyword in activity_types.keyword_mappings found in the title (when
// auto-detection is on), then the track's emoji, then dataTypeDefault, then
// tracks.default_emoji and finally the global default. The result is never empty.
func ResolveEmoji(item schedule.Item, dataTypeDefault string, cfg *config.Config, tracks TrackTable) string {
	if cfg.ActivityTypes.AutoDetect {
		if emoji, ok := cfg.ActivityTypes.KeywordMappings.Match(item.Title); ok && emoji != "" {
			return emoji
		}
	}
	if tracks == nil {
		tracks = TrackTable(cfg.Tracks.Mappings)
	}
	if item.Track != "" {
		if emoji := tracks.Emoji(item.Track, ""); emoji != "" {
			return emoji
		}
	}
	if dataTypeDefault != "" {
		return dataTypeDefault
	}
	if cfg.Tracks.DefaultEmoji != "" {
		return cfg.Tracks.DefaultEmoji
	}
	return config.GlobalDefaultEmoji
}

// LeadingEmoji returns the first grapheme cluster of s if it is a pictographic symbol,
// e.g. "🏃‍♂️" for "🏃‍♂️ Sports". Returns "" otherwise.
func LeadingEmoji(s string) string {
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(s, -1)
	if cluster == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(cluster)
	if !unicode.Is(unicode.So, r) {
		return ""
	}
	return cluster
}

// TrackColor derives a stable CSS color for a track name
func TrackColor(track string) string {
	return fmt.Sprintf("hsl(%d, 70%%, 50%%)", hashString(track)%360)
}

// hashString is the classic 31-multiplier string hash over UTF-16 code units,
// wrapped to 32 bits, with the sign dropped.
func hashString(s string) int64 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(c)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return v
}
