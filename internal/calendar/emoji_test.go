package calendar

import (
	"testing"

	"github.com/pfrederiksen/event-schedule/internal/config"
	"github.com/pfrederiksen/event-schedule/internal/schedule"
)

func emojiConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.ActivityTypes.KeywordMappings = config.KeywordTable{
		{Keyword: "quiz", Emoji: "🧠"},
		{Keyword: "run", Emoji: "🏃"},
	}
	cfg.Tracks.Mappings = map[string]config.TrackMapping{
		"Sports":       {Emoji: "⚽"},
		"No Emoji Yet": {Color: "#fff"},
	}
	return cfg
}

func TestResolveEmoji_FallbackOrder(t *testing.T) {
	cfg := emojiConfig()

	tests := []struct {
		name            string
		item            schedule.Item
		dataTypeDefault string
		want            string
	}{
		{"keyword beats track", schedule.Item{Title: "Morning QUIZ", Track: "Sports"}, "📅", "🧠"},
		{"first keyword wins", schedule.Item{Title: "Quiz run"}, "📅", "🧠"},
		{"track beats data type default", schedule.Item{Title: "Football", Track: "Sports"}, "🍽️", "⚽"},
		{"track without emoji falls through", schedule.Item{Title: "Talk", Track: "No Emoji Yet"}, "🍽️", "🍽️"},
		{"unknown track uses data type default", schedule.Item{Title: "Lunch", Track: "Food"}, "🍽️", "🍽️"},
		{"tracks default emoji", schedule.Item{Title: "Lunch"}, "", config.GlobalDefaultEmoji},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveEmoji(tt.item, tt.dataTypeDefault, cfg, nil); got != tt.want {
				t.Errorf("ResolveEmoji() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveEmoji_AutoDetectOff(t *testing.T) {
	cfg := emojiConfig()
	cfg.ActivityTypes.AutoDetect = false

	got := ResolveEmoji(schedule.Item{Title: "Morning Quiz", Track: "Sports"}, "📅", cfg, nil)
	if got != "⚽" {
		t.Errorf("ResolveEmoji() = %q, want track emoji when keyword detection is off", got)
	}
}

func TestResolveEmoji_NeverEmpty(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Tracks.DefaultEmoji = ""

	if got := ResolveEmoji(schedule.Item{Title: "x"}, "", cfg, TrackTable{}); got != config.GlobalDefaultEmoji {
		t.Errorf("ResolveEmoji() = %q, want global default", got)
	}
}

func TestLeadingEmoji(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"🧠 Geek Zone", "🧠"},
		{"🏃‍♂️ Sports", "🏃‍♂️"},
		{"Geek Zone", ""},
		{"1 Track", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := LeadingEmoji(tt.in); got != tt.want {
			t.Errorf("LeadingEmoji(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTrackColor(t *testing.T) {
	tests := []struct {
		track string
		want  string
	}{
		{"a", "hsl(97, 70%, 50%)"},
		{"ab", "hsl(225, 70%, 50%)"},
		{"🧠 Geek Zone", "hsl(190, 70%, 50%)"},
		{"Music & Dance Stage", "hsl(132, 70%, 50%)"},
	}

	for _, tt := range tests {
		if got := TrackColor(tt.track); got != tt.want {
			t.Errorf("TrackColor(%q) = %q, want %q", tt.track, got, tt.want)
		}
	}
}

func TestDetectTracks(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Tracks.Mappings = map[string]config.TrackMapping{
		"Music": {Emoji: "🎵", Color: "#ff0000"},
	}
	names := []string{"Music", "🧠 Geek Zone", "Talks", ""}

	table := DetectTracks(cfg, names)

	if table["Music"].Emoji != "🎵" || table["Music"].Color != "#ff0000" {
		t.Errorf("configured mapping overwritten: %+v", table["Music"])
	}
	geek := table["🧠 Geek Zone"]
	if geek.Emoji != "🧠" || geek.Color != "hsl(190, 70%, 50%)" || geek.Description != "🧠 Geek Zone" {
		t.Errorf("detected mapping = %+v", geek)
	}
	if table["Talks"].Emoji != cfg.Tracks.DefaultEmoji {
		t.Errorf("Talks emoji = %q, want default", table["Talks"].Emoji)
	}
	if _, ok := table[""]; ok {
		t.Error("empty track name should not be mapped")
	}

	cfg.Tracks.AutoDetect = false
	if table := DetectTracks(cfg, names); len(table) != 1 {
		t.Errorf("auto_detect off: got %d mappings, want 1", len(table))
	}
}
