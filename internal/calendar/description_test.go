package calendar

import (
	"testing"

	"github.com/pfrederiksen/event-schedule/internal/config"
	"github.com/pfrederiksen/event-schedule/internal/schedule"
)

func TestBuildDescription(t *testing.T) {
	cfg := config.DefaultConfig()
	base := DescriptionOptions{
		Labels:        cfg.Localization.Labels,
		Weekdays:      cfg.Localization.Weekdays,
		IncludeAuthor: true,
	}
	full := schedule.Item{
		Title:       "Morning Quiz",
		Track:       "🧠 Geek Zone",
		Description: "Bring a laptop",
		Author:      "Alice",
		AuthorURL:   "https://example.org/alice",
		Date:        "2025-06-06",
		TimeStart:   "10:00",
		TimeEnd:     "11:00",
	}

	tests := []struct {
		name string
		item schedule.Item
		opts func(o *DescriptionOptions)
		want string
	}{
		{
			name: "all fields",
			item: full,
			want: "Track: 🧠 Geek Zone\n\nBring a laptop\n\nAuthor: Alice\nProfile: https://example.org/alice\n\nTime: 10:00 - 11:00\nDay: Friday",
		},
		{
			name: "author info excluded",
			item: full,
			opts: func(o *DescriptionOptions) { o.IncludeAuthor = false },
			want: "Track: 🧠 Geek Zone\n\nBring a laptop\n\nTime: 10:00 - 11:00\nDay: Friday",
		},
		{
			name: "no fields",
			item: schedule.Item{Title: "Empty"},
			want: "",
		},
		{
			name: "description only has no trailing blank lines",
			item: schedule.Item{Description: "Just text"},
			want: "Just text",
		},
		{
			name: "type line only",
			item: schedule.Item{Title: "Lunch"},
			opts: func(o *DescriptionOptions) { o.TypeLabel = "meals" },
			want: "Type: meals",
		},
		{
			name: "time needs both ends",
			item: schedule.Item{TimeStart: "10:00", DayName: "Day 1"},
			want: "Day: Day 1",
		},
		{
			name: "localized labels",
			item: schedule.Item{Track: "Music", Date: "2025-06-07"},
			opts: func(o *DescriptionOptions) {
				o.Labels.Track = "Трек"
				o.Labels.Day = "День"
				o.Weekdays = []string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}
			},
			want: "Трек: Music\n\nДень: Сб",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := base
			if tt.opts != nil {
				tt.opts(&opts)
			}
			if got := BuildDescription(tt.item, opts); got != tt.want {
				t.Errorf("BuildDescription() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}
