package filter

import (
	"reflect"
	"strings"
	"testing"

	"github.com/pfrederiksen/event-schedule/internal/schedule"
)

func sampleItems() []schedule.Item {
	return []schedule.Item{
		{Title: "Morning Quiz", Date: "2025-06-06", TimeStart: "10:00", Track: "🧠 Geek Zone", Type: "general", Kind: schedule.KindActivities, Index: 0},
		{Title: "Secret Rehearsal", Date: "2025-06-06", TimeStart: "12:00", Track: "Music", Private: true, Kind: schedule.KindActivities, Index: 1},
		{Title: "Jam Session", Date: "2025-06-07", TimeStart: "21:00", Track: "Music", Author: "Alice", Type: "workshop", Kind: schedule.KindActivities, Index: 2},
		{Title: "Lunch", Date: "2025-06-06", TimeStart: "13:00", Description: "Vegetarian options, quiz prizes handed out", Kind: schedule.KindMeals, Index: 0},
		{Title: "Camp Alpha", Kind: schedule.KindStations, Index: 0},
		{Title: "Treasure Hunt", Track: "Music", Kind: schedule.KindQuests, Index: 0},
	}
}

func titles(items []schedule.Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Title
	}
	return out
}

func TestFilter_IsEmpty(t *testing.T) {
	tests := []struct {
		name   string
		filter *Filter
		want   bool
	}{
		{"empty filter", NewFilter(), true},
		{"private only", &Filter{IncludePrivate: true}, true},
		{"with kinds", &Filter{Kinds: []schedule.Kind{schedule.KindMeals}}, false},
		{"with query", &Filter{Query: "quiz"}, false},
		{"favorites only with empty set", &Filter{FavoritesOnly: true}, false},
		{"date to", &Filter{DateTo: "2025-06-06"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.IsEmpty(); got != tt.want {
				t.Errorf("Filter.IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_Scopes(t *testing.T) {
	all := schedule.Kinds()
	quiz := sampleItems()[0]
	secret := sampleItems()[1]

	tests := []struct {
		name   string
		filter *Filter
		want   []string
	}{
		{
			name:   "combined excludes private",
			filter: Combined(all, false),
			want:   []string{"Morning Quiz", "Jam Session", "Lunch", "Camp Alpha", "Treasure Hunt"},
		},
		{
			name:   "combined with private",
			filter: Combined(all, true),
			want:   []string{"Morning Quiz", "Secret Rehearsal", "Jam Session", "Lunch", "Camp Alpha", "Treasure Hunt"},
		},
		{
			name:   "combined over enabled kinds only",
			filter: Combined([]schedule.Kind{schedule.KindMeals, schedule.KindStations}, false),
			want:   []string{"Lunch", "Camp Alpha"},
		},
		{
			name:   "track across lists",
			filter: ForTrack(all, "Music", false),
			want:   []string{"Jam Session", "Treasure Hunt"},
		},
		{
			name:   "track match is exact",
			filter: ForTrack(all, "music", false),
			want:   []string{},
		},
		{
			name:   "one source list",
			filter: ForKind(schedule.KindActivities, false),
			want:   []string{"Morning Quiz", "Jam Session"},
		},
		{
			name:   "favorites keep private picks",
			filter: ForFavorites(all, schedule.NewIDSet(quiz.ID(), secret.ID())),
			want:   []string{"Morning Quiz", "Secret Rehearsal"},
		},
		{
			name:   "empty favorites match nothing",
			filter: ForFavorites(all, schedule.NewIDSet()),
			want:   []string{},
		},
		{
			name:   "nil favorites match nothing",
			filter: ForFavorites(all, nil),
			want:   []string{},
		},
		{
			name:   "search over title and description",
			filter: ForSearch(all, "QUIZ", false),
			want:   []string{"Morning Quiz", "Lunch"},
		},
		{
			name:   "search over author",
			filter: ForSearch(all, "alice", false),
			want:   []string{"Jam Session"},
		},
		{
			name:   "search over track",
			filter: ForSearch(all, "geek", false),
			want:   []string{"Morning Quiz"},
		},
		{
			name:   "empty search matches all public",
			filter: ForSearch(all, "  ", false),
			want:   []string{"Morning Quiz", "Jam Session", "Lunch", "Camp Alpha", "Treasure Hunt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := titles(tt.filter.Apply(sampleItems()))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Apply() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_Matches(t *testing.T) {
	items := sampleItems()

	tests := []struct {
		name   string
		filter *Filter
		item   schedule.Item
		want   bool
	}{
		{"type case-insensitive", &Filter{Types: []string{"WORKSHOP"}}, items[2], true},
		{"type mismatch", &Filter{Types: []string{"workshop"}}, items[0], false},
		{"date in range", &Filter{DateFrom: "2025-06-06", DateTo: "2025-06-06"}, items[0], true},
		{"date after range", &Filter{DateTo: "2025-06-06"}, items[2], false},
		{"date before range", &Filter{DateFrom: "2025-06-07"}, items[0], false},
		{"undated excluded by range", &Filter{DateFrom: "2025-06-01"}, items[4], false},
		{"private rejected", NewFilter(), items[1], false},
		{"private allowed", &Filter{IncludePrivate: true}, items[1], true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(tt.item); got != tt.want {
				t.Errorf("Filter.Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_ApplyReturnsFreshSlice(t *testing.T) {
	items := sampleItems()
	got := NewFilter().Apply(items)
	got[0].Title = "changed"

	if items[0].Title != "Morning Quiz" {
		t.Error("Apply() must not share its result with the input")
	}
}

func TestFilter_String(t *testing.T) {
	if got := NewFilter().String(); got != "All public items" {
		t.Errorf("String() = %q", got)
	}

	f := &Filter{
		Kinds:    []schedule.Kind{schedule.KindActivities, schedule.KindMeals},
		Tracks:   []string{"Music"},
		DateFrom: "2025-06-06",
		Query:    "jam",
	}
	got := f.String()
	for _, want := range []string{"Kinds: activities, meals", "Tracks: Music", "From: 2025-06-06", "Search: jam"} {
		if !strings.Contains(got, want) {
			t.Errorf("String() = %q, missing %q", got, want)
		}
	}
}

func TestFilter_Clone(t *testing.T) {
	original := &Filter{
		Kinds:     []schedule.Kind{schedule.KindActivities},
		Tracks:    []string{"Music"},
		Favorites: schedule.NewIDSet("a"),
	}

	clone := original.Clone()
	clone.Kinds[0] = schedule.KindMeals
	clone.Tracks[0] = "Talks"
	clone.Favorites["b"] = struct{}{}

	if original.Kinds[0] != schedule.KindActivities || original.Tracks[0] != "Music" {
		t.Error("modifying clone slices affected the original")
	}
	if original.Favorites.Has("b") {
		t.Error("modifying clone favorites affected the original")
	}
}
