// Package filter selects schedule items for calendar exports.
//
// A Filter combines several criteria, all of which must hold:
//   - Source lists (activities, meals, stations, quests)
//   - Tracks (exact match on the track name)
//   - Item types (case-insensitive)
//   - Free-text query over title, description, author and track
//   - Date range (ISO dates, inclusive)
//   - Favorites (ActivityId membership)
//   - Private items, excluded unless IncludePrivate is set
//
// The export scopes are available as constructors:
//
//	f := filter.ForTrack(cfg.DataTypes.Enabled(), "🧠 Geek Zone", cfg.ExportOptions.IncludePrivateEvents)
//	items := f.Apply(doc.Items())
package filter

import (
	"fmt"
	"strings"

	"github.com/pfrederiksen/event-schedule/internal/schedule"
)

// Filter represents item selection criteria
type Filter struct {
	// Source lists to draw from; empty means all
	Kinds []schedule.Kind `json:"kinds,omitempty"`

	// Exact track names, any of
	Tracks []string `json:"tracks,omitempty"`

	// Item types such as "general" or "workshop", any of (case-insensitive)
	Types []string `json:"types,omitempty"`

	// Case-insensitive substring over title, description, author and track
	Query string `json:"query,omitempty"`

	// Inclusive ISO date range. Undated items never match a range.
	DateFrom string `json:"date_from,omitempty"`
	DateTo   string `json:"date_to,omitempty"`

	IncludePrivate bool `json:"include_private,omitempty"`

	// FavoritesOnly restricts matches to Favorites, so an empty set matches nothing
	FavoritesOnly bool           `json:"favorites_only,omitempty"`
	Favorites     schedule.IDSet `json:"-"`
}

// NewFilter creates a filter with no active criteria.
// It matches every item that is not private.
func NewFilter() *Filter {
	return &Filter{}
}

// Combined selects every item of the given lists
func Combined(kinds []schedule.Kind, includePrivate bool) *Filter {
	return &Filter{Kinds: kinds, IncludePrivate: includePrivate}
}

// ForTrack selects the items of one track across the given lists
func ForTrack(kinds []schedule.Kind, track string, includePrivate bool) *Filter {
	return &Filter{Kinds: kinds, Tracks: []string{track}, IncludePrivate: includePrivate}
}

// ForKind selects the items of exactly one source list
func ForKind(kind schedule.Kind, includePrivate bool) *Filter {
	return &Filter{Kinds: []schedule.Kind{kind}, IncludePrivate: includePrivate}
}

// ForFavorites selects the items whose ActivityId is in ids. The user picked these
// items explicitly, so private ones are kept and exported as CLASS:PRIVATE.
func ForFavorites(kinds []schedule.Kind, ids schedule.IDSet) *Filter {
	return &Filter{Kinds: kinds, FavoritesOnly: true, Favorites: ids, IncludePrivate: true}
}

// ForSearch selects the items matching a free-text query. An empty query matches all items.
func ForSearch(kinds []schedule.Kind, query string, includePrivate bool) *Filter {
	return &Filter{Kinds: kinds, Query: strings.TrimSpace(query), IncludePrivate: includePrivate}
}

// IsEmpty reports whether the filter has no criteria besides the private rule
func (f *Filter) IsEmpty() bool {
	return len(f.Kinds) == 0 &&
		len(f.Tracks) == 0 &&
		len(f.Types) == 0 &&
		f.Query == "" &&
		f.DateFrom == "" &&
		f.DateTo == "" &&
		!f.FavoritesOnly
}

// Matches reports whether an item satisfies every active criterion
func (f *Filter) Matches(item schedule.Item) bool {
	if item.Private && !f.IncludePrivate {
		return false
	}

	if len(f.Kinds) > 0 && !containsKind(f.Kinds, item.Kind) {
		return false
	}

	if len(f.Tracks) > 0 {
		matched := false
		for _, track := range f.Tracks {
			if item.Track == track {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if len(f.Types) > 0 {
		matched := false
		for _, typ := range f.Types {
			if strings.EqualFold(item.Type, typ) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if f.DateFrom != "" || f.DateTo != "" {
		// ISO dates compare correctly as strings
		if item.Date == "" {
			return false
		}
		if f.DateFrom != "" && item.Date < f.DateFrom {
			return false
		}
		if f.DateTo != "" && item.Date > f.DateTo {
			return false
		}
	}

	if f.FavoritesOnly && !f.Favorites.Has(item.ID()) {
		return false
	}

	if f.Query != "" && !matchesQuery(item, f.Query) {
		return false
	}

	return true
}

func matchesQuery(item schedule.Item, query string) bool {
	q := strings.ToLower(query)
	for _, field := range []string{item.Title, item.Description, item.Author, item.Track} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

func containsKind(kinds []schedule.Kind, kind schedule.Kind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Apply returns the matching items in their original order.
// The result is always a new slice.
func (f *Filter) Apply(items []schedule.Item) []schedule.Item {
	filtered := make([]schedule.Item, 0, len(items))
	for _, item := range items {
		if f.Matches(item) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// String returns a human-readable description of the active criteria.
// Format: "Kinds: activities, meals | Tracks: Music | Search: quiz"
func (f *Filter) String() string {
	if f.IsEmpty() {
		if f.IncludePrivate {
			return "All items"
		}
		return "All public items"
	}

	var parts []string

	if len(f.Kinds) > 0 {
		names := make([]string, len(f.Kinds))
		for i, k := range f.Kinds {
			names[i] = string(k)
		}
		parts = append(parts, fmt.Sprintf("Kinds: %s", strings.Join(names, ", ")))
	}

	if len(f.Tracks) > 0 {
		parts = append(parts, fmt.Sprintf("Tracks: %s", strings.Join(f.Tracks, ", ")))
	}

	if len(f.Types) > 0 {
		parts = append(parts, fmt.Sprintf("Types: %s", strings.Join(f.Types, ", ")))
	}

	if f.DateFrom != "" {
		parts = append(parts, fmt.Sprintf("From: %s", f.DateFrom))
	}

	if f.DateTo != "" {
		parts = append(parts, fmt.Sprintf("To: %s", f.DateTo))
	}

	if f.FavoritesOnly {
		parts = append(parts, fmt.Sprintf("Favorites: %d", len(f.Favorites)))
	}

	if f.Query != "" {
		parts = append(parts, fmt.Sprintf("Search: %s", f.Query))
	}

	if f.IncludePrivate {
		parts = append(parts, "Including private")
	}

	return strings.Join(parts, " | ")
}

// Clone creates a deep copy of the filter
func (f *Filter) Clone() *Filter {
	clone := *f

	if f.Kinds != nil {
		clone.Kinds = append([]schedule.Kind(nil), f.Kinds...)
	}
	if f.Tracks != nil {
		clone.Tracks = append([]string(nil), f.Tracks...)
	}
	if f.Types != nil {
		clone.Types = append([]string(nil), f.Types...)
	}
	if f.Favorites != nil {
		clone.Favorites = make(schedule.IDSet, len(f.Favorites))
		for id := range f.Favorites {
			clone.Favorites[id] = struct{}{}
		}
	}

	return &clone
}
