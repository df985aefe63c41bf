package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pfrederiksen/event-schedule/internal/schedule"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByDate  SortOrder = "date"
	SortByTrack SortOrder = "track"
	SortByTitle SortOrder = "title"
)

func parseSortOrder(s string) (SortOrder, error) {
	switch order := SortOrder(strings.ToLower(s)); order {
	case SortByDate, SortByTrack, SortByTitle:
		return order, nil
	}
	return "", fmt.Errorf("invalid sort order: %s (must be 'date', 'track' or 'title')", s)
}

// sortItems sorts a slice of items based on the specified sort order
func sortItems(items []schedule.Item, sortOrder SortOrder, boundaryHour int) {
	// Date order first so ties in the other orders fall back to it
	schedule.SortByStart(items, boundaryHour)

	switch sortOrder {
	case SortByTrack:
		sort.SliceStable(items, func(i, j int) bool {
			a, b := items[i].Track, items[j].Track
			if a == "" || b == "" {
				return a != "" && b == ""
			}
			return strings.ToLower(a) < strings.ToLower(b)
		})
	case SortByTitle:
		sort.SliceStable(items, func(i, j int) bool {
			return strings.ToLower(items[i].Title) < strings.ToLower(items[j].Title)
		})
	}
}
