package schedule

import (
	"strings"
)

// Kind identifies the source list an item was loaded from
type Kind string

const (
	KindActivities Kind = "activities"
	KindMeals      Kind = "meals"
	KindStations   Kind = "stations"
	KindQuests     Kind = "quests"
)

// Kinds returns every known source list in document order
func Kinds() []Kind {
	return []Kind{KindActivities, KindMeals, KindStations, KindQuests}
}

// ParseKind converts a list name into a Kind
func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds() {
		if k == known {
			return k, true
		}
	}
	return "", false
}

// Item is a single schedule record. Activities, meals, stations and quests share this shape;
// Kind and Index record where the item came from.
type Item struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date,omitempty"`
	TimeStart   string `json:"timeStart,omitempty"`
	TimeEnd     string `json:"timeEnd,omitempty"`
	Track       string `json:"track,omitempty"`
	Author      string `json:"author,omitempty"`
	AuthorURL   string `json:"authorUrl,omitempty"`
	PlaceID     string `json:"placeId,omitempty"`
	Private     bool   `json:"private,omitempty"`
	Type        string `json:"type,omitempty"`
	DayName     string `json:"dayName,omitempty"`

	Kind  Kind `json:"kind"`
	Index int  `json:"index"`
}

// ActivityID returns the identity used for favorites lookups: date_timeStart_title.
// Two items sharing date, start time and title get the same ID.
func ActivityID(item Item) string {
	return item.Date + "_" + item.TimeStart + "_" + item.Title
}

// ID is a convenience wrapper around ActivityID
func (i Item) ID() string {
	return ActivityID(i)
}

// IsTimed reports whether the item carries a start time
func (i Item) IsTimed() bool {
	return strings.TrimSpace(i.TimeStart) != ""
}

// Place is a location referenced by items through PlaceID
type Place struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
}

// IDSet is a set of ActivityID strings, used for favorites
type IDSet map[string]struct{}

// NewIDSet builds a set from a list of IDs
func NewIDSet(ids ...string) IDSet {
	set := make(IDSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Has reports whether id is in the set
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}
