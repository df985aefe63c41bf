package schedule

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Document is the root of a schedule: four source lists plus places
type Document struct {
	Activities []Item
	Meals      []Item
	Stations   []Item
	Quests     []Item
	Places     Places
}

// rawItem mirrors the JSON shape of any source list entry
type rawItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	TimeStart   string `json:"timeStart"`
	TimeEnd     string `json:"timeEnd"`
	Track       string `json:"track"`
	Author      string `json:"author"`
	AuthorURL   string `json:"authorUrl"`
	PlaceID     string `json:"placeId"`
	Private     bool   `json:"private"`
	Type        string `json:"type"`
	DayName     string `json:"dayName"`
}

type rawDocument struct {
	Activities []rawItem `json:"activities"`
	Meals      []rawItem `json:"meals"`
	Stations   []rawItem `json:"stations"`
	Quests     []rawItem `json:"quests"`
	Places     Places    `json:"places"`
}

// Parse decodes a schedule document from JSON
func Parse(r io.Reader) (*Document, error) {
	var raw rawDocument
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding schedule: %w", err)
	}

	return &Document{
		Activities: adaptActivities(raw.Activities),
		Meals:      adaptMeals(raw.Meals),
		Stations:   adaptStations(raw.Stations),
		Quests:     adaptQuests(raw.Quests),
		Places:     raw.Places,
	}, nil
}

// ParseBytes decodes a schedule document held in memory
func ParseBytes(data []byte) (*Document, error) {
	return Parse(bytes.NewReader(data))
}

func adaptActivities(raws []rawItem) []Item {
	return adapt(KindActivities, raws, "general")
}

// Meals usually carry only a time window; the title doubles as the meal name.
func adaptMeals(raws []rawItem) []Item {
	return adapt(KindMeals, raws, "meal")
}

// Stations and quests usually run for the whole event and carry no date or time.
func adaptStations(raws []rawItem) []Item {
	return adapt(KindStations, raws, "station")
}

func adaptQuests(raws []rawItem) []Item {
	return adapt(KindQuests, raws, "quest")
}

func adapt(kind Kind, raws []rawItem, defaultType string) []Item {
	items := make([]Item, 0, len(raws))
	for i, r := range raws {
		item := Item{
			Title:       strings.TrimSpace(r.Title),
			Description: r.Description,
			Date:        strings.TrimSpace(r.Date),
			TimeStart:   strings.TrimSpace(r.TimeStart),
			TimeEnd:     strings.TrimSpace(r.TimeEnd),
			Track:       strings.TrimSpace(r.Track),
			Author:      strings.TrimSpace(r.Author),
			AuthorURL:   strings.TrimSpace(r.AuthorURL),
			PlaceID:     strings.TrimSpace(r.PlaceID),
			Private:     r.Private,
			Type:        strings.TrimSpace(r.Type),
			DayName:     strings.TrimSpace(r.DayName),
			Kind:        kind,
			Index:       i,
		}
		if item.Type == "" {
			item.Type = defaultType
		}
		items = append(items, item)
	}
	return items
}

// List returns the items of a single source list
func (d *Document) List(kind Kind) []Item {
	switch kind {
	case KindActivities:
		return d.Activities
	case KindMeals:
		return d.Meals
	case KindStations:
		return d.Stations
	case KindQuests:
		return d.Quests
	}
	return nil
}

// Items returns the union of the given source lists, in the order given.
// With no kinds, all lists are included.
func (d *Document) Items(kinds ...Kind) []Item {
	if len(kinds) == 0 {
		kinds = Kinds()
	}
	var all []Item
	for _, k := range kinds {
		all = append(all, d.List(k)...)
	}
	return all
}

// Tracks returns the distinct non-empty tracks in order of first appearance
func (d *Document) Tracks(kinds ...Kind) []string {
	seen := make(map[string]bool)
	var tracks []string
	for _, item := range d.Items(kinds...) {
		if item.Track == "" || seen[item.Track] {
			continue
		}
		seen[item.Track] = true
		tracks = append(tracks, item.Track)
	}
	return tracks
}

// Types returns the distinct item types in order of first appearance
func (d *Document) Types() []string {
	seen := make(map[string]bool)
	var types []string
	for _, item := range d.Items() {
		if item.Type == "" || seen[item.Type] {
			continue
		}
		seen[item.Type] = true
		types = append(types, item.Type)
	}
	return types
}

// Days returns the distinct dates of timed and dated items, sorted ascending
func (d *Document) Days() []string {
	seen := make(map[string]bool)
	var days []string
	for _, item := range d.Items() {
		if item.Date == "" || seen[item.Date] {
			continue
		}
		if _, ok := ParseDate(item.Date); !ok {
			continue
		}
		seen[item.Date] = true
		days = append(days, item.Date)
	}
	sort.Strings(days)
	return days
}

// Places is the place table, keyed by place ID. It decodes from either a JSON array of places
// or an object keyed by ID.
type Places map[string]Place

// UnmarshalJSON accepts both the array and the object form
func (p *Places) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*p = Places{}
		return nil
	}

	out := Places{}
	if trimmed[0] == '[' {
		var list []Place
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return fmt.Errorf("decoding places: %w", err)
		}
		for _, place := range list {
			if place.ID == "" {
				continue
			}
			out[place.ID] = place
		}
		*p = out
		return nil
	}

	var byID map[string]Place
	if err := json.Unmarshal(trimmed, &byID); err != nil {
		return fmt.Errorf("decoding places: %w", err)
	}
	for id, place := range byID {
		if place.ID == "" {
			place.ID = id
		}
		out[id] = place
	}
	*p = out
	return nil
}

// Lookup returns the place with the given ID
func (p Places) Lookup(id string) (Place, bool) {
	place, ok := p[id]
	return place, ok
}
