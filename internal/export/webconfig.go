package export

import (
	"github.com/pfrederiksen/event-schedule/internal/config"
	"github.com/pfrederiksen/event-schedule/internal/schedule"
)

// WebConfig bootstraps the browser timetable: detected tracks, available lists and the
// UI and localization settings. It is written as web_config.json.
type WebConfig struct {
	Event        WebEvent            `json:"event"`
	Tracks       []WebTrack          `json:"tracks"`
	DataTypes    []schedule.Kind     `json:"dataTypes"`
	Days         []string            `json:"days"`
	UI           config.UIConfig     `json:"ui"`
	Localization config.Localization `json:"localization"`
}

// WebEvent names the event in the viewer header
type WebEvent struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Timezone    string `json:"timezone"`
}

// WebTrack describes one detected track
type WebTrack struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Emoji       string `json:"emoji"`
	Color       string `json:"color,omitempty"`
	Description string `json:"description"`
}

// WebConfig summarises the schedule for the browser client
func (e *Exporter) WebConfig() WebConfig {
	wc := WebConfig{
		Event: WebEvent{
			Name:        e.cfg.Event.Name,
			Description: e.cfg.Event.Description,
			Timezone:    e.cfg.Event.Timezone,
		},
		Tracks:       make([]WebTrack, 0, len(e.tracks)),
		DataTypes:    []schedule.Kind{},
		Days:         e.doc.Days(),
		UI:           e.cfg.UI,
		Localization: e.cfg.Localization,
	}

	for _, track := range e.tracks {
		m := e.table[track]
		emoji := m.Emoji
		if emoji == "" {
			emoji = e.cfg.Tracks.DefaultEmoji
		}
		description := m.Description
		if description == "" {
			description = track
		}
		wc.Tracks = append(wc.Tracks, WebTrack{
			Name:        track,
			Slug:        e.slugs[track],
			Emoji:       emoji,
			Color:       m.Color,
			Description: description,
		})
	}

	for _, kind := range e.cfg.DataTypes.Enabled() {
		if len(e.doc.List(kind)) > 0 {
			wc.DataTypes = append(wc.DataTypes, kind)
		}
	}

	if wc.Days == nil {
		wc.Days = []string{}
	}
	return wc
}
