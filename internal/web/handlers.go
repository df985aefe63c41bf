package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/pfrederiksen/event-schedule/internal/calendar"
	"github.com/pfrederiksen/event-schedule/internal/export"
	"github.com/pfrederiksen/event-schedule/internal/logger"
	"github.com/pfrederiksen/event-schedule/internal/schedule"
	"github.com/pfrederiksen/event-schedule/internal/storage"
)

const maxFavoritesBody = 1 << 20

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /{$}", s.handleTimetable)
	s.mux.HandleFunc("GET /api/schedule", s.handleSchedule)
	s.mux.HandleFunc("GET /api/metrics", s.handleMetrics)
	s.mux.HandleFunc("GET /web_config.json", s.handleWebConfig)

	s.mux.HandleFunc("GET /export/complete.ics", s.handleExportCombined)
	s.mux.HandleFunc("GET /export/track/{file}", s.handleExportTrack)
	s.mux.HandleFunc("GET /export/type/{file}", s.handleExportType)
	s.mux.HandleFunc("GET /export/search.ics", s.handleExportSearch)
	s.mux.HandleFunc("GET /export/favorites.ics", s.handleExportFavorites)

	s.mux.HandleFunc("GET /api/favorites/{profile}", s.handleGetFavorites)
	s.mux.HandleFunc("PUT /api/favorites/{profile}", s.handlePutFavorites)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, logger.GetMetricsSnapshot())
}

func (s *Server) handleWebConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Exporter().WebConfig())
}

// scheduleItem is an item as returned by /api/schedule
type scheduleItem struct {
	schedule.Item
	ID    string `json:"id"`
	Emoji string `json:"emoji"`
	Place string `json:"place,omitempty"`
}

type scheduleResponse struct {
	Query string         `json:"query"`
	Count int            `json:"count"`
	Items []scheduleItem `json:"items"`
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	exp := s.Exporter()
	q := r.URL.Query().Get("q")

	items, err := exp.Query(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	cfg := exp.Config()
	schedule.SortByStart(items, cfg.Schedule.DayBoundaryHour)

	resp := scheduleResponse{
		Query: q,
		Count: len(items),
		Items: make([]scheduleItem, 0, len(items)),
	}
	places := exp.Document().Places
	for _, item := range items {
		si := scheduleItem{
			Item:  item,
			ID:    item.ID(),
			Emoji: calendar.ResolveEmoji(item, cfg.DataTypes.For(item.Kind).DefaultEmoji, cfg, exp.TrackTable()),
		}
		if place, ok := places.Lookup(item.PlaceID); ok {
			si.Place = place.Title
		}
		resp.Items = append(resp.Items, si)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExportCombined(w http.ResponseWriter, r *http.Request) {
	s.writeCalendar(w, r, s.Exporter().Combined())
}

func (s *Server) handleExportTrack(w http.ResponseWriter, r *http.Request) {
	slug, ok := icsName(r)
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	exp := s.Exporter()
	track, ok := exp.TrackBySlug(slug)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown track %q", slug))
		return
	}
	c, err := exp.Track(track)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.writeCalendar(w, r, c)
}

func (s *Server) handleExportType(w http.ResponseWriter, r *http.Request) {
	name, ok := icsName(r)
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	kind, ok := schedule.ParseKind(name)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown data type %q", name))
		return
	}

	c, err := s.Exporter().DataType(kind)
	if errors.Is(err, export.ErrKindDisabled) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeCalendar(w, r, c)
}

func (s *Server) handleExportSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "missing query parameter q")
		return
	}
	s.writeCalendar(w, r, s.Exporter().Search(q))
}

// handleExportFavorites exports the union of a stored profile and ids given in the URL
func (s *Server) handleExportFavorites(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	ids := schedule.NewIDSet(query["ids"]...)

	if profile := query.Get("profile"); profile != "" {
		if s.store == nil {
			writeError(w, http.StatusNotFound, "favorites store disabled")
			return
		}
		fav, err := s.store.LoadFavorites(profile)
		if err != nil {
			s.writeStoreError(w, err)
			return
		}
		for _, id := range fav.IDs {
			ids[id] = struct{}{}
		}
	}

	s.writeCalendar(w, r, s.Exporter().Favorites(ids))
}

func (s *Server) handleGetFavorites(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "favorites store disabled")
		return
	}
	fav, err := s.store.LoadFavorites(r.PathValue("profile"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fav)
}

func (s *Server) handlePutFavorites(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "favorites store disabled")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxFavoritesBody))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}
	ids, err := decodeIDs(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	fav, err := s.store.SaveFavorites(r.PathValue("profile"), ids)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.log.Info("favorites saved", logger.Fields{"profile": fav.Profile, "count": len(fav.IDs)})
	writeJSON(w, http.StatusOK, fav)
}

// decodeIDs accepts either {"ids": [...]} or a bare JSON array
func decodeIDs(body []byte) ([]string, error) {
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "[") {
		var ids []string
		if err := json.Unmarshal([]byte(trimmed), &ids); err != nil {
			return nil, fmt.Errorf("invalid favorites list: %w", err)
		}
		return ids, nil
	}

	var payload struct {
		IDs []string `json:"ids"`
	}
	if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
		return nil, fmt.Errorf("invalid favorites payload: %w", err)
	}
	return payload.IDs, nil
}

func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrInvalidProfile) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.log.Error("favorites store failed", nil, err)
	writeError(w, http.StatusInternalServerError, "favorites store failed")
}

// writeCalendar sends a calendar as a download. With ?inline=1 it is served inline so
// calendar apps can subscribe to the URL.
func (s *Server) writeCalendar(w http.ResponseWriter, r *http.Request, c *export.Calendar) {
	disposition := "attachment"
	if r.URL.Query().Get("inline") == "1" {
		disposition = "inline"
	}

	h := w.Header()
	h.Set("Content-Type", "text/calendar; charset=utf-8")
	h.Set("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": c.FileName}))
	h.Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(c.Doc.Bytes())

	logger.IncrCounter("web.exports_served")
	s.log.Debug("calendar served", logger.Fields{
		"scope":   string(c.Scope),
		"file":    c.FileName,
		"events":  len(c.Doc.Events),
		"skipped": len(c.Doc.Skipped),
	})
}

// icsName returns the {file} path value without its .ics extension
func icsName(r *http.Request) (string, bool) {
	name, ok := strings.CutSuffix(r.PathValue("file"), ".ics")
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
