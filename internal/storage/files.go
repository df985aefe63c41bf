package storage

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pfrederiksen/event-schedule/internal/export"
	"github.com/pfrederiksen/event-schedule/internal/logger"
	"github.com/pfrederiksen/event-schedule/internal/schedule"
	"github.com/pfrederiksen/event-schedule/internal/source"
)

// LoadSchedule reads and parses a schedule document from a path or an http(s) URL
func LoadSchedule(ctx context.Context, location string) (*schedule.Document, error) {
	if !source.IsURL(location) {
		path, err := ExpandHome(location)
		if err != nil {
			return nil, err
		}
		location = path
	}

	data, err := source.New().Read(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("loading schedule: %w", err)
	}

	doc, err := schedule.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parsing schedule %s: %w", location, err)
	}
	return doc, nil
}

// WriteFileAtomic writes data to a temp file in the target directory and renames it into place
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()        // nolint:errcheck
		os.Remove(tmpName) // nolint:errcheck
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName) // nolint:errcheck
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		os.Remove(tmpName) // nolint:errcheck
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName) // nolint:errcheck
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// WrittenFile describes one calendar saved by WriteCalendars
type WrittenFile struct {
	Path    string       `json:"path"`
	Name    string       `json:"name"`
	Scope   export.Scope `json:"scope"`
	Key     string       `json:"key,omitempty"`
	Emoji   string       `json:"emoji"`
	Events  int          `json:"events"`
	Skipped int          `json:"skipped"`
}

// WriteCalendars saves each calendar under dir using its FileName
func WriteCalendars(dir string, calendars []*export.Calendar) ([]WrittenFile, error) {
	dir, err := ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	written := make([]WrittenFile, 0, len(calendars))
	for _, c := range calendars {
		path := filepath.Join(dir, c.FileName)
		if err := WriteFileAtomic(path, c.Doc.Bytes(), 0644); err != nil {
			return written, fmt.Errorf("writing %s: %w", c.FileName, err)
		}
		logger.IncrCounter("export.files_written")
		written = append(written, WrittenFile{
			Path:    path,
			Name:    c.Doc.Name,
			Scope:   c.Scope,
			Key:     c.Key,
			Emoji:   c.Emoji,
			Events:  len(c.Doc.Events),
			Skipped: len(c.Doc.Skipped),
		})
	}
	return written, nil
}

// WriteJSON writes v as indented JSON
func WriteJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	data = append(data, '\n')

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory: %w", err)
		}
	}
	return WriteFileAtomic(path, data, 0644)
}

// ReadIDList reads a favorites export: a JSON array of ActivityIds, a Favorites object,
// or plain text with one ActivityId per line.
func ReadIDList(path string) (schedule.IDSet, error) {
	path, err := ExpandHome(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading favorites: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0:
		return schedule.NewIDSet(), nil
	case trimmed[0] == '[':
		var ids []string
		if err := json.Unmarshal(trimmed, &ids); err != nil {
			return nil, fmt.Errorf("parsing favorites: %w", err)
		}
		return schedule.NewIDSet(normalizeIDs(ids)...), nil
	case trimmed[0] == '{':
		var fav Favorites
		if err := json.Unmarshal(trimmed, &fav); err != nil {
			return nil, fmt.Errorf("parsing favorites: %w", err)
		}
		return schedule.NewIDSet(normalizeIDs(fav.IDs)...), nil
	}

	var ids []string
	scanner := bufio.NewScanner(bytes.NewReader(trimmed))
	for scanner.Scan() {
		ids = append(ids, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading favorites: %w", err)
	}
	return schedule.NewIDSet(normalizeIDs(ids)...), nil
}
