package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pfrederiksen/event-schedule/internal/schedule"
)

// DefaultDataDir is where favorites live unless --data-dir says otherwise
const DefaultDataDir = "~/.local/share/schedule-ics"

// ErrInvalidProfile is returned for profile names that cannot be used as file names
var ErrInvalidProfile = errors.New("invalid profile name")

var profilePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Storage handles persistence of favorites
type Storage struct {
	dataDir string
	mu      sync.Mutex
	now     func() time.Time
}

// Favorites is the saved favorites set of one profile
type Favorites struct {
	Profile   string   `json:"profile"`
	IDs       []string `json:"ids"`
	UpdatedAt string   `json:"updated_at,omitempty"`
}

// Set returns the favorites as an ActivityId set
func (f *Favorites) Set() schedule.IDSet {
	return schedule.NewIDSet(f.IDs...)
}

// ExpandHome replaces a leading ~/ with the user's home directory
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path[1:], "/")), nil
}

// New creates a Storage rooted at dataDir, creating the directory if needed
func New(dataDir string) (*Storage, error) {
	dataDir, err := ExpandHome(dataDir)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
		now:     time.Now,
	}, nil
}

// Dir returns the resolved data directory
func (s *Storage) Dir() string {
	return s.dataDir
}

func (s *Storage) favoritesPath(profile string) (string, error) {
	if !profilePattern.MatchString(profile) {
		return "", fmt.Errorf("%w: %q", ErrInvalidProfile, profile)
	}
	return filepath.Join(s.dataDir, fmt.Sprintf("favorites_%s.json", profile)), nil
}

// LoadFavorites loads the favorites of a profile. A profile without a file has no favorites.
func (s *Storage) LoadFavorites(profile string) (*Favorites, error) {
	path, err := s.favoritesPath(profile)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Favorites{Profile: profile, IDs: []string{}}, nil
		}
		return nil, fmt.Errorf("reading favorites: %w", err)
	}

	var fav Favorites
	if err := json.Unmarshal(data, &fav); err != nil {
		return nil, fmt.Errorf("parsing favorites: %w", err)
	}
	fav.Profile = profile
	if fav.IDs == nil {
		fav.IDs = []string{}
	}
	return &fav, nil
}

// SaveFavorites replaces the favorites of a profile. IDs are de-duplicated and sorted.
func (s *Storage) SaveFavorites(profile string, ids []string) (*Favorites, error) {
	path, err := s.favoritesPath(profile)
	if err != nil {
		return nil, err
	}

	fav := &Favorites{
		Profile:   profile,
		IDs:       normalizeIDs(ids),
		UpdatedAt: s.now().UTC().Format(time.RFC3339),
	}

	data, err := json.MarshalIndent(fav, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding favorites: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := WriteFileAtomic(path, data, 0644); err != nil {
		return nil, fmt.Errorf("writing favorites: %w", err)
	}
	return fav, nil
}

// canonicalID rewrites an ActivityId exported by the browser viewer into the form
// schedule.ActivityID builds. The viewer keeps untrimmed values and writes a missing
// date or start time as "undefined".
func canonicalID(id string) string {
	id = strings.TrimSpace(id)
	parts := strings.SplitN(id, "_", 3)
	if len(parts) != 3 {
		return id
	}
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if i < 2 && part == "undefined" {
			part = ""
		}
		parts[i] = part
	}
	if parts[0] == "" && parts[1] == "" && parts[2] == "" {
		return ""
	}
	return strings.Join(parts, "_")
}

func normalizeIDs(ids []string) []string {
	set := schedule.NewIDSet()
	for _, id := range ids {
		if id = canonicalID(id); id != "" {
			set[id] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
