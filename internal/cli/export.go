package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/event-schedule/internal/export"
	"github.com/pfrederiksen/event-schedule/internal/logger"
	"github.com/pfrederiksen/event-schedule/internal/schedule"
	"github.com/pfrederiksen/event-schedule/internal/storage"
)

var (
	flagScope         string
	flagTrack         string
	flagType          string
	flagQuery         string
	flagFavoritesFile string
	flagProfile       string
	flagDataDir       string
	flagOutput        string
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a single calendar",
		Long: `Write one calendar: the complete schedule, one track, one data type, a favorites
selection or the results of a search. Use -o - to write to stdout.`,
		Example: `  schedule-ics export --scope track --track "Main Stage"
  schedule-ics export --scope search --query quiz -o -
  schedule-ics export --scope favorites --favorites favorites.json`,
		Args: cobra.NoArgs,
		RunE: runExport,
	}

	cmd.Flags().StringVar(&flagScope, "scope", "complete", "complete, track, type, favorites or search")
	cmd.Flags().StringVar(&flagTrack, "track", "", "Track name or slug (scope track)")
	cmd.Flags().StringVar(&flagType, "type", "", "Data type: activities, meals, stations or quests (scope type)")
	cmd.Flags().StringVar(&flagQuery, "query", "", "Search text (scope search)")
	cmd.Flags().StringVar(&flagFavoritesFile, "favorites", "", "File with ActivityIds: JSON array or one per line (scope favorites)")
	cmd.Flags().StringVar(&flagProfile, "profile", "", "Favorites profile from the data directory (scope favorites)")
	cmd.Flags().StringVar(&flagDataDir, "data-dir", storage.DefaultDataDir, "Data directory for favorites")
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output file; default is the calendar's file name, - for stdout")

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	scope, err := export.ParseScope(flagScope)
	if err != nil {
		return err
	}

	exp, err := loadExporter()
	if err != nil {
		return err
	}

	c, err := buildScope(exp, scope)
	if err != nil {
		return err
	}

	if flagOutput == "-" {
		_, err := cmd.OutOrStdout().Write(c.Doc.Bytes())
		return err
	}

	path := flagOutput
	if path == "" {
		path = c.FileName
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := storage.WriteFileAtomic(path, c.Doc.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	logger.IncrCounter("export.files_written")

	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s (%d events)\n", filepath.Clean(path), len(c.Doc.Events))
	for _, s := range c.Doc.Skipped {
		fmt.Fprintf(cmd.OutOrStdout(), "  ⚠ skipped %q (%s #%d): %s\n", s.Title, s.Kind, s.Index, s.Reason)
	}
	return nil
}

func buildScope(exp *export.Exporter, scope export.Scope) (*export.Calendar, error) {
	switch scope {
	case export.ScopeCombined:
		return exp.Combined(), nil

	case export.ScopeTrack:
		if flagTrack == "" {
			return nil, fmt.Errorf("--track is required for scope track")
		}
		track := flagTrack
		if name, ok := exp.TrackBySlug(flagTrack); ok {
			track = name
		}
		return exp.Track(track)

	case export.ScopeDataType:
		kind, ok := schedule.ParseKind(flagType)
		if !ok {
			return nil, fmt.Errorf("--type must be one of activities, meals, stations or quests")
		}
		return exp.DataType(kind)

	case export.ScopeFavorites:
		ids, err := favoriteIDs()
		if err != nil {
			return nil, err
		}
		return exp.Favorites(ids), nil

	case export.ScopeSearch:
		if flagQuery == "" {
			return nil, fmt.Errorf("--query is required for scope search")
		}
		return exp.Search(flagQuery), nil
	}
	return nil, fmt.Errorf("unsupported scope %q", scope)
}

// favoriteIDs merges --favorites and --profile
func favoriteIDs() (schedule.IDSet, error) {
	if flagFavoritesFile == "" && flagProfile == "" {
		return nil, errors.New("--favorites or --profile is required for scope favorites")
	}

	ids := schedule.NewIDSet()
	if flagFavoritesFile != "" {
		fromFile, err := storage.ReadIDList(flagFavoritesFile)
		if err != nil {
			return nil, err
		}
		for id := range fromFile {
			ids[id] = struct{}{}
		}
	}

	if flagProfile != "" {
		store, err := storage.New(flagDataDir)
		if err != nil {
			return nil, fmt.Errorf("initializing storage: %w", err)
		}
		fav, err := store.LoadFavorites(flagProfile)
		if err != nil {
			return nil, err
		}
		for _, id := range fav.IDs {
			ids[id] = struct{}{}
		}
	}
	return ids, nil
}
