package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/event-schedule/internal/calendar"
	"github.com/pfrederiksen/event-schedule/internal/config"
	"github.com/pfrederiksen/event-schedule/internal/export"
	"github.com/pfrederiksen/event-schedule/internal/logger"
	"github.com/pfrederiksen/event-schedule/internal/storage"
)

const (
	ExitSuccess = 0
	ExitError   = 1
	// ExitSkipped is returned with --strict when events had to be skipped
	ExitSkipped = 2
)

// errSkipped signals ExitSkipped to Execute
var errSkipped = errors.New("some events were skipped")

var (
	flagLogLevel string
	flagConfig   string
	flagSchedule string
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule-ics",
		Short: "Export event schedules as iCalendar files",
		Long: `A CLI tool to turn an event schedule (activities, meals, stations and quests)
into iCalendar files: one complete calendar, one per track and one per data type,
plus favorites and search exports. It can also serve the schedule over HTTP.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setupLogging,
	}

	cmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn or error")
	cmd.PersistentFlags().StringVar(&flagConfig, "config", "config.json", "Config file (.json, .yaml or .yml); missing file means defaults")
	cmd.PersistentFlags().StringVar(&flagSchedule, "schedule", "schedule.json", "Schedule document: path or http(s) URL")

	cmd.AddCommand(
		newGenerateCmd(),
		newExportCmd(),
		newListCmd(),
		newValidateCmd(),
		newServeCmd(),
	)
	return cmd
}

func setupLogging(cmd *cobra.Command, _ []string) error {
	level, ok := logger.ParseLevel(flagLogLevel)
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))
	if !ok {
		logger.Warn("unknown log level, using info", logger.Fields{"level": flagLogLevel})
	}
	return nil
}

// loadConfig loads the config file. An unparsable file falls back to defaults with a warning.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		if !errors.Is(err, config.ErrInvalidConfig) {
			return nil, err
		}
		logger.Warn("invalid config, using defaults", logger.Fields{"path": flagConfig, "error": err.Error()})
	}
	return cfg, nil
}

// loadExporter reads the config and schedule and prepares an Exporter
func loadExporter() (*export.Exporter, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	doc, err := storage.LoadSchedule(context.Background(), flagSchedule)
	if err != nil {
		return nil, err
	}

	logger.Debug("schedule loaded", logger.Fields{
		"schedule":   flagSchedule,
		"activities": len(doc.Activities),
		"meals":      len(doc.Meals),
		"stations":   len(doc.Stations),
		"quests":     len(doc.Quests),
	})
	return export.New(doc, cfg, calendar.WithLogger(logger.Default())), nil
}

// Execute runs the CLI
func Execute() {
	err := NewRootCmd().Execute()
	switch {
	case err == nil:
		os.Exit(ExitSuccess)
	case errors.Is(err, errSkipped):
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		os.Exit(ExitSkipped)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
