package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/event-schedule/internal/calendar"
	"github.com/pfrederiksen/event-schedule/internal/logger"
	"github.com/pfrederiksen/event-schedule/internal/storage"
)

var (
	flagOutDir    string
	flagWebConfig string
	flagVerify    bool
	flagStrict    bool
	flagFormat    string
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write every configured calendar file",
		Long: `Write the complete calendar, one calendar per track and one per enabled data type
into the output directory, as selected by export_options in the config.`,
		Args: cobra.NoArgs,
		RunE: runGenerate,
	}

	cmd.Flags().StringVar(&flagOutDir, "out", "ics_files", "Output directory for .ics files")
	cmd.Flags().StringVar(&flagWebConfig, "web-config", "", "Also write the web viewer summary to this path (e.g. web_config.json)")
	cmd.Flags().BoolVar(&flagVerify, "verify", false, "Re-parse every written calendar")
	cmd.Flags().BoolVar(&flagStrict, "strict", false, "Exit with status 2 when events had to be skipped")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")

	return cmd
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	format, err := parseFormat(flagFormat)
	if err != nil {
		return err
	}

	exp, err := loadExporter()
	if err != nil {
		return err
	}

	start := time.Now()
	calendars := exp.All()

	written, err := storage.WriteCalendars(flagOutDir, calendars)
	if err != nil {
		return err
	}

	result := &GenerateResult{
		GeneratedAt: time.Now().UTC(),
		OutDir:      flagOutDir,
		Files:       written,
		Skipped:     []SkippedEvent{},
	}
	for i, c := range calendars {
		result.EventCount += len(c.Doc.Events)
		for _, s := range c.Doc.Skipped {
			result.Skipped = append(result.Skipped, SkippedEvent{File: written[i].Path, SkipError: s})
		}
	}

	if flagVerify {
		for _, f := range written {
			if err := verifyFile(f.Path, f.Events); err != nil {
				return err
			}
		}
		result.Verified = true
	}

	if flagWebConfig != "" {
		if err := storage.WriteJSON(flagWebConfig, exp.WebConfig()); err != nil {
			return fmt.Errorf("writing web config: %w", err)
		}
		result.WebConfig = flagWebConfig
	}

	logger.Info("calendars generated", logger.Fields{
		"files":       len(written),
		"events":      result.EventCount,
		"skipped":     len(result.Skipped),
		"duration_ms": time.Since(start).Milliseconds(),
	})

	if err := WriteOutput(cmd.OutOrStdout(), result, format); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if flagStrict && len(result.Skipped) > 0 {
		return fmt.Errorf("%w: %d", errSkipped, len(result.Skipped))
	}
	return nil
}

// verifyFile re-parses a written calendar and checks its event count
func verifyFile(path string, events int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("verifying %s: %w", path, err)
	}
	report, err := calendar.Validate(data)
	if err != nil {
		return fmt.Errorf("verifying %s: %w", path, err)
	}
	if report.Events != events {
		return fmt.Errorf("verifying %s: parsed %d events, wrote %d", path, report.Events, events)
	}
	for _, p := range report.Problems {
		logger.Warn("calendar problem", logger.Fields{"file": path, "problem": p})
	}
	return nil
}
