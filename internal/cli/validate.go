package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/event-schedule/internal/calendar"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate FILE...",
		Short: "Check that .ics files parse as iCalendar",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runValidate,
	}

	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(flagFormat)
	if err != nil {
		return err
	}

	result := &ValidateResult{Files: make([]ValidatedFile, 0, len(args))}
	for _, path := range args {
		vf := ValidatedFile{Path: path}
		data, err := os.ReadFile(path)
		if err != nil {
			vf.Error = err.Error()
		} else if report, err := calendar.Validate(data); err != nil {
			vf.Error = err.Error()
		} else {
			vf.Report = report
		}
		result.Files = append(result.Files, vf)
	}

	if err := WriteOutput(cmd.OutOrStdout(), result, format); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if n := result.Failed(); n > 0 {
		return fmt.Errorf("%d of %d files failed validation", n, len(args))
	}
	return nil
}
