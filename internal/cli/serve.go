package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/event-schedule/internal/logger"
	"github.com/pfrederiksen/event-schedule/internal/storage"
	"github.com/pfrederiksen/event-schedule/internal/web"
)

var (
	flagListen string
	flagReload string
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the timetable and calendar exports over HTTP",
		Long: `Serve the timetable page, the JSON API, on-demand .ics downloads and the favorites
store. With --reload the schedule and config are re-read on a cron schedule.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&flagListen, "listen", "127.0.0.1:8080", "Address to listen on")
	cmd.Flags().StringVar(&flagDataDir, "data-dir", storage.DefaultDataDir, "Data directory for favorites")
	cmd.Flags().StringVar(&flagReload, "reload", "", `Reload schedule on a cron schedule, e.g. "@every 5m" or "*/15 * * * *"`)

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	store, err := storage.New(flagDataDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	srv, err := web.NewServer(loadExporter, store, web.WithLogger(logger.Default()))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("serving schedule", logger.Fields{
		"listen":   flagListen,
		"data_dir": store.Dir(),
		"schedule": flagSchedule,
	})
	return srv.Run(ctx, flagListen, flagReload)
}
