package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/event-schedule/internal/calendar"
	"github.com/pfrederiksen/event-schedule/internal/schedule"
)

var (
	flagListItems bool
	flagListQuery string
	flagSort      string
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show tracks, data types and items of a schedule",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}

	cmd.Flags().BoolVar(&flagListItems, "items", false, "List the items as well")
	cmd.Flags().StringVar(&flagListQuery, "query", "", `Only list items matching a search query (e.g. 'track:"Main Stage" quiz'); implies --items`)
	cmd.Flags().StringVar(&flagSort, "sort", "date", "Item order: date, track or title")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")

	return cmd
}

func runList(cmd *cobra.Command, _ []string) error {
	format, err := parseFormat(flagFormat)
	if err != nil {
		return err
	}
	order, err := parseSortOrder(flagSort)
	if err != nil {
		return err
	}

	exp, err := loadExporter()
	if err != nil {
		return err
	}
	cfg := exp.Config()
	doc := exp.Document()
	wc := exp.WebConfig()

	result := &ListResult{
		Event:  cfg.Event.Name,
		Tracks: wc.Tracks,
	}
	for _, kind := range schedule.Kinds() {
		dt := cfg.DataTypes.For(kind)
		result.Kinds = append(result.Kinds, KindSummary{
			Kind:    kind,
			Emoji:   dt.DefaultEmoji,
			Enabled: dt.Enabled,
			Items:   len(doc.List(kind)),
		})
	}

	if flagListItems || flagListQuery != "" {
		items, err := exp.Query(flagListQuery)
		if err != nil {
			return fmt.Errorf("invalid query: %w", err)
		}
		sortItems(items, order, cfg.Schedule.DayBoundaryHour)

		result.ItemCount = len(items)
		result.Items = make([]ListedItem, 0, len(items))
		for _, item := range items {
			result.Items = append(result.Items, ListedItem{
				ID:      item.ID(),
				Kind:    item.Kind,
				Date:    item.Date,
				Time:    clockRange(item),
				Title:   item.Title,
				Track:   item.Track,
				Emoji:   calendar.ResolveEmoji(item, cfg.DataTypes.For(item.Kind).DefaultEmoji, cfg, exp.TrackTable()),
				Private: item.Private,
			})
		}
	}

	if err := WriteOutput(cmd.OutOrStdout(), result, format); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

func clockRange(item schedule.Item) string {
	switch {
	case item.TimeStart == "":
		return ""
	case item.TimeEnd == "":
		return item.TimeStart
	default:
		return item.TimeStart + "-" + item.TimeEnd
	}
}
