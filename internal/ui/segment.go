package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/spiral/internal/layout"
)

func (a *App) segmentCmd() *cobra.Command {
	var (
		from    string
		days    int
		day     int
		segment int
		all     bool
	)

	cmd := &cobra.Command{
		Use:   "segment",
		Short: "Show the events drawn in one spiral cell",
		Long: `Show the events overlapping one (day, segment) cell of the window.

Day 0 segment 0 is the newest hour of the window; larger values walk
back in time. Longer events are listed first.`,
		Example: `  spiral segment --day 0 --segment 3
  spiral segment --from "2025-01-15 00:00" --days 2 --day 1 --segment 10 --all`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if segment < 0 || segment >= layout.SegmentsPerDay {
				return fmt.Errorf("segment must be between 0 and %d", layout.SegmentsPerDay-1)
			}
			if day < 0 {
				return fmt.Errorf("day must not be negative")
			}

			w, err := a.window(from, days)
			if err != nil {
				return err
			}
			list, err := a.loadEvents(context.Background())
			if err != nil {
				return err
			}

			engine := layout.NewEngine(list,
				layout.WithVisibleCalendars(a.visibleFilter(all)),
				layout.WithColors(a.palette))
			overlaps := engine.Segment(w, day, segment)

			start, end := w.SegmentHour(day, segment)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Segment %d (day %d, hour %d): %s %s-%s\n",
				w.SegmentID(day, segment), day, segment,
				start.In(a.loc).Format(dayLayout), start.In(a.loc).Format(timeLayout), end.In(a.loc).Format(timeLayout))

			if len(overlaps) == 0 {
				fmt.Fprintln(out, "No events in this segment.")
				return nil
			}
			for _, o := range overlaps {
				fmt.Fprintf(out, "  %s %-8s #%d %s (%s)\n",
					swatch(o.Color), overlapRange(o), o.Event.ID, formatTitle(o.Event.Title), formatDuration(o.Event))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Window reference time (defaults to the configured anchor)")
	cmd.Flags().IntVar(&days, "days", 0, "Window length in days (defaults to config)")
	cmd.Flags().IntVar(&day, "day", 0, "Day row, 0 is the newest")
	cmd.Flags().IntVar(&segment, "segment", 0, "Hour cell within the day, 0-23")
	cmd.Flags().BoolVar(&all, "all", false, "Include hidden calendars")

	return cmd
}
