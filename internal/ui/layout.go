package ui

import (
	"context"
	"fmt"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/spiral/internal/event"
	"github.com/javiermolinar/spiral/internal/layout"
)

func (a *App) layoutCmd() *cobra.Command {
	var (
		from string
		days int
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Show lane and component assignment for a window",
		Long: `Show how events in the window are packed into lanes.

Every event touching the window gets a lane; events that share an hour
are grouped into components and each component reserves enough lanes
for its busiest hour.`,
		Example: `  spiral layout
  spiral layout --from "2025-01-15 00:00" --days 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := a.window(from, days)
			if err != nil {
				return err
			}
			list, err := a.loadEvents(context.Background())
			if err != nil {
				return err
			}

			engine := layout.NewEngine(list)
			l := engine.Layout(w)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Window %s - %s\n\n",
				w.Start().In(a.loc).Format(dayLayout+" "+timeLayout),
				w.End().In(a.loc).Format(dayLayout+" "+timeLayout))

			if len(l.Lanes) == 0 {
				fmt.Fprintln(out, "No events in this window.")
				return nil
			}

			fmt.Fprintln(out, a.layoutTable(list, l))
			fmt.Fprintf(out, "\n%s lanes, %s components\n",
				formatStats(fmt.Sprint(l.NumLanes)),
				formatStats(fmt.Sprint(len(l.Components))))
			for i, c := range l.Components {
				fmt.Fprintf(out, "  %s %d events, peak %d, %d lanes\n",
					formatMuted(fmt.Sprintf("C%d", i+1)), len(c.Members), c.PeakOverlap, c.RequiredLanes)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Window reference time (defaults to the configured anchor)")
	cmd.Flags().IntVar(&days, "days", 0, "Window length in days (defaults to config)")

	return cmd
}

// layoutTable renders one row per placed event in list order.
func (a *App) layoutTable(list *event.List, l *layout.Layout) string {
	// Component ids are union-find roots; number them by first appearance.
	ordinal := make(map[int]int, len(l.Components))
	for i, c := range l.Components {
		ordinal[c.ID] = i + 1
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(formatHeader("ID"), formatHeader("TITLE"), formatHeader("WHEN"), formatHeader("COMP"), formatHeader("LANE"), "")

	width := maxTitleWidth()
	for _, e := range list.Events() {
		lane, ok := l.Lane(e)
		if !ok {
			continue
		}
		comp, _ := l.Component(e)
		budget := l.LaneBudget(e)
		hex := a.palette.Resolve(e.Color, e.CalendarOrDefault())
		tbl.AddRow(
			fmt.Sprintf("#%d", e.ID),
			formatTitle(truncate(e.Title, width)),
			formatSpan(e, a.loc),
			fmt.Sprintf("C%d", ordinal[comp]),
			fmt.Sprintf("%d/%d", lane+1, budget),
			swatch(hex)+" "+LaneBar(lane, budget),
		)
	}
	return tbl.String()
}
