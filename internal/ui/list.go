package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/spiral/internal/dateutil"
	"github.com/javiermolinar/spiral/internal/event"
)

func (a *App) listCmd() *cobra.Command {
	var (
		startDate string
		endDate   string
		calendar  string
		week      bool
		all       bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events in a date range",
		Long: `List all events overlapping a date range.

If no dates are specified, lists today's events.
If only --start is specified, lists events for that single day.
If both --start and --end are specified, lists events in that range (inclusive).
--week lists the Monday to Sunday week containing --start (or today).
Events on hidden calendars are left out unless --all is given.`,
		Example: `  spiral list
  spiral list --start=2025-01-15
  spiral list --week
  spiral list --start=2025-01-15 --end=2025-01-20 --calendar Work`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			var from, to time.Time
			switch {
			case week:
				day := a.now().In(a.loc)
				if startDate != "" {
					d, err := dateutil.ParseDate(startDate)
					if err != nil {
						return err
					}
					day = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, a.loc)
				}
				monday, _ := dateutil.WeekRange(day)
				from, to = monday, monday.AddDate(0, 0, 7)
			case startDate == "" && endDate == "":
				from = dateutil.TruncateToDay(a.now().In(a.loc))
				to = from.AddDate(0, 0, 1)
			default:
				dateRange, err := dateutil.NewDateRange(startDate, endDate)
				if err != nil {
					return err
				}
				from = time.Date(dateRange.Start.Year(), dateRange.Start.Month(), dateRange.Start.Day(), 0, 0, 0, 0, a.loc)
				to = from.AddDate(0, 0, dateRange.Days())
			}

			events, err := a.repo.ListEventsInRange(context.Background(), from, to)
			if err != nil {
				return fmt.Errorf("listing events: %w", err)
			}

			visible := a.visibleFilter(all)
			filtered := events[:0]
			for _, e := range events {
				if calendar != "" && e.CalendarOrDefault() != calendar {
					continue
				}
				if calendar == "" && !visible.Visible(e.CalendarOrDefault()) {
					continue
				}
				filtered = append(filtered, e)
			}

			out := cmd.OutOrStdout()
			if len(filtered) == 0 {
				fmt.Fprintln(out, "No events found in the specified date range.")
				return nil
			}

			fmt.Fprintln(out, a.eventTable(filtered))
			fmt.Fprintf(out, "\n%s events, %s scheduled\n",
				formatStats(fmt.Sprint(len(filtered))),
				formatStats(totalDuration(filtered)))
			return nil
		},
	}

	cmd.Flags().StringVar(&startDate, "start", "", "Start date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVar(&endDate, "end", "", "End date (YYYY-MM-DD, defaults to start date)")
	cmd.Flags().StringVar(&calendar, "calendar", "", "Only show this calendar")
	cmd.Flags().BoolVar(&week, "week", false, "List the whole week")
	cmd.Flags().BoolVar(&all, "all", false, "Include hidden calendars")

	cmd.MarkFlagsMutuallyExclusive("week", "end")

	return cmd
}

func totalDuration(events []*event.Event) string {
	var total time.Duration
	for _, e := range events {
		total += e.Duration()
	}
	return event.FormatMinutes(int(total / time.Minute))
}
