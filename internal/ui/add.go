package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/spiral/internal/dateutil"
	"github.com/javiermolinar/spiral/internal/db"
	"github.com/javiermolinar/spiral/internal/debuglog"
	"github.com/javiermolinar/spiral/internal/event"
	"github.com/javiermolinar/spiral/internal/recur"
	"github.com/javiermolinar/spiral/internal/scheduler"
)

func (a *App) addCmd() *cobra.Command {
	var (
		start       string
		end         string
		duration    string
		calendar    string
		color       string
		description string
		repeat      string
	)

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a new event",
		Long: `Add a new event.

Without --start the event is placed in the next free slot within the
configured working hours. Use either --end or --duration (default 1h).`,
		Example: `  spiral add "Dentist" --start "tomorrow 14:00" --duration 45m
  spiral add "Standup" --start "2025-01-15 09:00" --end "2025-01-15 09:15" --calendar Work
  spiral add "Gym" --start "monday 18:00" --repeat "FREQ=WEEKLY;COUNT=8"
  spiral add "Focus time" --duration 2h`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			if err := a.ensureRepo(); err != nil {
				return err
			}

			length := time.Hour
			if duration != "" {
				d, err := dateutil.ParseDuration(duration)
				if err != nil {
					return err
				}
				length = d
			}

			var startAt time.Time
			if start == "" {
				slot, err := a.nextFreeSlot(ctx, length)
				if err != nil {
					return err
				}
				startAt = slot
			} else {
				t, err := a.parseWhen(start)
				if err != nil {
					return fmt.Errorf("--start: %w", err)
				}
				startAt = t
			}

			endAt := startAt.Add(length)
			if end != "" {
				t, err := a.parseWhen(end)
				if err != nil {
					return fmt.Errorf("--end: %w", err)
				}
				endAt = t
			}

			if calendar == "" {
				calendar = a.config.Calendars.Default
			}
			if color != "" && !a.palette.IsKnown(color) {
				return fmt.Errorf("unknown color %q (use a palette name or #rrggbb)", color)
			}

			e, err := event.New(args[0], startAt, endAt,
				event.WithCalendar(calendar),
				event.WithColor(color),
				event.WithDescription(description),
			)
			if err != nil {
				return err
			}

			events := []*event.Event{e}
			if repeat != "" {
				events, err = recur.Expand(e, repeat, recur.Options{})
				if err != nil {
					return err
				}
			}

			if err := a.createEvents(ctx, events); err != nil {
				debuglog.Error("EVENT_CREATE_FAILED", err, map[string]any{"title": e.Title})
				return fmt.Errorf("creating event: %w", err)
			}

			out := cmd.OutOrStdout()
			if start != "" && !a.newScheduler().IsWithinWorkHours(startAt.In(a.loc)) {
				fmt.Fprintln(out, formatMuted("Note: starts outside working hours"))
			}
			if len(events) == 1 {
				fmt.Fprintf(out, "Created event %s\n", a.describeEvent(events[0]))
				return nil
			}
			fmt.Fprintf(out, "Created %d occurrences of %q, first %s\n", len(events), e.Title, a.describeEvent(events[0]))
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Start (HH:MM, YYYY-MM-DD HH:MM, \"tomorrow 09:00\", RFC3339; default: next free slot)")
	cmd.Flags().StringVar(&end, "end", "", "End, same formats as --start")
	cmd.Flags().StringVar(&duration, "duration", "", "Duration in minutes or like 1h30m (default 1h)")
	cmd.Flags().StringVar(&calendar, "calendar", "", "Calendar tag (default from config)")
	cmd.Flags().StringVar(&color, "color", "", "Palette color name or #rrggbb (default: calendar color)")
	cmd.Flags().StringVar(&description, "description", "", "Free-form description")
	cmd.Flags().StringVar(&repeat, "repeat", "", "Recurrence rule, e.g. FREQ=DAILY;COUNT=5")

	cmd.MarkFlagsMutuallyExclusive("end", "duration")

	return cmd
}

// nextFreeSlot finds the first gap of length after now in working hours.
func (a *App) nextFreeSlot(ctx context.Context, length time.Duration) (time.Time, error) {
	now := a.now().In(a.loc)
	events, err := a.repo.ListEventsInRange(ctx, now, now.AddDate(0, 0, 15))
	if err != nil {
		return time.Time{}, fmt.Errorf("listing events: %w", err)
	}
	slot, err := a.newScheduler().NextFreeSlot(events, now, length)
	if err != nil {
		return time.Time{}, err
	}
	return slot.UTC(), nil
}

func (a *App) newScheduler() *scheduler.Scheduler {
	return scheduler.New(a.config.Schedule.Workdays, a.config.Schedule.DayStart, a.config.Schedule.DayEnd)
}

// createEvents stores events, in one transaction when the store supports it.
func (a *App) createEvents(ctx context.Context, events []*event.Event) error {
	if batch, ok := a.repo.(*db.SQLite); ok {
		return batch.CreateEvents(ctx, events)
	}
	for _, e := range events {
		if err := a.repo.CreateEvent(ctx, e); err != nil {
			return err
		}
	}
	return nil
}
