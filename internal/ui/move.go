package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/spiral/internal/dateutil"
)

func (a *App) moveCmd() *cobra.Command {
	var (
		to string
		by string
	)

	cmd := &cobra.Command{
		Use:   "move [event-id]",
		Short: "Move an event, keeping its duration",
		Example: `  spiral move 42 --to "tomorrow 10:00"
  spiral move 42 --by 30m
  spiral move 42 --by -2h`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (to == "") == (by == "") {
				return errors.New("exactly one of --to or --by is required")
			}

			ctx := context.Background()
			e, err := a.getEvent(ctx, args[0])
			if err != nil {
				return err
			}

			var start time.Time
			if to != "" {
				start, err = a.parseWhen(to)
				if err != nil {
					return fmt.Errorf("--to: %w", err)
				}
			} else {
				shift, err := time.ParseDuration(by)
				if err != nil {
					return fmt.Errorf("--by: %w", err)
				}
				start = e.Start.Add(shift)
			}

			if err := e.Reschedule(start, start.Add(e.Duration())); err != nil {
				return err
			}
			if err := a.saveEvent(ctx, e); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Moved event %s\n", a.describeEvent(e))
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "New start time")
	cmd.Flags().StringVar(&by, "by", "", "Shift by a signed duration, e.g. 30m or -1h")

	return cmd
}

func (a *App) resizeCmd() *cobra.Command {
	var (
		end      string
		duration string
	)

	cmd := &cobra.Command{
		Use:   "resize [event-id]",
		Short: "Change when an event ends",
		Example: `  spiral resize 42 --duration 90m
  spiral resize 42 --end "2025-01-15 17:00"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (end == "") == (duration == "") {
				return errors.New("exactly one of --end or --duration is required")
			}

			ctx := context.Background()
			e, err := a.getEvent(ctx, args[0])
			if err != nil {
				return err
			}

			var endAt time.Time
			if end != "" {
				endAt, err = a.parseWhen(end)
				if err != nil {
					return fmt.Errorf("--end: %w", err)
				}
			} else {
				d, err := dateutil.ParseDuration(duration)
				if err != nil {
					return err
				}
				endAt = e.Start.Add(d)
			}

			if err := e.Reschedule(e.Start, endAt); err != nil {
				return err
			}
			if err := a.saveEvent(ctx, e); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Resized event %s\n", a.describeEvent(e))
			return nil
		},
	}

	cmd.Flags().StringVar(&end, "end", "", "New end time")
	cmd.Flags().StringVar(&duration, "duration", "", "New duration in minutes or like 1h30m")

	return cmd
}
