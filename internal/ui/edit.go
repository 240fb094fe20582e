package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/spiral/internal/debuglog"
)

func (a *App) colorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "color [event-id] [color]",
		Short: "Set an event color",
		Long: `Set an event color to a palette name or a #rrggbb value.
Use "none" to fall back to the calendar color.

Palette: ` + strings.Join(a.palette.Names(), ", "),
		Example: `  spiral color 42 green
  spiral color 42 "#ff8800"
  spiral color 42 none`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value := strings.TrimSpace(args[1])
			if strings.EqualFold(value, "none") {
				value = ""
			} else if !a.palette.IsKnown(value) {
				return fmt.Errorf("unknown color %q (palette: %s)", value, strings.Join(a.palette.Names(), ", "))
			}

			ctx := context.Background()
			e, err := a.getEvent(ctx, args[0])
			if err != nil {
				return err
			}
			e.SetColor(value)
			if err := a.saveEvent(ctx, e); err != nil {
				return err
			}

			hex := a.palette.Resolve(e.Color, e.CalendarOrDefault())
			fmt.Fprintf(cmd.OutOrStdout(), "Colored event #%d %s %s\n", e.ID, swatch(hex), hex)
			return nil
		},
	}
}

func (a *App) tagCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tag [event-id] [calendar]",
		Short: "Move an event to another calendar",
		Example: `  spiral tag 42 Work`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			e, err := a.getEvent(ctx, args[0])
			if err != nil {
				return err
			}
			e.SetCalendar(args[1])
			if err := a.saveEvent(ctx, e); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Tagged event #%d as %s\n", e.ID, e.Calendar)
			if !a.config.IsVisible(e.Calendar) {
				fmt.Fprintln(out, formatWarn(fmt.Sprintf("Calendar %q is hidden; it still takes lanes in the layout.", e.Calendar)))
			}
			return nil
		},
	}
}

func (a *App) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete [event-id]...",
		Aliases: []string{"rm"},
		Short:   "Delete events permanently",
		Example: `  spiral delete 42
  spiral delete 42 43 44`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			ctx := context.Background()
			for _, arg := range args {
				id, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid event ID: %w", err)
				}
				if err := a.repo.DeleteEvent(ctx, id); err != nil {
					debuglog.Error("EVENT_DELETE_FAILED", err, map[string]any{"id": id})
					return fmt.Errorf("deleting event: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted event #%d\n", id)
			}
			return nil
		},
	}
}
