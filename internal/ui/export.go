package ui

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/spiral/internal/event"
	"github.com/javiermolinar/spiral/internal/eventfile"
	"github.com/javiermolinar/spiral/internal/ics"
	"github.com/javiermolinar/spiral/internal/layout"
)

const (
	formatICS  = "ics"
	formatYAML = "yaml"
)

func (a *App) exportCmd() *cobra.Command {
	var (
		format   string
		outPath  string
		calendar string
		all      bool
		copyOut  bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export events as iCalendar or YAML",
		Long: `Export stored events.

The format defaults to the --out file extension, or ics when writing to
stdout. Only visible calendars are exported unless --all is given.`,
		Example: `  spiral export > calendar.ics
  spiral export --out events.yaml
  spiral export --calendar Work --clipboard`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := resolveFormat(format, outPath)
			if err != nil {
				return err
			}

			list, err := a.loadEvents(context.Background())
			if err != nil {
				return err
			}

			filter := a.visibleFilter(all)
			if calendar != "" {
				filter = layout.NewCalendarFilter(calendar)
			}

			data, count, err := a.render(list.Events(), filter, format)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case copyOut:
				if err := clipboard.WriteAll(data); err != nil {
					return fmt.Errorf("copying to clipboard: %w", err)
				}
				fmt.Fprintf(out, "Copied %d events to clipboard\n", count)
			case outPath != "":
				if err := os.WriteFile(outPath, []byte(data), 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", outPath, err)
				}
				fmt.Fprintf(out, "Exported %d events to %s\n", count, outPath)
			default:
				fmt.Fprint(out, data)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Output format: ics or yaml")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write to file instead of stdout")
	cmd.Flags().StringVar(&calendar, "calendar", "", "Only export this calendar")
	cmd.Flags().BoolVar(&all, "all", false, "Include hidden calendars")
	cmd.Flags().BoolVar(&copyOut, "clipboard", false, "Copy to the system clipboard")
	cmd.MarkFlagsMutuallyExclusive("out", "clipboard")

	return cmd
}

// render encodes the visible events and reports how many were written.
func (a *App) render(events []*event.Event, visible layout.CalendarFilter, format string) (string, int, error) {
	selected := make([]*event.Event, 0, len(events))
	for _, e := range events {
		if e.Valid() && visible.Visible(e.CalendarOrDefault()) {
			selected = append(selected, e)
		}
	}

	switch format {
	case formatICS:
		data, err := ics.Export(selected, ics.ExportOptions{Colors: a.palette, Now: a.now()})
		if err != nil {
			return "", 0, fmt.Errorf("encoding calendar: %w", err)
		}
		return data, len(selected), nil
	case formatYAML:
		var buf bytes.Buffer
		if err := eventfile.Write(&buf, selected); err != nil {
			return "", 0, fmt.Errorf("encoding events: %w", err)
		}
		return buf.String(), len(selected), nil
	}
	return "", 0, fmt.Errorf("unknown format %q", format)
}

// resolveFormat picks the format from the flag or the file extension.
func resolveFormat(format, path string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			format = formatYAML
		default:
			format = formatICS
		}
	}
	switch format {
	case formatICS, "ical":
		return formatICS, nil
	case formatYAML, "yml":
		return formatYAML, nil
	}
	return "", fmt.Errorf("unknown format %q (use ics or yaml)", format)
}
