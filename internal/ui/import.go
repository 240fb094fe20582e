package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/spiral/internal/event"
	"github.com/javiermolinar/spiral/internal/eventfile"
	"github.com/javiermolinar/spiral/internal/ics"
)

func (a *App) importCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import events from an iCalendar or YAML file",
		Long: `Import events from a file. Use "-" to read stdin.

Events whose UID already exists are skipped, so importing the same
file twice is harmless. Recurring events are expanded.`,
		Example: `  spiral import ~/Downloads/calendar.ics
  spiral import events.yaml
  cat work.ics | spiral import - --format ics`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			if err := a.ensureRepo(); err != nil {
				return err
			}

			var (
				r    io.Reader
				path = args[0]
			)
			if path == "-" {
				r = cmd.InOrStdin()
			} else {
				resolved, err := resolvePath(path)
				if err != nil {
					return err
				}
				f, err := os.Open(resolved)
				if err != nil {
					if os.IsNotExist(err) {
						return fmt.Errorf("file does not exist: %s", resolved)
					}
					return fmt.Errorf("opening %s: %w", resolved, err)
				}
				defer func() { _ = f.Close() }()
				r = f
				path = resolved
			}

			format, err := resolveFormat(format, path)
			if err != nil {
				return err
			}

			events, skipped, err := a.decode(r, format)
			if err != nil {
				return err
			}

			fresh, dupes, err := a.newEvents(ctx, events)
			if err != nil {
				return err
			}
			if len(fresh) > 0 {
				if err := a.createEvents(ctx, fresh); err != nil {
					return fmt.Errorf("importing events: %w", err)
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d events", len(fresh))
			if dupes > 0 {
				fmt.Fprintf(out, ", %d already present", dupes)
			}
			if skipped > 0 {
				fmt.Fprintf(out, ", %s", formatWarn(fmt.Sprintf("%d skipped", skipped)))
			}
			fmt.Fprintln(out)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Input format: ics or yaml (defaults to the file extension)")

	return cmd
}

func (a *App) decode(r io.Reader, format string) ([]*event.Event, int, error) {
	switch format {
	case formatICS:
		res, err := ics.Import(r, ics.ImportOptions{DefaultCalendar: a.config.Calendars.Default})
		if err != nil {
			return nil, 0, err
		}
		return res.Events, res.Skipped, nil
	case formatYAML:
		events, err := eventfile.Read(r, a.config.Calendars.Default)
		if err != nil {
			return nil, 0, err
		}
		return events, 0, nil
	}
	return nil, 0, fmt.Errorf("unknown format %q", format)
}

// newEvents drops events whose UID is already stored or repeated in the input.
func (a *App) newEvents(ctx context.Context, events []*event.Event) ([]*event.Event, int, error) {
	existing, err := a.repo.ListAllEvents(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("listing events: %w", err)
	}
	seen := make(map[string]struct{}, len(existing)+len(events))
	for _, e := range existing {
		seen[e.UID] = struct{}{}
	}

	fresh := make([]*event.Event, 0, len(events))
	dupes := 0
	for _, e := range events {
		if e.UID == "" {
			e.UID = event.PersistentUID(e.Title, e.Start, e.End, e.Description, e.Calendar)
		}
		if _, ok := seen[e.UID]; ok {
			dupes++
			continue
		}
		seen[e.UID] = struct{}{}
		fresh = append(fresh, e)
	}
	return fresh, dupes, nil
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	path, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	return absPath, nil
}
