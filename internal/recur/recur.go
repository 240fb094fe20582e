// Package recur expands recurrence rules into concrete events.
package recur

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/javiermolinar/spiral/internal/event"
)

// DefaultMaxOccurrences caps expansion of rules without COUNT or UNTIL.
const DefaultMaxOccurrences = 366

// DefaultHorizon bounds expansion of open-ended rules.
const DefaultHorizon = 365 * 24 * time.Hour

// ErrEmptyRule is returned for a blank rule string.
var ErrEmptyRule = errors.New("empty recurrence rule")

// Options bound an expansion.
type Options struct {
	// Until stops expansion at this instant (inclusive). Zero means
	// DefaultHorizon past the first occurrence.
	Until time.Time
	// Max caps the number of occurrences. Zero means DefaultMaxOccurrences.
	Max int
	// ExDates lists occurrence starts to skip.
	ExDates []time.Time
}

// Parse validates an RRULE value such as "FREQ=DAILY;COUNT=5".
// A leading "RRULE:" prefix is accepted.
func Parse(rule string) (*rrule.ROption, error) {
	rule = strings.TrimSpace(rule)
	rule = strings.TrimPrefix(rule, "RRULE:")
	if rule == "" {
		return nil, ErrEmptyRule
	}
	opt, err := rrule.StrToROption(rule)
	if err != nil {
		return nil, fmt.Errorf("parsing recurrence rule %q: %w", rule, err)
	}
	return opt, nil
}

// Expand returns one event per occurrence of rule, starting at base.Start and
// keeping base's duration and metadata. The first occurrence is base itself
// when it matches the rule. Every occurrence gets its own persistent UID.
func Expand(base *event.Event, rule string, opts Options) ([]*event.Event, error) {
	if !base.Valid() {
		return nil, event.ErrEndBeforeStart
	}
	opt, err := Parse(rule)
	if err != nil {
		return nil, err
	}
	opt.Dtstart = base.Start

	r, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, fmt.Errorf("building recurrence rule: %w", err)
	}

	var set rrule.Set
	set.RRule(r)
	for _, ex := range opts.ExDates {
		set.ExDate(ex.In(base.Start.Location()))
	}

	until := opts.Until
	if until.IsZero() {
		until = base.Start.Add(DefaultHorizon)
	}
	limit := opts.Max
	if limit <= 0 {
		limit = DefaultMaxOccurrences
	}

	starts := set.Between(base.Start, until, true)
	if len(starts) > limit {
		starts = starts[:limit]
	}

	dur := base.Duration()
	out := make([]*event.Event, 0, len(starts))
	for _, s := range starts {
		occ := base.Clone()
		occ.ID = 0
		occ.Start = s.UTC()
		occ.End = s.Add(dur).UTC()
		if !occ.Start.Equal(base.Start) {
			occ.UID = event.PersistentUID(occ.Title, occ.Start, occ.End, occ.Description, occ.Calendar)
		}
		out = append(out, occ)
	}
	return out, nil
}
