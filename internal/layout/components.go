package layout

import (
	"sort"
	"time"

	"github.com/javiermolinar/spiral/internal/event"
	"github.com/javiermolinar/spiral/internal/unionfind"
)

// Component is a maximal set of events transitively sharing an hour bucket.
type Component struct {
	ID      int // union-find root
	Members []*event.Event

	// PeakOverlap is the highest hourly concurrency seen by any member.
	PeakOverlap int
	// MaxLane is the highest lane index assigned to any member.
	MaxLane int
	// RequiredLanes is max(PeakOverlap, MaxLane+1).
	RequiredLanes int
}

// ComponentGrouping is the output of GroupComponents.
type ComponentGrouping struct {
	ComponentOf map[*event.Event]int
	LaneCount   map[int]int
	Components  []Component // ordered by first member in list order
}

// GroupComponents unions window-overlapping events that share any hourly
// bucket of w and sizes each resulting component's lane budget.
//
// The peak overlap of a member is measured against the whole event list, not
// just the window, so clusters that continue past the window edge keep their
// width.
func GroupComponents(events []*event.Event, w Window, lanes map[*event.Event]int) ComponentGrouping {
	items := clipToWindow(events, w)
	result := ComponentGrouping{
		ComponentOf: make(map[*event.Event]int, len(items)),
		LaneCount:   make(map[int]int),
	}
	if len(items) == 0 {
		return result
	}

	uf := unionfind.New(len(items))
	for h := 0; h < w.Hours(); h++ {
		bucketStart, bucketEnd := w.Bucket(h)
		first := -1
		for i, it := range items {
			if !it.start.Before(bucketEnd) || !it.end.After(bucketStart) {
				continue
			}
			if first < 0 {
				first = i
				continue
			}
			uf.Union(first, i)
		}
	}

	groups := uf.Groups()
	roots := make([]int, 0, len(groups))
	for root := range groups {
		roots = append(roots, root)
	}
	sort.Slice(roots, func(i, j int) bool {
		return groups[roots[i]][0] < groups[roots[j]][0]
	})

	for _, root := range roots {
		c := Component{ID: root, MaxLane: -1}
		for _, idx := range groups[root] {
			it := items[idx]
			c.Members = append(c.Members, it.event)
			result.ComponentOf[it.event] = root

			if peak := peakOverlap(events, w, it); peak > c.PeakOverlap {
				c.PeakOverlap = peak
			}
			if lane, ok := lanes[it.event]; ok && lane > c.MaxLane {
				c.MaxLane = lane
			}
		}
		c.RequiredLanes = max(c.PeakOverlap, c.MaxLane+1)
		result.LaneCount[root] = c.RequiredLanes
		result.Components = append(result.Components, c)
	}

	return result
}

// peakOverlap scans the window-aligned hour buckets from the one holding the
// member's effective start through the one starting at its effective end and
// returns the highest number of events overlapping any of them.
func peakOverlap(events []*event.Event, w Window, it clipped) int {
	ws := w.Start()
	first := int(it.start.Sub(ws) / time.Hour)
	peak := 0
	for t := ws.Add(time.Duration(first) * time.Hour); !t.After(it.end); t = t.Add(time.Hour) {
		next := t.Add(time.Hour)
		count := 0
		for _, e := range events {
			if e.Overlaps(t, next) {
				count++
			}
		}
		if count > peak {
			peak = count
		}
	}
	return peak
}
