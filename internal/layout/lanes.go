package layout

import (
	"sort"
	"time"

	"github.com/tidwall/btree"

	"github.com/javiermolinar/spiral/internal/event"
)

// LaneAssignment maps window-overlapping events to lane indices.
type LaneAssignment struct {
	Lanes    map[*event.Event]int
	NumLanes int // 1 + highest lane used, 0 when empty
}

// clipped is a window-overlapping event with its effective interval.
type clipped struct {
	event *event.Event
	start time.Time
	end   time.Time
	order int // position in the source list
}

// clipToWindow returns the window-overlapping events in list order.
// Malformed events are dropped.
func clipToWindow(events []*event.Event, w Window) []clipped {
	ws, we := w.Start(), w.End()
	out := make([]clipped, 0, len(events))
	for i, e := range events {
		if !e.Valid() {
			continue
		}
		start, end, ok := e.Effective(ws, we)
		if !ok {
			continue
		}
		out = append(out, clipped{event: e, start: start, end: end, order: i})
	}
	return out
}

type sweepPoint struct {
	at    time.Time
	isEnd bool
	item  int // index into the clipped slice
}

// AssignLanes colors the interval graph of the window-overlapping events with
// a first-fit sweep. Events that end exactly when another starts may share a
// lane. Simultaneous starts favor longer, then earlier, events so they land on
// lower lanes and stay put as the window slides; remaining ties follow list
// order.
func AssignLanes(events []*event.Event, w Window) LaneAssignment {
	items := clipToWindow(events, w)
	result := LaneAssignment{Lanes: make(map[*event.Event]int, len(items))}
	if len(items) == 0 {
		return result
	}

	points := make([]sweepPoint, 0, 2*len(items))
	for i, it := range items {
		points = append(points,
			sweepPoint{at: it.start, item: i},
			sweepPoint{at: it.end, isEnd: true, item: i},
		)
	}
	sort.SliceStable(points, func(i, j int) bool {
		return lessPoint(items, points[i], points[j])
	})

	var free btree.Set[int]
	lanes := make([]int, len(items))
	maxLane := -1
	for _, p := range points {
		if p.isEnd {
			free.Insert(lanes[p.item])
			continue
		}
		if lane, ok := free.Min(); ok {
			free.Delete(lane)
			lanes[p.item] = lane
		} else {
			maxLane++
			lanes[p.item] = maxLane
		}
	}

	for i, it := range items {
		result.Lanes[it.event] = lanes[i]
	}
	result.NumLanes = maxLane + 1
	return result
}

func lessPoint(items []clipped, a, b sweepPoint) bool {
	if !a.at.Equal(b.at) {
		return a.at.Before(b.at)
	}
	if a.isEnd != b.isEnd {
		return a.isEnd
	}
	ia, ib := items[a.item], items[b.item]
	if a.isEnd {
		if !ia.end.Equal(ib.end) {
			return ia.end.Before(ib.end)
		}
		return ia.order < ib.order
	}
	da, db := ia.event.Duration(), ib.event.Duration()
	if da != db {
		return da > db
	}
	if !ia.event.Start.Equal(ib.event.Start) {
		return ia.event.Start.Before(ib.event.Start)
	}
	return ia.order < ib.order
}
