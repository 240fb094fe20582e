package tui

import (
	"fmt"
	"math"
	"time"

	"github.com/javiermolinar/spiral/internal/layout"
	"github.com/javiermolinar/spiral/internal/tui/view"
)

// cellAt returns the grid position whose hour holds t.
func cellAt(w layout.Window, t time.Time) (Position, bool) {
	id := int(math.Floor(t.Sub(w.Start()).Hours()))
	n := w.TotalVisibleSegments() - id - 1
	if n < 0 || n >= w.Hours() {
		return Position{}, false
	}
	return Position{Day: n / layout.SegmentsPerDay, Segment: n % layout.SegmentsPerDay}, true
}

// clampCursor keeps the cursor inside the window.
func (m *Model) clampCursor() {
	m.cursor.Day = max(0, min(m.window.Days-1, m.cursor.Day))
	m.cursor.Segment = max(0, min(layout.SegmentsPerDay-1, m.cursor.Segment))
}

// cursorOverlaps returns the visible events in the cursor segment.
func (m Model) cursorOverlaps() []layout.Overlap {
	return m.engine.Segment(m.window, m.cursor.Day, m.cursor.Segment)
}

// cursorHour returns the hour under the cursor.
func (m Model) cursorHour() (start, end time.Time) {
	return m.window.SegmentHour(m.cursor.Day, m.cursor.Segment)
}

func (m Model) gridViewState(width, height int) view.GridViewState {
	now := m.nowFunc()
	current, hasCurrent := cellAt(m.window, now)

	header := make([]string, layout.SegmentsPerDay)
	for s := range header {
		start, _ := m.window.SegmentHour(0, s)
		header[s] = fmt.Sprintf("%02d", start.In(m.loc).Hour())
	}

	rows := make([]view.GridRow, m.window.Days)
	for d := range rows {
		first, _ := m.window.SegmentHour(d, 0)
		row := view.GridRow{
			Label:      first.In(m.loc).Format("Mon 02 Jan"),
			LabelStyle: m.styles.RowLabelStyle,
			Cells:      make([]view.GridCell, layout.SegmentsPerDay),
		}
		if hasCurrent && current.Day == d {
			row.LabelStyle = m.styles.RowLabelCurrentStyle
		}

		for s := range row.Cells {
			isCursor := m.cursor.Day == d && m.cursor.Segment == s
			isCurrent := hasCurrent && current.Day == d && current.Segment == s

			overlaps := m.engine.Segment(m.window, d, s)
			if len(overlaps) == 0 {
				text := "·"
				if isCurrent {
					text = "•"
				}
				row.Cells[s] = view.GridCell{Text: text, Style: m.styles.Empty(isCursor, isCurrent)}
				continue
			}
			row.Cells[s] = view.GridCell{
				Text:  fmt.Sprint(len(overlaps)),
				Style: m.styles.EventCell(overlaps[0].Color, isCursor, isCurrent),
			}
		}
		rows[d] = row
	}

	return view.GridViewState{
		Width:       width,
		Height:      height,
		LabelWidth:  labelWidth,
		CellWidth:   cellWidth,
		Header:      header,
		HeaderStyle: m.styles.HeaderStyle,
		Rows:        rows,
		Bg:          m.styles.colorBg,
	}
}
