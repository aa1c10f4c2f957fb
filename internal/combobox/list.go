package combobox

import (
	"sync"

	"github.com/muurk/fieldkit/internal/option"
)

// Direction is the way focus last moved. It decides which edge of a row
// is aligned when the list scrolls.
type Direction int

const (
	Down Direction = iota
	Up
)

// DefaultListHeight is the viewport height, in lines, of a new list.
const DefaultListHeight = 8

// List is the passive view state of an open combobox: a snapshot of the
// visible options, a focus index and a scroll offset. It never mutates the
// rows it is given; selection goes back through the Engine.
//
// Rows with detail text are two lines tall, other rows one line.
type List struct {
	mu          sync.RWMutex
	rows        []option.NormalizedOption
	focus       int
	offset      int
	height      int
	placeholder string
}

func newList(height int, placeholder string) *List {
	if height <= 0 {
		height = DefaultListHeight
	}
	return &List{focus: -1, height: height, placeholder: placeholder}
}

// ListView is a consistent copy of the list state for rendering.
type ListView struct {
	Rows        []option.NormalizedOption
	Focus       int
	Offset      int
	Height      int
	Placeholder string
}

// Empty reports whether the placeholder should be shown instead of rows.
func (v ListView) Empty() bool { return len(v.Rows) == 0 }

// RowHeight returns the number of lines row i occupies.
func (v ListView) RowHeight(i int) int { return rowHeight(v.Rows[i]) }

// RowTop returns the first line of row i.
func (v ListView) RowTop(i int) int {
	top := 0
	for j := 0; j < i && j < len(v.Rows); j++ {
		top += rowHeight(v.Rows[j])
	}
	return top
}

// View returns a copy of the list state.
func (l *List) View() ListView {
	l.mu.RLock()
	defer l.mu.RUnlock()
	rows := make([]option.NormalizedOption, len(l.rows))
	copy(rows, l.rows)
	return ListView{Rows: rows, Focus: l.focus, Offset: l.offset, Height: l.height, Placeholder: l.placeholder}
}

// Len returns the number of rows.
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.rows)
}

// FocusIndex returns the focused row, or -1.
func (l *List) FocusIndex() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.focus
}

// Offset returns the first visible line.
func (l *List) Offset() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.offset
}

// HasFocused reports whether a row is focused.
func (l *List) HasFocused() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.focus >= 0 && l.focus < len(l.rows)
}

// Focused returns the focused row.
func (l *List) Focused() (option.NormalizedOption, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.focus < 0 || l.focus >= len(l.rows) {
		return option.NormalizedOption{}, false
	}
	return l.rows[l.focus], true
}

// Row returns row i.
func (l *List) Row(i int) (option.NormalizedOption, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i < 0 || i >= len(l.rows) {
		return option.NormalizedOption{}, false
	}
	return l.rows[i], true
}

// SetHeight resizes the viewport and keeps the focused row in view.
func (l *List) SetHeight(h int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if h <= 0 {
		h = DefaultListHeight
	}
	l.height = h
	if l.focus >= 0 && l.focus < len(l.rows) {
		l.scrollToLocked(l.focus, Down)
	}
}

// FocusNext moves focus one row down.
func (l *List) FocusNext() { l.step(1) }

// FocusPrevious moves focus one row up.
func (l *List) FocusPrevious() { l.step(-1) }

// step moves focus by delta. With nothing focused, or focus past the end,
// the result is row 0. A step that would leave the list does nothing.
func (l *List) step(delta int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.rows) == 0 {
		l.focus = -1
		return
	}
	dir := Down
	if delta < 0 {
		dir = Up
	}
	if l.focus < 0 || l.focus >= len(l.rows) {
		l.focus = 0
		l.scrollToLocked(0, Up)
		return
	}
	next := l.focus + delta
	if next < 0 || next >= len(l.rows) {
		return
	}
	l.focus = next
	l.scrollToLocked(next, dir)
}

// Hover focuses row i without scrolling; the pointer is already over it.
func (l *List) Hover(i int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i >= 0 && i < len(l.rows) {
		l.focus = i
	}
}

// RowAtLine returns the row drawn on viewport line y, or -1.
func (l *List) RowAtLine(y int) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if y < 0 || y >= l.height {
		return -1
	}
	line := l.offset + y
	top := 0
	for i, r := range l.rows {
		h := rowHeight(r)
		if line >= top && line < top+h {
			return i
		}
		top += h
	}
	return -1
}

func (l *List) setRows(rows []option.NormalizedOption) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rows = rows
	if l.focus >= len(rows) {
		l.focus = len(rows) - 1
	}
	total := 0
	for _, r := range rows {
		total += rowHeight(r)
	}
	if maxOffset := total - l.height; l.offset > maxOffset {
		l.offset = max(maxOffset, 0)
	}
	if l.focus >= 0 {
		l.scrollToLocked(l.focus, Down)
	}
}

func (l *List) setPlaceholder(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.placeholder = s
}

// focusValue focuses the first row holding one of the selected values.
func (l *List) focusValue(v option.Value) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, r := range l.rows {
		if v.Contains(r.Value) {
			l.focus = i
			l.scrollToLocked(i, Down)
			return
		}
	}
}

// scrollToLocked scrolls the minimum distance that brings row i fully in
// view. Moving down aligns the row's bottom edge, moving up its top edge.
func (l *List) scrollToLocked(i int, dir Direction) {
	top := 0
	for j := 0; j < i; j++ {
		top += rowHeight(l.rows[j])
	}
	bottom := top + rowHeight(l.rows[i])

	if dir == Down {
		if bottom > l.offset+l.height {
			l.offset = bottom - l.height
		}
		if top < l.offset {
			l.offset = top
		}
		return
	}
	if top < l.offset {
		l.offset = top
	}
	if bottom > l.offset+l.height {
		l.offset = bottom - l.height
	}
}

func rowHeight(o option.NormalizedOption) int {
	if o.DetailText != "" {
		return 2
	}
	return 1
}
