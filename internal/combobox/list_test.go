package combobox

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/muurk/fieldkit/internal/option"
)

func listOf(height int, detail ...bool) *List {
	l := newList(height, "nothing here")
	rows := make([]option.NormalizedOption, len(detail))
	for i, d := range detail {
		rows[i] = option.NormalizedOption{Value: string(rune('a' + i)), Text: string(rune('A' + i))}
		if d {
			rows[i].DetailText = "detail"
		}
	}
	l.setRows(rows)
	return l
}

func TestListFocusSteps(t *testing.T) {
	l := listOf(5, false, false, false)
	assert.Equal(t, -1, l.FocusIndex())
	assert.False(t, l.HasFocused())

	l.FocusPrevious()
	assert.Equal(t, 0, l.FocusIndex(), "first step lands on 0 in either direction")

	l.FocusPrevious()
	assert.Equal(t, 0, l.FocusIndex())

	l.FocusNext()
	l.FocusNext()
	l.FocusNext()
	assert.Equal(t, 2, l.FocusIndex())

	o, ok := l.Focused()
	assert.True(t, ok)
	assert.Equal(t, "c", o.Value)
}

func TestListEmpty(t *testing.T) {
	l := listOf(5)
	l.FocusNext()
	assert.Equal(t, -1, l.FocusIndex())
	v := l.View()
	assert.True(t, v.Empty())
	assert.Equal(t, "nothing here", v.Placeholder)
}

func TestListScrollIsDirectionAware(t *testing.T) {
	// Line layout: A=0, B=1-2, C=3, D=4; viewport of 3 lines.
	l := listOf(3, false, true, false, false)

	steps := []struct {
		move       func()
		wantFocus  int
		wantOffset int
	}{
		{l.FocusNext, 0, 0},
		{l.FocusNext, 1, 0},
		{l.FocusNext, 2, 1},
		{l.FocusNext, 3, 2},
		{l.FocusNext, 3, 2},
		{l.FocusPrevious, 2, 2},
		{l.FocusPrevious, 1, 1},
		{l.FocusPrevious, 0, 0},
	}
	for i, s := range steps {
		s.move()
		assert.Equal(t, s.wantFocus, l.FocusIndex(), "step %d focus", i)
		assert.Equal(t, s.wantOffset, l.Offset(), "step %d offset", i)
	}
}

func TestListRowAtLine(t *testing.T) {
	l := listOf(3, false, true, false, false)
	assert.Equal(t, 0, l.RowAtLine(0))
	assert.Equal(t, 1, l.RowAtLine(1))
	assert.Equal(t, 1, l.RowAtLine(2))
	assert.Equal(t, -1, l.RowAtLine(3), "outside the viewport")

	for i := 0; i < 4; i++ {
		l.FocusNext()
	}
	assert.Equal(t, 2, l.Offset())
	assert.Equal(t, 1, l.RowAtLine(0))
	assert.Equal(t, 2, l.RowAtLine(1))
	assert.Equal(t, 3, l.RowAtLine(2))
}

func TestListShrinkClampsFocus(t *testing.T) {
	l := listOf(2, false, false, false, false)
	for i := 0; i < 4; i++ {
		l.FocusNext()
	}
	assert.Equal(t, 2, l.Offset())

	l.setRows(l.View().Rows[:2])
	assert.Equal(t, 1, l.FocusIndex())
	assert.Equal(t, 0, l.Offset())
}

func TestListViewGeometry(t *testing.T) {
	v := listOf(3, false, true, false).View()
	assert.Equal(t, 2, v.RowHeight(1))
	assert.Equal(t, 3, v.RowTop(2))
}

func TestListViewIsACopy(t *testing.T) {
	l := listOf(3, false, false)
	v := l.View()
	v.Rows[0].Text = "changed"
	o, _ := l.Row(0)
	assert.Equal(t, "A", o.Text)
}
