package widget

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func sizeOptions() []SelectOption {
	return []SelectOption{
		{Value: "s", Text: "Small"},
		{Value: "m", Text: "Medium", Selected: true},
		{Value: "l", Text: "Large", Disabled: true},
		{Value: "xl", Text: "Extra large"},
	}
}

func pressSelect(m Select, k tea.KeyType) Select {
	m, _ = m.Update(tea.KeyMsg{Type: k})
	return m
}

func TestSelectInitialValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"selected declaration", nil, "m"},
		{"value wins", "xl", "xl"},
		{"empty value falls back", "", "m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewSelect(SelectConfig{Name: "size", Options: sizeOptions(), Value: tt.value})
			assert.Equal(t, tt.want, m.Value().String())
			assert.Equal(t, tt.want, m.Field.Value())
			for _, o := range m.Options() {
				assert.Equal(t, o.Value == tt.want, o.Selected, o.Value)
			}
		})
	}
}

func TestSelectDuplicateValueWarns(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	m := NewSelect(SelectConfig{
		Name:   "size",
		Logger: zap.New(core),
		Options: []SelectOption{
			{Value: "s", Text: "Small"},
			{Value: "s", Text: "Tiny"},
		},
	})
	assert.Len(t, m.Options(), 2, "duplicates are kept")
	assert.Equal(t, 1, logs.FilterMessage("There cannot be more than one option with the same value").Len())
}

func TestSelectKeyboardSkipsDisabled(t *testing.T) {
	m := NewSelect(SelectConfig{Name: "size", Options: sizeOptions()})
	m.Focus()

	m = pressSelect(m, tea.KeyEnter)
	assert.True(t, m.Open())
	assert.Equal(t, 1, m.cursor, "cursor starts on the selected option")

	m = pressSelect(m, tea.KeyDown)
	assert.Equal(t, 3, m.cursor, "disabled Large is skipped")

	m = pressSelect(m, tea.KeyEnter)
	assert.False(t, m.Open())
	assert.Equal(t, "xl", m.Value().String())
	assert.Equal(t, "Extra large", m.SelectedText())
}

func TestSelectPlaceholderClearsOptional(t *testing.T) {
	m := NewSelect(SelectConfig{Name: "size", Placeholder: "Pick a size", Options: sizeOptions()})
	m.Focus()
	m = pressSelect(m, tea.KeyEnter)
	m = pressSelect(m, tea.KeyUp)
	m = pressSelect(m, tea.KeyUp)
	m = pressSelect(m, tea.KeyEnter)

	assert.False(t, m.HasValue())
	assert.Contains(t, m.View(), "Pick a size")
}

func TestSelectRequiredHidesPlaceholder(t *testing.T) {
	m := NewSelect(SelectConfig{Name: "size", Placeholder: "Pick a size", Required: true, Options: sizeOptions()[:2]})
	for _, r := range m.rows() {
		assert.GreaterOrEqual(t, r.option, 0)
	}
	m.SetValue(nil)
	assert.False(t, m.Field.CheckValidity())
}

func TestSelectMultipleToggles(t *testing.T) {
	m := NewSelect(SelectConfig{Name: "sizes", Multiple: true, Options: sizeOptions()})
	m.Focus()
	m = pressSelect(m, tea.KeyEnter)
	m = pressSelect(m, tea.KeyUp)
	m = pressSelect(m, tea.KeyEnter)

	assert.True(t, m.Open(), "multiple stays open")
	assert.Equal(t, []string{"m", "s"}, m.Value().Strings())

	m = pressSelect(m, tea.KeyEnter)
	assert.Equal(t, []string{"m"}, m.Value().Strings())
}

func TestSelectReadonlyShowsText(t *testing.T) {
	m := NewSelect(SelectConfig{Name: "size", Label: "Size", Readonly: true, Options: sizeOptions()})
	m.Focus()
	m = pressSelect(m, tea.KeyEnter)

	assert.False(t, m.Open())
	assert.Contains(t, m.View(), "Medium")
	assert.NotContains(t, m.View(), "▾")
}
