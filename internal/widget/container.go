package widget

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/fieldkit/internal/ui"
)

// Container lays content out either across the whole terminal (Fluid)
// or centered within ui.MaxContentWidth.
type Container struct {
	Fluid bool
	Width int
}

// ContentWidth is the width children should render to.
func (c Container) ContentWidth() int {
	w := c.Width
	if w <= 0 {
		w = ui.GetTerminalWidth()
	}
	if c.Fluid {
		return max(w-2, 1)
	}
	return min(max(w-2, 1), ui.MaxContentWidth)
}

// Render places content in the container.
func (c Container) Render(content string) string {
	w := c.Width
	if w <= 0 {
		w = ui.GetTerminalWidth()
	}
	inner := lipgloss.NewStyle().Width(c.ContentWidth()).Render(content)
	if c.Fluid {
		return lipgloss.NewStyle().PaddingLeft(1).Render(inner)
	}
	return lipgloss.PlaceHorizontal(w, lipgloss.Center, inner)
}
