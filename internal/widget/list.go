package widget

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/muurk/fieldkit/internal/combobox"
	"github.com/muurk/fieldkit/internal/option"
	"github.com/muurk/fieldkit/internal/ui"
)

// renderList draws the viewport of an open list. Rows with detail text
// take two lines; the view is cut to v.Height lines from v.Offset. Text
// wider than the row is truncated with an ellipsis.
func renderList(v combobox.ListView, selected option.Value, width int, status string) string {
	if v.Empty() {
		text := v.Placeholder
		if status != "" {
			text = status
		}
		return ui.PlaceholderStyle.Render("  " + text)
	}

	rowWidth := max(width-2, 10)
	var lines []string
	for i, o := range v.Rows {
		style := ui.RowStyle
		marker := ""
		switch {
		case i == v.Focus:
			style = ui.FocusedRowStyle
			marker = ui.CursorMarker + " "
		case selected.Contains(o.Value):
			style = ui.SelectedRowStyle
			marker = ui.SelectedMarker + " "
		}
		text := runewidth.Truncate(marker+o.Text, rowWidth-3, "…")
		lines = append(lines, style.MaxWidth(rowWidth).Render(text))
		if o.DetailText != "" {
			detail := runewidth.Truncate(o.DetailText, rowWidth-5, "…")
			lines = append(lines, ui.DetailStyle.MaxWidth(rowWidth).Render(detail))
		}
	}

	start := min(v.Offset, len(lines))
	end := min(start+v.Height, len(lines))
	out := strings.Join(lines[start:end], "\n")
	if status != "" {
		out = lipgloss.JoinVertical(lipgloss.Left, out, ui.PlaceholderStyle.Render("  "+status))
	}
	return out
}
