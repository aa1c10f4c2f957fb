package demo

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/fieldkit/internal/ui"
	"github.com/muurk/fieldkit/internal/version"
)

// Application branding constants
const (
	AppName = "FIELDKIT DEMO"
	Tagline = "form widgets for the terminal"
)

var (
	// Title style - bold, primary color
	TitleStyle = lipgloss.NewStyle().
			Foreground(ui.PrimaryColor).
			Bold(true).
			MarginBottom(1)

	// Section heading inside the form
	SectionStyle = lipgloss.NewStyle().
			Foreground(ui.MutedColor).
			Bold(true).
			MarginTop(1)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(ui.PrimaryColor)

	// Focus gutter for the active field
	FocusGutterStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder(), false, false, false, true).
				BorderForeground(ui.PrimaryColor).
				PaddingLeft(1)

	BlurGutterStyle = lipgloss.NewStyle().
			PaddingLeft(2)
)

// RenderTitle renders a title with consistent styling
func RenderTitle(text string) string {
	return TitleStyle.Render(text)
}

// BuildHeaderContent creates header content with app name, version and tagline
func BuildHeaderContent() string {
	left := lipgloss.NewStyle().
		Foreground(ui.TextColor).
		Bold(true).
		Render(AppName + " " + version.Version)

	right := lipgloss.NewStyle().
		Foreground(ui.MutedColor).
		Render(Tagline)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
}

// RenderApplicationContainer wraps every screen: header, content and a
// footer with context help, inside a border filling the terminal.
func RenderApplicationContainer(content, footerText string, terminalWidth, terminalHeight int) string {
	if terminalWidth <= 0 {
		terminalWidth = ui.GetTerminalWidth()
	}
	if terminalHeight <= 0 {
		terminalHeight = ui.DefaultHeight
	}
	inner := max(terminalWidth-4, 10)

	header := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(ui.PrimaryColor).
		Width(inner).
		Padding(0, 1).
		Render(BuildHeaderContent())

	footer := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(ui.PrimaryColor).
		Width(inner).
		Padding(0, 1).
		Render(ui.HelperStyle.Render(footerText))

	body := lipgloss.NewStyle().Width(inner).Render(content)

	bordered := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(ui.PrimaryColor).
		Width(terminalWidth - 2).
		Height(max(terminalHeight-2, 1)).
		AlignVertical(lipgloss.Top).
		Render(lipgloss.JoinVertical(lipgloss.Left, header, body, footer))

	return lipgloss.Place(terminalWidth, terminalHeight, lipgloss.Left, lipgloss.Top, bordered)
}
