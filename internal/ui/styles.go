package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette
var (
	PrimaryColor = lipgloss.Color("#7D56F4") // Purple - focus, borders
	SuccessColor = lipgloss.Color("#43BF6D") // Green - selected values
	ErrorColor   = lipgloss.Color("#FF5555") // Red - validation messages
	WarningColor = lipgloss.Color("#FFA500") // Orange - toasts
	MutedColor   = lipgloss.Color("#626262") // Gray - helpers, placeholders
	TextColor    = lipgloss.Color("#FFFFFF") // White - main content
)

// Layout constants
const (
	MinTerminalWidth = 40  // Minimum supported terminal width
	MaxContentWidth  = 100 // Maximum content width before capping
	DefaultPadding   = 2   // Default padding inside boxes
	DefaultHeight    = 24  // Height used when the terminal cannot be queried
)

// Shared styles
var (
	LabelStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Bold(true)

	FocusedLabelStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true)

	HelperStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	ValidationStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	PlaceholderStyle = lipgloss.NewStyle().
				Foreground(MutedColor).
				Italic(true)

	// RowStyle is an unfocused list row
	RowStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			PaddingLeft(2)

	// FocusedRowStyle is the row under the cursor
	FocusedRowStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			PaddingLeft(1).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(PrimaryColor)

	// SelectedRowStyle marks rows whose value is selected
	SelectedRowStyle = lipgloss.NewStyle().
				Foreground(SuccessColor).
				PaddingLeft(2)

	DetailStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			PaddingLeft(4)

	ChipStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(PrimaryColor).
			Padding(0, 1).
			MarginRight(1)

	ButtonStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Padding(0, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(MutedColor)

	FocusedButtonStyle = ButtonStyle.
				BorderForeground(PrimaryColor).
				Bold(true)

	DisabledButtonStyle = ButtonStyle.
				Foreground(MutedColor)

	ToastStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(WarningColor).
			Padding(0, 2)

	SummaryStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ErrorColor).
			Foreground(ErrorColor).
			Padding(0, 1)
)

// Markers
const (
	SuccessMarker  = "✓"
	FailureMarker  = "✗"
	SelectedMarker = "●"
	CursorMarker   = "›"
)

// GetTerminalWidth returns the current terminal width, with fallback
func GetTerminalWidth() int {
	width, _ := GetTerminalSize()
	return width
}

// GetTerminalSize returns the current terminal width and height, clamped
// to the supported range
func GetTerminalSize() (int, int) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return MaxContentWidth, DefaultHeight
	}
	return ClampWidth(width), height
}

// ClampWidth limits width to [MinTerminalWidth, MaxContentWidth]
func ClampWidth(width int) int {
	if width < MinTerminalWidth {
		return MinTerminalWidth
	}
	if width > MaxContentWidth {
		return MaxContentWidth
	}
	return width
}

// IsCompact reports whether the real terminal is narrower than threshold.
// It is the compact-device signal for automatic list presentation. A
// terminal that cannot be queried is not compact.
func IsCompact(threshold int) bool {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return false
	}
	return CompactWidth(width, threshold)
}

// CompactWidth is IsCompact for a known width.
func CompactWidth(width, threshold int) bool {
	return width > 0 && width < threshold
}

// RenderHorizontalDivider creates a horizontal line of the specified width
func RenderHorizontalDivider(width int, char string) string {
	if width <= 0 {
		return ""
	}
	return lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Render(strings.Repeat(char, width))
}
