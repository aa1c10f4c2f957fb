package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	resultKeyStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Width(15)

	resultValueStyle = lipgloss.NewStyle().
				Foreground(TextColor)
)

// Result is a boxed outcome printed after a command finishes.
type Result struct {
	Success bool
	Title   string
	Details map[string]string
	// Order lists detail keys in display order; keys it omits follow
	// sorted.
	Order []string
	Error error
	Width int
}

// NewSuccessResult creates a success result box
func NewSuccessResult(title string, details map[string]string) *Result {
	return &Result{Success: true, Title: title, Details: details, Width: GetTerminalWidth()}
}

// NewFailureResult creates a failure result box
func NewFailureResult(title string, err error) *Result {
	return &Result{Title: title, Error: err, Width: GetTerminalWidth()}
}

// AddDetail adds a detail key-value pair, keeping insertion order
func (r *Result) AddDetail(key, value string) *Result {
	if r.Details == nil {
		r.Details = make(map[string]string)
	}
	if _, ok := r.Details[key]; !ok {
		r.Order = append(r.Order, key)
	}
	r.Details[key] = value
	return r
}

func (r *Result) keys() []string {
	seen := make(map[string]bool, len(r.Order))
	keys := make([]string, 0, len(r.Details))
	for _, k := range r.Order {
		if _, ok := r.Details[k]; ok && !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	var rest []string
	for k := range r.Details {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// Render returns the styled result box as a string
func (r *Result) Render() string {
	width := ClampWidth(r.Width)

	color, marker, word := SuccessColor, SuccessMarker, "SUCCESS"
	if !r.Success {
		color, marker, word = ErrorColor, FailureMarker, "FAILED"
	}

	lines := []string{
		"",
		lipgloss.NewStyle().Foreground(color).Bold(true).
			Render(fmt.Sprintf(" %s  %s  ─  %s", marker, word, r.Title)),
		"",
	}
	for _, k := range r.keys() {
		lines = append(lines, resultKeyStyle.Render(" "+k+":")+" "+resultValueStyle.Render(r.Details[k]))
	}
	if r.Error != nil {
		lines = append(lines, ValidationStyle.Render(" Error: "+r.Error.Error()))
	}
	lines = append(lines, "")

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(color).
		Width(width - 2).
		Padding(0, 2).
		Render(strings.Join(lines, "\n"))
}

// String implements fmt.Stringer
func (r *Result) String() string {
	return r.Render()
}
