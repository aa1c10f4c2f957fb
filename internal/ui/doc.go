// Package ui holds the shared lipgloss theme and the terminal helpers
// used by the fieldkit widgets and demo command.
//
// IsCompact reads the terminal width through golang.org/x/term and is
// the compact-device signal that sends auto-presented combobox lists to
// a modal. Header and Result render the banner and outcome boxes printed
// by the demo command around its interactive form.
//
// Logging is silent unless FIELDKIT_LOG_LEVEL is set, so nothing written
// by this package is interleaved with log output.
package ui
