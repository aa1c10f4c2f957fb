// Package config loads fieldkit's library defaults from YAML or TOML.
//
// A config file only needs the fields it changes; everything else comes
// from the defaults of its locale:
//
//	version: 1
//	locale: pt-BR
//	combobox:
//	  debounce_ms: 150
//	  presentation: auto   # auto | inline | popover | modal
//	action:
//	  toast_position: top
//
// # Configuration File Location
//
// LoadDefault reads config.yaml from the platform configuration directory:
//   - Linux: $XDG_CONFIG_HOME/fieldkit or $HOME/.config/fieldkit
//   - macOS: $HOME/.config/fieldkit
//   - Windows: %LOCALAPPDATA%\fieldkit
//
// Save writes through a temporary file and a rename, so readers never
// see a partial file.
package config
