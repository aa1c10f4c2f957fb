// Package widget implements Bubble Tea components for form fields.
//
// # Components
//
//   - Combobox: a text input over a combobox.Engine with debounced search,
//     provider lookups as commands, and an inline, popover or modal list
//   - Select: a native-style select built from option declarations
//   - MessageView / SummaryView: field and form level messages
//   - PopupMenuController: popover menus of buttons
//   - PagerView: previous / next buttons with a first/last jump menu
//   - Container: fluid or max-width layout
//
// Models follow the Elm pattern used across the program: Update returns a
// new value and a command. State reached from goroutines (engine, overlay
// handles, async status) lives behind pointers so every copy sees it.
//
// # Usage Example
//
//	overlays := overlay.NewManager()
//	city := widget.NewCombobox(widget.ComboboxConfig{
//	    Name:     "city",
//	    Overlays: overlays,
//	    Engine:   combobox.Config{Provider: &transport.Provider{Client: client, Path: "/cities"}},
//	})
//	cmd := city.Focus()
//
// Several comboboxes may share one program: their tick and result
// messages carry the widget id and are ignored by the others.
package widget
