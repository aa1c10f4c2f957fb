// Package combobox implements the search, filter and select state machine
// behind every combobox presentation.
//
// An Engine moves between four states:
//
//	Closed ──focus/open──▶ OpenIdle ──search──▶ OpenSearching
//	   ▲                      │                      │
//	   └──blur/escape/select──┴──────────────────────┘
//	                          └──search (provider)──▶ OpenCustomSearch
//
// The engine never draws anything. When it opens it creates a List, a
// snapshot of the visible options with a focus index and a scroll offset,
// and hands it to the configured Surface. Hosts render the list and feed
// user intent back through Engine methods (FocusNext, Hover, MouseDown,
// Enter).
//
// # Searching
//
// Search records typed text and returns a sequence number; RunSearch with
// that number performs the filter pass. A newer Search makes older
// numbers stale and their results are discarded, so the last issued query
// wins even when a slow provider answers out of order. Typeahead wraps
// both with a timer for hosts without their own tick source.
//
// # Presentation
//
// ChoosePresentation maps the configured mode and a compact-device signal
// to an inline list, a popover or a full screen modal. Explicit modes
// always win.
package combobox
