package combobox

import (
	"context"
	"errors"

	"github.com/muurk/fieldkit/internal/option"
)

// State is the interface state of an Engine.
type State int

const (
	// Closed means no list is shown.
	Closed State = iota
	// OpenIdle lists every option that is not already selected.
	OpenIdle
	// OpenSearching lists options filtered locally by the search token.
	OpenSearching
	// OpenCustomSearch lists the last results of a SearchProvider.
	OpenCustomSearch
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case OpenIdle:
		return "open-idle"
	case OpenSearching:
		return "open-searching"
	case OpenCustomSearch:
		return "open-custom-search"
	default:
		return "unknown"
	}
}

// Presentation is the surface an open list is drawn on.
type Presentation string

const (
	// PresentInline draws the list under the input, inside the form.
	PresentInline Presentation = "inline"
	// PresentPopover draws the list floating below the input.
	PresentPopover Presentation = "popover"
	// PresentModal draws a full screen list with confirm and clear.
	PresentModal Presentation = "modal"
)

// PresentationMode is the configured presentation. PresentAuto picks a
// surface from the compact-device signal.
type PresentationMode string

const (
	PresentAuto PresentationMode = "auto"
)

// ChoosePresentation resolves mode against the compact-device signal.
// Explicit modes always win; auto uses a modal on compact devices and a
// popover elsewhere.
func ChoosePresentation(mode PresentationMode, compact bool) Presentation {
	switch Presentation(mode) {
	case PresentInline, PresentPopover, PresentModal:
		return Presentation(mode)
	}
	if compact {
		return PresentModal
	}
	return PresentPopover
}

// Surface is told when a list is shown and torn down. Both calls happen
// outside the engine lock. Unmount can arrive for a list that was never
// mounted or is already gone and must then do nothing.
type Surface interface {
	Mount(l *List, p Presentation)
	Unmount(l *List)
}

// SearchProvider answers searches in place of local filtering.
type SearchProvider interface {
	Search(ctx context.Context, query string) ([]option.Record, error)
}

// SearchFunc adapts a function to SearchProvider.
type SearchFunc func(ctx context.Context, query string) ([]option.Record, error)

// Search calls f.
func (f SearchFunc) Search(ctx context.Context, query string) ([]option.Record, error) {
	return f(ctx, query)
}

// QueryAccepter is implemented by providers that only serve some queries,
// for example a minimum length. Refused queries are filtered locally.
type QueryAccepter interface {
	Accept(query string) bool
}

var (
	// ErrDisabled is returned for mutations on a disabled or readonly engine.
	ErrDisabled = errors.New("combobox: disabled")
	// ErrEmptySelection is returned when a multiple engine is asked to
	// select nothing.
	ErrEmptySelection = errors.New("combobox: empty selection")
	// ErrFreeTextDisabled is returned by AddAndSelect when free-text add is off.
	ErrFreeTextDisabled = errors.New("combobox: free-text add disabled")
	// ErrNoFocusedOption is returned when there is no focused row to commit.
	ErrNoFocusedOption = errors.New("combobox: no focused option")
)
