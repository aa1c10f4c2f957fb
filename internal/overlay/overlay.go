// Package overlay defines the present/dismiss contract that modal lists,
// busy indicators and toasts are driven through, and a Manager that
// implements it for terminal programs.
package overlay

import "time"

// Kind tells a host how to draw an overlay.
type Kind string

const (
	KindModal   Kind = "modal"
	KindPopover Kind = "popover"
	KindLoading Kind = "loading"
)

// Config describes an overlay to create.
type Config struct {
	Kind    Kind
	Title   string
	Message string
	// Content renders the body of modal and popover overlays.
	Content func(width int) string
	// Backdrop dims the screen behind the overlay.
	Backdrop bool
}

// Handle is a created overlay.
type Handle interface {
	Present() error
	Dismiss() error
	// Done is closed once the overlay has been dismissed.
	Done() <-chan struct{}
	Dismissed() bool
}

// Service creates overlays.
type Service interface {
	Create(cfg Config) (Handle, error)
}

// Position is where a toast is drawn.
type Position string

const (
	Top    Position = "top"
	Middle Position = "middle"
	Bottom Position = "bottom"
)

// ToastConfig describes a toast.
type ToastConfig struct {
	Message  string
	Duration time.Duration
	Position Position
	Class    string
}

// Toast is a created toast.
type Toast interface {
	Present() error
}

// ToastService creates toasts.
type ToastService interface {
	CreateToast(cfg ToastConfig) (Toast, error)
}
