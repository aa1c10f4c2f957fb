package combobox

import (
	"strings"

	"github.com/muurk/fieldkit/internal/option"
)

// Value returns the current selection.
func (e *Engine) Value() option.Value {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.value
}

// SelectedOptions returns the options behind the current value, in value
// order. Values with no known option are returned with the value as text.
func (e *Engine) SelectedOptions() []option.NormalizedOption {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selectedLocked()
}

func (e *Engine) selectedLocked() []option.NormalizedOption {
	out := make([]option.NormalizedOption, 0, e.value.Len())
	for _, v := range e.value.Strings() {
		if o, ok := option.Find(e.options, v); ok {
			out = append(out, o)
			continue
		}
		if o, ok := option.Find(e.picked, v); ok {
			out = append(out, o)
			continue
		}
		out = append(out, option.Option{Value: v, Text: v}.Normalized())
	}
	return out
}

// Text returns the display text of the selection; multiple selections are
// joined with ", ".
func (e *Engine) Text() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	sel := e.selectedLocked()
	texts := make([]string, len(sel))
	for i, o := range sel {
		texts[i] = o.Text
	}
	return strings.Join(texts, ", ")
}

// DisplayText is what the input shows: the typed text while searching,
// otherwise the selection text in single mode and nothing in multiple mode.
func (e *Engine) DisplayText() string {
	e.mu.Lock()
	searching, text, multiple := e.searching, e.searchText, e.cfg.Multiple
	e.mu.Unlock()
	if searching {
		return text
	}
	if multiple {
		return ""
	}
	return e.Text()
}

// VisibleOptions returns a copy of the visible subset.
func (e *Engine) VisibleOptions() []option.NormalizedOption {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]option.NormalizedOption, len(e.visible))
	copy(out, e.visible)
	return out
}

// Options returns a copy of the option index.
func (e *Engine) Options() []option.NormalizedOption {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.options == nil {
		return nil
	}
	out := make([]option.NormalizedOption, len(e.options))
	copy(out, e.options)
	return out
}

// State returns the interface state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Searching reports whether typed text is being filtered.
func (e *Engine) Searching() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.searching
}

// SearchText returns the typed text.
func (e *Engine) SearchText() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.searchText
}

// InterfaceOpen reports whether a list is attached.
func (e *Engine) InterfaceOpen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.list != nil
}

// List returns the attached list, or nil when closed.
func (e *Engine) List() *List {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.list
}

// Presentation returns the surface chosen when the list last opened.
func (e *Engine) Presentation() Presentation {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.presentation == "" {
		return ChoosePresentation(e.cfg.Presentation, e.compact())
	}
	return e.presentation
}

// SetPresentation changes the configured mode for the next open.
func (e *Engine) SetPresentation(mode PresentationMode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg.Presentation = mode
	e.presentation = ""
}

// Messages returns the merged user-facing strings.
func (e *Engine) Messages() Messages {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.msgs
}

func (e *Engine) Multiple() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.Multiple
}

func (e *Engine) AllowAdd() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.AllowAdd
}

func (e *Engine) Disabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.disabled
}

func (e *Engine) Readonly() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.readonly
}

func (e *Engine) Focused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.focused
}
