package validation

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// GlobalFieldName is the name of the hidden input that carries form-level
// messages.
const GlobalFieldName = "__globalValidity"

// GlobalLabel is the humanized label of the global channel.
const GlobalLabel = "Global"

// Input is a validatable field.
type Input interface {
	Name() string
	// CheckValidity runs the field's own constraints and reports whether
	// they and the custom message all pass.
	CheckValidity() bool
	// ValidationMessage is the message to show for a failed check: the
	// custom message when set, otherwise the first failing constraint.
	ValidationMessage() string
	SetCustomValidity(msg string)
	CustomValidity() string
}

// Form is a set of inputs in document order.
type Form interface {
	Inputs() []Input
	// AddHiddenInput appends a hidden input with no constraints.
	AddHiddenInput(name string) Input
}

// MessageSlot shows the message of one field next to it.
type MessageSlot interface {
	SetValidationMessage(msg string)
}

// Summary shows messages that have no field slot.
type Summary interface {
	SetMessages(msgs []string)
}

// Target is where ReportValidity asks the form to scroll.
type Target struct {
	Summary bool
	Field   string
}

// Scroller is implemented by forms that can scroll to a target.
type Scroller interface {
	ScrollTo(t Target)
}

// Locator resolves names to inputs and inputs to their display slots.
type Locator interface {
	Input(f Form, name string) (Input, bool)
	MessageSlot(f Form, in Input) (MessageSlot, bool)
	Summary(f Form) (Summary, bool)
}

// UnwrapFunc returns the input that carries validity for a composite
// widget, looking through at most one level of wrapping.
type UnwrapFunc func(Input) Input

// Wrapper is implemented by composite inputs whose real input lies one
// level deeper.
type Wrapper interface {
	Unwrap() Input
}

// DefaultUnwrap unwraps inputs that implement Wrapper, once.
func DefaultUnwrap(in Input) Input {
	if w, ok := in.(Wrapper); ok {
		if inner := w.Unwrap(); inner != nil {
			return inner
		}
	}
	return in
}

// Controller applies and reports custom validity on forms. It keeps no
// per-form state, so one Controller can serve any number of forms.
type Controller struct {
	Locator Locator
	Unwrap  UnwrapFunc
}

// NewController returns a controller using the default locator and
// unwrap policy.
func NewController() *Controller {
	return &Controller{}
}

func (c *Controller) locator() Locator {
	if c.Locator != nil {
		return c.Locator
	}
	return DefaultLocator{Unwrap: c.unwrap()}
}

func (c *Controller) unwrap() UnwrapFunc {
	if c.Unwrap != nil {
		return c.Unwrap
	}
	return DefaultUnwrap
}

// inputs returns the validatable inputs of f in document order.
func (c *Controller) inputs(f Form) []Input {
	unwrap := c.unwrap()
	raw := f.Inputs()
	out := make([]Input, 0, len(raw))
	for _, in := range raw {
		if in = unwrap(in); in != nil {
			out = append(out, in)
		}
	}
	return out
}

// ClearCustomValidity empties the custom message of every input.
// Constraint failures such as a missing required value are untouched.
func (c *Controller) ClearCustomValidity(f Form) {
	for _, in := range c.inputs(f) {
		in.SetCustomValidity("")
	}
}

// SetCustomValidity sets the first non-empty message of each field on the
// input with that name. Messages for names with no input are prefixed
// with the humanized field label and routed to the global channel, one
// per line.
func (c *Controller) SetCustomValidity(f Form, messages map[string][]string) {
	names := make([]string, 0, len(messages))
	for name := range messages {
		names = append(names, name)
	}
	sort.Strings(names)

	loc := c.locator()
	var unmatched []string
	for _, name := range names {
		msgs := nonEmpty(messages[name])
		if len(msgs) == 0 {
			continue
		}
		if in, ok := loc.Input(f, name); ok {
			in.SetCustomValidity(msgs[0])
			continue
		}
		for _, m := range msgs {
			unmatched = append(unmatched, Prefix(name, m))
		}
	}
	if len(unmatched) > 0 {
		c.SetGlobalCustomValidity(f, strings.Join(unmatched, "\n"))
	}
}

// SetCustomerValidationForField sets the messages of one field.
func (c *Controller) SetCustomerValidationForField(f Form, field string, messages []string) {
	c.SetCustomValidity(f, map[string][]string{field: messages})
}

// SetGlobalCustomValidity sets the form-level message, creating the
// hidden global input on first use.
func (c *Controller) SetGlobalCustomValidity(f Form, msg string) {
	c.globalInput(f, true).SetCustomValidity(msg)
}

// GetGlobalCustomValidity returns the form-level message.
func (c *Controller) GetGlobalCustomValidity(f Form) string {
	in := c.globalInput(f, false)
	if in == nil {
		return ""
	}
	return in.CustomValidity()
}

func (c *Controller) globalInput(f Form, create bool) Input {
	for _, in := range c.inputs(f) {
		if in.Name() == GlobalFieldName {
			return in
		}
	}
	if !create {
		return nil
	}
	return f.AddHiddenInput(GlobalFieldName)
}

// ReportValidity checks every input in document order. A failing input
// shows its message in its slot when it has one; otherwise the message
// goes to the summary. The form scrolls to the summary when it received
// anything, else to the first invalid field. It returns whether every
// input passed.
func (c *Controller) ReportValidity(f Form) bool {
	loc := c.locator()
	valid := true
	var first Input
	var summary []string

	for _, in := range c.inputs(f) {
		slot, hasSlot := loc.MessageSlot(f, in)
		if in.CheckValidity() {
			if hasSlot {
				slot.SetValidationMessage("")
			}
			continue
		}
		valid = false
		if first == nil {
			first = in
		}
		msg := in.ValidationMessage()
		if hasSlot {
			slot.SetValidationMessage(msg)
			continue
		}
		if IsGlobal(in.Name()) {
			summary = append(summary, splitLines(msg)...)
			continue
		}
		summary = append(summary, Prefix(in.Name(), msg))
	}

	if s, ok := loc.Summary(f); ok {
		s.SetMessages(summary)
	}
	if sc, ok := f.(Scroller); ok {
		switch {
		case len(summary) > 0:
			sc.ScrollTo(Target{Summary: true})
		case first != nil:
			sc.ScrollTo(Target{Field: first.Name()})
		}
	}
	return valid
}

// IsGlobal reports whether name addresses the form-level channel.
func IsGlobal(name string) bool {
	return name == GlobalFieldName || name == "global" || name == "Global"
}

// Prefix labels msg with the humanized field name. Global messages are
// returned unchanged.
func Prefix(name, msg string) string {
	if IsGlobal(name) {
		return msg
	}
	return HumanizeLabel(name) + ": " + msg
}

// HumanizeLabel turns a field name into a label: "firstName" becomes
// "First Name", "address.zip_code" becomes "Address zip code".
func HumanizeLabel(name string) string {
	if IsGlobal(name) {
		return GlobalLabel
	}
	var b strings.Builder
	var prev rune
	for i, r := range name {
		switch {
		case r == '.' || r == '_':
			b.WriteRune(' ')
		case i > 0 && unicode.IsUpper(r) && unicode.IsLower(prev):
			b.WriteRune(' ')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
		prev = r
	}
	label := b.String()
	first, size := utf8.DecodeRuneInString(label)
	if first == utf8.RuneError {
		return label
	}
	return string(unicode.ToUpper(first)) + label[size:]
}

func nonEmpty(msgs []string) []string {
	out := msgs[:0:0]
	for _, m := range msgs {
		if strings.TrimSpace(m) != "" {
			out = append(out, m)
		}
	}
	return out
}

func splitLines(msg string) []string {
	var out []string
	for _, line := range strings.Split(msg, "\n") {
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
