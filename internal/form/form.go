package form

import (
	"strings"
	"sync"

	"github.com/muurk/fieldkit/internal/validation"
)

// Field is a named value with constraints and a custom validity channel.
type Field struct {
	mu          sync.RWMutex
	name        string
	label       string
	value       string
	hidden      bool
	constraints []Constraint
	custom      string
	message     *Message
}

// NewField returns a visible field with a message slot.
func NewField(name, label string, constraints ...Constraint) *Field {
	if label == "" {
		label = validation.HumanizeLabel(name)
	}
	return &Field{name: name, label: label, constraints: constraints, message: &Message{}}
}

func (f *Field) Name() string  { return f.name }
func (f *Field) Label() string { return f.label }

// Hidden reports whether the field is drawn.
func (f *Field) Hidden() bool { return f.hidden }

// Message returns the message display next to the field, nil for hidden
// fields.
func (f *Field) Message() *Message { return f.message }

// WithHelper sets the helper text shown when there is no error.
func (f *Field) WithHelper(text string) *Field {
	if f.message != nil {
		f.message.SetHelper(text)
	}
	return f
}

func (f *Field) Value() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.value
}

func (f *Field) SetValue(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.value = v
}

func (f *Field) SetCustomValidity(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.custom = msg
}

func (f *Field) CustomValidity() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.custom
}

// CheckValidity implements validation.Input.
func (f *Field) CheckValidity() bool {
	return f.ValidationMessage() == ""
}

// ValidationMessage returns the custom message, or the first failing
// constraint.
func (f *Field) ValidationMessage() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.custom != "" {
		return f.custom
	}
	for _, c := range f.constraints {
		if msg := c(f.value); msg != "" {
			return msg
		}
	}
	return ""
}

// Composite is a widget field whose validity lives in an inner Field, the
// way a combobox keeps its value in a hidden input.
type Composite struct {
	name  string
	inner *Field
}

// NewComposite wraps inner under the given outer name.
func NewComposite(name string, inner *Field) *Composite {
	return &Composite{name: name, inner: inner}
}

// Unwrap implements validation.Wrapper.
func (c *Composite) Unwrap() validation.Input { return c.inner }

func (c *Composite) Name() string                 { return c.name }
func (c *Composite) CheckValidity() bool          { return c.inner.CheckValidity() }
func (c *Composite) ValidationMessage() string    { return c.inner.ValidationMessage() }
func (c *Composite) SetCustomValidity(msg string) { c.inner.SetCustomValidity(msg) }
func (c *Composite) CustomValidity() string       { return c.inner.CustomValidity() }

// Form is an ordered set of inputs with per-field messages and a summary.
// It implements validation.Form, MessageSlotter, Summarizer and Scroller.
type Form struct {
	mu      sync.RWMutex
	inputs  []validation.Input
	summary *Summary
	target  validation.Target
}

// New returns a form with the inputs in document order.
func New(inputs ...validation.Input) *Form {
	return &Form{inputs: inputs, summary: &Summary{}}
}

// Add appends inputs.
func (f *Form) Add(inputs ...validation.Input) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, inputs...)
}

// Inputs implements validation.Form.
func (f *Form) Inputs() []validation.Input {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]validation.Input, len(f.inputs))
	copy(out, f.inputs)
	return out
}

// AddHiddenInput implements validation.Form.
func (f *Form) AddHiddenInput(name string) validation.Input {
	field := &Field{name: name, label: validation.HumanizeLabel(name), hidden: true}
	f.Add(field)
	return field
}

// Field returns the field named name, looking through composites.
func (f *Form) Field(name string) (*Field, bool) {
	for _, in := range f.Inputs() {
		if in.Name() != name {
			continue
		}
		switch x := in.(type) {
		case *Field:
			return x, true
		case *Composite:
			return x.inner, true
		}
	}
	return nil, false
}

// MessageSlot implements validation.MessageSlotter.
func (f *Form) MessageSlot(name string) (validation.MessageSlot, bool) {
	field, ok := f.Field(name)
	if !ok || field.message == nil {
		return nil, false
	}
	return field.message, true
}

// Summary implements validation.Summarizer.
func (f *Form) Summary() (validation.Summary, bool) {
	return f.summary, true
}

// MessageSummary returns the concrete summary for rendering.
func (f *Form) MessageSummary() *Summary {
	return f.summary
}

// ScrollTo implements validation.Scroller by recording the target.
func (f *Form) ScrollTo(t validation.Target) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.target = t
}

// ScrollTarget returns the last scroll request.
func (f *Form) ScrollTarget() validation.Target {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.target
}

// Values returns the visible field values by name.
func (f *Form) Values() map[string]string {
	out := map[string]string{}
	for _, in := range f.Inputs() {
		field, ok := f.Field(in.Name())
		if !ok || field.hidden {
			continue
		}
		out[in.Name()] = field.Value()
	}
	return out
}

// Message shows either a validation message or a helper text.
type Message struct {
	mu        sync.RWMutex
	helper    string
	validator string
}

// SetValidationMessage implements validation.MessageSlot.
func (m *Message) SetValidationMessage(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.validator = msg
}

func (m *Message) SetHelper(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.helper = text
}

// HasValidation reports whether a non-blank validation message is set.
func (m *Message) HasValidation() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return strings.TrimSpace(m.validator) != ""
}

// Text returns the validation message when set, else the helper text.
func (m *Message) Text() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if strings.TrimSpace(m.validator) != "" {
		return m.validator
	}
	return m.helper
}

// HasMessage reports whether Text is non-blank.
func (m *Message) HasMessage() bool {
	return strings.TrimSpace(m.Text()) != ""
}

// Summary lists messages that have no field slot.
type Summary struct {
	mu   sync.RWMutex
	msgs []string
}

// SetMessages implements validation.Summary.
func (s *Summary) SetMessages(msgs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append([]string(nil), msgs...)
}

func (s *Summary) Messages() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.msgs...)
}
