package validation

// MessageSlotter is implemented by forms that place a message display
// next to some of their fields.
type MessageSlotter interface {
	MessageSlot(name string) (MessageSlot, bool)
}

// Summarizer is implemented by forms with a message summary.
type Summarizer interface {
	Summary() (Summary, bool)
}

// DefaultLocator matches inputs by name and finds slots and the summary
// through the optional MessageSlotter and Summarizer interfaces.
type DefaultLocator struct {
	Unwrap UnwrapFunc
}

// Input returns the first input named name, in document order.
func (l DefaultLocator) Input(f Form, name string) (Input, bool) {
	unwrap := l.Unwrap
	if unwrap == nil {
		unwrap = DefaultUnwrap
	}
	for _, in := range f.Inputs() {
		if in = unwrap(in); in != nil && in.Name() == name {
			return in, true
		}
	}
	return nil, false
}

// MessageSlot returns the slot shown next to in.
func (l DefaultLocator) MessageSlot(f Form, in Input) (MessageSlot, bool) {
	if s, ok := f.(MessageSlotter); ok {
		return s.MessageSlot(in.Name())
	}
	return nil, false
}

// Summary returns the form's message summary.
func (l DefaultLocator) Summary(f Form) (Summary, bool) {
	if s, ok := f.(Summarizer); ok {
		return s.Summary()
	}
	return nil, false
}
