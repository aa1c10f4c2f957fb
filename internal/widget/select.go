package widget

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/fieldkit/internal/form"
	"github.com/muurk/fieldkit/internal/logging"
	"github.com/muurk/fieldkit/internal/option"
	"github.com/muurk/fieldkit/internal/ui"
)

// SelectOption is an option declaration.
type SelectOption struct {
	Value    string
	Text     string
	Disabled bool
	Selected bool
	Hidden   bool
}

// SelectConfig configures a Select.
type SelectConfig struct {
	Name        string
	Label       string
	Placeholder string
	Helper      string
	Required    bool
	Multiple    bool
	Disabled    bool
	Readonly    bool
	Options     []SelectOption
	// Value wins over options declared Selected when non-empty.
	Value  any
	Logger *zap.Logger
}

// Select mirrors a native select: a closed control showing the chosen
// text that opens into a list of the declared options.
type Select struct {
	Name        string
	Label       string
	Placeholder string
	Field       *form.Field
	Keys        MenuKeyMap

	options  []SelectOption
	value    option.Value
	multiple bool
	required bool
	disabled bool
	readonly bool

	open    bool
	cursor  int
	focused bool
	log     *zap.Logger
}

// NewSelect builds a select from its declarations. When cfg.Value is
// empty the first option declared Selected provides the value.
func NewSelect(cfg SelectConfig) Select {
	var constraints []form.Constraint
	if cfg.Required {
		constraints = append(constraints, form.Required())
	}
	field := form.NewField(cfg.Name, cfg.Label, constraints...)
	if cfg.Helper != "" {
		field.WithHelper(cfg.Helper)
	}

	m := Select{
		Name:        cfg.Name,
		Label:       field.Label(),
		Placeholder: cfg.Placeholder,
		Field:       field,
		Keys:        DefaultMenuKeyMap(),
		value:       option.Empty(cfg.Multiple),
		multiple:    cfg.Multiple,
		required:    cfg.Required,
		disabled:    cfg.Disabled,
		readonly:    cfg.Readonly,
		log:         logging.OrDefault(cfg.Logger, "widget.select"),
	}
	for _, o := range cfg.Options {
		m.AddOption(o)
	}

	if v := option.Normalize(cfg.Value, cfg.Multiple); !v.IsEmpty() {
		m.SetValue(v.Any())
	} else {
		var picked []string
		for _, o := range m.options {
			if o.Selected {
				picked = append(picked, o.Value)
				if !m.multiple {
					break
				}
			}
		}
		if len(picked) > 0 {
			m.SetValue(picked)
		}
	}
	return m
}

// AddOption appends a declaration. A second option with the same value
// is kept but logged.
func (m *Select) AddOption(o SelectOption) {
	if o.Text == "" {
		o.Text = o.Value
	}
	m.options = append(m.options, o)
	count := 0
	for _, existing := range m.options {
		if existing.Value == o.Value {
			count++
		}
	}
	if count > 1 {
		m.log.Warn("There cannot be more than one option with the same value", zap.String("value", o.Value))
	}
}

// Options returns a copy of the declarations with their selected flags.
func (m Select) Options() []SelectOption {
	return append([]SelectOption(nil), m.options...)
}

// Value returns the current value.
func (m Select) Value() option.Value { return m.value }

// HasValue reports whether anything is selected.
func (m Select) HasValue() bool { return !m.value.IsEmpty() }

// SetValue replaces the value and syncs the selected flags.
func (m *Select) SetValue(v any) {
	m.value = option.Normalize(v, m.multiple)
	m.syncSelected()
	m.Field.SetValue(m.value.String())
}

func (m *Select) syncSelected() {
	opts := make([]SelectOption, len(m.options))
	for i, o := range m.options {
		o.Selected = m.value.Contains(o.Value)
		opts[i] = o
	}
	m.options = opts
}

// SetDisabled blocks input and closes the list.
func (m *Select) SetDisabled(disabled bool) {
	m.disabled = disabled
	if disabled {
		m.open = false
	}
}

// SetReadonly shows the selected text only.
func (m *Select) SetReadonly(readonly bool) {
	m.readonly = readonly
	if readonly {
		m.open = false
	}
}

func (m Select) Focused() bool { return m.focused }
func (m Select) Open() bool    { return m.open }

func (m *Select) Focus() tea.Cmd {
	m.focused = true
	return nil
}

func (m *Select) Blur() {
	m.focused = false
	m.open = false
}

// row is one entry of the open list. option is -1 for the placeholder.
type row struct {
	option int
	text   string
}

// rows lists the choices a user can move over. The placeholder is only
// choosable when the select is optional.
func (m Select) rows() []row {
	var out []row
	if m.Placeholder != "" && !m.required && !m.multiple {
		out = append(out, row{option: -1, text: m.Placeholder})
	}
	for i, o := range m.options {
		if o.Hidden {
			continue
		}
		out = append(out, row{option: i, text: o.Text})
	}
	return out
}

func (m Select) usable(r row) bool {
	return r.option < 0 || !m.options[r.option].Disabled
}

// Update handles keys while focused.
func (m Select) Update(msg tea.Msg) (Select, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !m.focused || m.disabled || m.readonly {
		return m, nil
	}

	if !m.open {
		if key.Matches(keyMsg, m.Keys.Choose, m.Keys.Down) {
			m.openList()
		}
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.Keys.Up):
		m.move(-1)
	case key.Matches(keyMsg, m.Keys.Down):
		m.move(1)
	case key.Matches(keyMsg, m.Keys.Choose):
		m.choose(m.cursor)
	case key.Matches(keyMsg, m.Keys.Close):
		m.open = false
	}
	return m, nil
}

func (m *Select) openList() {
	m.open = true
	rows := m.rows()
	m.cursor = 0
	for i, r := range rows {
		if r.option >= 0 && m.value.Contains(m.options[r.option].Value) {
			m.cursor = i
			return
		}
	}
	for i, r := range rows {
		if m.usable(r) {
			m.cursor = i
			return
		}
	}
}

// move steps the cursor over usable rows, stopping at the ends.
func (m *Select) move(delta int) {
	rows := m.rows()
	for i := m.cursor + delta; i >= 0 && i < len(rows); i += delta {
		if m.usable(rows[i]) {
			m.cursor = i
			return
		}
	}
}

// choose applies row i. Single selects replace the value and close;
// multiple selects toggle the option and stay open.
func (m *Select) choose(i int) {
	rows := m.rows()
	if i < 0 || i >= len(rows) || !m.usable(rows[i]) {
		return
	}
	r := rows[i]
	if r.option < 0 {
		m.SetValue(nil)
		m.open = false
		return
	}
	v := m.options[r.option].Value
	if !m.multiple {
		m.SetValue(v)
		m.open = false
		return
	}
	if m.value.Contains(v) {
		m.SetValue(m.value.Without(v).Strings())
	} else {
		m.SetValue(m.value.With(v).Strings())
	}
}

// SelectedText is the text of the selected options, comma separated.
func (m Select) SelectedText() string {
	var texts []string
	for _, o := range m.options {
		if o.Selected {
			texts = append(texts, o.Text)
		}
	}
	return strings.Join(texts, ", ")
}

func (m Select) View() string {
	labelStyle := ui.LabelStyle
	if m.focused {
		labelStyle = ui.FocusedLabelStyle
	}
	lines := []string{labelStyle.Render(m.Label)}

	switch text := m.SelectedText(); {
	case m.readonly:
		lines = append(lines, text)
	case text != "":
		lines = append(lines, text+" ▾")
	default:
		lines = append(lines, ui.PlaceholderStyle.Render(m.Placeholder)+" ▾")
	}

	if m.open {
		for i, r := range m.rows() {
			style, marker := ui.RowStyle, ""
			switch {
			case i == m.cursor:
				style, marker = ui.FocusedRowStyle, ui.CursorMarker+" "
			case r.option >= 0 && m.options[r.option].Selected:
				style, marker = ui.SelectedRowStyle, ui.SelectedMarker+" "
			case !m.usable(r):
				style = ui.PlaceholderStyle.PaddingLeft(2)
			}
			lines = append(lines, style.Render(marker+r.text))
		}
	}

	if v := (MessageView{Message: m.Field.Message()}).View(); v != "" {
		lines = append(lines, v)
	}
	return strings.Join(lines, "\n")
}
