package widget

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/muurk/fieldkit/internal/coalesce"
	"github.com/muurk/fieldkit/internal/combobox"
	"github.com/muurk/fieldkit/internal/form"
	"github.com/muurk/fieldkit/internal/logging"
	"github.com/muurk/fieldkit/internal/option"
	"github.com/muurk/fieldkit/internal/overlay"
	"github.com/muurk/fieldkit/internal/ui"
	"github.com/muurk/fieldkit/internal/validation"
)

// DefaultLayoutDelay coalesces bursts of resize events.
const DefaultLayoutDelay = 50 * time.Millisecond

var nextID atomic.Int64

// Message types for async combobox work
type searchTickMsg struct {
	id  int64
	seq uint64
}

type searchResultMsg struct {
	id      int64
	seq     uint64
	records []option.Record
	err     error
}

type layoutMsg struct {
	id            int64
	seq           uint64
	width, height int
}

// ComboboxConfig configures a Combobox widget.
type ComboboxConfig struct {
	Name  string
	Label string
	// Engine is passed to combobox.New. Surface is replaced by the widget;
	// OnChange and Compact are chained.
	Engine      combobox.Config
	Constraints []form.Constraint
	Helper      string

	// Overlays hosts modal lists. Without it a modal list is drawn inline.
	Overlays overlay.Service
	// CompactWidth is the terminal width below which auto presentation
	// picks a modal.
	CompactWidth int
	LayoutDelay  time.Duration

	// Context bounds provider searches.
	Context context.Context
}

// comboState is shared by every copy of a Combobox model.
type comboState struct {
	compact atomic.Bool

	mu      sync.Mutex
	loading bool
	err     error
}

func (s *comboState) setLoading(loading bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
	s.err = err
}

func (s *comboState) status() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading, s.err
}

// Combobox is a Bubble Tea model over a combobox.Engine. Typing is
// debounced through tick messages; provider searches run as commands and
// their results are applied only while their sequence number is current.
type Combobox struct {
	id     int64
	Name   string
	Label  string
	Engine *combobox.Engine
	Field  *form.Field
	Input  textinput.Model
	Keys   ComboboxKeyMap
	Width  int
	// Top is the screen line the widget is drawn on, for mouse hits.
	Top int

	provider     combobox.SearchProvider
	ctx          context.Context
	compactWidth int
	listHeight   int
	layout       *coalesce.Scheduler
	surface      *surface
	state        *comboState
	log          *zap.Logger
	focused      bool
}

// NewCombobox creates a combobox widget and its engine.
func NewCombobox(cfg ComboboxConfig) Combobox {
	log := logging.OrDefault(cfg.Engine.Logger, "widget.combobox")
	st := &comboState{}
	if cfg.CompactWidth <= 0 {
		cfg.CompactWidth = 60
	}
	st.compact.Store(ui.IsCompact(cfg.CompactWidth))

	field := form.NewField(cfg.Name, cfg.Label, cfg.Constraints...)
	if cfg.Helper != "" {
		field.WithHelper(cfg.Helper)
	}

	ecfg := cfg.Engine
	userChange := ecfg.OnChange
	ecfg.OnChange = func(v option.Value) {
		field.SetValue(v.String())
		if userChange != nil {
			userChange(v)
		}
	}
	userCompact := ecfg.Compact
	ecfg.Compact = func() bool {
		return st.compact.Load() || (userCompact != nil && userCompact())
	}
	surf := newSurface(cfg.Overlays, field.Label(), log)
	ecfg.Surface = surf
	if ecfg.Logger == nil {
		ecfg.Logger = log
	}
	eng := combobox.New(ecfg)
	field.SetValue(eng.Value().String())

	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = 256
	in.Placeholder = eng.Messages().Prompt(eng.Multiple())

	delay := cfg.LayoutDelay
	if delay <= 0 {
		delay = DefaultLayoutDelay
	}
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	listHeight := ecfg.ListHeight
	if listHeight <= 0 {
		listHeight = combobox.DefaultListHeight
	}

	m := Combobox{
		id:           nextID.Add(1),
		Name:         cfg.Name,
		Label:        field.Label(),
		Engine:       eng,
		Field:        field,
		Input:        in,
		Keys:         DefaultComboboxKeyMap(),
		Width:        ui.GetTerminalWidth(),
		provider:     ecfg.Provider,
		ctx:          ctx,
		compactWidth: cfg.CompactWidth,
		listHeight:   listHeight,
		layout:       coalesce.New(delay),
		surface:      surf,
		state:        st,
		log:          log,
	}
	surf.render = m.renderModal
	return m
}

// FormInput returns the widget as a form input whose validity lives in
// the hidden value field.
func (m Combobox) FormInput() validation.Input {
	return form.NewComposite(m.Name, m.Field)
}

// Init loads the initial options from the provider, if any.
func (m Combobox) Init() tea.Cmd {
	if m.provider == nil {
		return nil
	}
	eng, ctx, st, log := m.Engine, m.ctx, m.state, m.log
	return func() tea.Msg {
		if err := eng.Attach(ctx); err != nil {
			log.Warn("Initial option load failed", zap.Error(err))
			st.setLoading(false, err)
		}
		return nil
	}
}

// Focused reports whether the widget takes keys.
func (m Combobox) Focused() bool { return m.focused }

// Focus gives the widget the keyboard and opens the list.
func (m *Combobox) Focus() tea.Cmd {
	m.focused = true
	m.Engine.Focus()
	return m.Input.Focus()
}

// Blur resolves typed text and closes the list.
func (m *Combobox) Blur() {
	m.focused = false
	m.Engine.Blur()
	m.Input.Blur()
	m.syncInput()
}

// Update handles messages. Tick and result messages are routed by widget
// id, so several comboboxes can share one program.
func (m Combobox) Update(msg tea.Msg) (Combobox, tea.Cmd) {
	switch msg := msg.(type) {
	case searchTickMsg:
		if msg.id != m.id {
			return m, nil
		}
		return m, m.beginSearch(msg.seq)

	case searchResultMsg:
		if msg.id != m.id {
			return m, nil
		}
		err := m.Engine.ApplySearch(msg.seq, msg.records, msg.err)
		m.state.setLoading(false, err)
		if err != nil {
			m.log.Warn("Search failed", zap.Error(err))
		}
		return m, nil

	case tea.WindowSizeMsg:
		w, h := msg.Width, msg.Height
		id := m.id
		_, cmd := m.layout.Tick(func(seq uint64) tea.Msg {
			return layoutMsg{id: id, seq: seq, width: w, height: h}
		})
		return m, cmd

	case layoutMsg:
		if msg.id != m.id || !m.layout.IsCurrent(msg.seq) {
			return m, nil
		}
		m.applyLayout(msg.width, msg.height)
		return m, nil
	}

	if !m.focused {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	}
	return m, nil
}

func (m *Combobox) applyLayout(width, height int) {
	m.Width = ui.ClampWidth(width)
	m.state.compact.Store(ui.CompactWidth(width, m.compactWidth))
	l := m.Engine.List()
	if l == nil {
		return
	}
	if m.surface.modalOpen() {
		l.SetHeight(max(height-8, 3))
		return
	}
	l.SetHeight(m.listHeight)
}

func (m Combobox) handleKey(msg tea.KeyMsg) (Combobox, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Down):
		m.Engine.FocusNext()
		return m, nil

	case key.Matches(msg, m.Keys.Up):
		m.Engine.FocusPrevious()
		return m, nil

	case key.Matches(msg, m.Keys.Select):
		if err := m.Engine.Enter(); err != nil && !errors.Is(err, combobox.ErrNoFocusedOption) {
			m.log.Debug("Enter ignored", zap.Error(err))
		}
		m.syncInput()
		return m, nil

	case key.Matches(msg, m.Keys.Close):
		m.Engine.Escape()
		m.syncInput()
		return m, nil

	case key.Matches(msg, m.Keys.Clear):
		_ = m.Engine.Clear()
		m.Engine.ClearSearch()
		m.syncInput()
		return m, nil

	case key.Matches(msg, m.Keys.Remove) && m.Input.Value() == "" && m.Engine.Multiple():
		if vals := m.Engine.Value().Strings(); len(vals) > 0 {
			_ = m.Engine.Deselect(vals[len(vals)-1])
		}
		return m, nil
	}

	before := m.Input.Value()
	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	after := m.Input.Value()
	if after == before {
		return m, cmd
	}
	return m, tea.Batch(cmd, m.search(after))
}

// search records text and returns the debounce tick for it.
func (m *Combobox) search(text string) tea.Cmd {
	if strings.TrimSpace(text) == "" {
		m.Engine.ClearSearch()
		return nil
	}
	seq := m.Engine.Search(text)
	if seq == 0 {
		return nil
	}
	id := m.id
	msg := searchTickMsg{id: id, seq: seq}
	wait := m.Engine.Debounce()
	if wait <= 0 {
		return func() tea.Msg { return msg }
	}
	return tea.Tick(wait, func(time.Time) tea.Msg { return msg })
}

// beginSearch applies a local pass, or starts the provider fetch for seq.
func (m Combobox) beginSearch(seq uint64) tea.Cmd {
	query, custom, ok := m.Engine.BeginSearch(seq)
	if !ok || !custom || m.provider == nil {
		return nil
	}
	m.state.setLoading(true, nil)
	provider, ctx, id := m.provider, m.ctx, m.id
	return func() tea.Msg {
		records, err := provider.Search(ctx, query)
		return searchResultMsg{id: id, seq: seq, records: records, err: err}
	}
}

func (m *Combobox) handleMouse(msg tea.MouseMsg) {
	switch msg.Button {
	case tea.MouseButtonWheelDown:
		m.Engine.FocusNext()
		return
	case tea.MouseButtonWheelUp:
		m.Engine.FocusPrevious()
		return
	}

	l, _, ok := m.surface.inline()
	if !ok {
		return
	}
	// Label and input take the first two lines.
	row := l.RowAtLine(msg.Y - m.Top - 2)
	if row < 0 {
		return
	}
	switch {
	case msg.Action == tea.MouseActionMotion:
		m.Engine.Hover(row)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		_ = m.Engine.MouseDown(row)
		m.syncInput()
	}
}

// syncInput empties the input once the engine has left search mode.
func (m *Combobox) syncInput() {
	if !m.Engine.Searching() {
		m.Input.SetValue("")
	}
	if text := m.Engine.DisplayText(); text != "" && !m.Engine.Multiple() {
		m.Input.Placeholder = text
		return
	}
	m.Input.Placeholder = m.Engine.Messages().Prompt(m.Engine.Multiple())
}

func (m Combobox) statusText() string {
	loading, err := m.state.status()
	switch {
	case loading:
		return m.Engine.Messages().Loading
	case err != nil:
		return err.Error()
	}
	return ""
}

// View renders label, value and, when drawn in place, the open list.
func (m Combobox) View() string {
	labelStyle := ui.LabelStyle
	if m.focused {
		labelStyle = ui.FocusedLabelStyle
	}
	lines := []string{labelStyle.Render(m.Label), m.valueLine()}

	if l, pres, ok := m.surface.inline(); ok {
		list := renderList(l.View(), m.Engine.Value(), m.Width, m.statusText())
		if pres == combobox.PresentPopover {
			list = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ui.PrimaryColor).
				Render(list)
		}
		lines = append(lines, list)
	}

	if msg := m.Field.Message(); msg != nil && msg.HasMessage() {
		lines = append(lines, MessageView{Message: msg}.View())
	}
	return strings.Join(lines, "\n")
}

func (m Combobox) valueLine() string {
	var b strings.Builder
	if m.Engine.Multiple() {
		for _, o := range m.Engine.SelectedOptions() {
			b.WriteString(ui.ChipStyle.Render(o.Text))
		}
	}
	if m.focused {
		b.WriteString(m.Input.View())
		return b.String()
	}
	if text := m.Engine.DisplayText(); text != "" {
		b.WriteString(text)
		return b.String()
	}
	if b.Len() == 0 {
		b.WriteString(ui.PlaceholderStyle.Render(m.Engine.Messages().Prompt(m.Engine.Multiple())))
	}
	return b.String()
}

// renderModal is the body of a modal list: search line, rows and the
// confirm/clear footer.
func (m Combobox) renderModal(l *combobox.List, width int) string {
	msgs := m.Engine.Messages()
	query := m.Engine.SearchText()
	searchLine := ui.PlaceholderStyle.Render(msgs.SearchPlaceholder)
	if query != "" {
		searchLine = query + "_"
	}

	var chosen string
	if m.Engine.Multiple() {
		if text := m.Engine.Text(); text != "" {
			chosen = ui.SelectedRowStyle.Render(text)
		} else {
			chosen = ui.PlaceholderStyle.Render(msgs.NoChoices)
		}
	}

	footer := ui.HelperStyle.Render("enter " + msgs.Confirm + " · ctrl+x " + msgs.Clear + " · esc")
	parts := []string{searchLine, ui.RenderHorizontalDivider(max(width-4, 10), "─")}
	if chosen != "" {
		parts = append(parts, chosen)
	}
	parts = append(parts, renderList(l.View(), m.Engine.Value(), width, m.statusText()), "", footer)
	return strings.Join(parts, "\n")
}
