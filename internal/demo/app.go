package demo

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/fieldkit/internal/ui"
)

// Screen represents the current active screen in the application
type Screen string

const (
	ScreenForm    Screen = "form"
	ScreenSuccess Screen = "success"
	ScreenFailure Screen = "failure"
)

// resultKeyMap defines key bindings for the result screens
type resultKeyMap struct {
	Again key.Binding
	Edit  key.Binding
	Quit  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k resultKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Again, k.Edit, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k resultKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Again, k.Edit, k.Quit},
	}
}

// AppModel is the top-level coordinator model that manages screen transitions
type AppModel struct {
	CurrentScreen Screen

	Form FormModel
	opts Options

	// UI state
	Width  int
	Height int

	Help       help.Model
	ResultKeys resultKeyMap
}

// NewAppModel creates the application on the form screen.
func NewAppModel(opts Options) AppModel {
	return AppModel{
		CurrentScreen: ScreenForm,
		Form:          NewFormModel(opts),
		opts:          opts,
		Help:          help.New(),
		ResultKeys: resultKeyMap{
			Again: key.NewBinding(
				key.WithKeys("n"),
				key.WithHelp("n", "new signup"),
			),
			Edit: key.NewBinding(
				key.WithKeys("e", "enter"),
				key.WithHelp("e", "back to form"),
			),
			Quit: key.NewBinding(
				key.WithKeys("q", "esc"),
				key.WithHelp("q", "quit"),
			),
		},
	}
}

// Init initializes the application
func (m AppModel) Init() tea.Cmd {
	return m.Form.Init()
}

// Update handles all messages and routes them to the appropriate screen
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Help.Width = msg.Width

	case tea.KeyMsg:
		// Global quit handler
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.CurrentScreen != ScreenForm {
			return m.handleResultScreen(msg)
		}
	}

	var cmd tea.Cmd
	m.Form, cmd = m.Form.Update(msg)

	switch {
	case m.CurrentScreen != ScreenForm:
	case m.Form.Done:
		m.CurrentScreen = ScreenSuccess
	case m.Form.Failed != nil:
		m.CurrentScreen = ScreenFailure
	}
	return m, cmd
}

// handleResultScreen handles user input on the success and failure screens
func (m AppModel) handleResultScreen(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.ResultKeys.Again):
		return m.restart()
	case key.Matches(msg, m.ResultKeys.Edit):
		m.Form.Done = false
		m.Form.Failed = nil
		m.CurrentScreen = ScreenForm
		return m, nil
	case key.Matches(msg, m.ResultKeys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

// restart replaces the form with an empty one.
func (m AppModel) restart() (tea.Model, tea.Cmd) {
	m.Form = NewFormModel(m.opts)
	m.CurrentScreen = ScreenForm
	size := tea.WindowSizeMsg{Width: m.Width, Height: m.Height}
	var cmd tea.Cmd
	m.Form, cmd = m.Form.Update(size)
	return m, tea.Batch(cmd, m.Form.Init())
}

// View renders the current screen
func (m AppModel) View() string {
	var content, helpText string
	switch m.CurrentScreen {
	case ScreenSuccess:
		content = m.buildResultContent(m.Form.Result)
		helpText = m.Help.View(m.ResultKeys)
	case ScreenFailure:
		content = m.buildResultContent(ui.NewFailureResult("Signup failed", m.Form.Failed))
		helpText = m.Help.View(m.ResultKeys)
	default:
		content = m.Form.View()
		helpText = m.Form.Help.View(m.Form.Keys)
	}
	screen := RenderApplicationContainer(content, helpText, m.Width, m.Height)
	return m.Form.Overlays.View(screen, m.Width, m.Height)
}

func (m AppModel) buildResultContent(r *ui.Result) string {
	var b strings.Builder
	if r == nil {
		return ""
	}
	r.Width = m.Form.Container.ContentWidth()
	b.WriteString(r.Render())
	b.WriteString("\n\n")
	if m.CurrentScreen == ScreenFailure {
		b.WriteString("Troubleshooting:\n")
		b.WriteString("  • Check the backend is running and reachable\n")
		b.WriteString("  • Submit again once the server recovers\n")
	}
	return m.Form.Container.Render(b.String())
}
