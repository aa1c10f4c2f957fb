package demo

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/muurk/fieldkit/internal/action"
	"github.com/muurk/fieldkit/internal/combobox"
	"github.com/muurk/fieldkit/internal/config"
	"github.com/muurk/fieldkit/internal/form"
	"github.com/muurk/fieldkit/internal/logging"
	"github.com/muurk/fieldkit/internal/option"
	"github.com/muurk/fieldkit/internal/overlay"
	"github.com/muurk/fieldkit/internal/pager"
	"github.com/muurk/fieldkit/internal/search"
	"github.com/muurk/fieldkit/internal/transport"
	"github.com/muurk/fieldkit/internal/ui"
	"github.com/muurk/fieldkit/internal/widget"
)

// Field indices in focus order
const (
	focusName = iota
	focusEmail
	focusCity
	focusFruits
	focusSize
	focusPlans
	focusSubmit
	fieldCount
)

// Options configure the demo.
type Options struct {
	Config *config.Config
	// Endpoint is the backend base URL.
	Endpoint string
	// Compact forces modal lists.
	Compact bool
	Fluid   bool
	Logger  *zap.Logger
	Context context.Context
}

// submitDoneMsg reports the end of a submit.
type submitDoneMsg struct {
	ok     bool
	id     int
	signup Signup
	err    error
}

// formKeyMap defines key bindings for the form screen
type formKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k formKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Submit, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k formKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Next, k.Prev, k.Submit, k.Quit}}
}

var plans = func() []string {
	out := make([]string, 45)
	for i := range out {
		out[i] = fmt.Sprintf("Plan %02d", i+1)
	}
	return out
}()

var fruits = []option.Option{
	{Value: "apple", Text: "Apple"},
	{Value: "banana", Text: "Banana"},
	{Value: "cherry", Text: "Cherry"},
	{Value: "grape", Text: "Grape"},
	{Value: "mango", Text: "Mango"},
	{Value: "pear", Text: "Pear"},
	{Value: "strawberry", Text: "Strawberry", DetailText: "Seasonal"},
}

// FormModel is the signup form: text inputs, two comboboxes, a select
// and a pager, submitted through the action controller.
type FormModel struct {
	Name       textinput.Model
	Email      textinput.Model
	NameField  *form.Field
	EmailField *form.Field
	City       widget.Combobox
	Fruits     widget.Combobox
	Size       widget.Select
	Plans      widget.PagerView
	Pager      *pager.Pager

	Form     *form.Form
	Actions  *action.Controller
	Overlays *overlay.Manager
	Client   *transport.Client

	Container widget.Container
	Spinner   spinner.Model
	Help      help.Model
	Keys      formKeyMap

	// Set once a submit succeeded
	Done   bool
	Result *ui.Result
	// Failed holds a submit error that no field message explains.
	Failed error

	Submitting bool
	Width      int
	Height     int

	focus int
	ctx   context.Context
	log   *zap.Logger
}

// NewFormModel builds the form from opts.
func NewFormModel(opts Options) FormModel {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := logging.OrDefault(opts.Logger, "demo")

	overlays := overlay.NewManager()
	client := transport.NewClient(opts.Endpoint)
	client.Logger = log.Named("transport")

	presentation := cfg.Combobox.Presentation
	if opts.Compact {
		presentation = combobox.PresentationMode(combobox.PresentModal)
	}
	engineConfig := func(multiple bool) combobox.Config {
		return combobox.Config{
			Multiple:     multiple,
			Debounce:     cfg.Combobox.Debounce(),
			Messages:     cfg.Combobox.Messages,
			Presentation: presentation,
			ListHeight:   cfg.Combobox.ListHeight,
			Logger:       log.Named("combobox"),
		}
	}

	name := textinput.New()
	name.Placeholder = "Full name"
	name.CharLimit = 80
	nameField := form.NewField("name", "Name", form.Required(), form.MinLength(2), form.MaxLength(80))

	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 120
	emailField := form.NewField("email", "Email", form.Required(), form.Email()).
		WithHelper("We only use it to confirm the signup")

	cityConfig := engineConfig(false)
	cityConfig.AllowAdd = true
	cityConfig.Provider = &transport.Provider{Client: client, Path: CitiesPath}
	city := widget.NewCombobox(widget.ComboboxConfig{
		Name:         "city",
		Label:        "City",
		Engine:       cityConfig,
		Constraints:  []form.Constraint{form.Required()},
		Helper:       "Type to search, or enter a new city",
		Overlays:     overlays,
		CompactWidth: cfg.Combobox.CompactWidth,
		Context:      ctx,
	})

	fruitConfig := engineConfig(true)
	fruitConfig.Match = search.ModeFuzzy
	fruitBox := widget.NewCombobox(widget.ComboboxConfig{
		Name:         "fruits",
		Label:        "Favourite fruits",
		Engine:       fruitConfig,
		Overlays:     overlays,
		CompactWidth: cfg.Combobox.CompactWidth,
		Context:      ctx,
	})
	fruitBox.Engine.SetOptions(fruits)

	size := widget.NewSelect(widget.SelectConfig{
		Name:        "size",
		Label:       "Box size",
		Placeholder: "Pick a size",
		Required:    true,
		Options: []widget.SelectOption{
			{Value: "s", Text: "Small"},
			{Value: "m", Text: "Medium", Selected: true},
			{Value: "l", Text: "Large"},
			{Value: "xl", Text: "Family", Disabled: true},
		},
		Logger: log.Named("select"),
	})

	pg := pager.New(cfg.Pager.PageSize, len(plans))
	pg.Messages = cfg.Pager.Messages
	pg.OnChange = func(ev pager.PageChanged) {
		log.Debug("Page changed", zap.Int("page", ev.Page), zap.Int("start", ev.Start), zap.Int("end", ev.End))
	}

	f := form.New(nameField, emailField, city.FormInput(), fruitBox.FormInput(), size.Field)

	actions := action.New(overlays, overlays)
	actions.Defaults = cfg.Action.Options()
	actions.Logger = log.Named("action")

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	m := FormModel{
		Name:       name,
		Email:      email,
		NameField:  nameField,
		EmailField: emailField,
		City:       city,
		Fruits:     fruitBox,
		Size:       size,
		Plans:      widget.NewPagerView(pg, widget.NewPopupMenuController(overlays)),
		Pager:      pg,
		Form:       f,
		Actions:    actions,
		Overlays:   overlays,
		Client:     client,
		Container:  widget.Container{Fluid: opts.Fluid},
		Spinner:    s,
		Help:       help.New(),
		Keys: formKeyMap{
			Next: key.NewBinding(
				key.WithKeys("tab"),
				key.WithHelp("tab", "next field"),
			),
			Prev: key.NewBinding(
				key.WithKeys("shift+tab"),
				key.WithHelp("shift+tab", "previous field"),
			),
			Submit: key.NewBinding(
				key.WithKeys("ctrl+s"),
				key.WithHelp("ctrl+s", "submit"),
			),
			Quit: key.NewBinding(
				key.WithKeys("ctrl+c"),
				key.WithHelp("ctrl+c", "quit"),
			),
		},
		ctx: ctx,
		log: log,
	}
	m.Name.Focus()
	return m
}

// Init loads the city list and starts the cursor.
func (m FormModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.City.Init(), m.Fruits.Init())
}

// Focused returns the index of the focused field.
func (m FormModel) Focused() int { return m.focus }

func (m *FormModel) blurAll() {
	m.Name.Blur()
	m.Email.Blur()
	if m.City.Focused() {
		m.City.Blur()
	}
	if m.Fruits.Focused() {
		m.Fruits.Blur()
	}
	m.Size.Blur()
	m.Plans.Blur()
}

func (m *FormModel) setFocus(i int) tea.Cmd {
	m.blurAll()
	m.focus = (i + fieldCount) % fieldCount
	switch m.focus {
	case focusName:
		return m.Name.Focus()
	case focusEmail:
		return m.Email.Focus()
	case focusCity:
		return m.City.Focus()
	case focusFruits:
		return m.Fruits.Focus()
	case focusSize:
		return m.Size.Focus()
	case focusPlans:
		return m.Plans.Focus()
	}
	return nil
}

// Update handles messages for the form.
func (m FormModel) Update(msg tea.Msg) (FormModel, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.Container.Width = msg.Width
		m.Help.Width = msg.Width

	case spinner.TickMsg:
		if !m.Submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case overlay.ToastExpiredMsg:
		return m, m.Overlays.ExpireCmd()

	case submitDoneMsg:
		m.Submitting = false
		if msg.ok {
			m.Done = true
			m.Result = ui.NewSuccessResult("Signup accepted", nil).
				AddDetail("ID", fmt.Sprint(msg.id)).
				AddDetail("Name", msg.signup.Name).
				AddDetail("Email", msg.signup.Email).
				AddDetail("City", m.City.Engine.DisplayText()).
				AddDetail("Fruits", m.Fruits.Engine.Text()).
				AddDetail("Size", m.Size.SelectedText())
			m.Result.Width = m.Container.ContentWidth()
		} else if msg.err != nil && action.Classify(action.StatusOf(msg.err)) == action.CategoryInternal {
			m.Failed = msg.err
		}
		return m, m.Overlays.ExpireCmd()

	case widget.PageChangedMsg:
		return m, nil

	case tea.KeyMsg:
		if m.Submitting {
			return m, nil
		}
		if m.focus == focusPlans && m.Plans.MenuOpen() {
			var cmd tea.Cmd
			m.Plans, cmd = m.Plans.Update(msg)
			return m, cmd
		}
		switch {
		case key.Matches(msg, m.Keys.Next):
			return m, m.setFocus(m.focus + 1)
		case key.Matches(msg, m.Keys.Prev):
			return m, m.setFocus(m.focus - 1)
		case key.Matches(msg, m.Keys.Submit):
			return m.submit()
		case m.focus == focusSubmit && msg.Type == tea.KeyEnter:
			return m.submit()
		}
		return m.updateFocused(msg)

	case tea.MouseMsg:
		if m.Submitting {
			return m, nil
		}
		return m.updateFocused(msg)
	}

	// Async widget messages are routed by id inside each combobox.
	var cmd tea.Cmd
	m.City, cmd = m.City.Update(msg)
	cmds = append(cmds, cmd)
	m.Fruits, cmd = m.Fruits.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m FormModel) updateFocused(msg tea.Msg) (FormModel, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusName:
		m.Name, cmd = m.Name.Update(msg)
		m.NameField.SetValue(m.Name.Value())
	case focusEmail:
		m.Email, cmd = m.Email.Update(msg)
		m.EmailField.SetValue(strings.TrimSpace(m.Email.Value()))
	case focusCity:
		m.City.Top = m.fieldTop(focusCity)
		m.City, cmd = m.City.Update(msg)
	case focusFruits:
		m.Fruits.Top = m.fieldTop(focusFruits)
		m.Fruits, cmd = m.Fruits.Update(msg)
	case focusSize:
		m.Size, cmd = m.Size.Update(msg)
	case focusPlans:
		m.Plans, cmd = m.Plans.Update(msg)
	}
	return m, cmd
}

// Signup returns the values the form would post.
func (m FormModel) Signup() Signup {
	return Signup{
		Name:   strings.TrimSpace(m.Name.Value()),
		Email:  strings.TrimSpace(m.Email.Value()),
		City:   m.City.Engine.Value().String(),
		Fruits: m.Fruits.Engine.Value().Strings(),
		Size:   m.Size.Value().String(),
	}
}

// submit resolves pending input, then validates and posts the form on a
// command goroutine.
func (m FormModel) submit() (FormModel, tea.Cmd) {
	m.setFocus(focusSubmit)
	m.Submitting = true

	signup := m.Signup()
	f, actions, client, ctx := m.Form, m.Actions, m.Client, m.ctx
	post := func() tea.Msg {
		var resp SignupResponse
		var postErr error
		ok := actions.ProcessSubmit(ctx, f, func(ctx context.Context) error {
			postErr = client.PostJSON(ctx, SignupPath, signup, &resp)
			return postErr
		})
		return submitDoneMsg{ok: ok, id: resp.ID, signup: signup, err: postErr}
	}
	return m, tea.Batch(m.Spinner.Tick, post)
}

// field renders block i with a focus gutter.
func (m FormModel) field(i int) string {
	var body string
	switch i {
	case focusName:
		body = m.textField(m.NameField, m.Name, i)
	case focusEmail:
		body = m.textField(m.EmailField, m.Email, i)
	case focusCity:
		body = m.City.View()
	case focusFruits:
		body = m.Fruits.View()
	case focusSize:
		body = m.Size.View()
	case focusPlans:
		body = m.plansView()
	case focusSubmit:
		style := ui.ButtonStyle
		if m.focus == focusSubmit {
			style = ui.FocusedButtonStyle
		}
		body = style.Render("Submit")
		if m.Submitting {
			body += "  " + m.Spinner.View() + " " + m.Actions.Defaults.Messages.Sending
		}
	}
	if i == m.focus {
		return FocusGutterStyle.Render(body)
	}
	return BlurGutterStyle.Render(body)
}

func (m FormModel) textField(f *form.Field, in textinput.Model, i int) string {
	labelStyle := ui.LabelStyle
	if i == m.focus {
		labelStyle = ui.FocusedLabelStyle
	}
	lines := []string{labelStyle.Render(f.Label()), in.View()}
	if v := (widget.MessageView{Message: f.Message()}).View(); v != "" {
		lines = append(lines, v)
	}
	return strings.Join(lines, "\n")
}

func (m FormModel) plansView() string {
	start, end := m.Pager.Start()-1, m.Pager.End()
	var page string
	if start >= 0 && start < end {
		page = strings.Join(plans[start:end], " · ")
	}
	width := max(m.Container.ContentWidth()-4, 20)
	return lipgloss.JoinVertical(lipgloss.Left,
		ui.LabelStyle.Render("Plans"),
		ui.HelperStyle.Width(width).Render(page),
		m.Plans.View(),
	)
}

func (m FormModel) heading() string {
	return RenderTitle("Sign up for a fruit box")
}

// fieldTop is the screen line field i starts on inside the application
// container: outer border, header and its rule, then the blocks above.
func (m FormModel) fieldTop(i int) int {
	top := 3 + lipgloss.Height(m.heading())
	if s := m.summary(); s != "" {
		top += lipgloss.Height(s)
	}
	for j := 0; j < i; j++ {
		top += lipgloss.Height(m.field(j)) + 1
	}
	return top
}

func (m FormModel) summary() string {
	return widget.SummaryView{Summary: m.Form.MessageSummary(), Width: m.Container.ContentWidth()}.View()
}

// View renders the form content, without the application container.
func (m FormModel) View() string {
	blocks := []string{m.heading()}
	if s := m.summary(); s != "" {
		blocks = append(blocks, s)
	}
	for i := 0; i < fieldCount; i++ {
		blocks = append(blocks, m.field(i))
	}
	return m.Container.Render(strings.Join(blocks, "\n\n"))
}
