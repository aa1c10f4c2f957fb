package widget

import (
	"errors"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/fieldkit/internal/logging"
	"github.com/muurk/fieldkit/internal/overlay"
	"github.com/muurk/fieldkit/internal/ui"
)

// ErrNoButtons is returned when creating a menu without buttons.
var ErrNoButtons = errors.New("popup menu: no buttons")

// MenuButton is one entry of a popup menu. Handler may be nil; the
// command it returns is handed back to the program.
type MenuButton struct {
	Text    string
	Icon    string
	Handler func() tea.Cmd
}

// MenuOptions describe a popup menu.
type MenuOptions struct {
	ID      string
	Header  string
	Buttons []MenuButton
	// BackdropDismiss lets esc close the menu without choosing.
	BackdropDismiss bool
}

// PopupMenuController creates popup menus on an overlay service.
type PopupMenuController struct {
	Overlays overlay.Service
	Keys     MenuKeyMap
	Logger   *zap.Logger
}

// NewPopupMenuController returns a controller drawing on overlays.
func NewPopupMenuController(overlays overlay.Service) *PopupMenuController {
	return &PopupMenuController{Overlays: overlays, Keys: DefaultMenuKeyMap()}
}

// Create builds a menu. It is not shown until Present.
func (c *PopupMenuController) Create(opts MenuOptions) (*PopupMenu, error) {
	if len(opts.Buttons) == 0 {
		return nil, ErrNoButtons
	}
	menu := &PopupMenu{
		opts: opts,
		keys: c.Keys,
		log:  logging.OrDefault(c.Logger, "widget.popup"),
	}
	h, err := c.Overlays.Create(overlay.Config{
		Kind:    overlay.KindPopover,
		Title:   opts.Header,
		Content: menu.render,
	})
	if err != nil {
		return nil, err
	}
	menu.handle = h
	return menu, nil
}

// PopupMenu is a presented list of buttons. Choosing a button runs its
// handler and then dismisses the menu.
type PopupMenu struct {
	mu     sync.Mutex
	opts   MenuOptions
	keys   MenuKeyMap
	cursor int
	handle overlay.Handle
	log    *zap.Logger
}

func (p *PopupMenu) ID() string { return p.opts.ID }

// Present shows the menu.
func (p *PopupMenu) Present() error { return p.handle.Present() }

// Dismiss hides the menu. Dismissing twice does nothing.
func (p *PopupMenu) Dismiss() error {
	if p.handle.Dismissed() {
		return nil
	}
	return p.handle.Dismiss()
}

// Done is closed once the menu is dismissed.
func (p *PopupMenu) Done() <-chan struct{} { return p.handle.Done() }

// Active reports whether the menu still takes keys.
func (p *PopupMenu) Active() bool { return !p.handle.Dismissed() }

// Cursor returns the highlighted button.
func (p *PopupMenu) Cursor() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor
}

// Update handles keys for an active menu.
func (p *PopupMenu) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !p.Active() {
		return nil
	}
	switch {
	case key.Matches(keyMsg, p.keys.Up):
		p.mu.Lock()
		p.cursor = max(p.cursor-1, 0)
		p.mu.Unlock()
	case key.Matches(keyMsg, p.keys.Down):
		p.mu.Lock()
		p.cursor = min(p.cursor+1, len(p.opts.Buttons)-1)
		p.mu.Unlock()
	case key.Matches(keyMsg, p.keys.Choose):
		return p.Choose(p.Cursor())
	case key.Matches(keyMsg, p.keys.Close):
		if p.opts.BackdropDismiss {
			_ = p.Dismiss()
		}
	}
	return nil
}

// Choose runs the handler of button i and dismisses the menu.
func (p *PopupMenu) Choose(i int) tea.Cmd {
	if i < 0 || i >= len(p.opts.Buttons) {
		return nil
	}
	b := p.opts.Buttons[i]
	var cmd tea.Cmd
	if b.Handler != nil {
		cmd = b.Handler()
	}
	if err := p.Dismiss(); err != nil {
		p.log.Warn("Failed to dismiss popup menu", zap.Error(err))
	}
	return cmd
}

func (p *PopupMenu) render(width int) string {
	cursor := p.Cursor()
	lines := make([]string, 0, len(p.opts.Buttons))
	for i, b := range p.opts.Buttons {
		text := b.Text
		if b.Icon != "" {
			text = b.Icon + " " + text
		}
		if i == cursor {
			lines = append(lines, ui.FocusedRowStyle.MaxWidth(width).Render(ui.CursorMarker+" "+text))
			continue
		}
		lines = append(lines, ui.RowStyle.MaxWidth(width).Render(text))
	}
	return strings.Join(lines, "\n")
}
