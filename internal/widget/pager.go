package widget

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/muurk/fieldkit/internal/logging"
	"github.com/muurk/fieldkit/internal/pager"
	"github.com/muurk/fieldkit/internal/ui"
)

// PageChangedMsg carries a page move to the program.
type PageChangedMsg struct {
	pager.PageChanged
}

// PagerView draws previous / range / next buttons over a pager. The
// center button opens a popup menu with the first and last page.
type PagerView struct {
	Pager *pager.Pager
	Menus *PopupMenuController
	Keys  PagerKeyMap

	menu    *PopupMenu
	focused bool
	log     *zap.Logger
}

// NewPagerView wraps p. menus may be nil, which disables the jump menu.
func NewPagerView(p *pager.Pager, menus *PopupMenuController) PagerView {
	return PagerView{Pager: p, Menus: menus, Keys: DefaultPagerKeyMap(), log: logging.Named("widget.pager")}
}

func (m PagerView) Focused() bool  { return m.focused }
func (m *PagerView) Focus() tea.Cmd { m.focused = true; return nil }
func (m *PagerView) Blur()          { m.focused = false }

// MenuOpen reports whether the jump menu is up.
func (m PagerView) MenuOpen() bool { return m.menu != nil && m.menu.Active() }

func changed(ev pager.PageChanged, ok bool) tea.Cmd {
	if !ok {
		return nil
	}
	return func() tea.Msg { return PageChangedMsg{ev} }
}

// Update handles keys while focused. Keys go to the jump menu while it
// is open.
func (m PagerView) Update(msg tea.Msg) (PagerView, tea.Cmd) {
	if m.MenuOpen() {
		return m, m.menu.Update(msg)
	}
	m.menu = nil

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !m.focused {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.Keys.Previous):
		return m, changed(m.Pager.Previous())
	case key.Matches(keyMsg, m.Keys.Next):
		return m, changed(m.Pager.Next())
	case key.Matches(keyMsg, m.Keys.Jump):
		return m, m.openMenu()
	}
	return m, nil
}

func (m *PagerView) openMenu() tea.Cmd {
	if m.Menus == nil || !m.Pager.CenterEnabled() {
		return nil
	}
	p := m.Pager
	jump := func(b pager.Button) func() tea.Cmd {
		return func() tea.Cmd { return changed(p.Jump(b)) }
	}
	menu, err := m.Menus.Create(MenuOptions{
		ID: "pager",
		Buttons: []MenuButton{
			{Text: p.Messages.FirstPage, Handler: jump(pager.FirstPage)},
			{Text: p.Messages.LastPage, Handler: jump(pager.LastPage)},
		},
		BackdropDismiss: true,
	})
	if err != nil {
		m.log.Warn("Failed to create pager menu", zap.Error(err))
		return nil
	}
	if err := menu.Present(); err != nil {
		m.log.Warn("Failed to present pager menu", zap.Error(err))
		return nil
	}
	m.menu = menu
	return nil
}

func button(text string, enabled, focused bool) string {
	switch {
	case !enabled:
		return ui.DisabledButtonStyle.Render(text)
	case focused:
		return ui.FocusedButtonStyle.Render(text)
	default:
		return ui.ButtonStyle.Render(text)
	}
}

func (m PagerView) View() string {
	p := m.Pager
	return lipgloss.JoinHorizontal(lipgloss.Center,
		button("‹ "+p.Messages.PreviousPage, p.HasPrevious(), false),
		button(p.Label(), p.CenterEnabled(), m.focused),
		button(p.Messages.NextPage+" ›", p.HasNext(), false),
	)
}
