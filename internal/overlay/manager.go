package overlay

import (
	"errors"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/fieldkit/internal/ui"
)

// ErrDismissed is returned when presenting an overlay that was dismissed.
var ErrDismissed = errors.New("overlay: already dismissed")

// DefaultToastDuration is used for toasts created without a duration.
const DefaultToastDuration = 5 * time.Second

// Manager is an in-memory Service and ToastService. Presented overlays
// form a stack; the top one is drawn by View. It is safe for concurrent
// use, so an action running in a tea.Cmd goroutine can present and
// dismiss while the program renders.
type Manager struct {
	mu     sync.Mutex
	now    func() time.Time
	stack  []*handle
	toasts []activeToast

	presented  map[Kind]int
	dismissed  map[Kind]int
	toastCount int
}

type activeToast struct {
	cfg     ToastConfig
	expires time.Time
}

// NewManager returns an empty manager.
func NewManager() *Manager {
	return &Manager{
		now:       time.Now,
		presented: map[Kind]int{},
		dismissed: map[Kind]int{},
	}
}

// SetClock replaces the time source used for toast expiry.
func (m *Manager) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// Create implements Service.
func (m *Manager) Create(cfg Config) (Handle, error) {
	if cfg.Kind == "" {
		cfg.Kind = KindModal
	}
	return &handle{m: m, cfg: cfg, done: make(chan struct{})}, nil
}

type handle struct {
	m         *Manager
	cfg       Config
	once      sync.Once
	done      chan struct{}
	presented bool
	dismissed bool
}

func (h *handle) Present() error {
	m := h.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if h.dismissed {
		return ErrDismissed
	}
	if h.presented {
		return nil
	}
	h.presented = true
	m.stack = append(m.stack, h)
	m.presented[h.cfg.Kind]++
	return nil
}

// Dismiss removes the overlay. Dismissing twice is a no-op.
func (h *handle) Dismiss() error {
	m := h.m
	m.mu.Lock()
	if h.dismissed {
		m.mu.Unlock()
		return nil
	}
	h.dismissed = true
	for i, s := range m.stack {
		if s == h {
			m.stack = append(m.stack[:i], m.stack[i+1:]...)
			break
		}
	}
	m.dismissed[h.cfg.Kind]++
	m.mu.Unlock()
	h.once.Do(func() { close(h.done) })
	return nil
}

func (h *handle) Done() <-chan struct{} { return h.done }

func (h *handle) Dismissed() bool {
	h.m.mu.Lock()
	defer h.m.mu.Unlock()
	return h.dismissed
}

// CreateToast implements ToastService.
func (m *Manager) CreateToast(cfg ToastConfig) (Toast, error) {
	if cfg.Duration <= 0 {
		cfg.Duration = DefaultToastDuration
	}
	if cfg.Position == "" {
		cfg.Position = Bottom
	}
	return &toast{m: m, cfg: cfg}, nil
}

type toast struct {
	m   *Manager
	cfg ToastConfig
}

func (t *toast) Present() error {
	m := t.m
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toasts = append(m.toasts, activeToast{cfg: t.cfg, expires: m.now().Add(t.cfg.Duration)})
	m.toastCount++
	return nil
}

// Top returns the config of the topmost overlay.
func (m *Manager) Top() (Config, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.stack) == 0 {
		return Config{}, false
	}
	return m.stack[len(m.stack)-1].cfg, true
}

// Active returns the number of presented overlays.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stack)
}

// Busy reports whether a loading overlay is presented.
func (m *Manager) Busy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, h := range m.stack {
		if h.cfg.Kind == KindLoading {
			return true
		}
	}
	return false
}

// Presented returns how many overlays of kind were presented.
func (m *Manager) Presented(kind Kind) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.presented[kind]
}

// Dismissals returns how many overlays of kind were dismissed.
func (m *Manager) Dismissals(kind Kind) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dismissed[kind]
}

// Toasts returns the toasts that have not expired, oldest first.
func (m *Manager) Toasts() []ToastConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruneLocked()
	out := make([]ToastConfig, len(m.toasts))
	for i, t := range m.toasts {
		out[i] = t.cfg
	}
	return out
}

// ToastCount returns how many toasts were presented in total.
func (m *Manager) ToastCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.toastCount
}

func (m *Manager) pruneLocked() {
	now := m.now()
	kept := m.toasts[:0]
	for _, t := range m.toasts {
		if now.Before(t.expires) {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
}

// ToastExpiredMsg asks the program to re-render after a toast expired.
type ToastExpiredMsg struct{}

// ExpireCmd returns a command that fires when the next toast expires, or
// nil when there are none.
func (m *Manager) ExpireCmd() tea.Cmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruneLocked()
	if len(m.toasts) == 0 {
		return nil
	}
	next := m.toasts[0].expires
	for _, t := range m.toasts[1:] {
		if t.expires.Before(next) {
			next = t.expires
		}
	}
	return tea.Tick(next.Sub(m.now()), func(time.Time) tea.Msg { return ToastExpiredMsg{} })
}

var (
	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ui.PrimaryColor).
			Padding(0, 1)

	overlayTitleStyle = lipgloss.NewStyle().Bold(true)

	toastStyle = lipgloss.NewStyle().
			Foreground(ui.TextColor).
			Background(ui.ErrorColor).
			Padding(0, 1)
)

// View draws base with the toasts and the topmost overlay over it.
// Overlays replace the base content; terminals have no real layering.
// Top and Bottom toasts get their own lines; Middle toasts cover the
// vertically centred lines of the body.
func (m *Manager) View(base string, width, height int) string {
	top, hasTop := m.Top()
	toasts := m.Toasts()

	var above, middle, below []string
	for _, t := range toasts {
		line := lipgloss.PlaceHorizontal(width, lipgloss.Center, toastStyle.Render(t.Message))
		switch t.Position {
		case Top:
			above = append(above, line)
		case Middle:
			middle = append(middle, line)
		default:
			below = append(below, line)
		}
	}

	bodyHeight := max(height-len(above)-len(below), 1)
	body := base
	if hasTop {
		body = lipgloss.Place(width, bodyHeight, lipgloss.Center, lipgloss.Center, renderOverlay(top, width))
	}
	if len(middle) > 0 {
		body = overlayLines(lipgloss.PlaceVertical(max(bodyHeight, len(middle)), lipgloss.Top, body), middle)
	}

	parts := append(above, body)
	parts = append(parts, below...)
	return strings.Join(parts, "\n")
}

// overlayLines replaces the centred lines of body with lines.
func overlayLines(body string, lines []string) string {
	rows := strings.Split(body, "\n")
	start := max((len(rows)-len(lines))/2, 0)
	for i, l := range lines {
		if start+i < len(rows) {
			rows[start+i] = l
		} else {
			rows = append(rows, l)
		}
	}
	return strings.Join(rows, "\n")
}

func renderOverlay(cfg Config, width int) string {
	inner := max(width-8, 10)
	var lines []string
	if cfg.Title != "" {
		lines = append(lines, overlayTitleStyle.Render(cfg.Title))
	}
	if cfg.Message != "" {
		lines = append(lines, cfg.Message)
	}
	if cfg.Content != nil {
		lines = append(lines, cfg.Content(inner))
	}
	return overlayStyle.Render(strings.Join(lines, "\n"))
}
