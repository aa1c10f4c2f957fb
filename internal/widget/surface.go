package widget

import (
	"sync"

	"go.uber.org/zap"

	"github.com/muurk/fieldkit/internal/combobox"
	"github.com/muurk/fieldkit/internal/overlay"
)

// surface presents modal lists through an overlay service. Inline and
// popover lists are drawn by the widget's own View.
type surface struct {
	mu       sync.Mutex
	overlays overlay.Service
	title    string
	render   func(l *combobox.List, width int) string
	log      *zap.Logger

	current *combobox.List
	pres    combobox.Presentation
	handles map[*combobox.List]overlay.Handle
}

func newSurface(overlays overlay.Service, title string, log *zap.Logger) *surface {
	return &surface{overlays: overlays, title: title, log: log, handles: map[*combobox.List]overlay.Handle{}}
}

// Mount implements combobox.Surface.
func (s *surface) Mount(l *combobox.List, p combobox.Presentation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = l
	s.pres = p
	if p != combobox.PresentModal || s.overlays == nil {
		return
	}
	h, err := s.overlays.Create(overlay.Config{
		Kind:     overlay.KindModal,
		Title:    s.title,
		Backdrop: true,
		Content: func(width int) string {
			if s.render == nil {
				return ""
			}
			return s.render(l, width)
		},
	})
	if err != nil {
		s.log.Warn("Failed to create list modal", zap.Error(err))
		return
	}
	if err := h.Present(); err != nil {
		s.log.Warn("Failed to present list modal", zap.Error(err))
		return
	}
	s.handles[l] = h
}

// Unmount implements combobox.Surface. Lists that were never mounted are
// ignored.
func (s *surface) Unmount(l *combobox.List) {
	s.mu.Lock()
	h, ok := s.handles[l]
	delete(s.handles, l)
	if s.current == l {
		s.current = nil
	}
	s.mu.Unlock()
	if ok {
		_ = h.Dismiss()
	}
}

// inline returns the mounted list when the widget draws it itself.
func (s *surface) inline() (*combobox.List, combobox.Presentation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil, "", false
	}
	if _, modal := s.handles[s.current]; modal {
		return nil, "", false
	}
	return s.current, s.pres, true
}

func (s *surface) modalOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handles) > 0
}
