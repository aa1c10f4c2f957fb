// Package coalesce collapses bursts of calls into one delayed call and
// tells late callbacks whether they are still the most recent one.
//
// Every call to Issue, Schedule or Tick takes the next value of a
// monotonic sequence. A callback holding an older sequence number is
// stale and must not touch shared state:
//
//	seq, cmd := s.Tick(func(seq uint64) tea.Msg { return searchMsg{seq} })
//	...
//	case searchMsg:
//	    if !s.IsCurrent(msg.seq) {
//	        return m, nil
//	    }
//
// Ordering is last-issued-wins, not last-resolved-wins.
package coalesce

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Scheduler issues sequence numbers and runs delayed work for the newest
// one only. The zero value runs callbacks without delay.
type Scheduler struct {
	wait time.Duration

	mu    sync.Mutex
	seq   uint64
	timer *time.Timer
}

// New returns a scheduler that delays callbacks by wait.
func New(wait time.Duration) *Scheduler {
	return &Scheduler{wait: wait}
}

// Wait returns the coalescing window.
func (s *Scheduler) Wait() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wait
}

// SetWait changes the window for calls made after it returns.
func (s *Scheduler) SetWait(wait time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wait = wait
}

// Issue takes the next sequence number without scheduling anything. Any
// pending Schedule callback becomes stale.
func (s *Scheduler) Issue() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.seq++
	return s.seq
}

// Current returns the most recently issued sequence number.
func (s *Scheduler) Current() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// IsCurrent reports whether seq is the most recently issued number.
func (s *Scheduler) IsCurrent(seq uint64) bool {
	return seq != 0 && seq == s.Current()
}

// Schedule runs fn on its own goroutine after the window, unless another
// call is issued first. fn receives its sequence number so it can check
// IsCurrent again after any blocking work.
func (s *Scheduler) Schedule(fn func(seq uint64)) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.seq++
	seq := s.seq
	s.timer = time.AfterFunc(s.wait, func() {
		if s.IsCurrent(seq) {
			fn(seq)
		}
	})
	return seq
}

// Tick is Schedule for Bubble Tea programs. The returned command fires
// after the window and yields fn's message; the receiver still has to
// drop messages whose sequence is no longer current.
func (s *Scheduler) Tick(fn func(seq uint64) tea.Msg) (uint64, tea.Cmd) {
	seq := s.Issue()
	if s.Wait() <= 0 {
		return seq, func() tea.Msg { return fn(seq) }
	}
	return seq, tea.Tick(s.Wait(), func(time.Time) tea.Msg {
		return fn(seq)
	})
}

// Stop cancels a pending Schedule callback and invalidates every issued
// sequence number.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.seq++
}

func (s *Scheduler) stopLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
