// Package input is the input backend. It polls terminal events from
// the shared tcell screen and exposes only a quit signal to the frame
// driver; the core never sees raw events.
package input

import (
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
)

// Manager polls events on a background goroutine between Initialize
// and screen teardown.
type Manager struct {
	log    *zap.Logger
	screen tcell.Screen
	quit   atomic.Bool
	done   chan struct{}
}

// NewManager creates an input backend reading from the given screen.
// A nil screen yields an inert manager, useful in tests.
func NewManager(screen tcell.Screen, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		log:    log.Named("input"),
		screen: screen,
		done:   make(chan struct{}),
	}
}

// Initialize starts the event poller.
func (m *Manager) Initialize() error {
	if m.screen == nil {
		close(m.done)
		return nil
	}
	go m.poll()
	return nil
}

// poll consumes events until the screen is finalized, which makes
// PollEvent return nil.
func (m *Manager) poll() {
	defer close(m.done)
	for {
		ev := m.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
				m.log.Info("quit requested")
				m.quit.Store(true)
			}
		case *tcell.EventResize:
			m.screen.Sync()
		}
	}
}

// Update is the per-tick hook; event handling happens on the poller.
func (m *Manager) Update(time.Duration) {}

// QuitRequested reports whether the user asked to exit.
func (m *Manager) QuitRequested() bool {
	return m.quit.Load()
}

// Shutdown waits briefly for the poller to observe screen teardown.
func (m *Manager) Shutdown() error {
	select {
	case <-m.done:
	case <-time.After(time.Second):
		m.log.Warn("input poller did not stop in time")
	}
	return nil
}
