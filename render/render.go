// Package render is the terminal rendering backend. It owns the tcell
// screen and is the single external read-access point into ECS data:
// Render queries the world for positioned, visible sprites and draws
// them, never mutating a component.
package render

import (
	"fmt"
	"sort"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/game-engine/components"
	"github.com/lixenwraith/game-engine/config"
	"github.com/lixenwraith/game-engine/ecs"
)

// Manager drives the terminal screen through the frame lifecycle:
// Initialize, then per frame BeginFrame / Render / EndFrame, then
// Shutdown.
type Manager struct {
	cfg    config.WindowConfig
	log    *zap.Logger
	screen tcell.Screen
}

// NewManager creates a renderer that opens a real terminal screen on
// Initialize.
func NewManager(cfg config.WindowConfig, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{cfg: cfg, log: log.Named("render")}
}

// NewSimulation creates a renderer backed by an in-memory simulation
// screen, for tests and headless runs.
func NewSimulation(cfg config.WindowConfig, log *zap.Logger) *Manager {
	m := NewManager(cfg, log)
	sim := tcell.NewSimulationScreen("UTF-8")
	sim.SetSize(cfg.Width, cfg.Height)
	m.screen = sim
	return m
}

// Initialize opens the screen.
func (m *Manager) Initialize() error {
	if m.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("create screen: %w", err)
		}
		m.screen = screen
	}
	if err := m.screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	m.screen.SetStyle(tcell.StyleDefault)
	m.screen.HideCursor()
	m.log.Info("renderer initialized",
		zap.Int("width", m.cfg.Width),
		zap.Int("height", m.cfg.Height))
	return nil
}

// Screen exposes the underlying screen so the input backend can poll
// events from it.
func (m *Manager) Screen() tcell.Screen {
	return m.screen
}

// Update is the per-tick bookkeeping hook; the terminal backend has
// nothing to do between frames.
func (m *Manager) Update(time.Duration) {}

// BeginFrame clears the back buffer.
func (m *Manager) BeginFrame() {
	m.screen.Clear()
}

// Render draws every active entity holding a transform and a visible
// sprite, lowest layer first. World access is read-only.
func (m *Manager) Render(w *ecs.World) {
	type drawable struct {
		id        ecs.EntityID
		transform components.Transform
		sprite    components.Sprite
	}

	items := make([]drawable, 0)
	for _, id := range w.EntitiesWith(ecs.KindTransform, ecs.KindSprite) {
		if ent, ok := w.Entity(id); ok && !ent.Active() {
			continue
		}
		sprite, ok := ecs.Get[components.Sprite](w, id)
		if !ok || !sprite.Visible || sprite.Opacity <= 0 {
			continue
		}
		transform, ok := ecs.Get[components.Transform](w, id)
		if !ok {
			continue
		}
		items = append(items, drawable{id: id, transform: transform, sprite: sprite})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].sprite.Layer != items[j].sprite.Layer {
			return items[i].sprite.Layer < items[j].sprite.Layer
		}
		return items[i].id < items[j].id
	})

	width, height := m.screen.Size()
	for _, item := range items {
		x := int(item.transform.Position.X() + item.sprite.OffsetX)
		y := int(item.transform.Position.Y() + item.sprite.OffsetY)
		if x < 0 || y < 0 || x >= width || y >= height {
			continue
		}
		m.screen.SetContent(x, y, glyphFor(item.sprite), nil, styleFor(item.sprite))
	}
}

// DrawText writes a status string directly to the screen, for overlays
// like the FPS counter. Drawn after Render so it sits above sprites.
func (m *Manager) DrawText(x, y int, text string) {
	width, height := m.screen.Size()
	if y < 0 || y >= height {
		return
	}
	for i, r := range text {
		if x+i < 0 || x+i >= width {
			continue
		}
		m.screen.SetContent(x+i, y, r, nil, tcell.StyleDefault)
	}
}

// EndFrame flushes the back buffer to the terminal.
func (m *Manager) EndFrame() {
	m.screen.Show()
}

// Shutdown releases the terminal.
func (m *Manager) Shutdown() error {
	if m.screen != nil {
		m.screen.Fini()
	}
	m.log.Info("renderer shut down")
	return nil
}

// glyphFor picks the cell rune for a sprite: the first rune of the
// texture reference, or a solid block when there is none.
func glyphFor(s components.Sprite) rune {
	for _, r := range s.TextureID {
		return r
	}
	return '█'
}

// styleFor maps tint and opacity onto a terminal foreground color.
func styleFor(s components.Sprite) tcell.Style {
	scale := 255 * s.Opacity
	color := tcell.NewRGBColor(
		int32(s.Tint.X()*scale),
		int32(s.Tint.Y()*scale),
		int32(s.Tint.Z()*scale),
	)
	return tcell.StyleDefault.Foreground(color)
}
