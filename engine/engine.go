// Package engine is the frame driver. It owns the subsystem backends
// and the world, brings them up in a fixed order, ticks them once per
// frame and tears them down in reverse order.
package engine

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lixenwraith/game-engine/asset"
	"github.com/lixenwraith/game-engine/audio"
	"github.com/lixenwraith/game-engine/config"
	"github.com/lixenwraith/game-engine/ecs"
	"github.com/lixenwraith/game-engine/input"
	"github.com/lixenwraith/game-engine/render"
)

// maxFrameDelta caps the delta fed into a frame so a long stall (debug
// pause, suspend) does not turn into one giant simulation step.
const maxFrameDelta = 100 * time.Millisecond

// reportInterval is how often frame statistics are logged.
const reportInterval = 5 * time.Second

// Engine wires the subsystem backends and the world into a frame loop.
type Engine struct {
	cfg   config.Config
	log   *zap.Logger
	runID uuid.UUID

	world  *ecs.World
	render *render.Manager
	inputs *input.Manager
	audio  *audio.Manager
	assets *asset.Manager

	state       atomic.Int32
	stats       *Statistics
	stop        chan struct{}
	loopStarted atomic.Bool
	loopDone    chan struct{}
}

// New creates an engine from a validated configuration. Subsystems are
// constructed but not started; call Initialize before Run. A headless
// renderer (render.NewSimulation) may be injected for tests by passing
// it as the renderer.
func New(cfg config.Config, log *zap.Logger) *Engine {
	return NewWithRenderer(cfg, log, render.NewManager(cfg.Window, log))
}

// NewWithRenderer creates an engine using the given renderer backend.
func NewWithRenderer(cfg config.Config, log *zap.Logger, r *render.Manager) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Engine{
		cfg:      cfg,
		log:      log.Named("engine"),
		runID:    uuid.New(),
		world:    ecs.NewWorld(log),
		render:   r,
		audio:    audio.NewManager(cfg.Audio, log),
		assets:   asset.NewManager(log),
		stats:    NewStatistics(),
		stop:     make(chan struct{}),
		loopDone: make(chan struct{}),
	}
	return e
}

// World exposes the simulation world for entity and system setup.
func (e *Engine) World() *ecs.World {
	return e.world
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	return State(e.state.Load())
}

// RunID identifies this engine run in logs.
func (e *Engine) RunID() uuid.UUID {
	return e.runID
}

// Statistics exposes the frame counters.
func (e *Engine) Statistics() *Statistics {
	return e.stats
}

// Initialize brings subsystems up in dependency order: render first so
// input can share its screen, then audio, assets and finally the world's
// systems. The first failing subsystem aborts startup with a
// StartupError naming it.
func (e *Engine) Initialize() error {
	if !e.state.CompareAndSwap(int32(StateUninitialized), int32(StateInitialized)) {
		return fmt.Errorf("initialize: engine is %s", e.State())
	}
	e.log.Info("initializing engine",
		zap.String("run_id", e.runID.String()),
		zap.String("title", e.cfg.Window.Title))

	if err := e.render.Initialize(); err != nil {
		e.state.Store(int32(StateError))
		return &StartupError{Subsystem: "render", Err: err}
	}

	e.inputs = input.NewManager(e.render.Screen(), e.log)
	if err := e.inputs.Initialize(); err != nil {
		e.state.Store(int32(StateError))
		return &StartupError{Subsystem: "input", Err: err}
	}

	if err := e.audio.Initialize(); err != nil {
		e.state.Store(int32(StateError))
		return &StartupError{Subsystem: "audio", Err: err}
	}

	if err := e.assets.Initialize(); err != nil {
		e.state.Store(int32(StateError))
		return &StartupError{Subsystem: "asset", Err: err}
	}

	e.world.Initialize()
	e.log.Info("engine initialized")
	return nil
}

// Run executes the frame loop until Stop is called or the input backend
// reports a quit request. A failure escaping the frame itself, as
// opposed to a per-system failure the world confines, is fatal: the
// engine enters the error state and Run returns the failure. It returns
// after the last frame; Shutdown is still the caller's responsibility.
func (e *Engine) Run() error {
	if !e.state.CompareAndSwap(int32(StateInitialized), int32(StateRunning)) {
		return fmt.Errorf("run: engine is %s", e.State())
	}
	e.loopStarted.Store(true)
	defer close(e.loopDone)
	e.log.Info("engine running",
		zap.Int("target_fps", e.cfg.Engine.TargetFrameRate),
		zap.Bool("frame_limit", e.cfg.Engine.FrameLimitEnabled))

	var target time.Duration
	if e.cfg.Engine.FrameLimitEnabled && e.cfg.Engine.TargetFrameRate > 0 {
		target = time.Second / time.Duration(e.cfg.Engine.TargetFrameRate)
	}

	last := time.Now()
	for e.State() == StateRunning {
		select {
		case <-e.stop:
			e.state.CompareAndSwap(int32(StateRunning), int32(StateStopping))
			continue
		default:
		}
		if e.inputs.QuitRequested() {
			e.state.CompareAndSwap(int32(StateRunning), int32(StateStopping))
			continue
		}

		now := time.Now()
		dt := now.Sub(last)
		last = now
		if dt > maxFrameDelta {
			dt = maxFrameDelta
		}

		if err := e.safeFrame(dt); err != nil {
			e.state.Store(int32(StateError))
			e.log.Error("frame failed", zap.Error(err))
			return err
		}
		e.stats.RecordFrame(time.Since(now))

		if e.stats.ShouldReport(reportInterval) {
			e.log.Info("frame report",
				zap.Uint64("frames", e.stats.FrameCount()),
				zap.Float64("fps", e.stats.FPS()),
				zap.Int("entities", e.world.EntityCount()))
		}

		if target > 0 {
			if sleep := target - time.Since(now); sleep > 0 {
				time.Sleep(sleep)
			}
		}
	}

	e.log.Info("engine stopped",
		zap.Uint64("frames", e.stats.FrameCount()))
	return nil
}

// safeFrame converts a panic escaping the frame into an error. The
// world already confines per-system failures; anything surfacing here
// means the frame machinery itself broke.
func (e *Engine) safeFrame(dt time.Duration) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("frame panic: %v", r)
		}
	}()
	e.frame(dt)
	return nil
}

// frame advances every subsystem and the world by one tick, then draws.
func (e *Engine) frame(dt time.Duration) {
	e.inputs.Update(dt)
	e.world.Update(dt)
	e.audio.Update(dt)
	e.assets.Update(dt)
	e.render.Update(dt)

	e.render.BeginFrame()
	e.render.Render(e.world)
	if e.cfg.Render.ShowFPS {
		e.render.DrawText(0, 0, fmt.Sprintf("FPS %5.1f", e.stats.FPS()))
	}
	e.render.EndFrame()
}

// Step runs exactly one frame with the given delta. Used by tests and
// by callers that drive their own loop.
func (e *Engine) Step(dt time.Duration) {
	if dt > maxFrameDelta {
		dt = maxFrameDelta
	}
	e.frame(dt)
	e.stats.RecordFrame(dt)
}

// Stop asks the frame loop to exit after the current frame. Safe to
// call from any goroutine, and more than once.
func (e *Engine) Stop() {
	select {
	case <-e.stop:
	default:
		close(e.stop)
	}
}

// shutdownGrace bounds how long Shutdown waits for an in-flight frame
// loop before tearing subsystems down underneath it.
const shutdownGrace = 2 * time.Second

// Shutdown stops the frame loop if it is still running, waiting up to
// a bounded grace period for the current frame, then tears subsystems
// down in reverse startup order. Errors are logged and collected but
// teardown always runs to completion.
func (e *Engine) Shutdown() error {
	state := e.State()
	if state == StateShutdown {
		return nil
	}
	e.state.Store(int32(StateShutdown))
	e.log.Info("shutting down engine", zap.Stringer("from", state))

	if e.loopStarted.Load() {
		e.Stop()
		select {
		case <-e.loopDone:
		case <-time.After(shutdownGrace):
			e.log.Warn("frame loop did not stop within grace period",
				zap.Duration("grace", shutdownGrace))
		}
	}

	e.world.Shutdown()

	var firstErr error
	shutdown := func(name string, fn func() error) {
		if err := fn(); err != nil {
			e.log.Error("subsystem shutdown failed",
				zap.String("subsystem", name), zap.Error(err))
			if firstErr == nil {
				firstErr = fmt.Errorf("shutdown %s: %w", name, err)
			}
		}
	}
	shutdown("asset", e.assets.Shutdown)
	shutdown("audio", e.audio.Shutdown)
	shutdown("render", e.render.Shutdown)
	if e.inputs != nil {
		shutdown("input", e.inputs.Shutdown)
	}

	e.log.Info("engine shut down",
		zap.String("run_id", e.runID.String()),
		zap.Uint64("frames", e.stats.FrameCount()))
	return firstErr
}
