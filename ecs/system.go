package ecs

import "time"

// System is a stateless logic unit executed once per frame during its
// registered phase. All persistent state lives in components; a system
// holds configuration only (name, priority, enabled flag).
//
// Update errors are caught and logged by the World; they never abort
// the phase, and the system runs again next frame.
type System interface {
	// Name identifies the system in logs.
	Name() string

	// Priority orders systems within a sequential phase; lower runs
	// first. Ties break by registration order. Parallel phases ignore
	// priority.
	Priority() int

	// Enabled reports whether the system should run this frame. A
	// disabled system is skipped entirely and produces no side effects.
	Enabled() bool

	// Initialize is called once when the World starts.
	Initialize(w *World) error

	// Update is called once per phase execution per frame.
	Update(w *World, dt time.Duration) error

	// Shutdown is called once at World teardown.
	Shutdown() error
}

// phaseAware is implemented by systems that want the World to record
// their registered phase on them, BaseSystem embedders included.
type phaseAware interface {
	SetPhase(Phase)
}

// BaseSystem holds the configuration shared by all systems. Embed it
// in a system struct and implement Update to get a complete System.
type BaseSystem struct {
	name     string
	phase    Phase
	priority int
	enabled  bool
	debug    bool
}

// NewBaseSystem creates an enabled base with the given name and priority.
func NewBaseSystem(name string, priority int) BaseSystem {
	return BaseSystem{
		name:     name,
		priority: priority,
		enabled:  true,
	}
}

func (b *BaseSystem) Name() string {
	return b.name
}

func (b *BaseSystem) Priority() int {
	return b.priority
}

// SetPriority changes the in-phase ordering priority.
func (b *BaseSystem) SetPriority(priority int) {
	b.priority = priority
}

func (b *BaseSystem) Enabled() bool {
	return b.enabled
}

// SetEnabled toggles whether the system runs.
func (b *BaseSystem) SetEnabled(enabled bool) {
	b.enabled = enabled
}

// Phase returns the phase assigned at registration.
func (b *BaseSystem) Phase() Phase {
	return b.phase
}

// SetPhase records the registered phase. Called by the World.
func (b *BaseSystem) SetPhase(phase Phase) {
	b.phase = phase
}

// DebugEnabled reports whether verbose per-entity logging is on.
func (b *BaseSystem) DebugEnabled() bool {
	return b.debug
}

// SetDebugEnabled toggles verbose per-entity logging.
func (b *BaseSystem) SetDebugEnabled(debug bool) {
	b.debug = debug
}

// Initialize is a no-op default.
func (b *BaseSystem) Initialize(*World) error {
	return nil
}

// Shutdown is a no-op default.
func (b *BaseSystem) Shutdown() error {
	return nil
}
