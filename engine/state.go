package engine

// State is the engine lifecycle state. Transitions are one-directional:
// Uninitialized -> Initialized -> Running -> Stopping -> Shutdown, with
// Error reachable from any state on a fatal failure.
type State int32

const (
	StateUninitialized State = iota
	StateInitialized
	StateRunning
	StateStopping
	StateShutdown
	StateError
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateShutdown:
		return "shutdown"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}
