package ecs

// Phase is a named stage in the per-frame execution order. Systems are
// registered against a phase; phases run one after another in the
// canonical order, and systems inside a parallelizable phase may be
// fanned out concurrently.
//
// The dependency edges between phases are declared statically and never
// change at runtime. They are the contract system authors may rely on:
// a phase never starts before every phase it depends on has finished.
type Phase uint8

const (
	// PhaseInput processes user input, network input and window events.
	// It has no dependencies and always runs first.
	PhaseInput Phase = iota

	// PhaseAI runs decision making and scripted behaviors. Depends on
	// input so decisions see the current frame's input state.
	PhaseAI

	// PhasePhysics handles movement integration and collision. Runs
	// after AI so it works with this frame's committed decisions.
	PhasePhysics

	// PhaseGameLogic applies game rules, scoring and state changes,
	// incorporating the physics results.
	PhaseGameLogic

	// PhaseAudio updates sound playback and positioning. Only input
	// and AI state are needed, so it sits between game logic and
	// render preparation in the canonical order.
	PhaseAudio

	// PhaseRenderPrep builds render batches and animation state once
	// all gameplay mutations for the frame are final.
	PhaseRenderPrep

	// PhaseRender produces the frame. Always last before cleanup and
	// never parallelized: render backends are rarely thread-safe.
	PhaseRender

	// PhaseCleanup destroys marked entities and performs maintenance
	// after everything else has run.
	PhaseCleanup

	phaseCount
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "Input"
	case PhaseAI:
		return "AI"
	case PhasePhysics:
		return "Physics"
	case PhaseGameLogic:
		return "GameLogic"
	case PhaseAudio:
		return "Audio"
	case PhaseRenderPrep:
		return "RenderPrep"
	case PhaseRender:
		return "Render"
	case PhaseCleanup:
		return "Cleanup"
	default:
		return "Unknown"
	}
}

// Parallelizable reports whether systems registered in this phase may
// run concurrently with each other.
func (p Phase) Parallelizable() bool {
	return p != PhaseRender
}

// Dependencies returns the phases that must fully complete before this
// phase may start. The graph is acyclic and fixed.
func (p Phase) Dependencies() []Phase {
	switch p {
	case PhaseInput:
		return nil
	case PhaseAI:
		return []Phase{PhaseInput}
	case PhasePhysics:
		return []Phase{PhaseInput, PhaseAI}
	case PhaseGameLogic:
		return []Phase{PhaseInput, PhaseAI, PhasePhysics}
	case PhaseAudio:
		return []Phase{PhaseInput, PhaseAI}
	case PhaseRenderPrep:
		return []Phase{PhaseInput, PhaseAI, PhasePhysics, PhaseGameLogic}
	case PhaseRender:
		return []Phase{PhaseInput, PhaseAI, PhasePhysics, PhaseGameLogic, PhaseRenderPrep}
	case PhaseCleanup:
		return []Phase{PhaseInput, PhaseAI, PhasePhysics, PhaseGameLogic, PhaseAudio, PhaseRenderPrep, PhaseRender}
	default:
		return nil
	}
}

// DependsOn reports whether p declares a dependency on other.
func (p Phase) DependsOn(other Phase) bool {
	for _, dep := range p.Dependencies() {
		if dep == other {
			return true
		}
	}
	return false
}

// ExecutionOrder returns all phases in canonical execution order. Every
// phase appears after all of its declared dependencies. The order is a
// fixed total order: independent phases (Audio alongside GameLogic, for
// example) are still executed one after another rather than
// concurrently.
func ExecutionOrder() []Phase {
	return []Phase{
		PhaseInput,
		PhaseAI,
		PhasePhysics,
		PhaseGameLogic,
		PhaseAudio,
		PhaseRenderPrep,
		PhaseRender,
		PhaseCleanup,
	}
}
