package systems

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/lixenwraith/game-engine/components"
	"github.com/lixenwraith/game-engine/ecs"
)

// System priorities within their phases. Lower runs first.
const (
	PriorityMovement   = 10
	PriorityHealth     = 20
	PriorityRenderPrep = 100
)

// MovementSystem integrates velocity into position for every active
// entity holding both Transform and Velocity. Each frame it applies
// acceleration, then friction, then the max-speed clamp, moves the
// position by velocity times dt and keeps it inside the world bounds.
type MovementSystem struct {
	ecs.BaseSystem
	log    *zap.Logger
	bounds float64
}

// NewMovementSystem creates a movement system clamping positions to
// [-bounds, bounds] on every axis.
func NewMovementSystem(log *zap.Logger, bounds float64) *MovementSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &MovementSystem{
		BaseSystem: ecs.NewBaseSystem("MovementSystem", PriorityMovement),
		log:        log.Named("movement"),
		bounds:     bounds,
	}
}

func (s *MovementSystem) Update(w *ecs.World, dt time.Duration) error {
	if !s.Enabled() {
		return nil
	}

	secs := dt.Seconds()
	for _, id := range w.EntitiesWith(ecs.KindTransform, ecs.KindVelocity) {
		if ent, ok := w.Entity(id); ok && !ent.Active() {
			continue
		}
		// A per-entity failure never stops the rest of the batch.
		if err := s.move(w, id, secs); err != nil {
			s.log.Error("movement failed",
				zap.Stringer("entity", id),
				zap.Error(err))
		}
	}
	return nil
}

func (s *MovementSystem) move(w *ecs.World, id ecs.EntityID, secs float64) error {
	transform, ok := ecs.Get[components.Transform](w, id)
	if !ok {
		return nil
	}
	velocity, ok := ecs.Get[components.Velocity](w, id)
	if !ok {
		return nil
	}

	velocity = velocity.ApplyAcceleration(secs).
		ApplyFriction(secs).
		ClampToMaxSpeed()
	transform = transform.Translate(velocity.Linear.Mul(secs))
	transform = s.clampToBounds(id, transform)

	if err := ecs.Add(w, id, transform); err != nil {
		return err
	}
	return ecs.Add(w, id, velocity)
}

func (s *MovementSystem) clampToBounds(id ecs.EntityID, t components.Transform) components.Transform {
	clamped := mgl64.Vec3{
		math.Max(-s.bounds, math.Min(s.bounds, t.Position.X())),
		math.Max(-s.bounds, math.Min(s.bounds, t.Position.Y())),
		math.Max(-s.bounds, math.Min(s.bounds, t.Position.Z())),
	}
	if clamped != t.Position {
		s.log.Warn("position clamped to world bounds",
			zap.Stringer("entity", id),
			zap.Float64("x", clamped.X()),
			zap.Float64("y", clamped.Y()),
			zap.Float64("z", clamped.Z()))
		return t.WithPosition(clamped)
	}
	return t
}
