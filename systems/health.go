package systems

import (
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/game-engine/components"
	"github.com/lixenwraith/game-engine/ecs"
)

// deathHandledTag marks an entity whose death side effects already ran,
// so the transition fires exactly once even across frames.
const deathHandledTag = "death_handled"

// DeathHook is invoked once per entity when it transitions from living
// to dead. This is the single trigger point for despawn, loot or event
// side effects.
type DeathHook func(w *ecs.World, id ecs.EntityID, h components.Health)

// HealthSystem applies time-based regeneration to every active entity
// holding Health and detects the living-to-dead transition, regardless
// of which system dealt the final damage earlier in the frame.
type HealthSystem struct {
	ecs.BaseSystem
	log     *zap.Logger
	onDeath DeathHook
}

// NewHealthSystem creates a health system. A nil hook falls back to
// logging the death.
func NewHealthSystem(log *zap.Logger, onDeath DeathHook) *HealthSystem {
	if log == nil {
		log = zap.NewNop()
	}
	s := &HealthSystem{
		BaseSystem: ecs.NewBaseSystem("HealthSystem", PriorityHealth),
		log:        log.Named("health"),
	}
	if onDeath == nil {
		onDeath = func(_ *ecs.World, id ecs.EntityID, _ components.Health) {
			s.log.Info("entity died", zap.Stringer("entity", id))
		}
	}
	s.onDeath = onDeath
	return s
}

func (s *HealthSystem) Update(w *ecs.World, dt time.Duration) error {
	if !s.Enabled() {
		return nil
	}

	secs := dt.Seconds()
	for _, id := range w.EntitiesWith(ecs.KindHealth) {
		ent, ok := w.Entity(id)
		if !ok || !ent.Active() {
			continue
		}

		health, ok := ecs.Get[components.Health](w, id)
		if !ok {
			continue
		}

		regenerated := health.ApplyRegeneration(secs)
		if regenerated != health {
			if err := ecs.Add(w, id, regenerated); err != nil {
				s.log.Error("health write-back failed",
					zap.Stringer("entity", id),
					zap.Error(err))
				continue
			}
			health = regenerated
		}

		if !health.Alive && !ent.HasTag(deathHandledTag) {
			ent.SetTag(deathHandledTag, true)
			s.onDeath(w, id, health)
		}
	}
	return nil
}
