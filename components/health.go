package components

import (
	"math"

	"github.com/lixenwraith/game-engine/ecs"
)

// Health holds current/max health, an armor fraction in [0,1], a
// regeneration rate in points per second and an alive flag. The
// living-to-dead transition happens exactly when health reaches zero
// from a positive value and is one-way: regeneration never revives,
// only RestoreToFull does.
type Health struct {
	Current          float64
	Max              float64
	Armor            float64
	RegenerationRate float64
	Alive            bool
}

func (Health) Kind() ecs.ComponentKind {
	return ecs.KindHealth
}

// NewHealth returns a health value at the given amount with no armor or
// regeneration.
func NewHealth(health float64) Health {
	return Health{
		Current: health,
		Max:     health,
		Alive:   health > 0,
	}
}

// FullHealth returns a living health value at maximum.
func FullHealth(max, armor, regenerationRate float64) Health {
	return Health{
		Current:          max,
		Max:              max,
		Armor:            armor,
		RegenerationRate: regenerationRate,
		Alive:            true,
	}
}

// DeadHealth returns a dead health value at zero.
func DeadHealth(max float64) Health {
	return Health{Max: max}
}

// Percentage returns current health as a fraction of max in [0,1].
func (h Health) Percentage() float64 {
	if h.Max <= 0 {
		return 0
	}
	return math.Max(0, math.Min(1, h.Current/h.Max))
}

// AtFullHealth reports whether current health equals max.
func (h Health) AtFullHealth() bool {
	return math.Abs(h.Current-h.Max) < 0.001
}

// Critical reports whether health is below a quarter of max.
func (h Health) Critical() bool {
	return h.Percentage() < 0.25
}

// TakeDamage returns a copy with armor-reduced damage applied. Damage
// to a dead entity, or non-positive damage, is ignored. The alive flag
// flips to false exactly when the result reaches zero.
func (h Health) TakeDamage(damage float64) Health {
	if damage <= 0 || !h.Alive {
		return h
	}
	armor := math.Max(0, math.Min(1, h.Armor))
	h.Current = math.Max(0, h.Current-damage*(1-armor))
	h.Alive = h.Current > 0
	return h
}

// Heal returns a copy healed by the given amount, clamped to max.
// Healing a dead entity is ignored; use RestoreToFull to revive.
func (h Health) Heal(amount float64) Health {
	if amount <= 0 || !h.Alive {
		return h
	}
	h.Current = math.Min(h.Max, h.Current+amount)
	return h
}

// ApplyRegeneration returns a copy regenerated over dt seconds. It is a
// no-op for dead entities, entities at full health, and non-positive
// regeneration rates.
func (h Health) ApplyRegeneration(dt float64) Health {
	if !h.Alive || h.RegenerationRate <= 0 || h.AtFullHealth() {
		return h
	}
	return h.Heal(h.RegenerationRate * dt)
}

// RestoreToFull returns a living copy at maximum health. This is the
// only operation that revives a dead entity.
func (h Health) RestoreToFull() Health {
	h.Current = h.Max
	h.Alive = true
	return h
}

// Kill returns a dead copy at zero health.
func (h Health) Kill() Health {
	h.Current = 0
	h.Alive = false
	return h
}
