package ecs

// ComponentKind identifies one concrete component type in the closed set.
// New kinds are a deliberate extension point: adding one means adding a
// constant here and a concrete type implementing Component. Stores are
// created per kind on first use, so the World needs no per-kind wiring.
type ComponentKind uint8

const (
	KindTransform ComponentKind = iota
	KindVelocity
	KindHealth
	KindSprite

	kindCount
)

func (k ComponentKind) String() string {
	switch k {
	case KindTransform:
		return "Transform"
	case KindVelocity:
		return "Velocity"
	case KindHealth:
		return "Health"
	case KindSprite:
		return "Sprite"
	default:
		return "Unknown"
	}
}

// Component is implemented by every value in the closed component set.
// Components are immutable values: systems read a component, derive a
// new value with the type's copy helpers, and write the whole value
// back. Stored components are never mutated in place.
type Component interface {
	Kind() ComponentKind
}
