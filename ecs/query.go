package ecs

// Add attaches a component to a live entity with its static type intact.
func Add[T Component](w *World, id EntityID, c T) error {
	return w.AddComponent(id, c)
}

// Get retrieves the entity's value of component type T.
func Get[T Component](w *World, id EntityID) (T, bool) {
	var zero T
	c, ok := w.Component(id, zero.Kind())
	if !ok {
		return zero, false
	}
	val, ok := c.(T)
	return val, ok
}

// Remove detaches the entity's value of component type T, returning the
// removed value if one was present.
func Remove[T Component](w *World, id EntityID) (T, bool) {
	var zero T
	c, ok := w.RemoveComponent(id, zero.Kind())
	if !ok {
		return zero, false
	}
	val, ok := c.(T)
	return val, ok
}

// Has reports whether the entity holds a value of component type T.
func Has[T Component](w *World, id EntityID) bool {
	var zero T
	return w.HasComponent(id, zero.Kind())
}
