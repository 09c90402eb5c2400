package ecs

import (
	"fmt"
	"sync"
	"time"
)

// EntityID is a unique handle for an entity within a World.
// IDs are assigned monotonically by the owning World and are never
// reused during that World's lifetime. The zero value is never a
// valid id.
type EntityID uint64

func (id EntityID) String() string {
	return fmt.Sprintf("Entity(%d)", id)
}

// Entity is the bookkeeping record the World keeps per entity id.
// It carries no gameplay state; all of that lives in components.
// Identity is defined solely by the id.
type Entity struct {
	id        EntityID
	createdAt time.Time

	mu        sync.RWMutex
	name      string
	active    bool
	destroyed bool
	tags      map[string]any
}

func newEntity(id EntityID) *Entity {
	return &Entity{
		id:        id,
		createdAt: time.Now(),
		name:      fmt.Sprintf("Entity_%d", id),
		active:    true,
	}
}

// ID returns the immutable id of this entity.
func (e *Entity) ID() EntityID {
	return e.id
}

// Name returns the display name.
func (e *Entity) Name() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.name
}

// SetName updates the display name.
func (e *Entity) SetName(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.name = name
}

// CreatedAt returns the creation timestamp.
func (e *Entity) CreatedAt() time.Time {
	return e.createdAt
}

// Age returns the time elapsed since creation.
func (e *Entity) Age() time.Duration {
	return time.Since(e.createdAt)
}

// Active reports whether the entity participates in system processing.
// Inactive entities stay resident in the World but systems skip them.
func (e *Entity) Active() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.active
}

// SetActive toggles the active flag.
func (e *Entity) SetActive(active bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.active = active
}

// MarkForDestruction flags the entity for removal. The flag is one-way.
func (e *Entity) MarkForDestruction() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.destroyed = true
}

// MarkedForDestruction reports whether the entity is flagged for removal.
func (e *Entity) MarkedForDestruction() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.destroyed
}

// SetTag stores an auxiliary key/value pair on the entity.
func (e *Entity) SetTag(key string, value any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.tags == nil {
		e.tags = make(map[string]any)
	}
	e.tags[key] = value
}

// Tag retrieves an auxiliary value by key.
func (e *Entity) Tag(key string) (any, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.tags[key]
	return v, ok
}

// HasTag reports whether a tag exists for the key.
func (e *Entity) HasTag(key string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.tags[key]
	return ok
}

// RemoveTag deletes a tag, returning the removed value if present.
func (e *Entity) RemoveTag(key string) (any, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.tags[key]
	if ok {
		delete(e.tags, key)
	}
	return v, ok
}

func (e *Entity) String() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return fmt.Sprintf("Entity{id=%d, name=%q, active=%v}", e.id, e.name, e.active)
}
