package ecs

import (
	"errors"
	"fmt"
	"runtime/debug"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrEntityExists is returned when creating an entity with an id
	// that is already live.
	ErrEntityExists = errors.New("entity already exists")

	// ErrEntityNotFound is returned when attaching a component to an
	// id with no live entity. Lookups never return it; they report
	// absence instead.
	ErrEntityNotFound = errors.New("entity does not exist")
)

type systemEntry struct {
	sys   System
	phase Phase
	seq   int
}

// World owns the entity table, every component store and the registered
// systems of one simulation. One World per running simulation; after
// Shutdown it must not be reused.
type World struct {
	log *zap.Logger

	mu           sync.RWMutex
	nextID       EntityID
	entities     map[EntityID]*Entity
	totalCreated int64
	closed       bool

	storeMu sync.RWMutex
	stores  map[ComponentKind]*Store[Component]

	totalComponents atomic.Int64

	sysMu   sync.RWMutex
	seq     int
	systems []*systemEntry
	byPhase [phaseCount][]*systemEntry

	modMu    sync.Mutex
	modified map[EntityID]struct{}

	createdAt time.Time
}

// NewWorld creates an empty world. A nil logger disables logging.
func NewWorld(log *zap.Logger) *World {
	if log == nil {
		log = zap.NewNop()
	}
	return &World{
		log:       log.Named("world"),
		nextID:    1,
		entities:  make(map[EntityID]*Entity),
		stores:    make(map[ComponentKind]*Store[Component]),
		modified:  make(map[EntityID]struct{}),
		createdAt: time.Now(),
	}
}

// CreateEntity allocates a fresh, never-before-used id and registers an
// entity record for it.
func (w *World) CreateEntity() EntityID {
	w.mu.Lock()
	defer w.mu.Unlock()

	id := w.nextID
	w.nextID++
	w.entities[id] = newEntity(id)
	w.totalCreated++
	return id
}

// CreateEntityWithID registers an entity under an explicit id. It fails
// with ErrEntityExists if the id is already live. The internal id
// counter is advanced past the explicit id so later CreateEntity calls
// cannot collide with it.
func (w *World) CreateEntityWithID(id EntityID) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.entities[id]; ok {
		return fmt.Errorf("%w: %s", ErrEntityExists, id)
	}
	if id >= w.nextID {
		w.nextID = id + 1
	}
	w.entities[id] = newEntity(id)
	w.totalCreated++
	return nil
}

// DestroyEntity removes the entity record and purges the id from every
// component store. Destroying an absent id is a no-op. Systems are not
// notified; they observe the absence on their next query.
func (w *World) DestroyEntity(id EntityID) {
	w.mu.Lock()
	_, ok := w.entities[id]
	if ok {
		delete(w.entities, id)
	}
	w.mu.Unlock()
	if !ok {
		return
	}

	for _, store := range w.allStores() {
		if _, removed := store.Remove(id); removed {
			w.totalComponents.Add(-1)
		}
	}
}

// Entity returns the bookkeeping record for a live id.
func (w *World) Entity(id EntityID) (*Entity, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	e, ok := w.entities[id]
	return e, ok
}

// EntityCount returns the number of live entities.
func (w *World) EntityCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.entities)
}

// AddComponent attaches a component value to a live entity, overwriting
// any previous value of the same kind. Overwrites are the normal write
// path: systems derive a new value from the old one and store it back.
func (w *World) AddComponent(id EntityID, c Component) error {
	w.mu.RLock()
	_, ok := w.entities[id]
	w.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrEntityNotFound, id)
	}

	if w.storeFor(c.Kind()).Set(id, c) {
		w.totalComponents.Add(1)
	}
	w.markModified(id)
	return nil
}

// Component looks up the entity's value of a kind. It never fails;
// absence is reported through the second return.
func (w *World) Component(id EntityID, kind ComponentKind) (Component, bool) {
	store, ok := w.existingStore(kind)
	if !ok {
		return nil, false
	}
	return store.Get(id)
}

// HasComponent reports whether the entity currently has a value of the
// kind. A pure existence check; absent entities simply report false.
func (w *World) HasComponent(id EntityID, kind ComponentKind) bool {
	store, ok := w.existingStore(kind)
	return ok && store.Has(id)
}

// RemoveComponent detaches the entity's value of a kind, returning the
// removed value if one was present.
func (w *World) RemoveComponent(id EntityID, kind ComponentKind) (Component, bool) {
	store, ok := w.existingStore(kind)
	if !ok {
		return nil, false
	}
	c, removed := store.Remove(id)
	if removed {
		w.totalComponents.Add(-1)
		w.markModified(id)
	}
	return c, removed
}

// ComponentCount returns the total number of stored components across
// all kinds.
func (w *World) ComponentCount() int64 {
	return w.totalComponents.Load()
}

// EntitiesWith returns the ids of entities holding every requested
// kind. With no arguments it returns all live ids. The result is a set:
// iteration order is unspecified and may differ between calls.
func (w *World) EntitiesWith(kinds ...ComponentKind) []EntityID {
	if len(kinds) == 0 {
		w.mu.RLock()
		defer w.mu.RUnlock()
		ids := make([]EntityID, 0, len(w.entities))
		for id := range w.entities {
			ids = append(ids, id)
		}
		return ids
	}

	// A kind nothing has ever held means an empty intersection; bail
	// before scanning any store.
	stores := make([]*Store[Component], len(kinds))
	for i, kind := range kinds {
		store, ok := w.existingStore(kind)
		if !ok {
			return nil
		}
		stores[i] = store
	}

	result := make([]EntityID, 0)
	for _, id := range stores[0].Entities() {
		hasAll := true
		for _, store := range stores[1:] {
			if !store.Has(id) {
				hasAll = false
				break
			}
		}
		if hasAll {
			result = append(result, id)
		}
	}
	return result
}

// ModifiedEntities returns the ids whose components were added or
// removed since the start of the current frame. The set is cleared at
// the end of every Update; it exists as a change-detection hook.
func (w *World) ModifiedEntities() []EntityID {
	w.modMu.Lock()
	defer w.modMu.Unlock()
	ids := make([]EntityID, 0, len(w.modified))
	for id := range w.modified {
		ids = append(ids, id)
	}
	return ids
}

// RegisterSystem adds a system to the given phase. Registering the same
// system instance twice is a no-op; the check is by identity, not value.
func (w *World) RegisterSystem(sys System, phase Phase) {
	w.sysMu.Lock()
	defer w.sysMu.Unlock()

	for _, entry := range w.systems {
		if entry.sys == sys {
			return
		}
	}

	entry := &systemEntry{sys: sys, phase: phase, seq: w.seq}
	w.seq++
	w.systems = append(w.systems, entry)
	w.byPhase[phase] = append(w.byPhase[phase], entry)
	sort.SliceStable(w.byPhase[phase], func(i, j int) bool {
		a, b := w.byPhase[phase][i], w.byPhase[phase][j]
		if a.sys.Priority() != b.sys.Priority() {
			return a.sys.Priority() < b.sys.Priority()
		}
		return a.seq < b.seq
	})

	if pa, ok := sys.(phaseAware); ok {
		pa.SetPhase(phase)
	}
	w.log.Debug("registered system",
		zap.String("system", sys.Name()),
		zap.Stringer("phase", phase))
}

// UnregisterSystem removes a previously registered system.
func (w *World) UnregisterSystem(sys System) {
	w.sysMu.Lock()
	defer w.sysMu.Unlock()

	for i, entry := range w.systems {
		if entry.sys != sys {
			continue
		}
		w.systems = append(w.systems[:i], w.systems[i+1:]...)
		phaseList := w.byPhase[entry.phase]
		for j, pe := range phaseList {
			if pe == entry {
				w.byPhase[entry.phase] = append(phaseList[:j], phaseList[j+1:]...)
				break
			}
		}
		w.log.Debug("unregistered system", zap.String("system", sys.Name()))
		return
	}
}

// SystemCount returns the number of registered systems.
func (w *World) SystemCount() int {
	w.sysMu.RLock()
	defer w.sysMu.RUnlock()
	return len(w.systems)
}

// Initialize calls Initialize on every registered system. A failing
// system is logged and does not block the others.
func (w *World) Initialize() {
	w.sysMu.RLock()
	systems := make([]*systemEntry, len(w.systems))
	copy(systems, w.systems)
	w.sysMu.RUnlock()

	w.log.Info("initializing world", zap.Int("systems", len(systems)))
	for _, entry := range systems {
		if err := entry.sys.Initialize(w); err != nil {
			w.log.Error("system initialization failed",
				zap.String("system", entry.sys.Name()),
				zap.Error(err))
		}
	}
}

// Update runs one frame: phases execute in canonical order, and within
// a parallelizable phase all enabled systems fan out concurrently and
// join before the next phase starts. A system failure is logged and
// confined to that system; siblings and later phases still run. The
// modified-entity set is cleared once all phases complete.
func (w *World) Update(dt time.Duration) {
	for _, phase := range ExecutionOrder() {
		w.sysMu.RLock()
		entries := make([]*systemEntry, len(w.byPhase[phase]))
		copy(entries, w.byPhase[phase])
		w.sysMu.RUnlock()

		if len(entries) == 0 {
			continue
		}

		if phase.Parallelizable() {
			var wg sync.WaitGroup
			for _, entry := range entries {
				wg.Add(1)
				go func(entry *systemEntry) {
					defer wg.Done()
					w.runSystem(entry, dt)
				}(entry)
			}
			wg.Wait()
		} else {
			for _, entry := range entries {
				w.runSystem(entry, dt)
			}
		}
	}

	w.modMu.Lock()
	clear(w.modified)
	w.modMu.Unlock()
}

// runSystem executes one system with failure confinement: errors and
// panics are logged against the system and swallowed. The system is
// not retried this frame and not disabled; it runs again next frame.
func (w *World) runSystem(entry *systemEntry, dt time.Duration) {
	if !entry.sys.Enabled() {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("system panicked",
				zap.String("system", entry.sys.Name()),
				zap.Stringer("phase", entry.phase),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
		}
	}()
	if err := entry.sys.Update(w, dt); err != nil {
		w.log.Error("system update failed",
			zap.String("system", entry.sys.Name()),
			zap.Stringer("phase", entry.phase),
			zap.Error(err))
	}
}

// Stats is a point-in-time snapshot of world counters.
type Stats struct {
	Entities        int
	EntitiesCreated int64
	Components      int64
	Systems         int
	SystemsByPhase  map[string]int
	Uptime          time.Duration
}

// Stats returns a snapshot of the world's counters.
func (w *World) Stats() Stats {
	w.mu.RLock()
	entities := len(w.entities)
	created := w.totalCreated
	w.mu.RUnlock()

	w.sysMu.RLock()
	systems := len(w.systems)
	byPhase := make(map[string]int)
	for phase := Phase(0); phase < phaseCount; phase++ {
		if n := len(w.byPhase[phase]); n > 0 {
			byPhase[phase.String()] = n
		}
	}
	w.sysMu.RUnlock()

	return Stats{
		Entities:        entities,
		EntitiesCreated: created,
		Components:      w.totalComponents.Load(),
		Systems:         systems,
		SystemsByPhase:  byPhase,
		Uptime:          time.Since(w.createdAt),
	}
}

// Shutdown calls Shutdown on every system and clears all owned tables.
// The world must not be used afterwards.
func (w *World) Shutdown() {
	w.sysMu.Lock()
	systems := w.systems
	w.systems = nil
	for phase := range w.byPhase {
		w.byPhase[phase] = nil
	}
	w.sysMu.Unlock()

	w.log.Info("shutting down world", zap.Int("systems", len(systems)))
	for _, entry := range systems {
		if err := entry.sys.Shutdown(); err != nil {
			w.log.Error("system shutdown failed",
				zap.String("system", entry.sys.Name()),
				zap.Error(err))
		}
	}

	for _, store := range w.allStores() {
		store.Clear()
	}
	w.totalComponents.Store(0)

	w.mu.Lock()
	w.entities = make(map[EntityID]*Entity)
	w.closed = true
	w.mu.Unlock()

	w.modMu.Lock()
	clear(w.modified)
	w.modMu.Unlock()
}

func (w *World) markModified(id EntityID) {
	w.modMu.Lock()
	w.modified[id] = struct{}{}
	w.modMu.Unlock()
}

// storeFor returns the store for a kind, creating it on first use.
func (w *World) storeFor(kind ComponentKind) *Store[Component] {
	w.storeMu.RLock()
	store, ok := w.stores[kind]
	w.storeMu.RUnlock()
	if ok {
		return store
	}

	w.storeMu.Lock()
	defer w.storeMu.Unlock()
	if store, ok = w.stores[kind]; ok {
		return store
	}
	store = NewStore[Component]()
	w.stores[kind] = store
	return store
}

// existingStore returns the store for a kind only if some entity has
// ever held that kind.
func (w *World) existingStore(kind ComponentKind) (*Store[Component], bool) {
	w.storeMu.RLock()
	defer w.storeMu.RUnlock()
	store, ok := w.stores[kind]
	return store, ok
}

func (w *World) allStores() []*Store[Component] {
	w.storeMu.RLock()
	defer w.storeMu.RUnlock()
	stores := make([]*Store[Component], 0, len(w.stores))
	for _, store := range w.stores {
		stores = append(stores, store)
	}
	return stores
}
