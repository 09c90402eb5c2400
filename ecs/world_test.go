package ecs

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test components reusing the closed kind set.

type testPos struct{ X, Y float64 }

func (testPos) Kind() ComponentKind { return KindTransform }

type testVel struct{ DX, DY float64 }

func (testVel) Kind() ComponentKind { return KindVelocity }

type testHP struct{ Value float64 }

func (testHP) Kind() ComponentKind { return KindHealth }

// testSystem is a configurable System for exercising the scheduler.
type testSystem struct {
	BaseSystem
	updates  atomic.Int32
	inits    atomic.Int32
	closes   atomic.Int32
	updateFn func(w *World, dt time.Duration) error
}

func newTestSystem(name string, priority int) *testSystem {
	return &testSystem{BaseSystem: NewBaseSystem(name, priority)}
}

func (s *testSystem) Initialize(w *World) error {
	s.inits.Add(1)
	return nil
}

func (s *testSystem) Update(w *World, dt time.Duration) error {
	s.updates.Add(1)
	if s.updateFn != nil {
		return s.updateFn(w, dt)
	}
	return nil
}

func (s *testSystem) Shutdown() error {
	s.closes.Add(1)
	return nil
}

func TestCreateEntityMonotonicIDs(t *testing.T) {
	w := NewWorld(nil)

	a := w.CreateEntity()
	b := w.CreateEntity()
	c := w.CreateEntity()

	assert.Less(t, a, b)
	assert.Less(t, b, c)
	assert.Equal(t, 3, w.EntityCount())
}

func TestCreateEntityWithID(t *testing.T) {
	w := NewWorld(nil)

	require.NoError(t, w.CreateEntityWithID(100))

	err := w.CreateEntityWithID(100)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEntityExists)

	// The allocator must never hand out an id at or below an explicit one.
	next := w.CreateEntity()
	assert.Greater(t, next, EntityID(100))
}

func TestDestroyedIDNeverReused(t *testing.T) {
	w := NewWorld(nil)

	a := w.CreateEntity()
	w.DestroyEntity(a)

	b := w.CreateEntity()
	assert.NotEqual(t, a, b)
	assert.Greater(t, b, a)
}

func TestDestroyEntityPurgesComponents(t *testing.T) {
	w := NewWorld(nil)
	id := w.CreateEntity()
	require.NoError(t, Add(w, id, testPos{X: 1}))
	require.NoError(t, Add(w, id, testVel{DX: 2}))
	require.Equal(t, int64(2), w.ComponentCount())

	w.DestroyEntity(id)

	assert.Equal(t, 0, w.EntityCount())
	assert.Equal(t, int64(0), w.ComponentCount())
	assert.False(t, Has[testPos](w, id))
	assert.False(t, Has[testVel](w, id))

	// Destroying an absent id is a no-op.
	w.DestroyEntity(id)
	assert.Equal(t, 0, w.EntityCount())
}

func TestAddComponentToMissingEntity(t *testing.T) {
	w := NewWorld(nil)

	err := Add(w, 999, testPos{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEntityNotFound)
	assert.Equal(t, int64(0), w.ComponentCount())
}

func TestAddComponentOverwrites(t *testing.T) {
	w := NewWorld(nil)
	id := w.CreateEntity()

	require.NoError(t, Add(w, id, testPos{X: 1}))
	require.NoError(t, Add(w, id, testPos{X: 2}))

	assert.Equal(t, int64(1), w.ComponentCount(), "overwrite must not grow the count")
	pos, ok := Get[testPos](w, id)
	require.True(t, ok)
	assert.Equal(t, 2.0, pos.X)
}

func TestComponentLookupReportsAbsence(t *testing.T) {
	w := NewWorld(nil)
	id := w.CreateEntity()

	_, ok := Get[testPos](w, id)
	assert.False(t, ok)
	assert.False(t, Has[testPos](w, id))

	// Same for an id that never existed.
	_, ok = w.Component(42, KindTransform)
	assert.False(t, ok)
}

func TestRemoveComponent(t *testing.T) {
	w := NewWorld(nil)
	id := w.CreateEntity()
	require.NoError(t, Add(w, id, testPos{X: 5}))

	pos, ok := Remove[testPos](w, id)
	require.True(t, ok)
	assert.Equal(t, 5.0, pos.X)
	assert.Equal(t, int64(0), w.ComponentCount())

	_, ok = Remove[testPos](w, id)
	assert.False(t, ok, "second remove must report absence")
}

func TestEntitiesWith(t *testing.T) {
	w := NewWorld(nil)

	both := w.CreateEntity()
	require.NoError(t, Add(w, both, testPos{}))
	require.NoError(t, Add(w, both, testVel{}))

	posOnly := w.CreateEntity()
	require.NoError(t, Add(w, posOnly, testPos{}))

	bare := w.CreateEntity()

	assert.ElementsMatch(t, []EntityID{both, posOnly}, w.EntitiesWith(KindTransform))
	assert.ElementsMatch(t, []EntityID{both}, w.EntitiesWith(KindTransform, KindVelocity))
	assert.ElementsMatch(t, []EntityID{both, posOnly, bare}, w.EntitiesWith())
}

func TestEntitiesWithUnseenKind(t *testing.T) {
	w := NewWorld(nil)
	id := w.CreateEntity()
	require.NoError(t, Add(w, id, testPos{}))

	// KindSprite has never been stored; the intersection is empty even
	// though the transform store has entries.
	assert.Empty(t, w.EntitiesWith(KindTransform, KindSprite))
	assert.Empty(t, w.EntitiesWith(KindSprite))
}

func TestModifiedEntitiesLifecycle(t *testing.T) {
	w := NewWorld(nil)
	id := w.CreateEntity()

	assert.Empty(t, w.ModifiedEntities())

	require.NoError(t, Add(w, id, testPos{}))
	assert.ElementsMatch(t, []EntityID{id}, w.ModifiedEntities())

	w.Update(time.Millisecond)
	assert.Empty(t, w.ModifiedEntities(), "update must clear the modified set")

	Remove[testPos](w, id)
	assert.ElementsMatch(t, []EntityID{id}, w.ModifiedEntities(), "removal counts as modification")
}

func TestRegisterSystemIdempotent(t *testing.T) {
	w := NewWorld(nil)
	sys := newTestSystem("dup", 0)

	w.RegisterSystem(sys, PhasePhysics)
	w.RegisterSystem(sys, PhasePhysics)
	w.RegisterSystem(sys, PhaseRender)

	assert.Equal(t, 1, w.SystemCount())
	assert.Equal(t, PhasePhysics, sys.Phase(), "first registration wins")

	w.Update(time.Millisecond)
	assert.Equal(t, int32(1), sys.updates.Load())
}

func TestUnregisterSystem(t *testing.T) {
	w := NewWorld(nil)
	sys := newTestSystem("gone", 0)

	w.RegisterSystem(sys, PhaseAI)
	w.UnregisterSystem(sys)

	assert.Equal(t, 0, w.SystemCount())
	w.Update(time.Millisecond)
	assert.Equal(t, int32(0), sys.updates.Load())
}

func TestSequentialPhasePriorityOrder(t *testing.T) {
	w := NewWorld(nil)

	var order []string
	record := func(name string) func(*World, time.Duration) error {
		return func(*World, time.Duration) error {
			order = append(order, name)
			return nil
		}
	}

	// Render is the sequential phase, so ordering is observable without
	// synchronization.
	low := newTestSystem("low", 10)
	low.updateFn = record("low")
	high := newTestSystem("high", 1)
	high.updateFn = record("high")
	mid := newTestSystem("mid", 5)
	mid.updateFn = record("mid")

	w.RegisterSystem(low, PhaseRender)
	w.RegisterSystem(high, PhaseRender)
	w.RegisterSystem(mid, PhaseRender)

	w.Update(time.Millisecond)
	assert.Equal(t, []string{"high", "mid", "low"}, order)
}

func TestDisabledSystemSkipped(t *testing.T) {
	w := NewWorld(nil)
	sys := newTestSystem("off", 0)
	sys.SetEnabled(false)
	w.RegisterSystem(sys, PhaseGameLogic)

	w.Update(time.Millisecond)
	assert.Equal(t, int32(0), sys.updates.Load())

	sys.SetEnabled(true)
	w.Update(time.Millisecond)
	assert.Equal(t, int32(1), sys.updates.Load())
}

func TestCrossPhaseVisibility(t *testing.T) {
	w := NewWorld(nil)
	id := w.CreateEntity()
	require.NoError(t, Add(w, id, testPos{X: 0}))

	writer := newTestSystem("writer", 0)
	writer.updateFn = func(w *World, _ time.Duration) error {
		return Add(w, id, testPos{X: 5})
	}

	var seen float64
	reader := newTestSystem("reader", 0)
	reader.updateFn = func(w *World, _ time.Duration) error {
		pos, _ := Get[testPos](w, id)
		seen = pos.X
		return nil
	}

	// Physics completes before render prep starts, so the write must be
	// visible in the same frame.
	w.RegisterSystem(writer, PhasePhysics)
	w.RegisterSystem(reader, PhaseRenderPrep)

	w.Update(time.Millisecond)
	assert.Equal(t, 5.0, seen)
}

func TestSystemFailureConfined(t *testing.T) {
	w := NewWorld(nil)

	failing := newTestSystem("failing", 0)
	failing.updateFn = func(*World, time.Duration) error {
		return errors.New("boom")
	}
	panicking := newTestSystem("panicking", 1)
	panicking.updateFn = func(*World, time.Duration) error {
		panic("kaboom")
	}
	healthy := newTestSystem("healthy", 2)

	// Sequential phase so the panic provably cannot take siblings down.
	w.RegisterSystem(failing, PhaseRender)
	w.RegisterSystem(panicking, PhaseRender)
	w.RegisterSystem(healthy, PhaseRender)

	w.Update(time.Millisecond)
	w.Update(time.Millisecond)

	assert.Equal(t, int32(2), healthy.updates.Load(), "healthy system runs every frame")
	assert.Equal(t, int32(2), failing.updates.Load(), "failing system is retried next frame")
	assert.Equal(t, int32(2), panicking.updates.Load(), "panicking system is retried next frame")
}

func TestWorldInitializeAndShutdown(t *testing.T) {
	w := NewWorld(nil)
	sys := newTestSystem("lifecycle", 0)
	w.RegisterSystem(sys, PhaseInput)

	id := w.CreateEntity()
	require.NoError(t, Add(w, id, testPos{}))

	w.Initialize()
	assert.Equal(t, int32(1), sys.inits.Load())

	w.Shutdown()
	assert.Equal(t, int32(1), sys.closes.Load())
	assert.Equal(t, 0, w.EntityCount())
	assert.Equal(t, int64(0), w.ComponentCount())
	assert.Equal(t, 0, w.SystemCount())
}

func TestWorldStats(t *testing.T) {
	w := NewWorld(nil)

	for i := 0; i < 3; i++ {
		id := w.CreateEntity()
		require.NoError(t, Add(w, id, testPos{}))
	}
	w.DestroyEntity(1)
	w.RegisterSystem(newTestSystem("a", 0), PhasePhysics)
	w.RegisterSystem(newTestSystem("b", 0), PhasePhysics)

	stats := w.Stats()
	assert.Equal(t, 2, stats.Entities)
	assert.Equal(t, int64(3), stats.EntitiesCreated)
	assert.Equal(t, int64(2), stats.Components)
	assert.Equal(t, 2, stats.Systems)
	assert.Equal(t, map[string]int{"Physics": 2}, stats.SystemsByPhase)
}

func TestManyEntitiesQuery(t *testing.T) {
	w := NewWorld(nil)

	const n = 1000
	want := make([]EntityID, 0, n/2)
	for i := 0; i < n; i++ {
		id := w.CreateEntity()
		require.NoError(t, Add(w, id, testPos{X: float64(i)}))
		if i%2 == 0 {
			require.NoError(t, Add(w, id, testVel{}))
			want = append(want, id)
		}
	}

	got := w.EntitiesWith(KindTransform, KindVelocity)
	assert.ElementsMatch(t, want, got)
}

func ExampleWorld() {
	w := NewWorld(nil)
	id := w.CreateEntity()
	_ = Add(w, id, testPos{X: 3, Y: 4})

	pos, _ := Get[testPos](w, id)
	fmt.Println(pos.X, pos.Y)
	// Output: 3 4
}
