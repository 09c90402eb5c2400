package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityDefaults(t *testing.T) {
	e := newEntity(7)

	assert.Equal(t, EntityID(7), e.ID())
	assert.Equal(t, "Entity_7", e.Name())
	assert.True(t, e.Active())
	assert.False(t, e.MarkedForDestruction())
	assert.False(t, e.CreatedAt().IsZero())
}

func TestEntityNameAndActive(t *testing.T) {
	e := newEntity(1)

	e.SetName("player")
	assert.Equal(t, "player", e.Name())

	e.SetActive(false)
	assert.False(t, e.Active())
	e.SetActive(true)
	assert.True(t, e.Active())
}

func TestEntityDestructionFlagOneWay(t *testing.T) {
	e := newEntity(1)
	e.MarkForDestruction()
	assert.True(t, e.MarkedForDestruction())
	e.MarkForDestruction()
	assert.True(t, e.MarkedForDestruction())
}

func TestEntityTags(t *testing.T) {
	e := newEntity(1)

	assert.False(t, e.HasTag("team"))

	e.SetTag("team", "red")
	v, ok := e.Tag("team")
	require.True(t, ok)
	assert.Equal(t, "red", v)

	v, ok = e.RemoveTag("team")
	require.True(t, ok)
	assert.Equal(t, "red", v)
	assert.False(t, e.HasTag("team"))

	_, ok = e.RemoveTag("team")
	assert.False(t, ok)
}

func TestEntityIDString(t *testing.T) {
	assert.Equal(t, "Entity(42)", EntityID(42).String())
}
