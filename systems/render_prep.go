package systems

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/game-engine/components"
	"github.com/lixenwraith/game-engine/ecs"
)

// RenderItem is one visible entity in the frame's render batch.
type RenderItem struct {
	ID        ecs.EntityID
	Transform components.Transform
	Sprite    components.Sprite
}

// RenderPrepSystem rebuilds the layer-sorted batch of visible entities
// once all gameplay mutations for the frame are committed. The renderer
// consumes the batch read-only through Batch.
type RenderPrepSystem struct {
	ecs.BaseSystem
	log *zap.Logger

	mu    sync.RWMutex
	batch []RenderItem
}

// NewRenderPrepSystem creates a render preparation system.
func NewRenderPrepSystem(log *zap.Logger) *RenderPrepSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &RenderPrepSystem{
		BaseSystem: ecs.NewBaseSystem("RenderPrepSystem", PriorityRenderPrep),
		log:        log.Named("renderprep"),
	}
}

func (s *RenderPrepSystem) Update(w *ecs.World, _ time.Duration) error {
	if !s.Enabled() {
		return nil
	}

	batch := make([]RenderItem, 0)
	for _, id := range w.EntitiesWith(ecs.KindTransform, ecs.KindSprite) {
		if ent, ok := w.Entity(id); ok && !ent.Active() {
			continue
		}
		sprite, ok := ecs.Get[components.Sprite](w, id)
		if !ok || !sprite.Visible {
			continue
		}
		transform, ok := ecs.Get[components.Transform](w, id)
		if !ok {
			continue
		}
		batch = append(batch, RenderItem{ID: id, Transform: transform, Sprite: sprite})
	}

	// Lower layers draw first; ids break ties for a stable frame order.
	sort.Slice(batch, func(i, j int) bool {
		if batch[i].Sprite.Layer != batch[j].Sprite.Layer {
			return batch[i].Sprite.Layer < batch[j].Sprite.Layer
		}
		return batch[i].ID < batch[j].ID
	})

	s.mu.Lock()
	s.batch = batch
	s.mu.Unlock()
	return nil
}

// Batch returns a copy of the most recently built render batch.
func (s *RenderPrepSystem) Batch() []RenderItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	batch := make([]RenderItem, len(s.batch))
	copy(batch, s.batch)
	return batch
}
