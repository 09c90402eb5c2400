package components

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/game-engine/ecs"
)

// Sprite holds the visual state the renderer reads: a texture
// reference, size, a 2D offset from the entity position, a signed
// render layer used only for sort order, opacity in [0,1], visibility,
// an RGB tint with channels in [0,1] and flip flags.
type Sprite struct {
	TextureID string
	Width     float64
	Height    float64
	OffsetX   float64
	OffsetY   float64
	Layer     int
	Opacity   float64
	Visible   bool
	Tint      mgl64.Vec3
	FlippedX  bool
	FlippedY  bool
}

func (Sprite) Kind() ecs.ComponentKind {
	return ecs.KindSprite
}

// NewSprite returns a visible 1x1 sprite with full opacity and a white
// tint on layer 0.
func NewSprite(textureID string) Sprite {
	return NewSpriteSized(textureID, 1, 1)
}

// NewSpriteSized returns a visible sprite of the given size with full
// opacity and a white tint on layer 0.
func NewSpriteSized(textureID string, width, height float64) Sprite {
	return Sprite{
		TextureID: textureID,
		Width:     width,
		Height:    height,
		Opacity:   1,
		Visible:   true,
		Tint:      mgl64.Vec3{1, 1, 1},
	}
}

// Opaque reports whether the sprite is fully opaque.
func (s Sprite) Opaque() bool {
	return s.Opacity >= 0.999
}

// Untinted reports whether the tint is pure white.
func (s Sprite) Untinted() bool {
	return s.Tint == mgl64.Vec3{1, 1, 1}
}

// WithVisibility returns a copy with the visibility flag replaced.
func (s Sprite) WithVisibility(visible bool) Sprite {
	s.Visible = visible
	return s
}

// WithOpacity returns a copy with the opacity replaced, clamped to [0,1].
func (s Sprite) WithOpacity(opacity float64) Sprite {
	s.Opacity = math.Max(0, math.Min(1, opacity))
	return s
}

// WithLayer returns a copy on a different render layer.
func (s Sprite) WithLayer(layer int) Sprite {
	s.Layer = layer
	return s
}

// WithTint returns a copy with the tint replaced.
func (s Sprite) WithTint(tint mgl64.Vec3) Sprite {
	s.Tint = tint
	return s
}

// WithOffset returns a copy with the 2D offset replaced.
func (s Sprite) WithOffset(x, y float64) Sprite {
	s.OffsetX = x
	s.OffsetY = y
	return s
}

// Flipped returns a copy with the flip flags replaced.
func (s Sprite) Flipped(x, y bool) Sprite {
	s.FlippedX = x
	s.FlippedY = y
	return s
}
