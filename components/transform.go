package components

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/game-engine/ecs"
)

// Transform holds an entity's position, rotation and scale. Rotation is
// Euler angles in degrees. The value is immutable; every helper returns
// a derived copy.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Vec3
	Scale    mgl64.Vec3
}

func (Transform) Kind() ecs.ComponentKind {
	return ecs.KindTransform
}

// Identity returns a transform at the origin with no rotation and unit scale.
func Identity() Transform {
	return Transform{Scale: mgl64.Vec3{1, 1, 1}}
}

// TransformAt returns a transform at the given position with no
// rotation and unit scale.
func TransformAt(x, y, z float64) Transform {
	return Transform{
		Position: mgl64.Vec3{x, y, z},
		Scale:    mgl64.Vec3{1, 1, 1},
	}
}

// TransformAt2D returns a transform on the z=0 plane.
func TransformAt2D(x, y float64) Transform {
	return TransformAt(x, y, 0)
}

// WithPosition returns a copy with the position replaced.
func (t Transform) WithPosition(p mgl64.Vec3) Transform {
	t.Position = p
	return t
}

// WithRotation returns a copy with the rotation replaced.
func (t Transform) WithRotation(r mgl64.Vec3) Transform {
	t.Rotation = r
	return t
}

// WithScale returns a copy with the scale replaced.
func (t Transform) WithScale(s mgl64.Vec3) Transform {
	t.Scale = s
	return t
}

// WithUniformScale returns a copy scaled equally on all axes.
func (t Transform) WithUniformScale(f float64) Transform {
	t.Scale = mgl64.Vec3{f, f, f}
	return t
}

// Translate returns a copy moved by the given delta.
func (t Transform) Translate(delta mgl64.Vec3) Transform {
	t.Position = t.Position.Add(delta)
	return t
}

// Rotate returns a copy rotated by the given delta, in degrees.
func (t Transform) Rotate(delta mgl64.Vec3) Transform {
	t.Rotation = t.Rotation.Add(delta)
	return t
}

// ScaleBy returns a copy with each scale axis multiplied by the
// matching factor.
func (t Transform) ScaleBy(factor mgl64.Vec3) Transform {
	t.Scale = mgl64.Vec3{
		t.Scale.X() * factor.X(),
		t.Scale.Y() * factor.Y(),
		t.Scale.Z() * factor.Z(),
	}
	return t
}

// DistanceTo returns the Euclidean distance between two transforms.
func (t Transform) DistanceTo(other Transform) float64 {
	return t.Position.Sub(other.Position).Len()
}
