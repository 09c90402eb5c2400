package components

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/game-engine/ecs"
)

// Velocity holds linear velocity and acceleration, a maximum speed
// clamp and a drag coefficient in [0,1]. Immutable value; helpers
// return derived copies.
type Velocity struct {
	Linear       mgl64.Vec3
	Acceleration mgl64.Vec3
	MaxSpeed     float64
	Friction     float64
}

func (Velocity) Kind() ecs.ComponentKind {
	return ecs.KindVelocity
}

// Stationary returns a zero velocity with an unbounded speed clamp.
func Stationary() Velocity {
	return Velocity{MaxSpeed: math.MaxFloat64}
}

// ConstantVelocity returns a velocity with no acceleration, no friction
// and an unbounded speed clamp.
func ConstantVelocity(x, y, z float64) Velocity {
	return Velocity{
		Linear:   mgl64.Vec3{x, y, z},
		MaxSpeed: math.MaxFloat64,
	}
}

// VelocityWithGravity returns a velocity accelerating along the Y axis.
// Gravity is typically negative for downward pull.
func VelocityWithGravity(gravity float64) Velocity {
	return Velocity{
		Acceleration: mgl64.Vec3{0, gravity, 0},
		MaxSpeed:     math.MaxFloat64,
	}
}

// Speed returns the magnitude of the linear velocity.
func (v Velocity) Speed() float64 {
	return v.Linear.Len()
}

// IsStationary reports whether the speed is effectively zero.
func (v Velocity) IsStationary() bool {
	return v.Speed() < 0.001
}

// WithLinear returns a copy with the linear velocity replaced.
func (v Velocity) WithLinear(linear mgl64.Vec3) Velocity {
	v.Linear = linear
	return v
}

// WithAcceleration returns a copy with the acceleration replaced.
func (v Velocity) WithAcceleration(acceleration mgl64.Vec3) Velocity {
	v.Acceleration = acceleration
	return v
}

// ApplyAcceleration returns a copy with the acceleration integrated
// over dt seconds.
func (v Velocity) ApplyAcceleration(dt float64) Velocity {
	v.Linear = v.Linear.Add(v.Acceleration.Mul(dt))
	return v
}

// ApplyFriction returns a copy with drag applied over dt seconds. A
// non-positive friction coefficient leaves the value unchanged.
func (v Velocity) ApplyFriction(dt float64) Velocity {
	if v.Friction <= 0 {
		return v
	}
	multiplier := math.Max(0, 1-v.Friction*dt)
	v.Linear = v.Linear.Mul(multiplier)
	return v
}

// ClampToMaxSpeed returns a copy whose speed does not exceed MaxSpeed.
// The direction of motion is preserved.
func (v Velocity) ClampToMaxSpeed() Velocity {
	speed := v.Speed()
	if speed <= v.MaxSpeed || v.MaxSpeed == math.MaxFloat64 {
		return v
	}
	v.Linear = v.Linear.Mul(v.MaxSpeed / speed)
	return v
}

// Stop returns a copy with zero velocity and acceleration.
func (v Velocity) Stop() Velocity {
	v.Linear = mgl64.Vec3{}
	v.Acceleration = mgl64.Vec3{}
	return v
}
