package components

import (
	"quatrig/internal/engine"
	"quatrig/internal/quat"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func init() {
	engine.RegisterComponent("Rigidbody", func() engine.Serializable {
		return NewRigidbody()
	})
}

// Gravity is the downward acceleration applied to bodies with UseGravity set.
const Gravity = 9.81

// restThreshold is the angular speed (rad/s) below which a body stops spinning.
const restThreshold = 1e-4

// Rigidbody integrates velocity and angular velocity into its object's
// transform every tick. Because it writes the transform directly, scripts that
// also write it (Follower) switch themselves off when they find one.
type Rigidbody struct {
	engine.BaseComponent
	Velocity        rl.Vector3
	AngularVelocity rl.Vector3 // rotation axis scaled by radians per second, world space
	AngularDamping  float32    // fraction of angular speed lost per second
	UseGravity      bool
}

func NewRigidbody() *Rigidbody {
	return &Rigidbody{
		AngularDamping: 0.05,
		UseGravity:     false,
	}
}

// OwnsTransform implements engine.TransformOwner.
func (r *Rigidbody) OwnsTransform() bool {
	return true
}

func (r *Rigidbody) Update(deltaTime float32) {
	g := r.GetGameObject()
	if g == nil || deltaTime <= 0 {
		return
	}

	if r.UseGravity {
		r.Velocity.Y -= Gravity * deltaTime
	}
	g.Transform.Position = rl.Vector3Add(g.Transform.Position, rl.Vector3Scale(r.Velocity, deltaTime))

	speed := rl.Vector3Length(r.AngularVelocity)
	if speed < restThreshold {
		r.AngularVelocity = rl.Vector3{}
		return
	}
	axis := rl.Vector3Scale(r.AngularVelocity, 1/speed)
	step := quat.Normalize(quat.AxisAngle(axis, speed*deltaTime/2))
	g.Transform.Rotation = quat.Normalize(quat.Hamilton(step, g.Transform.Rotation))

	if r.AngularDamping > 0 {
		keep := 1 - r.AngularDamping*deltaTime
		if keep < 0 {
			keep = 0
		}
		r.AngularVelocity = rl.Vector3Scale(r.AngularVelocity, keep)
	}
}

// TypeName implements engine.Serializable
func (r *Rigidbody) TypeName() string {
	return "Rigidbody"
}

// Serialize implements engine.Serializable
func (r *Rigidbody) Serialize() map[string]any {
	return map[string]any{
		"type":            "Rigidbody",
		"velocity":        engine.Vec3ToProp(r.Velocity),
		"angularVelocity": engine.Vec3ToProp(r.AngularVelocity),
		"angularDamping":  r.AngularDamping,
		"useGravity":      r.UseGravity,
	}
}

// Deserialize implements engine.Serializable
func (r *Rigidbody) Deserialize(data map[string]any) {
	if v, ok := engine.Vec3Prop(data["velocity"]); ok {
		r.Velocity = v
	}
	if v, ok := engine.Vec3Prop(data["angularVelocity"]); ok {
		r.AngularVelocity = v
	}
	if d, ok := data["angularDamping"].(float64); ok {
		r.AngularDamping = float32(d)
	}
	if g, ok := data["useGravity"].(bool); ok {
		r.UseGravity = g
	}
}
