package scripts

import (
	"errors"

	"quatrig/internal/engine"
	"quatrig/internal/quat"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ErrZeroAxis is returned when a rotation axis has no length.
var ErrZeroAxis = errors.New("rotation axis has zero length")

// Rotator spins its object about Axis at Speed radians per second. With Local
// set, Axis is read in the object's own right/up/forward frame, so the spin
// axis turns with the object.
type Rotator struct {
	engine.BaseComponent
	Axis    rl.Vector3
	Speed   float32
	Local   bool
	Enabled bool
}

func NewRotator(axis rl.Vector3, speed float32) *Rotator {
	return &Rotator{Axis: axis, Speed: speed, Enabled: true}
}

// Validate implements engine.Validator.
func (r *Rotator) Validate() error {
	if quat.IsZeroVec(r.Axis) {
		return ErrZeroAxis
	}
	return nil
}

func (r *Rotator) Enable()  { r.Enabled = true }
func (r *Rotator) Disable() { r.Enabled = false }

func (r *Rotator) SetEnabled(enabled bool) {
	r.Enabled = enabled
}

// Orientation returns the object's current rotation, or identity when the
// rotator is not attached.
func (r *Rotator) Orientation() rl.Quaternion {
	g := r.GetGameObject()
	if g == nil {
		return quat.Identity()
	}
	return g.Transform.Rotation
}

func (r *Rotator) Update(deltaTime float32) {
	g := r.GetGameObject()
	if g == nil || !r.Enabled || quat.IsZeroVec(r.Axis) {
		return
	}
	g.Transform.Rotation = r.Step(g.Transform.Rotation, deltaTime)
}

// Step returns current advanced by one tick of deltaTime seconds. The tick's
// rotation is applied in world space, before current.
func (r *Rotator) Step(current rl.Quaternion, deltaTime float32) rl.Quaternion {
	axis := r.Axis
	if r.Local {
		right, up, forward := quat.Basis(current)
		axis = rl.Vector3Add(
			rl.Vector3Add(rl.Vector3Scale(right, r.Axis.X), rl.Vector3Scale(up, r.Axis.Y)),
			rl.Vector3Scale(forward, r.Axis.Z),
		)
	}
	axis = quat.NormalizeVec(axis)

	delta := quat.Normalize(quat.AxisAngle(axis, r.Speed*deltaTime/2))
	return quat.Normalize(quat.Hamilton(delta, current))
}

func init() {
	engine.RegisterScriptWithMetadata("Rotator", rotatorFactory, rotatorSerializer, rotatorApplier, map[string]string{
		"axis":    "Vector3",
		"speed":   "float32",
		"local":   "bool",
		"enabled": "bool",
	})
}

func rotatorFactory(props map[string]any) engine.Component {
	axis := quat.UnitY
	if v, ok := engine.Vec3Prop(props["axis"]); ok {
		axis = v
	}
	r := NewRotator(axis, engine.FloatProp(props, "speed", 1))
	r.Local = engine.BoolProp(props, "local", false)
	r.Enabled = engine.BoolProp(props, "enabled", true)
	return r
}

func rotatorSerializer(c engine.Component) map[string]any {
	r, ok := c.(*Rotator)
	if !ok {
		return nil
	}
	return map[string]any{
		"axis":    engine.Vec3ToProp(r.Axis),
		"speed":   r.Speed,
		"local":   r.Local,
		"enabled": r.Enabled,
	}
}

func rotatorApplier(c engine.Component, propName string, value any) bool {
	r, ok := c.(*Rotator)
	if !ok {
		return false
	}
	switch propName {
	case "axis":
		if v, ok := engine.Vec3Prop(value); ok {
			r.Axis = v
			return true
		}
	case "speed":
		if v, ok := value.(float64); ok {
			r.Speed = float32(v)
			return true
		}
	case "local":
		if v, ok := value.(bool); ok {
			r.Local = v
			return true
		}
	case "enabled":
		if v, ok := value.(bool); ok {
			r.Enabled = v
			return true
		}
	}
	return false
}
