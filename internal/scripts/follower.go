package scripts

import (
	"errors"
	"log"
	"math"

	"quatrig/internal/engine"
	"quatrig/internal/quat"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ErrMissingParent is returned when a Follower has no parent to follow.
var ErrMissingParent = errors.New("follower has no parent")

// Follower keeps its object rigidly attached to a parent object that is not its
// hierarchy parent. Parent moves are copied onto the child; parent rotations
// are scaled by Multiplier and used to orbit the child around the parent and,
// with RotateChild, to turn the child as well.
//
// StopChild detaches the child: from then on every parent rotation orbits the
// child by the custom rotation set with ApplyCustom instead. RestartChild
// reattaches it.
type Follower struct {
	engine.BaseComponent
	Parent      engine.GameObjectRef
	Multiplier  float32
	MoveWith    bool
	RotateWith  bool
	RotateChild bool

	// Logger receives warnings. Nil uses the standard logger.
	Logger *log.Logger

	OnDetach   engine.Event
	OnReattach engine.Event

	// OnHalfTurn fires with the running half-turn count each time the parent
	// change could not be rescaled.
	OnHalfTurn engine.EventWithArg[int]

	parent    *engine.GameObject
	disabled  bool
	detached  bool
	custom    rl.Quaternion
	change    rl.Quaternion
	prevPos   rl.Vector3
	prevRot   rl.Quaternion
	halfTurns int
}

func NewFollower() *Follower {
	return &Follower{
		Multiplier:  1,
		MoveWith:    true,
		RotateWith:  true,
		RotateChild: true,
		custom:      quat.Identity(),
		change:      quat.Identity(),
		prevRot:     quat.Identity(),
	}
}

// SetParent links the follower to p directly, bypassing the UID lookup.
func (f *Follower) SetParent(p *engine.GameObject) {
	f.parent = p
	f.Parent.Set(p)
}

// ParentObject resolves the followed object, or nil if there is none.
func (f *Follower) ParentObject() *engine.GameObject {
	if f.parent != nil {
		return f.parent
	}
	g := f.GetGameObject()
	if g == nil {
		return nil
	}
	f.parent = f.Parent.Get(g.Scene)
	return f.parent
}

// Validate implements engine.Validator.
func (f *Follower) Validate() error {
	if f.ParentObject() == nil {
		return ErrMissingParent
	}
	return nil
}

// Dependencies implements engine.Dependent.
func (f *Follower) Dependencies() []*engine.GameObject {
	if p := f.ParentObject(); p != nil {
		return []*engine.GameObject{p}
	}
	return nil
}

func (f *Follower) Start() {
	g := f.GetGameObject()
	if g != nil && g.HasTransformOwner() {
		if f.MoveWith || f.RotateWith {
			f.logf("Follower on %q: object has a rigidbody, disabling moveWith and rotateWith", g.Name)
		}
		f.MoveWith = false
		f.RotateWith = false
		f.disabled = true
	}
	if p := f.ParentObject(); p != nil {
		f.prevPos = p.WorldPosition()
		f.prevRot = p.WorldRotation()
	}
}

func (f *Follower) Update(deltaTime float32) {
	g := f.GetGameObject()
	p := f.ParentObject()
	if g == nil || p == nil || f.disabled {
		return
	}
	pos := p.WorldPosition()
	rot := p.WorldRotation()

	if f.MoveWith && pos != f.prevPos {
		g.Transform.Position = rl.Vector3Add(g.Transform.Position, rl.Vector3Subtract(pos, f.prevPos))
	}

	if f.RotateWith || f.detached {
		delta := quat.Normalize(quat.Hamilton(rot, quat.Inverse(f.prevRot)))
		delta, status := quat.RescaleAngle(delta, f.Multiplier)
		if status == quat.StatusHalfTurn {
			f.halfTurns++
			f.logf("Follower on %q: parent turned half a revolution in one tick, rotation left unscaled", g.Name)
			f.OnHalfTurn.Invoke(f.halfTurns)
		}
		f.change = delta

		if !quat.Equal(f.prevRot, rot, quat.Epsilon) {
			effective := delta
			if f.detached {
				effective = f.custom
			}
			offset := rl.Vector3Subtract(g.Transform.Position, pos)
			dist := rl.Vector3Length(offset)
			dir := quat.NormalizeVec(offset)
			g.Transform.Position = rl.Vector3Add(pos, rl.Vector3Scale(quat.RotateVector(effective, dir), dist))
			if f.RotateChild || f.detached {
				g.Transform.Rotation = quat.Normalize(quat.Hamilton(effective, g.Transform.Rotation))
			}
		}
	}

	f.prevPos = pos
	f.prevRot = rot
}

// ParentChangeQuat returns the parent's scaled rotation over the last tick.
func (f *Follower) ParentChangeQuat() rl.Quaternion {
	return f.change
}

// ApplyCustom sets the rotation a detached child orbits by on every tick the
// parent turns. angle is the full rotation in radians.
func (f *Follower) ApplyCustom(axis rl.Vector3, angle float32) error {
	if quat.IsZeroVec(axis) {
		return ErrZeroAxis
	}
	f.custom = quat.Normalize(quat.AxisAngle(quat.NormalizeVec(axis), angle/2))
	return nil
}

// StopChild detaches the child from the parent's rotation. It does nothing
// once a rigidbody has taken over the transform.
func (f *Follower) StopChild() {
	if f.disabled {
		return
	}
	f.RotateWith = false
	f.RotateChild = false
	f.detached = true
	f.OnDetach.Invoke()
}

// RestartChild reattaches the child to the parent's rotation. It does nothing
// once a rigidbody has taken over the transform.
func (f *Follower) RestartChild() {
	if f.disabled {
		return
	}
	f.RotateWith = true
	f.RotateChild = true
	f.detached = false
	f.OnReattach.Invoke()
}

// Disabled reports whether a rigidbody on the object switched following off.
func (f *Follower) Disabled() bool {
	return f.disabled
}

func (f *Follower) Detached() bool {
	return f.detached
}

// HalfTurnCount is the number of ticks on which the parent change was a half
// turn and could not be rescaled.
func (f *Follower) HalfTurnCount() int {
	return f.halfTurns
}

func (f *Follower) logf(format string, args ...any) {
	if f.Logger != nil {
		f.Logger.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}

func init() {
	engine.RegisterScriptWithMetadata("Follower", followerFactory, followerSerializer, followerApplier, map[string]string{
		"parent":      "GameObjectRef",
		"multiplier":  "float32",
		"moveWith":    "bool",
		"rotateWith":  "bool",
		"rotateChild": "bool",
	})
}

func followerFactory(props map[string]any) engine.Component {
	f := NewFollower()
	if ref, ok := engine.RefFromProp(props["parent"]); ok {
		f.Parent = ref
	}
	f.Multiplier = engine.FloatProp(props, "multiplier", 1)
	f.MoveWith = engine.BoolProp(props, "moveWith", true)
	f.RotateWith = engine.BoolProp(props, "rotateWith", true)
	f.RotateChild = engine.BoolProp(props, "rotateChild", true)
	return f
}

func followerSerializer(c engine.Component) map[string]any {
	f, ok := c.(*Follower)
	if !ok {
		return nil
	}
	return map[string]any{
		"parent":      f.Parent.UID,
		"multiplier":  f.Multiplier,
		"moveWith":    f.MoveWith,
		"rotateWith":  f.RotateWith,
		"rotateChild": f.RotateChild,
	}
}

func followerApplier(c engine.Component, propName string, value any) bool {
	f, ok := c.(*Follower)
	if !ok {
		return false
	}
	switch propName {
	case "parent":
		if ref, ok := engine.RefFromProp(value); ok {
			f.Parent = ref
			f.parent = nil
			return true
		}
	case "multiplier":
		if v, ok := value.(float64); ok && !math.IsNaN(v) {
			f.Multiplier = float32(v)
			return true
		}
	case "moveWith":
		if v, ok := value.(bool); ok {
			f.MoveWith = v
			return true
		}
	case "rotateWith":
		if v, ok := value.(bool); ok {
			f.RotateWith = v
			return true
		}
	case "rotateChild":
		if v, ok := value.(bool); ok {
			f.RotateChild = v
			return true
		}
	}
	return false
}
