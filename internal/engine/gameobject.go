package engine

import (
	"sync/atomic"

	"quatrig/internal/quat"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Transform is an object's position, orientation and scale relative to its
// parent (or the world origin when it has none).
type Transform struct {
	Position rl.Vector3
	Rotation rl.Quaternion
	Scale    rl.Vector3
}

// NewTransform returns a transform at the origin with no rotation and unit scale.
func NewTransform() Transform {
	return Transform{
		Rotation: quat.Identity(),
		Scale:    rl.Vector3{X: 1, Y: 1, Z: 1},
	}
}

// Right returns the transform's local +X axis in parent space.
func (t Transform) Right() rl.Vector3 {
	return quat.RotateVector(t.Rotation, quat.UnitX)
}

// Up returns the transform's local +Y axis in parent space.
func (t Transform) Up() rl.Vector3 {
	return quat.RotateVector(t.Rotation, quat.UnitY)
}

// Forward returns the transform's local +Z axis in parent space.
func (t Transform) Forward() rl.Vector3 {
	return quat.RotateVector(t.Rotation, quat.UnitZ)
}

var lastUID atomic.Uint64

// NextUID returns a fresh non-zero object UID.
func NextUID() uint64 {
	return lastUID.Add(1)
}

// ReserveUID makes sure future UIDs are greater than uid. Scene loaders call it
// after restoring objects with saved UIDs.
func ReserveUID(uid uint64) {
	for {
		cur := lastUID.Load()
		if cur >= uid || lastUID.CompareAndSwap(cur, uid) {
			return
		}
	}
}

type GameObject struct {
	UID        uint64
	Name       string
	Tags       []string
	Transform  Transform
	Active     bool
	Scene      *Scene
	Parent     *GameObject
	Children   []*GameObject
	components []Component
	started    bool
}

func NewGameObject(name string) *GameObject {
	return &GameObject{
		UID:        NextUID(),
		Name:       name,
		Active:     true,
		Transform:  NewTransform(),
		components: make([]Component, 0),
		Children:   make([]*GameObject, 0),
	}
}

func (g *GameObject) AddComponent(c Component) {
	c.SetGameObject(g)
	g.components = append(g.components, c)
	if g.Scene != nil {
		g.Scene.markDirty()
	}
}

// GetComponent returns the first component of type T, or the zero value.
func GetComponent[T Component](g *GameObject) T {
	var zero T
	for _, c := range g.components {
		if typed, ok := c.(T); ok {
			return typed
		}
	}
	return zero
}

func (g *GameObject) Start() {
	if g.started {
		return
	}
	for _, c := range g.components {
		c.Start()
	}
	g.started = true
}

func (g *GameObject) Update(deltaTime float32) {
	if !g.Active {
		return
	}
	for _, c := range g.components {
		c.Update(deltaTime)
	}
}

func (g *GameObject) Components() []Component {
	return g.components
}

// HasTransformOwner reports whether any component simulates this object's
// transform on its own.
func (g *GameObject) HasTransformOwner() bool {
	for _, c := range g.components {
		if o, ok := c.(TransformOwner); ok && o.OwnsTransform() {
			return true
		}
	}
	return false
}

func (g *GameObject) HasTag(tag string) bool {
	for _, t := range g.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (g *GameObject) AddChild(child *GameObject) {
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	child.Parent = g
	g.Children = append(g.Children, child)
	if g.Scene != nil && child.Scene == nil {
		g.Scene.AddGameObject(child)
	}
	if g.Scene != nil {
		g.Scene.markDirty()
	}
}

func (g *GameObject) RemoveChild(child *GameObject) {
	for i, c := range g.Children {
		if c == child {
			g.Children = append(g.Children[:i], g.Children[i+1:]...)
			child.Parent = nil
			if g.Scene != nil {
				g.Scene.markDirty()
			}
			return
		}
	}
}

// WorldPosition returns the object's position after applying every ancestor's
// scale, rotation and translation.
func (g *GameObject) WorldPosition() rl.Vector3 {
	if g.Parent == nil {
		return g.Transform.Position
	}
	parentScale := g.Parent.WorldScale()
	scaled := rl.Vector3{
		X: g.Transform.Position.X * parentScale.X,
		Y: g.Transform.Position.Y * parentScale.Y,
		Z: g.Transform.Position.Z * parentScale.Z,
	}
	rotated := quat.RotateVector(g.Parent.WorldRotation(), scaled)
	return rl.Vector3Add(g.Parent.WorldPosition(), rotated)
}

// WorldRotation returns the object's orientation composed with its ancestors'.
func (g *GameObject) WorldRotation() rl.Quaternion {
	if g.Parent == nil {
		return g.Transform.Rotation
	}
	return quat.Normalize(quat.Hamilton(g.Parent.WorldRotation(), g.Transform.Rotation))
}

func (g *GameObject) WorldScale() rl.Vector3 {
	if g.Parent == nil {
		return g.Transform.Scale
	}
	ps := g.Parent.WorldScale()
	return rl.Vector3{
		X: ps.X * g.Transform.Scale.X,
		Y: ps.Y * g.Transform.Scale.Y,
		Z: ps.Z * g.Transform.Scale.Z,
	}
}
