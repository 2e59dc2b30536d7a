package scripts

import (
	"bytes"
	"errors"
	"log"
	"math"
	"strings"
	"testing"

	"quatrig/internal/components"
	"quatrig/internal/engine"
	"quatrig/internal/quat"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

type orbit struct {
	scene *engine.Scene
	hub   *engine.GameObject
	moon  *engine.GameObject
	spin  *Rotator
	f     *Follower
	logs  *bytes.Buffer
}

// newOrbit builds a hub spinning about +Y and a moon two units out on +X
// following it. The moon is added first so ordering has to put the hub first.
func newOrbit(t *testing.T, speed float32) *orbit {
	t.Helper()
	o := &orbit{
		scene: engine.NewScene("Orbit"),
		hub:   engine.NewGameObject("Hub"),
		moon:  engine.NewGameObject("Moon"),
		spin:  NewRotator(quat.UnitY, speed),
		f:     NewFollower(),
		logs:  &bytes.Buffer{},
	}
	o.f.Logger = log.New(o.logs, "", 0)
	o.moon.Transform.Position = rl.Vector3{X: 2}
	o.hub.AddComponent(o.spin)
	o.moon.AddComponent(o.f)
	o.f.Parent = engine.RefTo(o.hub)

	o.scene.AddGameObject(o.moon)
	o.scene.AddGameObject(o.hub)
	return o
}

func (o *orbit) start(t *testing.T) {
	t.Helper()
	if err := o.scene.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
}

func (o *orbit) run(ticks int, dt float32) {
	for i := 0; i < ticks; i++ {
		o.scene.Update(dt)
	}
}

func (o *orbit) moonAngle() float64 {
	p := o.moon.Transform.Position
	return math.Atan2(float64(-p.Z), float64(p.X))
}

func TestFollowerOrbitsWithParent(t *testing.T) {
	o := newOrbit(t, 1)
	o.start(t)
	o.run(60, 1.0/60)

	want := quat.RotateVector(o.hub.Transform.Rotation, rl.Vector3{X: 2})
	if !near(o.moon.Transform.Position, want, 1e-3) {
		t.Errorf("Expected moon at %+v, got %+v", want, o.moon.Transform.Position)
	}
	if d := rl.Vector3Length(o.moon.Transform.Position); math.Abs(float64(d-2)) > 1e-3 {
		t.Errorf("Moon drifted to distance %f", d)
	}
	if !quat.Equal(o.moon.Transform.Rotation, o.hub.Transform.Rotation, 1e-3) {
		t.Errorf("Moon should turn with hub, got %+v want %+v", o.moon.Transform.Rotation, o.hub.Transform.Rotation)
	}
}

func TestFollowerKeepsDistanceOverLongRuns(t *testing.T) {
	o := newOrbit(t, 5)
	o.start(t)
	o.run(5000, 0.016)

	if d := rl.Vector3Length(o.moon.Transform.Position); math.Abs(float64(d-2)) > 1e-2 {
		t.Errorf("Moon drifted to distance %f", d)
	}
}

func TestFollowerMultiplier(t *testing.T) {
	o := newOrbit(t, 0.5)
	o.f.Multiplier = 2
	o.start(t)
	o.run(60, 1.0/60)

	if got := o.moonAngle(); math.Abs(got-1) > 1e-3 {
		t.Errorf("Expected moon 1 rad round, got %f", got)
	}
	if got := quat.Angle(o.f.ParentChangeQuat()); math.Abs(float64(got)-1.0/60) > 1e-3 {
		t.Errorf("Expected change of 1/60 rad per tick, got %f", got)
	}
}

func TestFollowerMovesWithParent(t *testing.T) {
	o := newOrbit(t, 0)
	o.start(t)

	o.hub.Transform.Position = rl.Vector3{X: 1, Y: 2, Z: 3}
	o.run(1, 0.016)

	if want := (rl.Vector3{X: 3, Y: 2, Z: 3}); !near(o.moon.Transform.Position, want, 1e-5) {
		t.Errorf("Expected moon at %+v, got %+v", want, o.moon.Transform.Position)
	}

	o.f.MoveWith = false
	o.hub.Transform.Position = rl.Vector3{}
	o.run(1, 0.016)
	if want := (rl.Vector3{X: 3, Y: 2, Z: 3}); !near(o.moon.Transform.Position, want, 1e-5) {
		t.Errorf("Moon should stay put with moveWith off, got %+v", o.moon.Transform.Position)
	}
}

func TestFollowerRotateChildOff(t *testing.T) {
	o := newOrbit(t, 1)
	o.f.RotateChild = false
	o.start(t)
	o.run(30, 1.0/60)

	if o.moon.Transform.Rotation != quat.Identity() {
		t.Errorf("Moon should keep its rotation, got %+v", o.moon.Transform.Rotation)
	}
	if got := o.moonAngle(); math.Abs(got-0.5) > 1e-3 {
		t.Errorf("Moon should still orbit, angle %f", got)
	}
}

func TestFollowerStopChildIsolates(t *testing.T) {
	o := newOrbit(t, 1)
	o.start(t)

	var detached, reattached int
	o.f.OnDetach.AddListener(func() { detached++ })
	o.f.OnReattach.AddListener(func() { reattached++ })

	o.f.StopChild()
	if !o.f.Detached() || o.f.RotateWith || o.f.RotateChild {
		t.Fatalf("Unexpected state after StopChild: %+v", o.f)
	}

	before := o.moon.Transform
	o.run(60, 1.0/60)
	if !near(o.moon.Transform.Position, before.Position, 1e-4) {
		t.Errorf("Detached moon moved to %+v", o.moon.Transform.Position)
	}
	if !quat.Equal(o.moon.Transform.Rotation, before.Rotation, 1e-5) {
		t.Errorf("Detached moon turned to %+v", o.moon.Transform.Rotation)
	}

	o.f.RestartChild()
	if o.f.Detached() || !o.f.RotateWith || !o.f.RotateChild {
		t.Fatalf("Unexpected state after RestartChild: %+v", o.f)
	}
	hubBefore := o.hub.Transform.Rotation
	o.run(30, 1.0/60)

	// Only the rotation since reattaching is followed.
	since := quat.Hamilton(o.hub.Transform.Rotation, quat.Inverse(hubBefore))
	want := quat.RotateVector(since, rl.Vector3{X: 2})
	if !near(o.moon.Transform.Position, want, 1e-3) {
		t.Errorf("Expected moon at %+v after restart, got %+v", want, o.moon.Transform.Position)
	}

	if detached != 1 || reattached != 1 {
		t.Errorf("Expected one detach and one reattach, got %d and %d", detached, reattached)
	}
}

func TestFollowerCustomRotation(t *testing.T) {
	o := newOrbit(t, 3)
	o.start(t)
	o.f.StopChild()
	if err := o.f.ApplyCustom(rl.Vector3{Y: 5}, 0.1); err != nil {
		t.Fatalf("ApplyCustom failed: %v", err)
	}

	o.run(10, 1.0/60)

	// Ten parent moves, each orbiting the moon by the custom 0.1 rad.
	if got := o.moonAngle(); math.Abs(got-1) > 1e-3 {
		t.Errorf("Expected moon 1 rad round, got %f", got)
	}
	want := quat.AxisAngle(quat.UnitY, 0.5)
	if !quat.Equal(o.moon.Transform.Rotation, want, 1e-4) {
		t.Errorf("Expected moon rotation %+v, got %+v", want, o.moon.Transform.Rotation)
	}
}

func TestFollowerCustomNeedsParentMotion(t *testing.T) {
	o := newOrbit(t, 1)
	o.spin.Disable()
	o.start(t)
	o.f.StopChild()
	if err := o.f.ApplyCustom(quat.UnitY, 0.3); err != nil {
		t.Fatalf("ApplyCustom failed: %v", err)
	}

	o.run(20, 1.0/60)
	if !near(o.moon.Transform.Position, rl.Vector3{X: 2}, 1e-6) {
		t.Errorf("Custom rotation should only apply when the parent turns, moon at %+v", o.moon.Transform.Position)
	}
}

func TestFollowerApplyCustomZeroAxis(t *testing.T) {
	f := NewFollower()
	if err := f.ApplyCustom(rl.Vector3{}, 1); !errors.Is(err, ErrZeroAxis) {
		t.Errorf("Expected ErrZeroAxis, got %v", err)
	}
}

func TestFollowerHalfTurnReported(t *testing.T) {
	hub := engine.NewGameObject("Hub")
	moon := engine.NewGameObject("Moon")
	moon.Transform.Position = rl.Vector3{X: 2}

	var buf bytes.Buffer
	f := NewFollower()
	f.Logger = log.New(&buf, "", 0)
	f.Multiplier = 2
	f.SetParent(hub)
	moon.AddComponent(f)
	var counts []int
	f.OnHalfTurn.AddListener(func(n int) { counts = append(counts, n) })
	f.Start()

	hub.Transform.Rotation = quat.AxisAngle(quat.UnitY, math.Pi/2)
	f.Update(0.016)

	if f.HalfTurnCount() != 1 {
		t.Errorf("Expected one half turn, got %d", f.HalfTurnCount())
	}
	if len(counts) != 1 || counts[0] != 1 {
		t.Errorf("Expected OnHalfTurn(1), got %v", counts)
	}
	if !strings.Contains(buf.String(), "half") {
		t.Errorf("Expected a half turn warning, got %q", buf.String())
	}
	// The unscaled half turn is still applied.
	if !near(moon.Transform.Position, rl.Vector3{X: -2}, 1e-4) {
		t.Errorf("Expected moon at -X, got %+v", moon.Transform.Position)
	}
}

func TestFollowerRigidbodyDisablesFollow(t *testing.T) {
	o := newOrbit(t, 1)
	o.moon.AddComponent(components.NewRigidbody())
	o.start(t)

	if o.f.MoveWith || o.f.RotateWith {
		t.Error("Rigidbody should switch off moveWith and rotateWith")
	}
	if !strings.Contains(o.logs.String(), "rigidbody") {
		t.Errorf("Expected a rigidbody warning, got %q", o.logs.String())
	}

	o.hub.Transform.Position = rl.Vector3{Y: 10}
	o.run(30, 1.0/60)
	if !near(o.moon.Transform.Position, rl.Vector3{X: 2}, 1e-5) {
		t.Errorf("Moon should not follow, got %+v", o.moon.Transform.Position)
	}
}

func TestFollowerRigidbodyIgnoresDetach(t *testing.T) {
	o := newOrbit(t, 1)
	o.moon.AddComponent(components.NewRigidbody())
	o.start(t)

	var events int
	o.f.OnDetach.AddListener(func() { events++ })
	o.f.OnReattach.AddListener(func() { events++ })

	o.f.StopChild()
	o.run(10, 1.0/60)
	o.f.RestartChild()
	o.run(30, 1.0/60)

	if !o.f.Disabled() || o.f.Detached() || o.f.RotateWith {
		t.Errorf("Follower should stay disabled, detached %v rotateWith %v", o.f.Detached(), o.f.RotateWith)
	}
	if events != 0 {
		t.Errorf("Expected no detach events, got %d", events)
	}
	if !near(o.moon.Transform.Position, rl.Vector3{X: 2}, 1e-5) {
		t.Errorf("Moon should be left to the rigidbody, got %+v", o.moon.Transform.Position)
	}
	if o.moon.Transform.Rotation != quat.Identity() {
		t.Errorf("Moon rotation should be left to the rigidbody, got %+v", o.moon.Transform.Rotation)
	}
}

func TestFollowerTiltedParent(t *testing.T) {
	o := newOrbit(t, 1)
	tilt := quat.AxisAngle(quat.UnitX, math.Pi/8)
	o.hub.Transform.Rotation = tilt
	o.start(t)
	o.run(60, 1.0/60)

	// The hub turned 1 rad about world Y on top of its tilt; only that turn
	// is passed on to the moon.
	want := mgl32.QuatRotate(1, mgl32.Vec3{0, 1, 0})
	got := o.moon.Transform.Rotation
	if !quat.Equal(got, rl.Quaternion{X: want.V[0], Y: want.V[1], Z: want.V[2], W: want.W}, 1e-3) {
		t.Errorf("Expected moon rotation %+v, got %+v", want, got)
	}
	wantPos := rl.Vector3{X: 2 * float32(math.Cos(1)), Z: -2 * float32(math.Sin(1))}
	if !near(o.moon.Transform.Position, wantPos, 1e-3) {
		t.Errorf("Expected moon at %+v, got %+v", wantPos, o.moon.Transform.Position)
	}
}

func TestFollowerMissingParent(t *testing.T) {
	scene := engine.NewScene("Test")
	moon := engine.NewGameObject("Moon")
	f := NewFollower()
	f.Parent = engine.GameObjectRef{UID: 987654321}
	moon.AddComponent(f)
	scene.AddGameObject(moon)

	if err := scene.Start(); !errors.Is(err, ErrMissingParent) {
		t.Fatalf("Expected ErrMissingParent, got %v", err)
	}
}

func TestFollowerDependsOnParent(t *testing.T) {
	o := newOrbit(t, 1)
	order, err := o.scene.UpdateOrder()
	if err != nil {
		t.Fatalf("UpdateOrder failed: %v", err)
	}
	if order[0] != o.hub || order[1] != o.moon {
		t.Errorf("Expected hub before moon, got %s then %s", order[0].Name, order[1].Name)
	}
}

func TestFollowerScriptRoundTrip(t *testing.T) {
	c := engine.CreateScript("Follower", map[string]any{
		"parent":      42.0,
		"multiplier":  0.5,
		"rotateChild": false,
	})
	f, ok := c.(*Follower)
	if !ok {
		t.Fatalf("Expected *Follower, got %T", c)
	}
	if f.Parent.UID != 42 || f.Multiplier != 0.5 || !f.MoveWith || !f.RotateWith || f.RotateChild {
		t.Errorf("Unexpected follower %+v", f)
	}

	name, props, ok := engine.SerializeScript(f)
	if !ok || name != "Follower" {
		t.Fatalf("SerializeScript returned %q, %v", name, ok)
	}
	if props["parent"] != uint64(42) {
		t.Errorf("Expected parent 42, got %v", props["parent"])
	}
	if got := engine.GetScriptFieldType(f, "parent"); got != "GameObjectRef" {
		t.Errorf("Expected parent typed GameObjectRef, got %q", got)
	}

	if !engine.ApplyScriptProperty(f, "multiplier", 3.0) || f.Multiplier != 3 {
		t.Error("Applying multiplier failed")
	}
}
