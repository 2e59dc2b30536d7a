package world

import (
	"context"
	"time"

	"quatrig/internal/engine"

	// Scene files may name any built-in component or script.
	_ "quatrig/internal/components"
	_ "quatrig/internal/scripts"
)

// World owns the scene being simulated and steps it at a fixed delta time.
type World struct {
	Scene *engine.Scene

	// OnTick, if set, runs after every step with the 1-based tick number.
	OnTick func(tick int)

	// Pace, if set, is waited on before every step so a run can follow a
	// wall clock. Nil steps as fast as possible.
	Pace <-chan time.Time

	ticks int
}

func New() *World {
	return &World{
		Scene: engine.NewScene("Main"),
	}
}

// Start validates and starts every object in the scene.
func (w *World) Start() error {
	return w.Scene.Start()
}

// Step advances the scene by one tick of deltaTime seconds.
func (w *World) Step(deltaTime float32) {
	w.Scene.Update(deltaTime)
	w.ticks++
	if w.OnTick != nil {
		w.OnTick(w.ticks)
	}
}

// Ticks returns the number of steps taken so far.
func (w *World) Ticks() int {
	return w.ticks
}

// Run steps the world ticks times, or until ctx is done. It returns the
// number of steps taken and ctx's error if the run was cut short.
func (w *World) Run(ctx context.Context, ticks int, deltaTime float32) (int, error) {
	for i := 0; i < ticks; i++ {
		if w.Pace != nil {
			select {
			case <-ctx.Done():
				return i, ctx.Err()
			case <-w.Pace:
			}
		} else if err := ctx.Err(); err != nil {
			return i, err
		}
		w.Step(deltaTime)
	}
	return ticks, nil
}
