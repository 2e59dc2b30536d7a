// Headless runner that loads a scene file, steps it and logs every object's
// transform.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"quatrig/internal/engine"
	"quatrig/internal/quat"
	"quatrig/internal/scripts"
	"quatrig/internal/world"
)

func main() {
	scenePath := flag.String("scene", "", "scene file to load (required)")
	ticks := flag.Int("ticks", 600, "number of ticks to run")
	dt := flag.Float64("dt", 1.0/60, "seconds per tick")
	every := flag.Int("every", 60, "log transforms every n ticks (0 logs only the end)")
	realtime := flag.Bool("realtime", false, "pace ticks to the wall clock")
	detachAt := flag.Int("detach", 0, "tick at which every follower stops following rotation")
	reattachAt := flag.Int("reattach", 0, "tick at which every follower follows rotation again")
	out := flag.String("out", "", "save the final scene to this file")
	flag.Parse()

	if *scenePath == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *dt <= 0 {
		log.Fatalf("dt must be positive, got %v", *dt)
	}

	w := world.New()
	if err := w.LoadScene(*scenePath); err != nil {
		log.Fatal(err)
	}
	if err := w.Start(); err != nil {
		log.Fatal(err)
	}
	log.Printf("Loaded %s: %d objects", *scenePath, len(w.Scene.GameObjects))

	w.OnTick = func(tick int) {
		if tick == *detachAt {
			setDetached(w.Scene, true)
		}
		if tick == *reattachAt {
			setDetached(w.Scene, false)
		}
		if *every > 0 && tick%*every == 0 {
			logTransforms(w, tick)
		}
	}

	if *realtime {
		ticker := time.NewTicker(time.Duration(*dt * float64(time.Second)))
		defer ticker.Stop()
		w.Pace = ticker.C
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	n, err := w.Run(ctx, *ticks, float32(*dt))
	if err != nil {
		log.Printf("Stopped after %d ticks: %v", n, err)
	}
	logTransforms(w, n)
	log.Printf("Ran %d ticks in %v", n, time.Since(start).Round(time.Millisecond))

	if *out != "" {
		if err := w.SaveScene(*out); err != nil {
			log.Fatal(err)
		}
		log.Printf("Saved %s", *out)
	}
}

func setDetached(scene *engine.Scene, detached bool) {
	for _, g := range scene.GameObjects {
		f := engine.GetComponent[*scripts.Follower](g)
		if f == nil {
			continue
		}
		if detached {
			f.StopChild()
		} else {
			f.RestartChild()
		}
	}
}

func logTransforms(w *world.World, tick int) {
	for _, g := range w.Scene.GameObjects {
		p := g.WorldPosition()
		r := g.WorldRotation()
		log.Printf("tick %d %-12s pos %s rot [%.4f %.4f %.4f %.4f] angle %.4f", tick, g.Name,
			fmt.Sprintf("[%.4f %.4f %.4f]", p.X, p.Y, p.Z), r.X, r.Y, r.Z, r.W, quat.Angle(r))
	}
}
