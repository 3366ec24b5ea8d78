package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/milk9111/collision/config"
	"github.com/milk9111/collision/scene"
	"github.com/milk9111/collision/world"
)

type options struct {
	configPath string
	scenePath  string
	steps      int
	dt         float64
	every      int
	watch      bool
	realtime   bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "YAML config file (built-in defaults when empty)")
	flag.StringVar(&opts.scenePath, "scene", "", "YAML scene file (embedded default scene when empty)")
	flag.IntVar(&opts.steps, "steps", 240, "number of steps to simulate")
	flag.Float64Var(&opts.dt, "dt", 1.0/60.0, "seconds per step")
	flag.IntVar(&opts.every, "every", 60, "log a summary every N steps (0 = only at the end)")
	flag.BoolVar(&opts.watch, "watch", false, "reload -config whenever the file changes")
	flag.BoolVar(&opts.realtime, "realtime", false, "sleep dt between steps")
	flag.Parse()

	if err := run(opts); err != nil {
		log.Fatal(err)
	}
}

func run(opts options) error {
	if opts.steps < 0 || opts.dt <= 0 {
		return fmt.Errorf("bodysim: need steps >= 0 and dt > 0")
	}

	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	var (
		s   *scene.Scene
		err error
	)
	if opts.scenePath != "" {
		s, err = scene.Load(opts.scenePath)
	} else {
		s, err = scene.Default()
	}
	if err != nil {
		return err
	}

	w := world.New(cfg)
	insts, err := s.Build(w)
	if err != nil {
		return err
	}
	log.Printf("bodysim: scene %q with %d bodies", s.Name, w.BodyCount())

	var watcher *config.Watcher
	if opts.watch {
		if opts.configPath == "" {
			return fmt.Errorf("bodysim: -watch needs -config")
		}
		watcher, err = config.NewWatcher(opts.configPath)
		if err != nil {
			return err
		}
		defer watcher.Close()
	}

	var created, destroyed int
	for step := 1; step <= opts.steps; step++ {
		if watcher != nil {
			applyPending(w, watcher)
		}
		for _, in := range insts {
			in.Advance(opts.dt)
		}
		report := w.DetectContacts()
		created += report.Created
		destroyed += report.Destroyed

		for _, e := range w.Events().Drain() {
			if w.Config().Logging.Verbose {
				log.Printf("bodysim: step %d %s body=%d other=%d manifold=%d", step, e.Kind, e.Body, e.Other, e.Manifold)
			}
		}
		if opts.every > 0 && step%opts.every == 0 {
			log.Printf("bodysim: step %d manifolds=%d touching=%d", step, w.ManifoldCount(), report.Touching)
		}
		if opts.realtime {
			time.Sleep(time.Duration(opts.dt * float64(time.Second)))
		}
	}

	st := w.Stats()
	log.Printf("bodysim: done bodies=%d proxies=%d shapes=%d manifolds=%d created=%d destroyed=%d tree_height=%d",
		st.Bodies, st.Proxies.Live, st.CatalogShapes, st.Manifolds, created, destroyed, st.TreeHeight)
	return nil
}

// applyPending applies every config the watcher has delivered so far.
func applyPending(w *world.World, watcher *config.Watcher) {
	for {
		select {
		case cfg, ok := <-watcher.Configs:
			if !ok {
				return
			}
			if err := w.ApplyConfig(cfg); err != nil {
				log.Printf("bodysim: %v", err)
			} else {
				log.Printf("bodysim: config reloaded")
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("bodysim: config watch: %v", err)
		default:
			return
		}
	}
}
