package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRunDefaultScene(t *testing.T) {
	if err := run(options{steps: 30, dt: 1.0 / 60.0, every: 10}); err != nil {
		t.Fatalf("run failed: %v", err)
	}
}

func TestRunWithFiles(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "world.yaml")
	scenePath := filepath.Join(dir, "scene.yaml")
	if err := os.WriteFile(cfgPath, []byte("broad_phase:\n  aabb_margin: 0.2\nlogging:\n  verbose: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(scenePath, []byte("name: two\nbodies:\n  - name: a\n    velocity: {x: 1}\n    shapes:\n      - circle: {radius: 1}\n  - name: b\n    position: {x: 3}\n    shapes:\n      - circle: {radius: 1}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	opts := options{configPath: cfgPath, scenePath: scenePath, steps: 90, dt: 1.0 / 30.0, watch: true}
	if err := run(opts); err != nil {
		t.Fatalf("run failed: %v", err)
	}
}

func TestRunRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		opts options
	}{
		{"zero_dt", options{steps: 1}},
		{"missing_config", options{steps: 1, dt: 0.1, configPath: filepath.Join(t.TempDir(), "nope.yaml")}},
		{"watch_without_config", options{steps: 1, dt: 0.1, watch: true}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := run(tc.opts); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}
