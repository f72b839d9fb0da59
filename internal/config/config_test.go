package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"dungeon3d/internal/shape"
	"dungeon3d/internal/spatial"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEmbeddedDefaultsMatchBuiltin(t *testing.T) {
	cfg, err := Parse(defaultPhysicsYAML)
	if err != nil {
		t.Fatalf("Embedded defaults failed to parse: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Expected embedded defaults to equal Default(), got %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected defaults to validate, got %v", err)
	}
}

func TestLoadFallsBackToEmbedded(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Simulation.TickRate != 60 {
		t.Errorf("Expected tick rate 60, got %v", cfg.Simulation.TickRate)
	}
}

func TestLoadUserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".dungeon3d")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	body := "simulation:\n  tick_rate: 120\n"
	if err := os.WriteFile(filepath.Join(dir, "physics.yaml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Simulation.TickRate != 120 {
		t.Errorf("Expected user tick rate 120, got %v", cfg.Simulation.TickRate)
	}
}

func TestLoadCustomPathKeepsDefaults(t *testing.T) {
	path := writeFile(t, "custom.yaml", "simulation:\n  gravity: [0, -9.8, 0]\ntree:\n  axes: xz\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Simulation.Gravity != (Vec3{0, -9.8, 0}) {
		t.Errorf("Expected gravity override, got %v", cfg.Simulation.Gravity)
	}
	if cfg.Tree.HalfSize != 64 || cfg.Material.Friction != 0.5 {
		t.Errorf("Expected unspecified fields to keep defaults, got %+v", cfg)
	}

	pc, err := cfg.Physics()
	if err != nil {
		t.Fatal(err)
	}
	if pc.Tree.Axes != shape.AxisX|shape.AxisZ {
		t.Errorf("Expected xz mask, got %v", pc.Tree.Axes)
	}
	if pc.Gravity != (rl.Vector3{Y: -9.8}) {
		t.Errorf("Expected gravity vector, got %v", pc.Gravity)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected an error for a missing file")
	}
	if _, err := Load(writeFile(t, "bad.yaml", "simulation: [1, 2")); err == nil {
		t.Error("Expected a parse error")
	}
	_, err := Load(writeFile(t, "zero.yaml", "simulation:\n  tick_rate: -1\n"))
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*WorldConfig){
		"no axes":       func(c *WorldConfig) { c.Tree.Axes = "w" },
		"no max steps":  func(c *WorldConfig) { c.Simulation.MaxSteps = 0 },
		"negative skin": func(c *WorldConfig) { c.Solver.SkinWidth = -1 },
		"tiny tree":     func(c *WorldConfig) { c.Tree.MinHalfSize = 100 },
	}
	for name, mutate := range cases {
		cfg := Default()
		mutate(&cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: expected ErrInvalidConfig, got %v", name, err)
		}
	}

	cfg := Default()
	cfg.Tree.HalfSize = 0
	if err := cfg.Validate(); !errors.Is(err, spatial.ErrInvalidConfig) {
		t.Errorf("Expected the tree error to be wrapped, got %v", err)
	}
}

func TestMerge(t *testing.T) {
	var override WorldConfig
	override.Material.Restitution = 0.8
	override.Simulation.Gravity = Vec3{0, -5, 0}

	merged, err := Merge(Default(), override)
	if err != nil {
		t.Fatal(err)
	}
	if merged.Material.Restitution != 0.8 {
		t.Errorf("Expected restitution 0.8, got %v", merged.Material.Restitution)
	}
	if merged.Simulation.Gravity != (Vec3{0, -5, 0}) {
		t.Errorf("Expected gravity override, got %v", merged.Simulation.Gravity)
	}
	if merged.Material.Friction != 0.5 || merged.Simulation.TickRate != 60 {
		t.Errorf("Expected zero fields to leave the base alone, got %+v", merged)
	}
}

func TestNewWorld(t *testing.T) {
	cfg := Default()
	cfg.Simulation.TickRate = 30
	cfg.Material.Friction = 0.9

	w, stepper, err := cfg.NewWorld()
	if err != nil {
		t.Fatal(err)
	}
	if b := w.CreateBody(nil); b.Friction != 0.9 {
		t.Errorf("Expected material friction 0.9, got %v", b.Friction)
	}
	if stepper.Step != float32(1)/30 {
		t.Errorf("Expected a 1/30 step, got %v", stepper.Step)
	}
}
