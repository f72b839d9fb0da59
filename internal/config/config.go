// Package config provides YAML-based tuning for the physics world.
package config

import (
	"errors"
	"fmt"

	"dungeon3d/internal/physics"
	"dungeon3d/internal/shape"
	"dungeon3d/internal/spatial"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/jinzhu/copier"
)

var ErrInvalidConfig = errors.New("config: invalid world config")

// Vec3 is a vector written as a three element YAML sequence.
type Vec3 [3]float32

func (v Vec3) Vector3() rl.Vector3 { return rl.Vector3{X: v[0], Y: v[1], Z: v[2]} }

// WorldConfig holds everything needed to build a physics world and drive it.
type WorldConfig struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Solver     SolverConfig     `yaml:"solver"`
	Tree       TreeConfig       `yaml:"tree"`
	Material   MaterialConfig   `yaml:"material"`
}

// SimulationConfig defines the fixed-step loop.
type SimulationConfig struct {
	Gravity  Vec3    `yaml:"gravity"`
	TickRate float32 `yaml:"tick_rate"` // steps per second
	MaxSteps int     `yaml:"max_steps"` // per rendered frame
}

// SolverConfig defines contact resolution tolerances.
type SolverConfig struct {
	SkinWidth       float32 `yaml:"skin_width"`
	GroundThreshold float32 `yaml:"ground_threshold"`
	MinDisplacement float32 `yaml:"min_displacement"`
}

// TreeConfig defines the broad-phase tree.
type TreeConfig struct {
	Center      Vec3    `yaml:"center"`
	HalfSize    float32 `yaml:"half_size"`
	MinHalfSize float32 `yaml:"min_half_size"`
	MaxItems    int     `yaml:"max_items"`
	Axes        string  `yaml:"axes"` // any of "xyz"
}

// MaterialConfig defines what new bodies start with.
type MaterialConfig struct {
	Mass        float32 `yaml:"mass"`
	Friction    float32 `yaml:"friction"`
	Restitution float32 `yaml:"restitution"`
	Drag        float32 `yaml:"drag"`
}

// Default returns the built-in configuration.
func Default() WorldConfig {
	return WorldConfig{
		Simulation: SimulationConfig{
			Gravity:  Vec3{0, -20, 0},
			TickRate: 60,
			MaxSteps: 5,
		},
		Solver: SolverConfig{
			SkinWidth:       physics.DefaultSkinWidth,
			GroundThreshold: physics.DefaultGroundThreshold,
			MinDisplacement: 1e-5,
		},
		Tree: TreeConfig{
			HalfSize:    64,
			MinHalfSize: 2,
			MaxItems:    8,
			Axes:        "xyz",
		},
		Material: MaterialConfig{
			Mass:     1,
			Friction: 0.5,
		},
	}
}

// Validate reports settings a world cannot run with.
func (c WorldConfig) Validate() error {
	switch {
	case !(c.Simulation.TickRate > 0):
		return fmt.Errorf("%w: tick_rate must be positive, got %v", ErrInvalidConfig, c.Simulation.TickRate)
	case c.Simulation.MaxSteps < 1:
		return fmt.Errorf("%w: max_steps must be at least 1, got %d", ErrInvalidConfig, c.Simulation.MaxSteps)
	case c.Solver.SkinWidth < 0:
		return fmt.Errorf("%w: skin_width must not be negative, got %v", ErrInvalidConfig, c.Solver.SkinWidth)
	case shape.ParseAxes(c.Tree.Axes) == 0:
		return fmt.Errorf("%w: axes %q names no axis", ErrInvalidConfig, c.Tree.Axes)
	}
	if err := c.treeConfig().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func (c WorldConfig) treeConfig() spatial.Config {
	return spatial.Config{
		Center:      c.Tree.Center.Vector3(),
		HalfSize:    c.Tree.HalfSize,
		MinHalfSize: c.Tree.MinHalfSize,
		MaxItems:    c.Tree.MaxItems,
		Axes:        shape.ParseAxes(c.Tree.Axes),
	}
}

// Physics converts the configuration into a physics.Config.
func (c WorldConfig) Physics() (physics.Config, error) {
	if err := c.Validate(); err != nil {
		return physics.Config{}, err
	}
	return physics.Config{
		Gravity: c.Simulation.Gravity.Vector3(),
		Solver: physics.Solver{
			SkinWidth:       c.Solver.SkinWidth,
			GroundThreshold: c.Solver.GroundThreshold,
		},
		Tree: c.treeConfig(),
		Material: physics.Material{
			Mass:        c.Material.Mass,
			Friction:    c.Material.Friction,
			Restitution: c.Material.Restitution,
			Drag:        c.Material.Drag,
		},
		MinDisplacement: c.Solver.MinDisplacement,
	}, nil
}

// NewWorld builds a physics world and a matching fixed-step driver.
func (c WorldConfig) NewWorld() (*physics.World, *physics.Stepper, error) {
	pc, err := c.Physics()
	if err != nil {
		return nil, nil, err
	}
	w, err := physics.NewWorld(pc)
	if err != nil {
		return nil, nil, err
	}
	return w, physics.NewStepper(c.Simulation.TickRate, c.Simulation.MaxSteps), nil
}

// Merge overlays the non-zero fields of override onto base. A zero value
// in override never replaces a setting.
func Merge(base, override WorldConfig) (WorldConfig, error) {
	opt := copier.Option{IgnoreEmpty: true}
	sections := []struct{ dst, src any }{
		{&base.Simulation, &override.Simulation},
		{&base.Solver, &override.Solver},
		{&base.Tree, &override.Tree},
		{&base.Material, &override.Material},
	}
	for _, s := range sections {
		if err := copier.CopyWithOption(s.dst, s.src, opt); err != nil {
			return base, fmt.Errorf("config: merge: %w", err)
		}
	}
	return base, nil
}
