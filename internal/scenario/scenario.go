// Package scenario loads and saves YAML scene descriptions and builds
// physics worlds from them.
package scenario

import (
	"errors"
	"fmt"
	"os"

	"dungeon3d/internal/config"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"
)

var ErrInvalidScene = errors.New("scenario: invalid scene")

// Shapes an object can take.
const (
	ShapeBox     = "box"      // bounding box only
	ShapeMeshBox = "mesh_box" // box with triangle-level collision
	ShapeWedge   = "wedge"    // ramp rising towards +X
)

// --- YAML types ---

type Scene struct {
	Name    string             `yaml:"name"`
	Ticks   int                `yaml:"ticks,omitempty"`
	World   config.WorldConfig `yaml:"world,omitempty"`
	Objects []Object           `yaml:"objects"`
}

type Object struct {
	Name     string      `yaml:"name"`
	Tags     []string    `yaml:"tags,omitempty"`
	Shape    string      `yaml:"shape"`
	Size     config.Vec3 `yaml:"size"`
	Position config.Vec3 `yaml:"position"`
	Rotation config.Vec3 `yaml:"rotation,omitempty"`
	Scale    config.Vec3 `yaml:"scale,omitempty"`
	Color    string      `yaml:"color,omitempty"`
	Body     BodyDef     `yaml:"body"`
}

// BodyDef configures the simulated body. Zero material fields take the
// world's material.
type BodyDef struct {
	Static      bool        `yaml:"static,omitempty"`
	Immovable   bool        `yaml:"immovable,omitempty"`
	Mass        float32     `yaml:"mass,omitempty"`
	Friction    float32     `yaml:"friction,omitempty"`
	Restitution float32     `yaml:"restitution,omitempty"`
	Drag        float32     `yaml:"drag,omitempty"`
	Velocity    config.Vec3 `yaml:"velocity,omitempty"`
	UseGravity  *bool       `yaml:"use_gravity,omitempty"`
	Collidable  *bool       `yaml:"collidable,omitempty"`
}

// --- Color mapping ---

var colorByName = map[string]rl.Color{
	"Red":       rl.Red,
	"Blue":      rl.Blue,
	"Green":     rl.Green,
	"Purple":    rl.Purple,
	"Orange":    rl.Orange,
	"Yellow":    rl.Yellow,
	"SkyBlue":   rl.SkyBlue,
	"Lime":      rl.Lime,
	"White":     rl.White,
	"LightGray": rl.LightGray,
	"Gray":      rl.Gray,
	"DarkGray":  rl.DarkGray,
	"Brown":     rl.Brown,
	"Beige":     rl.Beige,
	"Maroon":    rl.Maroon,
	"Gold":      rl.Gold,
}

// RGBA returns the object's draw color. Unknown names fall back to gray for
// static objects and sky blue for the rest.
func (o *Object) RGBA() rl.Color {
	if c, ok := colorByName[o.Color]; ok {
		return c
	}
	if o.Body.Static {
		return rl.Gray
	}
	return rl.SkyBlue
}

func (o *Object) validate() error {
	switch o.Shape {
	case ShapeBox, ShapeMeshBox, ShapeWedge:
	case "":
		o.Shape = ShapeBox
	default:
		return fmt.Errorf("%w: object %q has unknown shape %q", ErrInvalidScene, o.Name, o.Shape)
	}
	for _, c := range o.Size {
		if !(c > 0) {
			return fmt.Errorf("%w: object %q needs a positive size, got %v", ErrInvalidScene, o.Name, o.Size)
		}
	}
	return nil
}

// --- Loading ---

func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a scene.
func Parse(data []byte) (*Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	seen := make(map[string]bool, len(s.Objects))
	for i := range s.Objects {
		o := &s.Objects[i]
		if o.Name == "" {
			o.Name = fmt.Sprintf("object%d", i)
		}
		if seen[o.Name] {
			return nil, fmt.Errorf("%w: duplicate object name %q", ErrInvalidScene, o.Name)
		}
		seen[o.Name] = true
		if err := o.validate(); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

// --- Saving ---

func Save(path string, s *Scene) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal scene: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write scene: %w", err)
	}
	return nil
}
