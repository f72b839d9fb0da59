package scenario

import (
	"fmt"
	"slices"

	"dungeon3d/internal/config"
	"dungeon3d/internal/engine"
	"dungeon3d/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Instance is a scene turned into a running world.
type Instance struct {
	Scene   *Scene
	World   *physics.World
	Stepper *physics.Stepper

	byName map[string]*physics.Body
}

// Build creates a world from base with the scene's world section laid on
// top, then adds one body per object. Each body's UserData is its *Object.
func (s *Scene) Build(base config.WorldConfig) (*Instance, error) {
	cfg, err := config.Merge(base, s.World)
	if err != nil {
		return nil, err
	}
	w, stepper, err := cfg.NewWorld()
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}

	in := &Instance{
		Scene:   s,
		World:   w,
		Stepper: stepper,
		byName:  make(map[string]*physics.Body, len(s.Objects)),
	}
	for i := range s.Objects {
		o := &s.Objects[i]
		b, err := in.spawn(o)
		if err != nil {
			return nil, fmt.Errorf("scenario: object %q: %w", o.Name, err)
		}
		in.byName[o.Name] = b
	}

	w.RefreshStatics()
	w.UpdateBounds()
	return in, nil
}

func (in *Instance) spawn(o *Object) (*physics.Body, error) {
	t := engine.NewTransformAt(o.Position.Vector3())
	t.SetRotation(o.Rotation.Vector3())
	if o.Scale != (config.Vec3{}) {
		t.SetScale(o.Scale.Vector3())
	}

	b := in.World.CreateBody(t)
	half := rl.Vector3Scale(o.Size.Vector3(), 0.5)

	var err error
	switch o.Shape {
	case ShapeMeshBox:
		err = b.SetupFineTreeFromTriangles(physics.BoxTriangles(rl.Vector3Negate(half), half), "")
	case ShapeWedge:
		err = b.SetupFineTreeFromTriangles(WedgeTriangles(half), "")
	default:
		b.SetupBoundsFromGeometry(rl.Vector3Negate(half), half)
	}
	if err != nil {
		in.World.RemoveBody(b)
		return nil, err
	}

	def := o.Body
	b.Static = def.Static
	b.Immovable = def.Immovable
	if def.Mass > 0 {
		b.Mass = def.Mass
	}
	if def.Friction > 0 {
		b.Friction = def.Friction
	}
	if def.Restitution > 0 {
		b.Restitution = def.Restitution
	}
	if def.Drag > 0 {
		b.Drag = def.Drag
	}
	if def.UseGravity != nil {
		b.IgnoreGravity = !*def.UseGravity
	}
	if def.Collidable != nil {
		b.Collidable = *def.Collidable
	}
	b.Velocity = def.Velocity.Vector3()
	b.UserData = o
	return b, nil
}

// Body returns the body built for the named object, or nil.
func (in *Instance) Body(name string) *physics.Body {
	return in.byName[name]
}

// Run advances the world by ticks fixed steps.
func (in *Instance) Run(ticks int) {
	for i := 0; i < ticks; i++ {
		in.World.Step(in.Stepper.Step)
	}
}

// Capture returns a copy of the scene with each object's position and
// velocity taken from its body.
func (in *Instance) Capture() *Scene {
	out := *in.Scene
	out.Objects = slices.Clone(in.Scene.Objects)
	for i := range out.Objects {
		o := &out.Objects[i]
		b := in.byName[o.Name]
		if b == nil || b.World() == nil {
			continue
		}
		p := b.Position()
		o.Position = config.Vec3{p.X, p.Y, p.Z}
		o.Body.Velocity = config.Vec3{b.Velocity.X, b.Velocity.Y, b.Velocity.Z}
	}
	return &out
}

// WedgeTriangles returns a ramp filling the box of the given half extents,
// rising from the -X bottom edge to the +X top edge.
func WedgeTriangles(half rl.Vector3) [][3]rl.Vector3 {
	x, y, z := half.X, half.Y, half.Z
	a := rl.Vector3{X: -x, Y: -y, Z: -z}
	b := rl.Vector3{X: x, Y: -y, Z: -z}
	c := rl.Vector3{X: x, Y: -y, Z: z}
	d := rl.Vector3{X: -x, Y: -y, Z: z}
	e := rl.Vector3{X: x, Y: y, Z: -z}
	f := rl.Vector3{X: x, Y: y, Z: z}
	return [][3]rl.Vector3{
		{a, b, c}, {a, c, d}, // bottom
		{b, e, f}, {b, f, c}, // back
		{a, d, f}, {a, f, e}, // slope
		{a, e, b}, // sides
		{d, c, f},
	}
}
