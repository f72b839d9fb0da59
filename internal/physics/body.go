package physics

import (
	"slices"

	"dungeon3d/internal/engine"
	"dungeon3d/internal/shape"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Body is a simulated object. Bodies are created by World.CreateBody and
// hold a transform, a local bounding box and an optional fine tree of
// mesh triangles.
type Body struct {
	id    uint64
	world *World

	Mass        float32
	Friction    float32
	Restitution float32 // 0 = no bounce, 1 = perfect bounce
	Drag        float32

	Velocity rl.Vector3
	Force    rl.Vector3 // accumulated until the next integration
	Impulse  rl.Vector3 // applied once at the next integration

	Static              bool // never moves; bounds refresh only on request
	Immovable           bool // moves by its own velocity but is never pushed
	Collidable          bool // takes part in the solver
	ChecksForCollisions bool // runs its own narrow phase each tick
	IgnoreGravity       bool

	// UserData is left for the owner of the body.
	UserData any

	transform   *engine.Transform
	bounds      *shape.OBB
	boundsDirty bool
	fine        *FineTree

	onGround bool
	support  rl.Vector3

	touched map[uint64]*Body
}

func (b *Body) ID() uint64                   { return b.id }
func (b *Body) World() *World                { return b.world }
func (b *Body) Transform() *engine.Transform { return b.transform }
func (b *Body) FineTree() *FineTree          { return b.fine }

// OnGround reports whether a contact this tick held the body up.
func (b *Body) OnGround() bool { return b.onGround }

// SupportNormal returns the averaged up-facing contact normal of this tick.
func (b *Body) SupportNormal() rl.Vector3 {
	if !b.onGround {
		return rl.Vector3{}
	}
	return rl.Vector3Normalize(b.support)
}

// Shape returns the world-space bounding box, refreshing it if stale.
func (b *Body) Shape() shape.Shape {
	return b.Bounds()
}

func (b *Body) Bounds() *shape.OBB {
	if b.boundsDirty {
		b.bounds.SetTransform(b.transform.WorldMatrix())
		b.boundsDirty = false
	}
	return b.bounds
}

// Position is the world position of the body's transform.
func (b *Body) Position() rl.Vector3 {
	return b.transform.WorldPosition()
}

// SetPosition moves the body's transform and marks its bounds stale.
func (b *Body) SetPosition(p rl.Vector3) {
	b.transform.SetPosition(p)
	b.boundsDirty = true
}

// SetupBoundsFromGeometry sets the local bounding box.
func (b *Body) SetupBoundsFromGeometry(min, max rl.Vector3) {
	b.bounds.SetMinMax(min, max)
	b.boundsDirty = true
}

// SetupFineTreeFromTriangles attaches triangle-level collision. Bodies with
// the same cacheKey, or with identical triangles when cacheKey is empty,
// share one tree. The local bounds are set to the triangles' extent.
func (b *Body) SetupFineTreeFromTriangles(tris [][3]rl.Vector3, cacheKey string) error {
	ft, err := b.world.fineTree(tris, cacheKey)
	if err != nil {
		return err
	}
	b.fine = ft
	b.SetupBoundsFromGeometry(ft.Bounds())
	return nil
}

// AddForce accumulates a force for the next integration.
func (b *Body) AddForce(f rl.Vector3) {
	b.Force = rl.Vector3Add(b.Force, f)
}

// AddImpulse accumulates an instant velocity change scaled by mass.
func (b *Body) AddImpulse(i rl.Vector3) {
	b.Impulse = rl.Vector3Add(b.Impulse, i)
}

// Touching reports whether other was in contact with b during the last tick.
func (b *Body) Touching(other *Body) bool {
	_, ok := b.touched[other.id]
	return ok
}

// TouchedIDs returns the ids of bodies in contact during the last tick, sorted.
func (b *Body) TouchedIDs() []uint64 {
	ids := make([]uint64, 0, len(b.touched))
	for id := range b.touched {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// mass falls back to 1 for bodies configured without one.
func (b *Body) mass() float32 {
	if b.Mass > 0 {
		return b.Mass
	}
	return 1
}

// fixed bodies absorb none of a collision response.
func (b *Body) fixed() bool {
	return b.Static || b.Immovable
}

// translate moves the body by a world-space displacement.
func (b *Body) translate(d rl.Vector3) {
	b.transform.TranslateWorld(d)
	b.boundsDirty = true
}

func (b *Body) markGround(normal rl.Vector3) {
	if b.Static {
		return
	}
	b.onGround = true
	b.support = rl.Vector3Add(b.support, normal)
}

func (b *Body) touch(other *Body) {
	b.touched[other.id] = other
}

func (b *Body) untouch(other *Body) {
	delete(b.touched, other.id)
}
