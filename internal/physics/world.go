// Package physics simulates boxes and static meshes: a dynamic spatial
// tree for the broad phase, separating-axis tests for the narrow phase,
// and an impulse solver with positional correction.
package physics

import (
	"cmp"
	"fmt"
	"slices"

	"dungeon3d/internal/engine"
	"dungeon3d/internal/shape"
	"dungeon3d/internal/spatial"

	"github.com/charmbracelet/log"
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Material holds the defaults given to new bodies.
type Material struct {
	Mass        float32
	Friction    float32
	Restitution float32
	Drag        float32
}

// Config gathers everything a World needs at construction.
type Config struct {
	Gravity         rl.Vector3
	Solver          Solver
	Tree            spatial.Config
	Material        Material
	MinDisplacement float32 // translations shorter than this are skipped
}

func DefaultConfig() Config {
	return Config{
		Gravity:         rl.Vector3{Y: -20},
		Solver:          DefaultSolver(),
		Tree:            spatial.DefaultConfig(),
		Material:        Material{Mass: 1, Friction: 0.5},
		MinDisplacement: 1e-5,
	}
}

// World owns every body, the broad-phase tree and the per-tick pipeline.
type World struct {
	Gravity         rl.Vector3
	Solver          Solver
	Material        Material
	MinDisplacement float32

	ContactBegan Event[Contact]
	ContactEnded Event[Contact]

	bodies    []*Body
	byID      map[uint64]*Body
	tree      *spatial.Tree[*Body]
	fineTrees map[string]*FineTree
	nextID    uint64
	tick      uint64

	refreshStatics bool

	active     map[pairKey]Contact
	current    map[pairKey]Contact
	candidates []*Body
	manifold   []shape.Contact
	probe      *shape.OBB

	logger *log.Logger
}

func NewWorld(cfg Config) (*World, error) {
	tree, err := spatial.New[*Body](cfg.Tree)
	if err != nil {
		return nil, fmt.Errorf("physics: %w", err)
	}
	logger := log.Default().WithPrefix("physics")
	tree.SetLogger(logger)

	return &World{
		Gravity:         cfg.Gravity,
		Solver:          cfg.Solver,
		Material:        cfg.Material,
		MinDisplacement: cfg.MinDisplacement,
		byID:            make(map[uint64]*Body),
		tree:            tree,
		fineTrees:       make(map[string]*FineTree),
		active:          make(map[pairKey]Contact),
		current:         make(map[pairKey]Contact),
		probe:           shape.NewOBB(rl.Vector3{}, rl.Vector3{}),
		logger:          logger,
	}, nil
}

// NewDefaultWorld builds a world from DefaultConfig.
func NewDefaultWorld() *World {
	w, err := NewWorld(DefaultConfig())
	if err != nil {
		panic(err)
	}
	return w
}

// SetLogger replaces the world's logger and the tree's with it.
func (w *World) SetLogger(l *log.Logger) {
	if l == nil {
		return
	}
	w.logger = l
	w.tree.SetLogger(l)
}

func (w *World) Tree() *spatial.Tree[*Body] { return w.tree }
func (w *World) Tick() uint64               { return w.tick }
func (w *World) BodyCount() int             { return len(w.bodies) }

// Bodies returns the bodies in creation order. The slice must not be modified.
func (w *World) Bodies() []*Body { return w.bodies }

// Body looks a body up by id.
func (w *World) Body(id uint64) *Body { return w.byID[id] }

// CreateBody adds a body using t, or a fresh transform when t is nil. The
// body starts collidable with a unit bounding box and the world material.
func (w *World) CreateBody(t *engine.Transform) *Body {
	if t == nil {
		t = engine.NewTransform()
	}
	w.nextID++
	b := &Body{
		id:                  w.nextID,
		world:               w,
		Mass:                w.Material.Mass,
		Friction:            w.Material.Friction,
		Restitution:         w.Material.Restitution,
		Drag:                w.Material.Drag,
		Collidable:          true,
		ChecksForCollisions: true,
		transform:           t,
		bounds:              shape.NewOBB(rl.Vector3{X: -0.5, Y: -0.5, Z: -0.5}, rl.Vector3{X: 0.5, Y: 0.5, Z: 0.5}),
		boundsDirty:         true,
		touched:             make(map[uint64]*Body),
	}
	w.bodies = append(w.bodies, b)
	w.byID[b.id] = b
	if !w.tree.Insert(b) {
		w.logger.Warn("body not indexed", "id", b.id)
	}
	return b
}

// CreateBox adds a body at center with a box of the given size.
func (w *World) CreateBox(center, size rl.Vector3, static bool) *Body {
	b := w.CreateBody(engine.NewTransformAt(center))
	half := rl.Vector3Scale(size, 0.5)
	b.SetupBoundsFromGeometry(rl.Vector3Negate(half), half)
	b.Static = static
	return b
}

// RemoveBody detaches b from the world. Open contacts involving b end now.
func (w *World) RemoveBody(b *Body) {
	if b == nil || b.world != w {
		return
	}
	w.tree.Remove(b)
	if i := slices.Index(w.bodies, b); i >= 0 {
		w.bodies = slices.Delete(w.bodies, i, i+1)
	}
	delete(w.byID, b.id)

	var ended []Contact
	for k, c := range w.active {
		if c.A == b || c.B == b {
			ended = append(ended, c)
			delete(w.active, k)
		}
	}
	sortContacts(ended)
	for _, c := range ended {
		c.Other(b).untouch(b)
		w.ContactEnded.invoke(c)
	}
	clear(b.touched)
	b.world = nil
}

func (w *World) fineTree(tris [][3]rl.Vector3, key string) (*FineTree, error) {
	if key == "" {
		key = meshKey(tris)
	}
	if ft, ok := w.fineTrees[key]; ok {
		return ft, nil
	}
	ft, err := NewFineTree(tris)
	if err != nil {
		return nil, err
	}
	ft.key = key
	w.fineTrees[key] = ft
	w.logger.Debug("fine tree built", "key", key, "triangles", ft.Len())
	return ft, nil
}

// RefreshStatics makes the next Step or UpdateBounds recompute the bounds
// of static bodies too.
func (w *World) RefreshStatics() {
	w.refreshStatics = true
}

// UpdateBounds runs only the bounds and tree maintenance part of a tick.
func (w *World) UpdateBounds() {
	w.refresh()
}

// Step advances the simulation by dt seconds.
func (w *World) Step(dt float32) {
	if dt < 0 || math32.IsNaN(dt) {
		w.logger.Warn("ignoring step with invalid dt", "dt", dt)
		return
	}
	w.refresh()
	w.collide()
	w.integrate(dt)
	w.dispatchContacts()
	w.tick++
}

func (w *World) refresh() {
	for _, b := range w.bodies {
		clear(b.touched)
		if !b.Static || w.refreshStatics {
			b.boundsDirty = true
		}
		b.onGround = false
		b.support = rl.Vector3{}
	}
	w.refreshStatics = false

	w.tree.Recalculate(func(b *Body) { b.Bounds() })
	if w.tree.Len() != len(w.bodies) {
		for _, b := range w.bodies {
			if !w.tree.Contains(b) {
				w.tree.Insert(b)
			}
		}
	}
	w.tree.Prune()
}

func (w *World) collide() {
	for _, a := range w.bodies {
		if a.Static || a.Immovable || !a.ChecksForCollisions {
			continue
		}

		w.candidates = w.candidates[:0]
		w.tree.QueryFunc(func(o *Body) bool {
			if o != a {
				w.candidates = append(w.candidates, o)
			}
			return true
		}, a.Bounds())
		slices.SortFunc(w.candidates, func(x, y *Body) int { return cmp.Compare(x.id, y.id) })

		for _, b := range w.candidates {
			if a.Touching(b) {
				continue
			}
			if !shape.Overlap(a.Bounds(), b.Bounds()) {
				continue
			}
			w.manifold = w.narrow(w.manifold[:0], a, b)
			if len(w.manifold) == 0 {
				continue
			}

			a.touch(b)
			b.touch(a)
			c := makeContact(a, b)
			w.current[c.key()] = c

			if a.Collidable && b.Collidable {
				w.Solver.Resolve(a, b, w.manifold)
			}
		}
	}
}

// narrow builds the manifold of a against b, refining through fine trees.
// When both carry one, a is tested as its bounding box.
func (w *World) narrow(dst []shape.Contact, a, b *Body) []shape.Contact {
	switch {
	case b.fine != nil:
		return w.meshContacts(dst, a, b)
	case a.fine != nil:
		n := len(dst)
		dst = w.meshContacts(dst, b, a)
		for i := n; i < len(dst); i++ {
			dst[i].Axis = rl.Vector3Negate(dst[i].Axis)
		}
		return dst
	}
	return shape.PenetrationAll(dst, a.Bounds(), b.Bounds())
}

// meshContacts tests probe's box against owner's triangles. The tree is
// searched with the box moved into owner's local space; the matching
// triangles are moved into world space for the test.
func (w *World) meshContacts(dst []shape.Contact, probe, owner *Body) []shape.Contact {
	ownerWorld := owner.transform.WorldMatrix()
	toLocal := rl.MatrixMultiply(probe.transform.WorldMatrix(), rl.MatrixInvert(ownerWorld))

	w.probe.SetMinMax(probe.bounds.LocalMinMax())
	w.probe.SetTransform(toLocal)
	return owner.fine.contacts(dst, probe.Bounds(), w.probe, ownerWorld)
}

func (w *World) integrate(dt float32) {
	for _, b := range w.bodies {
		if b.Static {
			continue
		}
		if b.Immovable {
			w.move(b, rl.Vector3Scale(b.Velocity, dt))
			b.Force, b.Impulse = rl.Vector3{}, rl.Vector3{}
			continue
		}

		old := b.Velocity
		v := old
		if !b.IgnoreGravity {
			g := w.Gravity
			if b.onGround {
				// the support cancels the part of gravity pressing into it
				n := b.SupportNormal()
				if gn := rl.Vector3DotProduct(g, n); gn < 0 {
					g = rl.Vector3Subtract(g, rl.Vector3Scale(n, gn))
				}
			}
			v = rl.Vector3Add(v, rl.Vector3Scale(g, dt))
		}

		m := b.mass()
		v = rl.Vector3Add(v, rl.Vector3Scale(b.Force, dt/m))
		v = rl.Vector3Add(v, rl.Vector3Scale(b.Impulse, 1/m))
		if b.Drag > 0 {
			v = rl.Vector3Scale(v, math32.Max(0, 1-b.Drag*dt))
		}
		b.Force, b.Impulse = rl.Vector3{}, rl.Vector3{}

		if shape.HasNaN(v) {
			w.logger.Warn("velocity became NaN, stopping body", "id", b.id)
			v = rl.Vector3{}
		}
		b.Velocity = v

		// trapezoidal step between the old and new velocity
		w.move(b, rl.Vector3Scale(rl.Vector3Add(old, v), dt/2))
	}
}

func (w *World) move(b *Body, d rl.Vector3) {
	if rl.Vector3Length(d) < w.MinDisplacement {
		return
	}
	b.translate(d)
}

func (w *World) dispatchContacts() {
	var began, ended []Contact
	for k, c := range w.current {
		if _, ok := w.active[k]; !ok {
			began = append(began, c)
		}
	}
	for k, c := range w.active {
		if _, ok := w.current[k]; !ok {
			ended = append(ended, c)
		}
	}
	w.active, w.current = w.current, w.active
	clear(w.current)

	sortContacts(began)
	sortContacts(ended)
	for _, c := range began {
		w.ContactBegan.invoke(c)
	}
	for _, c := range ended {
		w.ContactEnded.invoke(c)
	}
}

// ActiveContacts returns the contacts of the last tick ordered by ids.
func (w *World) ActiveContacts() []Contact {
	out := make([]Contact, 0, len(w.active))
	for _, c := range w.active {
		out = append(out, c)
	}
	sortContacts(out)
	return out
}

func sortContacts(cs []Contact) {
	slices.SortFunc(cs, func(x, y Contact) int {
		if c := cmp.Compare(x.A.id, y.A.id); c != 0 {
			return c
		}
		return cmp.Compare(x.B.id, y.B.id)
	})
}
