package physics

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
	"math"

	"dungeon3d/internal/shape"
	"dungeon3d/internal/spatial"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

var ErrEmptyMesh = errors.New("physics: fine tree needs at least one triangle")

type meshTriangle struct {
	tri   *shape.Triangle
	index int
}

func (m *meshTriangle) Shape() shape.Shape { return m.tri }

// FineTree indexes a mesh's triangles in the owning body's local space.
// Bodies that share geometry share one FineTree; triangle transforms are
// set only for the duration of a test and then restored to identity.
type FineTree struct {
	key      string
	tris     []*meshTriangle
	tree     *spatial.Tree[*meshTriangle]
	min, max rl.Vector3
}

// NewFineTree builds a tree over tris.
func NewFineTree(tris [][3]rl.Vector3) (*FineTree, error) {
	if len(tris) == 0 {
		return nil, ErrEmptyMesh
	}
	min, max := BoundsOfTriangles(tris)
	size := rl.Vector3Subtract(max, min)
	half := math32.Max(size.X, math32.Max(size.Y, size.Z))/2*1.01 + 1e-3

	tree, err := spatial.New[*meshTriangle](spatial.Config{
		Center:      rl.Vector3Scale(rl.Vector3Add(min, max), 0.5),
		HalfSize:    half,
		MinHalfSize: math32.Max(half/64, 1e-3),
		MaxItems:    8,
		Axes:        shape.AllAxes,
	})
	if err != nil {
		return nil, fmt.Errorf("physics: fine tree: %w", err)
	}

	f := &FineTree{tree: tree, min: min, max: max}
	for i, t := range tris {
		mt := &meshTriangle{tri: shape.NewTriangle(t[0], t[1], t[2]), index: i}
		f.tris = append(f.tris, mt)
		tree.Insert(mt)
	}
	return f, nil
}

func (f *FineTree) Key() string { return f.key }
func (f *FineTree) Len() int    { return len(f.tris) }

// Bounds returns the local extent of the triangles.
func (f *FineTree) Bounds() (rl.Vector3, rl.Vector3) { return f.min, f.max }

// Triangle returns the i-th triangle in insertion order.
func (f *FineTree) Triangle(i int) *shape.Triangle { return f.tris[i].tri }

func (f *FineTree) Stats() spatial.Stats { return f.tree.Stats() }

// contacts appends the manifold of probe against every triangle near
// local, where local is probe expressed in the tree's space and world
// places the triangles next to probe.
func (f *FineTree) contacts(dst []shape.Contact, probe, local shape.Shape, world rl.Matrix) []shape.Contact {
	identity := rl.MatrixIdentity()
	f.tree.QueryFunc(func(m *meshTriangle) bool {
		m.tri.SetTransform(world)
		dst = shape.TrianglePenetration(dst, probe, m.tri)
		m.tri.SetTransform(identity)
		return true
	}, local)
	return dst
}

// raycast casts a local-space ray and returns the nearest triangle hit
// parameter, or +Inf.
func (f *FineTree) raycast(origin, dir rl.Vector3, maxDistance float32) float32 {
	ray := shape.NewRay(origin, dir, maxDistance)
	best := math32.Inf(1)
	for _, m := range f.tree.RayQuery(ray, maxDistance) {
		if d := m.tri.Raycast(ray.Origin(), ray.Direction()); !math32.IsInf(d, 1) && d <= maxDistance && d < best {
			best = d
		}
	}
	return best
}

// meshKey derives a cache key from the triangle coordinates.
func meshKey(tris [][3]rl.Vector3) string {
	h := fnv.New64a()
	var buf [4]byte
	for _, t := range tris {
		for _, v := range t {
			for _, c := range [3]float32{v.X, v.Y, v.Z} {
				binary.LittleEndian.PutUint32(buf[:], math.Float32bits(c))
				h.Write(buf[:])
			}
		}
	}
	return fmt.Sprintf("mesh:%d:%016x", len(tris), h.Sum64())
}
