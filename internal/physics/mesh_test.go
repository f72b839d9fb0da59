package physics

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestTrianglesFromIndexedMesh(t *testing.T) {
	verts := []float32{0, 0, 0, 1, 0, 0, 0, 1, 0, 1, 1, 0}
	idx := []uint16{0, 1, 2, 1, 3, 2}
	mesh := rl.Mesh{
		VertexCount:   4,
		TriangleCount: 2,
		Vertices:      &verts[0],
		Indices:       &idx[0],
	}

	tris := TrianglesFromMesh(mesh, rl.MatrixTranslate(0, 0, 5))
	if len(tris) != 2 {
		t.Fatalf("Expected 2 triangles, got %d", len(tris))
	}
	if tris[1][1] != (rl.Vector3{X: 1, Y: 1, Z: 5}) {
		t.Errorf("Expected translated vertex (1, 1, 5), got %v", tris[1][1])
	}
}

func TestTrianglesFromUnindexedMesh(t *testing.T) {
	verts := []float32{0, 0, 0, 1, 0, 0, 0, 1, 0, 5, 5, 5}
	mesh := rl.Mesh{VertexCount: 4, Vertices: &verts[0]}

	tris := TrianglesFromMesh(mesh, rl.MatrixIdentity())
	if len(tris) != 1 {
		t.Fatalf("Expected the trailing vertex to be ignored, got %d triangles", len(tris))
	}
	if TrianglesFromMesh(rl.Mesh{}, rl.MatrixIdentity()) != nil {
		t.Error("Expected no triangles from an empty mesh")
	}
}

func TestBoxTrianglesBounds(t *testing.T) {
	min, max := rl.Vector3{X: -1, Y: -2, Z: -3}, rl.Vector3{X: 1, Y: 2, Z: 3}
	tris := BoxTriangles(min, max)
	if len(tris) != 12 {
		t.Fatalf("Expected 12 triangles, got %d", len(tris))
	}
	lo, hi := BoundsOfTriangles(tris)
	if lo != min || hi != max {
		t.Errorf("Expected bounds %v %v, got %v %v", min, max, lo, hi)
	}
}

func TestFineTreeCacheShared(t *testing.T) {
	w := NewDefaultWorld()
	tris := BoxTriangles(rl.Vector3{X: -1, Y: -1, Z: -1}, rl.Vector3{X: 1, Y: 1, Z: 1})

	a := w.CreateBody(nil)
	b := w.CreateBody(nil)
	if err := a.SetupFineTreeFromTriangles(tris, ""); err != nil {
		t.Fatal(err)
	}
	copied := append([][3]rl.Vector3(nil), tris...)
	if err := b.SetupFineTreeFromTriangles(copied, ""); err != nil {
		t.Fatal(err)
	}
	if a.FineTree() != b.FineTree() {
		t.Error("Expected identical geometry to share one fine tree")
	}

	c := w.CreateBody(nil)
	d := w.CreateBody(nil)
	c.SetupFineTreeFromTriangles(tris, "crate")
	d.SetupFineTreeFromTriangles(tris[:2], "crate")
	if c.FineTree() != d.FineTree() || c.FineTree().Key() != "crate" {
		t.Error("Expected bodies with one key to share a tree")
	}
	if c.FineTree() == a.FineTree() {
		t.Error("Keyed and hashed trees should be distinct")
	}

	if err := w.CreateBody(nil).SetupFineTreeFromTriangles(nil, ""); !errors.Is(err, ErrEmptyMesh) {
		t.Errorf("Expected ErrEmptyMesh, got %v", err)
	}
}

func TestBoxSettlesOnMeshFloor(t *testing.T) {
	w := NewDefaultWorld()
	floor := w.CreateBody(nil)
	floor.Static = true
	err := floor.SetupFineTreeFromTriangles(
		BoxTriangles(rl.Vector3{X: -10, Y: -1, Z: -10}, rl.Vector3{X: 10, Z: 10}), "floor")
	if err != nil {
		t.Fatal(err)
	}
	box := w.CreateBox(rl.Vector3{X: 0.3, Y: 3, Z: -0.2}, rl.Vector3{X: 1, Y: 1, Z: 1}, false)

	run(w, 240)

	if !box.OnGround() {
		t.Error("Expected box to rest on the mesh")
	}
	if y := box.Position().Y; y < 0.45 || y > 0.5 {
		t.Errorf("Expected box center near 0.5, got %f", y)
	}
	// the diagonal seam of the top face must not push the box sideways
	if p := box.Position(); !close32(p.X, 0.3, 1e-4) || !close32(p.Z, -0.2, 1e-4) {
		t.Errorf("Expected no horizontal drift, got %v", p)
	}
}

func TestRaycast(t *testing.T) {
	w := NewDefaultWorld()
	near := w.CreateBox(rl.Vector3{Z: -10}, rl.Vector3{X: 2, Y: 2, Z: 2}, true)
	far := w.CreateBox(rl.Vector3{Z: -20}, rl.Vector3{X: 2, Y: 2, Z: 2}, true)
	w.UpdateBounds()

	hit, ok := w.Raycast(rl.Vector3{}, rl.Vector3{Z: -3}, 100)
	if !ok || hit.Body != near {
		t.Fatalf("Expected to hit the near box, got %+v", hit)
	}
	if !close32(hit.Distance, 9, 1e-4) || !close32(hit.Point.Z, -9, 1e-4) {
		t.Errorf("Expected hit at distance 9, got %f", hit.Distance)
	}

	hit, ok = w.RaycastFiltered(rl.Vector3{}, rl.Vector3{Z: -1}, 100, func(b *Body) bool { return b != near })
	if !ok || hit.Body != far || !close32(hit.Distance, 19, 1e-4) {
		t.Errorf("Expected filter to reach the far box at 19, got %+v", hit)
	}

	near.Collidable = false
	hit, ok = w.RaycastFiltered(rl.Vector3{}, rl.Vector3{Z: -1}, 100, CollidableOnly)
	if !ok || hit.Body != far {
		t.Errorf("Expected collidable-only cast to skip the near box, got %+v", hit)
	}

	if _, ok := w.Raycast(rl.Vector3{}, rl.Vector3{Z: -1}, 5); ok {
		t.Error("Expected nothing within 5 units")
	}
	if _, ok := w.Raycast(rl.Vector3{}, rl.Vector3{Z: 1}, 100); ok {
		t.Error("Expected nothing behind the origin")
	}
	if _, ok := w.Raycast(rl.Vector3{}, rl.Vector3{}, 100); ok {
		t.Error("Expected a zero direction to miss")
	}
}

func TestRaycastUsesTriangles(t *testing.T) {
	w := NewDefaultWorld()
	ramp := w.CreateBody(nil)
	ramp.Static = true
	ramp.SetPosition(rl.Vector3{Z: -5})
	tri := [][3]rl.Vector3{{{}, {X: 4}, {Y: 4}}}
	if err := ramp.SetupFineTreeFromTriangles(tri, ""); err != nil {
		t.Fatal(err)
	}
	w.UpdateBounds()

	// inside the bounding box but outside the triangle
	if _, ok := w.Raycast(rl.Vector3{X: 3, Y: 3, Z: 5}, rl.Vector3{Z: -1}, 100); ok {
		t.Error("Expected the ray to pass beside the triangle")
	}

	hit, ok := w.Raycast(rl.Vector3{X: 1, Y: 1, Z: 5}, rl.Vector3{Z: -1}, 100)
	if !ok || hit.Body != ramp {
		t.Fatal("Expected to hit the triangle")
	}
	if !close32(hit.Distance, 10, 1e-4) {
		t.Errorf("Expected distance 10, got %f", hit.Distance)
	}
}

func TestRaycastUnboundedDistance(t *testing.T) {
	w := NewDefaultWorld()
	box := w.CreateBox(rl.Vector3{X: 10, Y: 10}, rl.Vector3{X: 1, Y: 1, Z: 1}, true)
	ramp := w.CreateBody(nil)
	ramp.Static = true
	ramp.SetPosition(rl.Vector3{X: -10})
	if err := ramp.SetupFineTreeFromTriangles([][3]rl.Vector3{{{}, {X: 4}, {Y: 4}}}, ""); err != nil {
		t.Fatal(err)
	}
	w.UpdateBounds()

	if hit, ok := w.Raycast(rl.Vector3{}, rl.Vector3{Z: 1}, math32.Inf(1)); ok {
		t.Errorf("Expected a miss with no distance limit, got %+v", hit)
	}
	// through the ramp's bounds but beside its triangle
	if hit, ok := w.Raycast(rl.Vector3{X: -7, Y: 3, Z: 5}, rl.Vector3{Z: -1}, math32.Inf(1)); ok {
		t.Errorf("Expected to pass beside the triangle, got %+v", hit)
	}

	hit, ok := w.Raycast(rl.Vector3{X: 10}, rl.Vector3{Y: 1}, math32.Inf(1))
	if !ok || hit.Body != box || !close32(hit.Distance, 9.5, 1e-4) {
		t.Errorf("Expected to hit the box at 9.5, got %+v", hit)
	}
}
