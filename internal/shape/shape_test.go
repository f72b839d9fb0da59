package shape

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestOBBTransformUpdatesBounds(t *testing.T) {
	box := NewOBB(rl.Vector3{X: -1, Y: -1, Z: -1}, rl.Vector3{X: 1, Y: 1, Z: 1})
	box.SetTransform(rl.MatrixTranslate(10, 0, 0))

	min, max := box.Bounds()
	if !approx(min.X, 9) || !approx(max.X, 11) {
		t.Errorf("Expected X bounds 9..11, got %f..%f", min.X, max.X)
	}
	if c := box.Center(); !approx(c.X, 10) {
		t.Errorf("Expected center at 10, got %f", c.X)
	}

	box.SetTransform(rl.MatrixScale(2, 1, 1))
	if h := box.HalfExtents(); !approx(h.X, 2) || !approx(h.Y, 1) {
		t.Errorf("Expected scaled half extents (2,1), got %v", h)
	}
}

func TestOBBSetMinMaxReorders(t *testing.T) {
	box := NewOBB(rl.Vector3{X: 1, Y: 1, Z: 1}, rl.Vector3{X: -1, Y: -1, Z: -1})
	lo, hi := box.LocalMinMax()
	if lo.X != -1 || hi.X != 1 {
		t.Errorf("Expected reordered extent, got %v %v", lo, hi)
	}
}

func TestFlatBoxKeepsAllAxes(t *testing.T) {
	plane := NewOBB(rl.Vector3{X: -5, Z: -5}, rl.Vector3{X: 5, Z: 5})
	if n := len(plane.Normals()); n != 3 {
		t.Fatalf("Expected 3 axes for a flat box, got %d", n)
	}
	box := NewBox(rl.Vector3{Y: 0.25}, rl.Vector3{X: 1, Y: 1, Z: 1})
	if !Overlap(plane, box) {
		t.Error("Expected box crossing the plane to overlap")
	}
}

func TestOBBClosestPoint(t *testing.T) {
	box := NewBox(rl.Vector3{}, rl.Vector3{X: 2, Y: 2, Z: 2})
	p := box.ClosestPoint(rl.Vector3{X: 5, Y: 0.5})
	if !approx(p.X, 1) || !approx(p.Y, 0.5) {
		t.Errorf("Expected (1, 0.5, 0), got %v", p)
	}
}

func TestTriangleNormal(t *testing.T) {
	tri := NewTriangle(rl.Vector3{}, rl.Vector3{Z: 1}, rl.Vector3{X: 1})
	if n := tri.Normal(); !approx(n.Y, 1) {
		t.Errorf("Expected +Y normal, got %v", n)
	}

	degenerate := NewTriangle(rl.Vector3{}, rl.Vector3{X: 1}, rl.Vector3{X: 2})
	if n := degenerate.Normal(); n != (rl.Vector3{}) {
		t.Errorf("Expected zero normal for a degenerate triangle, got %v", n)
	}
}

func TestRayTransform(t *testing.T) {
	r := NewRay(rl.Vector3{}, rl.Vector3{X: 1}, 2)
	r.SetTransform(rl.MatrixMultiply(rl.MatrixScale(3, 3, 3), rl.MatrixTranslate(0, 1, 0)))

	if o := r.Origin(); !approx(o.Y, 1) {
		t.Errorf("Expected origin moved up, got %v", o)
	}
	if !approx(r.Length(), 6) {
		t.Errorf("Expected scaled length 6, got %f", r.Length())
	}
	if d := r.Direction(); !approx(d.X, 1) {
		t.Errorf("Expected unit direction, got %v", d)
	}
}

func TestVolumeFromBounds(t *testing.T) {
	v := VolumeFromBounds(rl.Vector3{X: -1, Y: 0, Z: -1}, rl.Vector3{X: 1, Y: 4, Z: 1})
	if c := v.Center(); !approx(c.Y, 2) {
		t.Errorf("Expected center y 2, got %v", c)
	}
	if !v.Contains(rl.Vector3{Y: 1}, rl.Vector3{Y: 3}) {
		t.Error("Expected inner box to be contained")
	}
	if v.Contains(rl.Vector3{Y: 1}, rl.Vector3{Y: 5}) {
		t.Error("Expected tall box to stick out")
	}
}
