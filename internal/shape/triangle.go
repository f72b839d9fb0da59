package shape

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Triangle is a single mesh face. Its transform is normally identity and
// is only set while the triangle is tested against world-space shapes.
type Triangle struct {
	poly
}

// NewTriangle creates a triangle from three local-space points.
func NewTriangle(a, b, c rl.Vector3) *Triangle {
	return &Triangle{
		poly: newPoly(
			[]rl.Vector3{a, b, c},
			[][3]int{{0, 1, 2}},
			[][2]int{{0, 1}, {1, 2}, {2, 0}},
		),
	}
}

func (t *Triangle) Kind() Kind { return KindTriangle }

// Normal returns the unit face normal, or zero for a degenerate triangle.
func (t *Triangle) Normal() rl.Vector3 {
	if n := t.Normals(); len(n) > 0 {
		return n[0]
	}
	return rl.Vector3{}
}

// Points returns the untransformed corners.
func (t *Triangle) Points() [3]rl.Vector3 {
	return [3]rl.Vector3{t.local[0], t.local[1], t.local[2]}
}

// Raycast is a two-sided Möller-Trumbore test.
func (t *Triangle) Raycast(origin, dir rl.Vector3) float32 {
	v := t.Vertices()
	e1 := rl.Vector3Subtract(v[1], v[0])
	e2 := rl.Vector3Subtract(v[2], v[0])

	p := rl.Vector3CrossProduct(dir, e2)
	det := rl.Vector3DotProduct(e1, p)
	if math32.Abs(det) < 1e-8 {
		return math32.Inf(1)
	}
	inv := 1 / det

	s := rl.Vector3Subtract(origin, v[0])
	u := rl.Vector3DotProduct(s, p) * inv
	if u < 0 || u > 1 {
		return math32.Inf(1)
	}

	q := rl.Vector3CrossProduct(s, e1)
	w := rl.Vector3DotProduct(dir, q) * inv
	if w < 0 || u+w > 1 {
		return math32.Inf(1)
	}

	d := rl.Vector3DotProduct(e2, q) * inv
	if d < 0 {
		return math32.Inf(1)
	}
	return d
}
