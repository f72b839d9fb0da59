package shape

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Ray is a half-line, or a segment when Length is finite. As a Shape it
// behaves like the segment from Origin to Origin+Direction*Length.
type Ray struct {
	localOrigin rl.Vector3
	localDir    rl.Vector3
	localLength float32
	transform   rl.Matrix

	origin rl.Vector3
	dir    rl.Vector3
	length float32
	edges  []rl.Vector3
	verts  []rl.Vector3
}

// NewRay creates a ray. direction is normalized; a non-positive length means unbounded.
func NewRay(origin, direction rl.Vector3, length float32) *Ray {
	if length <= 0 {
		length = math32.Inf(1)
	}
	r := &Ray{
		localOrigin: origin,
		localDir:    rl.Vector3Normalize(direction),
		localLength: length,
		transform:   rl.MatrixIdentity(),
		edges:       make([]rl.Vector3, 1),
		verts:       make([]rl.Vector3, 2),
	}
	r.apply()
	return r
}

func (r *Ray) Kind() Kind { return KindRay }

func (r *Ray) SetTransform(m rl.Matrix) {
	r.transform = m
	r.apply()
}

func (r *Ray) apply() {
	r.origin = rl.Vector3Transform(r.localOrigin, r.transform)
	d := TransformDirection(r.localDir, r.transform)
	scale := rl.Vector3Length(d)
	if scale > axisEpsilon {
		d = rl.Vector3Scale(d, 1/scale)
	} else {
		scale = 1
	}
	r.dir = d
	r.length = r.localLength * scale
	r.edges[0] = d
	r.verts[0] = r.origin
	r.verts[1] = r.End()
}

func (r *Ray) Transform() rl.Matrix   { return r.transform }
func (r *Ray) Origin() rl.Vector3     { return r.origin }
func (r *Ray) Direction() rl.Vector3  { return r.dir }
func (r *Ray) Length() float32        { return r.length }
func (r *Ray) Normals() []rl.Vector3  { return nil }
func (r *Ray) Edges() []rl.Vector3    { return r.edges }
func (r *Ray) Vertices() []rl.Vector3 { return r.verts }

// End returns the far point, clamped to a finite coordinate for unbounded rays.
func (r *Ray) End() rl.Vector3 {
	l := r.length
	if math32.IsInf(l, 1) {
		l = math32.MaxFloat32 / 4
	}
	return rl.Vector3Add(r.origin, rl.Vector3Scale(r.dir, l))
}

// At returns the point at parameter t.
func (r *Ray) At(t float32) rl.Vector3 {
	return rl.Vector3Add(r.origin, rl.Vector3Scale(r.dir, t))
}

func (r *Ray) Center() rl.Vector3 {
	if math32.IsInf(r.length, 1) {
		return r.origin
	}
	return r.At(r.length / 2)
}

func (r *Ray) Project(axis rl.Vector3) (float32, float32) {
	o := rl.Vector3DotProduct(r.origin, axis)
	d := rl.Vector3DotProduct(r.dir, axis)
	if math32.IsInf(r.length, 1) {
		switch {
		case d > axisEpsilon:
			return o, math32.Inf(1)
		case d < -axisEpsilon:
			return math32.Inf(-1), o
		}
		return o, o
	}
	e := o + d*r.length
	if e < o {
		return e, o
	}
	return o, e
}

func (r *Ray) Bounds() (rl.Vector3, rl.Vector3) {
	lo, hi := r.origin, r.origin
	for i := 0; i < 3; i++ {
		a, b := r.Project(worldAxes[i])
		setComponent(&lo, i, a)
		setComponent(&hi, i, b)
	}
	return lo, hi
}

// Raycast between two rays is undefined; rays never hit each other.
func (r *Ray) Raycast(origin, dir rl.Vector3) float32 {
	return math32.Inf(1)
}
