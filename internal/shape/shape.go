// Package shape holds the convex primitives used for collision and the
// separating-axis routines that operate on them.
package shape

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Kind identifies a shape variant.
type Kind uint8

const (
	KindOBB Kind = iota
	KindVolume
	KindFrustum
	KindRay
	KindTriangle
)

func (k Kind) String() string {
	switch k {
	case KindOBB:
		return "obb"
	case KindVolume:
		return "volume"
	case KindFrustum:
		return "frustum"
	case KindRay:
		return "ray"
	case KindTriangle:
		return "triangle"
	}
	return "unknown"
}

// Shape is a convex primitive placed in world space by a transform matrix.
// Derived data (world vertices, normals, edges, bounds) is rebuilt lazily
// after the transform changes.
type Shape interface {
	Kind() Kind
	SetTransform(m rl.Matrix)
	Transform() rl.Matrix
	Center() rl.Vector3
	Vertices() []rl.Vector3
	// Normals returns the face normals used as candidate separating axes.
	Normals() []rl.Vector3
	// Edges returns unit edge directions. Parallel edges appear once.
	Edges() []rl.Vector3
	// Project returns the interval covered by the shape along axis.
	Project(axis rl.Vector3) (min, max float32)
	// Bounds returns the world-space axis-aligned extent.
	Bounds() (min, max rl.Vector3)
	// Raycast returns the ray parameter of the first hit, or +Inf.
	// When dir is unit length the parameter is a distance.
	Raycast(origin, dir rl.Vector3) float32
}

// Axes is a bit mask over the world X, Y and Z axes.
type Axes uint8

const (
	AxisX Axes = 1 << iota
	AxisY
	AxisZ

	AllAxes = AxisX | AxisY | AxisZ
)

// Has reports whether axis i (0=X, 1=Y, 2=Z) is enabled.
func (a Axes) Has(i int) bool {
	return a&(1<<uint(i)) != 0
}

// Count returns the number of enabled axes.
func (a Axes) Count() int {
	n := 0
	for i := 0; i < 3; i++ {
		if a.Has(i) {
			n++
		}
	}
	return n
}

// ParseAxes reads a mask such as "xyz" or "xz". Unknown letters are ignored.
func ParseAxes(s string) Axes {
	var a Axes
	for _, r := range s {
		switch r {
		case 'x', 'X':
			a |= AxisX
		case 'y', 'Y':
			a |= AxisY
		case 'z', 'Z':
			a |= AxisZ
		}
	}
	return a
}

func (a Axes) String() string {
	s := ""
	if a.Has(0) {
		s += "x"
	}
	if a.Has(1) {
		s += "y"
	}
	if a.Has(2) {
		s += "z"
	}
	return s
}

// component returns the i-th coordinate of v.
func component(v rl.Vector3, i int) float32 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	}
	return v.Z
}

func setComponent(v *rl.Vector3, i int, f float32) {
	switch i {
	case 0:
		v.X = f
	case 1:
		v.Y = f
	default:
		v.Z = f
	}
}

func vmin(a, b rl.Vector3) rl.Vector3 {
	return rl.Vector3{X: math32.Min(a.X, b.X), Y: math32.Min(a.Y, b.Y), Z: math32.Min(a.Z, b.Z)}
}

func vmax(a, b rl.Vector3) rl.Vector3 {
	return rl.Vector3{X: math32.Max(a.X, b.X), Y: math32.Max(a.Y, b.Y), Z: math32.Max(a.Z, b.Z)}
}

// HasNaN reports whether any coordinate of v is NaN.
func HasNaN(v rl.Vector3) bool {
	return math32.IsNaN(v.X) || math32.IsNaN(v.Y) || math32.IsNaN(v.Z)
}

// TransformDirection applies only the linear part of m to d.
func TransformDirection(d rl.Vector3, m rl.Matrix) rl.Vector3 {
	return rl.Vector3{
		X: m.M0*d.X + m.M4*d.Y + m.M8*d.Z,
		Y: m.M1*d.X + m.M5*d.Y + m.M9*d.Z,
		Z: m.M2*d.X + m.M6*d.Y + m.M10*d.Z,
	}
}

// transformProjective applies m to p and divides by the resulting w.
func transformProjective(p rl.Vector3, m rl.Matrix) rl.Vector3 {
	x := m.M0*p.X + m.M4*p.Y + m.M8*p.Z + m.M12
	y := m.M1*p.X + m.M5*p.Y + m.M9*p.Z + m.M13
	z := m.M2*p.X + m.M6*p.Y + m.M10*p.Z + m.M14
	w := m.M3*p.X + m.M7*p.Y + m.M11*p.Z + m.M15
	if w != 0 && w != 1 {
		x, y, z = x/w, y/w, z/w
	}
	return rl.Vector3{X: x, Y: y, Z: z}
}

// Overlaps reports whether two axis-aligned boxes intersect. Touching counts.
func Overlaps(aMin, aMax, bMin, bMax rl.Vector3) bool {
	return aMin.X <= bMax.X && aMax.X >= bMin.X &&
		aMin.Y <= bMax.Y && aMax.Y >= bMin.Y &&
		aMin.Z <= bMax.Z && aMax.Z >= bMin.Z
}

// RaycastAABB slab-tests an axis-aligned box and returns the entry
// parameter, 0 when the origin is inside, or +Inf on a miss.
func RaycastAABB(min, max, origin, dir rl.Vector3) float32 {
	return raycastSlabs(min, max, origin, dir, AllAxes)
}

func raycastSlabs(min, max, origin, dir rl.Vector3, axes Axes) float32 {
	tmin := float32(-math32.MaxFloat32)
	tmax := float32(math32.MaxFloat32)
	for i := 0; i < 3; i++ {
		if !axes.Has(i) {
			continue
		}
		o, d := component(origin, i), component(dir, i)
		lo, hi := component(min, i), component(max, i)
		if d == 0 {
			if o < lo || o > hi {
				return math32.Inf(1)
			}
			continue
		}
		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return math32.Inf(1)
		}
	}
	if tmax < 0 {
		return math32.Inf(1)
	}
	if tmin < 0 {
		return 0
	}
	return tmin
}
