package shape

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// NoImpact is returned by SweptOverlap when no contact occurs in the window.
const NoImpact float32 = -1

// Contact is one separating axis of a penetration manifold. Axis is a unit
// vector pointing the way the first shape must move to separate, and Depth
// is the overlap along it.
type Contact struct {
	Axis  rl.Vector3
	Depth float32
}

// separatingAxes gathers both shapes' face normals and the normalized cross
// products of their edges. Near-parallel edge pairs are skipped.
func separatingAxes(a, b Shape, buf []rl.Vector3) []rl.Vector3 {
	buf = append(buf, a.Normals()...)
	buf = append(buf, b.Normals()...)
	for _, ea := range a.Edges() {
		for _, eb := range b.Edges() {
			c := rl.Vector3CrossProduct(ea, eb)
			if l := rl.Vector3Length(c); l > 1e-4 {
				buf = append(buf, rl.Vector3Scale(c, 1/l))
			}
		}
	}
	return buf
}

// Overlap reports whether a and b intersect. Touching shapes overlap.
func Overlap(a, b Shape) bool {
	aMin, aMax := a.Bounds()
	bMin, bMax := b.Bounds()
	if !Overlaps(aMin, aMax, bMin, bMax) {
		return false
	}

	var buf [32]rl.Vector3
	for _, axis := range separatingAxes(a, b, buf[:0]) {
		a0, a1 := a.Project(axis)
		b0, b1 := b.Project(axis)
		if a1 < b0 || b1 < a0 {
			return false
		}
	}
	return true
}

// OverlapAny reports whether a overlaps any of shapes.
func OverlapAny(a Shape, shapes ...Shape) bool {
	for _, s := range shapes {
		if Overlap(a, s) {
			return true
		}
	}
	return false
}

// Penetration returns the minimum-depth separating axis of two overlapping
// convex shapes, or nil when they do not overlap. The axis points the way
// a must move.
func Penetration(a, b Shape) []Contact {
	c, ok := penetration(a, b)
	if !ok {
		return nil
	}
	return []Contact{c}
}

// PenetrationAll appends one contact for every shape in bs that a
// penetrates. Used for meshes, where each triangle yields its own axis.
func PenetrationAll(dst []Contact, a Shape, bs ...Shape) []Contact {
	for _, b := range bs {
		if c, ok := penetration(a, b); ok {
			dst = append(dst, c)
		}
	}
	return dst
}

// TrianglePenetration appends one contact per triangle that a overlaps,
// always along the triangle's face normal turned toward a's center.
// Seams between neighboring triangles therefore never push sideways.
func TrianglePenetration(dst []Contact, a Shape, tris ...*Triangle) []Contact {
	c := a.Center()
	for _, t := range tris {
		n := t.Normal()
		if n == (rl.Vector3{}) || !Overlap(a, t) {
			continue
		}
		v0 := t.Vertices()[0]
		if rl.Vector3DotProduct(rl.Vector3Subtract(c, v0), n) < 0 {
			n = rl.Vector3Negate(n)
		}
		lo, _ := a.Project(n)
		depth := rl.Vector3DotProduct(v0, n) - lo
		if depth <= 0 {
			continue
		}
		dst = append(dst, Contact{Axis: n, Depth: depth})
	}
	return dst
}

func penetration(a, b Shape) (Contact, bool) {
	var buf [32]rl.Vector3
	best := Contact{Depth: math32.MaxFloat32}
	found := false

	for _, axis := range separatingAxes(a, b, buf[:0]) {
		a0, a1 := a.Project(axis)
		b0, b1 := b.Project(axis)
		if a1 < b0 || b1 < a0 {
			return Contact{}, false
		}
		if math32.IsInf(a0, 0) || math32.IsInf(a1, 0) || math32.IsInf(b0, 0) || math32.IsInf(b1, 0) {
			continue
		}

		// a can leave towards -axis by down, or towards +axis by up.
		down := a1 - b0
		up := b1 - a0
		depth, dir := up, axis
		if down < up {
			depth, dir = down, rl.Vector3Negate(axis)
		}
		if depth < best.Depth {
			best = Contact{Axis: dir, Depth: depth}
			found = true
		}
	}
	return best, found
}

// RayCast returns the nearest hit parameter of ray against shapes, limited
// to maxDistance and the ray's own length, or +Inf on a miss.
func RayCast(ray *Ray, maxDistance float32, shapes ...Shape) float32 {
	limit := math32.Min(maxDistance, ray.Length())
	if limit <= 0 {
		limit = ray.Length()
	}
	best := math32.Inf(1)
	for _, s := range shapes {
		d := s.Raycast(ray.Origin(), ray.Direction())
		if !math32.IsInf(d, 1) && d <= limit && d < best {
			best = d
		}
	}
	return best
}

// SweptOverlap moves a with velA and every b with velB and returns the
// earliest time in [0, maxTime] at which a touches any b, or NoImpact.
// Shapes already overlapping report 0.
func SweptOverlap(a Shape, velA rl.Vector3, bs []Shape, velB rl.Vector3, maxTime float32) float32 {
	rel := rl.Vector3Subtract(velA, velB)
	best := NoImpact
	for _, b := range bs {
		t := sweep(a, b, rel, maxTime)
		if t == NoImpact {
			continue
		}
		if best == NoImpact || t < best {
			best = t
		}
	}
	return best
}

func sweep(a, b Shape, v rl.Vector3, maxTime float32) float32 {
	var buf [32]rl.Vector3
	first := float32(0)
	last := maxTime

	for _, axis := range separatingAxes(a, b, buf[:0]) {
		a0, a1 := a.Project(axis)
		b0, b1 := b.Project(axis)
		s := rl.Vector3DotProduct(v, axis)
		infinite := math32.IsInf(a0, 0) || math32.IsInf(a1, 0) || math32.IsInf(b0, 0) || math32.IsInf(b1, 0)

		var enter, exit float32
		switch {
		case a1 < b0:
			if s <= 0 {
				return NoImpact
			}
			enter = (b0 - a1) / s
			exit = (b1 - a0) / s
		case a0 > b1:
			if s >= 0 {
				return NoImpact
			}
			enter = (b1 - a0) / s
			exit = (b0 - a1) / s
		default:
			if infinite {
				continue
			}
			enter = 0
			switch {
			case s > 0:
				exit = (b1 - a0) / s
			case s < 0:
				exit = (b0 - a1) / s
			default:
				exit = math32.MaxFloat32
			}
		}

		if enter > first {
			first = enter
		}
		if exit < last {
			last = exit
		}
		if first > last {
			return NoImpact
		}
	}
	return first
}
