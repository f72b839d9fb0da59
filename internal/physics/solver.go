package physics

import (
	"dungeon3d/internal/shape"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	DefaultSkinWidth       = 0.02
	DefaultGroundThreshold = 0.4
)

// Solver turns a penetration manifold into positional correction and
// velocity exchange between two bodies.
type Solver struct {
	// SkinWidth is the penetration left in place so resting contacts persist.
	SkinWidth float32
	// GroundThreshold is the minimum vertical component of a contact axis
	// that counts as standing on something.
	GroundThreshold float32
}

func DefaultSolver() Solver {
	return Solver{SkinWidth: DefaultSkinWidth, GroundThreshold: DefaultGroundThreshold}
}

// MTV folds a manifold into one translation for the first body: the
// normalized sum of skin-reduced axes, scaled to the deepest reduced depth.
func (s Solver) MTV(manifold []shape.Contact) rl.Vector3 {
	var sum rl.Vector3
	deepest := float32(0)
	for _, c := range manifold {
		d := c.Depth - s.SkinWidth
		if d <= 0 {
			continue
		}
		sum = rl.Vector3Add(sum, rl.Vector3Scale(c.Axis, d))
		if d > deepest {
			deepest = d
		}
	}
	l := rl.Vector3Length(sum)
	if deepest == 0 || l < 1e-6 {
		return rl.Vector3{}
	}
	return rl.Vector3Scale(sum, deepest/l)
}

// Resolve applies the manifold of a against b. Contact axes point the way
// a must move.
func (s Solver) Resolve(a, b *Body, manifold []shape.Contact) {
	if len(manifold) == 0 {
		return
	}

	for _, c := range manifold {
		if c.Axis.Y > s.GroundThreshold {
			a.markGround(c.Axis)
		}
		if c.Axis.Y < -s.GroundThreshold {
			b.markGround(rl.Vector3Negate(c.Axis))
		}
	}

	mtv := s.MTV(manifold)
	aFixed, bFixed := a.fixed(), b.fixed()
	if aFixed && bFixed {
		return
	}

	for _, c := range manifold {
		s.exchange(a, b, c.Axis, aFixed, bFixed)
	}

	if mtv == (rl.Vector3{}) {
		return
	}
	switch {
	case aFixed:
		b.translate(rl.Vector3Negate(mtv))
	case bFixed:
		a.translate(mtv)
	default:
		ma, mb := a.mass(), b.mass()
		total := ma + mb
		a.translate(rl.Vector3Scale(mtv, mb/total))
		b.translate(rl.Vector3Scale(mtv, -ma/total))
	}
}

// exchange applies restitution and friction along one axis while the
// bodies are closing on it.
func (s Solver) exchange(a, b *Body, n rl.Vector3, aFixed, bFixed bool) {
	rel := rl.Vector3Subtract(a.Velocity, b.Velocity)
	closing := rl.Vector3DotProduct(rel, n)
	if closing >= 0 {
		return
	}

	tangent := rl.Vector3Subtract(rel, rl.Vector3Scale(n, closing))
	slide := rl.Vector3Length(tangent)
	if slide > 1e-6 {
		tangent = rl.Vector3Scale(tangent, 1/slide)
	} else {
		tangent, slide = rl.Vector3{}, 0
	}

	e := math32.Max(a.Restitution, b.Restitution)
	mu := math32.Min(a.Friction, b.Friction)

	switch {
	case !aFixed && !bFixed:
		ua := rl.Vector3DotProduct(a.Velocity, n)
		ub := rl.Vector3DotProduct(b.Velocity, n)
		ma, mb := a.mass(), b.mass()
		total := ma + mb
		momentum := ma*ua + mb*ub
		va := (momentum + mb*e*(ub-ua)) / total
		vb := (momentum + ma*e*(ua-ub)) / total

		dA, dB := va-ua, vb-ub
		a.Velocity = rl.Vector3Add(a.Velocity, rl.Vector3Scale(n, dA))
		b.Velocity = rl.Vector3Add(b.Velocity, rl.Vector3Scale(n, dB))

		// friction can stop the slide but never reverse it
		fa := math32.Min(math32.Min(mu, mu*math32.Abs(dA)), slide*mb/total)
		fb := math32.Min(math32.Min(mu, mu*math32.Abs(dB)), slide*ma/total)
		a.Velocity = rl.Vector3Subtract(a.Velocity, rl.Vector3Scale(tangent, fa))
		b.Velocity = rl.Vector3Add(b.Velocity, rl.Vector3Scale(tangent, fb))

	case bFixed:
		dv := (1 + e) * -closing
		a.Velocity = rl.Vector3Add(a.Velocity, rl.Vector3Scale(n, dv))
		f := math32.Min(math32.Min(mu, mu*dv), slide)
		a.Velocity = rl.Vector3Subtract(a.Velocity, rl.Vector3Scale(tangent, f))

	case aFixed:
		dv := (1 + e) * -closing
		b.Velocity = rl.Vector3Subtract(b.Velocity, rl.Vector3Scale(n, dv))
		f := math32.Min(math32.Min(mu, mu*dv), slide)
		b.Velocity = rl.Vector3Add(b.Velocity, rl.Vector3Scale(tangent, f))
	}
}
