package physics

import (
	"testing"

	"dungeon3d/internal/shape"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

func close32(a, b, tol float32) bool {
	return math32.Abs(a-b) <= tol
}

func pair(t *testing.T) (*World, *Body, *Body) {
	t.Helper()
	w := NewDefaultWorld()
	a := w.CreateBox(rl.Vector3{}, rl.Vector3{X: 1, Y: 1, Z: 1}, false)
	b := w.CreateBox(rl.Vector3{X: 0.9}, rl.Vector3{X: 1, Y: 1, Z: 1}, false)
	return w, a, b
}

func TestElasticExchangeSwapsVelocities(t *testing.T) {
	_, a, b := pair(t)
	a.Restitution, b.Restitution = 1, 1
	a.Velocity = rl.Vector3{X: 2}

	manifold := []shape.Contact{{Axis: rl.Vector3{X: -1}, Depth: 0.1}}
	DefaultSolver().Resolve(a, b, manifold)

	if !close32(a.Velocity.X, 0, 1e-4) {
		t.Errorf("Expected a to stop, got %v", a.Velocity)
	}
	if !close32(b.Velocity.X, 2, 1e-4) {
		t.Errorf("Expected b to take a's velocity, got %v", b.Velocity)
	}
}

func TestInelasticMomentumConserved(t *testing.T) {
	_, a, b := pair(t)
	a.Mass, b.Mass = 1, 3
	a.Velocity = rl.Vector3{X: 4}

	DefaultSolver().Resolve(a, b, []shape.Contact{{Axis: rl.Vector3{X: -1}, Depth: 0.1}})

	// perfectly inelastic: both share the momentum
	if !close32(a.Velocity.X, 1, 1e-4) || !close32(b.Velocity.X, 1, 1e-4) {
		t.Errorf("Expected both at 1, got %v and %v", a.Velocity, b.Velocity)
	}
}

func TestSeparatingBodiesKeepVelocity(t *testing.T) {
	_, a, b := pair(t)
	a.Velocity = rl.Vector3{X: -3}

	DefaultSolver().Resolve(a, b, []shape.Contact{{Axis: rl.Vector3{X: -1}, Depth: 0.1}})
	if a.Velocity.X != -3 || b.Velocity.X != 0 {
		t.Errorf("Expected no exchange when separating, got %v %v", a.Velocity, b.Velocity)
	}
}

func TestLandingOnStatic(t *testing.T) {
	w := NewDefaultWorld()
	floor := w.CreateBox(rl.Vector3{Y: -0.5}, rl.Vector3{X: 10, Y: 1, Z: 10}, true)
	box := w.CreateBox(rl.Vector3{Y: 0.4}, rl.Vector3{X: 1, Y: 1, Z: 1}, false)
	box.Velocity = rl.Vector3{Y: -5}

	DefaultSolver().Resolve(box, floor, []shape.Contact{{Axis: rl.Vector3{Y: 1}, Depth: 0.1}})

	if box.Velocity.Y != 0 {
		t.Errorf("Expected vertical velocity to be absorbed, got %v", box.Velocity)
	}
	if !box.OnGround() {
		t.Error("Expected box to be on the ground")
	}
	if floor.OnGround() {
		t.Error("Static bodies are never grounded")
	}
	if p := box.Position(); !close32(p.Y, 0.48, 1e-4) {
		t.Errorf("Expected box pushed to skin depth (0.48), got %f", p.Y)
	}
	if p := floor.Position(); p.Y != -0.5 {
		t.Errorf("Static floor should not move, got %v", p)
	}
}

func TestFrictionAgainstStatic(t *testing.T) {
	w := NewDefaultWorld()
	floor := w.CreateBox(rl.Vector3{Y: -0.5}, rl.Vector3{X: 10, Y: 1, Z: 10}, true)
	box := w.CreateBox(rl.Vector3{Y: 0.45}, rl.Vector3{X: 1, Y: 1, Z: 1}, false)
	box.Friction, floor.Friction = 0.5, 0.8
	box.Velocity = rl.Vector3{X: 4, Y: -1}

	DefaultSolver().Resolve(box, floor, []shape.Contact{{Axis: rl.Vector3{Y: 1}, Depth: 0.05}})

	// friction 0.5 capped by 0.5 * |dv| = 0.5
	if !close32(box.Velocity.X, 3.5, 1e-4) {
		t.Errorf("Expected sliding speed 3.5, got %v", box.Velocity)
	}
}

func TestFrictionNeverReverses(t *testing.T) {
	w := NewDefaultWorld()
	floor := w.CreateBox(rl.Vector3{Y: -0.5}, rl.Vector3{X: 10, Y: 1, Z: 10}, true)
	box := w.CreateBox(rl.Vector3{Y: 0.45}, rl.Vector3{X: 1, Y: 1, Z: 1}, false)
	box.Friction, floor.Friction = 1, 1
	box.Velocity = rl.Vector3{X: 0.1, Y: -3}

	DefaultSolver().Resolve(box, floor, []shape.Contact{{Axis: rl.Vector3{Y: 1}, Depth: 0.05}})
	if !close32(box.Velocity.X, 0, 1e-5) {
		t.Errorf("Expected friction to stop the slide exactly, got %v", box.Velocity)
	}
}

func TestMTVSymmetry(t *testing.T) {
	manifold := []shape.Contact{{Axis: rl.Vector3{Y: 1}, Depth: 0.3}}
	mtv := DefaultSolver().MTV(manifold)
	if !close32(mtv.Y, 0.28, 1e-5) {
		t.Fatalf("Expected mtv 0.28, got %v", mtv)
	}

	_, a, b := pair(t)
	b.Immovable = true
	DefaultSolver().Resolve(a, b, manifold)
	if p := a.Position(); !close32(p.Y, mtv.Y, 1e-5) {
		t.Errorf("Expected a to move by the full mtv, got %v", p)
	}

	_, a, b = pair(t)
	a.Immovable = true
	DefaultSolver().Resolve(a, b, manifold)
	if p := b.Position(); !close32(p.Y, -mtv.Y, 1e-5) {
		t.Errorf("Expected b to move by the negated mtv, got %v", p)
	}
	if p := a.Position(); p.Y != 0 {
		t.Errorf("Immovable body should not be pushed, got %v", p)
	}
}

func TestResolveMirroredManifold(t *testing.T) {
	manifold := []shape.Contact{
		{Axis: rl.Vector3{Y: 1}, Depth: 0.3},
		{Axis: rl.Vector3{X: -1}, Depth: 0.1},
	}
	mirrored := make([]shape.Contact, len(manifold))
	for i, c := range manifold {
		mirrored[i] = shape.Contact{Axis: rl.Vector3Negate(c.Axis), Depth: c.Depth}
	}
	v := rl.Vector3{X: 1, Y: -3, Z: 0.5}

	// a moves against a fixed b
	_, a, b := pair(t)
	b.Immovable = true
	a.Friction, b.Friction = 0.5, 0.5
	a.Velocity = v
	startA := a.Position()
	DefaultSolver().Resolve(a, b, manifold)
	moveA := rl.Vector3Subtract(a.Position(), startA)

	// the same contact seen from the other side
	_, a2, b2 := pair(t)
	a2.Immovable = true
	a2.Friction, b2.Friction = 0.5, 0.5
	b2.Velocity = rl.Vector3Negate(v)
	startB := b2.Position()
	DefaultSolver().Resolve(b2, a2, mirrored)
	moveB := rl.Vector3Subtract(b2.Position(), startB)

	if rl.Vector3Length(moveA) == 0 {
		t.Fatal("Expected a positional correction")
	}
	if d := rl.Vector3Distance(moveA, rl.Vector3Negate(moveB)); d > 1e-5 {
		t.Errorf("Expected mirrored displacement %v, got %v", rl.Vector3Negate(moveA), moveB)
	}
	if d := rl.Vector3Distance(a.Velocity, rl.Vector3Negate(b2.Velocity)); d > 1e-5 {
		t.Errorf("Expected mirrored velocity %v, got %v", rl.Vector3Negate(a.Velocity), b2.Velocity)
	}
	if a2.Position() != (rl.Vector3{}) || a2.Velocity != (rl.Vector3{}) {
		t.Errorf("Fixed side should not change, got %v %v", a2.Position(), a2.Velocity)
	}
}

func TestMTVMassSplit(t *testing.T) {
	_, a, b := pair(t)
	a.Mass, b.Mass = 1, 3
	DefaultSolver().Resolve(a, b, []shape.Contact{{Axis: rl.Vector3{X: -1}, Depth: 0.42}})

	// the lighter body takes three quarters of the 0.4 correction
	if p := a.Position(); !close32(p.X, -0.3, 1e-5) {
		t.Errorf("Expected a at -0.3, got %v", p)
	}
	if p := b.Position(); !close32(p.X, 1.0, 1e-5) {
		t.Errorf("Expected b at 1.0, got %v", p)
	}
}

func TestMTVWithinSkinIsZero(t *testing.T) {
	mtv := DefaultSolver().MTV([]shape.Contact{{Axis: rl.Vector3{Y: 1}, Depth: 0.01}})
	if mtv != (rl.Vector3{}) {
		t.Errorf("Expected no correction inside the skin, got %v", mtv)
	}
}

func TestMTVCombinesAxes(t *testing.T) {
	mtv := DefaultSolver().MTV([]shape.Contact{
		{Axis: rl.Vector3{Y: 1}, Depth: 0.22},
		{Axis: rl.Vector3{X: 1}, Depth: 0.12},
	})
	// direction is the weighted sum, length the deepest reduced depth
	if !close32(rl.Vector3Length(mtv), 0.2, 1e-5) {
		t.Errorf("Expected length 0.2, got %f", rl.Vector3Length(mtv))
	}
	if !(mtv.Y > mtv.X && mtv.X > 0) {
		t.Errorf("Expected a mostly vertical push, got %v", mtv)
	}
}
