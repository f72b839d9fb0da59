package physics

import (
	"dungeon3d/internal/shape"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Sweep reports the earliest time within dt at which b, moving at its
// velocity, touches another collidable body moving at its own. It returns
// shape.NoImpact and nil when nothing is reached.
func (w *World) Sweep(b *Body, dt float32) (float32, *Body) {
	if !(dt > 0) {
		return shape.NoImpact, nil
	}
	box := b.Bounds()
	lo, hi := box.Bounds()
	d := rl.Vector3Scale(b.Velocity, dt)

	// anything that can reach b's swept region within dt
	var fastest float32
	for _, o := range w.bodies {
		if o != b && !o.Static && o.Collidable {
			fastest = max(fastest, rl.Vector3Length(o.Velocity))
		}
	}
	r := fastest * dt
	reach := shape.VolumeFromBounds(
		rl.Vector3Add(lo, rl.Vector3{X: min(d.X, 0) - r, Y: min(d.Y, 0) - r, Z: min(d.Z, 0) - r}),
		rl.Vector3Add(hi, rl.Vector3{X: max(d.X, 0) + r, Y: max(d.Y, 0) + r, Z: max(d.Z, 0) + r}),
	)

	best := shape.NoImpact
	var hit *Body
	w.tree.QueryFunc(func(o *Body) bool {
		if o == b || !o.Collidable {
			return true
		}
		t := shape.SweptOverlap(box, b.Velocity, []shape.Shape{o.Bounds()}, o.Velocity, dt)
		if t == shape.NoImpact {
			return true
		}
		if hit == nil || t < best || (t == best && o.id < hit.id) {
			best, hit = t, o
		}
		return true
	}, reach)
	return best, hit
}
