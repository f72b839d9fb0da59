package physics

import (
	"dungeon3d/internal/shape"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

type RaycastHit struct {
	Body     *Body
	Point    rl.Vector3
	Distance float32
}

// Raycast returns the nearest body hit within maxDistance.
func (w *World) Raycast(origin, direction rl.Vector3, maxDistance float32) (RaycastHit, bool) {
	return w.RaycastFiltered(origin, direction, maxDistance, nil)
}

// CollidableOnly is a RaycastFiltered filter that skips non-collidable bodies.
func CollidableOnly(b *Body) bool { return b.Collidable }

// RaycastFiltered is Raycast limited to bodies for which keep returns true.
// A nil keep accepts every body. Bodies with a fine tree are hit only where
// the ray meets one of their triangles.
func (w *World) RaycastFiltered(origin, direction rl.Vector3, maxDistance float32, keep func(*Body) bool) (RaycastHit, bool) {
	if rl.Vector3Length(direction) < 1e-8 || !(maxDistance > 0) {
		return RaycastHit{}, false
	}
	dir := rl.Vector3Normalize(direction)
	ray := shape.NewRay(origin, dir, maxDistance)

	var hit *Body
	best := maxDistance
	for _, b := range w.tree.RayQuery(ray, maxDistance) {
		if keep != nil && !keep(b) {
			continue
		}
		d := b.Bounds().Raycast(origin, dir)
		if math32.IsInf(d, 1) || d > best {
			continue
		}
		if b.fine != nil {
			d = w.fineRaycast(b, origin, dir, best)
			if math32.IsInf(d, 1) || d > best {
				continue
			}
		}
		if hit == nil || d < best {
			hit, best = b, d
		}
	}
	if hit == nil {
		return RaycastHit{}, false
	}
	return RaycastHit{
		Body:     hit,
		Point:    rl.Vector3Add(origin, rl.Vector3Scale(dir, best)),
		Distance: best,
	}, true
}

// fineRaycast casts against b's triangles in b's local space and converts
// the result back to a world distance.
func (w *World) fineRaycast(b *Body, origin, dir rl.Vector3, limit float32) float32 {
	inv := rl.MatrixInvert(b.transform.WorldMatrix())
	localOrigin := rl.Vector3Transform(origin, inv)
	localDir := shape.TransformDirection(dir, inv)

	k := rl.Vector3Length(localDir)
	if k < 1e-8 {
		return math32.Inf(1)
	}
	localDir = rl.Vector3Scale(localDir, 1/k)
	return b.fine.raycast(localOrigin, localDir, limit*k) / k
}
