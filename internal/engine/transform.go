package engine

import (
	"errors"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ErrCyclicParent is returned when a parent assignment would make a
// transform its own ancestor.
var ErrCyclicParent = errors.New("engine: transform parent would create a cycle")

// Transform is a position, Euler rotation (degrees), scale and pivot origin,
// optionally chained to a parent. Writes containing NaN are dropped.
type Transform struct {
	position rl.Vector3
	rotation rl.Vector3
	scale    rl.Vector3
	origin   rl.Vector3
	parent   *Transform

	local rl.Matrix
	dirty bool
}

func NewTransform() *Transform {
	return &Transform{
		scale: rl.Vector3{X: 1, Y: 1, Z: 1},
		dirty: true,
	}
}

// NewTransformAt creates a transform positioned at p.
func NewTransformAt(p rl.Vector3) *Transform {
	t := NewTransform()
	t.SetPosition(p)
	return t
}

func hasNaN(v rl.Vector3) bool {
	return math32.IsNaN(v.X) || math32.IsNaN(v.Y) || math32.IsNaN(v.Z)
}

func (t *Transform) Position() rl.Vector3 { return t.position }
func (t *Transform) Rotation() rl.Vector3 { return t.rotation }
func (t *Transform) Scale() rl.Vector3    { return t.scale }
func (t *Transform) Origin() rl.Vector3   { return t.origin }
func (t *Transform) Parent() *Transform   { return t.parent }

func (t *Transform) SetPosition(p rl.Vector3) {
	if hasNaN(p) {
		return
	}
	t.position = p
	t.dirty = true
}

func (t *Transform) SetRotation(r rl.Vector3) {
	if hasNaN(r) {
		return
	}
	t.rotation = r
	t.dirty = true
}

func (t *Transform) SetScale(s rl.Vector3) {
	if hasNaN(s) {
		return
	}
	t.scale = s
	t.dirty = true
}

// SetOrigin moves the pivot that rotation and scale are applied around.
func (t *Transform) SetOrigin(o rl.Vector3) {
	if hasNaN(o) {
		return
	}
	t.origin = o
	t.dirty = true
}

// Translate moves the local position by d.
func (t *Transform) Translate(d rl.Vector3) {
	t.SetPosition(rl.Vector3Add(t.position, d))
}

// TranslateWorld moves the transform by a world-space displacement,
// accounting for the parent chain.
func (t *Transform) TranslateWorld(d rl.Vector3) {
	if t.parent == nil {
		t.Translate(d)
		return
	}
	inv := rl.MatrixInvert(t.parent.WorldMatrix())
	local := rl.Vector3{
		X: inv.M0*d.X + inv.M4*d.Y + inv.M8*d.Z,
		Y: inv.M1*d.X + inv.M5*d.Y + inv.M9*d.Z,
		Z: inv.M2*d.X + inv.M6*d.Y + inv.M10*d.Z,
	}
	t.Translate(local)
}

// SetParent attaches t under p. A nil p detaches. Assignments that would
// make t its own ancestor fail with ErrCyclicParent.
func (t *Transform) SetParent(p *Transform) error {
	for q := p; q != nil; q = q.parent {
		if q == t {
			return ErrCyclicParent
		}
	}
	t.parent = p
	return nil
}

// RotationMatrix applies X, then Y, then Z rotations.
func (t *Transform) RotationMatrix() rl.Matrix {
	rotX := rl.MatrixRotateX(t.rotation.X * rl.Deg2rad)
	rotY := rl.MatrixRotateY(t.rotation.Y * rl.Deg2rad)
	rotZ := rl.MatrixRotateZ(t.rotation.Z * rl.Deg2rad)
	return rl.MatrixMultiply(rl.MatrixMultiply(rotX, rotY), rotZ)
}

// LocalMatrix composes origin, scale, rotation and position.
func (t *Transform) LocalMatrix() rl.Matrix {
	if !t.dirty {
		return t.local
	}
	m := rl.MatrixTranslate(-t.origin.X, -t.origin.Y, -t.origin.Z)
	m = rl.MatrixMultiply(m, rl.MatrixScale(t.scale.X, t.scale.Y, t.scale.Z))
	m = rl.MatrixMultiply(m, t.RotationMatrix())
	m = rl.MatrixMultiply(m, rl.MatrixTranslate(t.origin.X, t.origin.Y, t.origin.Z))
	m = rl.MatrixMultiply(m, rl.MatrixTranslate(t.position.X, t.position.Y, t.position.Z))
	t.local = m
	t.dirty = false
	return m
}

// WorldMatrix is the local matrix followed by every ancestor's.
func (t *Transform) WorldMatrix() rl.Matrix {
	m := t.LocalMatrix()
	if t.parent != nil {
		m = rl.MatrixMultiply(m, t.parent.WorldMatrix())
	}
	return m
}

func (t *Transform) WorldPosition() rl.Vector3 {
	m := t.WorldMatrix()
	return rl.Vector3{X: m.M12, Y: m.M13, Z: m.M14}
}

// WorldRotation sums Euler angles up the chain. Exact only for single-axis rotations.
func (t *Transform) WorldRotation() rl.Vector3 {
	if t.parent == nil {
		return t.rotation
	}
	return rl.Vector3Add(t.parent.WorldRotation(), t.rotation)
}

func (t *Transform) WorldScale() rl.Vector3 {
	if t.parent == nil {
		return t.scale
	}
	ps := t.parent.WorldScale()
	return rl.Vector3{
		X: ps.X * t.scale.X,
		Y: ps.Y * t.scale.Y,
		Z: ps.Z * t.scale.Z,
	}
}
