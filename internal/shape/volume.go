package shape

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Volume is an axis-aligned box with a per-axis enable mask. A disabled
// axis has infinite extent, so a Volume with only X and Z enabled is an
// endless column. Only the translation of its transform is applied.
type Volume struct {
	localCenter rl.Vector3
	half        rl.Vector3
	axes        Axes
	transform   rl.Matrix
	center      rl.Vector3

	vertices []rl.Vector3
	normals  []rl.Vector3
	dirty    bool
}

var worldAxes = [3]rl.Vector3{{X: 1}, {Y: 1}, {Z: 1}}

// NewVolume creates a volume around center.
func NewVolume(center, half rl.Vector3, axes Axes) *Volume {
	v := &Volume{
		localCenter: center,
		half:        rl.Vector3{X: math32.Abs(half.X), Y: math32.Abs(half.Y), Z: math32.Abs(half.Z)},
		axes:        axes,
		transform:   rl.MatrixIdentity(),
		center:      center,
		vertices:    make([]rl.Vector3, 8),
		dirty:       true,
	}
	for i := 0; i < 3; i++ {
		if axes.Has(i) {
			v.normals = append(v.normals, worldAxes[i])
		}
	}
	return v
}

// VolumeFromBounds creates a fully enabled volume covering min..max.
func VolumeFromBounds(min, max rl.Vector3) *Volume {
	c := rl.Vector3Scale(rl.Vector3Add(min, max), 0.5)
	h := rl.Vector3Scale(rl.Vector3Subtract(max, min), 0.5)
	return NewVolume(c, h, AllAxes)
}

func (v *Volume) Kind() Kind { return KindVolume }

func (v *Volume) SetTransform(m rl.Matrix) {
	v.transform = m
	v.center = rl.Vector3Transform(v.localCenter, m)
	v.dirty = true
}

func (v *Volume) Transform() rl.Matrix { return v.transform }
func (v *Volume) Center() rl.Vector3   { return v.center }
func (v *Volume) HalfSize() rl.Vector3 { return v.half }
func (v *Volume) Axes() Axes           { return v.axes }

// Vertices returns the corners, with disabled axes clamped to the largest
// finite float.
func (v *Volume) Vertices() []rl.Vector3 {
	if !v.dirty {
		return v.vertices
	}
	lo, hi := v.finiteBounds()
	for i := range v.vertices {
		c := lo
		if i&1 != 0 {
			c.X = hi.X
		}
		if i&2 != 0 {
			c.Y = hi.Y
		}
		if i&4 != 0 {
			c.Z = hi.Z
		}
		v.vertices[i] = c
	}
	v.dirty = false
	return v.vertices
}

func (v *Volume) finiteBounds() (rl.Vector3, rl.Vector3) {
	lo := rl.Vector3Subtract(v.center, v.half)
	hi := rl.Vector3Add(v.center, v.half)
	for i := 0; i < 3; i++ {
		if !v.axes.Has(i) {
			setComponent(&lo, i, -math32.MaxFloat32)
			setComponent(&hi, i, math32.MaxFloat32)
		}
	}
	return lo, hi
}

func (v *Volume) Normals() []rl.Vector3 { return v.normals }

func (v *Volume) Edges() []rl.Vector3 { return worldAxes[:] }

func (v *Volume) Project(axis rl.Vector3) (float32, float32) {
	c := rl.Vector3DotProduct(v.center, axis)
	r := float32(0)
	for i := 0; i < 3; i++ {
		a := math32.Abs(component(axis, i))
		if !v.axes.Has(i) {
			if a > axisEpsilon {
				return math32.Inf(-1), math32.Inf(1)
			}
			continue
		}
		r += component(v.half, i) * a
	}
	return c - r, c + r
}

// Bounds reports infinite extent on disabled axes.
func (v *Volume) Bounds() (rl.Vector3, rl.Vector3) {
	lo := rl.Vector3Subtract(v.center, v.half)
	hi := rl.Vector3Add(v.center, v.half)
	for i := 0; i < 3; i++ {
		if !v.axes.Has(i) {
			setComponent(&lo, i, math32.Inf(-1))
			setComponent(&hi, i, math32.Inf(1))
		}
	}
	return lo, hi
}

// Contains reports whether min..max lies inside the volume on every enabled axis.
func (v *Volume) Contains(min, max rl.Vector3) bool {
	for i := 0; i < 3; i++ {
		if !v.axes.Has(i) {
			continue
		}
		c, h := component(v.center, i), component(v.half, i)
		if !(component(min, i) >= c-h && component(max, i) <= c+h) {
			return false
		}
	}
	return true
}

func (v *Volume) Raycast(origin, dir rl.Vector3) float32 {
	lo := rl.Vector3Subtract(v.center, v.half)
	hi := rl.Vector3Add(v.center, v.half)
	return raycastSlabs(lo, hi, origin, dir, v.axes)
}
