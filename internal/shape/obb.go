package shape

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OBB is an oriented box: a local axis-aligned min/max placed in world
// space by its transform.
//
// Corner i has bit 0 set for max X, bit 1 for max Y and bit 2 for max Z.
type OBB struct {
	poly
	localMin rl.Vector3
	localMax rl.Vector3
}

var boxFaces = [][3]int{
	{0, 2, 4}, {1, 5, 3}, // -X, +X
	{0, 4, 1}, {2, 3, 6}, // -Y, +Y
	{0, 1, 2}, {4, 6, 5}, // -Z, +Z
}

var boxEdges = [][2]int{{0, 1}, {0, 2}, {0, 4}}

// NewOBB creates a box spanning min..max in local space with an identity transform.
func NewOBB(min, max rl.Vector3) *OBB {
	o := &OBB{poly: newPoly(make([]rl.Vector3, 8), boxFaces, boxEdges)}
	o.basisAxes = true
	o.SetMinMax(min, max)
	return o
}

// NewBox creates a box of the given size centered on center.
func NewBox(center, size rl.Vector3) *OBB {
	half := rl.Vector3Scale(size, 0.5)
	return NewOBB(rl.Vector3Subtract(center, half), rl.Vector3Add(center, half))
}

func (o *OBB) Kind() Kind { return KindOBB }

// SetMinMax replaces the local extent. Swapped components are reordered.
func (o *OBB) SetMinMax(min, max rl.Vector3) {
	o.localMin = vmin(min, max)
	o.localMax = vmax(min, max)
	for i := range o.local {
		c := o.localMin
		if i&1 != 0 {
			c.X = o.localMax.X
		}
		if i&2 != 0 {
			c.Y = o.localMax.Y
		}
		if i&4 != 0 {
			c.Z = o.localMax.Z
		}
		o.local[i] = c
	}
	o.invalidate()
}

// LocalMinMax returns the untransformed extent.
func (o *OBB) LocalMinMax() (rl.Vector3, rl.Vector3) {
	return o.localMin, o.localMax
}

// Axes returns the unit world axes of the box.
func (o *OBB) Axes() [3]rl.Vector3 {
	v := o.Vertices()
	var axes [3]rl.Vector3
	for i := 0; i < 3; i++ {
		d := rl.Vector3Subtract(v[1<<uint(i)], v[0])
		if l := rl.Vector3Length(d); l > axisEpsilon {
			axes[i] = rl.Vector3Scale(d, 1/l)
			continue
		}
		// flat along this axis: fall back to the transform column
		m := o.transform
		col := [3]rl.Vector3{
			{X: m.M0, Y: m.M1, Z: m.M2},
			{X: m.M4, Y: m.M5, Z: m.M6},
			{X: m.M8, Y: m.M9, Z: m.M10},
		}[i]
		axes[i] = rl.Vector3Normalize(col)
	}
	return axes
}

// HalfExtents returns the world half sizes along Axes.
func (o *OBB) HalfExtents() rl.Vector3 {
	v := o.Vertices()
	return rl.Vector3{
		X: rl.Vector3Distance(v[1], v[0]) / 2,
		Y: rl.Vector3Distance(v[2], v[0]) / 2,
		Z: rl.Vector3Distance(v[4], v[0]) / 2,
	}
}

// Raycast is a slab test in the box's own frame.
func (o *OBB) Raycast(origin, dir rl.Vector3) float32 {
	axes := o.Axes()
	half := o.HalfExtents()
	rel := rl.Vector3Subtract(origin, o.Center())

	lo := rl.Vector3Negate(half)
	localOrigin := rl.Vector3{
		X: rl.Vector3DotProduct(rel, axes[0]),
		Y: rl.Vector3DotProduct(rel, axes[1]),
		Z: rl.Vector3DotProduct(rel, axes[2]),
	}
	localDir := rl.Vector3{
		X: rl.Vector3DotProduct(dir, axes[0]),
		Y: rl.Vector3DotProduct(dir, axes[1]),
		Z: rl.Vector3DotProduct(dir, axes[2]),
	}
	return raycastSlabs(lo, half, localOrigin, localDir, AllAxes)
}

// ClosestPoint returns the point on or inside the box nearest to p.
func (o *OBB) ClosestPoint(p rl.Vector3) rl.Vector3 {
	axes := o.Axes()
	half := o.HalfExtents()
	c := o.Center()
	rel := rl.Vector3Subtract(p, c)

	result := c
	for i := 0; i < 3; i++ {
		h := component(half, i)
		d := rl.Vector3DotProduct(rel, axes[i])
		d = math32.Max(-h, math32.Min(h, d))
		result = rl.Vector3Add(result, rl.Vector3Scale(axes[i], d))
	}
	return result
}
