package shape

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Frustum is a view volume built from a combined view-projection matrix.
// Corner indices follow the OBB convention with bit 2 selecting the far plane.
type Frustum struct {
	poly
}

var frustumEdges = [][2]int{
	{0, 1}, {0, 2}, // near plane directions
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// NewFrustum unprojects the clip-space cube of viewProj. viewProj is
// rl.MatrixMultiply(view, projection).
func NewFrustum(viewProj rl.Matrix) *Frustum {
	f := &Frustum{poly: newPoly(make([]rl.Vector3, 8), boxFaces, frustumEdges)}
	f.SetViewProjection(viewProj)
	return f
}

func (f *Frustum) Kind() Kind { return KindFrustum }

// SetViewProjection rebuilds the local corners from a new camera matrix.
func (f *Frustum) SetViewProjection(viewProj rl.Matrix) {
	inv := rl.MatrixInvert(viewProj)
	for i := range f.local {
		ndc := rl.Vector3{X: -1, Y: -1, Z: -1}
		if i&1 != 0 {
			ndc.X = 1
		}
		if i&2 != 0 {
			ndc.Y = 1
		}
		if i&4 != 0 {
			ndc.Z = 1
		}
		f.local[i] = transformProjective(ndc, inv)
	}
	f.invalidate()
}

// ContainsPoint reports whether p is inside all six planes.
func (f *Frustum) ContainsPoint(p rl.Vector3) bool {
	v := f.Vertices()
	c := f.Center()
	for _, face := range f.faces {
		a := v[face[0]]
		n := rl.Vector3CrossProduct(rl.Vector3Subtract(v[face[1]], a), rl.Vector3Subtract(v[face[2]], a))
		if rl.Vector3DotProduct(n, rl.Vector3Subtract(a, c)) < 0 {
			n = rl.Vector3Negate(n)
		}
		if rl.Vector3DotProduct(n, rl.Vector3Subtract(p, a)) > 0 {
			return false
		}
	}
	return true
}

func (f *Frustum) Raycast(origin, dir rl.Vector3) float32 {
	return f.clipConvex(origin, dir)
}
