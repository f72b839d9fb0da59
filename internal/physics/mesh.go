package physics

import (
	"unsafe"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// TrianglesFromMesh extracts the triangles of a raylib mesh, transformed by m.
// Indexed and non-indexed meshes are both supported.
func TrianglesFromMesh(mesh rl.Mesh, m rl.Matrix) [][3]rl.Vector3 {
	if mesh.Vertices == nil || mesh.VertexCount == 0 {
		return nil
	}
	vertices := unsafe.Slice(mesh.Vertices, mesh.VertexCount*3)
	vertex := func(i int) rl.Vector3 {
		v := rl.Vector3{X: vertices[i*3+0], Y: vertices[i*3+1], Z: vertices[i*3+2]}
		return rl.Vector3Transform(v, m)
	}

	var tris [][3]rl.Vector3
	if mesh.Indices != nil {
		indices := unsafe.Slice(mesh.Indices, mesh.TriangleCount*3)
		for i := 0; i < int(mesh.TriangleCount); i++ {
			tris = append(tris, [3]rl.Vector3{
				vertex(int(indices[i*3+0])),
				vertex(int(indices[i*3+1])),
				vertex(int(indices[i*3+2])),
			})
		}
		return tris
	}

	// every three vertices form a triangle
	for i := 0; i+2 < int(mesh.VertexCount); i += 3 {
		tris = append(tris, [3]rl.Vector3{vertex(i), vertex(i + 1), vertex(i + 2)})
	}
	return tris
}

// TrianglesFromModel gathers the triangles of every mesh in a model,
// applying the model's own transform.
func TrianglesFromModel(model rl.Model) [][3]rl.Vector3 {
	if model.Meshes == nil || model.MeshCount == 0 {
		return nil
	}
	var tris [][3]rl.Vector3
	for _, mesh := range unsafe.Slice(model.Meshes, model.MeshCount) {
		tris = append(tris, TrianglesFromMesh(mesh, model.Transform)...)
	}
	return tris
}

// BoundsOfTriangles returns the axis-aligned extent of tris. Empty input
// yields zero vectors.
func BoundsOfTriangles(tris [][3]rl.Vector3) (min, max rl.Vector3) {
	if len(tris) == 0 {
		return
	}
	min, max = tris[0][0], tris[0][0]
	for _, t := range tris {
		for _, v := range t {
			min = rl.Vector3{X: math32.Min(min.X, v.X), Y: math32.Min(min.Y, v.Y), Z: math32.Min(min.Z, v.Z)}
			max = rl.Vector3{X: math32.Max(max.X, v.X), Y: math32.Max(max.Y, v.Y), Z: math32.Max(max.Z, v.Z)}
		}
	}
	return min, max
}

// BoxTriangles returns the twelve triangles of an axis-aligned box.
func BoxTriangles(min, max rl.Vector3) [][3]rl.Vector3 {
	c := func(i int) rl.Vector3 {
		v := min
		if i&1 != 0 {
			v.X = max.X
		}
		if i&2 != 0 {
			v.Y = max.Y
		}
		if i&4 != 0 {
			v.Z = max.Z
		}
		return v
	}
	quads := [6][4]int{
		{0, 4, 6, 2}, // -X
		{1, 3, 7, 5}, // +X
		{0, 1, 5, 4}, // -Y
		{2, 6, 7, 3}, // +Y
		{0, 2, 3, 1}, // -Z
		{4, 5, 7, 6}, // +Z
	}
	tris := make([][3]rl.Vector3, 0, 12)
	for _, q := range quads {
		tris = append(tris,
			[3]rl.Vector3{c(q[0]), c(q[1]), c(q[2])},
			[3]rl.Vector3{c(q[0]), c(q[2]), c(q[3])},
		)
	}
	return tris
}
