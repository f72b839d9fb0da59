package shape

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

const axisEpsilon = 1e-6

// poly is the shared body of the vertex-defined shapes. Faces are index
// triples whose winding gives the face normal; edges are index pairs.
type poly struct {
	transform rl.Matrix
	local     []rl.Vector3
	faces     [][3]int
	edges     [][2]int

	// basisAxes derives normals and edges from the transform's columns
	// instead of the face list. Used by boxes so flat boxes keep all axes.
	basisAxes bool

	world    []rl.Vector3
	normals  []rl.Vector3
	edgeDirs []rl.Vector3
	center   rl.Vector3
	min, max rl.Vector3

	vertsDirty bool
	axesDirty  bool
}

func newPoly(local []rl.Vector3, faces [][3]int, edges [][2]int) poly {
	return poly{
		transform:  rl.MatrixIdentity(),
		local:      local,
		faces:      faces,
		edges:      edges,
		world:      make([]rl.Vector3, len(local)),
		vertsDirty: true,
		axesDirty:  true,
	}
}

func (p *poly) SetTransform(m rl.Matrix) {
	p.transform = m
	p.invalidate()
}

func (p *poly) Transform() rl.Matrix {
	return p.transform
}

func (p *poly) invalidate() {
	p.vertsDirty = true
	p.axesDirty = true
}

func (p *poly) refreshVertices() {
	if !p.vertsDirty {
		return
	}
	var sum rl.Vector3
	for i, v := range p.local {
		w := rl.Vector3Transform(v, p.transform)
		p.world[i] = w
		sum = rl.Vector3Add(sum, w)
		if i == 0 {
			p.min, p.max = w, w
			continue
		}
		p.min = vmin(p.min, w)
		p.max = vmax(p.max, w)
	}
	if n := len(p.local); n > 0 {
		p.center = rl.Vector3Scale(sum, 1/float32(n))
	}
	p.vertsDirty = false
}

func (p *poly) refreshAxes() {
	if !p.axesDirty {
		return
	}
	p.refreshVertices()
	p.normals = p.normals[:0]
	p.edgeDirs = p.edgeDirs[:0]

	if p.basisAxes {
		m := p.transform
		cols := [3]rl.Vector3{
			{X: m.M0, Y: m.M1, Z: m.M2},
			{X: m.M4, Y: m.M5, Z: m.M6},
			{X: m.M8, Y: m.M9, Z: m.M10},
		}
		for _, c := range cols {
			if l := rl.Vector3Length(c); l > axisEpsilon {
				u := rl.Vector3Scale(c, 1/l)
				p.normals = append(p.normals, u)
				p.edgeDirs = append(p.edgeDirs, u)
			}
		}
		p.axesDirty = false
		return
	}

	for _, f := range p.faces {
		a, b, c := p.world[f[0]], p.world[f[1]], p.world[f[2]]
		n := rl.Vector3CrossProduct(rl.Vector3Subtract(b, a), rl.Vector3Subtract(c, a))
		if l := rl.Vector3Length(n); l > axisEpsilon {
			p.normals = append(p.normals, rl.Vector3Scale(n, 1/l))
		}
	}
	for _, e := range p.edges {
		d := rl.Vector3Subtract(p.world[e[1]], p.world[e[0]])
		if l := rl.Vector3Length(d); l > axisEpsilon {
			p.edgeDirs = append(p.edgeDirs, rl.Vector3Scale(d, 1/l))
		}
	}
	p.axesDirty = false
}

func (p *poly) Vertices() []rl.Vector3 {
	p.refreshVertices()
	return p.world
}

func (p *poly) Normals() []rl.Vector3 {
	p.refreshAxes()
	return p.normals
}

func (p *poly) Edges() []rl.Vector3 {
	p.refreshAxes()
	return p.edgeDirs
}

func (p *poly) Center() rl.Vector3 {
	p.refreshVertices()
	return p.center
}

func (p *poly) Bounds() (rl.Vector3, rl.Vector3) {
	p.refreshVertices()
	return p.min, p.max
}

func (p *poly) Project(axis rl.Vector3) (float32, float32) {
	p.refreshVertices()
	if len(p.world) == 0 {
		return math32.Inf(1), math32.Inf(-1)
	}
	lo := rl.Vector3DotProduct(p.world[0], axis)
	hi := lo
	for _, v := range p.world[1:] {
		d := rl.Vector3DotProduct(v, axis)
		if d < lo {
			lo = d
		}
		if d > hi {
			hi = d
		}
	}
	return lo, hi
}

// clipConvex runs a Cyrus-Beck clip of the ray against the faces, which
// must have outward winding, and returns the entry parameter or +Inf.
func (p *poly) clipConvex(origin, dir rl.Vector3) float32 {
	p.refreshVertices()
	tEnter := float32(0)
	tExit := float32(math32.MaxFloat32)
	for _, f := range p.faces {
		a := p.world[f[0]]
		n := rl.Vector3CrossProduct(
			rl.Vector3Subtract(p.world[f[1]], a),
			rl.Vector3Subtract(p.world[f[2]], a),
		)
		if rl.Vector3Length(n) <= axisEpsilon {
			continue
		}
		// keep the normal pointing away from the centroid
		if rl.Vector3DotProduct(n, rl.Vector3Subtract(a, p.center)) < 0 {
			n = rl.Vector3Negate(n)
		}
		num := rl.Vector3DotProduct(n, rl.Vector3Subtract(a, origin))
		den := rl.Vector3DotProduct(n, dir)
		if den == 0 {
			if num < 0 {
				return math32.Inf(1)
			}
			continue
		}
		t := num / den
		if den < 0 {
			if t > tEnter {
				tEnter = t
			}
		} else if t < tExit {
			tExit = t
		}
		if tEnter > tExit {
			return math32.Inf(1)
		}
	}
	return tEnter
}
