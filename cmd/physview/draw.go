package main

import (
	"dungeon3d/internal/physics"
	"dungeon3d/internal/scenario"
	"dungeon3d/internal/spatial"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func (v *viewer) draw() {
	cam := v.cam.camera()

	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(20, 20, 30, 255))

	rl.BeginMode3D(cam)
	rl.DrawGrid(40, 1)

	var bodies []*physics.Body
	if v.cull {
		bodies = v.world.Tree().Query(v.frustum)
	} else {
		bodies = v.world.Bodies()
	}
	v.visible = len(bodies)
	for _, b := range bodies {
		v.drawBody(b)
	}

	if v.drawTree {
		drawTree(v.world.Tree())
	}
	if v.showTouch {
		for _, c := range v.world.ActiveContacts() {
			rl.DrawLine3D(c.A.Position(), c.B.Position(), rl.Orange)
		}
	}
	if v.hovering {
		rl.DrawSphere(v.hover.Point, 0.08, rl.Yellow)
	}
	if b := v.selected; b != nil && v.impact >= 0 {
		at := rl.Vector3Add(b.Position(), rl.Vector3Scale(b.Velocity, v.impact))
		rl.DrawLine3D(b.Position(), at, rl.Red)
		rl.DrawSphere(at, 0.12, rl.Red)
	}
	rl.EndMode3D()

	v.drawPanel()
	v.drawHelp()
	rl.EndDrawing()
}

func (v *viewer) bodyColor(b *physics.Body) rl.Color {
	if o, ok := b.UserData.(*scenario.Object); ok {
		return o.RGBA()
	}
	switch {
	case b.Static:
		return rl.Gray
	case !b.Collidable:
		return rl.Fade(rl.SkyBlue, 0.4)
	case b.OnGround():
		return rl.SkyBlue
	}
	return rl.Blue
}

func (v *viewer) drawBody(b *physics.Body) {
	col := v.bodyColor(b)
	if _, ok := v.flashes[b.ID()]; ok {
		col = rl.ColorBrightness(col, 0.5)
	}

	if f := b.FineTree(); f != nil {
		m := b.Transform().WorldMatrix()
		for i := 0; i < f.Len(); i++ {
			p := f.Triangle(i).Points()
			a := rl.Vector3Transform(p[0], m)
			c := rl.Vector3Transform(p[1], m)
			d := rl.Vector3Transform(p[2], m)
			// both windings so the mesh shows from either side
			rl.DrawTriangle3D(a, c, d, col)
			rl.DrawTriangle3D(a, d, c, col)
		}
	} else {
		drawSolid(b.Bounds().Vertices(), col)
	}

	edge := rl.ColorBrightness(col, -0.4)
	if b == v.selected {
		edge = rl.Yellow
	}
	drawWires(b.Bounds().Vertices(), edge)
}

// Box corners follow the OBB vertex order: bit 0 picks max X, bit 1 max Y
// and bit 2 max Z.
var boxFaces = [6][4]int{
	{0, 2, 3, 1}, // -z
	{4, 5, 7, 6}, // +z
	{0, 4, 6, 2}, // -x
	{1, 3, 7, 5}, // +x
	{0, 1, 5, 4}, // -y
	{2, 6, 7, 3}, // +y
}

func drawSolid(v []rl.Vector3, col rl.Color) {
	if len(v) != 8 {
		return
	}
	for _, f := range boxFaces {
		rl.DrawTriangle3D(v[f[0]], v[f[1]], v[f[2]], col)
		rl.DrawTriangle3D(v[f[0]], v[f[2]], v[f[3]], col)
	}
}

func drawWires(v []rl.Vector3, col rl.Color) {
	if len(v) != 8 {
		return
	}
	for i := 0; i < 8; i++ {
		for bit := 1; bit < 8; bit <<= 1 {
			if i&bit == 0 {
				rl.DrawLine3D(v[i], v[i|bit], col)
			}
		}
	}
}

// drawTree outlines every node that holds items.
func drawTree(t *spatial.Tree[*physics.Body]) {
	t.Walk(func(n *spatial.Node[*physics.Body]) bool {
		if len(n.Items()) > 0 {
			s := n.HalfSize() * 2
			rl.DrawCubeWiresV(n.Center(), rl.Vector3{X: s, Y: s, Z: s}, rl.Fade(rl.Green, 0.35))
		}
		return true
	})
}
