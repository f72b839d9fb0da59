package main

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

var panelBounds = rl.Rectangle{X: 8, Y: 8, Width: 240, Height: 372}

func setupStyle() {
	gui.SetStyle(gui.DEFAULT, gui.BACKGROUND_COLOR, gui.NewColorPropertyValue(rl.NewColor(35, 35, 45, 235)))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_NORMAL, gui.NewColorPropertyValue(rl.NewColor(210, 210, 220, 255)))
	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_NORMAL, gui.NewColorPropertyValue(rl.NewColor(70, 70, 85, 255)))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_NORMAL, gui.NewColorPropertyValue(rl.NewColor(50, 50, 62, 255)))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_SIZE, 15)
}

func (v *viewer) drawPanel() {
	gui.Panel(panelBounds, v.title)

	x := panelBounds.X + 10
	y := panelBounds.Y + 34
	row := func(h float32) rl.Rectangle {
		r := rl.Rectangle{X: x, Y: y, Width: panelBounds.Width - 20, Height: h}
		y += h + 6
		return r
	}
	check := func(label string, value bool) bool {
		r := row(16)
		r.Width = 16
		return gui.CheckBox(r, label, value)
	}

	v.paused = check("Paused (P)", v.paused)
	v.drawTree = check("Draw tree", v.drawTree)
	v.cull = check("Frustum culling", v.cull)
	v.showTouch = check("Contact lines", v.showTouch)

	gui.Label(row(16), "Gravity")
	sr := row(16)
	sr.Width -= 44
	v.gravity = gui.Slider(sr, "", fmt.Sprintf("%.1f", v.gravity), v.gravity, 0, 40)

	if gui.Button(row(24), "Step") {
		v.stepOnce = true
		v.paused = true
	}
	if gui.Button(row(24), "Spawn box") {
		v.spawn()
	}
	if gui.Button(row(24), "Refresh statics") {
		v.world.RefreshStatics()
	}

	stats := v.world.Tree().Stats()
	gui.Label(row(16), fmt.Sprintf("tick %d  bodies %d  drawn %d", v.world.Tick(), v.world.BodyCount(), v.visible))
	gui.Label(row(16), fmt.Sprintf("nodes %d  depth %d  contacts %d", stats.Nodes, stats.MaxDepth, len(v.world.ActiveContacts())))
	gui.Label(row(16), fmt.Sprintf("step %.2f ms", v.stepMs))

	if b := v.selected; b != nil {
		p := b.Position()
		gui.Label(row(16), fmt.Sprintf("#%d  (%.1f, %.1f, %.1f)", b.ID(), p.X, p.Y, p.Z))
		gui.Label(row(16), fmt.Sprintf("speed %.2f  ground %v  touching %d", rl.Vector3Length(b.Velocity), b.OnGround(), len(b.TouchedIDs())))
		if v.impact >= 0 {
			gui.Label(row(16), fmt.Sprintf("impact in %.2f s", v.impact))
		}
	}
}

func (v *viewer) drawHelp() {
	const help = "RMB look  WASD/QE fly  LMB select  Space kick  F fire  Del remove"
	rl.DrawText(help, int32(panelBounds.X), int32(rl.GetScreenHeight())-26, 16, rl.LightGray)
	rl.DrawFPS(int32(rl.GetScreenWidth())-90, 10)
}
