package main

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// flyCamera is a free-flying camera. Right mouse looks around, WASD moves
// on the view plane, Q and E move down and up.
type flyCamera struct {
	Position  rl.Vector3
	Yaw       float32
	Pitch     float32
	MoveSpeed float32
	LookSpeed float32
	Fovy      float32
}

func newFlyCamera(pos rl.Vector3) *flyCamera {
	return &flyCamera{
		Position:  pos,
		Yaw:       -135.0,
		Pitch:     -30.0,
		MoveSpeed: 12.0,
		LookSpeed: 0.15,
		Fovy:      60,
	}
}

func (c *flyCamera) update(dt float32) {
	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		d := rl.GetMouseDelta()
		c.Yaw += d.X * c.LookSpeed
		c.Pitch -= d.Y * c.LookSpeed
		c.Pitch = max(-89, min(89, c.Pitch))
	}

	forward, right := c.directions()
	var move rl.Vector3
	if rl.IsKeyDown(rl.KeyW) {
		move = rl.Vector3Add(move, forward)
	}
	if rl.IsKeyDown(rl.KeyS) {
		move = rl.Vector3Subtract(move, forward)
	}
	if rl.IsKeyDown(rl.KeyD) {
		move = rl.Vector3Add(move, right)
	}
	if rl.IsKeyDown(rl.KeyA) {
		move = rl.Vector3Subtract(move, right)
	}
	if rl.IsKeyDown(rl.KeyE) {
		move.Y++
	}
	if rl.IsKeyDown(rl.KeyQ) {
		move.Y--
	}
	if rl.Vector3Length(move) == 0 {
		return
	}

	speed := c.MoveSpeed
	if rl.IsKeyDown(rl.KeyLeftShift) {
		speed *= 3
	}
	c.Position = rl.Vector3Add(c.Position, rl.Vector3Scale(rl.Vector3Normalize(move), speed*dt))
}

// directions returns the look direction and the horizontal right vector.
func (c *flyCamera) directions() (forward, right rl.Vector3) {
	yaw := c.Yaw * rl.Deg2rad
	pitch := c.Pitch * rl.Deg2rad
	forward = rl.Vector3{
		X: math32.Cos(yaw) * math32.Cos(pitch),
		Y: math32.Sin(pitch),
		Z: math32.Sin(yaw) * math32.Cos(pitch),
	}
	right = rl.Vector3{X: -math32.Sin(yaw), Z: math32.Cos(yaw)}
	return
}

func (c *flyCamera) camera() rl.Camera3D {
	forward, _ := c.directions()
	return rl.Camera3D{
		Position:   c.Position,
		Target:     rl.Vector3Add(c.Position, forward),
		Up:         rl.Vector3{Y: 1},
		Fovy:       c.Fovy,
		Projection: rl.CameraPerspective,
	}
}

// viewProjection matches the matrices raylib uses for BeginMode3D closely
// enough for culling.
func viewProjection(cam rl.Camera3D) rl.Matrix {
	view := rl.GetCameraMatrix(cam)
	aspect := float32(rl.GetScreenWidth()) / float32(rl.GetScreenHeight())
	proj := rl.MatrixPerspective(cam.Fovy*rl.Deg2rad, aspect, 0.1, 1000.0)
	return rl.MatrixMultiply(view, proj)
}
