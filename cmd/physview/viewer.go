package main

import (
	"time"

	"dungeon3d/internal/engine"
	"dungeon3d/internal/physics"
	"dungeon3d/internal/scenario"
	"dungeon3d/internal/shape"

	"github.com/charmbracelet/log"
	rl "github.com/gen2brain/raylib-go/raylib"
)

var boxSize = rl.Vector3{X: 1, Y: 1, Z: 1}

type viewer struct {
	logger  *log.Logger
	title   string
	world   *physics.World
	stepper *physics.Stepper
	cam     *flyCamera
	frustum *shape.Frustum

	// panel state
	paused    bool
	stepOnce  bool
	drawTree  bool
	cull      bool
	showTouch bool
	gravity   float32

	selected *physics.Body
	hover    physics.RaycastHit
	hovering bool
	impact   float32
	flashes  map[uint64]float32

	visible int
	stepMs  float64
}

func newViewer(logger *log.Logger) *viewer {
	return &viewer{
		logger:    logger,
		cam:       newFlyCamera(rl.Vector3{X: 18, Y: 14, Z: 18}),
		frustum:   shape.NewFrustum(rl.MatrixIdentity()),
		cull:      true,
		showTouch: true,
		impact:    shape.NoImpact,
		flashes:   make(map[uint64]float32),
	}
}

func (v *viewer) setWorld(w *physics.World, s *physics.Stepper) {
	v.world = w
	v.stepper = s
	v.gravity = -w.Gravity.Y
	w.ContactBegan.AddListener(func(c physics.Contact) {
		v.flashes[c.A.ID()] = 0.3
		v.flashes[c.B.ID()] = 0.3
	})
}

// buildDemo fills w with a floor, a ramp and a pyramid of boxes.
func buildDemo(w *physics.World) error {
	w.CreateBox(rl.Vector3{Y: -0.5}, rl.Vector3{X: 40, Y: 1, Z: 40}, true)

	ramp := w.CreateBody(engine.NewTransformAt(rl.Vector3{X: -8, Y: 1.5, Z: 0}))
	ramp.Static = true
	if err := ramp.SetupFineTreeFromTriangles(scenario.WedgeTriangles(rl.Vector3{X: 4, Y: 1.5, Z: 3}), "demo-ramp"); err != nil {
		return err
	}
	w.CreateBox(rl.Vector3{X: -10, Y: 5, Z: 0}, boxSize, false)

	const rows = 5
	for row := 0; row < rows; row++ {
		for i := 0; i < rows-row; i++ {
			x := float32(i) - float32(rows-row-1)/2 + 4
			w.CreateBox(rl.Vector3{X: x * 1.05, Y: 0.5 + float32(row)*1.02}, boxSize, false)
		}
	}
	w.RefreshStatics()
	w.UpdateBounds()
	return nil
}

func (v *viewer) run() {
	rl.SetConfigFlags(rl.FlagWindowHighdpi | rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(1280, 720, "physview - "+v.title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(120)
	setupStyle()

	for !rl.WindowShouldClose() {
		v.update(rl.GetFrameTime())
		v.draw()
	}
}

func (v *viewer) update(dt float32) {
	v.cam.update(dt)
	cam := v.cam.camera()
	v.frustum.SetViewProjection(viewProjection(cam))

	for id, t := range v.flashes {
		if t -= dt; t <= 0 {
			delete(v.flashes, id)
		} else {
			v.flashes[id] = t
		}
	}

	if rl.IsKeyPressed(rl.KeyP) {
		v.paused = !v.paused
	}
	if rl.IsKeyPressed(rl.KeyF) {
		v.fire(cam)
	}
	if rl.IsKeyPressed(rl.KeySpace) && v.selected != nil && !v.selected.Static {
		v.selected.AddImpulse(rl.Vector3{Y: 8 * v.selected.Mass})
	}
	if rl.IsKeyPressed(rl.KeyDelete) && v.selected != nil {
		v.world.RemoveBody(v.selected)
		v.selected = nil
	}

	// picking ignores the panel area
	mouse := rl.GetMousePosition()
	ray := rl.GetScreenToWorldRay(mouse, cam)
	v.hover, v.hovering = v.world.Raycast(ray.Position, ray.Direction, 500)
	if rl.IsMouseButtonPressed(rl.MouseLeftButton) && !rl.CheckCollisionPointRec(mouse, panelBounds) {
		v.selected = nil
		if v.hovering {
			v.selected = v.hover.Body
		}
	}

	v.world.Gravity = rl.Vector3{Y: -v.gravity}
	start := time.Now()
	if v.paused {
		if v.stepOnce {
			v.world.Step(v.stepper.Step)
		}
		v.stepper.Reset()
	} else {
		v.stepper.Advance(dt, v.world.Step)
	}
	v.stepOnce = false
	v.stepMs = float64(time.Since(start).Microseconds()) / 1000.0

	v.impact = shape.NoImpact
	if v.selected != nil && !v.selected.Static {
		// look one second ahead along the current velocity
		v.impact, _ = v.world.Sweep(v.selected, 1)
	}
}

// fire launches a box from the camera along the view direction.
func (v *viewer) fire(cam rl.Camera3D) {
	dir := rl.Vector3Normalize(rl.Vector3Subtract(cam.Target, cam.Position))
	at := rl.Vector3Add(cam.Position, rl.Vector3Scale(dir, 2))
	b := v.world.CreateBox(at, rl.Vector3{X: 0.5, Y: 0.5, Z: 0.5}, false)
	b.Mass = 0.5
	b.Velocity = rl.Vector3Scale(dir, 25)
	v.logger.Debug("fired", "body", b.ID(), "from", at)
}

func (v *viewer) spawn() {
	at := rl.Vector3{Y: 10}
	if v.hovering {
		at = rl.Vector3Add(v.hover.Point, rl.Vector3{Y: 5})
	}
	b := v.world.CreateBox(at, boxSize, false)
	v.logger.Debug("spawned", "body", b.ID(), "at", at)
}
