package main

import (
	"dungeon3d/internal/levelgen"
	"dungeon3d/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/spf13/cobra"
)

var mazeFlags levelgen.Config

var mazeCmd = &cobra.Command{
	Use:   "maze",
	Short: "Generate a maze and roll bodies through it",
	Long: `Generates a maze level, builds its walls as static bodies, drops a
player at the start and a body in every few rooms along the solution path,
then pushes them all towards the exit.`,
	RunE: runMaze,
}

func init() {
	def := levelgen.DefaultConfig()
	mazeCmd.Flags().IntVar(&mazeFlags.Width, "width", def.Width, "Rooms along X")
	mazeCmd.Flags().IntVar(&mazeFlags.Height, "height", def.Height, "Rooms along Z")
	mazeCmd.Flags().Float32Var(&mazeFlags.CellSize, "cell", def.CellSize, "Room size")
	mazeCmd.Flags().Float32Var(&mazeFlags.WallHeight, "wall-height", def.WallHeight, "Wall height")
	mazeCmd.Flags().Float32Var(&mazeFlags.WallThickness, "wall-thickness", def.WallThickness, "Wall thickness")
	mazeCmd.Flags().Int64Var(&mazeFlags.Seed, "seed", 0, "Maze seed (0 = random)")
}

func runMaze(cmd *cobra.Command, args []string) error {
	level := levelgen.Generate(mazeFlags)
	w, stepper, err := cfg.NewWorld()
	if err != nil {
		return err
	}
	levelgen.Build(w, level)

	spawn := func(p levelgen.Point, size float32) {
		at := level.CellCenter(p)
		at.Y = size/2 + 1
		b := w.CreateBox(at, rl.Vector3{X: size, Y: size, Z: size}, false)
		b.Drag = 0.5
	}
	spawn(level.Start, 1)
	for i, p := range level.Path {
		if i > 0 && i%6 == 0 && p.X%2 == 1 && p.Y%2 == 1 {
			spawn(p, 0.75)
		}
	}

	// everything drifts towards the exit
	exit := level.CellCenter(level.End)
	push := func() {
		for _, b := range w.Bodies() {
			if b.Static {
				continue
			}
			d := rl.Vector3Subtract(exit, b.Position())
			d.Y = 0
			if l := rl.Vector3Length(d); l > 0.5 {
				b.AddForce(rl.Vector3Scale(d, 8*b.Mass/l))
			}
		}
	}

	s, err := newSession("maze", w, stepper)
	if err != nil {
		return err
	}
	defer s.close()

	ticks := ticksOr(int(20 / stepper.Step))
	logger.Info("maze", "rooms", mazeFlags.Width*mazeFlags.Height, "walls", len(level.Walls), "ticks", ticks)
	for i := 0; i < ticks; i++ {
		push()
		if err := s.run(1); err != nil {
			return err
		}
	}

	r := newReport("maze")
	s.summary(r)
	r.section("level")
	r.row("grid", len(level.Grid[0]), len(level.Grid))
	r.row("wall placements", len(level.Walls))
	r.row("solution length", len(level.Path))

	eye := func(p rl.Vector3) rl.Vector3 { p.Y = 1; return p }
	from, to := eye(level.CellCenter(level.Start)), eye(exit)
	walls := func(b *physics.Body) bool { return b.Static }
	if hit, ok := w.RaycastFiltered(from, rl.Vector3Subtract(to, from), rl.Vector3Distance(from, to), walls); ok {
		r.row("start to exit sight", "blocked by wall", hit.Body.ID())
	} else {
		r.row("start to exit sight", "clear")
	}
	r.print()
	return nil
}
