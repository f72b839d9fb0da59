package main

import (
	"math/rand"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/spf13/cobra"
)

var (
	flagDropCount int
	flagDropSeed  int64
)

var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Drop a pile of boxes onto a floor",
	Long: `Scatters boxes above a static floor, lets them fall and settle, and
reports how many came to rest.`,
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().IntVar(&flagDropCount, "count", 64, "Number of boxes")
	dropCmd.Flags().Int64Var(&flagDropSeed, "seed", 42, "Placement seed")
}

func runDrop(cmd *cobra.Command, args []string) error {
	w, stepper, err := cfg.NewWorld()
	if err != nil {
		return err
	}
	rng := rand.New(rand.NewSource(flagDropSeed))

	// floor grows with the pile so boxes spread rather than tower
	side := 8 + 2*math32.Sqrt(float32(flagDropCount))
	w.CreateBox(rl.Vector3{Y: -0.5}, rl.Vector3{X: side, Y: 1, Z: side}, true)
	for i := 0; i < flagDropCount; i++ {
		size := 0.5 + rng.Float32()
		b := w.CreateBox(rl.Vector3{
			X: (rng.Float32() - 0.5) * (side - 2),
			Y: 2 + float32(i)*0.6,
			Z: (rng.Float32() - 0.5) * (side - 2),
		}, rl.Vector3{X: size, Y: size, Z: size}, false)
		b.Mass = size * size * size
		b.Restitution = rng.Float32() * 0.3
	}

	s, err := newSession("drop", w, stepper)
	if err != nil {
		return err
	}
	defer s.close()

	ticks := ticksOr(int(10 / stepper.Step))
	logger.Info("dropping", "boxes", flagDropCount, "ticks", ticks)
	if err := s.run(ticks); err != nil {
		return err
	}

	r := newReport("drop")
	s.summary(r)

	var lowest, highest float32 = math32.Inf(1), math32.Inf(-1)
	fallen := 0
	for _, b := range w.Bodies() {
		if b.Static {
			continue
		}
		y := b.Position().Y
		lowest, highest = math32.Min(lowest, y), math32.Max(highest, y)
		if y < -1 {
			fallen++
		}
	}
	r.section("pile")
	r.row("lowest / highest center", lowest, highest)
	if fallen > 0 {
		r.warn("%d boxes fell off the floor", fallen)
	}
	r.print()
	return nil
}
