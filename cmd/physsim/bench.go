package main

import (
	"fmt"
	"math/rand"
	"time"

	"dungeon3d/internal/physics"
	"dungeon3d/internal/shape"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/spf13/cobra"
)

var flagBenchCounts []int

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Compare tree and naive broad phase",
	Long: `Scatters boxes in a cube whose size grows with the count, then times
the tree broad phase against an O(n^2) bounds test, and a full world step.`,
	RunE: runBench,
}

func init() {
	benchCmd.Flags().IntSliceVar(&flagBenchCounts, "counts", []int{100, 500, 1000, 2000, 5000}, "Body counts to test")
}

func runBench(cmd *cobra.Command, args []string) error {
	r := newReport("broad phase")
	for _, count := range flagBenchCounts {
		if err := benchBroadPhase(r, count); err != nil {
			return err
		}
	}
	r.print()
	return nil
}

func benchBroadPhase(r *report, count int) error {
	w, _, err := cfg.NewWorld()
	if err != nil {
		return err
	}
	w.Gravity = rl.Vector3{}
	rng := rand.New(rand.NewSource(42)) // Consistent results

	// Spawn in a cube, size scales with count to keep density reasonable
	spawnSize := float32(50.0) + float32(count)/100.0
	for i := 0; i < count; i++ {
		size := 0.5 + rng.Float32()*0.5
		w.CreateBox(rl.Vector3{
			X: rng.Float32()*spawnSize - spawnSize/2,
			Y: rng.Float32()*spawnSize - spawnSize/2,
			Z: rng.Float32()*spawnSize - spawnSize/2,
		}, rl.Vector3{X: size, Y: size, Z: size}, false)
	}
	w.UpdateBounds()
	bodies := w.Bodies()

	const iterations = 10

	treeStart := time.Now()
	var treePairs int
	for iter := 0; iter < iterations; iter++ {
		treePairs = 0
		for _, b := range bodies {
			w.Tree().QueryFunc(func(o *physics.Body) bool {
				if o.ID() > b.ID() && shape.Overlap(b.Bounds(), o.Bounds()) {
					treePairs++
				}
				return true
			}, b.Bounds())
		}
	}
	treeTime := time.Since(treeStart) / iterations

	naiveStart := time.Now()
	var naivePairs int
	for iter := 0; iter < iterations; iter++ {
		naivePairs = 0
		for i := 0; i < len(bodies); i++ {
			amin, amax := bodies[i].Bounds().Bounds()
			for j := i + 1; j < len(bodies); j++ {
				bmin, bmax := bodies[j].Bounds().Bounds()
				if shape.Overlaps(amin, amax, bmin, bmax) && shape.Overlap(bodies[i].Bounds(), bodies[j].Bounds()) {
					naivePairs++
				}
			}
		}
	}
	naiveTime := time.Since(naiveStart) / iterations

	stepStart := time.Now()
	for iter := 0; iter < iterations; iter++ {
		w.Step(float32(1) / 60)
	}
	stepTime := time.Since(stepStart) / iterations

	speedup := float64(naiveTime) / float64(max(treeTime, 1))
	stats := w.Tree().Stats()
	r.section(fmt.Sprintf("%d bodies", count))
	r.row("tree / naive", treeTime.Round(time.Microsecond), naiveTime.Round(time.Microsecond))
	r.row("pairs tree / naive", treePairs, naivePairs)
	r.row("speedup", float32(speedup))
	r.row("world step", stepTime.Round(time.Microsecond))
	r.row("tree nodes / depth", stats.Nodes, stats.MaxDepth)
	if treePairs != naivePairs {
		r.warn("pair counts differ")
	}
	return nil
}
