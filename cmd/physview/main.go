// physview opens a window on a physics world.
//
// Usage:
//
//	physview                    - Demo pile of boxes and a ramp
//	physview <scenario.yaml>    - View a scenario file
//	physview --maze --seed 7    - View a generated maze
//
// Controls: right mouse to look, WASD/QE to fly, left click to select,
// space to kick the selection, F to fire a box, P to pause.
package main

import (
	"fmt"
	"os"

	"dungeon3d/internal/config"
	"dungeon3d/internal/levelgen"
	"dungeon3d/internal/scenario"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	flagConfig   string
	flagMaze     bool
	flagSeed     int64
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "physview [scenario.yaml]",
	Short:        "Interactive viewer for the dungeon3d physics world",
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "Path to physics.yaml")
	rootCmd.Flags().BoolVar(&flagMaze, "maze", false, "Generate a maze instead of loading a scene")
	rootCmd.Flags().Int64Var(&flagSeed, "seed", 0, "Maze seed (0 = random)")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "info", "Log level")
}

func run(cmd *cobra.Command, args []string) error {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return err
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "physview",
		Level:           level,
	})
	log.SetDefault(logger)

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	v := newViewer(logger)
	switch {
	case len(args) == 1:
		scene, err := scenario.Load(args[0])
		if err != nil {
			return err
		}
		in, err := scene.Build(cfg)
		if err != nil {
			return err
		}
		v.title = scene.Name
		v.setWorld(in.World, in.Stepper)
	case flagMaze:
		w, stepper, err := cfg.NewWorld()
		if err != nil {
			return err
		}
		mc := levelgen.DefaultConfig()
		mc.Seed = flagSeed
		level := levelgen.Generate(mc)
		levelgen.Build(w, level)
		start := level.CellCenter(level.Start)
		start.Y = 1
		w.CreateBox(start, boxSize, false)
		v.title = "maze"
		v.setWorld(w, stepper)
	default:
		w, stepper, err := cfg.NewWorld()
		if err != nil {
			return err
		}
		if err := buildDemo(w); err != nil {
			return err
		}
		v.title = "demo"
		v.setWorld(w, stepper)
	}

	logger.Info("opening viewer", "scene", v.title, "bodies", v.world.BodyCount())
	v.run()
	return nil
}
