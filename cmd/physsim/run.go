package main

import (
	"fmt"

	"dungeon3d/internal/scenario"

	"github.com/spf13/cobra"
)

var flagRunSave string

var runCmd = &cobra.Command{
	Use:   "run <scenario.yaml>",
	Short: "Run a scenario file",
	Long: `Loads a scenario, builds it on top of the world configuration and
steps it for the scenario's tick count (or --ticks).

Examples:
  physsim run scenarios/ramp.yaml
  physsim run scenarios/stack.yaml --ticks 120 --save /tmp/stack-end.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runScenario,
}

func init() {
	runCmd.Flags().StringVar(&flagRunSave, "save", "", "Write the final state as a scenario file")
}

func runScenario(cmd *cobra.Command, args []string) error {
	scene, err := scenario.Load(args[0])
	if err != nil {
		return err
	}
	in, err := scene.Build(cfg)
	if err != nil {
		return err
	}

	name := scene.Name
	if name == "" {
		name = args[0]
	}
	s, err := newSession(name, in.World, in.Stepper)
	if err != nil {
		return err
	}
	defer s.close()

	ticks := ticksOr(scene.Ticks)
	if ticks == 0 {
		ticks = int(10 / in.Stepper.Step)
	}
	logger.Info("running scenario", "name", name, "objects", len(scene.Objects), "ticks", ticks)
	if err := s.run(ticks); err != nil {
		return err
	}

	r := newReport(name)
	s.summary(r)
	r.section("objects")
	for i := range scene.Objects {
		o := &scene.Objects[i]
		b := in.Body(o.Name)
		if b == nil || b.Static {
			continue
		}
		p := b.Position()
		state := "airborne"
		if b.OnGround() {
			state = "grounded"
		}
		r.row(o.Name, fmt.Sprintf("(%.2f, %.2f, %.2f)", p.X, p.Y, p.Z), state)
	}

	if flagRunSave != "" {
		if err := scenario.Save(flagRunSave, in.Capture()); err != nil {
			return err
		}
		logger.Info("saved final state", "path", flagRunSave)
	}
	r.print()
	return nil
}
