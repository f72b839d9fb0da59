package physics

import "github.com/chewxy/math32"

// Stepper converts variable frame times into fixed simulation steps.
type Stepper struct {
	Step     float32
	MaxSteps int
	acc      float32
}

// NewStepper creates a stepper running tickRate steps per second and at
// most maxSteps per frame.
func NewStepper(tickRate float32, maxSteps int) *Stepper {
	if tickRate <= 0 {
		tickRate = 60
	}
	if maxSteps < 1 {
		maxSteps = 1
	}
	return &Stepper{Step: 1 / tickRate, MaxSteps: maxSteps}
}

// Advance adds frameTime to the accumulator and calls step once per whole
// fixed step, up to MaxSteps. Whole steps beyond the cap are dropped.
// It returns the number of steps taken.
func (s *Stepper) Advance(frameTime float32, step func(dt float32)) int {
	if frameTime > 0 {
		s.acc += frameTime
	}
	n := 0
	for s.acc >= s.Step {
		if n == s.MaxSteps {
			s.acc = math32.Mod(s.acc, s.Step)
			break
		}
		step(s.Step)
		s.acc -= s.Step
		n++
	}
	return n
}

// Alpha is the fraction of a step left in the accumulator, for interpolation.
func (s *Stepper) Alpha() float32 {
	return s.acc / s.Step
}

func (s *Stepper) Reset() {
	s.acc = 0
}
