package main

import (
	"time"

	"dungeon3d/internal/physics"
	"dungeon3d/internal/trace"
)

// session steps a world for a number of ticks, recording to a trace when
// --trace is set.
type session struct {
	name    string
	world   *physics.World
	stepper *physics.Stepper
	rec     *trace.Recorder

	began, ended int
	elapsed      time.Duration
}

func newSession(name string, w *physics.World, s *physics.Stepper) (*session, error) {
	ss := &session{name: name, world: w, stepper: s}
	w.ContactBegan.AddListener(func(physics.Contact) { ss.began++ })
	w.ContactEnded.AddListener(func(physics.Contact) { ss.ended++ })

	if flagTrace == "" {
		return ss, nil
	}
	rec, err := trace.Open(flagTrace)
	if err != nil {
		return nil, err
	}
	run, err := rec.BeginRun(name, 1/s.Step)
	if err != nil {
		rec.Close()
		return nil, err
	}
	rec.Attach(w)
	ss.rec = rec
	logger.Info("tracing", "path", flagTrace, "run", run)
	return ss, nil
}

func (s *session) run(ticks int) error {
	start := time.Now()
	for i := 0; i < ticks; i++ {
		s.world.Step(s.stepper.Step)
		if s.rec == nil {
			continue
		}
		if err := s.rec.Record(s.world.Tick(), s.world.Bodies()); err != nil {
			return err
		}
	}
	s.elapsed += time.Since(start)
	if s.rec != nil {
		return s.rec.Err()
	}
	return nil
}

func (s *session) close() {
	if s.rec != nil {
		if err := s.rec.Close(); err != nil {
			logger.Warn("closing trace", "error", err)
		}
	}
}

// summary collects the common report rows.
func (s *session) summary(r *report) {
	var grounded, moving int
	for _, b := range s.world.Bodies() {
		if b.Static {
			continue
		}
		if b.OnGround() {
			grounded++
		}
		if v := b.Velocity; v.X*v.X+v.Y*v.Y+v.Z*v.Z > 1e-4 {
			moving++
		}
	}
	stats := s.world.Tree().Stats()

	r.row("ticks", s.world.Tick())
	r.row("bodies", s.world.BodyCount())
	r.row("grounded", grounded)
	r.row("moving", moving)
	r.row("contacts began / ended", s.began, s.ended)
	r.row("active contacts", len(s.world.ActiveContacts()))
	r.row("tree nodes / leaves / depth", stats.Nodes, stats.Leaves, stats.MaxDepth)
	if t := s.world.Tick(); t > 0 {
		r.row("wall time", s.elapsed.Round(time.Microsecond))
		r.row("per tick", (s.elapsed / time.Duration(t)).Round(time.Microsecond))
	}
}
