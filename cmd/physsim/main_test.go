package main

import (
	"path/filepath"
	"strings"
	"testing"

	"dungeon3d/internal/scenario"
	"dungeon3d/internal/trace"
)

func execute(t *testing.T, args ...string) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	flagTicks, flagTrace, flagConfig = 0, "", ""
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("physsim %s failed: %v", strings.Join(args, " "), err)
	}
}

func TestDropWithTrace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drop.db")
	execute(t, "drop", "--count", "4", "--ticks", "30", "--trace", path, "--log-level", "warn")

	rec, err := trace.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer rec.Close()

	// body 1 is the floor, body 2 the first box
	samples, err := rec.BodyPath(1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 30 {
		t.Errorf("Expected 30 samples, got %d", len(samples))
	}
}

func TestRunScenarioSaves(t *testing.T) {
	out := filepath.Join(t.TempDir(), "end.yaml")
	execute(t, "run", filepath.Join("..", "..", "scenarios", "stack.yaml"), "--ticks", "20", "--save", out, "--log-level", "error")

	s, err := scenario.Load(out)
	if err != nil {
		t.Fatalf("Expected a loadable snapshot, got %v", err)
	}
	if len(s.Objects) != 5 {
		t.Errorf("Expected 5 objects, got %d", len(s.Objects))
	}
	if bullet := s.Objects[4]; bullet.Position[0] <= -8 {
		t.Errorf("Expected the bullet to have moved, got %v", bullet.Position)
	}
}

func TestBadLogLevel(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	rootCmd.SetArgs([]string{"bench", "--log-level", "loud"})
	if err := rootCmd.Execute(); err == nil {
		t.Error("Expected an error for an unknown log level")
	}
}

func TestReportRows(t *testing.T) {
	r := newReport("test")
	r.row("gravity", float32(-9.81))
	r.row("pair", 1, 2)
	out := r.String()
	for _, want := range []string{"test", "gravity", "-9.810", "1 / 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected report to contain %q:\n%s", want, out)
		}
	}
}
