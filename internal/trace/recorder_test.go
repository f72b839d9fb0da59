package trace

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"dungeon3d/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func openTest(t *testing.T) *Recorder {
	t.Helper()
	r, err := Open(filepath.Join(t.TempDir(), "nested", "trace.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestOpenCreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a", "b", "trace.db")
	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer r.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestRecordRequiresRun(t *testing.T) {
	r := openTest(t)
	if err := r.Record(0, nil); !errors.Is(err, ErrNoRun) {
		t.Errorf("Expected ErrNoRun, got %v", err)
	}
}

func TestRecordDrop(t *testing.T) {
	r := openTest(t)
	run, err := r.BeginRun("drop", 60)
	if err != nil {
		t.Fatal(err)
	}

	w := physics.NewDefaultWorld()
	w.CreateBox(rl.Vector3{Y: -0.5}, rl.Vector3{X: 10, Y: 1, Z: 10}, true)
	box := w.CreateBox(rl.Vector3{Y: 2}, rl.Vector3{X: 1, Y: 1, Z: 1}, false)
	r.Attach(w)

	const ticks = 90
	for i := 0; i < ticks; i++ {
		w.Step(float32(1) / 60)
		if err := r.Record(w.Tick(), w.Bodies()); err != nil {
			t.Fatalf("Record() failed: %v", err)
		}
	}
	if r.Err() != nil {
		t.Fatalf("Contact recording failed: %v", r.Err())
	}

	// the static floor is not sampled
	n, err := r.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != ticks {
		t.Errorf("Expected %d samples, got %d", ticks, n)
	}

	path, err := r.BodyPath(run, box.ID())
	if err != nil {
		t.Fatal(err)
	}
	if len(path) != ticks {
		t.Fatalf("Expected %d samples for the box, got %d", ticks, len(path))
	}
	if path[0].Tick != 1 || path[ticks-1].Tick != ticks {
		t.Errorf("Expected ticks 1..%d, got %d..%d", ticks, path[0].Tick, path[ticks-1].Tick)
	}
	if path[0].Position.Y >= 2 || path[0].OnGround {
		t.Errorf("Expected the box to be falling at first, got %+v", path[0])
	}
	last := path[ticks-1]
	if !last.OnGround || last.Position != box.Position() {
		t.Errorf("Expected the last sample to match the resting box, got %+v", last)
	}

	contacts, err := r.Contacts(run)
	if err != nil {
		t.Fatal(err)
	}
	if len(contacts) != 1 || !contacts[0].Began || contacts[0].B != box.ID() {
		t.Errorf("Expected one begin event for the box, got %+v", contacts)
	}
}

func TestRunsAreSeparate(t *testing.T) {
	r := openTest(t)
	w := physics.NewDefaultWorld()
	w.CreateBody(nil)

	first, _ := r.BeginRun("a", 60)
	r.Record(1, w.Bodies())
	r.Record(2, w.Bodies())

	second, _ := r.BeginRun("b", 30)
	if second == first {
		t.Fatal("Expected a new run id")
	}
	r.Record(1, w.Bodies())

	if n, _ := r.Count(); n != 1 {
		t.Errorf("Expected 1 sample in the second run, got %d", n)
	}
	path, _ := r.BodyPath(first, w.Bodies()[0].ID())
	if len(path) != 2 {
		t.Errorf("Expected 2 samples in the first run, got %d", len(path))
	}
}
