// Package trace records simulation runs to SQLite for later inspection.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package trace

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"dungeon3d/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var ErrNoRun = errors.New("trace: no run started")

// Recorder writes body samples and contact events of one or more runs.
type Recorder struct {
	db    *sql.DB
	runID int64
	err   error // first failure inside a contact listener
}

// Sample is the state of one body at one tick.
type Sample struct {
	Tick     uint64
	BodyID   uint64
	Position rl.Vector3
	Velocity rl.Vector3
	OnGround bool
}

// ContactEvent is a recorded begin or end of contact.
type ContactEvent struct {
	Tick  uint64
	A, B  uint64
	Began bool
}

// Open creates or opens a trace database at the given path.
func Open(dbPath string) (*Recorder, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("trace: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("trace: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("trace: cannot connect to database: %w", err)
	}

	r := &Recorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("trace: migration failed: %w", err)
	}
	return r, nil
}

func (r *Recorder) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			tick_rate REAL NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS samples (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			tick INTEGER NOT NULL,
			body_id INTEGER NOT NULL,
			px REAL NOT NULL, py REAL NOT NULL, pz REAL NOT NULL,
			vx REAL NOT NULL, vy REAL NOT NULL, vz REAL NOT NULL,
			on_ground INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_samples_body ON samples(run_id, body_id, tick);

		CREATE TABLE IF NOT EXISTS contacts (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			tick INTEGER NOT NULL,
			body_a INTEGER NOT NULL,
			body_b INTEGER NOT NULL,
			began INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_contacts_run ON contacts(run_id, tick);
	`
	_, err := r.db.Exec(schema)
	return err
}

func (r *Recorder) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// BeginRun starts a new run; later records belong to it.
func (r *Recorder) BeginRun(name string, tickRate float32) (int64, error) {
	res, err := r.db.Exec("INSERT INTO runs (name, tick_rate) VALUES (?, ?)", name, tickRate)
	if err != nil {
		return 0, fmt.Errorf("trace: cannot start run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("trace: cannot get run ID: %w", err)
	}
	r.runID = id
	return id, nil
}

func (r *Recorder) RunID() int64 { return r.runID }

// Record stores one sample per body for the given tick in a single
// transaction. Static bodies are skipped.
func (r *Recorder) Record(tick uint64, bodies []*physics.Body) error {
	if r.runID == 0 {
		return ErrNoRun
	}
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("trace: cannot begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO samples
		(run_id, tick, body_id, px, py, pz, vx, vy, vz, on_ground)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("trace: cannot prepare: %w", err)
	}
	defer stmt.Close()

	for _, b := range bodies {
		if b.Static {
			continue
		}
		p, v := b.Position(), b.Velocity
		if _, err := stmt.Exec(r.runID, int64(tick), int64(b.ID()),
			p.X, p.Y, p.Z, v.X, v.Y, v.Z, b.OnGround()); err != nil {
			return fmt.Errorf("trace: cannot record body %d: %w", b.ID(), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("trace: cannot commit: %w", err)
	}
	return nil
}

// RecordContact stores one contact event.
func (r *Recorder) RecordContact(tick uint64, c physics.Contact, began bool) error {
	if r.runID == 0 {
		return ErrNoRun
	}
	_, err := r.db.Exec("INSERT INTO contacts (run_id, tick, body_a, body_b, began) VALUES (?, ?, ?, ?, ?)",
		r.runID, int64(tick), int64(c.A.ID()), int64(c.B.ID()), began)
	if err != nil {
		return fmt.Errorf("trace: cannot record contact: %w", err)
	}
	return nil
}

// Attach records w's contact events as they happen. The first failure is
// kept and reported by Err.
func (r *Recorder) Attach(w *physics.World) {
	keep := func(err error) {
		if err != nil && r.err == nil {
			r.err = err
		}
	}
	w.ContactBegan.AddListener(func(c physics.Contact) { keep(r.RecordContact(w.Tick(), c, true)) })
	w.ContactEnded.AddListener(func(c physics.Contact) { keep(r.RecordContact(w.Tick(), c, false)) })
}

func (r *Recorder) Err() error { return r.err }
