package trace

import (
	"fmt"
)

// Count returns the number of samples stored for the current run.
func (r *Recorder) Count() (int, error) {
	var n int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM samples WHERE run_id = ?", r.runID).Scan(&n); err != nil {
		return 0, fmt.Errorf("trace: cannot count samples: %w", err)
	}
	return n, nil
}

// BodyPath returns a body's samples in the given run ordered by tick.
func (r *Recorder) BodyPath(runID int64, bodyID uint64) ([]Sample, error) {
	rows, err := r.db.Query(
		`SELECT tick, body_id, px, py, pz, vx, vy, vz, on_ground
		 FROM samples
		 WHERE run_id = ? AND body_id = ?
		 ORDER BY tick`,
		runID, int64(bodyID),
	)
	if err != nil {
		return nil, fmt.Errorf("trace: cannot query samples: %w", err)
	}
	defer rows.Close()

	var out []Sample
	for rows.Next() {
		var s Sample
		var tick, id int64
		if err := rows.Scan(&tick, &id,
			&s.Position.X, &s.Position.Y, &s.Position.Z,
			&s.Velocity.X, &s.Velocity.Y, &s.Velocity.Z, &s.OnGround); err != nil {
			return nil, fmt.Errorf("trace: cannot scan row: %w", err)
		}
		s.Tick, s.BodyID = uint64(tick), uint64(id)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("trace: row iteration error: %w", err)
	}
	return out, nil
}

// Contacts returns the contact events of a run in tick order.
func (r *Recorder) Contacts(runID int64) ([]ContactEvent, error) {
	rows, err := r.db.Query(
		`SELECT tick, body_a, body_b, began
		 FROM contacts
		 WHERE run_id = ?
		 ORDER BY tick, rowid`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("trace: cannot query contacts: %w", err)
	}
	defer rows.Close()

	var out []ContactEvent
	for rows.Next() {
		var e ContactEvent
		var tick, a, b int64
		if err := rows.Scan(&tick, &a, &b, &e.Began); err != nil {
			return nil, fmt.Errorf("trace: cannot scan row: %w", err)
		}
		e.Tick, e.A, e.B = uint64(tick), uint64(a), uint64(b)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("trace: row iteration error: %w", err)
	}
	return out, nil
}
