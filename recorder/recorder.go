// Copyright © 2025 Tela contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: recorder/recorder.go
// Summary: SQLite-backed session recorder storing per-step messages and frame deltas.

package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/framegrace/tela"
	"github.com/framegrace/tela/render"
)

const recorderSchema = `
CREATE TABLE IF NOT EXISTS steps (
    seq INTEGER PRIMARY KEY,
    at  INTEGER NOT NULL,
    msg TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS frames (
    seq   INTEGER PRIMARY KEY,
    delta BLOB NOT NULL
);
`

// Recorder captures a program session into a SQLite file. Sequence 0 holds
// the opening render; each processed message bumps the sequence, and the
// render that follows it (if any) is stored under the same sequence.
//
// It implements tela.SessionSink and is safe for use from the program's
// message goroutine.
type Recorder struct {
	db *sql.DB

	mu  sync.Mutex
	seq int64
}

// StepRecord is one replayable step of a recorded session.
type StepRecord struct {
	Seq   int64
	At    time.Time
	Msg   string
	Delta *FrameDelta
}

// Open creates or appends to the recording at path.
func Open(path string) (*Recorder, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	dsn := path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=temp_store(MEMORY)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.Exec(recorderSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	r := &Recorder{db: db}
	if err := r.loadSeq(); err != nil {
		db.Close()
		return nil, err
	}
	if err := r.insertStep(r.seq, "open"); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Recorder) loadSeq() error {
	var max sql.NullInt64
	if err := r.db.QueryRow("SELECT MAX(seq) FROM steps").Scan(&max); err != nil {
		return fmt.Errorf("failed to read sequence: %w", err)
	}
	if max.Valid {
		r.seq = max.Int64 + 1
	}
	return nil
}

func (r *Recorder) insertStep(seq int64, msg string) error {
	_, err := r.db.Exec(
		"INSERT OR REPLACE INTO steps (seq, at, msg) VALUES (?, ?, ?)",
		seq, time.Now().UnixMilli(), msg)
	if err != nil {
		return fmt.Errorf("failed to record step: %w", err)
	}
	return nil
}

// Step records one processed message under the next sequence number.
func (r *Recorder) Step(msg tela.Msg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	_ = r.insertStep(r.seq, describeMsg(msg))
}

// Frame records the spans a render wrote, attached to the current step.
func (r *Recorder) Frame(spans []render.Span) {
	r.mu.Lock()
	defer r.mu.Unlock()
	blob, err := EncodeFrameDelta(DeltaFromSpans(spans))
	if err != nil {
		return
	}
	r.db.Exec("INSERT OR REPLACE INTO frames (seq, delta) VALUES (?, ?)", r.seq, blob)
}

func describeMsg(msg tela.Msg) string {
	return fmt.Sprintf("%T %v", msg, msg)
}

// Steps loads every recorded step in sequence order. Steps that produced no
// render carry a nil Delta.
func (r *Recorder) Steps() ([]StepRecord, error) {
	rows, err := r.db.Query(`
		SELECT s.seq, s.at, s.msg, f.delta
		FROM steps s LEFT JOIN frames f ON f.seq = s.seq
		ORDER BY s.seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query steps: %w", err)
	}
	defer rows.Close()

	var out []StepRecord
	for rows.Next() {
		var (
			rec  StepRecord
			at   int64
			blob []byte
		)
		if err := rows.Scan(&rec.Seq, &at, &rec.Msg, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan step: %w", err)
		}
		rec.At = time.UnixMilli(at)
		if blob != nil {
			delta, err := DecodeFrameDelta(blob)
			if err != nil {
				return nil, fmt.Errorf("step %d: %w", rec.Seq, err)
			}
			rec.Delta = &delta
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close flushes and closes the underlying database.
func (r *Recorder) Close() error {
	return r.db.Close()
}
