// Copyright © 2025 Tela contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: render/engine.go
// Summary: Frame-diffing render engine. Holds the current and previous frame
// as cell buffers and pushes only changed spans to the backend.

package render

import (
	"sync"

	"github.com/framegrace/tela/ansi"
	"github.com/mattn/go-runewidth"
)

// cell is one screen position. A zero rune marks the continuation column of a
// wide rune.
type cell struct {
	r     rune
	style Style
}

var blank = cell{r: ' '}

// Engine turns frame strings into minimal backend writes. It buffers exactly
// two frames (current and previous) regardless of history length, so resident
// memory is bounded by terminal area. Rendering is serialized internally; the
// runtime triggers at most one render per settled step.
type Engine struct {
	mu      sync.Mutex
	backend Backend
	tracker *Tracker
	scanner ansi.Scanner

	cols, rows int
	prev, cur  []cell

	trace TraceSink
	spans []Span
}

// NewEngine returns an engine drawing to b, sized to the backend's current
// dimensions. The backend must already be initialized (its display is assumed
// blank).
func NewEngine(b Backend) *Engine {
	e := &Engine{
		backend: b,
		tracker: NewTracker(b),
	}
	cols, rows := b.Size()
	e.resize(cols, rows)
	return e
}

// Tracker exposes the engine's rendition tracker.
func (e *Engine) Tracker() *Tracker {
	return e.tracker
}

// SetTrace installs a sink observing every render's written spans.
func (e *Engine) SetTrace(t TraceSink) {
	e.mu.Lock()
	e.trace = t
	e.mu.Unlock()
}

// Size returns the engine's current dimensions in cells.
func (e *Engine) Size() (cols, rows int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cols, e.rows
}

// Resize adapts the buffers to a new terminal size and forces the next render
// to repaint everything.
func (e *Engine) Resize(cols, rows int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resize(cols, rows)
	e.backend.Clear()
}

func (e *Engine) resize(cols, rows int) {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	e.cols, e.rows = cols, rows
	e.prev = make([]cell, cols*rows)
	e.cur = make([]cell, cols*rows)
	fill(e.prev, blank)
}

// Invalidate discards the previous-frame buffer so the next render repaints
// the whole frame.
func (e *Engine) Invalidate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	fill(e.prev, blank)
	e.backend.Clear()
}

// Render diffs frame against the previously rendered frame and writes only
// the changed spans. Total writes are proportional to changed cells, not to
// screen area. The first render after construction or Invalidate writes the
// whole frame.
func (e *Engine) Render(frame string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.compose(frame)
	err := e.flushDiff()
	e.prev, e.cur = e.cur, e.prev
	e.backend.Flush()
	if e.trace != nil {
		e.trace.Frame(e.spans)
	}
	return err
}

// compose parses the frame into the current cell buffer, applying SGR
// directives to the pen as they appear.
func (e *Engine) compose(frame string) {
	fill(e.cur, blank)
	e.tracker.ResetPen()
	if e.cols == 0 || e.rows == 0 {
		return
	}

	row, col := 0, 0
	e.scanner.Reset(frame)
	for {
		tok, ok := e.scanner.Next()
		if !ok {
			return
		}
		switch tok.Kind {
		case ansi.TokenSGR:
			for _, d := range ansi.Decode(tok.Params) {
				e.tracker.Apply(d)
			}
		case ansi.TokenText:
			for _, r := range tok.Text {
				switch r {
				case '\n':
					row++
					col = 0
					if row >= e.rows {
						return
					}
					continue
				case '\r':
					col = 0
					continue
				case '\t':
					col = (col/8 + 1) * 8
					continue
				}
				w := runewidth.RuneWidth(r)
				if w == 0 {
					continue
				}
				if col+w > e.cols {
					// Clipped; anything further on this line is off screen.
					col = e.cols
					continue
				}
				pen := e.tracker.Pen()
				e.cur[row*e.cols+col] = cell{r: r, style: pen}
				if w == 2 {
					e.cur[row*e.cols+col+1] = cell{style: pen}
				}
				col += w
			}
		}
	}
}

// flushDiff writes, per row, the span between the first and last differing
// cells, split into runs of equal style.
func (e *Engine) flushDiff() error {
	e.spans = e.spans[:0]
	var firstErr error
	for row := 0; row < e.rows; row++ {
		off := row * e.cols
		prev := e.prev[off : off+e.cols]
		cur := e.cur[off : off+e.cols]

		first := 0
		for first < e.cols && prev[first] == cur[first] {
			first++
		}
		if first == e.cols {
			continue
		}
		last := e.cols - 1
		for last > first && prev[last] == cur[last] {
			last--
		}
		// Never split a wide rune: pull the boundaries onto cell heads.
		for first > 0 && cur[first].r == 0 {
			first--
		}
		for last+1 < e.cols && cur[last+1].r == 0 {
			last++
		}
		if err := e.writeSpan(row, first, last, cur); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// writeSpan emits cells [first,last] of a row as one backend write per style
// run, syncing the rendition immediately before the text it governs.
func (e *Engine) writeSpan(row, first, last int, cur []cell) error {
	var firstErr error
	runStart := first
	runStyle := cur[first].style
	var text []rune

	emit := func() {
		if len(text) == 0 {
			return
		}
		if err := e.tracker.Sync(runStyle); err != nil && firstErr == nil {
			firstErr = err
		}
		s := string(text)
		e.backend.WriteAt(row, runStart, s)
		if e.trace != nil {
			e.spans = append(e.spans, Span{Row: row, Col: runStart, Text: s, Style: runStyle})
		}
	}

	for i := first; i <= last; i++ {
		c := cur[i]
		if c.r == 0 {
			// Continuation column of the preceding wide rune.
			continue
		}
		if c.style != runStyle {
			emit()
			runStart = i
			runStyle = c.style
			text = text[:0]
		}
		text = append(text, c.r)
	}
	emit()
	return firstErr
}

func fill(cells []cell, c cell) {
	for i := range cells {
		cells[i] = c
	}
}
