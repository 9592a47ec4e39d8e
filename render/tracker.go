// Copyright © 2025 Tela contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: render/tracker.go
// Summary: Tracks the rendition state applied on the backend and emits the
// minimal operations needed to reach a requested style.

package render

import "github.com/framegrace/tela/ansi"

// appliedColor is the tracker's belief about one color plane on the backend.
type appliedColor struct {
	set   bool
	color RGB
	slot  Slot
}

// Tracker owns the terminal rendition state for one rendering session. It
// keeps a logical pen (what the frame's directives request) separate from the
// applied state (what the backend currently shows) and never issues an
// operation that would not change the applied state.
type Tracker struct {
	backend Backend
	palette *palette

	pen Style

	attrs  ansi.Attr
	fg, bg appliedColor
}

// NewTracker returns a tracker for the given backend. The backend is assumed
// to be in its default rendition (fresh from Init).
func NewTracker(b Backend) *Tracker {
	return &Tracker{
		backend: b,
		palette: newPalette(b.SlotCapacity()),
	}
}

// Apply folds one directive into the logical pen. No backend operations are
// issued until Sync.
func (t *Tracker) Apply(d ansi.Directive) {
	t.pen = t.pen.Apply(d)
}

// Pen returns the current logical pen style.
func (t *Tracker) Pen() Style {
	return t.pen
}

// ResetPen returns the pen to the default rendition, as at the start of a
// frame.
func (t *Tracker) ResetPen() {
	t.pen = Style{}
}

// Sync moves the backend's applied rendition to s, issuing only the
// operations whose state actually differs. Color allocation follows the LRU
// slot palette; ErrColorExhausted is returned only when the backend has no
// slots at all, in which case the color degrades to the terminal default.
func (t *Tracker) Sync(s Style) error {
	if s.Attrs != t.attrs {
		t.backend.SetAttrs(s.Attrs)
		t.attrs = s.Attrs
	}
	var firstErr error
	if err := t.syncColor(Foreground, &t.fg, s.Fg); err != nil {
		firstErr = err
	}
	if err := t.syncColor(Background, &t.bg, s.Bg); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func (t *Tracker) syncColor(g Ground, applied *appliedColor, want Color) error {
	if !want.Set {
		if applied.set {
			t.backend.ResetColor(g)
			applied.set = false
		}
		return nil
	}
	slot, define, err := t.palette.slot(want.RGB)
	if err != nil {
		// Zero-capacity backend: fall back to the default color.
		if applied.set {
			t.backend.ResetColor(g)
			applied.set = false
		}
		return err
	}
	if define {
		t.backend.DefineSlot(slot, want.RGB)
	}
	if applied.set && applied.color == want.RGB && applied.slot == slot {
		return nil
	}
	t.backend.SetColor(g, slot)
	*applied = appliedColor{set: true, color: want.RGB, slot: slot}
	return nil
}

// SlotsInUse reports how many backend color slots are currently bound.
func (t *Tracker) SlotsInUse() int {
	return t.palette.len()
}
