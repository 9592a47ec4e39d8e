// Copyright © 2025 Tela contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: render/backend.go
// Summary: Terminal backend interface the engine renders through.
// Usage: Implemented by the tcell driver, the inline term driver, and fakes
// in tests. The runtime never touches the physical terminal directly.

package render

import (
	"errors"

	"github.com/framegrace/tela/ansi"
)

// Ground selects which color plane an operation targets.
type Ground int

const (
	Foreground Ground = iota
	Background
)

// Slot identifies one backend color resource. Slots are a bounded pool; the
// Tracker owns allocation and reuse.
type Slot int

// ErrColorExhausted is reported when a color cannot be placed in any slot,
// which only happens on a zero-capacity backend.
var ErrColorExhausted = errors.New("render: color slots exhausted")

// Event is a raw input occurrence reported by a backend. Concrete types are
// KeyEvent, ResizeEvent, and InterruptEvent.
type Event interface{}

// KeyEvent reports one key press. Named keys carry Name ("up", "enter", ...);
// character keys carry Rune.
type KeyEvent struct {
	Name  string
	Rune  rune
	Alt   bool
	Ctrl  bool
	Shift bool
}

// ResizeEvent reports a new terminal size in cells.
type ResizeEvent struct {
	Cols, Rows int
}

// InterruptEvent is delivered after Interrupt is called, waking a PollEvent
// loop so it can shut down.
type InterruptEvent struct{}

// Backend is the terminal collaborator. Attribute and color operations are
// ambient: they apply to every subsequent WriteAt until changed.
//
// Backends are not safe for concurrent use except for Interrupt, which may be
// called from any goroutine.
type Backend interface {
	// Init prepares the terminal. An error here is fatal to the runtime.
	Init() error
	// Restore returns the terminal to its pre-Init state. Safe to call on
	// every exit path.
	Restore()

	Size() (cols, rows int)
	// Clear erases the whole display.
	Clear()
	// WriteAt writes text starting at the given cell using the ambient
	// rendition.
	WriteAt(row, col int, text string)
	// Flush makes all writes since the previous Flush visible.
	Flush()

	// SetAttrs replaces the ambient attribute set in one batch.
	SetAttrs(a ansi.Attr)
	// SetColor activates a previously defined slot on the given plane.
	SetColor(g Ground, s Slot)
	// ResetColor restores the terminal default on the given plane.
	ResetColor(g Ground)
	// SlotCapacity reports how many color slots the backend can hold.
	SlotCapacity() int
	// DefineSlot binds a slot to a color, redefining it if already bound.
	DefineSlot(s Slot, c RGB)

	// PollEvent blocks for the next input event. It returns nil once the
	// backend is finished.
	PollEvent() Event
	// Interrupt wakes a blocked PollEvent with an InterruptEvent.
	Interrupt()
}
