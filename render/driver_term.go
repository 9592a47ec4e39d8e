// Copyright © 2025 Tela contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: render/driver_term.go
// Summary: Backend that talks to a tty directly with escape sequences, using
// golang.org/x/term for raw mode and size. Useful where tcell is too heavy,
// and for deterministic output in recordings.

//go:build unix

package render

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"unicode/utf8"

	"github.com/framegrace/tela/ansi"
	"golang.org/x/term"
)

// TermBackend renders through raw escape sequences on a tty. Color slots are
// plain stored RGB values; the terminal is assumed truecolor-capable.
type TermBackend struct {
	in, out  *os.File
	oldState *term.State

	attrs  ansi.Attr
	fg, bg struct {
		set bool
		c   RGB
	}
	slots []RGB

	events   chan Event
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewTermBackend returns a backend on stdin/stdout.
func NewTermBackend() *TermBackend {
	return &TermBackend{
		in:     os.Stdin,
		out:    os.Stdout,
		events: make(chan Event, 16),
		stopCh: make(chan struct{}),
	}
}

func (b *TermBackend) Init() error {
	state, err := term.MakeRaw(int(b.in.Fd()))
	if err != nil {
		return fmt.Errorf("term backend: %w", err)
	}
	b.oldState = state
	// Alternate screen, hidden cursor, cleared display.
	fmt.Fprint(b.out, "\x1b[?1049h\x1b[?25l\x1b[2J\x1b[H")
	go b.readLoop()
	go b.resizeLoop()
	return nil
}

func (b *TermBackend) Restore() {
	b.stopOnce.Do(func() { close(b.stopCh) })
	fmt.Fprint(b.out, "\x1b[0m\x1b[?25h\x1b[?1049l")
	if b.oldState != nil {
		term.Restore(int(b.in.Fd()), b.oldState)
	}
}

func (b *TermBackend) Size() (int, int) {
	cols, rows, err := term.GetSize(int(b.in.Fd()))
	if err != nil {
		return 80, 24
	}
	return cols, rows
}

func (b *TermBackend) Clear() {
	fmt.Fprint(b.out, "\x1b[2J")
}

func (b *TermBackend) WriteAt(row, col int, text string) {
	fmt.Fprintf(b.out, "\x1b[%d;%dH%s", row+1, col+1, text)
}

func (b *TermBackend) Flush() {}

func (b *TermBackend) SetAttrs(a ansi.Attr) {
	b.attrs = a
	b.applyStyle()
}

func (b *TermBackend) SetColor(g Ground, s Slot) {
	if int(s) < 0 || int(s) >= len(b.slots) {
		return
	}
	if g == Foreground {
		b.fg.set, b.fg.c = true, b.slots[s]
	} else {
		b.bg.set, b.bg.c = true, b.slots[s]
	}
	b.applyStyle()
}

func (b *TermBackend) ResetColor(g Ground) {
	if g == Foreground {
		b.fg.set = false
	} else {
		b.bg.set = false
	}
	b.applyStyle()
}

// applyStyle re-emits the complete rendition. The engine's tracker already
// minimizes how often this is called.
func (b *TermBackend) applyStyle() {
	var sb strings.Builder
	sb.WriteString("\x1b[0")
	for _, ac := range [...]struct {
		bit  ansi.Attr
		code string
	}{
		{ansi.AttrBold, ";1"},
		{ansi.AttrFaint, ";2"},
		{ansi.AttrUnderline, ";4"},
		{ansi.AttrBlink, ";5"},
		{ansi.AttrReverse, ";7"},
	} {
		if b.attrs&ac.bit != 0 {
			sb.WriteString(ac.code)
		}
	}
	if b.fg.set {
		fmt.Fprintf(&sb, ";38;2;%d;%d;%d", b.fg.c.R, b.fg.c.G, b.fg.c.B)
	}
	if b.bg.set {
		fmt.Fprintf(&sb, ";48;2;%d;%d;%d", b.bg.c.R, b.bg.c.G, b.bg.c.B)
	}
	sb.WriteString("m")
	fmt.Fprint(b.out, sb.String())
}

func (b *TermBackend) SlotCapacity() int {
	// Slots are in-process storage only; the bound just keeps the palette
	// bookkeeping finite.
	return 4096
}

func (b *TermBackend) DefineSlot(s Slot, c RGB) {
	for int(s) >= len(b.slots) {
		b.slots = append(b.slots, RGB{})
	}
	b.slots[s] = c
}

func (b *TermBackend) PollEvent() Event {
	select {
	case ev := <-b.events:
		return ev
	case <-b.stopCh:
		return nil
	}
}

func (b *TermBackend) Interrupt() {
	select {
	case b.events <- InterruptEvent{}:
	case <-b.stopCh:
	}
}

func (b *TermBackend) post(ev Event) {
	select {
	case b.events <- ev:
	case <-b.stopCh:
	}
}

func (b *TermBackend) resizeLoop() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGWINCH)
	defer signal.Stop(ch)
	for {
		select {
		case <-ch:
			cols, rows := b.Size()
			b.post(ResizeEvent{Cols: cols, Rows: rows})
		case <-b.stopCh:
			return
		}
	}
}

// readLoop decodes a small subset of tty input: arrows and common navigation
// keys, control characters, and plain runes. Anything else is dropped.
func (b *TermBackend) readLoop() {
	buf := make([]byte, 64)
	for {
		n, err := b.in.Read(buf)
		if err != nil {
			return
		}
		for i := 0; i < n; {
			ev, used := decodeInput(buf[i:n])
			i += used
			if ev != nil {
				b.post(ev)
			}
		}
		select {
		case <-b.stopCh:
			return
		default:
		}
	}
}

var csiInputNames = map[byte]string{
	'A': "up",
	'B': "down",
	'C': "right",
	'D': "left",
	'H': "home",
	'F': "end",
}

func decodeInput(p []byte) (Event, int) {
	switch {
	case p[0] == 0x1b:
		if len(p) == 1 {
			return KeyEvent{Name: "escape"}, 1
		}
		if p[1] == '[' && len(p) >= 3 {
			if name, ok := csiInputNames[p[2]]; ok {
				return KeyEvent{Name: name}, 3
			}
			if len(p) >= 4 && p[3] == '~' {
				switch p[2] {
				case '3':
					return KeyEvent{Name: "delete"}, 4
				case '5':
					return KeyEvent{Name: "pageup"}, 4
				case '6':
					return KeyEvent{Name: "pagedown"}, 4
				}
				return nil, 4
			}
			return nil, 3
		}
		// Alt-modified character.
		ev, used := decodeInput(p[1:])
		if key, ok := ev.(KeyEvent); ok {
			key.Alt = true
			return key, used + 1
		}
		return nil, used + 1
	case p[0] == '\r' || p[0] == '\n':
		return KeyEvent{Name: "enter"}, 1
	case p[0] == '\t':
		return KeyEvent{Name: "tab"}, 1
	case p[0] == 0x7f:
		return KeyEvent{Name: "backspace"}, 1
	case p[0] < 0x20:
		return KeyEvent{Ctrl: true, Rune: rune('a' - 1 + p[0])}, 1
	default:
		r, size := utf8.DecodeRune(p)
		if r == utf8.RuneError && size == 1 {
			return nil, 1
		}
		return KeyEvent{Rune: r}, size
	}
}
