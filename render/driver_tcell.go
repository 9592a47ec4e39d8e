// Copyright © 2025 Tela contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: render/driver_tcell.go
// Summary: Backend implementation on top of a tcell.Screen.

package render

import (
	"strconv"

	"github.com/framegrace/tela/ansi"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// DefaultSlotCapacity bounds the tcell driver's color pool. tcell itself can
// take arbitrary RGB values, so the bound exists to keep slot bookkeeping (and
// recorded sessions) small; it matches what curses-family terminals offer.
const DefaultSlotCapacity = 256

// TcellBackend adapts a tcell.Screen to the Backend interface. Attribute and
// color state is kept here as the ambient style applied to writes, since
// tcell styles are per-cell.
type TcellBackend struct {
	screen  tcell.Screen
	style   tcell.Style
	slots   []tcell.Color
	slotCap int
}

// NewTcellBackend allocates a backend on a fresh tcell screen.
func NewTcellBackend() (*TcellBackend, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewTcellBackendFor(screen), nil
}

// NewTcellBackendFor wraps an existing screen. Tests hand in a
// tcell.SimulationScreen here.
func NewTcellBackendFor(screen tcell.Screen) *TcellBackend {
	return &TcellBackend{
		screen:  screen,
		style:   tcell.StyleDefault,
		slotCap: DefaultSlotCapacity,
	}
}

// SetSlotCapacity overrides the color pool size. Must be called before the
// tracker allocates anything.
func (b *TcellBackend) SetSlotCapacity(n int) {
	b.slotCap = n
}

func (b *TcellBackend) Init() error {
	if err := b.screen.Init(); err != nil {
		return err
	}
	def := tcell.StyleDefault.Background(tcell.ColorReset).Foreground(tcell.ColorReset)
	b.screen.SetStyle(def)
	b.screen.HideCursor()
	b.screen.Clear()
	b.style = def
	return nil
}

func (b *TcellBackend) Restore() {
	b.screen.Fini()
}

func (b *TcellBackend) Size() (int, int) {
	return b.screen.Size()
}

func (b *TcellBackend) Clear() {
	b.screen.Clear()
}

func (b *TcellBackend) WriteAt(row, col int, text string) {
	x := col
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		b.screen.SetContent(x, row, r, nil, b.style)
		x += w
	}
}

func (b *TcellBackend) Flush() {
	b.screen.Show()
}

func (b *TcellBackend) SetAttrs(a ansi.Attr) {
	b.style = b.style.
		Bold(a&ansi.AttrBold != 0).
		Dim(a&ansi.AttrFaint != 0).
		Underline(a&ansi.AttrUnderline != 0).
		Blink(a&ansi.AttrBlink != 0).
		Reverse(a&ansi.AttrReverse != 0)
}

func (b *TcellBackend) SetColor(g Ground, s Slot) {
	if int(s) < 0 || int(s) >= len(b.slots) {
		return
	}
	if g == Foreground {
		b.style = b.style.Foreground(b.slots[s])
	} else {
		b.style = b.style.Background(b.slots[s])
	}
}

func (b *TcellBackend) ResetColor(g Ground) {
	if g == Foreground {
		b.style = b.style.Foreground(tcell.ColorReset)
	} else {
		b.style = b.style.Background(tcell.ColorReset)
	}
}

func (b *TcellBackend) SlotCapacity() int {
	return b.slotCap
}

func (b *TcellBackend) DefineSlot(s Slot, c RGB) {
	for int(s) >= len(b.slots) {
		b.slots = append(b.slots, tcell.ColorDefault)
	}
	b.slots[s] = tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func (b *TcellBackend) PollEvent() Event {
	for {
		ev := b.screen.PollEvent()
		if ev == nil {
			return nil
		}
		switch tev := ev.(type) {
		case *tcell.EventKey:
			return translateKey(tev)
		case *tcell.EventResize:
			cols, rows := tev.Size()
			return ResizeEvent{Cols: cols, Rows: rows}
		case *tcell.EventInterrupt:
			return InterruptEvent{}
		default:
			// Mouse, paste and focus events are not part of the runtime's
			// input model yet.
			continue
		}
	}
}

func (b *TcellBackend) Interrupt() {
	_ = b.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

// Underlying exposes the wrapped screen for code paths that need direct
// access, such as tests inspecting a simulation screen.
func (b *TcellBackend) Underlying() tcell.Screen {
	return b.screen
}

var tcellKeyNames = map[tcell.Key]string{
	tcell.KeyUp:        "up",
	tcell.KeyDown:      "down",
	tcell.KeyLeft:      "left",
	tcell.KeyRight:     "right",
	tcell.KeyHome:      "home",
	tcell.KeyEnd:       "end",
	tcell.KeyPgUp:      "pageup",
	tcell.KeyPgDn:      "pagedown",
	tcell.KeyEnter:     "enter",
	tcell.KeyTab:       "tab",
	tcell.KeyBacktab:   "backtab",
	tcell.KeyDelete:    "delete",
	tcell.KeyInsert:    "insert",
	tcell.KeyEscape:    "escape",
	tcell.KeyBackspace: "backspace",
}

func translateKey(ev *tcell.EventKey) KeyEvent {
	key := KeyEvent{
		Alt:   ev.Modifiers()&tcell.ModAlt != 0,
		Shift: ev.Modifiers()&tcell.ModShift != 0,
		Ctrl:  ev.Modifiers()&tcell.ModCtrl != 0,
	}
	k := ev.Key()
	if name, ok := tcellKeyNames[k]; ok {
		key.Name = name
		return key
	}
	if k == tcell.KeyBackspace2 {
		key.Name = "backspace"
		return key
	}
	if k >= tcell.KeyF1 && k <= tcell.KeyF64 {
		key.Name = "f" + strconv.Itoa(int(k-tcell.KeyF1)+1)
		return key
	}
	if k == tcell.KeyRune {
		key.Rune = ev.Rune()
		return key
	}
	// Control characters arrive as dedicated keys (KeyCtrlA..KeyCtrlZ).
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		key.Ctrl = true
		key.Rune = rune('a' + int(k) - int(tcell.KeyCtrlA))
		return key
	}
	key.Name = "unknown"
	return key
}
