package render

import "github.com/framegrace/tela/ansi"

// fakeOp records one backend call for assertions.
type fakeOp struct {
	kind     string // "write", "attrs", "color", "resetcolor", "define", "clear"
	row, col int
	text     string
	attrs    ansi.Attr
	ground   Ground
	slot     Slot
	color    RGB
}

// fakeBackend records every operation and satisfies Backend.
type fakeBackend struct {
	cols, rows int
	capacity   int
	ops        []fakeOp
	flushes    int
}

func newFakeBackend(cols, rows, capacity int) *fakeBackend {
	return &fakeBackend{cols: cols, rows: rows, capacity: capacity}
}

func (f *fakeBackend) Init() error          { return nil }
func (f *fakeBackend) Restore()             {}
func (f *fakeBackend) Size() (int, int)     { return f.cols, f.rows }
func (f *fakeBackend) Clear()               { f.ops = append(f.ops, fakeOp{kind: "clear"}) }
func (f *fakeBackend) Flush()               { f.flushes++ }
func (f *fakeBackend) SlotCapacity() int    { return f.capacity }
func (f *fakeBackend) PollEvent() Event     { return nil }
func (f *fakeBackend) Interrupt()           {}

func (f *fakeBackend) WriteAt(row, col int, text string) {
	f.ops = append(f.ops, fakeOp{kind: "write", row: row, col: col, text: text})
}

func (f *fakeBackend) SetAttrs(a ansi.Attr) {
	f.ops = append(f.ops, fakeOp{kind: "attrs", attrs: a})
}

func (f *fakeBackend) SetColor(g Ground, s Slot) {
	f.ops = append(f.ops, fakeOp{kind: "color", ground: g, slot: s})
}

func (f *fakeBackend) ResetColor(g Ground) {
	f.ops = append(f.ops, fakeOp{kind: "resetcolor", ground: g})
}

func (f *fakeBackend) DefineSlot(s Slot, c RGB) {
	f.ops = append(f.ops, fakeOp{kind: "define", slot: s, color: c})
}

func (f *fakeBackend) writes() []fakeOp {
	var out []fakeOp
	for _, op := range f.ops {
		if op.kind == "write" {
			out = append(out, op)
		}
	}
	return out
}

func (f *fakeBackend) reset() {
	f.ops = f.ops[:0]
}
