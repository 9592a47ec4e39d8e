package render

import (
	"errors"
	"testing"

	"github.com/framegrace/tela/ansi"
)

func applyAll(t *Tracker, params []int) {
	for _, d := range ansi.Decode(params) {
		t.Apply(d)
	}
}

func TestTrackerDirectiveRoundTrip(t *testing.T) {
	// Applying decoded directives must land the pen on the same style as
	// folding the directives into a Style directly.
	params := []int{1, 4, 38, 2, 10, 20, 30, 48, 2, 1, 2, 3, 24}
	tr := NewTracker(newFakeBackend(10, 2, 8))
	applyAll(tr, params)

	var want Style
	for _, d := range ansi.Decode(params) {
		want = want.Apply(d)
	}
	if tr.Pen() != want {
		t.Fatalf("pen mismatch: got %#v want %#v", tr.Pen(), want)
	}
	if want.Attrs != ansi.AttrBold || !want.Fg.Set || !want.Bg.Set {
		t.Fatalf("unexpected folded style: %#v", want)
	}
}

func TestTrackerSyncIsIdempotent(t *testing.T) {
	fb := newFakeBackend(10, 2, 8)
	tr := NewTracker(fb)

	s := Style{Attrs: ansi.AttrBold, Fg: Color{RGB: RGB{9, 9, 9}, Set: true}}
	if err := tr.Sync(s); err != nil {
		t.Fatalf("sync: %v", err)
	}
	n := len(fb.ops)
	if n == 0 {
		t.Fatal("first sync should issue operations")
	}
	if err := tr.Sync(s); err != nil {
		t.Fatalf("sync: %v", err)
	}
	if len(fb.ops) != n {
		t.Fatalf("re-applying the active style issued operations: %#v", fb.ops[n:])
	}
}

func TestTrackerAttrsBatched(t *testing.T) {
	fb := newFakeBackend(10, 2, 8)
	tr := NewTracker(fb)

	if err := tr.Sync(Style{Attrs: ansi.AttrBold | ansi.AttrUnderline}); err != nil {
		t.Fatalf("sync: %v", err)
	}
	var attrOps int
	for _, op := range fb.ops {
		if op.kind == "attrs" {
			attrOps++
		}
	}
	if attrOps != 1 {
		t.Fatalf("expected one combined attribute update, got %d (%#v)", attrOps, fb.ops)
	}
}

func TestTrackerColorReuseSkipsDefine(t *testing.T) {
	fb := newFakeBackend(10, 2, 8)
	tr := NewTracker(fb)

	red := Color{RGB: RGB{255, 0, 0}, Set: true}
	if err := tr.Sync(Style{Fg: red}); err != nil {
		t.Fatalf("sync: %v", err)
	}
	if err := tr.Sync(Style{}); err != nil {
		t.Fatalf("sync: %v", err)
	}
	fb.reset()
	if err := tr.Sync(Style{Fg: red}); err != nil {
		t.Fatalf("sync: %v", err)
	}
	for _, op := range fb.ops {
		if op.kind == "define" {
			t.Fatalf("reused color should not be redefined: %#v", fb.ops)
		}
	}
}

func TestTrackerLRUEviction(t *testing.T) {
	fb := newFakeBackend(10, 2, 2)
	tr := NewTracker(fb)

	colors := []RGB{{1, 0, 0}, {2, 0, 0}, {3, 0, 0}}
	for _, c := range colors {
		if err := tr.Sync(Style{Fg: Color{RGB: c, Set: true}}); err != nil {
			t.Fatalf("sync %v: %v", c, err)
		}
	}
	if tr.SlotsInUse() != 2 {
		t.Fatalf("slot count exceeded capacity: %d", tr.SlotsInUse())
	}
	// {1,0,0} was least recently used; {3,0,0} must have taken its slot.
	var defines []fakeOp
	for _, op := range fb.ops {
		if op.kind == "define" {
			defines = append(defines, op)
		}
	}
	if len(defines) != 3 {
		t.Fatalf("expected 3 slot definitions, got %#v", defines)
	}
	if defines[2].slot != defines[0].slot {
		t.Fatalf("expected LRU slot %d to be remapped, got slot %d", defines[0].slot, defines[2].slot)
	}

	// Re-requesting the survivor {2,0,0} must not redefine anything.
	fb.reset()
	if err := tr.Sync(Style{Fg: Color{RGB: RGB{2, 0, 0}, Set: true}}); err != nil {
		t.Fatalf("sync: %v", err)
	}
	for _, op := range fb.ops {
		if op.kind == "define" {
			t.Fatalf("survivor was redefined: %#v", fb.ops)
		}
	}
}

func TestTrackerZeroCapacityDegrades(t *testing.T) {
	fb := newFakeBackend(10, 2, 0)
	tr := NewTracker(fb)

	err := tr.Sync(Style{Fg: Color{RGB: RGB{5, 5, 5}, Set: true}})
	if !errors.Is(err, ErrColorExhausted) {
		t.Fatalf("expected ErrColorExhausted, got %v", err)
	}
	for _, op := range fb.ops {
		if op.kind == "color" || op.kind == "define" {
			t.Fatalf("zero-capacity backend received color ops: %#v", fb.ops)
		}
	}
}

func TestPaletteTouchKeepsHotColors(t *testing.T) {
	p := newPalette(2)
	a, b, c := RGB{1, 1, 1}, RGB{2, 2, 2}, RGB{3, 3, 3}

	sa, _, _ := p.slot(a)
	p.slot(b)
	p.slot(a) // touch a: b becomes LRU
	sc, define, err := p.slot(c)
	if err != nil || !define {
		t.Fatalf("expected eviction define, got define=%v err=%v", define, err)
	}
	if sc == sa {
		t.Fatalf("hot color's slot was evicted")
	}
	if got, define, _ := p.slot(a); got != sa || define {
		t.Fatalf("hot color lost its slot: slot=%d define=%v", got, define)
	}
}
