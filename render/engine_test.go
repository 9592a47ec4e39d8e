package render

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestRenderIdenticalFrameWritesNothing(t *testing.T) {
	fb := newFakeBackend(10, 3, 8)
	e := NewEngine(fb)

	frame := "hello\nworld"
	if err := e.Render(frame); err != nil {
		t.Fatalf("first render: %v", err)
	}
	fb.reset()
	if err := e.Render(frame); err != nil {
		t.Fatalf("second render: %v", err)
	}
	if got := fb.writes(); len(got) != 0 {
		t.Fatalf("identical frame produced writes: %#v", got)
	}
}

func TestRenderMiddleSpanOnly(t *testing.T) {
	fb := newFakeBackend(10, 1, 8)
	e := NewEngine(fb)

	if err := e.Render("AAAA"); err != nil {
		t.Fatalf("render: %v", err)
	}
	fb.reset()
	if err := e.Render("ABBA"); err != nil {
		t.Fatalf("render: %v", err)
	}
	writes := fb.writes()
	if len(writes) != 1 {
		t.Fatalf("expected a single write, got %#v", writes)
	}
	w := writes[0]
	if w.row != 0 || w.col != 1 || w.text != "BB" {
		t.Fatalf("expected write of %q at (0,1), got %q at (%d,%d)", "BB", w.text, w.row, w.col)
	}
}

func TestRenderSingleCellChange(t *testing.T) {
	fb := newFakeBackend(8, 2, 8)
	e := NewEngine(fb)

	if err := e.Render("abcd\nefgh"); err != nil {
		t.Fatalf("render: %v", err)
	}
	fb.reset()
	if err := e.Render("abcd\nefXh"); err != nil {
		t.Fatalf("render: %v", err)
	}
	writes := fb.writes()
	if len(writes) != 1 {
		t.Fatalf("expected exactly one write, got %#v", writes)
	}
	w := writes[0]
	if w.row != 1 || w.col != 2 || w.text != "X" {
		t.Fatalf("expected %q at (1,2), got %q at (%d,%d)", "X", w.text, w.row, w.col)
	}
}

func TestRenderFirstFrameWritesContent(t *testing.T) {
	fb := newFakeBackend(10, 2, 8)
	e := NewEngine(fb)

	if err := e.Render("ab\ncd"); err != nil {
		t.Fatalf("render: %v", err)
	}
	writes := fb.writes()
	if len(writes) != 2 {
		t.Fatalf("expected one write per line, got %#v", writes)
	}
	if writes[0].text != "ab" || writes[1].text != "cd" {
		t.Fatalf("unexpected content: %#v", writes)
	}
}

func TestRenderStyleRunsSplitWrites(t *testing.T) {
	fb := newFakeBackend(10, 1, 8)
	e := NewEngine(fb)

	if err := e.Render("\x1b[1mab\x1b[0mcd"); err != nil {
		t.Fatalf("render: %v", err)
	}
	writes := fb.writes()
	if len(writes) != 2 {
		t.Fatalf("expected two style runs, got %#v", writes)
	}
	if writes[0].text != "ab" || writes[1].text != "cd" || writes[1].col != 2 {
		t.Fatalf("unexpected runs: %#v", writes)
	}
	// The bold must have been applied before "ab" and removed before "cd".
	var attrOps []fakeOp
	for _, op := range fb.ops {
		if op.kind == "attrs" {
			attrOps = append(attrOps, op)
		}
	}
	if len(attrOps) != 2 || attrOps[0].attrs == 0 || attrOps[1].attrs != 0 {
		t.Fatalf("unexpected attr ops: %#v", attrOps)
	}
}

func TestRenderStyleChangeRewritesCell(t *testing.T) {
	fb := newFakeBackend(6, 1, 8)
	e := NewEngine(fb)

	if err := e.Render("ab"); err != nil {
		t.Fatalf("render: %v", err)
	}
	fb.reset()
	// Same text, new attribute on the first cell: content diff must trigger.
	if err := e.Render("\x1b[4ma\x1b[0mb"); err != nil {
		t.Fatalf("render: %v", err)
	}
	writes := fb.writes()
	if len(writes) != 1 || writes[0].text != "a" || writes[0].col != 0 {
		t.Fatalf("expected underline rewrite of %q, got %#v", "a", writes)
	}
}

func TestRenderClipsToScreen(t *testing.T) {
	fb := newFakeBackend(3, 2, 8)
	e := NewEngine(fb)

	if err := e.Render("abcdef\nxy\nzu"); err != nil {
		t.Fatalf("render: %v", err)
	}
	writes := fb.writes()
	for _, w := range writes {
		if w.col+len(w.text) > 3 || w.row > 1 {
			t.Fatalf("write outside screen: %#v", w)
		}
	}
}

func TestRenderWideRuneSpans(t *testing.T) {
	fb := newFakeBackend(6, 1, 8)
	e := NewEngine(fb)

	if err := e.Render("世界"); err != nil {
		t.Fatalf("render: %v", err)
	}
	fb.reset()
	if err := e.Render("世了"); err != nil {
		t.Fatalf("render: %v", err)
	}
	writes := fb.writes()
	if len(writes) != 1 || writes[0].col != 2 || writes[0].text != "了" {
		t.Fatalf("expected wide rune rewrite at column 2, got %#v", writes)
	}
}

func TestRenderBlankOutRemovedText(t *testing.T) {
	fb := newFakeBackend(8, 1, 8)
	e := NewEngine(fb)

	if err := e.Render("hello"); err != nil {
		t.Fatalf("render: %v", err)
	}
	fb.reset()
	if err := e.Render("he"); err != nil {
		t.Fatalf("render: %v", err)
	}
	writes := fb.writes()
	if len(writes) != 1 || writes[0].col != 2 || writes[0].text != "   " {
		t.Fatalf("expected trailing cells blanked, got %#v", writes)
	}
}

func TestResizeForcesRepaint(t *testing.T) {
	fb := newFakeBackend(10, 2, 8)
	e := NewEngine(fb)

	if err := e.Render("hi"); err != nil {
		t.Fatalf("render: %v", err)
	}
	e.Resize(20, 4)
	fb.reset()
	if err := e.Render("hi"); err != nil {
		t.Fatalf("render: %v", err)
	}
	if writes := fb.writes(); len(writes) != 1 || writes[0].text != "hi" {
		t.Fatalf("expected full repaint after resize, got %#v", writes)
	}
}

func TestRenderTraceReportsSpans(t *testing.T) {
	fb := newFakeBackend(10, 1, 8)
	e := NewEngine(fb)
	var got [][]Span
	e.SetTrace(traceFunc(func(spans []Span) {
		cp := make([]Span, len(spans))
		copy(cp, spans)
		got = append(got, cp)
	}))

	if err := e.Render("AAAA"); err != nil {
		t.Fatalf("render: %v", err)
	}
	if err := e.Render("ABBA"); err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected two traced frames, got %d", len(got))
	}
	if len(got[1]) != 1 || got[1][0].Text != "BB" || got[1][0].Col != 1 {
		t.Fatalf("unexpected second frame spans: %#v", got[1])
	}
}

type traceFunc func([]Span)

func (f traceFunc) Frame(spans []Span) { f(spans) }

func TestTcellBackendRoundTrip(t *testing.T) {
	sim := tcell.NewSimulationScreen("UTF-8")
	b := NewTcellBackendFor(sim)
	if err := b.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer b.Restore()
	sim.SetSize(20, 4)

	e := NewEngine(b)
	if err := e.Render("\x1b[1;38;2;255;0;0mhi\x1b[0m there"); err != nil {
		t.Fatalf("render: %v", err)
	}

	cells, w, _ := sim.GetContents()
	row0 := make([]rune, 0, w)
	for i := 0; i < w; i++ {
		row0 = append(row0, cells[i].Runes[0])
	}
	if !strings.HasPrefix(string(row0), "hi there") {
		t.Fatalf("unexpected screen contents: %q", string(row0))
	}
	fg, _, attrs := cells[0].Style.Decompose()
	if attrs&tcell.AttrBold == 0 {
		t.Fatalf("expected bold on first cell")
	}
	if fg != tcell.NewRGBColor(255, 0, 0) {
		t.Fatalf("expected red foreground, got %v", fg)
	}
}
