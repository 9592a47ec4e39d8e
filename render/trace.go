// Copyright © 2025 Tela contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: render/trace.go
// Summary: Optional observer for the spans each render actually wrote.

package render

// Span is one contiguous run of cells written during a render, sharing a
// single style.
type Span struct {
	Row, Col int
	Text     string
	Style    Style
}

// TraceSink receives the spans of every completed render, including empty
// renders. Used by the session recorder; the engine works without one.
type TraceSink interface {
	Frame(spans []Span)
}
