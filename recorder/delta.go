// Copyright © 2025 Tela contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: recorder/delta.go
// Summary: Compact binary encoding of one render step's written spans.

package recorder

import (
	"bytes"
	"encoding/binary"
	"errors"

	"github.com/framegrace/tela/ansi"
	"github.com/framegrace/tela/render"
)

// ColorModel says how a style's color field is encoded.
type ColorModel uint8

const (
	ColorModelDefault ColorModel = iota
	ColorModelRGB
)

// StyleEntry is one deduplicated style referenced by spans. Color values pack
// RGB as 0xRRGGBB.
type StyleEntry struct {
	Attrs   uint16
	FgModel ColorModel
	FgValue uint32
	BgModel ColorModel
	BgValue uint32
}

// Span covers a contiguous run of cells on a row sharing one style.
type Span struct {
	Row, Col   uint16
	Text       string
	StyleIndex uint16
}

// FrameDelta is everything one render wrote.
type FrameDelta struct {
	Styles []StyleEntry
	Spans  []Span
}

var (
	ErrDeltaTooLarge = errors.New("recorder: frame delta exceeds limits")
	errPayloadShort  = errors.New("recorder: truncated frame delta")
)

// DeltaFromSpans converts an engine trace into a delta, deduplicating styles.
func DeltaFromSpans(spans []render.Span) FrameDelta {
	var delta FrameDelta
	index := make(map[StyleEntry]uint16)
	for _, s := range spans {
		entry := styleEntry(s.Style)
		idx, ok := index[entry]
		if !ok {
			idx = uint16(len(delta.Styles))
			index[entry] = idx
			delta.Styles = append(delta.Styles, entry)
		}
		delta.Spans = append(delta.Spans, Span{
			Row:        uint16(s.Row),
			Col:        uint16(s.Col),
			Text:       s.Text,
			StyleIndex: idx,
		})
	}
	return delta
}

func styleEntry(s render.Style) StyleEntry {
	entry := StyleEntry{Attrs: uint16(s.Attrs)}
	if s.Fg.Set {
		entry.FgModel = ColorModelRGB
		entry.FgValue = packRGB(s.Fg.RGB)
	}
	if s.Bg.Set {
		entry.BgModel = ColorModelRGB
		entry.BgValue = packRGB(s.Bg.RGB)
	}
	return entry
}

// Style reconstructs the render style for entry.
func (e StyleEntry) Style() render.Style {
	s := render.Style{Attrs: ansi.Attr(e.Attrs)}
	if e.FgModel == ColorModelRGB {
		s.Fg = render.Color{RGB: unpackRGB(e.FgValue), Set: true}
	}
	if e.BgModel == ColorModelRGB {
		s.Bg = render.Color{RGB: unpackRGB(e.BgValue), Set: true}
	}
	return s
}

func packRGB(c render.RGB) uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

func unpackRGB(v uint32) render.RGB {
	return render.RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
}

// EncodeFrameDelta serialises the delta into a compact little-endian form.
func EncodeFrameDelta(delta FrameDelta) ([]byte, error) {
	if len(delta.Styles) > 0xFFFF || len(delta.Spans) > 0xFFFF {
		return nil, ErrDeltaTooLarge
	}
	buf := bytes.NewBuffer(make([]byte, 0, 64))

	if err := binary.Write(buf, binary.LittleEndian, uint16(len(delta.Styles))); err != nil {
		return nil, err
	}
	for _, style := range delta.Styles {
		if err := binary.Write(buf, binary.LittleEndian, style.Attrs); err != nil {
			return nil, err
		}
		buf.WriteByte(byte(style.FgModel))
		if err := binary.Write(buf, binary.LittleEndian, style.FgValue); err != nil {
			return nil, err
		}
		buf.WriteByte(byte(style.BgModel))
		if err := binary.Write(buf, binary.LittleEndian, style.BgValue); err != nil {
			return nil, err
		}
	}

	if err := binary.Write(buf, binary.LittleEndian, uint16(len(delta.Spans))); err != nil {
		return nil, err
	}
	for _, span := range delta.Spans {
		text := []byte(span.Text)
		if len(text) > 0xFFFF {
			return nil, ErrDeltaTooLarge
		}
		if err := binary.Write(buf, binary.LittleEndian, span.Row); err != nil {
			return nil, err
		}
		if err := binary.Write(buf, binary.LittleEndian, span.Col); err != nil {
			return nil, err
		}
		if err := binary.Write(buf, binary.LittleEndian, span.StyleIndex); err != nil {
			return nil, err
		}
		if err := binary.Write(buf, binary.LittleEndian, uint16(len(text))); err != nil {
			return nil, err
		}
		buf.Write(text)
	}
	return buf.Bytes(), nil
}

// DecodeFrameDelta reverses EncodeFrameDelta.
func DecodeFrameDelta(b []byte) (FrameDelta, error) {
	var delta FrameDelta
	if len(b) < 2 {
		return delta, errPayloadShort
	}
	styleCount := binary.LittleEndian.Uint16(b[:2])
	b = b[2:]
	delta.Styles = make([]StyleEntry, styleCount)
	for i := 0; i < int(styleCount); i++ {
		if len(b) < 12 {
			return delta, errPayloadShort
		}
		delta.Styles[i].Attrs = binary.LittleEndian.Uint16(b[:2])
		delta.Styles[i].FgModel = ColorModel(b[2])
		delta.Styles[i].FgValue = binary.LittleEndian.Uint32(b[3:7])
		delta.Styles[i].BgModel = ColorModel(b[7])
		delta.Styles[i].BgValue = binary.LittleEndian.Uint32(b[8:12])
		b = b[12:]
	}

	if len(b) < 2 {
		return delta, errPayloadShort
	}
	spanCount := binary.LittleEndian.Uint16(b[:2])
	b = b[2:]
	delta.Spans = make([]Span, spanCount)
	for i := 0; i < int(spanCount); i++ {
		if len(b) < 8 {
			return delta, errPayloadShort
		}
		row := binary.LittleEndian.Uint16(b[:2])
		col := binary.LittleEndian.Uint16(b[2:4])
		styleIndex := binary.LittleEndian.Uint16(b[4:6])
		textLen := binary.LittleEndian.Uint16(b[6:8])
		b = b[8:]
		if len(b) < int(textLen) {
			return delta, errPayloadShort
		}
		delta.Spans[i] = Span{
			Row:        row,
			Col:        col,
			StyleIndex: styleIndex,
			Text:       string(b[:textLen]),
		}
		b = b[textLen:]
	}
	return delta, nil
}
