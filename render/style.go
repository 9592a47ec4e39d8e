// Copyright © 2025 Tela contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: render/style.go
// Summary: Style values carried by frame cells: attribute mask plus colors.

package render

import "github.com/framegrace/tela/ansi"

// RGB is a 24-bit color.
type RGB struct {
	R, G, B uint8
}

// Color is an optional RGB value. The zero value means "terminal default".
type Color struct {
	RGB RGB
	Set bool
}

// Style is the full graphic rendition of a cell. The zero value is the
// terminal's default rendition.
type Style struct {
	Attrs  ansi.Attr
	Fg, Bg Color
}

// Apply folds one decoded directive into the style and returns the result.
func (s Style) Apply(d ansi.Directive) Style {
	switch d.Kind {
	case ansi.DirReset:
		return Style{}
	case ansi.DirAttrOn:
		s.Attrs |= d.Attr
	case ansi.DirAttrOff:
		s.Attrs &^= d.Attr
	case ansi.DirForeground:
		s.Fg = Color{RGB: RGB{d.R, d.G, d.B}, Set: true}
	case ansi.DirBackground:
		s.Bg = Color{RGB: RGB{d.R, d.G, d.B}, Set: true}
	case ansi.DirDefaultForeground:
		s.Fg = Color{}
	case ansi.DirDefaultBackground:
		s.Bg = Color{}
	}
	return s
}
