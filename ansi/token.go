// Copyright © 2025 Tela contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: ansi/token.go
// Summary: Token and directive types produced by the SGR scanner.

package ansi

// Attr is a bitmask of terminal text attributes.
type Attr uint16

const (
	AttrBold Attr = 1 << iota
	AttrFaint
	AttrUnderline
	AttrBlink
	AttrReverse
)

// TokenKind discriminates scanner output.
type TokenKind int

const (
	// TokenText is a literal run of characters.
	TokenText TokenKind = iota
	// TokenSGR is a complete Select Graphic Rendition sequence (CSI ... 'm').
	TokenSGR
)

// Token is a single unit of scanner output: either a text run or the numeric
// parameters of one SGR sequence.
type Token struct {
	Kind   TokenKind
	Text   string
	Params []int
}

// DirectiveKind discriminates decoded SGR directives.
type DirectiveKind int

const (
	// DirReset clears all attributes and restores default colors (SGR 0).
	DirReset DirectiveKind = iota
	// DirAttrOn enables the attributes in Attr.
	DirAttrOn
	// DirAttrOff disables the attributes in Attr.
	DirAttrOff
	// DirForeground sets a 24-bit foreground color.
	DirForeground
	// DirBackground sets a 24-bit background color.
	DirBackground
	// DirDefaultForeground restores the terminal's default foreground (SGR 39).
	DirDefaultForeground
	// DirDefaultBackground restores the terminal's default background (SGR 49).
	DirDefaultBackground
)

// Directive is one decoded attribute or color instruction. A single SGR
// sequence may decode to several directives.
type Directive struct {
	Kind    DirectiveKind
	Attr    Attr
	R, G, B uint8
}
