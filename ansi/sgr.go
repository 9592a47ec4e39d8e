// Copyright © 2025 Tela contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: ansi/sgr.go
// Summary: Decodes SGR parameter lists into attribute and color directives.

package ansi

// attrCodes maps the supported "on" SGR codes to attribute bits.
var attrCodes = map[int]Attr{
	1: AttrBold,
	2: AttrFaint,
	4: AttrUnderline,
	5: AttrBlink,
	7: AttrReverse,
}

// offCodes maps the corresponding "off" SGR codes. 22 clears both weight
// attributes per ECMA-48.
var offCodes = map[int]Attr{
	22: AttrBold | AttrFaint,
	24: AttrUnderline,
	25: AttrBlink,
	27: AttrReverse,
}

// Decode expands one SGR parameter list into the individual directives it
// represents. Parameters outside the supported subset are ignored, as are
// 24-bit color parameters with a channel above 255. An empty list means reset,
// matching terminal behavior for CSI m.
func Decode(params []int) []Directive {
	if len(params) == 0 {
		return []Directive{{Kind: DirReset}}
	}
	var out []Directive
	for i := 0; i < len(params); i++ {
		p := params[i]
		switch {
		case p == 0:
			out = append(out, Directive{Kind: DirReset})
		case attrCodes[p] != 0:
			out = append(out, Directive{Kind: DirAttrOn, Attr: attrCodes[p]})
		case offCodes[p] != 0:
			out = append(out, Directive{Kind: DirAttrOff, Attr: offCodes[p]})
		case p == 38 || p == 48:
			d, skip, ok := decodeColor(params[i:])
			i += skip
			if ok {
				out = append(out, d)
			}
		case p == 39:
			out = append(out, Directive{Kind: DirDefaultForeground})
		case p == 49:
			out = append(out, Directive{Kind: DirDefaultBackground})
		default:
			// Accepted but ignored.
		}
	}
	return out
}

// decodeColor handles the extended color forms 38;2;r;g;b and 48;2;r;g;b.
// It returns how many extra parameters were consumed beyond the introducer.
// The indexed form (38;5;n) is recognized so its argument is consumed, but it
// decodes to nothing.
func decodeColor(params []int) (d Directive, skip int, ok bool) {
	if len(params) < 2 {
		return Directive{}, 0, false
	}
	switch params[1] {
	case 2:
		if len(params) < 5 {
			return Directive{}, len(params) - 1, false
		}
		r, g, b := params[2], params[3], params[4]
		if r > 255 || g > 255 || b > 255 {
			// Out-of-range channel: the directive is rejected, not the frame.
			return Directive{}, 4, false
		}
		kind := DirForeground
		if params[0] == 48 {
			kind = DirBackground
		}
		return Directive{Kind: kind, R: uint8(r), G: uint8(g), B: uint8(b)}, 4, true
	case 5:
		if len(params) < 3 {
			return Directive{}, len(params) - 1, false
		}
		return Directive{}, 2, false
	default:
		return Directive{}, 1, false
	}
}
