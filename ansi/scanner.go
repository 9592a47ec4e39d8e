// Copyright © 2025 Tela contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: ansi/scanner.go
// Summary: Lazy tokenizer for frame strings containing SGR escape sequences.
//
// Policy for sequences outside the supported grammar: a byte run that does not
// form a complete CSI sequence is passed through as literal text; a complete
// CSI sequence whose final byte is not 'm' is accepted and dropped.

package ansi

import "strings"

const esc = '\x1b'

// Scanner walks a frame string and yields tokens on demand. The zero value is
// empty; use NewScanner or Reset to load input. A Scanner can be reused across
// frames.
type Scanner struct {
	src string
	pos int
}

// NewScanner returns a scanner over src.
func NewScanner(src string) *Scanner {
	return &Scanner{src: src}
}

// Reset restarts the scanner over a new input.
func (s *Scanner) Reset(src string) {
	s.src = src
	s.pos = 0
}

// Next returns the next token. The second result is false once the input is
// exhausted.
func (s *Scanner) Next() (Token, bool) {
	for s.pos < len(s.src) {
		rest := s.src[s.pos:]
		rel := strings.IndexByte(rest, esc)
		if rel < 0 {
			// No escapes left; the remainder is one text run.
			s.pos = len(s.src)
			return Token{Kind: TokenText, Text: rest}, true
		}
		if rel > 0 {
			s.pos += rel
			return Token{Kind: TokenText, Text: rest[:rel]}, true
		}

		// Positioned on an escape character.
		n, params, final, ok := scanCSI(rest)
		if !ok {
			// Malformed: pass the escape through as literal text and
			// resynchronize on the next byte.
			s.pos++
			return Token{Kind: TokenText, Text: rest[:1]}, true
		}
		s.pos += n
		if final != 'm' {
			// Well-formed but unsupported; drop and keep scanning.
			continue
		}
		return Token{Kind: TokenSGR, Params: params}, true
	}
	return Token{}, false
}

// Tokens scans an entire frame eagerly. Mostly a test and tooling convenience;
// rendering uses Next to avoid building the slice.
func Tokens(src string) []Token {
	var out []Token
	sc := NewScanner(src)
	for {
		tok, ok := sc.Next()
		if !ok {
			return out
		}
		out = append(out, tok)
	}
}

// scanCSI attempts to read a complete CSI sequence at the start of s (which
// begins with ESC). It returns the byte length consumed, the numeric
// parameters, and the final byte. ok is false when the bytes do not form a
// complete CSI sequence.
func scanCSI(s string) (n int, params []int, final byte, ok bool) {
	if len(s) < 2 || s[1] != '[' {
		return 0, nil, 0, false
	}
	i := 2
	value := 0
	haveDigit := false
	for i < len(s) {
		b := s[i]
		switch {
		case b >= '0' && b <= '9':
			value = value*10 + int(b-'0')
			haveDigit = true
			i++
		case b == ';':
			params = append(params, value)
			value = 0
			haveDigit = false
			i++
		case b >= 0x40 && b <= 0x7e:
			if haveDigit || len(params) > 0 {
				params = append(params, value)
			}
			return i + 1, params, b, true
		default:
			// Byte outside the parameter grammar.
			return 0, nil, 0, false
		}
	}
	// Ran off the end of the input mid-sequence.
	return 0, nil, 0, false
}
