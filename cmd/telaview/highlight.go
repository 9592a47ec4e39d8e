// Copyright © 2025 Tela contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/telaview/highlight.go
// Summary: Language detection and per-line SGR highlighting.

package main

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/go-enry/go-enry/v2"
)

const styleName = "catppuccin-mocha"

// highlight splits content into lines carrying truecolor SGR escapes.
// Tabs become spaces so the render engine's column accounting stays simple.
func highlight(path string, content []byte) ([]string, string) {
	language := enry.GetLanguage(path, content)
	text := strings.ReplaceAll(string(content), "\t", "    ")

	lexer := pickLexer(language, text)
	lexer = chroma.Coalesce(lexer)
	style := styles.Get(styleName)

	tokens, err := chroma.Tokenise(lexer, nil, text)
	if err != nil {
		return strings.Split(text, "\n"), language
	}

	var (
		lines []string
		sb    strings.Builder
	)
	base := style.Get(chroma.Text).Colour
	for _, tok := range tokens {
		if tok.Type == chroma.EOFType {
			break
		}
		prefix, suffix := sgrFor(style.Get(tok.Type), base)
		for _, part := range strings.SplitAfter(tok.Value, "\n") {
			if part == "" {
				continue
			}
			nl := strings.HasSuffix(part, "\n")
			part = strings.TrimSuffix(part, "\n")
			if part != "" {
				sb.WriteString(prefix)
				sb.WriteString(part)
				sb.WriteString(suffix)
			}
			if nl {
				lines = append(lines, sb.String())
				sb.Reset()
			}
		}
	}
	if sb.Len() > 0 {
		lines = append(lines, sb.String())
	}
	if lines == nil {
		lines = []string{""}
	}
	return lines, language
}

// sgrFor builds the escape pair wrapping one token. Colors matching the base
// text color are left to the terminal default.
func sgrFor(entry chroma.StyleEntry, base chroma.Colour) (string, string) {
	var sb strings.Builder
	if entry.Bold == chroma.Yes {
		sb.WriteString("\x1b[1m")
	}
	if entry.Underline == chroma.Yes {
		sb.WriteString("\x1b[4m")
	}
	if entry.Colour.IsSet() && entry.Colour != base {
		fmt.Fprintf(&sb, "\x1b[38;2;%d;%d;%dm",
			entry.Colour.Red(), entry.Colour.Green(), entry.Colour.Blue())
	}
	if sb.Len() == 0 {
		return "", ""
	}
	return sb.String(), "\x1b[0m"
}

// pickLexer prefers the detected language name, then content analysis.
func pickLexer(language, text string) chroma.Lexer {
	if language != "" {
		if l := lexers.Get(language); l != nil {
			return l
		}
	}
	if l := lexers.Analyse(text); l != nil {
		return l
	}
	return lexers.Fallback
}
