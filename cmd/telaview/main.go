// Copyright © 2025 Tela contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/telaview/main.go
// Summary: Syntax-highlighted file viewer demo with scrolling.

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/framegrace/tela"
	"github.com/framegrace/tela/config"
)

type loadedMsg struct {
	lines    []string
	language string
}

type viewer struct {
	path     string
	language string
	lines    []string
	offset   int
	rows     int
	err      error
}

func (v viewer) Start() []tela.Cmd {
	path := v.path
	return []tela.Cmd{tela.Perform(func(context.Context) (tela.Msg, error) {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		lines, language := highlight(path, content)
		return loadedMsg{lines: lines, language: language}, nil
	})}
}

func (v viewer) Update(msg tela.Msg) (tela.Store, []tela.Cmd) {
	switch m := msg.(type) {
	case loadedMsg:
		v.lines = m.lines
		v.language = m.language
	case tela.ErrMsg:
		v.err = m.Err
	case tela.ResizeMsg:
		v.rows = m.Rows
		v.offset = v.clamp(v.offset)
	case tela.KeyMsg:
		switch m.String() {
		case "q", "ctrl+c", "escape":
			return v, []tela.Cmd{tela.Quit}
		case "up", "k":
			v.offset = v.clamp(v.offset - 1)
		case "down", "j":
			v.offset = v.clamp(v.offset + 1)
		case "pageup":
			v.offset = v.clamp(v.offset - v.page())
		case "pagedown", " ":
			v.offset = v.clamp(v.offset + v.page())
		case "home":
			v.offset = 0
		case "end":
			v.offset = v.clamp(len(v.lines))
		}
	}
	return v, nil
}

// page is the content height, leaving one row for the status line.
func (v viewer) page() int {
	if v.rows <= 1 {
		return 24
	}
	return v.rows - 1
}

func (v viewer) clamp(offset int) int {
	max := len(v.lines) - v.page()
	if offset > max {
		offset = max
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

func (v viewer) View() string {
	if v.err != nil {
		return fmt.Sprintf("\x1b[1m%s\x1b[0m\n\nerror: %v\n\nq to quit", v.path, v.err)
	}
	if v.lines == nil {
		return "loading " + v.path + "..."
	}

	out := fmt.Sprintf("\x1b[1m\x1b[7m %s  [%s]  %d/%d \x1b[0m\n",
		v.path, v.language, v.offset+1, len(v.lines))
	end := v.offset + v.page()
	if end > len(v.lines) {
		end = len(v.lines)
	}
	for _, line := range v.lines[v.offset:end] {
		out += line + "\n"
	}
	return out
}

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s FILE\n", os.Args[0])
		os.Exit(2)
	}

	logFile, err := os.OpenFile("telaview.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err == nil {
		defer logFile.Close()
		log.SetOutput(logFile)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Printf("config: %v", err)
	}

	p := tela.NewProgram(viewer{path: os.Args[1]},
		tela.WithConfig(cfg),
		tela.WithLogger(log.Default()))
	if err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
