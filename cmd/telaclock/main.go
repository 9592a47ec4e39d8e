// Copyright © 2025 Tela contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/telaclock/main.go
// Summary: Digital clock demo: one Tick command per second drives the view.

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/framegrace/tela"
	"github.com/framegrace/tela/config"
	"github.com/framegrace/tela/recorder"
	"github.com/framegrace/tela/render"
)

type tickMsg struct {
	at time.Time
}

type clock struct {
	now   time.Time
	ticks int
}

func (c clock) Start() []tela.Cmd {
	return []tela.Cmd{
		func(context.Context) tela.Msg { return tickMsg{at: time.Now()} },
	}
}

func (c clock) Update(msg tela.Msg) (tela.Store, []tela.Cmd) {
	switch m := msg.(type) {
	case tickMsg:
		c.now = m.at
		c.ticks++
		return c, []tela.Cmd{tela.Tick(time.Second, func(t time.Time) tela.Msg {
			return tickMsg{at: t}
		})}
	case tela.KeyMsg:
		switch m.String() {
		case "q", "ctrl+c", "escape":
			return c, []tela.Cmd{tela.Quit}
		}
	}
	return c, nil
}

func (c clock) View() string {
	if c.now.IsZero() {
		return "starting..."
	}
	return fmt.Sprintf("\x1b[1m\x1b[38;2;120;220;120m%s\x1b[0m\n%s\nticks: %d\n\x1b[2mq to quit\x1b[0m",
		c.now.Format("15:04:05"),
		c.now.Format("Monday, 2 January 2006"),
		c.ticks)
}

func main() {
	logFile, err := os.OpenFile("telaclock.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err == nil {
		defer logFile.Close()
		log.SetOutput(logFile)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Printf("config: %v", err)
	}

	backend, err := render.NewTcellBackend()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if cfg.SlotCapacity > 0 {
		backend.SetSlotCapacity(cfg.SlotCapacity)
	}

	opts := []tela.Option{
		tela.WithBackend(backend),
		tela.WithConfig(cfg),
		tela.WithLogger(log.Default()),
	}
	if cfg.RecordPath != "" {
		rec, err := recorder.Open(cfg.RecordPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "recorder: %v\n", err)
			os.Exit(1)
		}
		defer rec.Close()
		opts = append(opts, tela.WithSession(rec))
	}

	p := tela.NewProgram(clock{}, opts...)
	if err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
