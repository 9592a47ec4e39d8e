// Copyright © 2025 Tela contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/telarec/main.go
// Summary: Replays a recorded session database to the terminal.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/framegrace/tela/recorder"
	"github.com/framegrace/tela/render"
)

// maxStepDelay caps long idle stretches in the recording.
const maxStepDelay = 2 * time.Second

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s SESSION.db\n", os.Args[0])
		os.Exit(2)
	}

	rec, err := recorder.Open(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	steps, err := rec.Steps()
	rec.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	backend, err := render.NewTcellBackend()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if err := backend.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer backend.Restore()

	stop := make(chan struct{})
	go func() {
		for {
			ev := backend.PollEvent()
			if ev == nil {
				return
			}
			switch ev.(type) {
			case render.KeyEvent, render.InterruptEvent:
				close(stop)
				return
			}
		}
	}()

	if err := replay(backend, steps, stop); err != nil {
		backend.Restore()
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// replay paints each recorded frame, pacing steps by their recorded spacing.
func replay(backend render.Backend, steps []recorder.StepRecord, stop <-chan struct{}) error {
	tracker := render.NewTracker(backend)
	var prev time.Time
	for _, step := range steps {
		if !prev.IsZero() {
			delay := step.At.Sub(prev)
			if delay > maxStepDelay {
				delay = maxStepDelay
			}
			if delay > 0 {
				select {
				case <-time.After(delay):
				case <-stop:
					return nil
				}
			}
		}
		prev = step.At

		if step.Delta == nil {
			continue
		}
		for _, span := range step.Delta.Spans {
			style := step.Delta.Styles[span.StyleIndex].Style()
			if err := tracker.Sync(style); err != nil {
				return err
			}
			backend.WriteAt(int(span.Row), int(span.Col), span.Text)
		}
		backend.Flush()
	}

	// Hold the final frame until a key arrives.
	<-stop
	return nil
}
