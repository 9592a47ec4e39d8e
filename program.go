// Copyright © 2025 Tela contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: program.go
// Summary: The update loop: serializes messages, runs commands, and triggers
// exactly one render per settled step.

package tela

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/framegrace/tela/render"
)

type phase int32

const (
	phaseInit phase = iota
	phaseRunning
	phaseDraining
	phaseTerminated
)

// SessionSink observes the runtime step by step: every processed message and
// the spans each render wrote. Implemented by the session recorder.
type SessionSink interface {
	render.TraceSink
	Step(msg Msg)
}

// Program owns the canonical Store and runs the update loop. Messages are
// processed strictly in arrival order on a single goroutine; commands run
// concurrently but feed their results back through the same queue.
type Program struct {
	store   Store
	backend render.Backend
	engine  *render.Engine

	drainTimeout time.Duration
	session      SessionSink
	logger       *log.Logger

	msgs  chan Msg
	done  chan struct{}
	cmdWG sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc

	phase atomic.Int32

	colorErrOnce sync.Once
}

// NewProgram prepares a runtime around the given initial store. The terminal
// is not touched until Run.
func NewProgram(store Store, opts ...Option) *Program {
	p := &Program{
		store:        store,
		drainTimeout: DefaultDrainTimeout,
		msgs:         make(chan Msg, 64),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run drives the program until a QuitMsg is processed or the backend fails to
// initialize. Terminal restoration is attempted on every exit path, including
// a panicking transition function.
func (p *Program) Run() error {
	if p.backend == nil {
		b, err := render.NewTcellBackend()
		if err != nil {
			return fmt.Errorf("tela: terminal backend unavailable: %w", err)
		}
		p.backend = b
	}
	if err := p.backend.Init(); err != nil {
		return fmt.Errorf("tela: backend init: %w", err)
	}
	defer p.backend.Restore()
	defer p.terminate()

	p.ctx, p.cancel = context.WithCancel(context.Background())
	defer p.cancel()

	p.engine = render.NewEngine(p.backend)
	if p.session != nil {
		p.engine.SetTrace(p.session)
	}

	go p.inputLoop()

	if s, ok := p.store.(Starter); ok {
		p.spawn(s.Start()...)
	}

	p.phase.Store(int32(phaseRunning))
	p.render()

	for {
		msg := <-p.msgs
		msg, quiet := unquiet(msg)
		if p.session != nil {
			p.session.Step(msg)
		}
		if rm, ok := msg.(ResizeMsg); ok {
			p.engine.Resize(rm.Cols, rm.Rows)
		}

		next, cmds := p.store.Update(msg)
		if next != nil {
			p.store = next
		}
		p.spawn(cmds...)

		if _, ok := msg.(QuitMsg); ok {
			p.drain()
			return nil
		}
		if !quiet {
			p.render()
		}
	}
}

// Send injects a message from outside the runtime, e.g. another subsystem.
// Messages sent after quit are discarded.
func (p *Program) Send(m Msg) {
	p.post(m, false)
}

// Store returns the current canonical store. Only meaningful between steps;
// intended for inspection after Run returns.
func (p *Program) Store() Store {
	return p.store
}

func (p *Program) render() {
	if err := p.engine.Render(p.store.View()); err != nil {
		p.colorErrOnce.Do(func() {
			p.logf("render: %v", err)
		})
	}
}

// post enqueues a message honoring the lifecycle: input-side messages are
// refused once draining starts, command results are accepted until
// termination.
func (p *Program) post(m Msg, fromCommand bool) {
	switch phase(p.phase.Load()) {
	case phaseTerminated:
		return
	case phaseDraining:
		if !fromCommand {
			return
		}
	}
	select {
	case p.msgs <- m:
	case <-p.done:
	}
}

func (p *Program) spawn(cmds ...Cmd) {
	for _, c := range cmds {
		if c == nil {
			continue
		}
		p.cmdWG.Add(1)
		go func(c Cmd) {
			defer p.cmdWG.Done()
			defer func() {
				if r := recover(); r != nil {
					p.post(ErrMsg{Err: fmt.Errorf("tela: command panic: %v", r)}, true)
				}
			}()
			if m := c(p.ctx); m != nil {
				p.post(m, true)
			}
		}(c)
	}
}

func (p *Program) inputLoop() {
	for {
		ev := p.backend.PollEvent()
		if ev == nil {
			return
		}
		switch e := ev.(type) {
		case render.KeyEvent:
			p.post(keyMsgFromEvent(e), false)
		case render.ResizeEvent:
			p.post(ResizeMsg{Cols: e.Cols, Rows: e.Rows}, false)
		case render.InterruptEvent:
			return
		}
	}
}

// drain gives in-flight commands a bounded grace period. Their results are
// still folded into the store (without rendering); anything outstanding when
// the timer fires is abandoned and its eventual result discarded.
func (p *Program) drain() {
	p.phase.Store(int32(phaseDraining))
	p.backend.Interrupt()

	finished := make(chan struct{})
	go func() {
		p.cmdWG.Wait()
		close(finished)
	}()

	timer := time.NewTimer(p.drainTimeout)
	defer timer.Stop()
	for {
		select {
		case m := <-p.msgs:
			m, _ = unquiet(m)
			if p.session != nil {
				p.session.Step(m)
			}
			next, _ := p.store.Update(m) // commands returned now are discarded
			if next != nil {
				p.store = next
			}
		case <-finished:
			p.flushResults()
			return
		case <-timer.C:
			// Close the queue to stragglers before waking them, so only
			// results that beat the deadline are folded in.
			p.terminate()
			p.cancel()
			p.flushResults()
			return
		}
	}
}

// flushResults applies any command results already queued when draining ends.
// A result posted by a command happens before its WaitGroup Done, so nothing
// from a finished command can be missed here.
func (p *Program) flushResults() {
	for {
		select {
		case m := <-p.msgs:
			m, _ = unquiet(m)
			if p.session != nil {
				p.session.Step(m)
			}
			next, _ := p.store.Update(m)
			if next != nil {
				p.store = next
			}
		default:
			return
		}
	}
}

func (p *Program) terminate() {
	if phase(p.phase.Swap(int32(phaseTerminated))) != phaseTerminated {
		close(p.done)
	}
}

func (p *Program) logf(format string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Printf(format, args...)
	}
}

func keyMsgFromEvent(e render.KeyEvent) KeyMsg {
	return KeyMsg{
		Name:  e.Name,
		Rune:  e.Rune,
		Alt:   e.Alt,
		Ctrl:  e.Ctrl,
		Shift: e.Shift,
	}
}
