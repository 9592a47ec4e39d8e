// Copyright © 2025 Tela contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: options.go
// Summary: Program options.

package tela

import (
	"log"
	"time"

	"github.com/framegrace/tela/config"
	"github.com/framegrace/tela/render"
)

// DefaultDrainTimeout is the grace period outstanding commands get after a
// quit message before being abandoned.
const DefaultDrainTimeout = 2 * time.Second

// Option customizes a Program before Run.
type Option func(*Program)

// WithBackend renders through the given backend instead of a fresh tcell
// screen. Tests pass fakes or simulation-backed drivers here.
func WithBackend(b render.Backend) Option {
	return func(p *Program) { p.backend = b }
}

// WithDrainTimeout overrides the command grace period applied after quit.
func WithDrainTimeout(d time.Duration) Option {
	return func(p *Program) {
		if d > 0 {
			p.drainTimeout = d
		}
	}
}

// WithSession attaches a session sink receiving every step and its written
// spans.
func WithSession(s SessionSink) Option {
	return func(p *Program) { p.session = s }
}

// WithLogger directs runtime diagnostics to l. Never log to stdout while a
// screen is active; point this at a file.
func WithLogger(l *log.Logger) Option {
	return func(p *Program) { p.logger = l }
}

// WithConfig applies file-sourced settings. Explicit options given after this
// one still win.
func WithConfig(c config.Config) Option {
	return func(p *Program) {
		if c.DrainTimeoutMillis > 0 {
			p.drainTimeout = time.Duration(c.DrainTimeoutMillis) * time.Millisecond
		}
	}
}
