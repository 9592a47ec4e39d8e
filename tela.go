// Copyright © 2025 Tela contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: tela.go
// Summary: Core application contract: the Store, its transition function,
// and the optional startup hook.

// Package tela is an Elm-style terminal UI runtime. An application is a
// single Store value; each processed message produces the next Store and an
// optional batch of commands, and the store's View is rendered as a frame
// string. The frame may embed a small SGR subset (bold, faint, underline,
// blink, reverse, and 24-bit colors); the render engine pushes only changed
// cells to the terminal.
package tela

// Store holds the whole application state. Update must be pure apart from
// returning commands: all I/O belongs in a Cmd. The runtime never calls
// Update concurrently with itself.
type Store interface {
	// Update consumes one message and returns the next store plus any
	// commands to run. Returning a nil Store keeps the current one.
	Update(msg Msg) (Store, []Cmd)

	// View renders the store as a frame string. It must be deterministic
	// for a given store value and free of side effects; the frame diff is
	// meaningless otherwise.
	View() string
}

// Starter is an optional Store extension: its commands are scheduled once,
// before the first message is processed.
type Starter interface {
	Start() []Cmd
}
