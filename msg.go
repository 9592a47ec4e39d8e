// Copyright © 2025 Tela contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: msg.go
// Summary: Built-in message types delivered to the transition function.

package tela

import "strings"

// Msg is anything that happened: user input, a command result, a timer tick.
// Applications define their own message types freely; the runtime only treats
// the built-ins below specially.
type Msg interface{}

// QuitMsg asks the runtime to stop. After it is processed no further input is
// accepted; in-flight commands get a bounded grace period.
type QuitMsg struct{}

// ErrMsg carries a failed command's error. Command failures never crash the
// loop; they arrive here instead.
type ErrMsg struct {
	Err error
}

// ResizeMsg reports a terminal size change. The runtime adapts the render
// engine before the store sees the message.
type ResizeMsg struct {
	Cols, Rows int
}

// KeyMsg is a key press. Named keys ("up", "enter", "escape", ...) carry
// Name; character keys carry Rune.
type KeyMsg struct {
	Name  string
	Rune  rune
	Alt   bool
	Ctrl  bool
	Shift bool
}

// String renders the key in a canonical form such as "a", "ctrl+c",
// "alt+enter" or "shift+f3", convenient for matching in Update.
func (k KeyMsg) String() string {
	var sb strings.Builder
	if k.Ctrl {
		sb.WriteString("ctrl+")
	}
	if k.Alt {
		sb.WriteString("alt+")
	}
	if k.Shift {
		sb.WriteString("shift+")
	}
	if k.Name != "" {
		sb.WriteString(k.Name)
	} else {
		sb.WriteRune(k.Rune)
	}
	return sb.String()
}

// quietMsg suppresses the render for the step that processes the wrapped
// message. Used to coalesce rapid successive updates.
type quietMsg struct {
	msg Msg
}

// Quiet wraps a message so that processing it does not trigger a render. The
// next unwrapped message repaints as usual.
func Quiet(m Msg) Msg {
	return quietMsg{msg: m}
}

func unquiet(m Msg) (Msg, bool) {
	if q, ok := m.(quietMsg); ok {
		return q.msg, true
	}
	return m, false
}
