// Copyright © 2025 Tela contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd.go
// Summary: Commands: deferred side-effecting work yielding at most one
// message, plus the stock command constructors.

package tela

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"time"

	"github.com/creack/pty"
)

// Cmd is a deferred action run outside the update loop. Its result message,
// if any, is delivered through the same serialized queue as all other input.
// The context is cancelled when the runtime abandons outstanding commands.
//
// A Cmd must not retain the Store it was created from.
type Cmd func(ctx context.Context) Msg

// Quit is the command that stops the program.
func Quit(context.Context) Msg {
	return QuitMsg{}
}

// Tick delivers fn(now) after d, or nothing if the runtime shuts down first.
func Tick(d time.Duration, fn func(time.Time) Msg) Cmd {
	return func(ctx context.Context) Msg {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case now := <-t.C:
			return fn(now)
		case <-ctx.Done():
			return nil
		}
	}
}

// Perform lifts an error-returning action into a Cmd: the error, if any,
// arrives as an ErrMsg.
func Perform(f func(ctx context.Context) (Msg, error)) Cmd {
	return func(ctx context.Context) Msg {
		m, err := f(ctx)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return m
	}
}

// ExecDoneMsg is the result of an Exec command.
type ExecDoneMsg struct {
	Name   string
	Output string
	Err    error
}

// Exec runs a program to completion on a pseudo-terminal and yields one
// ExecDoneMsg with its combined output. The pty keeps programs that check for
// a tty (pagers, anything colorizing) behaving as they would interactively.
func Exec(name string, args ...string) Cmd {
	return func(ctx context.Context) Msg {
		cmd := exec.CommandContext(ctx, name, args...)
		f, err := pty.Start(cmd)
		if err != nil {
			return ExecDoneMsg{Name: name, Err: err}
		}
		defer f.Close()

		var out bytes.Buffer
		// The pty read side returns an error once the child exits; that
		// is the normal end of output, not a failure.
		_, _ = io.Copy(&out, f)
		err = cmd.Wait()
		return ExecDoneMsg{Name: name, Output: out.String(), Err: err}
	}
}
