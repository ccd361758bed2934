// Copyright 2026 gafl project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package executor runs candidate inputs against a target routine.
// The fuzzing loop loads an input, resets the observers, calls RunTarget
// and collects the observers; crash/timeout detection happens out of band
// in pkg/sigmon, never through RunTarget's return values.
package executor

import (
	"errors"
	"fmt"

	"github.com/gafl/gafl/pkg/input"
	"github.com/gafl/gafl/pkg/observer"
)

// ExitKind classifies a harness invocation that returned normally.
// A faulting call never returns to produce one: ExitCrash/ExitTimeout exist
// for harnesses that detect misbehavior themselves, while OS-level faults
// and watchdog timeouts are reported through the signal monitor.
type ExitKind int

const (
	ExitOk ExitKind = iota
	ExitCrash
	ExitTimeout
)

func (k ExitKind) String() string {
	switch k {
	case ExitOk:
		return "ok"
	case ExitCrash:
		return "crash"
	case ExitTimeout:
		return "timeout"
	}
	return fmt.Sprintf("exit kind %v", int(k))
}

// Harness is the caller-supplied routine exercising the target with a given
// byte input. It is bound at construction and only referenced, never owned,
// by the executor.
type Harness func(exec Executor, data []byte) ExitKind

// ErrNoInput is returned by RunTarget when no input has been placed.
var ErrNoInput = errors.New("no current input")

// Executor executes one trial of the target per RunTarget call.
type Executor interface {
	// RunTarget executes exactly one trial against the current input.
	// It fails with ErrNoInput when no input is loaded and propagates
	// input serialization errors; in both cases the harness is not
	// invoked and no other state changes.
	RunTarget() (ExitKind, error)
	// PlaceInput transfers the input into the executor's single slot,
	// discarding any previous occupant. It always succeeds.
	PlaceInput(inp input.Input)
	// CurInput returns the input currently occupying the slot, or nil.
	CurInput() input.Input
	// AddObserver appends obs to the observer set.
	// Registration order is invocation order and is never changed.
	AddObserver(obs observer.Observer)
	// Observers returns the registered observers in registration order.
	Observers() []observer.Observer
	// ResetObservers invokes Reset on every registered observer.
	// Every observer runs even after one fails; the first failure wins.
	ResetObservers() error
	// PostExecObservers invokes PostExec on every registered observer,
	// with the same all-invoked, first-error-wins contract.
	PostExecObservers() error
}
