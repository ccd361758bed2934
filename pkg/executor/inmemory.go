// Copyright 2026 gafl project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package executor

import (
	"fmt"

	"github.com/gafl/gafl/pkg/input"
	"github.com/gafl/gafl/pkg/log"
	"github.com/gafl/gafl/pkg/observer"
	"github.com/gafl/gafl/pkg/sigmon"
	"github.com/gafl/gafl/pkg/stat"
)

var statExecs = stat.New("executions", "Total target executions",
	stat.Rate{}, stat.Prometheus("gafl_exec_total"))

// InMemory invokes the harness in the same process, on the same call stack.
// It is strictly single-threaded: RunTarget blocks its calling thread for
// the harness's entire duration. Running two executors concurrently from
// different threads is unsupported, the crash-context slot is per process.
type InMemory struct {
	harness   Harness
	curInput  input.Input
	observers []observer.Observer
	token     sigmon.Token
}

// NewInMemory creates an executor around harness and installs the crash
// monitor. Monitor installation failure is fatal: there is no mode where
// fuzzing continues without crash detection.
func NewInMemory(name string, harness Harness) *InMemory {
	if harness == nil {
		panic("executor: nil harness")
	}
	if err := sigmon.Install(); err != nil {
		log.Fatalf("failed to install crash monitor: %v", err)
	}
	return &InMemory{
		harness: harness,
		token:   sigmon.Register(fmt.Sprintf("in-memory executor %v", name)),
	}
}

func (im *InMemory) RunTarget() (ExitKind, error) {
	if im.curInput == nil {
		return ExitOk, fmt.Errorf("run target: %w", ErrNoInput)
	}
	data, err := im.curInput.Serialize()
	if err != nil {
		return ExitOk, err
	}
	statExecs.Add(1)
	// The slot is non-nil strictly between harness entry and exit.
	// The deferred Exit runs on every exit path, including a panicking
	// harness; a stale slot would misattribute the next fault.
	sigmon.Enter(im.token)
	defer sigmon.Exit(im.token)
	return im.harness(im, data), nil
}

func (im *InMemory) PlaceInput(inp input.Input) {
	im.curInput = inp
}

func (im *InMemory) CurInput() input.Input {
	return im.curInput
}

func (im *InMemory) AddObserver(obs observer.Observer) {
	im.observers = append(im.observers, obs)
}

func (im *InMemory) Observers() []observer.Observer {
	return im.observers
}

func (im *InMemory) ResetObservers() error {
	var firstErr error
	for _, obs := range im.observers {
		if err := obs.Reset(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("observer %v: reset: %w", obs.Name(), err)
		}
	}
	return firstErr
}

func (im *InMemory) PostExecObservers() error {
	var firstErr error
	for _, obs := range im.observers {
		if err := obs.PostExec(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("observer %v: post exec: %w", obs.Name(), err)
		}
	}
	return firstErr
}
