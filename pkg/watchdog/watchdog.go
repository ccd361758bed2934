// Copyright 2026 gafl project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

//go:build freebsd || netbsd || openbsd || linux || darwin

// Package watchdog raises the timeout signal against the own process when an
// armed run exceeds its deadline. It is the external collaborator the crash
// monitor expects: the monitor only reacts to the signal, the watchdog
// decides when to send it.
package watchdog

import (
	"os"
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"github.com/gafl/gafl/pkg/log"
	"github.com/gafl/gafl/pkg/sigmon"
)

type Watchdog struct {
	timeout time.Duration

	mu    sync.Mutex
	timer *time.Timer

	// kill is overridable for tests.
	kill func() error
}

func New(timeout time.Duration) *Watchdog {
	return &Watchdog{
		timeout: timeout,
		kill: func() error {
			return unix.Kill(os.Getpid(), sigmon.TimeoutSignal)
		},
	}
}

// Arm starts (or restarts) the deadline for one run.
// The caller arms immediately before RunTarget and disarms right after it
// returns; a run that does not return in time gets the process killed.
func (w *Watchdog) Arm() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.timeout, w.fire)
}

// Disarm cancels the current deadline, if any.
func (w *Watchdog) Disarm() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

func (w *Watchdog) fire() {
	log.Logf(0, "watchdog: run exceeded %v deadline", w.timeout)
	if err := w.kill(); err != nil {
		log.Logf(0, "watchdog: failed to deliver timeout signal: %v", err)
	}
}
