// Copyright 2026 gafl project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package observer

import (
	"time"

	"github.com/gafl/gafl/pkg/stat"
)

var statExecTime = stat.New("exec time", "Target execution time (ns)", stat.Distribution{})

// ExecTime measures the wall-clock duration of a run.
// The harness (or the loop around it) calls Start when execution begins;
// PostExec samples the duration into a distribution stat.
type ExecTime struct {
	started time.Time
	last    time.Duration
}

func NewExecTime() *ExecTime {
	return &ExecTime{}
}

func (e *ExecTime) Name() string {
	return "exec-time"
}

func (e *ExecTime) Start() {
	e.started = time.Now()
}

func (e *ExecTime) Reset() error {
	e.started = time.Time{}
	e.last = 0
	return nil
}

func (e *ExecTime) PostExec() error {
	if !e.started.IsZero() {
		e.last = time.Since(e.started)
		statExecTime.Add(int(e.last))
	}
	return nil
}

// Last returns the duration committed by the last PostExec,
// or 0 if the run was never started.
func (e *ExecTime) Last() time.Duration {
	return e.last
}
