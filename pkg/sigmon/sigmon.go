// Copyright 2026 gafl project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package sigmon converts process-fatal conditions that occur inside target
// execution into attributable reports, instead of silent process death.
//
// The package owns the crash-context slot: a process-wide token identifying
// the executor, if any, whose harness call is currently in flight. Executors
// publish their token with Enter immediately before invoking the harness and
// clear it with Exit on every return path. When a monitored signal arrives,
// the monitor consults the slot to tell "the target died mid-run" apart from
// "the process died while idle".
//
// Faults that originate in Go code surface as runtime panics rather than
// signals; the monitor covers signals actually delivered to the process:
// faults raised by instrumented non-Go target code and the timeout signal
// sent by a watchdog.
package sigmon

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Token identifies a registered executor in crash reports.
// The zero Token means "no run in flight".
type Token int64

var (
	current   atomic.Int64
	regMu     sync.Mutex
	registry  = make(map[Token]string)
	nextToken int64
)

// Register assigns a token to an executor so that crash reports can name it.
func Register(desc string) Token {
	regMu.Lock()
	defer regMu.Unlock()
	nextToken++
	tok := Token(nextToken)
	registry[tok] = desc
	return tok
}

// Enter publishes tok as the executor with a harness call in flight.
// The write must be visible to the monitor immediately, hence the atomic.
func Enter(tok Token) {
	current.Store(int64(tok))
}

// Exit clears the crash-context slot. It must run on every exit path of the
// harness invocation; a stale slot would misattribute a later fault to a run
// that already finished.
func Exit(tok Token) {
	current.CompareAndSwap(int64(tok), 0)
}

// Current returns the token of the executor currently running a harness,
// or 0 if none.
func Current() Token {
	return Token(current.Load())
}

// Describe returns the registered description for tok.
func Describe(tok Token) string {
	regMu.Lock()
	defer regMu.Unlock()
	if desc, ok := registry[tok]; ok {
		return desc
	}
	return fmt.Sprintf("unknown executor %v", int64(tok))
}
