// Copyright 2026 gafl project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

//go:build freebsd || netbsd || openbsd || linux || darwin

package sigmon

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"

	"github.com/gafl/gafl/pkg/log"
	"github.com/gafl/gafl/pkg/stat"
)

// Fault signals normally terminate the process if unhandled.
// Unmonitored: SIGALRM, SIGHUP, SIGINT, SIGKILL, SIGQUIT, SIGTERM.
var faultSignals = []os.Signal{
	unix.SIGSEGV,
	unix.SIGBUS,
	unix.SIGABRT,
	unix.SIGILL,
	unix.SIGFPE,
	unix.SIGPIPE,
}

// TimeoutSignal is raised by an external watchdog when a run exceeds
// its deadline.
const TimeoutSignal = unix.SIGUSR2

var (
	statCrashes  = stat.New("crashes", "Target crashes detected", stat.Prometheus("gafl_crashes"))
	statTimeouts = stat.New("timeouts", "Target timeouts detected", stat.Prometheus("gafl_timeouts"))
)

var (
	installOnce sync.Once

	// terminate delivers the final signal disposition.
	// Overridable so tests can observe the decision without dying.
	terminate = func(sig syscall.Signal) {
		signal.Reset(sig)
		unix.Kill(os.Getpid(), sig)
	}
)

// Install binds the monitor to the fault and timeout signals.
// It is called once per executor construction; repeated calls are no-ops.
// A failure to install is fatal for the caller: there is no degraded mode
// where fuzzing continues without crash detection.
func Install() error {
	installOnce.Do(func() {
		ch := make(chan os.Signal, 8)
		signal.Notify(ch, append(faultSignals, TimeoutSignal)...)
		go func() {
			for sig := range ch {
				handle(sig)
			}
		}()
	})
	return nil
}

// handle implements the handler contracts: consult the crash-context slot,
// report, flush buffered diagnostics, then kill the process deterministically.
// Faults are re-raised with the default disposition restored so the process
// dies with the fault's standard exit status; timeouts abort, because a hung
// harness cannot be allowed to continue past its deadline.
func handle(sig os.Signal) {
	if sig == TimeoutSignal {
		tok := Current()
		if tok == 0 {
			// Spurious or late delivery with nothing in flight.
			log.Logf(0, "timeout signal received, but no run in flight")
			return
		}
		statTimeouts.Add(1)
		log.Logf(0, "report %v: target timed out in %v", uuid.New(), Describe(tok))
		log.FlushCached(os.Stderr)
		terminate(unix.SIGABRT)
		return
	}
	statCrashes.Add(1)
	if tok := Current(); tok != 0 {
		log.Logf(0, "report %v: target crashed with %v in %v", uuid.New(), sig, Describe(tok))
	} else {
		log.Logf(0, "report %v: unattributed crash with %v, no run in flight", uuid.New(), sig)
	}
	log.FlushCached(os.Stderr)
	terminate(sig.(syscall.Signal))
}
