// Copyright 2026 gafl project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package observer defines pluggable per-run data collectors.
// An executor resets every registered observer before a run and asks it to
// commit its data afterwards; feedback logic recovers concrete observer
// types by name lookup plus a type assertion.
package observer

// Observer collects data about a single target run.
type Observer interface {
	// Name identifies the observer within an executor's observer set.
	Name() string
	// Reset clears per-run state. A failure means the observer's state
	// is unusable for the upcoming run.
	Reset() error
	// PostExec commits/collects results after a run completes. A failure
	// means collected data for that run may be incomplete.
	PostExec() error
}

// Lookup returns the first observer with the given name, or nil.
// Callers downcast the result to its concrete type:
//
//	cov := observer.Lookup(exec.Observers(), "coverage").(*observer.Coverage)
func Lookup(observers []Observer, name string) Observer {
	for _, obs := range observers {
		if obs.Name() == name {
			return obs
		}
	}
	return nil
}
