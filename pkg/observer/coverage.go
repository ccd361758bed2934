// Copyright 2026 gafl project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package observer

import (
	"sync"
)

// Coverage tracks edge hit counts for the current run and accumulates
// the set of edges ever hit across runs. The instrumented target calls
// Hit from within the harness; the surrounding loop inspects NewEdges
// after PostExec to drive input selection.
type Coverage struct {
	mu       sync.Mutex
	current  map[uint32]uint8 // per-run hit counts, cleared by Reset
	accum    map[uint32]uint8 // max hit count ever observed per edge
	newEdges []uint32         // edges first seen during the last committed run
}

func NewCoverage() *Coverage {
	return &Coverage{
		current: make(map[uint32]uint8),
		accum:   make(map[uint32]uint8),
	}
}

func (c *Coverage) Name() string {
	return "coverage"
}

// Hit records one execution of the edge identified by pc.
func (c *Coverage) Hit(pc uint32) {
	c.mu.Lock()
	if cnt := c.current[pc]; cnt < 0xff {
		c.current[pc] = cnt + 1
	}
	c.mu.Unlock()
}

func (c *Coverage) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.current)
	c.newEdges = nil
	return nil
}

func (c *Coverage) PostExec() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for pc, cnt := range c.current {
		prev, seen := c.accum[pc]
		if !seen {
			c.newEdges = append(c.newEdges, pc)
		}
		if cnt > prev {
			c.accum[pc] = cnt
		}
	}
	return nil
}

// NewEdges returns edges first observed during the last committed run.
func (c *Coverage) NewEdges() []uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]uint32(nil), c.newEdges...)
}

// TotalEdges returns the number of distinct edges ever hit.
func (c *Coverage) TotalEdges() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.accum)
}
