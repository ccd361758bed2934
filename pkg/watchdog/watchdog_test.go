// Copyright 2026 gafl project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

//go:build freebsd || netbsd || openbsd || linux || darwin

package watchdog

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func stubKill(w *Watchdog) *atomic.Int32 {
	var fired atomic.Int32
	w.kill = func() error {
		fired.Add(1)
		return nil
	}
	return &fired
}

func TestFires(t *testing.T) {
	w := New(10 * time.Millisecond)
	fired := stubKill(w)
	w.Arm()
	assert.Eventually(t, func() bool { return fired.Load() == 1 },
		time.Second, time.Millisecond)
}

func TestDisarm(t *testing.T) {
	w := New(20 * time.Millisecond)
	fired := stubKill(w)
	w.Arm()
	w.Disarm()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}

func TestRearm(t *testing.T) {
	w := New(time.Hour)
	fired := stubKill(w)
	w.Arm()
	w.Arm() // restart must not leak the previous timer
	w.Disarm()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}
