// Copyright 2026 gafl project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package stat

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVal(t *testing.T) {
	v := New("test val", "test value")
	v.Add(1)
	v.Add(41)
	assert.Equal(t, 42, v.Val())
}

func TestExternal(t *testing.T) {
	data := []int{1, 2, 3}
	var mu sync.RWMutex
	v := New("test external", "externally read value", LenOf(&data, &mu))
	assert.Equal(t, 3, v.Val())
	mu.Lock()
	data = append(data, 4)
	mu.Unlock()
	assert.Equal(t, 4, v.Val())
	assert.Panics(t, func() { v.Add(1) })
}

func TestDistribution(t *testing.T) {
	v := New("test distribution", "sample distribution", Distribution{})
	assert.Equal(t, 0, v.Val())
	for i := 0; i < 10; i++ {
		v.Add(100)
	}
	assert.Equal(t, 100, v.Val())
}

func TestCollect(t *testing.T) {
	v := New("test collect", "collected value", Rate{})
	v.Add(7)
	var found bool
	for _, ui := range Collect() {
		if ui.Name == "test collect" {
			found = true
			assert.Equal(t, 7, ui.V)
			assert.NotEmpty(t, ui.Value)
		}
	}
	assert.True(t, found)
}
