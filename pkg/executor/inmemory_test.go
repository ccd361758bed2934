// Copyright 2026 gafl project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package executor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gafl/gafl/pkg/input"
	"github.com/gafl/gafl/pkg/sigmon"
)

// recordingObserver notes every invocation into a shared journal.
type recordingObserver struct {
	name        string
	journal     *[]string
	resetErr    error
	postExecErr error
}

func (o *recordingObserver) Name() string { return o.name }

func (o *recordingObserver) Reset() error {
	*o.journal = append(*o.journal, o.name+".reset")
	return o.resetErr
}

func (o *recordingObserver) PostExec() error {
	*o.journal = append(*o.journal, o.name+".post")
	return o.postExecErr
}

// brokenInput fails to serialize.
type brokenInput struct{}

func (brokenInput) Serialize() ([]byte, error) {
	return nil, &input.SerializationError{What: "broken input"}
}

func (brokenInput) Deserialize([]byte) error { return nil }

func TestRunTarget(t *testing.T) {
	var calls int
	var gotData []byte
	var tokenDuringRun sigmon.Token
	exec := NewInMemory("t1", func(exec Executor, data []byte) ExitKind {
		calls++
		gotData = append([]byte(nil), data...)
		tokenDuringRun = sigmon.Current()
		return ExitOk
	})
	exec.PlaceInput(input.NewBytes([]byte{1, 2, 3}))

	kind, err := exec.RunTarget()
	require.NoError(t, err)
	assert.Equal(t, ExitOk, kind)
	assert.Equal(t, 1, calls)
	assert.Equal(t, []byte{1, 2, 3}, gotData)
	// The crash-context slot was published for the duration of the run
	// and cleared afterwards.
	assert.NotEqual(t, sigmon.Token(0), tokenDuringRun)
	assert.Equal(t, sigmon.Token(0), sigmon.Current())
	// The input slot still holds the same bytes.
	data, err := exec.CurInput().Serialize()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)
}

func TestRunTargetNoInput(t *testing.T) {
	var calls int
	exec := NewInMemory("t2", func(exec Executor, data []byte) ExitKind {
		calls++
		return ExitOk
	})
	_, err := exec.RunTarget()
	assert.ErrorIs(t, err, ErrNoInput)
	assert.Equal(t, 0, calls)
	assert.Equal(t, sigmon.Token(0), sigmon.Current())
}

func TestRunTargetSerializationFailure(t *testing.T) {
	var calls int
	exec := NewInMemory("t3", func(exec Executor, data []byte) ExitKind {
		calls++
		return ExitOk
	})
	exec.PlaceInput(brokenInput{})
	_, err := exec.RunTarget()
	var serr *input.SerializationError
	assert.ErrorAs(t, err, &serr)
	assert.Equal(t, 0, calls)
	assert.Equal(t, sigmon.Token(0), sigmon.Current())
}

func TestSlotClearedOnPanickingHarness(t *testing.T) {
	exec := NewInMemory("t4", func(exec Executor, data []byte) ExitKind {
		panic("harness blew up")
	})
	exec.PlaceInput(input.NewBytes([]byte("x")))
	assert.Panics(t, func() { exec.RunTarget() })
	assert.Equal(t, sigmon.Token(0), sigmon.Current())
}

func TestPlaceInputReplaces(t *testing.T) {
	exec := NewInMemory("t5", func(exec Executor, data []byte) ExitKind { return ExitOk })
	first := input.NewBytes([]byte("first"))
	second := input.NewBytes([]byte("second"))
	exec.PlaceInput(first)
	exec.PlaceInput(second)
	data, err := exec.CurInput().Serialize()
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), data)
}

func TestObserverOrder(t *testing.T) {
	var journal []string
	exec := NewInMemory("t6", func(exec Executor, data []byte) ExitKind { return ExitOk })
	exec.AddObserver(&recordingObserver{name: "a", journal: &journal})
	exec.AddObserver(&recordingObserver{name: "b", journal: &journal})
	exec.AddObserver(&recordingObserver{name: "c", journal: &journal})

	require.NoError(t, exec.ResetObservers())
	require.NoError(t, exec.PostExecObservers())
	assert.Equal(t, []string{"a.reset", "b.reset", "c.reset", "a.post", "b.post", "c.post"}, journal)
	assert.Len(t, exec.Observers(), 3)
}

func TestObserverFirstErrorWins(t *testing.T) {
	var journal []string
	errA := errors.New("a failed")
	errB := errors.New("b failed")
	exec := NewInMemory("t7", func(exec Executor, data []byte) ExitKind { return ExitOk })
	exec.AddObserver(&recordingObserver{name: "a", journal: &journal, resetErr: errA, postExecErr: errA})
	exec.AddObserver(&recordingObserver{name: "b", journal: &journal, resetErr: errB, postExecErr: errB})

	err := exec.ResetObservers()
	assert.ErrorIs(t, err, errA)
	assert.NotErrorIs(t, err, errB)
	err = exec.PostExecObservers()
	assert.ErrorIs(t, err, errA)
	// Both observers were still invoked for both batches.
	assert.Equal(t, []string{"a.reset", "b.reset", "a.post", "b.post"}, journal)

	// Observer failures never block execution itself.
	exec.PlaceInput(input.NewBytes([]byte("run")))
	kind, err := exec.RunTarget()
	require.NoError(t, err)
	assert.Equal(t, ExitOk, kind)
}

func TestExitKindString(t *testing.T) {
	assert.Equal(t, "ok", ExitOk.String())
	assert.Equal(t, "crash", ExitCrash.String())
	assert.Equal(t, "timeout", ExitTimeout.String())
}
