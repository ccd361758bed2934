// Copyright 2026 gafl project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package input defines the fuzz case abstraction consumed by executors.
// An input owns whatever structured state it likes; the executor only ever
// sees its canonical byte form.
package input

import (
	"fmt"
)

// Input is a single fuzz case.
type Input interface {
	// Serialize returns the canonical byte representation of the input.
	// It fails with *SerializationError when no canonical form exists
	// for the current state.
	Serialize() ([]byte, error)
	// Deserialize reconstructs the input state from data.
	// It fails on malformed data and has no side effects beyond
	// internal state mutation.
	Deserialize(data []byte) error
}

// SerializationError means an input could not be converted to/from bytes.
type SerializationError struct {
	What string
	Err  error
}

func (e *SerializationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("serialization failed: %v", e.What)
	}
	return fmt.Sprintf("serialization failed: %v: %v", e.What, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

// Bytes is the trivial input: its serialized form is the buffer itself.
type Bytes struct {
	Data []byte
}

func NewBytes(data []byte) *Bytes {
	return &Bytes{Data: data}
}

func (b *Bytes) Serialize() ([]byte, error) {
	if b.Data == nil {
		return nil, &SerializationError{What: "bytes input holds no data"}
	}
	return b.Data, nil
}

func (b *Bytes) Deserialize(data []byte) error {
	if data == nil {
		return &SerializationError{What: "bytes input cannot be restored from nil"}
	}
	// Keep an empty-but-non-nil buffer distinct from "no data".
	b.Data = append(make([]byte, 0, len(data)), data...)
	return nil
}
