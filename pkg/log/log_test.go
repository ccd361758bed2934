// Copyright 2026 gafl project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package log

import (
	"bytes"
	"strings"
	"testing"
)

func init() {
	EnableLogCaching(4, 20)
}

func TestCaching(t *testing.T) {
	tests := []struct{ str, want string }{
		{"", ""},
		{"a", "a\n"},
		{"bb", "a\nbb\n"},
		{"ccc", "a\nbb\nccc\n"},
		{"dddd", "a\nbb\nccc\ndddd\n"},
		{"eeeee", "bb\nccc\ndddd\neeeee\n"},
		{"ffffff", "ccc\ndddd\neeeee\nffffff\n"},
		{"ggggggg", "eeeee\nffffff\nggggggg\n"},
		{"hhhhhhhh", "ggggggg\nhhhhhhhh\n"},
		{"jjjjjjjjjjjjjjjjjjjjjjjjj", "jjjjjjjjjjjjjjjjjjjjjjjjj\n"},
	}
	prependTime = false
	for _, test := range tests {
		if test.str != "" {
			Logf(1, "%s", test.str)
		}
		out := CachedLogOutput()
		if out != test.want {
			t.Fatalf("wrote: %v\nwant: %v\ngot: %v", test.str, test.want, out)
		}
	}
}

func TestVerboseWriter(t *testing.T) {
	prependTime = false
	w := VerboseWriter(1)
	n, err := w.Write([]byte("written through adapter"))
	if err != nil || n != len("written through adapter") {
		t.Fatalf("write failed: n=%v err=%v", n, err)
	}
	if out := CachedLogOutput(); !strings.Contains(out, "written through adapter") {
		t.Fatalf("adapter output not cached: %q", out)
	}
}

func TestFlushCached(t *testing.T) {
	prependTime = false
	Logf(0, "flush me")
	buf := new(bytes.Buffer)
	FlushCached(buf)
	if buf.Len() == 0 {
		t.Fatalf("flush produced no output")
	}
	if got := buf.String(); got != CachedLogOutput() {
		t.Fatalf("flush output %q != cached output %q", got, CachedLogOutput())
	}
}
