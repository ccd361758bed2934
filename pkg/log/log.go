// Copyright 2026 gafl project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package log provides functionality similar to standard log package with some extensions:
//   - verbosity levels
//   - global verbosity setting that can be used by multiple packages
//   - ability to cache recent output in memory and flush it on demand
//     (the crash monitor dumps the cache when the target dies)
package log

import (
	"flag"
	"fmt"
	"io"
	golog "log"
	"sync"
	"time"
)

var (
	flagV       = flag.Int("v", 0, "verbosity")
	mu          sync.Mutex
	cache       *ringCache
	prependTime = true // for testing
)

type ringCache struct {
	entries []string
	pos     int
	mem     int
	maxMem  int
}

// EnableLogCaching enables in-memory caching of log output.
// Caches up to maxLines lines, but no more than maxMem bytes.
// Cached output can later be queried with CachedLogOutput or
// dumped with FlushCached.
func EnableLogCaching(maxLines, maxMem int) {
	mu.Lock()
	defer mu.Unlock()
	if cache != nil {
		Fatalf("log caching is already enabled")
	}
	if maxLines < 1 || maxMem < 1 {
		panic("invalid maxLines/maxMem")
	}
	cache = &ringCache{
		entries: make([]string, maxLines),
		maxMem:  maxMem,
	}
}

// CachedLogOutput returns the currently cached log output, oldest line first.
func CachedLogOutput() string {
	mu.Lock()
	defer mu.Unlock()
	if cache == nil {
		return ""
	}
	out := ""
	for i := range cache.entries {
		pos := (cache.pos + i) % len(cache.entries)
		if cache.entries[pos] == "" {
			continue
		}
		out += cache.entries[pos] + "\n"
	}
	return out
}

// FlushCached writes the cached log output to w.
// It is used by the crash monitor as the last action before the process dies,
// so it must not allocate beyond the final formatting.
func FlushCached(w io.Writer) {
	out := CachedLogOutput()
	if out == "" {
		return
	}
	io.WriteString(w, out)
}

func Logf(v int, msg string, args ...interface{}) {
	mu.Lock()
	doLog := v <= *flagV
	if cache != nil && v <= 1 {
		cache.add(fmt.Sprintf(msg, args...))
	}
	mu.Unlock()

	if doLog {
		golog.Printf(msg, args...)
	}
}

func (c *ringCache) add(line string) {
	c.mem -= len(c.entries[c.pos])
	if c.mem < 0 {
		panic("log cache size underflow")
	}
	if prependTime {
		line = time.Now().Format("2006/01/02 15:04:05 ") + line
	}
	c.entries[c.pos] = line
	c.mem += len(line)
	c.pos = (c.pos + 1) % len(c.entries)
	for i := 0; i < len(c.entries)-1 && c.mem > c.maxMem; i++ {
		pos := (c.pos + i) % len(c.entries)
		c.mem -= len(c.entries[pos])
		c.entries[pos] = ""
	}
	if c.mem < 0 {
		panic("log cache size underflow")
	}
}

func Fatal(err error) {
	golog.Fatal(err)
}

func Fatalf(msg string, args ...interface{}) {
	golog.Fatalf(msg, args...)
}

// VerboseWriter is an io.Writer that logs at the given verbosity level.
type VerboseWriter int

func (w VerboseWriter) Write(data []byte) (int, error) {
	Logf(int(w), "%s", data)
	return len(data), nil
}
