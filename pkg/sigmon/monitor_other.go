// Copyright 2026 gafl project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

//go:build !(freebsd || netbsd || openbsd || linux || darwin)

package sigmon

import "fmt"

// Install fails on platforms without the required signal machinery.
// Callers treat this as fatal: fuzzing cannot proceed without crash detection.
func Install() error {
	return fmt.Errorf("crash monitoring is not supported on this platform")
}
