// SPDX-License-Identifier: Unlicense OR MIT

//go:build (linux && !android) || freebsd

package jawt

import (
	"fmt"

	"github.com/ebitengine/purego"
)

const (
	defaultLibrary = "libjawt.so"
	javaLibDir     = "lib"
)

// syscallN calls a native function pointer.
var syscallN = purego.SyscallN

func loadLibrary(path string) (uintptr, error) {
	h, err := purego.Dlopen(path, purego.RTLD_LAZY|purego.RTLD_GLOBAL)
	if err != nil {
		return 0, fmt.Errorf("failed to load %s: %w", path, err)
	}
	proc, err := purego.Dlsym(h, "JAWT_GetAWT")
	if err != nil {
		return 0, fmt.Errorf("failed to locate JAWT_GetAWT in %s: %w", path, err)
	}
	return proc, nil
}
