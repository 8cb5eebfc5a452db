// SPDX-License-Identifier: Unlicense OR MIT

//go:build !windows && !((linux && !android) || freebsd)

package jawt

import "errors"

const (
	defaultLibrary = ""
	javaLibDir     = ""
)

var syscallN = func(fn uintptr, args ...uintptr) (r1, r2, err uintptr) {
	panic("jawt: native calls are not supported on this platform")
}

func loadLibrary(path string) (uintptr, error) {
	return 0, errors.New("JAWT is not supported on this platform")
}
