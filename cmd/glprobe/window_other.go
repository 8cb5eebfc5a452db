// SPDX-License-Identifier: Unlicense OR MIT

//go:build !(((linux && !android) || freebsd) && !nox11)

package main

import (
	"fmt"
	"runtime"

	"gioui.org/glcontext"
)

type otherWindow struct{}

func openWindow(cfg *config) (*otherWindow, error) {
	return nil, fmt.Errorf("%w: glprobe windows are not implemented on %s", glcontext.ErrUnsupported, runtime.GOOS)
}

func (w *otherWindow) descriptor() glcontext.Descriptor {
	return glcontext.Descriptor{}
}

func (w *otherWindow) close() {}
