// SPDX-License-Identifier: Unlicense OR MIT

//go:build !windows && !(((linux && !android) || freebsd) && !nox11)

package glcontext

import "gioui.org/glcontext/internal/jawt"

func describeAWT(info *jawt.Info) (Descriptor, error) {
	return Descriptor{}, ErrUnsupported
}
