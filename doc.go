// SPDX-License-Identifier: Unlicense OR MIT

/*
Package glcontext manages OpenGL rendering contexts bound to native
window surfaces.

A Context combines a surface, the drawable area of a window, with the
OpenGL binding of the platform the program is built for: WGL on Windows,
GLX on X11. The surface comes from one of two toolkits:

  - NewCanvasContext draws into an AWT Canvas. The canvas drawing surface
    is locked through the AWT Native Interface on every Lock and unlocked
    again by Unlock.
  - NewWindowContext draws into a window whose native handles are supplied
    by the caller and stay valid for the lifetime of the Context.

The native rendering context is created on the first successful Lock and
reused until Destroy.

# Protocol

A frame is drawn between Lock and Unlock:

	if err := ctx.Lock(); err != nil {
		return err
	}
	// Issue GL commands.
	err := ctx.SwapBuffers()
	ctx.Unlock()

Lock binds the context to the calling OS thread and locks the goroutine
to that thread. Lock, the GL commands and Unlock must therefore run on the
same goroutine. A Context is not safe for concurrent use.

# Native libraries

The OpenGL, Xlib and AWT libraries are loaded on first use and stay
loaded. Their paths come from the GLCONTEXT_LIBGL, GLCONTEXT_LIBX11 and
GLCONTEXT_LIBJAWT environment variables or from the WithGLLibrary,
WithX11Library and WithJAWTLibrary options. The first Context that loads
a library fixes its path; asking for another path later fails with
ErrLibraryConflict.

# Diagnostics

Failures are returned as errors and also reported to the package logger,
which writes to standard error by default. Use SetLogger to redirect or
silence it.
*/
package glcontext
