// SPDX-License-Identifier: Unlicense OR MIT

package glcontext

import "errors"

var (
	// ErrUnsupported is returned when no OpenGL binding is available for
	// the platform or toolkit.
	ErrUnsupported = errors.New("glcontext: not supported on this platform")
	// ErrInvalidSurface is returned for surface descriptors that lack the
	// handles the platform needs.
	ErrInvalidSurface = errors.New("glcontext: invalid surface")

	// ErrLibraryConflict is returned when a native library path is
	// requested after the library was loaded from another path.
	ErrLibraryConflict = errors.New("glcontext: native library already loaded")

	ErrLocked    = errors.New("glcontext: context is locked")
	ErrNotLocked = errors.New("glcontext: context is not locked")
	ErrDestroyed = errors.New("glcontext: context is destroyed")

	// ErrToolkitAccess reports that the toolkit surface access facility
	// or the drawing surface could not be obtained.
	ErrToolkitAccess = errors.New("glcontext: toolkit unavailable")
	// ErrSurfaceLock reports that the drawing surface could not be
	// locked.
	ErrSurfaceLock = errors.New("glcontext: cannot lock drawing surface")
	// ErrSurfaceInfo reports that a locked surface did not provide its
	// platform handles.
	ErrSurfaceInfo = errors.New("glcontext: cannot get drawing surface info")
)

// NativeError is a failure reported by the native OpenGL binding.
type NativeError struct {
	Op  string
	Err error
}

func (e *NativeError) Error() string {
	return "glcontext: " + e.Op + ": " + e.Err.Error()
}

func (e *NativeError) Unwrap() error {
	return e.Err
}
