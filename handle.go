// SPDX-License-Identifier: Unlicense OR MIT

package glcontext

import "image"

type (
	// Display is an X11 Display pointer.
	Display uintptr
	// Drawable is an X11 Drawable.
	Drawable uintptr
	// HWND is a Windows window handle.
	HWND uintptr
	// HDC is a Windows device context handle.
	HDC uintptr
	// Env is a JNIEnv pointer of the calling thread.
	Env uintptr
	// Object is a JNI object reference.
	Object uintptr
)

// Handle is the set of native handle types.
type Handle interface {
	~uintptr
}

// FromInt64 converts the integer representation of a native handle, as
// passed across a language boundary, to a typed handle.
func FromInt64[H Handle](v int64) H {
	return H(uintptr(v))
}

// ToInt64 converts a typed handle to its integer representation.
func ToInt64[H Handle](h H) int64 {
	return int64(h)
}

// Descriptor holds the native handles of a surface. The X11 binding
// uses Display and Drawable, the Windows binding uses Window and DC.
type Descriptor struct {
	Display  Display
	Drawable Drawable
	Window   HWND
	DC       HDC
	// Bounds of the surface in its parent window, if known.
	Bounds image.Rectangle
}
