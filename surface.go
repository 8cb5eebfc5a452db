// SPDX-License-Identifier: Unlicense OR MIT

package glcontext

// surface is the drawable area of a window as provided by a toolkit.
type surface interface {
	// lock acquires the surface and returns its native handles. On
	// failure nothing stays acquired.
	lock() (Descriptor, error)
	// unlock releases what lock acquired.
	unlock()
	// release drops references held for the lifetime of the Context.
	release()
}

// windowSurface is a surface whose handles are owned by the caller and
// valid for the lifetime of the Context.
type windowSurface struct {
	d Descriptor
}

func (s *windowSurface) lock() (Descriptor, error) {
	return s.d, nil
}

func (s *windowSurface) unlock() {}

func (s *windowSurface) release() {}
