// SPDX-License-Identifier: Unlicense OR MIT

package glcontext

import (
	"fmt"

	"gioui.org/glcontext/internal/jawt"
	"gioui.org/glcontext/internal/unwind"
)

// awtToolkit is the AWT surface access facility.
type awtToolkit interface {
	DrawingSurface(canvas jawt.Object) (awtSurface, error)
	FreeDrawingSurface(ds awtSurface)
}

// awtSurface is an AWT drawing surface.
type awtSurface interface {
	Lock() (jawt.LockFlags, error)
	Info() (*jawt.Info, error)
	FreeInfo(info *jawt.Info)
	Unlock()
}

// Native entry points, replaced in tests.
var (
	loadJAWT        = jawt.Load
	newGlobalRef    = jawt.NewGlobalRef
	deleteGlobalRef = jawt.DeleteGlobalRef
	getAWT          = func(env jawt.Env) (awtToolkit, error) {
		a, err := jawt.Get(env)
		if err != nil {
			return nil, err
		}
		return awtFacility{a}, nil
	}
)

type awtFacility struct {
	awt *jawt.AWT
}

func (f awtFacility) DrawingSurface(canvas jawt.Object) (awtSurface, error) {
	ds, err := f.awt.DrawingSurface(canvas)
	if err != nil {
		return nil, err
	}
	return ds, nil
}

func (f awtFacility) FreeDrawingSurface(ds awtSurface) {
	f.awt.FreeDrawingSurface(ds.(*jawt.DrawingSurface))
}

// canvasSurface is the drawing surface of an AWT Canvas.
type canvasSurface struct {
	env Env
	// canvas is a global reference, valid in any thread.
	canvas Object
	// describe extracts the platform handles from a surface info.
	describe func(info *jawt.Info) (Descriptor, error)
	// held releases the resources of the current lock.
	held *unwind.Stack
}

func newCanvasSurface(env Env, canvas Object, cfg *config) (*canvasSurface, error) {
	if env == 0 || canvas == 0 {
		return nil, fmt.Errorf("%w: nil canvas", ErrInvalidSurface)
	}
	if err := loaded.claim(libraryJAWT, cfg.libJAWT); err != nil {
		return nil, err
	}
	if err := loadJAWT(cfg.libJAWT); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	ref := newGlobalRef(jawt.Env(env), jawt.Object(canvas))
	if ref == 0 {
		return nil, fmt.Errorf("%w: NewGlobalRef failed", ErrInvalidSurface)
	}
	return &canvasSurface{
		env:      env,
		canvas:   Object(ref),
		describe: describeAWT,
	}, nil
}

func (s *canvasSurface) lock() (Descriptor, error) {
	var stack unwind.Stack
	defer stack.Unwind()

	awt, err := getAWT(jawt.Env(s.env))
	if err != nil {
		return Descriptor{}, fmt.Errorf("%w: %v", ErrToolkitAccess, err)
	}
	ds, err := awt.DrawingSurface(jawt.Object(s.canvas))
	if err != nil {
		return Descriptor{}, fmt.Errorf("%w: %v", ErrToolkitAccess, err)
	}
	stack.Push(func() { awt.FreeDrawingSurface(ds) })
	flags, err := ds.Lock()
	if err != nil {
		return Descriptor{}, fmt.Errorf("%w: %v", ErrSurfaceLock, err)
	}
	stack.Push(ds.Unlock)
	if changed := flags &^ jawt.LockError; changed != 0 {
		Logger().Debug("canvas surface changed", "flags", fmt.Sprintf("%#x", int32(changed)))
	}
	info, err := ds.Info()
	if err != nil {
		return Descriptor{}, fmt.Errorf("%w: %v", ErrSurfaceInfo, err)
	}
	stack.Push(func() { ds.FreeInfo(info) })
	d, err := s.describe(info)
	if err != nil {
		return Descriptor{}, fmt.Errorf("%w: %v", ErrSurfaceInfo, err)
	}
	d.Bounds = info.Bounds
	s.held = stack.Release()
	return d, nil
}

func (s *canvasSurface) unlock() {
	if s.held == nil {
		return
	}
	s.held.Unwind()
	s.held = nil
}

func (s *canvasSurface) release() {
	if s.canvas == 0 {
		return
	}
	deleteGlobalRef(jawt.Env(s.env), jawt.Object(s.canvas))
	s.canvas = 0
}
