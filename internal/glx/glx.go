// SPDX-License-Identifier: Unlicense OR MIT

//go:build ((linux && !android) || freebsd) && !nox11

// Package glx implements OpenGL rendering contexts for X11 drawables.
// The GLX and Xlib entry points are resolved at run time, so the package
// builds without cgo and without the X11 development headers.
package glx

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/ebitengine/purego"
)

const (
	_GLX_RGBA         = 4
	_GLX_DOUBLEBUFFER = 5
	_GLX_RED_SIZE     = 8
	_GLX_GREEN_SIZE   = 9
	_GLX_BLUE_SIZE    = 10
	_GLX_DEPTH_SIZE   = 12

	_None = 0
	_True = 1
)

// Library names used when Load is given empty paths.
const (
	DefaultGLLibrary  = "libGL.so.1"
	DefaultX11Library = "libX11.so.6"
)

// functions is the table of native entry points used by a Context.
type functions struct {
	chooseVisual   func(dpy uintptr, screen int32, attribs *int32) uintptr
	createContext  func(dpy, vis, share uintptr, direct int32) uintptr
	destroyContext func(dpy, ctx uintptr)
	makeCurrent    func(dpy, drawable, ctx uintptr) int32
	swapBuffers    func(dpy, drawable uintptr)
	waitX          func()
	waitGL         func()
	getProcAddress func(name string) uintptr
	defaultScreen  func(dpy uintptr) int32
	free           func(data uintptr) int32
}

var (
	loadOnce sync.Once
	loadErr  error
	lib      *functions
)

// Load opens the GL and X11 libraries and resolves the entry points.
// Empty paths select DefaultGLLibrary and DefaultX11Library. Only the
// first call loads anything; later calls return the first result.
func Load(glPath, x11Path string) error {
	loadOnce.Do(func() {
		if glPath == "" {
			glPath = DefaultGLLibrary
		}
		if x11Path == "" {
			x11Path = DefaultX11Library
		}
		lib, loadErr = loadLibraries(glPath, x11Path)
	})
	return loadErr
}

func loadLibraries(glPath, x11Path string) (*functions, error) {
	x11, err := purego.Dlopen(x11Path, purego.RTLD_LAZY|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("glx: failed to load %s: %w", x11Path, err)
	}
	gl, err := purego.Dlopen(glPath, purego.RTLD_LAZY|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("glx: failed to load %s: %w", glPath, err)
	}
	f := new(functions)
	procs := []struct {
		handle uintptr
		name   string
		fn     interface{}
	}{
		{x11, "XDefaultScreen", &f.defaultScreen},
		{x11, "XFree", &f.free},
		{gl, "glXChooseVisual", &f.chooseVisual},
		{gl, "glXCreateContext", &f.createContext},
		{gl, "glXDestroyContext", &f.destroyContext},
		{gl, "glXMakeCurrent", &f.makeCurrent},
		{gl, "glXSwapBuffers", &f.swapBuffers},
		{gl, "glXWaitX", &f.waitX},
		{gl, "glXWaitGL", &f.waitGL},
	}
	for _, p := range procs {
		if _, err := purego.Dlsym(p.handle, p.name); err != nil {
			return nil, fmt.Errorf("glx: failed to locate %s: %w", p.name, err)
		}
		purego.RegisterLibFunc(p.fn, p.handle, p.name)
	}
	// glXGetProcAddressARB is the GLX 1.3 spelling; GLX 1.4 drivers
	// export both.
	for _, name := range []string{"glXGetProcAddressARB", "glXGetProcAddress"} {
		if _, err := purego.Dlsym(gl, name); err == nil {
			purego.RegisterLibFunc(&f.getProcAddress, gl, name)
			break
		}
	}
	return f, nil
}

// Context is a GLX rendering context created for a display.
type Context struct {
	f    *functions
	disp uintptr
	ctx  uintptr
}

var errNotLoaded = errors.New("glx: libraries not loaded")

// NewContext chooses a double buffered RGBA visual with a 16 bit depth
// buffer on the default screen of disp and creates a direct rendering
// context for it.
func NewContext(disp uintptr) (*Context, error) {
	if lib == nil {
		return nil, errNotLoaded
	}
	return newContext(lib, disp)
}

// VisualAttribs returns the None terminated glXChooseVisual attribute
// list of the visual contexts are created for. Windows meant for a
// Context must use a matching visual.
func VisualAttribs() []int32 {
	return []int32{
		_GLX_DOUBLEBUFFER,
		_GLX_RGBA,
		_GLX_DEPTH_SIZE, 16,
		_GLX_RED_SIZE, 1,
		_GLX_GREEN_SIZE, 1,
		_GLX_BLUE_SIZE, 1,
		_None,
	}
}

func newContext(f *functions, disp uintptr) (*Context, error) {
	if disp == 0 {
		return nil, errors.New("glx: nil display")
	}
	attribs := VisualAttribs()
	screen := f.defaultScreen(disp)
	vis := f.chooseVisual(disp, screen, &attribs[0])
	runtime.KeepAlive(attribs)
	if vis == 0 {
		return nil, fmt.Errorf("glXChooseVisual failed on screen %d", screen)
	}
	defer f.free(vis)
	ctx := f.createContext(disp, vis, 0, _True)
	if ctx == 0 {
		return nil, errors.New("glXCreateContext failed")
	}
	return &Context{f: f, disp: disp, ctx: ctx}, nil
}

// MakeCurrent binds the context to drawable on the calling thread and
// waits for pending X requests, so that the drawable is up to date
// before GL commands are issued.
func (c *Context) MakeCurrent(drawable uintptr) error {
	if c.f.makeCurrent(c.disp, drawable, c.ctx) == 0 {
		return fmt.Errorf("glXMakeCurrent(drawable 0x%x) failed", drawable)
	}
	c.f.waitX()
	return nil
}

// ReleaseCurrent waits for pending GL commands and unbinds the context
// from the calling thread. GL commands must complete before X regains
// the drawable.
func (c *Context) ReleaseCurrent() error {
	c.f.waitGL()
	if c.f.makeCurrent(c.disp, _None, 0) == 0 {
		return errors.New("glXMakeCurrent(None) failed")
	}
	return nil
}

// SwapBuffers presents the back buffer of drawable.
func (c *Context) SwapBuffers(drawable uintptr) {
	c.f.swapBuffers(c.disp, drawable)
}

// Release destroys the context. It is safe to call more than once.
func (c *Context) Release() {
	if c.ctx == 0 {
		return
	}
	c.f.destroyContext(c.disp, c.ctx)
	c.ctx = 0
}

// ProcAddress returns the address of the named GL entry point, or 0 if
// it cannot be resolved or the libraries are not loaded.
func ProcAddress(name string) uintptr {
	if lib == nil {
		return 0
	}
	return procAddress(lib, name)
}

func procAddress(f *functions, name string) uintptr {
	if f.getProcAddress == nil || name == "" {
		return 0
	}
	return f.getProcAddress(name)
}
