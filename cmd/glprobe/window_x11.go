// SPDX-License-Identifier: Unlicense OR MIT

//go:build ((linux && !android) || freebsd) && !nox11

package main

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/ebitengine/purego"

	"gioui.org/glcontext"
	"gioui.org/glcontext/internal/glx"
)

const (
	_InputOutput   = 1
	_AllocNone     = 0
	_CWBorderPixel = 1 << 3
	_CWColormap    = 1 << 13
)

// xVisualInfo mirrors XVisualInfo.
type xVisualInfo struct {
	Visual       uintptr
	VisualID     uint64
	Screen       int32
	Depth        int32
	Class        int32
	RedMask      uint64
	GreenMask    uint64
	BlueMask     uint64
	ColormapSize int32
	BitsPerRGB   int32
}

// xSetWindowAttributes mirrors XSetWindowAttributes.
type xSetWindowAttributes struct {
	BackgroundPixmap uintptr
	BackgroundPixel  uint64
	BorderPixmap     uintptr
	BorderPixel      uint64
	BitGravity       int32
	WinGravity       int32
	BackingStore     int32
	BackingPlanes    uint64
	BackingPixel     uint64
	SaveUnder        int32
	EventMask        int64
	DoNotPropagate   int64
	OverrideRedirect int32
	Colormap         uintptr
	Cursor           uintptr
}

var (
	xOpenDisplay    func(name *byte) uintptr
	xCloseDisplay   func(dpy uintptr) int32
	xDefaultScreen  func(dpy uintptr) int32
	xRootWindow     func(dpy uintptr, screen int32) uintptr
	xCreateColormap func(dpy, win, visual uintptr, alloc int32) uintptr
	xFreeColormap   func(dpy, cmap uintptr) int32
	xCreateWindow   func(dpy, parent uintptr, x, y int32, width, height, border uint32, depth int32, class uint32, visual uintptr, mask uint64, attrs unsafe.Pointer) uintptr
	xDestroyWindow  func(dpy, win uintptr) int32
	xMapWindow      func(dpy, win uintptr) int32
	xSync           func(dpy uintptr, discard int32) int32
	xFree           func(data uintptr) int32
	glxChooseVisual func(dpy uintptr, screen int32, attribs *int32) *xVisualInfo
)

func loadX11(cfg *config) error {
	x11Path, glPath := cfg.Libraries.X11, cfg.Libraries.GL
	if x11Path == "" {
		x11Path = glx.DefaultX11Library
	}
	if glPath == "" {
		glPath = glx.DefaultGLLibrary
	}
	x11, err := purego.Dlopen(x11Path, purego.RTLD_LAZY|purego.RTLD_GLOBAL)
	if err != nil {
		return err
	}
	gl, err := purego.Dlopen(glPath, purego.RTLD_LAZY|purego.RTLD_GLOBAL)
	if err != nil {
		return err
	}
	purego.RegisterLibFunc(&xOpenDisplay, x11, "XOpenDisplay")
	purego.RegisterLibFunc(&xCloseDisplay, x11, "XCloseDisplay")
	purego.RegisterLibFunc(&xDefaultScreen, x11, "XDefaultScreen")
	purego.RegisterLibFunc(&xRootWindow, x11, "XRootWindow")
	purego.RegisterLibFunc(&xCreateColormap, x11, "XCreateColormap")
	purego.RegisterLibFunc(&xFreeColormap, x11, "XFreeColormap")
	purego.RegisterLibFunc(&xCreateWindow, x11, "XCreateWindow")
	purego.RegisterLibFunc(&xDestroyWindow, x11, "XDestroyWindow")
	purego.RegisterLibFunc(&xMapWindow, x11, "XMapWindow")
	purego.RegisterLibFunc(&xSync, x11, "XSync")
	purego.RegisterLibFunc(&xFree, x11, "XFree")
	purego.RegisterLibFunc(&glxChooseVisual, gl, "glXChooseVisual")
	return nil
}

type x11Window struct {
	dpy  uintptr
	win  uintptr
	cmap uintptr
}

// openWindow creates and maps a window with a visual that matches the
// context visual.
func openWindow(cfg *config) (*x11Window, error) {
	if err := loadX11(cfg); err != nil {
		return nil, fmt.Errorf("failed to load X11: %w", err)
	}
	dpy := xOpenDisplay(nil)
	if dpy == 0 {
		return nil, errors.New("XOpenDisplay failed")
	}
	screen := xDefaultScreen(dpy)
	attribs := glx.VisualAttribs()
	vis := glxChooseVisual(dpy, screen, &attribs[0])
	if vis == nil {
		xCloseDisplay(dpy)
		return nil, errors.New("no double buffered RGBA visual")
	}
	defer xFree(uintptr(unsafe.Pointer(vis)))
	root := xRootWindow(dpy, screen)
	w := &x11Window{dpy: dpy}
	w.cmap = xCreateColormap(dpy, root, vis.Visual, _AllocNone)
	swa := xSetWindowAttributes{Colormap: w.cmap}
	w.win = xCreateWindow(dpy, root, 0, 0, uint32(cfg.Width), uint32(cfg.Height), 0,
		vis.Depth, _InputOutput, vis.Visual, _CWBorderPixel|_CWColormap, unsafe.Pointer(&swa))
	if w.win == 0 {
		w.close()
		return nil, errors.New("XCreateWindow failed")
	}
	xMapWindow(dpy, w.win)
	xSync(dpy, 0)
	return w, nil
}

func (w *x11Window) descriptor() glcontext.Descriptor {
	return glcontext.Descriptor{
		Display:  glcontext.Display(w.dpy),
		Drawable: glcontext.Drawable(w.win),
	}
}

func (w *x11Window) close() {
	if w.win != 0 {
		xDestroyWindow(w.dpy, w.win)
	}
	if w.cmap != 0 {
		xFreeColormap(w.dpy, w.cmap)
	}
	xCloseDisplay(w.dpy)
}
