// SPDX-License-Identifier: Unlicense OR MIT

// Package jawt binds the AWT Native Interface: it locks the drawing
// surface of an AWT Canvas and exposes its platform handles. It also
// manages the JNI global references that keep a canvas reachable.
package jawt

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"
	"unsafe"
)

type (
	// Env is a JNIEnv pointer. It is only valid on the thread it
	// belongs to.
	Env uintptr
	// Object is a JNI object reference.
	Object uintptr
)

// Version1_3 is the JAWT interface version requested from the JVM.
const Version1_3 = 0x00010003

// LockFlags is the result of DrawingSurface.Lock.
type LockFlags int32

const (
	LockError      LockFlags = 0x00000001
	ClipChanged    LockFlags = 0x00000002
	BoundsChanged  LockFlags = 0x00000004
	SurfaceChanged LockFlags = 0x00000008
)

// awtStruct mirrors the JAWT structure.
type awtStruct struct {
	Version            int32
	GetDrawingSurface  uintptr
	FreeDrawingSurface uintptr
	Lock               uintptr
	Unlock             uintptr
	GetComponent       uintptr
	// Room for the functions newer JVMs append.
	_ [8]uintptr
}

// dsStruct mirrors JAWT_DrawingSurface.
type dsStruct struct {
	Env                    uintptr
	Target                 uintptr
	Lock                   uintptr
	GetDrawingSurfaceInfo  uintptr
	FreeDrawingSurfaceInfo uintptr
	Unlock                 uintptr
}

// rectStruct mirrors JAWT_Rectangle.
type rectStruct struct {
	X, Y, Width, Height int32
}

// dsiStruct mirrors JAWT_DrawingSurfaceInfo.
type dsiStruct struct {
	PlatformInfo uintptr
	DS           uintptr
	Bounds       rectStruct
	ClipSize     int32
	Clip         uintptr
}

// x11InfoStruct mirrors the leading fields of JAWT_X11DrawingSurfaceInfo.
type x11InfoStruct struct {
	Drawable uintptr
	Display  uintptr
}

// win32InfoStruct mirrors JAWT_Win32DrawingSurfaceInfo.
type win32InfoStruct struct {
	HWND     uintptr
	HDC      uintptr
	HPalette uintptr
}

var (
	loadOnce sync.Once
	loadErr  error
	// getAWTProc is the address of JAWT_GetAWT.
	getAWTProc uintptr
)

// Load resolves JAWT_GetAWT. The library at path is tried first, then
// the platform default and finally the library under $JAVA_HOME. Only
// the first call loads anything; later calls return the first result.
func Load(path string) error {
	loadOnce.Do(func() {
		getAWTProc, loadErr = load(candidates(path))
	})
	return loadErr
}

func candidates(path string) []string {
	var paths []string
	if path != "" {
		paths = append(paths, path)
	}
	paths = append(paths, defaultLibrary)
	if home := os.Getenv("JAVA_HOME"); home != "" {
		paths = append(paths, filepath.Join(home, javaLibDir, defaultLibrary))
	}
	return paths
}

func load(paths []string) (uintptr, error) {
	var errs []error
	for _, p := range paths {
		proc, err := loadLibrary(p)
		if err == nil {
			return proc, nil
		}
		errs = append(errs, err)
	}
	return 0, fmt.Errorf("jawt: JAWT_GetAWT not found: %w", errors.Join(errs...))
}

// AWT is the surface access facility of the AWT toolkit.
type AWT struct {
	env Env
	s   awtStruct
}

var ErrNotLoaded = errors.New("jawt: library not loaded")

// Get returns the AWT facility for env.
func Get(env Env) (*AWT, error) {
	if getAWTProc == 0 {
		return nil, ErrNotLoaded
	}
	return getAWT(getAWTProc, env)
}

func getAWT(proc uintptr, env Env) (*AWT, error) {
	a := &AWT{env: env}
	a.s.Version = Version1_3
	r, _, _ := syscallN(proc, uintptr(env), uintptr(unsafe.Pointer(&a.s)))
	if uint8(r) == 0 {
		return nil, errors.New("JAWT_GetAWT failed")
	}
	return a, nil
}

// DrawingSurface returns the drawing surface of target, an AWT Canvas.
func (a *AWT) DrawingSurface(target Object) (*DrawingSurface, error) {
	r, _, _ := syscallN(a.s.GetDrawingSurface, uintptr(a.env), uintptr(target))
	if r == 0 {
		return nil, errors.New("GetDrawingSurface failed")
	}
	return &DrawingSurface{p: r}, nil
}

// FreeDrawingSurface releases a surface returned by DrawingSurface.
func (a *AWT) FreeDrawingSurface(ds *DrawingSurface) {
	syscallN(a.s.FreeDrawingSurface, ds.p)
}

// DrawingSurface is a JAWT_DrawingSurface owned by the JVM.
type DrawingSurface struct {
	p uintptr
}

func (ds *DrawingSurface) funcs() *dsStruct {
	return (*dsStruct)(unsafe.Pointer(ds.p))
}

// Lock locks the surface for drawing. The returned flags report changes
// since the previous lock.
func (ds *DrawingSurface) Lock() (LockFlags, error) {
	r, _, _ := syscallN(ds.funcs().Lock, ds.p)
	flags := LockFlags(int32(r))
	if flags&LockError != 0 {
		return flags, errors.New("DrawingSurface.Lock failed")
	}
	return flags, nil
}

// Unlock unlocks a surface locked by Lock.
func (ds *DrawingSurface) Unlock() {
	syscallN(ds.funcs().Unlock, ds.p)
}

// Info is a JAWT_DrawingSurfaceInfo. It is only valid while the surface
// is locked.
type Info struct {
	p uintptr
	// PlatformInfo points to the platform specific surface info.
	PlatformInfo uintptr
	// Bounds of the drawing surface in its parent.
	Bounds image.Rectangle
}

// Info returns the surface info of a locked surface.
func (ds *DrawingSurface) Info() (*Info, error) {
	r, _, _ := syscallN(ds.funcs().GetDrawingSurfaceInfo, ds.p)
	if r == 0 {
		return nil, errors.New("GetDrawingSurfaceInfo failed")
	}
	dsi := (*dsiStruct)(unsafe.Pointer(r))
	b := dsi.Bounds
	return &Info{
		p:            r,
		PlatformInfo: dsi.PlatformInfo,
		Bounds:       image.Rect(int(b.X), int(b.Y), int(b.X+b.Width), int(b.Y+b.Height)),
	}, nil
}

// FreeInfo releases info.
func (ds *DrawingSurface) FreeInfo(info *Info) {
	syscallN(ds.funcs().FreeDrawingSurfaceInfo, info.p)
}

// X11Info extracts the drawable and display from X11 platform info.
func X11Info(platformInfo uintptr) (drawable, display uintptr) {
	x := (*x11InfoStruct)(unsafe.Pointer(platformInfo))
	return x.Drawable, x.Display
}

// Win32Info extracts the window and device context from Win32 platform
// info.
func Win32Info(platformInfo uintptr) (hwnd, hdc uintptr) {
	w := (*win32InfoStruct)(unsafe.Pointer(platformInfo))
	return w.HWND, w.HDC
}

// Indices into the JNINativeInterface function table.
const (
	jniNewGlobalRef    = 21
	jniDeleteGlobalRef = 22
)

func jniFunc(env Env, index int) uintptr {
	table := *(*uintptr)(unsafe.Pointer(env))
	return *(*uintptr)(unsafe.Pointer(table + uintptr(index)*unsafe.Sizeof(uintptr(0))))
}

// NewGlobalRef returns a global reference to obj, usable from any thread
// until DeleteGlobalRef.
func NewGlobalRef(env Env, obj Object) Object {
	r, _, _ := syscallN(jniFunc(env, jniNewGlobalRef), uintptr(env), uintptr(obj))
	return Object(r)
}

// DeleteGlobalRef deletes a reference returned by NewGlobalRef.
func DeleteGlobalRef(env Env, obj Object) {
	syscallN(jniFunc(env, jniDeleteGlobalRef), uintptr(env), uintptr(obj))
}
