// SPDX-License-Identifier: Unlicense OR MIT

// Package wgl implements OpenGL rendering contexts for Windows device
// contexts through WGL.
package wgl

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	syscall "golang.org/x/sys/windows"
)

const (
	_PFD_DOUBLEBUFFER   = 0x00000001
	_PFD_DRAW_TO_WINDOW = 0x00000004
	_PFD_SUPPORT_OPENGL = 0x00000020
	_PFD_TYPE_RGBA      = 0
	_PFD_MAIN_PLANE     = 0
)

// pixelFormatDescriptor mirrors PIXELFORMATDESCRIPTOR.
type pixelFormatDescriptor struct {
	Size           uint16
	Version        uint16
	Flags          uint32
	PixelType      uint8
	ColorBits      uint8
	RedBits        uint8
	RedShift       uint8
	GreenBits      uint8
	GreenShift     uint8
	BlueBits       uint8
	BlueShift      uint8
	AlphaBits      uint8
	AlphaShift     uint8
	AccumBits      uint8
	AccumRedBits   uint8
	AccumGreenBits uint8
	AccumBlueBits  uint8
	AccumAlphaBits uint8
	DepthBits      uint8
	StencilBits    uint8
	AuxBuffers     uint8
	LayerType      uint8
	Reserved       uint8
	LayerMask      uint32
	VisibleMask    uint32
	DamageMask     uint32
}

// functions is the table of native entry points used by a Context.
type functions struct {
	choosePixelFormat func(hdc uintptr, pfd *pixelFormatDescriptor) (int32, error)
	getPixelFormat    func(hdc uintptr) int32
	setPixelFormat    func(hdc uintptr, format int32, pfd *pixelFormatDescriptor) error
	swapBuffers       func(hdc uintptr) error
	createContext     func(hdc uintptr) (uintptr, error)
	deleteContext     func(hglrc uintptr) error
	makeCurrent       func(hdc, hglrc uintptr) error
	getProcAddress    func(name string) uintptr
}

var (
	libGDI32    = syscall.DLL{}
	libOpenGL32 = syscall.DLL{}

	_ChoosePixelFormat *syscall.Proc
	_GetPixelFormat    *syscall.Proc
	_SetPixelFormat    *syscall.Proc
	_SwapBuffers       *syscall.Proc
	_wglCreateContext  *syscall.Proc
	_wglDeleteContext  *syscall.Proc
	_wglMakeCurrent    *syscall.Proc
	_wglGetProcAddress *syscall.Proc
)

const DefaultLibrary = "opengl32.dll"

var (
	loadOnce sync.Once
	loadErr  error
	lib      *functions
)

// Load loads gdi32.dll and the OpenGL library and resolves the WGL entry
// points. An empty path selects DefaultLibrary. Only the first call loads
// anything; later calls return the first result.
func Load(glPath string) error {
	loadOnce.Do(func() {
		if glPath == "" {
			glPath = DefaultLibrary
		}
		loadErr = loadDLLs(glPath)
		if loadErr == nil {
			lib = dllFunctions()
		}
	})
	return loadErr
}

func loadDLLs(glPath string) error {
	if err := loadDLL(&libGDI32, "gdi32.dll", syscall.LOAD_LIBRARY_SEARCH_SYSTEM32); err != nil {
		return err
	}
	if err := loadDLL(&libOpenGL32, glPath, syscall.LOAD_LIBRARY_SEARCH_DEFAULT_DIRS); err != nil {
		return err
	}
	procs := []struct {
		dll  *syscall.DLL
		name string
		proc **syscall.Proc
	}{
		{&libGDI32, "ChoosePixelFormat", &_ChoosePixelFormat},
		{&libGDI32, "GetPixelFormat", &_GetPixelFormat},
		{&libGDI32, "SetPixelFormat", &_SetPixelFormat},
		{&libGDI32, "SwapBuffers", &_SwapBuffers},
		{&libOpenGL32, "wglCreateContext", &_wglCreateContext},
		{&libOpenGL32, "wglDeleteContext", &_wglDeleteContext},
		{&libOpenGL32, "wglMakeCurrent", &_wglMakeCurrent},
		{&libOpenGL32, "wglGetProcAddress", &_wglGetProcAddress},
	}
	for _, p := range procs {
		proc, err := p.dll.FindProc(p.name)
		if err != nil {
			return fmt.Errorf("failed to locate %s in %s: %w", p.name, p.dll.Name, err)
		}
		*p.proc = proc
	}
	return nil
}

func loadDLL(dll *syscall.DLL, name string, flags uintptr) error {
	handle, err := syscall.LoadLibraryEx(name, 0, flags)
	if err != nil {
		return fmt.Errorf("wgl: failed to load %s: %v", name, err)
	}
	dll.Handle = handle
	dll.Name = name
	return nil
}

func dllFunctions() *functions {
	return &functions{
		choosePixelFormat: func(hdc uintptr, pfd *pixelFormatDescriptor) (int32, error) {
			r, _, err := _ChoosePixelFormat.Call(hdc, uintptr(unsafe.Pointer(pfd)))
			if r == 0 {
				return 0, fmt.Errorf("ChoosePixelFormat failed: %v", err)
			}
			return int32(r), nil
		},
		getPixelFormat: func(hdc uintptr) int32 {
			r, _, _ := _GetPixelFormat.Call(hdc)
			return int32(r)
		},
		setPixelFormat: func(hdc uintptr, format int32, pfd *pixelFormatDescriptor) error {
			r, _, err := _SetPixelFormat.Call(hdc, uintptr(format), uintptr(unsafe.Pointer(pfd)))
			if r == 0 {
				return fmt.Errorf("SetPixelFormat(%d) failed: %v", format, err)
			}
			return nil
		},
		swapBuffers: func(hdc uintptr) error {
			r, _, err := _SwapBuffers.Call(hdc)
			if r == 0 {
				return fmt.Errorf("SwapBuffers failed: %v", err)
			}
			return nil
		},
		createContext: func(hdc uintptr) (uintptr, error) {
			r, _, err := _wglCreateContext.Call(hdc)
			if r == 0 {
				return 0, fmt.Errorf("wglCreateContext failed: %v", err)
			}
			return r, nil
		},
		deleteContext: func(hglrc uintptr) error {
			r, _, err := _wglDeleteContext.Call(hglrc)
			if r == 0 {
				return fmt.Errorf("wglDeleteContext failed: %v", err)
			}
			return nil
		},
		makeCurrent: func(hdc, hglrc uintptr) error {
			r, _, err := _wglMakeCurrent.Call(hdc, hglrc)
			if r == 0 {
				return fmt.Errorf("wglMakeCurrent failed: %v", err)
			}
			return nil
		},
		getProcAddress: func(name string) uintptr {
			cname, err := syscall.BytePtrFromString(name)
			if err != nil {
				return 0
			}
			r, _, _ := _wglGetProcAddress.Call(uintptr(unsafe.Pointer(cname)))
			if validProc(r) {
				return r
			}
			// wglGetProcAddress only resolves extensions; OpenGL 1.1
			// functions are exported by the library itself.
			p, err := syscall.GetProcAddress(libOpenGL32.Handle, name)
			if err != nil {
				return 0
			}
			return p
		},
	}
}

// validProc reports whether r is a usable wglGetProcAddress result. Some
// drivers return small sentinel values instead of NULL on failure.
func validProc(r uintptr) bool {
	switch r {
	case 0, 1, 2, 3, ^uintptr(0):
		return false
	}
	return true
}

// Context is a WGL rendering context.
type Context struct {
	f     *functions
	hglrc uintptr
}

var errNotLoaded = errors.New("wgl: libraries not loaded")

// pixelFormat returns the requested pixel format: a double buffered RGBA
// window format with 16 bit color and a 16 bit depth buffer in the main
// plane.
func pixelFormat() pixelFormatDescriptor {
	var pfd pixelFormatDescriptor
	pfd.Size = uint16(unsafe.Sizeof(pfd))
	pfd.Version = 1
	pfd.Flags = _PFD_DRAW_TO_WINDOW | _PFD_SUPPORT_OPENGL | _PFD_DOUBLEBUFFER
	pfd.PixelType = _PFD_TYPE_RGBA
	pfd.ColorBits = 16
	pfd.DepthBits = 16
	pfd.LayerType = _PFD_MAIN_PLANE
	return pfd
}

// NewContext selects the closest pixel format for hdc, applies it and
// creates a rendering context for the device.
func NewContext(hdc uintptr) (*Context, error) {
	if lib == nil {
		return nil, errNotLoaded
	}
	return newContext(lib, hdc)
}

func newContext(f *functions, hdc uintptr) (*Context, error) {
	if hdc == 0 {
		return nil, errors.New("wgl: nil device context")
	}
	pfd := pixelFormat()
	format, err := f.choosePixelFormat(hdc, &pfd)
	if err != nil {
		return nil, err
	}
	// A window's pixel format can only be set once; a device that
	// already carries one keeps it.
	if f.getPixelFormat(hdc) == 0 {
		if err := f.setPixelFormat(hdc, format, &pfd); err != nil {
			return nil, err
		}
	}
	hglrc, err := f.createContext(hdc)
	if err != nil {
		return nil, err
	}
	return &Context{f: f, hglrc: hglrc}, nil
}

// MakeCurrent binds the context to hdc on the calling thread.
func (c *Context) MakeCurrent(hdc uintptr) error {
	return c.f.makeCurrent(hdc, c.hglrc)
}

// ReleaseCurrent unbinds the context from the calling thread.
func (c *Context) ReleaseCurrent(hdc uintptr) error {
	return c.f.makeCurrent(hdc, 0)
}

// SwapBuffers presents the back buffer of hdc.
func (c *Context) SwapBuffers(hdc uintptr) error {
	return c.f.swapBuffers(hdc)
}

// Release deletes the context. It is safe to call more than once; the
// handle is forgotten even if the deletion fails.
func (c *Context) Release() error {
	if c.hglrc == 0 {
		return nil
	}
	err := c.f.deleteContext(c.hglrc)
	c.hglrc = 0
	return err
}

// ProcAddress returns the address of the named GL entry point, or 0 if
// it cannot be resolved or the libraries are not loaded.
func ProcAddress(name string) uintptr {
	if lib == nil || name == "" {
		return 0
	}
	return lib.getProcAddress(name)
}
