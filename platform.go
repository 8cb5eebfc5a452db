// SPDX-License-Identifier: Unlicense OR MIT

package glcontext

import "fmt"

// platform is the OpenGL binding of the operating system.
type platform interface {
	// load resolves the native libraries. Libraries stay loaded for the
	// lifetime of the process.
	load(cfg *config) error
	// libraries lists the native libraries load opens.
	libraries() []library
	// validate reports whether d carries the handles the binding needs.
	validate(d Descriptor) error
	newRenderContext(d Descriptor) (renderContext, error)
	procAddress(name string) uintptr
}

// renderContext is a native rendering context.
type renderContext interface {
	makeCurrent(d Descriptor) error
	releaseCurrent(d Descriptor) error
	swapBuffers(d Descriptor) error
	release() error
}

// nativePlatform is the binding compiled into the program, or nil.
var nativePlatform platform

// ProcAddress returns the address of the named OpenGL entry point, or 0
// if it cannot be resolved. On Windows extension entry points are only
// available while a context is current.
func ProcAddress(name string) uintptr {
	p := nativePlatform
	if p == nil {
		return 0
	}
	if err := loadNative(p, newConfig(nil)); err != nil {
		return 0
	}
	return p.procAddress(name)
}

// loadNative loads the libraries of p, after checking the requested paths
// against the libraries already loaded.
func loadNative(p platform, cfg *config) error {
	for _, lib := range p.libraries() {
		if err := loaded.claim(lib, cfg.path(lib)); err != nil {
			return err
		}
	}
	if err := p.load(cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	return nil
}
