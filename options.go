// SPDX-License-Identifier: Unlicense OR MIT

package glcontext

import (
	"fmt"
	"os"
	"sync"
)

// Option configures a Context. Native libraries are loaded once per
// process: the first Context that needs a library fixes its path, and a
// later Context that asks for a different path fails with
// ErrLibraryConflict.
type Option func(cfg *config)

type config struct {
	libGL   string
	libX11  string
	libJAWT string
}

// Environment variables that override the default native library paths.
const (
	EnvGLLibrary   = "GLCONTEXT_LIBGL"
	EnvX11Library  = "GLCONTEXT_LIBX11"
	EnvJAWTLibrary = "GLCONTEXT_LIBJAWT"
)

// WithGLLibrary sets the path of the OpenGL library: libGL on X11,
// opengl32.dll on Windows.
func WithGLLibrary(path string) Option {
	return func(cfg *config) {
		cfg.libGL = path
	}
}

// WithX11Library sets the path of the Xlib library.
func WithX11Library(path string) Option {
	return func(cfg *config) {
		cfg.libX11 = path
	}
}

// WithJAWTLibrary sets the path of the AWT Native Interface library.
func WithJAWTLibrary(path string) Option {
	return func(cfg *config) {
		cfg.libJAWT = path
	}
}

func newConfig(opts []Option) *config {
	cfg := &config{
		libGL:   os.Getenv(EnvGLLibrary),
		libX11:  os.Getenv(EnvX11Library),
		libJAWT: os.Getenv(EnvJAWTLibrary),
	}
	for _, o := range opts {
		o(cfg)
	}
	return cfg
}

// library names a native library that can be overridden.
type library string

const (
	libraryGL   library = "GL"
	libraryX11  library = "X11"
	libraryJAWT library = "JAWT"
)

func (cfg *config) path(lib library) string {
	switch lib {
	case libraryGL:
		return cfg.libGL
	case libraryX11:
		return cfg.libX11
	case libraryJAWT:
		return cfg.libJAWT
	default:
		panic("unknown library " + string(lib))
	}
}

// libraryPaths records the path each library was first loaded from. An
// empty path stands for the default.
type libraryPaths struct {
	mu    sync.Mutex
	paths map[library]string
}

var loaded = new(libraryPaths)

// claim fixes the path of lib on first use and checks later requests
// against it. An empty path accepts whatever was loaded.
func (l *libraryPaths) claim(lib library, path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	first, ok := l.paths[lib]
	if !ok {
		if l.paths == nil {
			l.paths = make(map[library]string)
		}
		l.paths[lib] = path
		return nil
	}
	if path == "" || path == first {
		return nil
	}
	from := "the default path"
	if first != "" {
		from = fmt.Sprintf("%q", first)
	}
	Logger().Warn("library path rejected", "lib", string(lib), "loaded", first, "requested", path)
	return fmt.Errorf("%w: %s library was loaded from %s, cannot load %q", ErrLibraryConflict, lib, from, path)
}
