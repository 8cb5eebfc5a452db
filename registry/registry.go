// SPDX-License-Identifier: Unlicense OR MIT

// Package registry maps the integer handles used across a language
// boundary to glcontext contexts. Every operation reports success as a
// bool; the cause of a failure goes to the glcontext logger.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"gioui.org/glcontext"
)

// Handle identifies a context in a Registry. The zero Handle is never
// valid and signals a failed creation.
type Handle int64

// Context is the part of *glcontext.Context used by a Registry.
type Context interface {
	Lock() error
	Unlock() error
	SwapBuffers() error
	Destroy() error
	SetEnv(env glcontext.Env)
}

var errInvalidHandle = errors.New("registry: invalid handle")

// Registry holds live contexts. It is safe for concurrent use; the
// contexts themselves are not.
type Registry struct {
	mu       sync.Mutex
	last     Handle
	contexts map[Handle]Context

	newCanvas func(env glcontext.Env, canvas glcontext.Object) (Context, error)
	newWindow func(d glcontext.Descriptor) (Context, error)
}

// Default is the registry behind the package level functions, which are
// the entry points of the process wide binding. Its contexts use the
// library paths of the GLCONTEXT_* environment variables.
var Default = New()

// CreateCanvas creates a context for an AWT Canvas in Default.
func CreateCanvas(env, canvas int64) Handle { return Default.CreateCanvas(env, canvas) }

// CreateWindow creates a context for a native window in Default.
func CreateWindow(display, drawable, hwnd, hdc int64) Handle {
	return Default.CreateWindow(display, drawable, hwnd, hdc)
}

// Lock locks a context of Default.
func Lock(env int64, h Handle) bool { return Default.Lock(env, h) }

// Unlock unlocks a context of Default.
func Unlock(env int64, h Handle) bool { return Default.Unlock(env, h) }

// SwapBuffers presents the back buffer of a context of Default.
func SwapBuffers(env int64, h Handle) bool { return Default.SwapBuffers(env, h) }

// Destroy destroys a context of Default.
func Destroy(env int64, h Handle) bool { return Default.Destroy(env, h) }

// New returns an empty Registry that creates contexts with opts.
func New(opts ...glcontext.Option) *Registry {
	return &Registry{
		contexts: make(map[Handle]Context),
		newCanvas: func(env glcontext.Env, canvas glcontext.Object) (Context, error) {
			return glcontext.NewCanvasContext(env, canvas, opts...)
		},
		newWindow: func(d glcontext.Descriptor) (Context, error) {
			return glcontext.NewWindowContext(d, opts...)
		},
	}
}

// CreateCanvas creates a context for an AWT Canvas and returns its
// handle, or 0 on failure.
func (r *Registry) CreateCanvas(env, canvas int64) Handle {
	var ctx Context
	err := guard(func() (err error) {
		ctx, err = r.newCanvas(glcontext.FromInt64[glcontext.Env](env), glcontext.FromInt64[glcontext.Object](canvas))
		return err
	})
	return r.add("create canvas context", ctx, err)
}

// CreateWindow creates a context for a window given by its native
// handles and returns its handle, or 0 on failure. X11 windows use
// display and drawable, Windows windows use hwnd and hdc.
func (r *Registry) CreateWindow(display, drawable, hwnd, hdc int64) Handle {
	d := glcontext.Descriptor{
		Display:  glcontext.FromInt64[glcontext.Display](display),
		Drawable: glcontext.FromInt64[glcontext.Drawable](drawable),
		Window:   glcontext.FromInt64[glcontext.HWND](hwnd),
		DC:       glcontext.FromInt64[glcontext.HDC](hdc),
	}
	var ctx Context
	err := guard(func() (err error) {
		ctx, err = r.newWindow(d)
		return err
	})
	return r.add("create window context", ctx, err)
}

func (r *Registry) add(op string, ctx Context, err error) Handle {
	if err != nil {
		glcontext.Logger().Error(op+" failed", "err", err)
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last++
	h := r.last
	r.contexts[h] = ctx
	return h
}

func (r *Registry) lookup(h Handle) (Context, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ctx, ok := r.contexts[h]
	if !ok {
		return nil, errInvalidHandle
	}
	return ctx, nil
}

// do runs op on the context of h with env as the calling thread's env.
func (r *Registry) do(name string, env int64, h Handle, op func(ctx Context) error) bool {
	ctx, err := r.lookup(h)
	if err == nil {
		err = guard(func() error {
			ctx.SetEnv(glcontext.FromInt64[glcontext.Env](env))
			return op(ctx)
		})
	}
	if err != nil {
		glcontext.Logger().Error(name+" failed", "handle", int64(h), "err", err)
		return false
	}
	return true
}

// Lock locks the context of h. env is the JNIEnv of the calling thread,
// or 0 for window contexts.
func (r *Registry) Lock(env int64, h Handle) bool {
	return r.do("lock", env, h, Context.Lock)
}

// Unlock unlocks the context of h.
func (r *Registry) Unlock(env int64, h Handle) bool {
	return r.do("unlock", env, h, Context.Unlock)
}

// SwapBuffers presents the back buffer of the context of h.
func (r *Registry) SwapBuffers(env int64, h Handle) bool {
	return r.do("swap buffers", env, h, Context.SwapBuffers)
}

// Destroy destroys the context of h and invalidates h. A context that is
// still locked is not destroyed and h stays valid.
func (r *Registry) Destroy(env int64, h Handle) bool {
	ok := r.do("destroy", env, h, Context.Destroy)
	if ok {
		r.mu.Lock()
		delete(r.contexts, h)
		r.mu.Unlock()
	}
	return ok
}

// Len returns the number of live contexts.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.contexts)
}

// ProcAddress returns the address of the named OpenGL entry point as an
// integer, or 0 if it is not available.
func ProcAddress(name string) int64 {
	var p uintptr
	guard(func() error {
		p = glcontext.ProcAddress(name)
		return nil
	})
	return int64(p)
}

// guard runs f and converts a panic into an error, so that no panic
// crosses the boundary.
func guard(f func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return f()
}
