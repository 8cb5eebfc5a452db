// SPDX-License-Identifier: Unlicense OR MIT

package glcontext

import (
	"fmt"
	"image"
	"runtime"

	"gioui.org/glcontext/internal/unwind"
)

// State is the activation state of a Context.
type State uint8

const (
	// StateInactive is the state of a Context between frames.
	StateInactive State = iota
	// StateActive is the state between a successful Lock and Unlock:
	// the surface is locked and the context is current.
	StateActive
	// StateDestroyed is the final state after Destroy.
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateInactive:
		return "inactive"
	case StateActive:
		return "active"
	case StateDestroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Context is an OpenGL context for a window surface.
type Context struct {
	surface  surface
	platform platform

	// rc is created on the first Lock and never replaced.
	rc renderContext
	// createErr is the error of a failed creation of rc. A context that
	// failed to create stays unusable.
	createErr error

	state State
	desc  Descriptor
	// held releases the surface and the thread of an active context.
	held *unwind.Stack
}

// NewCanvasContext returns a context for an AWT Canvas. env must be the
// JNIEnv of the calling thread; the canvas is retained by a global
// reference until Destroy.
func NewCanvasContext(env Env, canvas Object, opts ...Option) (*Context, error) {
	p, cfg, err := loadPlatform(opts)
	if err != nil {
		return nil, err
	}
	s, err := newCanvasSurface(env, canvas, cfg)
	if err != nil {
		return nil, err
	}
	return newContext(s, p), nil
}

// NewWindowContext returns a context for a window identified by native
// handles. The window must outlive the Context.
func NewWindowContext(d Descriptor, opts ...Option) (*Context, error) {
	p, _, err := loadPlatform(opts)
	if err != nil {
		return nil, err
	}
	if err := p.validate(d); err != nil {
		return nil, err
	}
	return newContext(&windowSurface{d: d}, p), nil
}

func loadPlatform(opts []Option) (platform, *config, error) {
	p := nativePlatform
	if p == nil {
		return nil, nil, ErrUnsupported
	}
	cfg := newConfig(opts)
	if err := loadNative(p, cfg); err != nil {
		return nil, nil, err
	}
	return p, cfg, nil
}

func newContext(s surface, p platform) *Context {
	return &Context{surface: s, platform: p}
}

// SetEnv sets the JNIEnv used by canvas contexts for subsequent calls.
// A JNIEnv is only valid on its own thread, so callers that Lock from a
// different thread than the one that created the Context must set the
// env of the current thread first. It has no effect on window contexts.
func (c *Context) SetEnv(env Env) {
	if s, ok := c.surface.(*canvasSurface); ok && env != 0 {
		s.env = env
	}
}

// Current returns the activation state.
func (c *Context) Current() State {
	return c.state
}

// Bounds returns the bounds of the surface while the context is active.
func (c *Context) Bounds() image.Rectangle {
	return c.desc.Bounds
}

// Lock acquires the surface and makes the context current on the calling
// thread, creating the native context on first use. The calling goroutine
// stays locked to its thread until Unlock. If Lock fails nothing remains
// acquired.
//
// Locking an active context fails with ErrLocked.
func (c *Context) Lock() error {
	switch c.state {
	case StateDestroyed:
		return ErrDestroyed
	case StateActive:
		return ErrLocked
	}
	if c.createErr != nil {
		return c.createErr
	}
	var stack unwind.Stack
	defer stack.Unwind()
	runtime.LockOSThread()
	stack.Push(runtime.UnlockOSThread)
	d, err := c.surface.lock()
	if err != nil {
		Logger().Warn("lock failed", "err", err)
		return err
	}
	stack.Push(c.surface.unlock)
	if err := c.activate(d); err != nil {
		Logger().Warn("lock failed", "err", err)
		return err
	}
	c.held = stack.Release()
	c.desc = d
	c.state = StateActive
	return nil
}

func (c *Context) activate(d Descriptor) error {
	if c.rc == nil {
		rc, err := c.platform.newRenderContext(d)
		if err != nil {
			c.createErr = &NativeError{Op: "create context", Err: err}
			return c.createErr
		}
		c.rc = rc
		Logger().Debug("context created")
	}
	if err := c.rc.makeCurrent(d); err != nil {
		return &NativeError{Op: "make current", Err: err}
	}
	return nil
}

// Unlock releases the context from the calling thread and releases the
// surface. Failures of the native release are reported to the logger
// only. Unlocking an inactive context fails with ErrNotLocked.
func (c *Context) Unlock() error {
	switch c.state {
	case StateDestroyed:
		return ErrDestroyed
	case StateInactive:
		return ErrNotLocked
	}
	if err := c.rc.releaseCurrent(c.desc); err != nil {
		Logger().Warn("release current failed", "err", err)
	}
	c.held.Unwind()
	c.held = nil
	c.desc = Descriptor{}
	c.state = StateInactive
	return nil
}

// SwapBuffers presents the back buffer. The context must be active.
func (c *Context) SwapBuffers() error {
	switch c.state {
	case StateDestroyed:
		return ErrDestroyed
	case StateInactive:
		return ErrNotLocked
	}
	if err := c.rc.swapBuffers(c.desc); err != nil {
		return &NativeError{Op: "swap buffers", Err: err}
	}
	return nil
}

// Destroy releases the native context and the surface references. The
// context must not be active. A failed native release is reported to the
// logger only; the context is destroyed regardless.
func (c *Context) Destroy() error {
	switch c.state {
	case StateDestroyed:
		return ErrDestroyed
	case StateActive:
		return ErrLocked
	}
	if c.rc != nil {
		if err := c.rc.release(); err != nil {
			Logger().Warn("release context failed", "err", err)
		}
		c.rc = nil
	}
	c.surface.release()
	c.state = StateDestroyed
	return nil
}
