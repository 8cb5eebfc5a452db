// SPDX-License-Identifier: Unlicense OR MIT

//go:build ((linux && !android) || freebsd) && !nox11

package glcontext

import (
	"errors"
	"fmt"

	"gioui.org/glcontext/internal/glx"
	"gioui.org/glcontext/internal/jawt"
)

func init() {
	nativePlatform = glxPlatform{}
}

type glxPlatform struct{}

type glxContext struct {
	ctx *glx.Context
}

func (glxPlatform) load(cfg *config) error {
	return glx.Load(cfg.libGL, cfg.libX11)
}

func (glxPlatform) libraries() []library {
	return []library{libraryGL, libraryX11}
}

func (glxPlatform) validate(d Descriptor) error {
	if d.Display == 0 || d.Drawable == 0 {
		return fmt.Errorf("%w: X11 surfaces need a display and a drawable", ErrInvalidSurface)
	}
	return nil
}

func (glxPlatform) newRenderContext(d Descriptor) (renderContext, error) {
	ctx, err := glx.NewContext(uintptr(d.Display))
	if err != nil {
		return nil, err
	}
	return &glxContext{ctx: ctx}, nil
}

func (glxPlatform) procAddress(name string) uintptr {
	return glx.ProcAddress(name)
}

func (c *glxContext) makeCurrent(d Descriptor) error {
	return c.ctx.MakeCurrent(uintptr(d.Drawable))
}

func (c *glxContext) releaseCurrent(Descriptor) error {
	return c.ctx.ReleaseCurrent()
}

func (c *glxContext) swapBuffers(d Descriptor) error {
	c.ctx.SwapBuffers(uintptr(d.Drawable))
	return nil
}

func (c *glxContext) release() error {
	c.ctx.Release()
	return nil
}

func describeAWT(info *jawt.Info) (Descriptor, error) {
	if info.PlatformInfo == 0 {
		return Descriptor{}, errors.New("no X11 surface info")
	}
	drawable, display := jawt.X11Info(info.PlatformInfo)
	if display == 0 || drawable == 0 {
		return Descriptor{}, errors.New("X11 surface info without display or drawable")
	}
	return Descriptor{Display: Display(display), Drawable: Drawable(drawable)}, nil
}
