// SPDX-License-Identifier: Unlicense OR MIT

package glcontext

import (
	"errors"
	"fmt"

	"gioui.org/glcontext/internal/jawt"
	"gioui.org/glcontext/internal/wgl"
)

func init() {
	nativePlatform = wglPlatform{}
}

type wglPlatform struct{}

type wglContext struct {
	ctx *wgl.Context
}

func (wglPlatform) load(cfg *config) error {
	return wgl.Load(cfg.libGL)
}

func (wglPlatform) libraries() []library {
	return []library{libraryGL}
}

func (wglPlatform) validate(d Descriptor) error {
	if d.DC == 0 {
		return fmt.Errorf("%w: Windows surfaces need a device context", ErrInvalidSurface)
	}
	return nil
}

func (wglPlatform) newRenderContext(d Descriptor) (renderContext, error) {
	ctx, err := wgl.NewContext(uintptr(d.DC))
	if err != nil {
		return nil, err
	}
	return &wglContext{ctx: ctx}, nil
}

func (wglPlatform) procAddress(name string) uintptr {
	return wgl.ProcAddress(name)
}

func (c *wglContext) makeCurrent(d Descriptor) error {
	return c.ctx.MakeCurrent(uintptr(d.DC))
}

func (c *wglContext) releaseCurrent(d Descriptor) error {
	return c.ctx.ReleaseCurrent(uintptr(d.DC))
}

func (c *wglContext) swapBuffers(d Descriptor) error {
	return c.ctx.SwapBuffers(uintptr(d.DC))
}

func (c *wglContext) release() error {
	return c.ctx.Release()
}

func describeAWT(info *jawt.Info) (Descriptor, error) {
	if info.PlatformInfo == 0 {
		return Descriptor{}, errors.New("no Win32 surface info")
	}
	hwnd, hdc := jawt.Win32Info(info.PlatformInfo)
	if hdc == 0 {
		return Descriptor{}, errors.New("Win32 surface info without device context")
	}
	return Descriptor{Window: HWND(hwnd), DC: HDC(hdc)}, nil
}
