// SPDX-License-Identifier: Unlicense OR MIT

// Command glprobe opens a window, drives an OpenGL context for it through
// lock, swap and unlock cycles and reports which GL entry points resolve.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/muesli/termenv"

	"gioui.org/glcontext"
	"gioui.org/glcontext/registry"
)

var (
	configPath = flag.String("config", defaultConfigPath, "configuration file.")
	cycles     = flag.Int("cycles", 0, "number of lock/swap/unlock cycles (overrides the configuration).")
	verbose    = flag.Bool("v", false, "log context lifecycle events.")
)

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, mainUsage)
		flag.PrintDefaults()
	}
	flag.Parse()
	if err := mainErr(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "glprobe: %v\n", err)
		os.Exit(1)
	}
}

func mainErr(w io.Writer) error {
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	glcontext.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := loadConfig(*configPath, *configPath != defaultConfigPath)
	if err != nil {
		return err
	}
	if *cycles > 0 {
		cfg.Cycles = *cycles
	}
	win, err := openWindow(cfg)
	if err != nil {
		return err
	}
	defer win.close()

	reg := registry.New(
		glcontext.WithGLLibrary(cfg.Libraries.GL),
		glcontext.WithX11Library(cfg.Libraries.X11),
	)
	p := &probe{reg: reg, cfg: cfg, out: termenv.NewOutput(w)}
	return p.run(win.descriptor())
}

type probe struct {
	reg *registry.Registry
	cfg *config
	out *termenv.Output
}

func (p *probe) run(d glcontext.Descriptor) error {
	h := p.reg.CreateWindow(
		glcontext.ToInt64(d.Display), glcontext.ToInt64(d.Drawable),
		glcontext.ToInt64(d.Window), glcontext.ToInt64(d.DC),
	)
	if h == 0 {
		return errors.New("context creation failed")
	}
	procs := make(map[string]int64)
	for i := 0; i < p.cfg.Cycles; i++ {
		if !p.reg.Lock(0, h) {
			p.reg.Destroy(0, h)
			return fmt.Errorf("lock failed in cycle %d", i+1)
		}
		if i == 0 {
			for _, name := range p.cfg.Procs {
				procs[name] = registry.ProcAddress(name)
			}
		}
		swapped := p.reg.SwapBuffers(0, h)
		p.reg.Unlock(0, h)
		p.status(fmt.Sprintf("cycle %d", i+1), swapped)
	}
	if !p.reg.Destroy(0, h) {
		return errors.New("destroy failed")
	}
	for _, name := range p.cfg.Procs {
		addr := procs[name]
		label := name
		if addr != 0 {
			label = fmt.Sprintf("%s 0x%x", name, addr)
		}
		p.status(label, addr != 0)
	}
	return nil
}

func (p *probe) status(label string, ok bool) {
	mark := p.out.String("ok").Foreground(p.out.Color("2"))
	if !ok {
		mark = p.out.String("FAIL").Foreground(p.out.Color("1")).Bold()
	}
	fmt.Fprintf(p.out, "%-4s %s\n", mark, label)
}

const mainUsage = `Usage: glprobe [flags]

glprobe creates a window, attaches an OpenGL context to it and runs the
context through a number of lock, swap and unlock cycles. While the
context is current it resolves the GL entry points listed in the
configuration file.

`
