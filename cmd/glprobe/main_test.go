// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"bytes"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"

	"gioui.org/glcontext"
	"gioui.org/glcontext/registry"
)

func TestStatus(t *testing.T) {
	var buf bytes.Buffer
	p := &probe{out: termenv.NewOutput(&buf, termenv.WithProfile(termenv.Ascii))}
	p.status("cycle 1", true)
	p.status("glGenBuffers", false)
	assert.Equal(t, "ok   cycle 1\nFAIL glGenBuffers\n", buf.String())
}

func TestRunInvalidWindow(t *testing.T) {
	glcontext.SetLogger(nil)
	var buf bytes.Buffer
	p := &probe{
		reg: registry.New(),
		cfg: defaultConfig(),
		out: termenv.NewOutput(&buf, termenv.WithProfile(termenv.Ascii)),
	}
	assert.Error(t, p.run(glcontext.Descriptor{}))
	assert.Empty(t, buf.String())
}
