// SPDX-License-Identifier: Unlicense OR MIT

package glcontext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigEnvironment(t *testing.T) {
	t.Setenv(EnvGLLibrary, "/usr/lib/libGL.so.1")
	t.Setenv(EnvX11Library, "")
	t.Setenv(EnvJAWTLibrary, "/opt/jdk/lib/libjawt.so")

	cfg := newConfig(nil)
	assert.Equal(t, "/usr/lib/libGL.so.1", cfg.libGL)
	assert.Empty(t, cfg.libX11)
	assert.Equal(t, "/opt/jdk/lib/libjawt.so", cfg.libJAWT)

	cfg = newConfig([]Option{
		WithGLLibrary("libGL.so"),
		WithX11Library("libX11.so"),
		WithJAWTLibrary("libjawt.so"),
	})
	assert.Equal(t, &config{libGL: "libGL.so", libX11: "libX11.so", libJAWT: "libjawt.so"}, cfg)
}
