// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/go-homedir"
)

const defaultConfigPath = "~/.config/glprobe.toml"

type config struct {
	Width  int
	Height int
	// Cycles is the number of lock, swap, unlock cycles.
	Cycles int
	// Procs lists the GL entry points to resolve while the context is
	// current.
	Procs     []string
	Libraries libraries
}

type libraries struct {
	GL   string
	X11  string
	JAWT string
}

func defaultConfig() *config {
	return &config{
		Width:  320,
		Height: 240,
		Cycles: 3,
		Procs: []string{
			"glGenBuffers",
			"glBindBuffer",
			"glCreateShader",
			"glGenVertexArrays",
		},
	}
}

// loadConfig reads the configuration at path over the defaults. A missing
// file is only an error if required is set.
func loadConfig(path string, required bool) (*config, error) {
	cfg := defaultConfig()
	file, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}
	if _, err := toml.DecodeFile(file, cfg); err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return cfg, nil
}

func (c *config) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", c.Width, c.Height)
	}
	if c.Cycles < 1 {
		return fmt.Errorf("invalid cycle count %d", c.Cycles)
	}
	return nil
}
