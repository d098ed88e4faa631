// This file is part of intcode - https://github.com/db47h/intcode
//
// Copyright 2019 Denis Bernard <db047h@gmail.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package config loads the intcode command configuration file.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/tliron/commonlog"
)

// Config is the contents of an intcode.toml file.
type Config struct {
	Store    Store    `toml:"store"`
	Log      Log      `toml:"log"`
	VM       VM       `toml:"vm"`
	Pipeline Pipeline `toml:"pipeline"`
}

// Store configures the session database.
type Store struct {
	Path string `toml:"path"`
}

// Log configures logging. Verbosity follows commonlog: 0 logs notices and
// above, each increment adds a level, negative values remove levels.
type Log struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// VM sets defaults for every instance created by the command.
type VM struct {
	StepLimit int64 `toml:"step-limit"`
}

// Pipeline configures amplifier rings and phase searches.
type Pipeline struct {
	Workers   int `toml:"workers"`
	MaxRounds int `toml:"max-rounds"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Store: Store{Path: filepath.Join(dataDir(), "intcode.db")},
	}
}

func dataDir() string {
	d, err := os.UserCacheDir()
	if err != nil {
		return "."
	}
	return filepath.Join(d, "intcode")
}

// File returns the default location of the configuration file.
func File() string {
	d, err := os.UserConfigDir()
	if err != nil {
		return "intcode.toml"
	}
	return filepath.Join(d, "intcode", "intcode.toml")
}

// Load reads the configuration file at path on top of the defaults. An
// empty path returns the defaults. Unknown keys are an error.
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	if u := md.Undecoded(); len(u) > 0 {
		keys := make([]string, len(u))
		for i, k := range u {
			keys[i] = k.String()
		}
		return nil, errors.Errorf("%s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err = c.Validate(); err != nil {
		return nil, errors.Wrap(err, path)
	}
	if c.Store.Path != "" && !filepath.IsAbs(c.Store.Path) {
		c.Store.Path = filepath.Join(filepath.Dir(path), c.Store.Path)
	}
	return c, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.Store.Path == "":
		return errors.New("store.path is empty")
	case c.VM.StepLimit < 0:
		return errors.Errorf("vm.step-limit: negative value %d", c.VM.StepLimit)
	case c.Pipeline.Workers < 0:
		return errors.Errorf("pipeline.workers: negative value %d", c.Pipeline.Workers)
	case c.Pipeline.MaxRounds < 0:
		return errors.Errorf("pipeline.max-rounds: negative value %d", c.Pipeline.MaxRounds)
	}
	return nil
}

// ConfigureLogging sets up the commonlog backend. The caller must import a
// backend, usually github.com/tliron/commonlog/simple.
func (c *Config) ConfigureLogging() {
	if c.Log.File == "" {
		commonlog.Configure(c.Log.Verbosity, nil)
		return
	}
	f := c.Log.File
	commonlog.Configure(c.Log.Verbosity, &f)
}
