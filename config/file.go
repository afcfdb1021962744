/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"dirpx.dev/dispatch/apis"
)

// ErrUnknownFormat is returned by Load for file extensions other than
// .yaml, .yml and .toml.
var ErrUnknownFormat = errors.New("dispatch(config): unknown config file format")

// File is the on-disk configuration. Unset knobs keep their defaults.
//
//	backend: direct
//	retention: weak
//	pointer_methods: true
//	zero_constructor: false
//	logging:
//	  verbosity: 1
//	  path: /var/log/dispatch.log
type File struct {
	Backend         *apis.Backend   `yaml:"backend" toml:"backend"`
	Retention       *apis.Retention `yaml:"retention" toml:"retention"`
	PointerMethods  *bool           `yaml:"pointer_methods" toml:"pointer_methods"`
	ZeroConstructor *bool           `yaml:"zero_constructor" toml:"zero_constructor"`
	Logging         Logging         `yaml:"logging" toml:"logging"`
}

// Logging configures the commonlog backend.
type Logging struct {
	// Verbosity maps to commonlog levels; 0 keeps the backend quiet
	// except for errors.
	Verbosity int `yaml:"verbosity" toml:"verbosity"`
	// Path is the log file; empty means stderr.
	Path string `yaml:"path" toml:"path"`
}

// Config converts the file into an apis.Config on top of DefaultConfig.
func (f *File) Config() apis.Config {
	var opts []Option
	if f.Backend != nil {
		opts = append(opts, WithBackend(*f.Backend))
	}
	if f.Retention != nil {
		opts = append(opts, WithRetention(*f.Retention))
	}
	if f.PointerMethods != nil {
		opts = append(opts, WithPointerMethods(*f.PointerMethods))
	}
	if f.ZeroConstructor != nil {
		opts = append(opts, WithZeroConstructor(*f.ZeroConstructor))
	}
	return NewConfig(opts...)
}

// Load parses a YAML or TOML config file, chosen by extension.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	return Parse(filepath.Ext(path), data)
}

// Parse decodes data in the format named by ext (".yaml", ".yml" or ".toml").
func Parse(ext string, data []byte) (*File, error) {
	var f File
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse error in yaml config: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse error in toml config: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	return &f, nil
}
