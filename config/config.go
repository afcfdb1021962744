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
	"dirpx.dev/dispatch/apis"
)

const (
	// DefaultBackend represents the default for Backend.
	DefaultBackend = apis.Auto
	// DefaultRetention represents the default for Retention.
	// Weak retention never keeps a dispatcher alive on behalf of the cache.
	DefaultRetention = apis.Weak
	// DefaultPointerMethods represents the default for PointerMethods.
	DefaultPointerMethods = true
	// DefaultZeroConstructor represents the default for ZeroConstructor.
	DefaultZeroConstructor = false
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		Backend:         DefaultBackend,
		Retention:       DefaultRetention,
		PointerMethods:  DefaultPointerMethods,
		ZeroConstructor: DefaultZeroConstructor,
	}
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithBackend sets the Backend option.
// Unknown values reset to the default.
func WithBackend(b apis.Backend) Option {
	return func(c *apis.Config) {
		switch b {
		case apis.Auto, apis.Direct, apis.Late:
			c.Backend = b
		default:
			c.Backend = DefaultBackend
		}
	}
}

// WithRetention sets the Retention option.
// Unknown values reset to the default.
func WithRetention(r apis.Retention) Option {
	return func(c *apis.Config) {
		switch r {
		case apis.Weak, apis.Strong:
			c.Retention = r
		default:
			c.Retention = DefaultRetention
		}
	}
}

// WithPointerMethods sets the PointerMethods option.
func WithPointerMethods(include bool) Option {
	return func(c *apis.Config) {
		c.PointerMethods = include
	}
}

// WithZeroConstructor sets the ZeroConstructor option.
func WithZeroConstructor(synthesize bool) Option {
	return func(c *apis.Config) {
		c.ZeroConstructor = synthesize
	}
}
