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

package dispatch

import (
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"dirpx.dev/dispatch/apis"
	"dirpx.dev/dispatch/builder"
	"dirpx.dev/dispatch/cache"
	"dirpx.dev/dispatch/config"
	"dirpx.dev/dispatch/dispatcher"
	"dirpx.dev/dispatch/domain"
)

// DefaultDomainName is the name of the process-wide default domain.
const DefaultDomainName = "default"

// init initializes the global state.
func init() {
	cfg := config.DefaultConfig()
	b := builder.New()
	st.Store(&state{
		cfg:   cfg,
		bld:   b,
		cache: cache.New(b, cfg),
		dom:   domain.New(DefaultDomainName),
	})
}

// For returns the dispatcher for t in the default domain.
// This is a convenience wrapper around the global cache.
func For(t reflect.Type) (*dispatcher.Dispatcher, error) {
	s := st.Load()
	return s.cache.Get(t, s.dom)
}

// In returns the dispatcher for t in domain d.
// Dispatchers of different domains are never shared.
func In(d apis.Domain, t reflect.Type) (*dispatcher.Dispatcher, error) {
	return st.Load().cache.Get(t, d)
}

// Of returns the dispatcher for T in the default domain.
func Of[T any]() (*dispatcher.Dispatcher, error) {
	return For(reflect.TypeFor[T]())
}

// DefaultDomain returns the process-wide default domain.
func DefaultDomain() *domain.Domain {
	return st.Load().dom
}

// Register adds constructor fn to the default domain.
//
// Dispatchers already built for the constructed type keep their constructor
// table; register constructors before the first lookup of their type.
func Register(fn any) error {
	return st.Load().dom.RegisterConstructor(fn)
}

// Config returns the global configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig sets the global configuration to cfg.
// Subsequent lookups use a fresh cache; dispatchers handed out before stay valid.
func SetConfig(cfg apis.Config) {
	SetAll(&cfg, nil)
}

// Builder returns the global builder.
func Builder() builder.Builder {
	return st.Load().bld
}

// SetBuilder sets the global builder to b. Nil leaves it unchanged.
func SetBuilder(b builder.Builder) {
	if b == nil {
		return
	}
	SetAll(nil, b)
}

// SetAll replaces configuration and builder in one swap.
// Nil arguments leave the corresponding component unchanged.
// The cache is always replaced; the default domain is kept.
func SetAll(cfg *apis.Config, b builder.Builder) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()

	ncfg := old.cfg
	if cfg != nil {
		ncfg = *cfg
	}
	nbld := old.bld
	if b != nil {
		nbld = b
	}

	st.Store(&state{
		cfg:   ncfg,
		bld:   nbld,
		cache: cache.New(nbld, ncfg),
		dom:   old.dom,
	})
}

// Cache returns the global dispatcher cache.
func Cache() *cache.Cache {
	return st.Load().cache
}

// LoadConfig reads a YAML or TOML configuration file, applies its settings
// to the global state and configures logging from its logging section.
func LoadConfig(path string) error {
	f, err := config.Load(path)
	if err != nil {
		return err
	}
	ConfigureLogging(f.Logging)
	SetConfig(f.Config())
	return nil
}

// ConfigureLogging sets commonlog verbosity and output path.
// An empty path logs to stderr.
func ConfigureLogging(l config.Logging) {
	var path *string
	if l.Path != "" {
		path = &l.Path
	}
	commonlog.Configure(l.Verbosity, path)
}

// buildMu serializes writers so partially-built snapshots are never published.
var buildMu sync.Mutex

// st is the global state.
var st atomic.Pointer[state]

// state is an immutable snapshot published atomically via st.Store.
// Writers create a new state and swap it in.
type state struct {
	// cfg is the global configuration.
	cfg apis.Config
	// bld is the global builder.
	bld builder.Builder
	// cache holds dispatchers built by bld under cfg.
	cache *cache.Cache
	// dom is the default domain.
	dom *domain.Domain
}
