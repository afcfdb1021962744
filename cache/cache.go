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

// Package cache keeps at most one dispatcher per (type, domain) key.
//
// Lookups of ready dispatchers never lock. A miss joins the single in-flight
// build for its key; distinct keys build independently. Failed builds are
// reported to every waiter and never stored. With weak retention a
// dispatcher lives only while some caller references it.
package cache

import (
	"errors"
	"reflect"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"weak"

	"github.com/tliron/commonlog"
	"golang.org/x/sync/singleflight"

	"dirpx.dev/dispatch/apis"
	"dirpx.dev/dispatch/builder"
	"dirpx.dev/dispatch/dispatcher"
	"dirpx.dev/dispatch/typekey"
	uref "dirpx.dev/dispatch/utils/reflect"
)

// logger returns the package logger from the currently installed commonlog backend.
func logger() commonlog.Logger { return commonlog.GetLogger("dispatch.cache") }

// ErrNilBuilder is returned by Get on a Cache created without a Builder.
var ErrNilBuilder = errors.New("dispatch(cache): nil builder")

// entry is one cached slot. Its identity guards the cleanup against
// removing a newer entry stored under the same key.
type entry struct {
	wp weak.Pointer[dispatcher.Dispatcher]
}

// Cache memoizes dispatchers built by a Builder under a fixed Config.
type Cache struct {
	b   builder.Builder
	cfg apis.Config

	// m maps apis.Key to *entry.
	m sync.Map
	// pinned maps apis.Key to *dispatcher.Dispatcher under Strong retention.
	pinned sync.Map

	// group dedups builds; flights are named by flightKey.
	group     singleflight.Group
	flightKey func(apis.Key) string
	builds    atomic.Uint64
}

// New returns an empty Cache.
func New(b builder.Builder, cfg apis.Config) *Cache {
	return &Cache{b: b, cfg: cfg, flightKey: fingerprintKey}
}

// Config returns the configuration dispatchers are built with.
func (c *Cache) Config() apis.Config { return c.cfg }

// Get returns the dispatcher for t in d, building it on first use.
//
// Concurrent callers asking for the same key share one build and receive
// the same *Dispatcher. A build error is returned to all of them and the
// next Get tries again.
func (c *Cache) Get(t reflect.Type, d apis.Domain) (*dispatcher.Dispatcher, error) {
	if c.b == nil {
		return nil, ErrNilBuilder
	}

	nt, err := uref.Normalize(t)
	if err != nil || d == nil {
		// Let the builder report the invalid request; nothing is cached.
		return c.b.Build(t, d, c.cfg)
	}

	key := typekey.Derive(nt, d)
	if disp := c.load(key); disp != nil {
		return disp, nil
	}

	fk := c.flightKey(key)
	for {
		v, _, shared := c.group.Do(fk, func() (any, error) {
			return c.build(key, nt, d), nil
		})
		r := v.(flight)
		if r.key != key {
			// A different key with the same fingerprint led this flight.
			continue
		}
		if shared && r.err == nil {
			logger().Debugf("shared build of %s", key)
		}
		return r.disp, r.err
	}
}

// flight is the outcome of one build, tagged with the key it was run for.
type flight struct {
	key  apis.Key
	disp *dispatcher.Dispatcher
	err  error
}

// build runs inside the flight for key and stores a successful result.
func (c *Cache) build(key apis.Key, t reflect.Type, d apis.Domain) flight {
	// A flight that completed between load and Do has stored already.
	if disp := c.load(key); disp != nil {
		return flight{key: key, disp: disp}
	}

	logger().Debugf("building %s", key)
	disp, err := c.b.Build(t, d, c.cfg)
	if err != nil {
		logger().Debugf("build of %s failed: %s", key, err)
		return flight{key: key, err: err}
	}

	c.builds.Add(1)
	c.store(key, disp)
	logger().Debugf("cached %s", key)
	return flight{key: key, disp: disp}
}

// fingerprintKey names the singleflight group of key by its xxh3 fingerprint.
func fingerprintKey(key apis.Key) string {
	return strconv.FormatUint(typekey.Fingerprint(key), 16)
}

// Lookup returns the cached dispatcher for t in d without building.
func (c *Cache) Lookup(t reflect.Type, d apis.Domain) (*dispatcher.Dispatcher, bool) {
	if d == nil {
		return nil, false
	}
	nt, err := uref.Normalize(t)
	if err != nil {
		return nil, false
	}
	disp := c.load(typekey.Derive(nt, d))
	return disp, disp != nil
}

func (c *Cache) load(key apis.Key) *dispatcher.Dispatcher {
	v, ok := c.m.Load(key)
	if !ok {
		return nil
	}
	return v.(*entry).wp.Value()
}

func (c *Cache) store(key apis.Key, disp *dispatcher.Dispatcher) {
	e := &entry{wp: weak.Make(disp)}
	c.m.Store(key, e)
	if c.cfg.Retention == apis.Strong {
		c.pinned.Store(key, disp)
	}

	runtime.AddCleanup(disp, func(e *entry) {
		if c.m.CompareAndDelete(key, e) {
			logger().Debugf("evicted %s", key)
		}
	}, e)
}

// Len reports the number of live entries.
func (c *Cache) Len() int {
	n := 0
	c.m.Range(func(_, v any) bool {
		if v.(*entry).wp.Value() != nil {
			n++
		}
		return true
	})
	return n
}

// Keys returns a snapshot of the keys with live entries (order is unspecified).
func (c *Cache) Keys() []apis.Key {
	keys := make([]apis.Key, 0)
	c.m.Range(func(k, v any) bool {
		if v.(*entry).wp.Value() != nil {
			keys = append(keys, k.(apis.Key))
		}
		return true
	})
	return keys
}

// Builds reports how many builds completed successfully.
func (c *Cache) Builds() uint64 { return c.builds.Load() }

// Purge drops every entry and unpins strongly retained dispatchers.
// Dispatchers already handed out stay usable.
func (c *Cache) Purge() {
	c.m.Clear()
	c.pinned.Clear()
}
