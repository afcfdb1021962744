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

package domain

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"dirpx.dev/dispatch/apis"
	"dirpx.dev/dispatch/signature"
	uref "dirpx.dev/dispatch/utils/reflect"
)

var (
	// ErrNilFunc is returned when a nil constructor is provided.
	ErrNilFunc = errors.New("dispatch(domain): nil constructor provided")
	// ErrNotFunc is returned when a constructor is not a func.
	ErrNotFunc = errors.New("dispatch(domain): constructor is not a func")
	// ErrBadConstructor indicates a func whose results are not (T) or (T, error).
	ErrBadConstructor = errors.New("dispatch(domain): constructor must return (T) or (T, error)")
	// ErrDuplicateConstructor indicates an attempt to register a second
	// constructor with the same parameters and result type.
	ErrDuplicateConstructor = errors.New("dispatch(domain): duplicate constructor registration")
)

// Guard decides whether dispatchers may be built for t. A non-nil error
// fails the build; the failure is not cached.
type Guard func(t reflect.Type) error

// Option configures a Domain at construction.
type Option func(*Domain)

// WithGuard installs g as the initial guard.
func WithGuard(g Guard) Option {
	return func(d *Domain) {
		d.SetGuard(g)
	}
}

// Entry is a single (type, constructor) association in a Domain snapshot.
type Entry struct {
	// Type is the normalized constructed type.
	Type reflect.Type
	// Func is the constructor.
	Func reflect.Value
}

// Domain is an isolation domain: it owns constructor registrations and an
// access guard, and carries an identity no other domain shares.
type Domain struct {
	// id is minted at construction and never changes.
	id uuid.UUID
	// name is a human-readable label.
	name string
	// mu guards write-side consistency and counter.
	mu sync.Mutex
	// m maps normalized reflect.Type to a copy-on-write []reflect.Value.
	m sync.Map
	// count tracks the number of registered constructors.
	count int
	// guard is the current access guard, nil allows everything.
	guard atomic.Pointer[Guard]
}

// Ensure Domain implements apis.Domain.
var _ apis.Domain = (*Domain)(nil)

// New creates a domain with a fresh identity.
func New(name string, opts ...Option) *Domain {
	d := &Domain{id: uuid.New(), name: name}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ID returns the domain identity.
func (d *Domain) ID() uuid.UUID { return d.id }

// Name returns the domain label.
func (d *Domain) Name() string { return d.name }

// String returns "name(id)".
func (d *Domain) String() string { return d.name + "(" + d.id.String() + ")" }

// RegisterConstructor registers fn as a constructor of its first result
// type. fn must be a func returning (T) or (T, error); *T results register
// under T. Constructors keep registration order.
func (d *Domain) RegisterConstructor(fn any) error {
	if fn == nil {
		return ErrNilFunc
	}
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return fmt.Errorf("%w: %T", ErrNotFunc, fn)
	}
	if v.IsNil() {
		return ErrNilFunc
	}

	ft := v.Type()
	switch {
	case ft.NumOut() == 1 && !uref.ReturnsError(ft):
	case ft.NumOut() == 2 && uref.ReturnsError(ft):
	default:
		return fmt.Errorf("%w: %s", ErrBadConstructor, ft)
	}

	t, err := uref.Normalize(ft.Out(0))
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrBadConstructor, ft, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	var prev []reflect.Value
	if old, ok := d.m.Load(t); ok {
		prev = old.([]reflect.Value)
	}

	in := params(ft)
	for _, p := range prev {
		pt := p.Type()
		if pt.Out(0) == ft.Out(0) && signature.SameParams(params(pt), in) {
			return fmt.Errorf("%w: %s for %v", ErrDuplicateConstructor,
				signature.Canonicalize(apis.ConstructorName, in), t)
		}
	}

	next := make([]reflect.Value, len(prev), len(prev)+1)
	copy(next, prev)
	next = append(next, v)
	d.m.Store(t, next)
	d.count++
	return nil
}

// Constructors returns the constructors registered for t (normalized),
// in registration order.
func (d *Domain) Constructors(t reflect.Type) []reflect.Value {
	nt, err := uref.Normalize(t)
	if err != nil {
		return nil
	}
	if v, ok := d.m.Load(nt); ok {
		return slices.Clone(v.([]reflect.Value))
	}
	return nil
}

// SetGuard replaces the access guard. A nil guard allows everything.
func (d *Domain) SetGuard(g Guard) {
	if g == nil {
		d.guard.Store(nil)
		return
	}
	d.guard.Store(&g)
}

// Check runs the current guard for t.
func (d *Domain) Check(t reflect.Type) error {
	if g := d.guard.Load(); g != nil {
		return (*g)(t)
	}
	return nil
}

// Entries returns a snapshot for diagnostics (type order is unspecified,
// constructors of one type keep registration order).
func (d *Domain) Entries() []Entry {
	entries := make([]Entry, 0, d.Count())
	d.m.Range(func(key, value any) bool {
		for _, fn := range value.([]reflect.Value) {
			entries = append(entries, Entry{Type: key.(reflect.Type), Func: fn})
		}
		return true
	})
	return entries
}

// Count returns the number of registered constructors.
func (d *Domain) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.count
}

// Reset clears all registered constructors. Dispatchers already built
// keep the constructors they were built with.
func (d *Domain) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.m.Clear()
	d.count = 0
}

func params(ft reflect.Type) []reflect.Type {
	out := make([]reflect.Type, ft.NumIn())
	for i := range out {
		out[i] = ft.In(i)
	}
	return out
}
