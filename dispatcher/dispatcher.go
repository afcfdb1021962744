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

// Package dispatcher holds the Dispatcher facade: a frozen index table over
// the methods and constructors of one type, plus the invokers that call them.
//
// A Dispatcher is immutable once New returns. Lookups and invocations take
// no locks and are safe for concurrent use.
package dispatcher

import (
	"fmt"
	"reflect"

	"dirpx.dev/dispatch/apis"
	"dirpx.dev/dispatch/signature"
	"dirpx.dev/dispatch/typekey"
)

// Entry is one slot of an index table.
type Entry struct {
	// Signature identifies the member.
	Signature apis.Signature
	// Invoker performs the call.
	Invoker apis.Invoker
}

// table is an index space: dense entries plus canonical string -> indices
// sharing that form. Distinct types can render the same descriptor (for
// example two function-local types named alike), so a bucket is resolved
// by parameter type identity.
type table struct {
	entries []Entry
	index   map[string][]int
}

func newTable(entries []Entry) table {
	t := table{entries: entries, index: make(map[string][]int, len(entries))}
	for i, e := range entries {
		canon := signature.Of(e.Signature)
		t.index[canon] = append(t.index[canon], i)
	}
	return t
}

// lookup returns the first entry named name whose parameter types are
// identical to params.
func (t table) lookup(name string, params []reflect.Type) int {
	for _, i := range t.index[signature.Canonicalize(name, params)] {
		if signature.SameParams(t.entries[i].Signature.Params, params) {
			return i
		}
	}
	return apis.NotFound
}

// lookupCanonical returns the first entry rendering as canon.
func (t table) lookupCanonical(canon string) int {
	if b := t.index[canon]; len(b) > 0 {
		return b[0]
	}
	return apis.NotFound
}

// Dispatcher invokes the members of one type by index.
type Dispatcher struct {
	key     apis.Key
	domain  apis.Domain
	methods table
	ctors   table
}

// New freezes methods and constructors into a Dispatcher. Indices are the
// positions in the given slices. The slices must not be modified afterwards.
func New(key apis.Key, d apis.Domain, methods, constructors []Entry) *Dispatcher {
	return &Dispatcher{
		key:     key,
		domain:  d,
		methods: newTable(methods),
		ctors:   newTable(constructors),
	}
}

// Type returns the dispatch type.
func (d *Dispatcher) Type() reflect.Type { return d.key.Type }

// Key returns the cache key the dispatcher was built for.
func (d *Dispatcher) Key() apis.Key { return d.key }

// Domain returns the owning isolation domain.
func (d *Dispatcher) Domain() apis.Domain { return d.domain }

// Name returns the short "pkg.Type" name of the dispatch type.
func (d *Dispatcher) Name() string { return typekey.Name(d.key.Type) }

// String returns "Dispatcher(pkg.Type)".
func (d *Dispatcher) String() string { return "Dispatcher(" + d.Name() + ")" }

// Index returns the index of the method matching name and params, or
// apis.NotFound.
func (d *Dispatcher) Index(name string, params ...reflect.Type) int {
	return d.methods.lookup(name, params)
}

// ConstructorIndex returns the index of the constructor matching params,
// or apis.NotFound. If several constructors share params (they differ only
// by result type) the first registered one is returned.
func (d *Dispatcher) ConstructorIndex(params ...reflect.Type) int {
	return d.ctors.lookup(apis.ConstructorName, params)
}

// IndexOf resolves sig in the index space selected by sig.Kind.
func (d *Dispatcher) IndexOf(sig apis.Signature) int {
	if sig.Kind == apis.ConstructorKind {
		return d.ctors.lookup(apis.ConstructorName, sig.Params)
	}
	return d.methods.lookup(sig.Name, sig.Params)
}

// Lookup resolves a canonical method string such as "Move(int,int)".
// A string carries no type identity: when distinct parameter types render
// alike the first such method wins. Index matches exactly.
func (d *Dispatcher) Lookup(canonical string) int {
	return d.methods.lookupCanonical(canonical)
}

// MaxIndex returns the largest method index, or -1 if the type has no
// invocable methods.
func (d *Dispatcher) MaxIndex() int { return len(d.methods.entries) - 1 }

// MaxConstructorIndex returns the largest constructor index, or -1 if the
// type has no constructors.
func (d *Dispatcher) MaxConstructorIndex() int { return len(d.ctors.entries) - 1 }

// Signature returns the signature of the method at index.
func (d *Dispatcher) Signature(index int) (apis.Signature, bool) {
	if index < 0 || index >= len(d.methods.entries) {
		return apis.Signature{}, false
	}
	return d.methods.entries[index].Signature, true
}

// ConstructorSignature returns the signature of the constructor at index.
func (d *Dispatcher) ConstructorSignature(index int) (apis.Signature, bool) {
	if index < 0 || index >= len(d.ctors.entries) {
		return apis.Signature{}, false
	}
	return d.ctors.entries[index].Signature, true
}

// Methods returns the method signatures in index order.
func (d *Dispatcher) Methods() []apis.Signature { return signatures(d.methods.entries) }

// Constructors returns the constructor signatures in index order.
func (d *Dispatcher) Constructors() []apis.Signature { return signatures(d.ctors.entries) }

// Invoke calls the method at index on instance.
//
// Errors: *apis.IndexError for an index outside [0, MaxIndex];
// apis.ErrArgument (wrapped) when instance or args do not fit;
// *apis.InvocationError when the method returns a non-nil error or panics.
func (d *Dispatcher) Invoke(index int, instance any, args ...any) (any, error) {
	if index < 0 || index >= len(d.methods.entries) {
		return nil, &apis.IndexError{Type: d.key.Type, Index: index, Max: d.MaxIndex()}
	}
	return d.methods.entries[index].Invoker.Call(instance, args)
}

// NewInstance calls the constructor at index. Errors mirror Invoke.
func (d *Dispatcher) NewInstance(index int, args ...any) (any, error) {
	if index < 0 || index >= len(d.ctors.entries) {
		return nil, &apis.IndexError{Type: d.key.Type, Index: index, Max: d.MaxConstructorIndex(), Constructor: true}
	}
	return d.ctors.entries[index].Invoker.Call(nil, args)
}

// InvokeByName resolves name and params and invokes in one step. An
// unknown signature fails with *apis.IndexError for index -1, as Invoke would.
func (d *Dispatcher) InvokeByName(name string, params []reflect.Type, instance any, args ...any) (any, error) {
	return d.Invoke(d.Index(name, params...), instance, args...)
}

// New resolves the constructor for params and calls it in one step.
func (d *Dispatcher) New(params []reflect.Type, args ...any) (any, error) {
	return d.NewInstance(d.ConstructorIndex(params...), args...)
}

// NewZero calls the zero-parameter constructor.
func (d *Dispatcher) NewZero() (any, error) {
	return d.New(nil)
}

// Method returns a handle bound to the method matching name and params.
func (d *Dispatcher) Method(name string, params ...reflect.Type) (*Method, error) {
	i := d.Index(name, params...)
	if i == apis.NotFound {
		return nil, fmt.Errorf("dispatch: %v has no method %s", d.key.Type, signature.Canonicalize(name, params))
	}
	return &Method{d: d, index: i}, nil
}

// Constructor returns a handle bound to the constructor matching params.
func (d *Dispatcher) Constructor(params ...reflect.Type) (*Constructor, error) {
	i := d.ConstructorIndex(params...)
	if i == apis.NotFound {
		return nil, fmt.Errorf("dispatch: %v has no constructor %s", d.key.Type, signature.Canonicalize(apis.ConstructorName, params))
	}
	return &Constructor{d: d, index: i}, nil
}

func signatures(entries []Entry) []apis.Signature {
	out := make([]apis.Signature, len(entries))
	for i, e := range entries {
		out[i] = e.Signature
	}
	return out
}
