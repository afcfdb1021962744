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

package builder

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/tliron/commonlog"

	"dirpx.dev/dispatch/apis"
	"dirpx.dev/dispatch/backend"
	"dirpx.dev/dispatch/dispatcher"
	"dirpx.dev/dispatch/signature"
	"dirpx.dev/dispatch/typekey"
	uref "dirpx.dev/dispatch/utils/reflect"
)

// logger returns the package logger from the currently installed commonlog backend.
func logger() commonlog.Logger { return commonlog.GetLogger("dispatch.builder") }

var (
	// ErrNilDomain is returned when a build is requested without a domain.
	ErrNilDomain = errors.New("dispatch(builder): nil domain provided")
	// ErrNotCompilable indicates a member no compiler in the chain accepted.
	ErrNotCompilable = errors.New("dispatch(builder): member cannot be made callable")
)

// Builder constructs dispatchers. Implementations must be safe for
// concurrent use; the cache may call Build for distinct keys in parallel.
type Builder interface {
	// Build enumerates the members of t, assigns indices and compiles them.
	// Failures are *apis.BuildError.
	Build(t reflect.Type, d apis.Domain, cfg apis.Config) (*dispatcher.Dispatcher, error)
}

// New creates a Builder that compiles members through the given compilers
// in order. With no compilers it uses backend.NewDirect then backend.NewLate.
func New(compilers ...apis.Compiler) Builder {
	if len(compilers) == 0 {
		compilers = []apis.Compiler{backend.NewDirect(), backend.NewLate()}
	}
	return &builder{compiler: backend.Chain(compilers...)}
}

// builder is the default Builder.
type builder struct {
	compiler apis.Compiler
}

// Build implements Builder.
func (b *builder) Build(t reflect.Type, d apis.Domain, cfg apis.Config) (*dispatcher.Dispatcher, error) {
	fail := func(err error) (*dispatcher.Dispatcher, error) {
		name := ""
		if d != nil {
			name = d.Name()
		}
		return nil, &apis.BuildError{Type: t, Domain: name, Err: err}
	}

	if d == nil {
		return fail(ErrNilDomain)
	}
	nt, err := uref.Normalize(t)
	if err != nil {
		return fail(err)
	}
	if err := d.Check(nt); err != nil {
		return fail(err)
	}

	key := typekey.Derive(nt, d)

	methods, err := b.methods(nt, cfg)
	if err != nil {
		return fail(err)
	}
	ctors, err := b.constructors(nt, d, cfg)
	if err != nil {
		return fail(err)
	}

	logger().Debugf("built dispatcher for %s in domain %s: %d methods, %d constructors (key %016x)",
		typekey.Name(nt), d.Name(), len(methods), len(ctors), typekey.Fingerprint(key))

	return dispatcher.New(key, d, methods, ctors), nil
}

// methods enumerates and compiles the method set of t. Indices follow
// reflect's (lexicographic) method order, promoted methods included.
func (b *builder) methods(t reflect.Type, cfg apis.Config) ([]dispatcher.Entry, error) {
	recv := uref.MethodSet(t, cfg)
	iface := recv.Kind() == reflect.Interface

	entries := make([]dispatcher.Entry, 0, recv.NumMethod())
	for i := 0; i < recv.NumMethod(); i++ {
		m := recv.Method(i)
		if !m.IsExported() {
			continue
		}

		var sig apis.Signature
		if iface {
			// Interface methods carry no receiver in their type.
			sig = signature.FromFunc(apis.MethodKind, m.Name, m.Type, 0)
		} else {
			sig = signature.FromFunc(apis.MethodKind, m.Name, m.Type, 1)
		}

		member := apis.Member{Signature: sig, Owner: t, Receiver: recv, Method: m}
		inv, ok := b.compiler.Compile(member, cfg)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotCompilable, signature.Of(sig))
		}
		entries = append(entries, dispatcher.Entry{Signature: sig, Invoker: inv})
	}
	return entries, nil
}

// constructors compiles the constructors registered in d for t, in
// registration order, then the synthesized zero constructor if enabled.
func (b *builder) constructors(t reflect.Type, d apis.Domain, cfg apis.Config) ([]dispatcher.Entry, error) {
	fns := d.Constructors(t)
	if cfg.ZeroConstructor && t.Kind() != reflect.Interface {
		fns = append(fns, zeroConstructor(t))
	}

	entries := make([]dispatcher.Entry, 0, len(fns))
	for _, fn := range fns {
		sig := signature.FromFunc(apis.ConstructorKind, apis.ConstructorName, fn.Type(), 0)
		member := apis.Member{Signature: sig, Owner: t, Func: fn}
		inv, ok := b.compiler.Compile(member, cfg)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotCompilable, signature.Of(sig))
		}
		entries = append(entries, dispatcher.Entry{Signature: sig, Invoker: inv})
	}
	return entries, nil
}

// zeroConstructor returns func() *T allocating a zero T.
func zeroConstructor(t reflect.Type) reflect.Value {
	ft := reflect.FuncOf(nil, []reflect.Type{reflect.PointerTo(t)}, false)
	return reflect.MakeFunc(ft, func([]reflect.Value) []reflect.Value {
		return []reflect.Value{reflect.New(t)}
	})
}
