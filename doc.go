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

// Package dispatch provides fast reflective invocation of methods and
// constructors by integer index.
//
// Calling a method through package reflect means looking it up by name,
// checking the receiver, converting arguments and interpreting results on
// every call. dispatch moves the lookup and the preparation to a one-time
// build per type: a Dispatcher enumerates the type's methods and the
// constructors registered for it, assigns each a stable index, and compiles
// an invoker per member. Callers resolve an index once and invoke by index
// from then on.
//
// # Design
//
// A Dispatcher is identified by an apis.Key: the normalized type plus the
// isolation domain it was built in. Types are normalized so that T and *T
// share one dispatcher. Members are addressed by their canonical signature,
// the name followed by the parenthesized descriptors of the parameter types
// (return types are not part of it):
//
//	Area()
//	Scale(float64)
//	<init>(int,int)
//
// Method indices follow reflect's method order, so they are stable for the
// lifetime of the dispatcher. Index returns apis.NotFound (-1) for a
// signature the type does not have; invoking -1 fails with *apis.IndexError
// like any other out-of-range index.
//
// Go has no constructors. A constructor is a plain func returning T or *T,
// optionally with a trailing error, registered in a domain:
//
//	d := domain.New("geometry")
//	_ = d.RegisterConstructor(NewPoint) // func NewPoint(x, y int) *Point
//
// # Global API
//
// The package holds a read-mostly snapshot of configuration, builder, cache
// and the default domain:
//
//	disp, err := dispatch.Of[Point]()
//	getX := disp.Index("GetX")
//	x, err := disp.Invoke(getX, p)
//	p2, err := disp.NewInstance(disp.ConstructorIndex(intT, intT), 3, 4)
//
// For and Of use the default domain, In uses an explicit one. Register adds
// a constructor to the default domain. SetConfig, SetBuilder and SetAll swap
// in a new snapshot with a fresh cache; dispatchers handed out earlier keep
// working.
//
// # Caching
//
// The cache builds at most one dispatcher per key at a time. Concurrent
// requests for the same key wait for that build and share its result;
// requests for different keys never wait on each other. A failed build is
// reported to every waiter and not remembered, so a later request retries
// (for instance after a domain guard starts admitting the type).
//
// With the default weak retention the cache does not keep dispatchers alive
// on its own: once nothing references a dispatcher it is collected and its
// entry removed. Strong retention pins dispatchers until Purge.
//
// # Backends
//
// Members are compiled by a chain of backends. The direct backend calls the
// resolved method value with pre-computed receiver and parameter types. The
// late backend resolves by name against the dynamic value on each call and
// serves interface types, whose methods have no function value. Config.Backend
// selects Auto (direct, late as fallback), Direct or Late.
//
// # Invocation protocol
//
//   - arguments are passed as []any and must match the parameter count; a
//     variadic parameter takes the whole slice;
//   - nil is accepted for nillable parameter types;
//   - a mismatched instance or argument fails with apis.ErrArgument and the
//     target is not called;
//   - a non-nil trailing error result or a panic in the target is returned
//     as *apis.InvocationError;
//   - no results yield nil, one result yields the value, several yield []any.
//
// # Configuration and logging
//
// Config can be built with the options in package config or loaded from a
// YAML or TOML file with LoadConfig, which also applies the file's logging
// section. Builds and evictions are traced at debug level through commonlog
// loggers named dispatch.builder and dispatch.cache.
package dispatch
