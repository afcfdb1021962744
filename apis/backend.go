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

package apis

import (
	"fmt"
	"strings"
)

// Backend selects how the builder makes members callable.
//
// # Overview
//
// Every member of a dispatcher is compiled once into an invoker. Backend
// chooses which compilers may take part: direct invokers bind the method
// value, receiver type and parameter types at build time; late invokers
// look the method up by name on the instance at each call. The choice
// affects speed and which members can be served, never what a call
// returns.
//
// # Values
//
//   - Auto: direct where possible, late for the rest.
//   - Direct: direct only.
//   - Late: late for every method.
//
// Constructors are plain funcs and always compile directly.
//
// # Contract
//
//   - Backend is part of the cache configuration; changing it requires a
//     new cache, dispatchers already built keep their invokers.
//   - For members both backends serve, results, errors and panics are
//     reported identically.
//   - Backend values are plain integers and safe to share across goroutines.
type Backend int

const (
	// Auto lets the builder choose per member.
	//
	// # Semantics
	//
	// Methods with a function value (every method of a concrete type) are
	// compiled directly. Interface members have no function value and fall
	// back to late binding. Builds under Auto never fail for lack of a
	// backend.
	Auto Backend = iota

	// Direct forces direct calls.
	//
	// # Semantics
	//
	// Every member must have a function value. A dispatcher for an
	// interface type cannot be built and the build fails with
	// builder.ErrNotCompilable.
	//
	// Recommended usage:
	//
	//   - Hot paths over concrete types where a silent fallback would hide
	//     a slower call path.
	Direct

	// Late forces by-name resolution at call time.
	//
	// # Semantics
	//
	// Each call resolves the method on the dynamic instance, so an instance
	// whose concrete type changes the method set (for example through
	// embedding) is served by what it actually has. Calls are slower than
	// direct ones.
	//
	// Recommended usage:
	//
	//   - Comparing behavior against the direct backend.
	//   - Interface-typed dispatch where instances vary widely.
	Late
)

// String returns a human-readable representation of the Backend value.
// Unknown values render as "Unknown(<n>)" and never panic.
func (b Backend) String() string {
	switch b {
	case Auto:
		return "Auto"
	case Direct:
		return "Direct"
	case Late:
		return "Late"
	default:
		return fmt.Sprintf("Unknown(%d)", int(b))
	}
}

// ParseBackend parses a textual representation of a Backend.
// Matching is case-insensitive and surrounding whitespace is ignored.
// On failure it returns Auto and a non-nil error.
func ParseBackend(s string) (Backend, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Auto, fmt.Errorf("dispatch: empty backend")
	}

	switch strings.ToUpper(trimmed) {
	case "AUTO":
		return Auto, nil
	case "DIRECT":
		return Direct, nil
	case "LATE":
		return Late, nil
	default:
		return Auto, fmt.Errorf("dispatch: unknown backend %q", s)
	}
}

// MustParseBackend is like ParseBackend but panics on invalid input.
func MustParseBackend(s string) Backend {
	b, err := ParseBackend(s)
	if err != nil {
		panic(err)
	}
	return b
}

// MarshalText implements encoding.TextMarshaler. Unknown values are an
// error rather than an "Unknown(...)" token so invalid states are never persisted.
func (b Backend) MarshalText() ([]byte, error) {
	switch b {
	case Auto, Direct, Late:
		return []byte(b.String()), nil
	default:
		return nil, fmt.Errorf("dispatch: cannot marshal unknown backend %d", int(b))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler. On failure *b is left
// unchanged.
func (b *Backend) UnmarshalText(text []byte) error {
	value, err := ParseBackend(string(text))
	if err != nil {
		return err
	}
	*b = value
	return nil
}
