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
	"errors"
	"fmt"
	"reflect"
)

// NotFound is the index returned when a signature matches no member.
// Absence is an expected outcome, so it is a sentinel and not an error.
const NotFound = -1

// ErrArgument is wrapped by errors reporting an instance or argument that
// does not fit the member. The target is not called in that case.
var ErrArgument = errors.New("dispatch: argument mismatch")

// IndexError reports an index outside the valid range of an index space.
type IndexError struct {
	// Type is the dispatch type.
	Type reflect.Type
	// Index is the offending index.
	Index int
	// Max is the inclusive upper bound (-1 for an empty space).
	Max int
	// Constructor is true for the constructor index space.
	Constructor bool
}

func (e *IndexError) Error() string {
	space := "method"
	if e.Constructor {
		space = "constructor"
	}
	return fmt.Sprintf("dispatch: %s index %d out of range [0, %d] for %v", space, e.Index, e.Max, e.Type)
}

// BuildError reports that a dispatcher for Type could not be built.
// Failed builds are never cached; a later request retries.
type BuildError struct {
	// Type is the requested type (may be nil).
	Type reflect.Type
	// Domain is the name of the domain the build ran in.
	Domain string
	// Err is the cause.
	Err error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("dispatch: cannot build dispatcher for %v in domain %q: %v", e.Type, e.Domain, e.Err)
}

// Unwrap returns the cause.
func (e *BuildError) Unwrap() error { return e.Err }

// InvocationError wraps a failure raised by the invoked code itself:
// a non-nil trailing error result or a recovered panic.
type InvocationError struct {
	// Signature identifies the member that failed.
	Signature Signature
	// Err is the failure reported by the target.
	Err error
	// Panicked is true when Err was produced from a recovered panic.
	Panicked bool
}

func (e *InvocationError) Error() string {
	if e.Panicked {
		return fmt.Sprintf("dispatch: %s %s panicked: %v", e.Signature.Kind, e.Signature.Name, e.Err)
	}
	return fmt.Sprintf("dispatch: %s %s failed: %v", e.Signature.Kind, e.Signature.Name, e.Err)
}

// Unwrap returns the failure reported by the target.
func (e *InvocationError) Unwrap() error { return e.Err }
