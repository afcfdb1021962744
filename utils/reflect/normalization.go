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

package reflect

import (
	"errors"
	"reflect"

	"dirpx.dev/dispatch/apis"
)

var (
	// ErrReflectNilType is returned when a nil reflect.Type is provided.
	ErrReflectNilType = errors.New("reflect: nil reflect.Type provided")
	// ErrReflectUnsupported indicates a type that cannot carry invocable
	// members (pointer-to-pointer, pointer-to-interface, unsafe.Pointer).
	ErrReflectUnsupported = errors.New("reflect: type cannot carry invocable members")
)

// Normalize returns the dispatch type for t.
//
// Normalization policy:
//   - *X where X is neither a pointer nor an interface -> X, so that
//     T and *T share one dispatcher;
//   - **X, *I (I an interface) and unsafe.Pointer -> ErrReflectUnsupported;
//   - anything else is returned unchanged.
func Normalize(t reflect.Type) (reflect.Type, error) {
	if t == nil {
		return nil, ErrReflectNilType
	}

	switch t.Kind() {
	case reflect.Pointer:
		switch t.Elem().Kind() {
		case reflect.Pointer, reflect.Interface:
			return nil, ErrReflectUnsupported
		default:
			return t.Elem(), nil
		}

	case reflect.UnsafePointer, reflect.Invalid:
		return nil, ErrReflectUnsupported

	default:
		return t, nil
	}
}

// MethodSet returns the type whose method set is enumerated for the
// normalized dispatch type t. Interfaces enumerate themselves; other types
// enumerate *T when cfg.PointerMethods is set, otherwise T.
func MethodSet(t reflect.Type, cfg apis.Config) reflect.Type {
	if t.Kind() == reflect.Interface || !cfg.PointerMethods {
		return t
	}
	return reflect.PointerTo(t)
}

// Nillable reports whether nil is a valid value of t.
func Nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice,
		reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return true
	default:
		return false
	}
}

// errorType is the reflect.Type of the builtin error interface.
var errorType = reflect.TypeFor[error]()

// ReturnsError reports whether the last result of fn is the error interface.
func ReturnsError(fn reflect.Type) bool {
	n := fn.NumOut()
	return n > 0 && fn.Out(n-1) == errorType
}
