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

// Package signature turns member names and parameter lists into canonical
// strings. The canonical form is name(D1,D2,...) where each Di is the
// descriptor of a parameter type. Results never take part.
package signature

import (
	"reflect"
	"slices"
	"strconv"
	"strings"

	"dirpx.dev/dispatch/apis"
)

// Method returns a method signature.
func Method(name string, params ...reflect.Type) apis.Signature {
	return apis.Signature{Kind: apis.MethodKind, Name: name, Params: params}
}

// Constructor returns a constructor signature.
func Constructor(params ...reflect.Type) apis.Signature {
	return apis.Signature{Kind: apis.ConstructorKind, Name: apis.ConstructorName, Params: params}
}

// FromFunc builds a signature from a func type. skip drops leading
// parameters, e.g. 1 for a method expression whose first input is the receiver.
func FromFunc(kind apis.Kind, name string, fn reflect.Type, skip int) apis.Signature {
	n := fn.NumIn() - skip
	if n < 0 {
		n = 0
	}
	params := make([]reflect.Type, 0, n)
	for i := skip; i < fn.NumIn(); i++ {
		params = append(params, fn.In(i))
	}
	return apis.Signature{Kind: kind, Name: name, Params: params}
}

// SameParams reports whether a and b list identical parameter types.
// Canonical strings may collide for distinct types; this never does.
func SameParams(a, b []reflect.Type) bool {
	return slices.Equal(a, b)
}

// Of canonicalizes sig.
func Of(sig apis.Signature) string {
	return Canonicalize(sig.Name, sig.Params)
}

// Canonicalize returns name(D1,D2,...). It is deterministic and total.
func Canonicalize(name string, params []reflect.Type) string {
	var sb strings.Builder
	sb.Grow(len(name) + 2 + 16*len(params))
	sb.WriteString(name)
	sb.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			sb.WriteByte(',')
		}
		writeDescriptor(&sb, p)
	}
	sb.WriteByte(')')
	return sb.String()
}

// Descriptor returns the canonical descriptor of t.
//
// Named types render as "pkgpath.Name" (builtins as their bare name),
// composite unnamed types render structurally, unnamed struct and interface
// literals render as t.String().
func Descriptor(t reflect.Type) string {
	var sb strings.Builder
	writeDescriptor(&sb, t)
	return sb.String()
}

func writeDescriptor(sb *strings.Builder, t reflect.Type) {
	if t == nil {
		sb.WriteString("<nil>")
		return
	}

	if name := t.Name(); name != "" {
		if p := t.PkgPath(); p != "" {
			sb.WriteString(p)
			sb.WriteByte('.')
		}
		sb.WriteString(name)
		return
	}

	switch t.Kind() {
	case reflect.Pointer:
		sb.WriteByte('*')
		writeDescriptor(sb, t.Elem())

	case reflect.Slice:
		sb.WriteString("[]")
		writeDescriptor(sb, t.Elem())

	case reflect.Array:
		sb.WriteByte('[')
		sb.WriteString(strconv.Itoa(t.Len()))
		sb.WriteByte(']')
		writeDescriptor(sb, t.Elem())

	case reflect.Map:
		sb.WriteString("map[")
		writeDescriptor(sb, t.Key())
		sb.WriteByte(']')
		writeDescriptor(sb, t.Elem())

	case reflect.Chan:
		switch t.ChanDir() {
		case reflect.RecvDir:
			sb.WriteString("<-chan ")
		case reflect.SendDir:
			sb.WriteString("chan<- ")
		default:
			sb.WriteString("chan ")
		}
		writeDescriptor(sb, t.Elem())

	case reflect.Func:
		sb.WriteString("func(")
		for i := 0; i < t.NumIn(); i++ {
			if i > 0 {
				sb.WriteByte(',')
			}
			if t.IsVariadic() && i == t.NumIn()-1 {
				sb.WriteString("...")
				writeDescriptor(sb, t.In(i).Elem())
				continue
			}
			writeDescriptor(sb, t.In(i))
		}
		sb.WriteByte(')')
		if t.NumOut() > 0 {
			sb.WriteString(" (")
			for i := 0; i < t.NumOut(); i++ {
				if i > 0 {
					sb.WriteByte(',')
				}
				writeDescriptor(sb, t.Out(i))
			}
			sb.WriteByte(')')
		}

	default:
		// Unnamed struct and interface literals.
		sb.WriteString(t.String())
	}
}
