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
	"reflect"
)

// ConstructorName is the reserved synthetic name carried by constructor signatures.
const ConstructorName = "<init>"

// Kind tells which index space a Signature belongs to.
type Kind uint8

const (
	// MethodKind marks a method signature.
	MethodKind Kind = iota
	// ConstructorKind marks a constructor signature.
	ConstructorKind
)

// String returns "method" or "constructor".
func (k Kind) String() string {
	if k == ConstructorKind {
		return "constructor"
	}
	return "method"
}

// Signature identifies an invocable member by name and ordered parameter
// types. Result types are deliberately not part of the identity.
type Signature struct {
	// Kind selects the method or constructor index space.
	Kind Kind
	// Name is the method name, or ConstructorName for constructors.
	Name string
	// Params lists parameter types in declaration order, receiver excluded.
	// Variadic parameters appear as their slice type.
	Params []reflect.Type
}
