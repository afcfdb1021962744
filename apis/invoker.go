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

// Invoker performs one resolved call. Implementations are immutable and
// safe for concurrent use.
type Invoker interface {
	// Call invokes the member. instance is ignored for constructors.
	Call(instance any, args []any) (any, error)
}

// InvokerFunc adapts a plain function to Invoker.
type InvokerFunc func(instance any, args []any) (any, error)

// Call implements Invoker.
func (f InvokerFunc) Call(instance any, args []any) (any, error) {
	return f(instance, args)
}

// Member is an invocable member discovered by the builder.
type Member struct {
	// Signature is the member identity.
	Signature Signature
	// Owner is the normalized dispatch type.
	Owner reflect.Type
	// Receiver is the type whose method set the member came from
	// (T, *T or an interface type). Zero for constructors.
	Receiver reflect.Type
	// Method is set for methods. Method.Func is invalid for interface members.
	Method reflect.Method
	// Func is set for constructors.
	Func reflect.Value
}

// Compiler turns a Member into an Invoker. A builder can chain multiple
// compilers in order (e.g., Direct -> Late).
type Compiler interface {
	// Compile returns (invoker, true) if it handles m; otherwise (nil, false)
	// to fall through.
	Compile(m Member, cfg Config) (Invoker, bool)
}
