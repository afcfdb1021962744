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

package backend

import (
	"reflect"

	"dirpx.dev/dispatch/apis"
	uref "dirpx.dev/dispatch/utils/reflect"
)

// NewDirect creates an apis.Compiler that calls method expressions and
// constructor funcs directly. It declines interface members (no Func) and,
// under the Late backend, every method.
func NewDirect() apis.Compiler {
	return directCompiler{}
}

// directCompiler precomputes parameter types, receiver type and result
// shape once per member.
type directCompiler struct{}

// Ensure directCompiler implements apis.Compiler.
var _ apis.Compiler = directCompiler{}

// Compile returns a direct invoker for m.
func (directCompiler) Compile(m apis.Member, cfg apis.Config) (apis.Invoker, bool) {
	switch m.Signature.Kind {
	case apis.ConstructorKind:
		if !m.Func.IsValid() {
			return nil, false
		}
		return newDirectCall(m.Signature, m.Func, nil), true

	default:
		if cfg.Backend == apis.Late || !m.Method.Func.IsValid() {
			return nil, false
		}
		return newDirectCall(m.Signature, m.Method.Func, m.Receiver), true
	}
}

// directCall is a prepared call of fn. recv is nil for constructors.
type directCall struct {
	sig       apis.Signature
	fn        reflect.Value
	recv      reflect.Type
	params    []reflect.Type
	variadic  bool
	errResult bool
}

func newDirectCall(sig apis.Signature, fn reflect.Value, recv reflect.Type) apis.Invoker {
	ft := fn.Type()
	c := &directCall{
		sig:       sig,
		fn:        fn,
		recv:      recv,
		params:    sig.Params,
		variadic:  ft.IsVariadic(),
		errResult: uref.ReturnsError(ft),
	}

	// Nullary methods skip argument conversion altogether.
	if recv != nil && len(c.params) == 0 {
		return apis.InvokerFunc(c.callNullary)
	}
	return c
}

// Call implements apis.Invoker.
func (c *directCall) Call(instance any, args []any) (any, error) {
	in := make([]reflect.Value, 0, len(c.params)+1)
	if c.recv != nil {
		rv, err := receiver(c.recv, instance)
		if err != nil {
			return nil, err
		}
		in = append(in, rv)
	}

	in, err := appendArgs(in, c.sig, c.params, args)
	if err != nil {
		return nil, err
	}

	res, err := call(c.sig, c.fn, in, c.variadic)
	if err != nil {
		return nil, err
	}
	return unpack(c.sig, res, c.errResult)
}

func (c *directCall) callNullary(instance any, args []any) (any, error) {
	if len(args) != 0 {
		_, err := appendArgs(nil, c.sig, nil, args)
		return nil, err
	}

	rv, err := receiver(c.recv, instance)
	if err != nil {
		return nil, err
	}

	res, err := call(c.sig, c.fn, []reflect.Value{rv}, false)
	if err != nil {
		return nil, err
	}
	return unpack(c.sig, res, c.errResult)
}
