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
	"fmt"
	"reflect"

	"dirpx.dev/dispatch/apis"
	uref "dirpx.dev/dispatch/utils/reflect"
)

// NewLate creates an apis.Compiler that resolves methods by name on the
// instance at every call. It is the universal fallback for methods and the
// only backend for interface members.
func NewLate() apis.Compiler {
	return lateCompiler{}
}

// lateCompiler binds nothing at build time except the signature.
type lateCompiler struct{}

// Ensure lateCompiler implements apis.Compiler.
var _ apis.Compiler = lateCompiler{}

// Compile returns a late-bound invoker for method members. It declines
// everything under the Direct backend.
func (lateCompiler) Compile(m apis.Member, cfg apis.Config) (apis.Invoker, bool) {
	if cfg.Backend == apis.Direct || m.Signature.Kind != apis.MethodKind || m.Receiver == nil {
		return nil, false
	}
	return &lateCall{sig: m.Signature, owner: m.Owner, recv: m.Receiver}, true
}

// lateCall looks the method up on each call.
type lateCall struct {
	sig   apis.Signature
	owner reflect.Type
	recv  reflect.Type
}

// Call implements apis.Invoker.
func (c *lateCall) Call(instance any, args []any) (any, error) {
	v, err := c.bind(instance)
	if err != nil {
		return nil, err
	}

	mv := v.MethodByName(c.sig.Name)
	if !mv.IsValid() {
		return nil, fmt.Errorf("%w: %v has no method %s", apis.ErrArgument, v.Type(), c.sig.Name)
	}

	mt := mv.Type()
	in, err := appendArgs(make([]reflect.Value, 0, len(args)), c.sig, c.sig.Params, args)
	if err != nil {
		return nil, err
	}

	res, err := call(c.sig, mv, in, mt.IsVariadic())
	if err != nil {
		return nil, err
	}
	return unpack(c.sig, res, uref.ReturnsError(mt))
}

// bind checks instance belongs to the dispatch type and returns a value
// whose method set contains the member.
func (c *lateCall) bind(instance any) (reflect.Value, error) {
	if instance == nil {
		return reflect.Value{}, fmt.Errorf("%w: nil instance, want %v", apis.ErrArgument, c.owner)
	}

	v := reflect.ValueOf(instance)
	if c.owner.Kind() == reflect.Interface {
		if !v.Type().Implements(c.owner) {
			return reflect.Value{}, fmt.Errorf("%w: %v does not implement %v", apis.ErrArgument, v.Type(), c.owner)
		}
		return v, nil
	}
	return receiver(c.recv, instance)
}
