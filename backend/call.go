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

// receiver adapts instance to the receiver type want.
//
//   - exact or assignable types pass through;
//   - a T value is copied into a fresh *T when want is *T (mutations made
//     by the method are not visible to the caller's copy);
//   - a non-nil *T is dereferenced when want is T.
func receiver(want reflect.Type, instance any) (reflect.Value, error) {
	if instance == nil {
		return reflect.Value{}, fmt.Errorf("%w: nil instance, want %v", apis.ErrArgument, want)
	}

	v := reflect.ValueOf(instance)
	vt := v.Type()
	switch {
	case vt == want || vt.AssignableTo(want):
		return v, nil

	case want.Kind() == reflect.Pointer && vt == want.Elem():
		p := reflect.New(vt)
		p.Elem().Set(v)
		return p, nil

	case vt.Kind() == reflect.Pointer && vt.Elem() == want:
		if v.IsNil() {
			return reflect.Value{}, fmt.Errorf("%w: nil %v instance", apis.ErrArgument, vt)
		}
		return v.Elem(), nil
	}
	return reflect.Value{}, fmt.Errorf("%w: instance of type %v, want %v", apis.ErrArgument, vt, want)
}

// appendArgs converts args to reflect values for params and appends them to in.
// nil becomes the zero value of nillable parameter types.
func appendArgs(in []reflect.Value, sig apis.Signature, params []reflect.Type, args []any) ([]reflect.Value, error) {
	if len(args) != len(params) {
		return nil, fmt.Errorf("%w: %s %s takes %d arguments, have %d",
			apis.ErrArgument, sig.Kind, sig.Name, len(params), len(args))
	}

	for i, a := range args {
		pt := params[i]
		if a == nil {
			if !uref.Nillable(pt) {
				return nil, fmt.Errorf("%w: argument %d of %s is nil, want %v", apis.ErrArgument, i, sig.Name, pt)
			}
			in = append(in, reflect.Zero(pt))
			continue
		}

		v := reflect.ValueOf(a)
		if !v.Type().AssignableTo(pt) {
			return nil, fmt.Errorf("%w: argument %d of %s has type %v, want %v", apis.ErrArgument, i, sig.Name, v.Type(), pt)
		}
		in = append(in, v)
	}
	return in, nil
}

// call runs fn and turns a panic raised by the target into an InvocationError.
// Variadic funcs take their last argument as the slice.
func call(sig apis.Signature, fn reflect.Value, in []reflect.Value, variadic bool) (out []reflect.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			perr, ok := r.(error)
			if !ok {
				perr = fmt.Errorf("%v", r)
			}
			out, err = nil, &apis.InvocationError{Signature: sig, Err: perr, Panicked: true}
		}
	}()

	if variadic {
		return fn.CallSlice(in), nil
	}
	return fn.Call(in), nil
}

// unpack maps results to the invocation protocol: a non-nil trailing error
// becomes an InvocationError; remaining results map to nil, the single
// value, or []any.
func unpack(sig apis.Signature, res []reflect.Value, errResult bool) (any, error) {
	if errResult {
		last := res[len(res)-1]
		res = res[:len(res)-1]
		if !last.IsNil() {
			return nil, &apis.InvocationError{Signature: sig, Err: last.Interface().(error)}
		}
	}

	switch len(res) {
	case 0:
		return nil, nil
	case 1:
		return res[0].Interface(), nil
	default:
		out := make([]any, len(res))
		for i, r := range res {
			out[i] = r.Interface()
		}
		return out, nil
	}
}
