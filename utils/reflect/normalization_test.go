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

package reflect_test

import (
	"errors"
	"io"
	"reflect"
	"testing"
	"unsafe"

	"dirpx.dev/dispatch/apis"
	uref "dirpx.dev/dispatch/utils/reflect"
)

// Local test types.
type A struct{}
type G[T any] struct{}
type N int

func (A) Value() int    { return 1 }
func (*A) Pointer() int { return 2 }

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		typ  reflect.Type
		want reflect.Type
	}{
		{"plain", reflect.TypeOf(A{}), reflect.TypeOf(A{})},
		{"ptr", reflect.TypeOf(&A{}), reflect.TypeOf(A{})},
		{"generic", reflect.TypeOf(&G[int]{}), reflect.TypeOf(G[int]{})},
		{"named scalar", reflect.TypeOf(N(0)), reflect.TypeOf(N(0))},
		{"interface", reflect.TypeFor[io.Reader](), reflect.TypeFor[io.Reader]()},
		{"slice unchanged", reflect.TypeOf([]A{}), reflect.TypeOf([]A{})},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := uref.Normalize(tc.typ)
			if err != nil {
				t.Fatalf("Normalize(%v) returned error: %v", tc.typ, err)
			}
			if got != tc.want {
				t.Fatalf("Normalize(%v) = %v, want %v", tc.typ, got, tc.want)
			}
		})
	}
}

func TestNormalize_Errors(t *testing.T) {
	if _, err := uref.Normalize(nil); !errors.Is(err, uref.ErrReflectNilType) {
		t.Fatalf("Normalize(nil) error = %v, want ErrReflectNilType", err)
	}

	bad := []reflect.Type{
		reflect.TypeOf((**A)(nil)),
		reflect.TypeOf((*io.Reader)(nil)),
		reflect.TypeOf(unsafe.Pointer(nil)),
	}
	for _, typ := range bad {
		if _, err := uref.Normalize(typ); !errors.Is(err, uref.ErrReflectUnsupported) {
			t.Fatalf("Normalize(%v) error = %v, want ErrReflectUnsupported", typ, err)
		}
	}
}

func TestMethodSet(t *testing.T) {
	a := reflect.TypeOf(A{})

	withPtr := uref.MethodSet(a, apis.Config{PointerMethods: true})
	if withPtr != reflect.TypeOf(&A{}) || withPtr.NumMethod() != 2 {
		t.Fatalf("MethodSet(pointer methods) = %v with %d methods, want *A with 2", withPtr, withPtr.NumMethod())
	}

	valueOnly := uref.MethodSet(a, apis.Config{PointerMethods: false})
	if valueOnly != a || valueOnly.NumMethod() != 1 {
		t.Fatalf("MethodSet(value methods) = %v with %d methods, want A with 1", valueOnly, valueOnly.NumMethod())
	}

	r := reflect.TypeFor[io.ReadWriter]()
	if got := uref.MethodSet(r, apis.Config{PointerMethods: true}); got != r {
		t.Fatalf("MethodSet(interface) = %v, want %v", got, r)
	}
}

func TestNillableAndReturnsError(t *testing.T) {
	if !uref.Nillable(reflect.TypeOf(&A{})) || uref.Nillable(reflect.TypeOf(0)) {
		t.Fatal("Nillable misclassified pointer or int")
	}

	if !uref.ReturnsError(reflect.TypeOf(func() (int, error) { return 0, nil })) {
		t.Fatal("ReturnsError(func() (int, error)) = false")
	}
	if uref.ReturnsError(reflect.TypeOf(func() int { return 0 })) {
		t.Fatal("ReturnsError(func() int) = true")
	}
}
