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

package backend_test

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"dirpx.dev/dispatch/apis"
	"dirpx.dev/dispatch/backend"
	"dirpx.dev/dispatch/signature"
)

var errNegative = errors.New("negative")

type Counter struct{ N int }

func (c Counter) Get() int { return c.N }

func (c *Counter) Add(d int) int { c.N += d; return c.N }

func (c *Counter) Check(d int) (int, error) {
	if d < 0 {
		return 0, errNegative
	}
	return d, nil
}

func (c *Counter) Boom() { panic("boom") }

func (c *Counter) Sum(xs ...int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}

func (c *Counter) Pair(s string) (string, int) { return s, len(s) }

func (c *Counter) Label(p *Counter) string {
	if p == nil {
		return "nil"
	}
	return fmt.Sprint(p.N)
}

type Getter interface {
	Get() int
}

// member builds an apis.Member for the named method of *Counter.
func member(t *testing.T, name string) apis.Member {
	t.Helper()
	recv := reflect.TypeOf(&Counter{})
	m, ok := recv.MethodByName(name)
	if !ok {
		t.Fatalf("no method %s", name)
	}
	return apis.Member{
		Signature: signature.FromFunc(apis.MethodKind, name, m.Type, 1),
		Owner:     reflect.TypeOf(Counter{}),
		Receiver:  recv,
		Method:    m,
	}
}

func compile(t *testing.T, c apis.Compiler, m apis.Member, cfg apis.Config) apis.Invoker {
	t.Helper()
	inv, ok := c.Compile(m, cfg)
	if !ok {
		t.Fatalf("compiler declined %s", m.Signature.Name)
	}
	return inv
}

func TestDirect_Calls(t *testing.T) {
	d := backend.NewDirect()
	cfg := apis.Config{Backend: apis.Auto}

	c := &Counter{N: 1}
	add := compile(t, d, member(t, "Add"), cfg)
	got, err := add.Call(c, []any{2})
	if err != nil || got != 3 || c.N != 3 {
		t.Fatalf("Add = (%v, %v), N = %d; want (3, nil), N = 3", got, err, c.N)
	}

	get := compile(t, d, member(t, "Get"), cfg)
	if got, err := get.Call(Counter{N: 7}, nil); err != nil || got != 7 {
		t.Fatalf("Get(value) = (%v, %v), want 7", got, err)
	}
	if got, err := get.Call(c, nil); err != nil || got != 3 {
		t.Fatalf("Get(pointer) = (%v, %v), want 3", got, err)
	}

	sum := compile(t, d, member(t, "Sum"), cfg)
	if got, err := sum.Call(c, []any{[]int{1, 2, 3}}); err != nil || got != 6 {
		t.Fatalf("Sum = (%v, %v), want 6", got, err)
	}

	pair := compile(t, d, member(t, "Pair"), cfg)
	got, err = pair.Call(c, []any{"abc"})
	if err != nil || !reflect.DeepEqual(got, []any{"abc", 3}) {
		t.Fatalf("Pair = (%v, %v), want [abc 3]", got, err)
	}

	label := compile(t, d, member(t, "Label"), cfg)
	if got, err := label.Call(c, []any{nil}); err != nil || got != "nil" {
		t.Fatalf("Label(nil) = (%v, %v), want nil", got, err)
	}
}

func TestDirect_Failures(t *testing.T) {
	d := backend.NewDirect()
	cfg := apis.Config{}
	c := &Counter{}

	check := compile(t, d, member(t, "Check"), cfg)
	if got, err := check.Call(c, []any{4}); err != nil || got != 4 {
		t.Fatalf("Check(4) = (%v, %v)", got, err)
	}
	_, err := check.Call(c, []any{-1})
	var ie *apis.InvocationError
	if !errors.As(err, &ie) || !errors.Is(err, errNegative) || ie.Panicked {
		t.Fatalf("Check(-1) error = %v, want InvocationError wrapping errNegative", err)
	}

	boom := compile(t, d, member(t, "Boom"), cfg)
	_, err = boom.Call(c, nil)
	if !errors.As(err, &ie) || !ie.Panicked || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("Boom error = %v, want panicked InvocationError", err)
	}

	add := compile(t, d, member(t, "Add"), cfg)
	argCases := []struct {
		name     string
		instance any
		args     []any
	}{
		{"too few", c, nil},
		{"too many", c, []any{1, 2}},
		{"wrong type", c, []any{"x"}},
		{"nil for int", c, []any{nil}},
		{"nil instance", nil, []any{1}},
		{"foreign instance", "str", []any{1}},
		{"nil pointer for value", (*Counter)(nil), []any{1}},
	}
	for _, tc := range argCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.name == "nil pointer for value" {
				// Add takes *Counter, so a typed nil pointer is a valid receiver
				// and the call panics inside the target.
				_, err := add.Call(tc.instance, tc.args)
				if !errors.As(err, &ie) || !ie.Panicked {
					t.Fatalf("error = %v, want panicked InvocationError", err)
				}
				return
			}
			if _, err := add.Call(tc.instance, tc.args); !errors.Is(err, apis.ErrArgument) {
				t.Fatalf("error = %v, want ErrArgument", err)
			}
		})
	}

	get := compile(t, d, member(t, "Get"), cfg)
	if _, err := get.Call(c, []any{1}); !errors.Is(err, apis.ErrArgument) {
		t.Fatalf("Get(extra arg) error = %v, want ErrArgument", err)
	}
}

func TestDirect_Constructor(t *testing.T) {
	fn := reflect.ValueOf(func(n int) (*Counter, error) {
		if n < 0 {
			return nil, errNegative
		}
		return &Counter{N: n}, nil
	})
	m := apis.Member{
		Signature: signature.FromFunc(apis.ConstructorKind, apis.ConstructorName, fn.Type(), 0),
		Owner:     reflect.TypeOf(Counter{}),
		Func:      fn,
	}

	inv := compile(t, backend.NewDirect(), m, apis.Config{Backend: apis.Late})
	got, err := inv.Call(nil, []any{5})
	if err != nil || got.(*Counter).N != 5 {
		t.Fatalf("New(5) = (%v, %v)", got, err)
	}
	if _, err := inv.Call(nil, []any{-5}); !errors.Is(err, errNegative) {
		t.Fatalf("New(-5) error = %v, want errNegative", err)
	}
}

func TestDirect_DeclinesUnderLateAndForInterfaces(t *testing.T) {
	d := backend.NewDirect()
	if _, ok := d.Compile(member(t, "Add"), apis.Config{Backend: apis.Late}); ok {
		t.Fatal("direct compiled a method under the Late backend")
	}

	it := reflect.TypeFor[Getter]()
	im, _ := it.MethodByName("Get")
	m := apis.Member{
		Signature: signature.Method("Get"),
		Owner:     it,
		Receiver:  it,
		Method:    im,
	}
	if _, ok := d.Compile(m, apis.Config{}); ok {
		t.Fatal("direct compiled an interface member")
	}
}

func TestLate_Calls(t *testing.T) {
	l := backend.NewLate()

	it := reflect.TypeFor[Getter]()
	im, _ := it.MethodByName("Get")
	m := apis.Member{Signature: signature.Method("Get"), Owner: it, Receiver: it, Method: im}
	get := compile(t, l, m, apis.Config{})

	if got, err := get.Call(Counter{N: 4}, nil); err != nil || got != 4 {
		t.Fatalf("Getter.Get = (%v, %v), want 4", got, err)
	}
	if _, err := get.Call(42, nil); !errors.Is(err, apis.ErrArgument) {
		t.Fatalf("Getter.Get(int) error = %v, want ErrArgument", err)
	}

	add := compile(t, l, member(t, "Add"), apis.Config{Backend: apis.Late})
	c := &Counter{N: 1}
	if got, err := add.Call(c, []any{1}); err != nil || got != 2 || c.N != 2 {
		t.Fatalf("late Add = (%v, %v), N = %d", got, err, c.N)
	}

	sum := compile(t, l, member(t, "Sum"), apis.Config{})
	if got, err := sum.Call(Counter{}, []any{[]int{2, 2}}); err != nil || got != 4 {
		t.Fatalf("late Sum(value instance) = (%v, %v), want 4", got, err)
	}

	boom := compile(t, l, member(t, "Boom"), apis.Config{})
	var ie *apis.InvocationError
	if _, err := boom.Call(c, nil); !errors.As(err, &ie) || !ie.Panicked {
		t.Fatalf("late Boom error = %v, want panicked InvocationError", err)
	}

	ctor := apis.Member{Signature: signature.Constructor(), Func: reflect.ValueOf(func() *Counter { return nil })}
	if _, ok := l.Compile(ctor, apis.Config{}); ok {
		t.Fatal("late compiled a constructor")
	}
	if _, ok := l.Compile(m, apis.Config{Backend: apis.Direct}); ok {
		t.Fatal("late compiled a member under the Direct backend")
	}
}

type countingCompiler struct {
	calls int
	take  bool
}

func (c *countingCompiler) Compile(apis.Member, apis.Config) (apis.Invoker, bool) {
	c.calls++
	if !c.take {
		return nil, false
	}
	return apis.InvokerFunc(func(any, []any) (any, error) { return "taken", nil }), true
}

func TestChain_Order(t *testing.T) {
	first := &countingCompiler{}
	second := &countingCompiler{take: true}
	third := &countingCompiler{take: true}

	ch := backend.Chain(first, nil, second, third)
	inv, ok := ch.Compile(apis.Member{}, apis.Config{})
	if !ok {
		t.Fatal("chain declined")
	}
	if got, _ := inv.Call(nil, nil); got != "taken" {
		t.Fatalf("Call = %v", got)
	}
	if first.calls != 1 || second.calls != 1 || third.calls != 0 {
		t.Fatalf("calls = %d/%d/%d, want 1/1/0", first.calls, second.calls, third.calls)
	}

	if _, ok := backend.Chain().Compile(apis.Member{}, apis.Config{}); ok {
		t.Fatal("empty chain handled a member")
	}
}
