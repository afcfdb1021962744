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

package apis_test

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"dirpx.dev/dispatch/apis"
)

// TestBackendString verifies the stable tokens for known Backend values and
// the diagnostic form for unknown values.
func TestBackendString(t *testing.T) {
	tests := []struct {
		name    string
		backend apis.Backend
		want    string
	}{
		{"Auto", apis.Auto, "Auto"},
		{"Direct", apis.Direct, "Direct"},
		{"Late", apis.Late, "Late"},
		{"Unknown", apis.Backend(42), "Unknown(42)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.backend.String(); got != tt.want {
				t.Fatalf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseBackend(t *testing.T) {
	valid := []struct {
		input string
		want  apis.Backend
	}{
		{"Auto", apis.Auto},
		{"auto", apis.Auto},
		{"  DIRECT ", apis.Direct},
		{"late", apis.Late},
	}
	for _, tt := range valid {
		got, err := apis.ParseBackend(tt.input)
		if err != nil {
			t.Fatalf("ParseBackend(%q) error = %v, want nil", tt.input, err)
		}
		if got != tt.want {
			t.Fatalf("ParseBackend(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}

	for _, input := range []string{"", "   ", "jit", "Direct1"} {
		if _, err := apis.ParseBackend(input); err == nil {
			t.Fatalf("ParseBackend(%q) error = nil, want non-nil", input)
		}
	}
}

func TestMustParseBackendPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("MustParseBackend(invalid) did not panic")
		}
	}()
	_ = apis.MustParseBackend("invalid")
}

func TestBackendTextRoundTrip(t *testing.T) {
	for _, b := range []apis.Backend{apis.Auto, apis.Direct, apis.Late} {
		text, err := b.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v) error = %v", b, err)
		}
		var got apis.Backend
		if err := got.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q) error = %v", text, err)
		}
		if got != b {
			t.Fatalf("round trip = %v, want %v", got, b)
		}
	}

	if _, err := apis.Backend(9).MarshalText(); err == nil {
		t.Fatal("MarshalText(unknown) error = nil, want non-nil")
	}

	b := apis.Late
	if err := b.UnmarshalText([]byte("bogus")); err == nil {
		t.Fatal("UnmarshalText(bogus) error = nil, want non-nil")
	}
	if b != apis.Late {
		t.Fatalf("UnmarshalText modified target on failure: %v", b)
	}
}

func TestRetentionParseAndText(t *testing.T) {
	r, err := apis.ParseRetention(" strong ")
	if err != nil || r != apis.Strong {
		t.Fatalf("ParseRetention(strong) = (%v, %v), want (Strong, nil)", r, err)
	}
	if _, err := apis.ParseRetention("forever"); err == nil {
		t.Fatal("ParseRetention(forever) error = nil, want non-nil")
	}
	if got := apis.Retention(7).String(); got != "Unknown(7)" {
		t.Fatalf("String() = %q, want Unknown(7)", got)
	}
	if _, err := apis.Retention(7).MarshalText(); err == nil {
		t.Fatal("MarshalText(unknown) error = nil, want non-nil")
	}
	var got apis.Retention
	if err := got.UnmarshalText([]byte("Weak")); err != nil || got != apis.Weak {
		t.Fatalf("UnmarshalText(Weak) = (%v, %v)", got, err)
	}

	if apis.MustParseRetention("WEAK") != apis.Weak {
		t.Fatal("MustParseRetention(WEAK) != Weak")
	}
	defer func() {
		if recover() == nil {
			t.Fatal("MustParseRetention(forever) did not panic")
		}
	}()
	apis.MustParseRetention("forever")
}

type keyType struct{}

func TestKeyID(t *testing.T) {
	d1, d2 := uuid.New(), uuid.New()
	a := reflect.TypeOf(keyType{})
	b := reflect.TypeOf(0)

	if (apis.Key{Type: a, Domain: d1}).ID() != (apis.Key{Type: a, Domain: d1}).ID() {
		t.Fatal("ID not stable for equal keys")
	}
	ids := map[string]bool{
		(apis.Key{Type: a, Domain: d1}).ID(): true,
		(apis.Key{Type: a, Domain: d2}).ID(): true,
		(apis.Key{Type: b, Domain: d1}).ID(): true,
		(apis.Key{Type: nil, Domain: d1}).ID(): true,
	}
	if len(ids) != 4 {
		t.Fatalf("distinct keys rendered %d distinct IDs, want 4", len(ids))
	}
}

func TestErrorsUnwrap(t *testing.T) {
	cause := errors.New("boom")

	be := &apis.BuildError{Type: reflect.TypeOf(keyType{}), Domain: "d", Err: cause}
	if !errors.Is(be, cause) {
		t.Fatal("BuildError does not unwrap to its cause")
	}

	ie := &apis.InvocationError{Signature: apis.Signature{Name: "Run"}, Err: cause}
	wrapped := fmt.Errorf("outer: %w", ie)
	var target *apis.InvocationError
	if !errors.As(wrapped, &target) || !errors.Is(wrapped, cause) {
		t.Fatal("InvocationError not reachable through wrapping")
	}

	xe := &apis.IndexError{Type: reflect.TypeOf(keyType{}), Index: 3, Max: 1}
	if xe.Error() == "" {
		t.Fatal("IndexError has empty message")
	}
}
