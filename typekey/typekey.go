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

package typekey

import (
	"path"
	"reflect"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/zeebo/xxh3"

	"dirpx.dev/dispatch/apis"
	uref "dirpx.dev/dispatch/utils/reflect"
)

// Derive returns the cache key for t as seen from domain d.
// t is normalized first, so T and *T derive the same key. A type that
// cannot be normalized keeps its raw identity; the builder rejects it later.
func Derive(t reflect.Type, d apis.Domain) apis.Key {
	var id uuid.UUID
	if d != nil {
		id = d.ID()
	}
	if nt, err := uref.Normalize(t); err == nil {
		t = nt
	}
	return apis.Key{Type: t, Domain: id}
}

// Fingerprint returns a 64-bit xxh3 hash of the key. Equal keys always hash
// equal; distinct keys may collide, so callers grouping by fingerprint must
// compare the full key.
func Fingerprint(k apis.Key) uint64 {
	return xxh3.HashString(k.ID())
}

// nameCache memoizes Name by type.
var nameCache sync.Map // key: reflect.Type, val: string

// Name returns a short "pkg.Type" label for t with generic instantiation
// parameters stripped. Builtins render as their bare name, unnamed types
// as t.String().
func Name(t reflect.Type) string {
	if t == nil {
		return ""
	}
	if v, ok := nameCache.Load(t); ok {
		return v.(string)
	}

	base := t
	if nt, err := uref.Normalize(t); err == nil {
		base = nt
	}

	name := stripTypeParams(base.Name())
	switch {
	case name == "":
		name = base.String()
	case base.PkgPath() != "":
		name = path.Base(base.PkgPath()) + "." + name
	}

	nameCache.Store(t, name)
	return name
}

// stripTypeParams removes generic type instantiation suffix: "T[int,string]" -> "T".
func stripTypeParams(s string) string {
	if i := strings.IndexByte(s, '['); i >= 0 {
		return s[:i]
	}
	return s
}
