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
	"fmt"
	"strings"
)

// Retention controls how the dispatcher cache holds on to built dispatchers.
//
// # Overview
//
// A dispatcher is expensive to build and cheap to keep, but a cache that
// keeps every dispatcher forever grows with every type ever looked up.
// Retention selects whether the cache may let go of dispatchers nobody uses.
//
// # Values
//
//   - Weak: entries live only as long as callers reference the dispatcher.
//   - Strong: entries live until the cache is purged.
//
// # Contract
//
//   - Retention never changes what a lookup returns while an entry is live:
//     one dispatcher per key, at most one build per key at a time.
//   - Eviction is invisible to callers apart from a later rebuild.
//   - Retention values are plain integers and safe to share across goroutines.
type Retention int

const (
	// Weak keeps an entry only while some caller still references the
	// dispatcher.
	//
	// # Semantics
	//
	// The cache holds a weak pointer. Once the last strong reference is
	// dropped the garbage collector may reclaim the dispatcher; a cleanup
	// then removes its entry. The next lookup rebuilds. The cache alone
	// never keeps a dispatcher alive.
	Weak Retention = iota

	// Strong pins every built dispatcher until the cache is purged.
	//
	// # Semantics
	//
	// In addition to the weak entry the cache holds a strong reference, so
	// the garbage collector never reclaims a cached dispatcher. Purge drops
	// the pins; handed-out dispatchers stay usable.
	//
	// Recommended usage:
	//
	//   - Processes that dispatch over a small, fixed set of types and want
	//     to avoid rebuilds after idle periods.
	Strong
)

// String returns "Weak", "Strong" or "Unknown(<n>)".
func (r Retention) String() string {
	switch r {
	case Weak:
		return "Weak"
	case Strong:
		return "Strong"
	default:
		return fmt.Sprintf("Unknown(%d)", int(r))
	}
}

// ParseRetention parses a textual Retention (case-insensitive).
func ParseRetention(s string) (Retention, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Weak, fmt.Errorf("dispatch: empty retention")
	}

	switch strings.ToUpper(trimmed) {
	case "WEAK":
		return Weak, nil
	case "STRONG":
		return Strong, nil
	default:
		return Weak, fmt.Errorf("dispatch: unknown retention %q", s)
	}
}

// MustParseRetention is like ParseRetention but panics on invalid input.
func MustParseRetention(s string) Retention {
	r, err := ParseRetention(s)
	if err != nil {
		panic(err)
	}
	return r
}

// MarshalText implements encoding.TextMarshaler.
func (r Retention) MarshalText() ([]byte, error) {
	switch r {
	case Weak, Strong:
		return []byte(r.String()), nil
	default:
		return nil, fmt.Errorf("dispatch: cannot marshal unknown retention %d", int(r))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Retention) UnmarshalText(text []byte) error {
	value, err := ParseRetention(string(text))
	if err != nil {
		return err
	}
	*r = value
	return nil
}
