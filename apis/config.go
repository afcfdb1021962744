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

// Config carries read-only knobs that influence how dispatchers are built
// and retained. It is passed by value and should be treated as immutable.
type Config struct {
	// Backend selects which invocation backends the builder may use.
	Backend Backend

	// Retention controls whether the cache pins built dispatchers.
	Retention Retention

	// PointerMethods controls whether a named non-pointer type T exposes the
	// method set of *T (pointer receivers included). If false, only the
	// value-receiver method set of T is enumerated.
	PointerMethods bool

	// ZeroConstructor appends a synthesized zero-argument constructor
	// returning *T after the constructors registered in the domain.
	ZeroConstructor bool
}
