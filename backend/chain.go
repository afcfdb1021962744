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
	"dirpx.dev/dispatch/apis"
)

// Chain constructs an apis.Compiler that tries the given compilers in order.
// Nil compilers are ignored. The returned compiler is safe for concurrent use
// provided the compilers themselves are.
func Chain(compilers ...apis.Compiler) apis.Compiler {
	// Filter out nils to avoid nil-interface panics on call sites.
	out := make([]apis.Compiler, 0, len(compilers))
	for _, c := range compilers {
		if c != nil {
			out = append(out, c)
		}
	}
	return chain{compilers: out}
}

// chain is an immutable, order-preserving compiler over a set of compilers.
type chain struct {
	compilers []apis.Compiler
}

// Compile runs compilers in order until one handles the member.
func (c chain) Compile(m apis.Member, cfg apis.Config) (apis.Invoker, bool) {
	for _, comp := range c.compilers {
		if inv, ok := comp.Compile(m, cfg); ok {
			return inv, true
		}
	}
	return nil, false
}
