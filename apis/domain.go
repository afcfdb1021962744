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
	"reflect"

	"github.com/google/uuid"
)

// Domain is an isolation domain: the owner of a set of types and of the
// constructors registered for them. Dispatchers are never shared across
// domains, even for the same Go type.
type Domain interface {
	// ID returns the domain identity. It never changes.
	ID() uuid.UUID
	// Name returns a human-readable label; names need not be unique.
	Name() string
	// Constructors returns the constructor funcs registered for t,
	// in registration order.
	Constructors(t reflect.Type) []reflect.Value
	// Check reports whether dispatchers for t may be built in this domain.
	Check(t reflect.Type) error
}
