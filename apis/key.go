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
	"strconv"

	"github.com/google/uuid"
)

// Key identifies a cached dispatcher: one type as seen from one isolation domain.
// Key is comparable and can be used directly as a map key.
type Key struct {
	// Type is the normalized dispatch type.
	Type reflect.Type
	// Domain is the identity of the owning isolation domain.
	Domain uuid.UUID
}

// ID renders the key as "<domain>#<type address>". Distinct keys always
// render distinct IDs because runtime type descriptors never move.
func (k Key) ID() string {
	if k.Type == nil {
		return k.Domain.String() + "#nil"
	}
	addr := uintptr(reflect.ValueOf(k.Type).UnsafePointer())
	return k.Domain.String() + "#" + strconv.FormatUint(uint64(addr), 16)
}

// String returns a readable form for logs: "<domain>/<type>".
func (k Key) String() string {
	if k.Type == nil {
		return k.Domain.String() + "/<nil>"
	}
	return k.Domain.String() + "/" + k.Type.String()
}
