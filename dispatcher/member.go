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

package dispatcher

import (
	"dirpx.dev/dispatch/apis"
	"dirpx.dev/dispatch/signature"
)

// Method is a method of a Dispatcher resolved once to its index.
type Method struct {
	d     *Dispatcher
	index int
}

// Index returns the method index.
func (m *Method) Index() int { return m.index }

// Signature returns the method signature.
func (m *Method) Signature() apis.Signature { return m.d.methods.entries[m.index].Signature }

// Dispatcher returns the owning dispatcher.
func (m *Method) Dispatcher() *Dispatcher { return m.d }

// Invoke calls the method on instance.
func (m *Method) Invoke(instance any, args ...any) (any, error) {
	return m.d.Invoke(m.index, instance, args...)
}

// String returns the canonical signature.
func (m *Method) String() string { return signature.Of(m.Signature()) }

// Constructor is a constructor of a Dispatcher resolved once to its index.
type Constructor struct {
	d     *Dispatcher
	index int
}

// Index returns the constructor index.
func (c *Constructor) Index() int { return c.index }

// Signature returns the constructor signature.
func (c *Constructor) Signature() apis.Signature { return c.d.ctors.entries[c.index].Signature }

// Dispatcher returns the owning dispatcher.
func (c *Constructor) Dispatcher() *Dispatcher { return c.d }

// New calls the constructor.
func (c *Constructor) New(args ...any) (any, error) {
	return c.d.NewInstance(c.index, args...)
}

// String returns the canonical signature.
func (c *Constructor) String() string { return signature.Of(c.Signature()) }
