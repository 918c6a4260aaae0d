// Copyright (c) 2017 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package draft

import (
	"reflect"
	"sync"
)

// nothingType is the concrete type behind Nothing. A recipe returns Nothing
// from the root to signal "delete the root"; Run translates it to the zero
// value of the result type.
type nothingType struct{}

// Nothing is the distinguished sentinel a recipe returns to mean "the
// result is the zero value", i.e. root deletion. There is exactly one
// instance of it per process; it is comparable with ==.
var Nothing = nothingType{}

// IsNothing reports whether v is the Nothing sentinel.
func IsNothing(v any) bool {
	_, ok := v.(nothingType)
	return ok
}

// draftableRegistry is the process-wide table of struct types opted into
// drafting via MarkDraftable, shared by every Engine in the process. A
// runtime like JavaScript, where multiple copies of a library can be loaded
// into one process, needs Symbol.for-style interning to keep such a
// registry coherent across copies; Go has one realm per process and no
// equivalent of multiple loaded copies of a package, so a plain
// package-level map already gives every Engine the same view.
var draftableRegistry = struct {
	mu    sync.RWMutex
	types map[reflect.Type]bool
}{types: make(map[reflect.Type]bool)}

// MarkDraftable registers the type of sample (which must be a pointer to a
// struct) as draftable. Any value of that type is subsequently treated as a
// Record: Classify reports KindRecord for it and the engine reads/writes
// its exported fields through reflect instead of passing it through as
// Opaque.
func MarkDraftable(sample any) {
	t := reflect.TypeOf(sample)
	if t == nil || t.Kind() != reflect.Ptr || t.Elem().Kind() != reflect.Struct {
		panic("draft: MarkDraftable requires a pointer to a struct")
	}
	draftableRegistry.mu.Lock()
	draftableRegistry.types[t] = true
	draftableRegistry.mu.Unlock()
}

// IsMarkedDraftable reports whether v's type was registered with MarkDraftable.
func IsMarkedDraftable(v any) bool {
	if v == nil {
		return false
	}
	t := reflect.TypeOf(v)
	draftableRegistry.mu.RLock()
	defer draftableRegistry.mu.RUnlock()
	return draftableRegistry.types[t]
}
