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

import "reflect"

// ShallowCopyMode controls how Record values are shallow-copied.
type ShallowCopyMode int

const (
	// ShallowCopyClassOnly replicates descriptors strictly only for
	// registered struct-pointer records; map[string]any records always use
	// the simple field-by-field copy. This is the default.
	ShallowCopyClassOnly ShallowCopyMode = iota
	// ShallowCopyAlways applies the strict copy to every Record, map or
	// struct alike.
	ShallowCopyAlways
	// ShallowCopyNever always uses the simple copy.
	ShallowCopyNever
)

// Classify reports which Kind v belongs to.
func Classify(v any) Kind {
	if v == nil {
		return KindOpaque
	}
	switch v.(type) {
	case map[string]any:
		return KindRecord
	case []any:
		return KindSequence
	case keyedMapValue:
		return KindKeyedMap
	case uniqueSetValue:
		return KindUniqueSet
	}
	if IsMarkedDraftable(v) {
		return KindRecord
	}
	return KindOpaque
}

// IsDraftable reports whether v can be wrapped in a draft: it belongs to
// one of the four container kinds, or is a registered class instance.
func IsDraftable(v any) bool {
	return Classify(v) != KindOpaque
}

// shallowCopyRecord produces a same-kind mutable copy of a Record value,
// strict selects the strict copy discipline for struct-pointer
// records (see recordBacking.shallowCopy for what "strict" reduces to in
// Go, which has no property descriptors or accessors to collapse).
func shallowCopyRecord(v any, strict bool) any {
	switch b := v.(type) {
	case map[string]any:
		cp := make(map[string]any, len(b))
		for k, val := range b {
			cp[k] = val
		}
		return cp
	default:
		return newRecordBacking(v).shallowCopy(strict).raw()
	}
}

// shallowCopySequence duplicates a []any one level deep, preserving length.
func shallowCopySequence(v []any) []any {
	cp := make([]any, len(v))
	copy(cp, v)
	return cp
}

// strictModeFor resolves the effective strict-copy decision for a Record
// value given the engine's configured ShallowCopyMode.
func strictModeFor(mode ShallowCopyMode, v any) bool {
	switch mode {
	case ShallowCopyAlways:
		return true
	case ShallowCopyNever:
		return false
	default: // ShallowCopyClassOnly
		_, isMap := v.(map[string]any)
		return !isMap
	}
}

// isStructPtr reports whether t is a pointer to a struct, the only shape
// MarkDraftable accepts.
func isStructPtr(t reflect.Type) bool {
	return t != nil && t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.Struct
}
