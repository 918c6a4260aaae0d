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

// Kind identifies which of the four container shapes (plus the opaque
// catch-all) a value belongs to. Every value participating in the engine
// belongs to exactly one Kind.
type Kind int

const (
	// KindOpaque covers anything the engine passes through untouched:
	// primitives, funcs, unregistered struct values, nil.
	KindOpaque Kind = iota
	// KindRecord is a string-keyed object: map[string]any, or a pointer to
	// a struct type registered with MarkDraftable.
	KindRecord
	// KindSequence is a dense ordered list: []any.
	KindSequence
	// KindKeyedMap is an insertion-ordered map with arbitrary keys: *Dict.
	KindKeyedMap
	// KindUniqueSet is an insertion-ordered unique collection: *Set.
	KindUniqueSet
)

func (k Kind) String() string {
	switch k {
	case KindRecord:
		return "record"
	case KindSequence:
		return "sequence"
	case KindKeyedMap:
		return "keyed-map"
	case KindUniqueSet:
		return "unique-set"
	default:
		return "opaque"
	}
}

// keyedMapValue is implemented by *Dict so Classify can recognize the kind
// with a type switch rather than a concrete-type comparison.
type keyedMapValue interface {
	draftKeyedMap()
}

// uniqueSetValue is implemented by *Set, for the same reason as
// keyedMapValue.
type uniqueSetValue interface {
	draftUniqueSet()
}
