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
	"github.com/google/uuid"
	"go.uber.org/atomic"
)

// Draft is implemented by every view type the engine hands to a recipe:
// *RecordDraft, *SequenceDraft, *MapDraft, *SetDraft. It carries only the
// bookkeeping every kind needs; kind-specific operations live on the
// concrete types.
type Draft interface {
	// Kind reports which container shape this draft wraps.
	Kind() Kind

	// state returns the draft's bookkeeping record. Unexported so that
	// only this package can implement Draft.
	state() *draftState
}

// draftState is the per-draft bookkeeping record. One is
// allocated per live draft, lazily, the first time a draftable child value
// is read through its parent.
type draftState struct {
	kind Kind

	// base is the original value this draft was created over. The engine
	// never mutates it.
	base any

	// copy is the lazily allocated mutable shallow copy. Its concrete type
	// matches kind: map[string]any or a struct pointer for Record, []any
	// for Sequence, *Dict for KeyedMap, *Set for UniqueSet. Nil until the
	// first write (or the first read of a draftable child, which caches
	// its child draft here without setting modified).
	copy any

	modified  atomic.Bool
	finalized atomic.Bool
	revoked   atomic.Bool
	isManual  bool

	// assigned records, for Record/KeyedMap drafts, which keys were
	// explicitly written (true) or deleted (false) in this draft, and for
	// Sequence drafts which indices were written. Keys never touched are
	// absent from the map.
	assigned map[any]bool

	// childDrafts caches the draft previously issued for a given key/index
	// so that repeated reads return the same instance instead of drafting
	// twice. For UniqueSet this doubles as the element-identity map,
	// keyed by the original element.
	childDrafts map[any]Draft

	// parent is the draft whose copy this draft is reachable through, or
	// nil for a root draft.
	parent *draftState
	// parentKey is the key/index under parent at which this draft was
	// first read; path() builds on it. Meaningless when parent is nil.
	parentKey any

	scope *scope
	id    uuid.UUID
}

func newDraftState(kind Kind, base any, parent *draftState, parentKey any, sc *scope) *draftState {
	return &draftState{
		kind:      kind,
		base:      base,
		parent:    parent,
		parentKey: parentKey,
		scope:     sc,
		id:        uuid.New(),
	}
}

// effective returns the value reads should resolve against: the copy if
// one has been allocated, otherwise the base.
func (st *draftState) effective() any {
	if st.copy != nil {
		return st.copy
	}
	return st.base
}

// markModified allocates nothing by itself; it flips modified on this
// state and propagates the flag up to every ancestor, per the invariant
// that a modified draft implies every ancestor is modified, eagerly, on
// first write.
func (st *draftState) markModified() {
	for s := st; s != nil; s = s.parent {
		if s.modified.Load() {
			return
		}
		s.modified.Store(true)
	}
}

func (st *draftState) markAssigned(key any, present bool) {
	if st.assigned == nil {
		st.assigned = make(map[any]bool)
	}
	st.assigned[key] = present
}

func (st *draftState) recordChildDraft(key any, d Draft) {
	if st.childDrafts == nil {
		st.childDrafts = make(map[any]Draft)
	}
	st.childDrafts[key] = d
}

// path reconstructs the full key path from the root draft down to st
// (empty for a root draft). Finalization builds its patch paths with
// appendPath instead.
func (st *draftState) path() []any {
	var segs []any
	for s := st; s != nil && s.parent != nil; s = s.parent {
		segs = append([]any{s.parentKey}, segs...)
	}
	return segs
}
