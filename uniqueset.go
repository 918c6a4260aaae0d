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

// Set is the UniqueSet container kind: an insertion-ordered collection of
// distinct comparable elements.
type Set struct {
	order   []any
	present map[any]struct{}
	frozen  bool
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{present: make(map[any]struct{})}
}

func (s *Set) draftUniqueSet() {}

// Size reports the number of elements.
func (s *Set) Size() int { return len(s.order) }

// Has reports whether v is a member.
func (s *Set) Has(v any) bool {
	_, ok := s.present[v]
	return ok
}

// Add inserts v, reporting whether it was new.
func (s *Set) Add(v any) bool {
	if s.frozen {
		panic(&FrozenMutationError{Op: "add"})
	}
	if _, ok := s.present[v]; ok {
		return false
	}
	s.present[v] = struct{}{}
	s.order = append(s.order, v)
	return true
}

// Delete removes v, reporting whether it was present.
func (s *Set) Delete(v any) bool {
	if s.frozen {
		panic(&FrozenMutationError{Op: "delete"})
	}
	if _, ok := s.present[v]; !ok {
		return false
	}
	delete(s.present, v)
	for i, x := range s.order {
		if x == v {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Values returns the elements in insertion order.
func (s *Set) Values() []any {
	cp := make([]any, len(s.order))
	copy(cp, s.order)
	return cp
}

func (s *Set) clone() *Set {
	cp := &Set{
		order:   make([]any, len(s.order)),
		present: make(map[any]struct{}, len(s.present)),
	}
	copy(cp.order, s.order)
	for k := range s.present {
		cp.present[k] = struct{}{}
	}
	return cp
}

// SetDraft is the view a recipe operates on for a UniqueSet-kind draft.
// Elements are compared by reference-or-value equality (Go map-key
// equality); when an element is itself draftable, SetDraft keeps a
// drafts-by-original-element map (reusing draftState.childDrafts, keyed by
// the original element rather than an index or string key) to recognize
// "the same logical element" across base and draft.
type SetDraft struct {
	st *draftState
}

func (d *SetDraft) Kind() Kind         { return KindUniqueSet }
func (d *SetDraft) state() *draftState { return d.st }

func (d *SetDraft) checkLive() {
	if d.st.revoked.Load() {
		panicDraft(&ProxyRevokedError{DraftID: d.st.id.String()})
	}
}

func (d *SetDraft) effectiveSet() *Set {
	return d.st.effective().(*Set)
}

// Size reports the current element count.
func (d *SetDraft) Size() int {
	d.checkLive()
	return d.effectiveSet().Size()
}

// Has reports whether v is a member, checking both v itself and any draft
// previously issued for it.
func (d *SetDraft) Has(v any) bool {
	d.checkLive()
	eff := d.effectiveSet()
	if eff.Has(v) {
		return true
	}
	if child, ok := d.st.childDrafts[v]; ok {
		return eff.Has(child)
	}
	return false
}

// Add inserts v, a no-op if Has(v) already.
func (d *SetDraft) Add(v any) bool {
	d.checkLive()
	if d.Has(v) {
		return false
	}
	st := d.st
	st.ensureSetCopy()
	st.markModified()
	st.copy.(*Set).Add(v)
	return true
}

// Delete removes whichever of {v, drafts[v]} is present, reporting whether
// anything was removed.
func (d *SetDraft) Delete(v any) bool {
	d.checkLive()
	if !d.Has(v) {
		return false
	}
	st := d.st
	st.ensureSetCopy()
	st.markModified()
	cp := st.copy.(*Set)
	removed := cp.Delete(v)
	if !removed {
		if child, ok := st.childDrafts[v]; ok {
			cp.Delete(child)
		}
	}
	delete(st.childDrafts, v)
	return true
}

// Clear empties the set.
func (d *SetDraft) Clear() {
	d.checkLive()
	st := d.st
	if d.effectiveSet().Size() == 0 {
		return
	}
	st.ensureSetCopy()
	st.markModified()
	st.copy = NewSet()
	st.childDrafts = nil
}

// Values returns every element, routing draftable elements still equal to
// their base through a lazy per-element draft the first time they are
// seen, the Set analogue of Record/Sequence/KeyedMap's Get-based routing.
func (d *SetDraft) Values() []any {
	d.checkLive()
	st := d.st
	eff := d.effectiveSet()
	base, _ := st.base.(*Set)

	out := make([]any, 0, eff.Size())
	for _, v := range eff.order {
		out = append(out, d.draftElement(v, base))
	}
	return out
}

func (d *SetDraft) draftElement(v any, base *Set) any {
	st := d.st
	if cached, ok := st.childDrafts[v]; ok {
		return cached
	}
	if !IsDraftable(v) || st.finalized.Load() {
		return v
	}
	if base == nil || !base.Has(v) {
		return v
	}

	st.ensureSetCopy()
	child := createChildDraft(v, st, v)
	cp := st.copy.(*Set)
	cp.Delete(v)
	cp.Add(child)
	st.recordChildDraft(v, child)
	return child
}

func (st *draftState) ensureSetCopy() {
	if st.copy == nil {
		st.copy = st.base.(*Set).clone()
	}
}
