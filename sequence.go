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

// SequenceDraft is the view a recipe operates on for a Sequence-kind draft
// (a []any). Unlike Record, Sequence only accepts integer indices plus the
// pseudo-key "length" (via SetLen), unlike Record's arbitrary string keys —
// there is no analogue of an arbitrary string key.
type SequenceDraft struct {
	st *draftState
}

func (d *SequenceDraft) Kind() Kind         { return KindSequence }
func (d *SequenceDraft) state() *draftState { return d.st }

func (d *SequenceDraft) checkLive() {
	if d.st.revoked.Load() {
		panicDraft(&ProxyRevokedError{DraftID: d.st.id.String()})
	}
}

func (d *SequenceDraft) effectiveSlice() []any {
	return d.st.effective().([]any)
}

// Len reports the sequence's current length.
func (d *SequenceDraft) Len() int {
	d.checkLive()
	return len(d.effectiveSlice())
}

// Get returns the element at i, lazily drafting it the same way
// RecordDraft.Get does. i must be in [0, Len()); out-of-range reads return
// nil, mirroring a plain out-of-bounds index lookup rather than panicking.
func (d *SequenceDraft) Get(i int) any {
	d.checkLive()
	st := d.st

	if cached, ok := st.childDrafts[i]; ok {
		return cached
	}

	eff := d.effectiveSlice()
	if i < 0 || i >= len(eff) {
		return nil
	}
	val := eff[i]
	if !IsDraftable(val) || st.finalized.Load() {
		return val
	}

	base, _ := st.base.([]any)
	var baseVal any
	if i < len(base) {
		baseVal = base[i]
	}
	if st.copy != nil && !sameReference(val, baseVal) {
		return val
	}

	st.ensureSequenceCopy()
	child := createChildDraft(val, st, i)
	cp := st.copy.([]any)
	cp[i] = child
	st.copy = cp
	st.recordChildDraft(i, child)
	return child
}

// Set assigns v at index i, which must already be within range (growth
// happens through Append or SetLen: Set accepts only
// parseable integer indices plus length" policy — there is no implicit
// array-extend-on-assign as in a sparse-array language).
func (d *SequenceDraft) Set(i int, v any) {
	d.checkLive()
	st := d.st
	eff := d.effectiveSlice()
	if i < 0 || i >= len(eff) {
		panicDraft(&BadArgumentError{Message: "sequence index out of range"})
	}

	if dr, ok := v.(Draft); ok && sameReference(dr.state().base, eff[i]) {
		st.ensureSequenceCopy()
		cp := st.copy.([]any)
		cp[i] = v
		delete(st.assigned, i)
		return
	}

	if valuesEqual(eff[i], v) {
		return
	}

	st.ensureSequenceCopy()
	st.markModified()
	cp := st.copy.([]any)
	cp[i] = v
	st.markAssigned(i, true)
	delete(st.childDrafts, i)
}

// Delete is equivalent to Set(i, nil) — sequences have no "gap" concept in
// this Go realization: conceptually equivalent to setting
// that index to undefined".
func (d *SequenceDraft) Delete(i int) {
	d.Set(i, nil)
}

// Append grows the sequence by one element.
func (d *SequenceDraft) Append(v any) {
	d.checkLive()
	st := d.st
	st.ensureSequenceCopy()
	st.markModified()
	cp := st.copy.([]any)
	cp = append(cp, v)
	st.copy = cp
	st.markAssigned(len(cp)-1, true)
}

// SetLen truncates or extends (with nil padding) the sequence to n, the Go
// realization of writing the "length" property (the sequence-specific
// policy: set accepts the key "length").
func (d *SequenceDraft) SetLen(n int) {
	d.checkLive()
	st := d.st
	eff := d.effectiveSlice()
	if n == len(eff) {
		return
	}
	st.ensureSequenceCopy()
	st.markModified()
	cp := st.copy.([]any)
	if n < len(cp) {
		for i := n; i < len(cp); i++ {
			delete(st.childDrafts, i)
		}
		cp = cp[:n]
	} else {
		for len(cp) < n {
			cp = append(cp, nil)
		}
	}
	st.copy = cp
}

func (st *draftState) ensureSequenceCopy() {
	if st.copy == nil {
		st.copy = shallowCopySequence(st.base.([]any))
	}
}
