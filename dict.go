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

// Dict is the KeyedMap container kind: an insertion-ordered map with
// arbitrary comparable keys. Go's builtin map has no stable iteration
// order, so Dict pairs one with an order slice, the same shape the engine
// uses internally wherever deterministic iteration matters.
type Dict struct {
	order  []any
	values map[any]any
	frozen bool
}

// NewDict returns an empty Dict.
func NewDict() *Dict {
	return &Dict{values: make(map[any]any)}
}

func (d *Dict) draftKeyedMap() {}

// Size reports the number of entries.
func (d *Dict) Size() int { return len(d.order) }

// Has reports whether key is present.
func (d *Dict) Has(key any) bool {
	_, ok := d.values[key]
	return ok
}

// Get returns the value stored at key.
func (d *Dict) Get(key any) (any, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Set stores v at key, appending key to the order if it is new.
func (d *Dict) Set(key, v any) {
	if d.frozen {
		panic(&FrozenMutationError{Op: "set"})
	}
	if _, exists := d.values[key]; !exists {
		d.order = append(d.order, key)
	}
	d.values[key] = v
}

// Delete removes key, reporting whether it was present.
func (d *Dict) Delete(key any) bool {
	if d.frozen {
		panic(&FrozenMutationError{Op: "delete"})
	}
	if _, ok := d.values[key]; !ok {
		return false
	}
	delete(d.values, key)
	for i, k := range d.order {
		if k == key {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns the keys in insertion order.
func (d *Dict) Keys() []any {
	ks := make([]any, len(d.order))
	copy(ks, d.order)
	return ks
}

// clone returns a shallow copy: a new backing map and order slice, sharing
// the stored values. Used as the Dict's shallow-copy-on-first-write.
func (d *Dict) clone() *Dict {
	cp := &Dict{
		order:  make([]any, len(d.order)),
		values: make(map[any]any, len(d.values)),
	}
	copy(cp.order, d.order)
	for k, v := range d.values {
		cp.values[k] = v
	}
	return cp
}

// MapDraft is the view a recipe operates on for a KeyedMap-kind draft. It
// mirrors RecordDraft's lazy-drafting and copy-on-write discipline but
// dispatches through Dict's own method set rather than reflect.
type MapDraft struct {
	st *draftState
}

func (d *MapDraft) Kind() Kind         { return KindKeyedMap }
func (d *MapDraft) state() *draftState { return d.st }

func (d *MapDraft) checkLive() {
	if d.st.revoked.Load() {
		panicDraft(&ProxyRevokedError{DraftID: d.st.id.String()})
	}
}

func (d *MapDraft) effectiveDict() *Dict {
	return d.st.effective().(*Dict)
}

// Size reports the current entry count.
func (d *MapDraft) Size() int {
	d.checkLive()
	return d.effectiveDict().Size()
}

// Has reports whether key is present in the effective value.
func (d *MapDraft) Has(key any) bool {
	d.checkLive()
	return d.effectiveDict().Has(key)
}

// Keys returns the effective key set in insertion order.
func (d *MapDraft) Keys() []any {
	d.checkLive()
	return d.effectiveDict().Keys()
}

// Get mirrors RecordDraft.Get: lazily drafts a still-unmodified draftable
// value the first time it is read, mirroring Record's Get.
func (d *MapDraft) Get(key any) any {
	d.checkLive()
	st := d.st

	if cached, ok := st.childDrafts[key]; ok {
		return cached
	}

	eff := d.effectiveDict()
	val, ok := eff.Get(key)
	if !ok {
		return nil
	}
	if !IsDraftable(val) || st.finalized.Load() {
		return val
	}

	base := st.base.(*Dict)
	baseVal, _ := base.Get(key)
	if st.copy != nil && !sameReference(val, baseVal) {
		return val
	}

	st.ensureDictCopy()
	child := createChildDraft(val, st, key)
	st.copy.(*Dict).Set(key, child)
	st.recordChildDraft(key, child)
	return child
}

// Set assigns v at key, a no-op if the effective value already equals v
// a no-op if the key already maps to this exact value.
func (d *MapDraft) Set(key, v any) {
	d.checkLive()
	st := d.st
	eff := d.effectiveDict()
	if cur, ok := eff.Get(key); ok && valuesEqual(cur, v) {
		return
	}
	st.ensureDictCopy()
	st.markModified()
	st.copy.(*Dict).Set(key, v)
	st.markAssigned(key, true)
	delete(st.childDrafts, key)
}

// Delete removes key, reporting whether it was present.
func (d *MapDraft) Delete(key any) bool {
	d.checkLive()
	st := d.st
	if !d.effectiveDict().Has(key) {
		return false
	}
	st.ensureDictCopy()
	st.markModified()
	base := st.base.(*Dict)
	if base.Has(key) {
		st.markAssigned(key, false)
	} else {
		delete(st.assigned, key)
	}
	st.copy.(*Dict).Delete(key)
	delete(st.childDrafts, key)
	return true
}

// Clear empties the map, marking every base key removed.
func (d *MapDraft) Clear() {
	d.checkLive()
	st := d.st
	eff := d.effectiveDict()
	if eff.Size() == 0 {
		return
	}
	st.ensureDictCopy()
	st.markModified()
	st.assigned = nil
	base := st.base.(*Dict)
	for _, k := range base.Keys() {
		st.markAssigned(k, false)
	}
	st.copy = NewDict()
	st.childDrafts = nil
}

// Entries routes every value through Get so iteration yields possibly
// drafted values.
func (d *MapDraft) Entries() [][2]any {
	d.checkLive()
	keys := d.Keys()
	out := make([][2]any, len(keys))
	for i, k := range keys {
		out[i] = [2]any{k, d.Get(k)}
	}
	return out
}

func (st *draftState) ensureDictCopy() {
	if st.copy == nil {
		st.copy = st.base.(*Dict).clone()
	}
}
