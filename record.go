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

// recordBacking abstracts over the two shapes a Record can take: a plain
// map[string]any, or a pointer to a struct registered via MarkDraftable.
// RecordDraft is written once against this interface rather than branching
// on the concrete type at every operation.
type recordBacking interface {
	get(key string) (any, bool)
	set(key string, v any)
	delete(key string)
	has(key string) bool
	keys() []string
	shallowCopy(strict bool) recordBacking
	raw() any
}

func newRecordBacking(v any) recordBacking {
	if m, ok := v.(map[string]any); ok {
		return mapBacking{m: m}
	}
	return newStructBacking(v)
}

type mapBacking struct {
	m map[string]any
}

func (b mapBacking) get(key string) (any, bool) {
	v, ok := b.m[key]
	return v, ok
}

func (b mapBacking) set(key string, v any) { b.m[key] = v }
func (b mapBacking) delete(key string)     { delete(b.m, key) }
func (b mapBacking) has(key string) bool   { _, ok := b.m[key]; return ok }

func (b mapBacking) keys() []string {
	ks := make([]string, 0, len(b.m))
	for k := range b.m {
		ks = append(ks, k)
	}
	return ks
}

func (b mapBacking) shallowCopy(strict bool) recordBacking {
	cp := make(map[string]any, len(b.m))
	for k, v := range b.m {
		cp[k] = v
	}
	return mapBacking{m: cp}
}

func (b mapBacking) raw() any { return b.m }

// structBacking backs a registered struct pointer, reading and writing its
// exported fields through reflect. Go structs have no accessor descriptors
// to collapse, so unlike a language with accessor descriptors,
// struct fields are always copied by value. The strict flag has no effect:
// struct records always get a fresh allocation holding a copy of the whole
// struct, and map records (see shallowCopyRecord) always get a fresh map.
type structBacking struct {
	ptr  reflect.Value
	elem reflect.Value
}

func newStructBacking(v any) *structBacking {
	rv := reflect.ValueOf(v)
	return &structBacking{ptr: rv, elem: rv.Elem()}
}

func (b *structBacking) fieldByName(key string) (reflect.Value, bool) {
	sf, ok := b.elem.Type().FieldByName(key)
	if !ok || sf.PkgPath != "" {
		return reflect.Value{}, false
	}
	return b.elem.FieldByName(key), true
}

func (b *structBacking) get(key string) (any, bool) {
	f, ok := b.fieldByName(key)
	if !ok {
		return nil, false
	}
	return f.Interface(), true
}

func (b *structBacking) set(key string, v any) {
	f, ok := b.fieldByName(key)
	if !ok {
		return
	}
	if v == nil {
		f.Set(reflect.Zero(f.Type()))
		return
	}
	f.Set(reflect.ValueOf(v))
}

func (b *structBacking) delete(key string) {
	f, ok := b.fieldByName(key)
	if !ok {
		return
	}
	f.Set(reflect.Zero(f.Type()))
}

func (b *structBacking) has(key string) bool {
	_, ok := b.fieldByName(key)
	return ok
}

func (b *structBacking) keys() []string {
	t := b.elem.Type()
	ks := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).PkgPath == "" {
			ks = append(ks, t.Field(i).Name)
		}
	}
	return ks
}

func (b *structBacking) shallowCopy(strict bool) recordBacking {
	np := reflect.New(b.elem.Type())
	np.Elem().Set(b.elem)
	return &structBacking{ptr: np, elem: np.Elem()}
}

func (b *structBacking) raw() any { return b.ptr.Interface() }

// RecordDraft is the view a recipe operates on for a Record-kind draft,
// replacing transparent property-interception proxies (which Go has no way
// to express) with an explicit Get/Set/Delete/Has/Keys method set. Obtain one
// by type-asserting the Draft a recipe is handed, or the
// result of a nested Get.
type RecordDraft struct {
	st *draftState
}

func (d *RecordDraft) Kind() Kind          { return KindRecord }
func (d *RecordDraft) state() *draftState  { return d.st }

func (d *RecordDraft) checkLive() {
	if d.st.revoked.Load() {
		panicDraft(&ProxyRevokedError{DraftID: d.st.id.String()})
	}
}

// Get returns the current value at key, lazily wrapping it in a child draft
// the first time a still-unmodified draftable value is read, and returning
// the same child draft instance on every subsequent call.
func (d *RecordDraft) Get(key string) any {
	d.checkLive()
	st := d.st

	if cached, ok := st.childDrafts[key]; ok {
		return cached
	}

	eff := st.effective()
	val, ok := newRecordBacking(eff).get(key)
	if !ok {
		return nil
	}
	if !IsDraftable(val) || st.finalized.Load() {
		return val
	}

	baseVal, _ := newRecordBacking(st.base).get(key)
	if st.copy != nil && !sameReference(val, baseVal) {
		// Already replaced by an explicit Set; it is no longer the base's
		// value reachable for drafting, just return it as stored.
		return val
	}

	st.ensureRecordCopy(strictModeFor(engineFor(st).strictShallowCopy, st.base))
	child := createChildDraft(val, st, key)
	newRecordBacking(st.copy).set(key, child)
	st.recordChildDraft(key, child)
	return child
}

// Set assigns v at key. A no-op write (same value by the language's
// identity-equals variant, or re-assigning the exact draft Get handed back
// for that key) allocates nothing and leaves modified untouched.
func (d *RecordDraft) Set(key string, v any) {
	d.checkLive()
	st := d.st

	if dr, ok := v.(Draft); ok && sameReference(dr.state().base, effectiveValueAt(st, key)) {
		st.ensureRecordCopy(strictModeFor(engineFor(st).strictShallowCopy, st.base))
		newRecordBacking(st.copy).set(key, v)
		delete(st.assigned, key)
		return
	}

	current, exists := newRecordBacking(st.effective()).get(key)
	if exists && valuesEqual(current, v) {
		return
	}

	st.ensureRecordCopy(strictModeFor(engineFor(st).strictShallowCopy, st.base))
	st.markModified()
	newRecordBacking(st.copy).set(key, v)
	st.markAssigned(key, true)
	delete(st.childDrafts, key)
}

// Delete removes key: keys that existed in base are recorded as
// removed (assigned[key] = false); keys that never reached base (added and
// then removed within the same draft) simply forget their assignment.
func (d *RecordDraft) Delete(key string) {
	d.checkLive()
	st := d.st

	_, inBase := newRecordBacking(st.base).get(key)
	if inBase {
		st.markAssigned(key, false)
		st.markModified()
	} else {
		delete(st.assigned, key)
	}

	st.ensureRecordCopy(strictModeFor(engineFor(st).strictShallowCopy, st.base))
	newRecordBacking(st.copy).delete(key)
	delete(st.childDrafts, key)
}

// Has reports whether key currently resolves to a value.
func (d *RecordDraft) Has(key string) bool {
	d.checkLive()
	_, ok := newRecordBacking(d.st.effective()).get(key)
	return ok
}

// Keys returns the record's current key set in unspecified order, matching
// the underlying map/struct's own iteration order.
func (d *RecordDraft) Keys() []string {
	d.checkLive()
	return newRecordBacking(d.st.effective()).keys()
}

func effectiveValueAt(st *draftState, key string) any {
	v, _ := newRecordBacking(st.effective()).get(key)
	return v
}

func (st *draftState) ensureRecordCopy(strict bool) {
	if st.copy == nil {
		st.copy = shallowCopyRecord(st.base, strict)
	}
}
