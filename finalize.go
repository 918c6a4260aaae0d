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

// finalizeRoot runs the recursive finalize starting from
// d, the scope's root draft (a Run's root or a manual draft). A recipe's
// returned replacement value is finalized by finalizeReplacement instead.
func finalizeRoot(d Draft, sc *scope) (any, error) {
	return finalizeDraft(d, sc, nil)
}

// finalizeDraft is the recursive finalize step, specialized to the case
// where v is itself a Draft (the common case; a plain value containing
// buried drafts is handled by finalizeEmbedded, called from the container
// walks below).
func finalizeDraft(d Draft, sc *scope, path []any) (any, error) {
	st := d.state()

	if st.scope != sc {
		// Cross-scope draft: honored by its owning scope, not this one.
		sc.disableAutoFreeze()
		return d, nil
	}
	if st.finalized.Load() {
		return st.effective(), nil
	}
	if !st.modified.Load() {
		st.finalized.Store(true)
		if engineAutoFreeze(sc) {
			freeze(st.base)
		}
		return st.base, nil
	}

	st.finalized.Store(true)

	var err error
	switch st.kind {
	case KindRecord:
		err = finalizeRecord(st, sc, path)
	case KindSequence:
		err = finalizeSequence(st, sc, path)
	case KindKeyedMap:
		err = finalizeDict(st, sc, path)
	case KindUniqueSet:
		err = finalizeSet(st, sc, path)
	}
	if err != nil {
		return nil, err
	}

	if engineAutoFreeze(sc) {
		freeze(st.copy)
	}
	return st.copy, nil
}

func engineAutoFreeze(sc *scope) bool {
	return sc.parent == nil && sc.engine.autoFreeze.Load() && sc.autoFreezeAllowed.Load()
}

// finalizeChild resolves one child value reachable from a container being
// finalized: if it is a live draft of this scope, recurse; if it is a
// plain value that itself may bury drafts (the recipe handed back a fresh
// substructure containing a draft it grabbed earlier), walk it via
// finalizeEmbedded. Guards against direct self-containment.
func finalizeChild(v any, parentCopy any, sc *scope, path []any) (any, error) {
	if sameReference(v, parentCopy) {
		return nil, &CircularReferenceError{Path: path}
	}
	if cd, ok := v.(Draft); ok {
		return finalizeDraft(cd, sc, path)
	}
	if IsDraftable(v) {
		return finalizeEmbedded(v, sc, path)
	}
	return v, nil
}

// finalizeEmbedded walks a plain (non-draft) draftable value looking for
// drafts buried inside it — the case where a recipe builds a brand new
// map/slice/Dict/Set and stashes a draft it obtained earlier somewhere
// inside it.
func finalizeEmbedded(v any, sc *scope, path []any) (any, error) {
	switch x := v.(type) {
	case map[string]any:
		for k, cv := range x {
			fv, err := finalizeChild(cv, x, sc, appendPath(path, k))
			if err != nil {
				return nil, err
			}
			x[k] = fv
		}
		return x, nil
	case []any:
		for i, cv := range x {
			fv, err := finalizeChild(cv, x, sc, appendPath(path, i))
			if err != nil {
				return nil, err
			}
			x[i] = fv
		}
		return x, nil
	case *Dict:
		for _, k := range x.Keys() {
			cv, _ := x.Get(k)
			fv, err := finalizeChild(cv, x, sc, appendPath(path, k))
			if err != nil {
				return nil, err
			}
			x.Set(k, fv)
		}
		return x, nil
	case *Set:
		for _, ev := range x.Values() {
			fv, err := finalizeChild(ev, x, sc, path)
			if err != nil {
				return nil, err
			}
			if !sameReference(fv, ev) {
				x.Delete(ev)
				x.Add(fv)
			}
		}
		return x, nil
	default:
		if isStructPtr(reflect.TypeOf(v)) {
			rb := newRecordBacking(v)
			for _, k := range rb.keys() {
				cv, _ := rb.get(k)
				fv, err := finalizeChild(cv, v, sc, appendPath(path, k))
				if err != nil {
					return nil, err
				}
				rb.set(k, fv)
			}
		}
		return v, nil
	}
}

func finalizeRecord(st *draftState, sc *scope, path []any) error {
	backing := newRecordBacking(st.copy)
	for _, key := range backing.keys() {
		v, _ := backing.get(key)
		fv, err := finalizeChild(v, st.copy, sc, appendPath(path, key))
		if err != nil {
			return err
		}
		if !sameReference(fv, v) {
			backing.set(key, fv)
		}
	}
	genRecordPatches(sc, path, newRecordBacking(st.base), backing, st.assigned)
	return nil
}

func finalizeSequence(st *draftState, sc *scope, path []any) error {
	cp := st.copy.([]any)
	for i, v := range cp {
		fv, err := finalizeChild(v, cp, sc, appendPath(path, i))
		if err != nil {
			return err
		}
		cp[i] = fv
	}
	st.copy = cp
	base, _ := st.base.([]any)
	genSequencePatches(sc, path, base, cp, st.assigned)
	return nil
}

func finalizeDict(st *draftState, sc *scope, path []any) error {
	cp := st.copy.(*Dict)
	for _, k := range cp.Keys() {
		v, _ := cp.Get(k)
		fv, err := finalizeChild(v, cp, sc, appendPath(path, k))
		if err != nil {
			return err
		}
		if !sameReference(fv, v) {
			cp.Set(k, fv)
		}
	}
	genDictPatches(sc, path, st.base.(*Dict), cp, st.assigned)
	return nil
}

func finalizeSet(st *draftState, sc *scope, path []any) error {
	cp := st.copy.(*Set)
	// Snapshot first: re-insertions during the walk must preserve order
	// rather than landing wherever Delete/Add happen to leave them.
	snapshot := cp.Values()
	for _, ev := range snapshot {
		fv, err := finalizeChild(ev, cp, sc, path)
		if err != nil {
			return err
		}
		if !sameReference(fv, ev) {
			cp.Delete(ev)
			cp.Add(fv)
		}
	}
	genSetPatches(sc, path, st.base.(*Set), cp)
	return nil
}

// freeze deep-freezes a finalized value, subject to the freeze-hook policy
// mutation through Dict/Set's own methods is rejected once frozen.
// Go's map[string]any, []any, and struct pointers have no runtime
// write-protection mechanism the way a JS Object.freeze does; for those
// shapes freeze only recurses to reach any nested Dict/Set, which are this
// package's own types and so the only shapes that can actually enforce it.
func freeze(v any) {
	switch x := v.(type) {
	case *Dict:
		if x.frozen {
			return
		}
		x.frozen = true
		for _, val := range x.values {
			if IsDraftable(val) {
				freeze(val)
			}
		}
	case *Set:
		if x.frozen {
			return
		}
		x.frozen = true
		for _, val := range x.order {
			if IsDraftable(val) {
				freeze(val)
			}
		}
	case map[string]any:
		for _, val := range x {
			if IsDraftable(val) {
				freeze(val)
			}
		}
	case []any:
		for _, val := range x {
			if IsDraftable(val) {
				freeze(val)
			}
		}
	default:
		if v != nil && isStructPtr(reflect.TypeOf(v)) {
			rb := newRecordBacking(v)
			for _, k := range rb.keys() {
				val, _ := rb.get(k)
				if IsDraftable(val) {
					freeze(val)
				}
			}
		}
	}
}
