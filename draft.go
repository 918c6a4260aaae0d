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

// Recipe is the mutation callback Run/RunWithPatches hand a draft to. A
// recipe that only mutates d should return (nil, nil). A recipe may
// instead return a non-nil replacement value without touching d at all
// (the producer pattern); doing both is a ModifiedAndReturnedError.
type Recipe func(d Draft) (any, error)

// Run wraps base in a draft, runs recipe against it on the package-level
// Default engine, and reconciles the result.
func Run[T any](base T, recipe Recipe) (T, error) {
	return RunWith[T](Default, base, recipe)
}

// RunWith is Run against a specific Engine.
func RunWith[T any](e *Engine, base T, recipe Recipe) (T, error) {
	out, _, _, err := e.run(any(base), recipe, false)
	if err != nil {
		var zero T
		return zero, err
	}
	return castResult[T](out), nil
}

// RunWithPatches is Run plus the forward and inverse patch lists
// accumulated during the run.
func RunWithPatches[T any](base T, recipe Recipe) (T, []Patch, []Patch, error) {
	return RunWithPatchesWith[T](Default, base, recipe)
}

// RunWithPatchesWith is RunWithPatches against a specific Engine.
func RunWithPatchesWith[T any](e *Engine, base T, recipe Recipe) (T, []Patch, []Patch, error) {
	out, fwd, inv, err := e.run(any(base), recipe, true)
	if err != nil {
		var zero T
		return zero, nil, nil, err
	}
	return castResult[T](out), fwd, inv, nil
}

func castResult[T any](out any) T {
	var zero T
	if out == nil {
		return zero
	}
	v, ok := out.(T)
	if !ok {
		return zero
	}
	return v
}

// run is the non-generic engine of Run/RunWithPatches, operating on `any`
// so the public generic wrappers stay thin (Go methods cannot themselves
// be generic).
func (e *Engine) run(base any, recipe Recipe, wantPatches bool) (any, []Patch, []Patch, error) {
	if recipe == nil {
		return nil, nil, nil, &BadArgumentError{Message: "recipe is nil"}
	}
	if !IsDraftable(base) {
		return nil, nil, nil, &NotDraftableError{Value: base, Site: callerSite(e.skipper)}
	}

	sc := e.enter()
	sc.patchesEnabled = wantPatches

	st := newDraftState(Classify(base), base, nil, nil, sc)
	root := wrapDraft(st)
	sc.addDraft(root)

	var replacement any
	var recipeErr error
	func() {
		defer recoverDraftPanic(&recipeErr)
		replacement, recipeErr = recipe(root)
	}()

	if recipeErr != nil {
		e.revoke(sc)
		return nil, nil, nil, recipeErr
	}

	if rd, ok := replacement.(Draft); ok && rd == root {
		// Returning the root draft itself is not a replacement.
		replacement = nil
	}

	var final any
	var err error
	switch {
	case replacement != nil && st.modified.Load():
		err = &ModifiedAndReturnedError{}
	case replacement != nil:
		final, err = finalizeReplacement(replacement, base, sc, wantPatches)
	default:
		final, err = finalizeRoot(root, sc)
	}

	e.revoke(sc)
	if err != nil {
		return nil, nil, nil, err
	}
	if IsNothing(final) {
		final = nil
	}
	return final, sc.forward, sc.inverse, nil
}

func finalizeReplacement(replacement, base any, sc *scope, wantPatches bool) (any, error) {
	var final any
	var err error
	switch r := replacement.(type) {
	case Draft:
		final, err = finalizeDraft(r, sc, nil)
	default:
		if IsDraftable(replacement) {
			final, err = finalizeEmbedded(replacement, sc, nil)
		} else {
			final = replacement
		}
	}
	if err != nil {
		return nil, err
	}
	if wantPatches {
		sc.addPatch(
			Patch{Op: PatchReplace, Path: []any{}, Value: final},
			Patch{Op: PatchReplace, Path: []any{}, Value: base},
		)
	}
	return final, nil
}

// CreateManualDraft and FinishManualDraft split drafting and finalization
// across two calls for callers that cannot express their mutation as a
// single recipe closure.
func CreateManualDraft(base any) (Draft, error) {
	return Default.CreateManualDraft(base)
}

// CreateManualDraft is CreateManualDraft against a specific Engine.
func (e *Engine) CreateManualDraft(base any) (Draft, error) {
	if !IsDraftable(base) {
		return nil, &NotDraftableError{Value: base, Site: callerSite(e.skipper)}
	}
	sc := e.enter()
	st := newDraftState(Classify(base), base, nil, nil, sc)
	st.isManual = true
	d := wrapDraft(st)
	sc.addDraft(d)
	return d, nil
}

// FinishManualDraft finalizes a draft created by CreateManualDraft.
func FinishManualDraft(d Draft) (any, error) {
	return Default.FinishManualDraft(d)
}

// FinishManualDraft is FinishManualDraft against a specific Engine.
func (e *Engine) FinishManualDraft(d Draft) (any, error) {
	st := d.state()
	if !st.isManual {
		return nil, &BadArgumentError{Message: "FinishManualDraft called on a non-manual draft"}
	}
	sc := st.scope
	final, err := finalizeRoot(d, sc)
	e.revoke(sc)
	if err != nil {
		return nil, err
	}
	if IsNothing(final) {
		return nil, nil
	}
	return final, nil
}

// Snapshot returns a fully-substituted, draft-free, non-frozen copy of a
// live draft without finalizing it: an unmodified draft returns its
// base directly; a modified one returns an independent shallow copy whose
// drafted entries are themselves recursively snapshotted.
func Snapshot(d Draft) any {
	st := d.state()
	if !st.modified.Load() {
		return st.base
	}
	prev := st.finalized.Load()
	st.finalized.Store(true)
	defer st.finalized.Store(prev)
	return snapshotContainer(st)
}

func snapshotContainer(st *draftState) any {
	switch st.kind {
	case KindRecord:
		backing := newRecordBacking(st.copy).shallowCopy(true)
		for _, k := range backing.keys() {
			v, _ := backing.get(k)
			if cd, ok := v.(Draft); ok {
				backing.set(k, Snapshot(cd))
			}
		}
		return backing.raw()
	case KindSequence:
		src := st.copy.([]any)
		cp := make([]any, len(src))
		for i, v := range src {
			if cd, ok := v.(Draft); ok {
				cp[i] = Snapshot(cd)
			} else {
				cp[i] = v
			}
		}
		return cp
	case KindKeyedMap:
		cp := st.copy.(*Dict).clone()
		for _, k := range cp.Keys() {
			v, _ := cp.Get(k)
			if cd, ok := v.(Draft); ok {
				cp.Set(k, Snapshot(cd))
			}
		}
		return cp
	case KindUniqueSet:
		cp := st.copy.(*Set).clone()
		for _, v := range cp.Values() {
			if cd, ok := v.(Draft); ok {
				cp.Delete(v)
				cp.Add(Snapshot(cd))
			}
		}
		return cp
	default:
		return st.copy
	}
}

// Original returns the base value d was created over.
func Original(d Draft) any {
	return d.state().base
}

// IsDraft reports whether x is a live Draft view.
func IsDraft(x any) bool {
	_, ok := x.(Draft)
	return ok
}
