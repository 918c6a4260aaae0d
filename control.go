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

// draftPanic carries an invariant-violation error (revoked draft,
// out-of-range sequence index) across a recipe's call stack. The view
// types (RecordDraft, SequenceDraft, MapDraft, SetDraft) have no error
// return on Get/Set/Delete/... to stay close to property-access ergonomics,
// so a violation panics with this type and Run (and ApplyPatches, which
// goes through it) recovers it at the boundary and converts it back to a
// returned error, built out of panic/recover the way encoding/json's decoder
// uses it internally. Outside a recipe (a manual draft, or a draft that
// escaped its Run) the panic reaches the caller unrecovered. Frozen-mutation
// panics from Dict/Set are plain panics, not draftPanic.
type draftPanic struct {
	err error
}

func panicDraft(err error) {
	panic(draftPanic{err: err})
}

// recoverDraftPanic is called from a deferred function. It reports whether
// the recovered value was one of ours (setting *out to its error) or
// re-panics anything else, including a real programmer bug.
func recoverDraftPanic(out *error) {
	r := recover()
	if r == nil {
		return
	}
	dp, ok := r.(draftPanic)
	if !ok {
		panic(r)
	}
	*out = dp.err
}
