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

// createChildDraft allocates the draftState/view pair for a value read out
// of a parent draft for the first time, registers it with the owning
// scope (so Revoke can find it), and returns the view.
func createChildDraft(val any, parent *draftState, key any) Draft {
	st := newDraftState(Classify(val), val, parent, key, parent.scope)
	d := wrapDraft(st)
	parent.scope.addDraft(d)
	return d
}

// wrapDraft constructs the concrete view type for st.kind. Every draft in
// the engine, root or nested, manual or recipe-owned, is built here.
func wrapDraft(st *draftState) Draft {
	switch st.kind {
	case KindRecord:
		return &RecordDraft{st: st}
	case KindSequence:
		return &SequenceDraft{st: st}
	case KindKeyedMap:
		return &MapDraft{st: st}
	case KindUniqueSet:
		return &SetDraft{st: st}
	default:
		return nil
	}
}

func engineFor(st *draftState) *Engine {
	return st.scope.engine
}
