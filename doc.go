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

// Package draft is a structural-sharing, copy-on-write update engine for Go.
//
// A caller hands the engine a base value and a recipe; the recipe mutates a
// draft view of that value, and the engine returns a new value that shares
// every unmodified branch with the base. The base is never touched.
//
// Status
//
// BETA. Expect potential API changes.
//
// Run
//
// Run is the primary entry point. It wraps base in a draft, runs recipe
// against it, and reconciles the result:
//
//   base := map[string]any{"a": map[string]any{"x": 1}}
//   next, err := draft.Run(base, func(d draft.Draft) (any, error) {
//       root := d.(*draft.RecordDraft)
//       a := root.Get("a").(*draft.RecordDraft)
//       a.Set("x", 9)
//       return nil, nil
//   })
//
// next["a"] is a fresh copy; next["b"] (if present) remains the exact value
// held by base, by pointer. A recipe may instead return a non-nil
// replacement value without touching the draft at all (the "producer"
// pattern); doing both — mutating the draft and returning a replacement —
// is an error.
//
// Patches
//
// RunWithPatches additionally returns a forward and inverse patch list,
// replayable with ApplyPatches to reach the same result (forward) or to undo
// it (inverse):
//
//   next, fwd, inv, err := draft.RunWithPatches(base, recipe)
//   restored, err := draft.ApplyPatches(next, inv) // structurally == base
//
// Manual drafts
//
// CreateManualDraft/FinishManualDraft split drafting and finalization across
// two calls for callers that can't structure their mutation as a single
// recipe closure (e.g. drafts threaded through a multi-step builder).
//
package draft
