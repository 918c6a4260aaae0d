// Copyright (c) 2021 Uber Technologies, Inc.
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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineEnterRevokeStack(t *testing.T) {
	e := New()
	outer := e.enter()
	assert.Equal(t, outer, e.current)

	inner := e.enter()
	assert.Equal(t, inner, e.current)
	assert.Equal(t, outer, inner.parent)

	e.revoke(inner)
	assert.Equal(t, outer, e.current)

	e.revoke(outer)
	assert.Nil(t, e.current)
}

func TestRevokeInvalidatesOwnedDrafts(t *testing.T) {
	e := New()
	d, err := e.CreateManualDraft(map[string]any{"x": 1})
	require.NoError(t, err)

	st := d.state()
	assert.False(t, st.revoked.Load())

	e.revoke(st.scope)
	assert.True(t, st.revoked.Load())

	assert.Panics(t, func() {
		d.(*RecordDraft).Get("x")
	})
}

func TestRevokeOutOfOrderKeepsTopScope(t *testing.T) {
	// revoke can be called on a scope that is not the top of the stack
	// (an aborted outer Run unwinding through a still-open nested one);
	// it must invalidate its own drafts and leave the current scope, which
	// is not the one being revoked, in place.
	e := New()
	outer := e.enter()
	outer.addDraft(wrapDraft(newDraftState(KindRecord, map[string]any{}, nil, nil, outer)))
	inner := e.enter()

	e.revoke(outer)
	assert.Equal(t, inner, e.current)

	for _, d := range outer.drafts {
		assert.True(t, d.state().revoked.Load())
	}
}

func TestCrossScopeReferenceDisablesAutoFreeze(t *testing.T) {
	e := New()
	shared := map[string]any{"n": 1}
	sharedDraft, err := e.CreateManualDraft(shared)
	require.NoError(t, err)

	sibling := NewDict()
	sibling.Set("k", 1)

	// A second, independent run whose recipe smuggles a draft belonging to
	// a still-open outer scope into its own result must not auto-freeze:
	// the outer scope still owns that draft and may keep mutating it. The
	// sibling Dict is the only part of the output able to show this, since
	// freeze on a plain slice leaves no observable trace; a Sequence is
	// used (rather than a Record) so index 0 finalizes before index 1
	// deterministically, unlike map iteration order.
	out, _, _, err := e.run([]any{0, sibling}, func(d Draft) (any, error) {
		root := d.(*SequenceDraft)
		root.Set(0, sharedDraft)
		root.Get(1)
		return nil, nil
	}, false)
	require.NoError(t, err)

	finalSibling := out.([]any)[1].(*Dict)
	assert.False(t, finalSibling.frozen)

	_, err = e.FinishManualDraft(sharedDraft)
	require.NoError(t, err)
}

func TestPatchBuffersScopedPerRun(t *testing.T) {
	base := map[string]any{"a": 1}

	_, fwd1, inv1, err := RunWithPatches(base, func(d Draft) (any, error) {
		d.(*RecordDraft).Set("a", 2)
		return nil, nil
	})
	require.NoError(t, err)
	assert.Len(t, fwd1, 1)
	assert.Len(t, inv1, 1)

	// A plain Run right after must not see the previous run's scope state
	// leaking in (no patches requested, none produced).
	_, fwd2, inv2, err := Default.run(base, func(d Draft) (any, error) {
		d.(*RecordDraft).Set("a", 3)
		return nil, nil
	}, false)
	require.NoError(t, err)
	assert.Nil(t, fwd2)
	assert.Nil(t, inv2)
}

func TestFinishManualDraftRejectsNonManual(t *testing.T) {
	base := map[string]any{"a": 1}
	var captured Draft
	_, err := Run(base, func(d Draft) (any, error) {
		captured = d
		return nil, nil
	})
	require.NoError(t, err)

	_, err = Default.FinishManualDraft(captured)
	require.Error(t, err)
	var target *BadArgumentError
	require.ErrorAs(t, err, &target)
}

func TestManualDraftLifecycle(t *testing.T) {
	base := map[string]any{"count": 1, "untouched": 2}
	d, err := CreateManualDraft(base)
	require.NoError(t, err)

	root := d.(*RecordDraft)
	root.Set("count", root.Get("count").(int)+1)

	out, err := FinishManualDraft(d)
	require.NoError(t, err)
	next := out.(map[string]any)
	assert.Equal(t, 2, next["count"])
	assert.Equal(t, 2, next["untouched"])

	assert.Panics(t, func() {
		root.Set("count", 5)
	})
}
