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

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRunStructuralSharing(t *testing.T) {
	untouched := map[string]any{"y": 1}
	base := map[string]any{
		"a": map[string]any{"x": 1},
		"b": untouched,
	}

	next, err := Run(base, func(d Draft) (any, error) {
		root := d.(*RecordDraft)
		a := root.Get("a").(*RecordDraft)
		a.Set("x", 9)
		return nil, nil
	})
	require.NoError(t, err)

	assert.Equal(t, 9, next["a"].(map[string]any)["x"])
	assert.Equal(t, 1, base["a"].(map[string]any)["x"], "base must not be mutated")
	assert.True(t, samePointer(untouched, next["b"]), "untouched branch must be shared by reference")
	assert.False(t, samePointer(base, next), "modified root must be a fresh copy")
}

func TestRunNoopRecipeReturnsBase(t *testing.T) {
	base := map[string]any{"a": 1}
	next, err := Run(base, func(d Draft) (any, error) {
		return nil, nil
	})
	require.NoError(t, err)
	assert.True(t, samePointer(base, next), "an untouched draft must return base by reference")
}

func samePointer(a, b any) bool {
	return sameReference(a, b)
}

func TestSequenceAppendAndReplace(t *testing.T) {
	base := []any{1, 2, 3}
	next, err := Run(base, func(d Draft) (any, error) {
		seq := d.(*SequenceDraft)
		seq.Set(0, 100)
		seq.Append(4)
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []any{100, 2, 3, 4}, next)
	assert.Equal(t, []any{1, 2, 3}, base)
}

func TestSequenceShrinkViaSetLen(t *testing.T) {
	base := []any{1, 2, 3, 4}
	next, fwd, inv, err := RunWithPatches(base, func(d Draft) (any, error) {
		seq := d.(*SequenceDraft)
		seq.SetLen(2)
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2}, next)

	restored, err := ApplyPatches(next, inv)
	require.NoError(t, err)
	assert.Equal(t, base, restored)

	reapplied, err := ApplyPatches(base, fwd)
	require.NoError(t, err)
	assert.Equal(t, next, reapplied)
}

func TestKeyedMapDraftPropagation(t *testing.T) {
	inner := NewDict()
	inner.Set("count", 1)
	base := NewDict()
	base.Set("stats", inner)

	next, err := Run[any](base, func(d Draft) (any, error) {
		root := d.(*MapDraft)
		stats := root.Get("stats").(*MapDraft)
		stats.Set("count", 2)
		return nil, nil
	})
	require.NoError(t, err)

	out := next.(*Dict)
	nextStats, _ := out.Get("stats")
	assert.Equal(t, 2, nextStats.(*Dict).values["count"])

	origStats, _ := inner.Get("count")
	assert.Equal(t, 1, origStats)
}

func TestUniqueSetAddAndRemove(t *testing.T) {
	base := NewSet()
	base.Add("a")
	base.Add("b")

	next, err := Run[any](base, func(d Draft) (any, error) {
		s := d.(*SetDraft)
		s.Add("c")
		s.Delete("a")
		return nil, nil
	})
	require.NoError(t, err)

	out := next.(*Set)
	assert.True(t, out.Has("b"))
	assert.True(t, out.Has("c"))
	assert.False(t, out.Has("a"))
	assert.True(t, base.Has("a"), "base must be untouched")
}

func TestUniqueSetPatchesHaveDistinctPaths(t *testing.T) {
	base := NewSet()
	base.Add(1)
	base.Add(2)

	next, fwd, inv, err := RunWithPatches[any](base, func(d Draft) (any, error) {
		s := d.(*SetDraft)
		s.Delete(2)
		s.Add(4)
		return nil, nil
	})
	require.NoError(t, err)
	require.Len(t, fwd, 2)
	require.Len(t, inv, 2)
	assert.NotEqual(t, fwd[0].Path, fwd[1].Path)
	assert.NotEqual(t, inv[0].Path, inv[1].Path)

	restored, err := ApplyPatches(next, inv)
	require.NoError(t, err)
	restoredSet := restored.(*Set)
	assert.True(t, restoredSet.Has(1))
	assert.True(t, restoredSet.Has(2))
	assert.False(t, restoredSet.Has(4))
}

func TestModifiedAndReturnedIsAnError(t *testing.T) {
	base := map[string]any{"a": 1}
	_, err := Run(base, func(d Draft) (any, error) {
		root := d.(*RecordDraft)
		root.Set("a", 2)
		return map[string]any{"a": 3}, nil
	})
	require.Error(t, err)
	var target *ModifiedAndReturnedError
	assert.True(t, errors.As(err, &target))
}

func TestRecipeErrorAbortsWithoutMutating(t *testing.T) {
	base := map[string]any{"a": 1}
	sentinel := errors.New("boom")
	_, err := Run(base, func(d Draft) (any, error) {
		root := d.(*RecordDraft)
		root.Set("a", 99)
		return nil, sentinel
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, sentinel))
	assert.Equal(t, 1, base["a"])
}

func TestDraftRevokedAfterRun(t *testing.T) {
	base := map[string]any{"a": 1}
	var escaped *RecordDraft
	_, err := Run(base, func(d Draft) (any, error) {
		escaped = d.(*RecordDraft)
		return nil, nil
	})
	require.NoError(t, err)

	assert.Panics(t, func() {
		escaped.Set("a", 2)
	})
}

func TestNestedRun(t *testing.T) {
	base := map[string]any{"outer": map[string]any{"inner": 1}}
	next, err := Run(base, func(d Draft) (any, error) {
		root := d.(*RecordDraft)
		outer := root.Get("outer").(*RecordDraft)

		innerBase := map[string]any{"inner": 1}
		innerNext, nestedErr := Run(innerBase, func(nd Draft) (any, error) {
			nd.(*RecordDraft).Set("inner", 2)
			return nil, nil
		})
		require.NoError(t, nestedErr)
		outer.Set("inner", innerNext["inner"])
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, next["outer"].(map[string]any)["inner"])
}

func TestRunWithPatchesRoundTrip(t *testing.T) {
	base := map[string]any{"a": 1, "b": 2}
	next, fwd, inv, err := RunWithPatches(base, func(d Draft) (any, error) {
		root := d.(*RecordDraft)
		root.Set("a", 10)
		root.Delete("b")
		root.Set("c", 3)
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 10, next["a"])
	assert.Equal(t, 3, next["c"])
	_, hasB := next["b"]
	assert.False(t, hasB)

	restored, err := ApplyPatches(next, inv)
	require.NoError(t, err)
	assert.Equal(t, base, restored)

	reapplied, err := ApplyPatches(base, fwd)
	require.NoError(t, err)
	assert.Equal(t, next, reapplied)
}

func TestNotDraftableError(t *testing.T) {
	_, err := Run(5, func(d Draft) (any, error) { return nil, nil })
	require.Error(t, err)
	var target *NotDraftableError
	assert.True(t, errors.As(err, &target))
}
