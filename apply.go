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

import "fmt"

var forbiddenSegments = map[string]bool{
	"__proto__":   true,
	"constructor": true,
}

// ApplyPatches replays patches against base (forward patches reach the
// state they were generated from; inverse patches undo it).
// Since base is not already a draft, the applier runs inside a freshly
// started run on it.
func ApplyPatches[T any](base T, patches []Patch) (T, error) {
	return ApplyPatchesWith(Default, base, patches)
}

// ApplyPatchesWith is ApplyPatches against a specific Engine.
func ApplyPatchesWith[T any](e *Engine, base T, patches []Patch) (T, error) {
	if len(patches) == 1 && len(patches[0].Path) == 0 {
		if patches[0].Op != PatchReplace {
			var zero T
			return zero, &UnsupportedOperationError{Op: string(patches[0].Op)}
		}
		return castResult[T](clonePatchValueIfNeeded(patches[0].Value)), nil
	}

	out, _, _, err := e.run(any(base), func(d Draft) (any, error) {
		for i, p := range patches {
			if err := applyPatch(d, p); err != nil {
				return nil, errWrapf(err, "applying patch %d (%s %v)", i, p.Op, p.Path)
			}
		}
		return nil, nil
	}, false)
	if err != nil {
		var zero T
		return zero, err
	}
	return castResult[T](out), nil
}

func applyPatch(root Draft, p Patch) error {
	if len(p.Path) == 0 {
		return fmt.Errorf("draft: root-level patches are not supported by ApplyPatches; apply a root replacement directly")
	}
	target, lastKey, err := walkPatchPath(root, p.Path)
	if err != nil {
		return err
	}
	value := clonePatchValueIfNeeded(p.Value)

	switch t := target.(type) {
	case *RecordDraft:
		key, ok := lastKey.(string)
		if !ok {
			return &PathUnresolvedError{Path: p.Path, Segment: lastKey}
		}
		switch p.Op {
		case PatchReplace, PatchAdd:
			t.Set(key, value)
		case PatchRemove:
			t.Delete(key)
		default:
			return &UnsupportedOperationError{Op: string(p.Op)}
		}
	case *SequenceDraft:
		switch p.Op {
		case PatchReplace:
			i, ok := lastKey.(int)
			if !ok {
				return &PathUnresolvedError{Path: p.Path, Segment: lastKey}
			}
			t.Set(i, value)
		case PatchAdd:
			if lastKey == "-" {
				t.Append(value)
				return nil
			}
			i, ok := lastKey.(int)
			if !ok {
				return &PathUnresolvedError{Path: p.Path, Segment: lastKey}
			}
			insertAt(t, i, value)
		case PatchRemove:
			i, ok := lastKey.(int)
			if !ok {
				return &PathUnresolvedError{Path: p.Path, Segment: lastKey}
			}
			removeAt(t, i)
		default:
			return &UnsupportedOperationError{Op: string(p.Op)}
		}
	case *MapDraft:
		switch p.Op {
		case PatchReplace, PatchAdd:
			t.Set(lastKey, value)
		case PatchRemove:
			t.Delete(lastKey)
		default:
			return &UnsupportedOperationError{Op: string(p.Op)}
		}
	case *SetDraft:
		switch p.Op {
		case PatchAdd:
			t.Add(value)
		case PatchRemove:
			t.Delete(p.Value)
		case PatchReplace:
			return &UnsupportedOperationError{Op: "replace on unique-set"}
		default:
			return &UnsupportedOperationError{Op: string(p.Op)}
		}
	default:
		return &PathUnresolvedError{Path: p.Path, Segment: lastKey}
	}
	return nil
}

// walkPatchPath descends path[0:len(path)-1], returning the container draft
// the final segment applies against plus that final segment (converted to
// int for Sequence, left as given for Record/KeyedMap).
func walkPatchPath(root Draft, path []any) (Draft, any, error) {
	cur := root
	for i := 0; i < len(path)-1; i++ {
		seg := path[i]
		if s, ok := seg.(string); ok && forbiddenSegments[s] {
			return nil, nil, &PathUnresolvedError{Path: path, Segment: seg}
		}
		next, err := descend(cur, seg)
		if err != nil {
			return nil, nil, err
		}
		cur = next
	}
	last := path[len(path)-1]
	if s, ok := last.(string); ok && forbiddenSegments[s] {
		return nil, nil, &PathUnresolvedError{Path: path, Segment: s}
	}
	return cur, coerceSegmentFor(cur, last), nil
}

func descend(cur Draft, seg any) (Draft, error) {
	switch t := cur.(type) {
	case *RecordDraft:
		key, _ := seg.(string)
		v := t.Get(key)
		d, ok := v.(Draft)
		if !ok {
			return nil, &PathUnresolvedError{Segment: seg}
		}
		return d, nil
	case *SequenceDraft:
		idx, ok := toInt(seg)
		if !ok {
			return nil, &PathUnresolvedError{Segment: seg}
		}
		v := t.Get(idx)
		d, ok := v.(Draft)
		if !ok {
			return nil, &PathUnresolvedError{Segment: seg}
		}
		return d, nil
	case *MapDraft:
		v := t.Get(seg)
		d, ok := v.(Draft)
		if !ok {
			return nil, &PathUnresolvedError{Segment: seg}
		}
		return d, nil
	default:
		return nil, &PathUnresolvedError{Segment: seg}
	}
}

func coerceSegmentFor(cur Draft, seg any) any {
	if _, ok := cur.(*SequenceDraft); ok {
		if seg == "-" {
			return "-"
		}
		if i, ok := toInt(seg); ok {
			return i
		}
	}
	if s, ok := seg.(string); ok {
		return s
	}
	return seg
}

func toInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case float64:
		return int(x), true
	default:
		return 0, false
	}
}

func insertAt(t *SequenceDraft, i int, v any) {
	t.Append(nil)
	for j := t.Len() - 1; j > i; j-- {
		t.Set(j, t.Get(j-1))
	}
	t.Set(i, v)
}

func removeAt(t *SequenceDraft, i int) {
	n := t.Len()
	for j := i; j < n-1; j++ {
		t.Set(j, t.Get(j+1))
	}
	t.SetLen(n - 1)
}

// clonePatchValueIfNeeded deep-clones x before the applier inserts it, so
// the target never shares containers with a value still held in a patch.
// A live draft is cloned from its current effective value.
func clonePatchValueIfNeeded(x any) any {
	if d, ok := x.(Draft); ok {
		return deepCloneValue(d.state().effective())
	}
	return deepCloneValue(x)
}

func deepCloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		cp := make(map[string]any, len(x))
		for k, val := range x {
			cp[k] = deepCloneValue(val)
		}
		return cp
	case []any:
		cp := make([]any, len(x))
		for i, val := range x {
			cp[i] = deepCloneValue(val)
		}
		return cp
	case *Dict:
		cp := NewDict()
		for _, k := range x.Keys() {
			val, _ := x.Get(k)
			cp.Set(k, deepCloneValue(val))
		}
		return cp
	case *Set:
		cp := NewSet()
		for _, val := range x.Values() {
			cp.Add(deepCloneValue(val))
		}
		return cp
	case Draft:
		return deepCloneValue(x.state().effective())
	default:
		return v
	}
}
