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

// PatchOp identifies the kind of edit a Patch describes.
type PatchOp string

const (
	PatchReplace PatchOp = "replace"
	PatchAdd     PatchOp = "add"
	PatchRemove  PatchOp = "remove"
)

// Patch is a single edit in the wire format RunWithPatches/ApplyPatches
// exchange: {op, path, value?}. Path segments are string
// keys (Record/KeyedMap) or integer indices (Sequence); Value is absent
// (nil) for a plain Remove against Record/Sequence/KeyedMap, and carries
// the removed element for a UniqueSet remove, since sets identify members
// by value rather than position.
type Patch struct {
	Op    PatchOp
	Path  []any
	Value any
}

func (p Patch) String() string {
	if p.Op == PatchRemove && p.Value == nil {
		return fmt.Sprintf("{%s %v}", p.Op, p.Path)
	}
	return fmt.Sprintf("{%s %v %v}", p.Op, p.Path, p.Value)
}

func appendPath(path []any, seg any) []any {
	out := make([]any, len(path)+1)
	copy(out, path)
	out[len(path)] = seg
	return out
}

// genRecordPatches walks assigned per the Record patch rule: every key marked
// true becomes a replace/add (add if the key is new to base), every key
// marked false becomes a remove.
func genRecordPatches(sc *scope, path []any, base recordBacking, copy recordBacking, assigned map[any]bool) {
	for key, present := range assigned {
		k := key.(string)
		path := appendPath(path, k)
		if present {
			v, _ := copy.get(k)
			op := PatchReplace
			if !base.has(k) {
				op = PatchAdd
			}
			sc.addPatch(
				Patch{Op: op, Path: path, Value: v},
				inversePatchFor(op, path, base, k),
			)
		} else {
			sc.addPatch(
				Patch{Op: PatchRemove, Path: path},
				Patch{Op: PatchAdd, Path: path, Value: mustGet(base, k)},
			)
		}
	}
}

func inversePatchFor(op PatchOp, path []any, base recordBacking, key string) Patch {
	if op == PatchAdd {
		return Patch{Op: PatchRemove, Path: path}
	}
	v, _ := base.get(key)
	return Patch{Op: PatchReplace, Path: path, Value: v}
}

func mustGet(base recordBacking, key string) any {
	v, _ := base.get(key)
	return v
}

// genSequencePatches implements the Sequence patch rule: if copy is
// shorter than base, swap (base, copy) and (forward, inverse) first, which
// halves the case analysis to "copy only ever grows or stays level" from
// here on. Then replace-pairs for touched indices within the shared
// prefix, and for the grown tail add patches in ascending index order with
// the matching remove patches in descending order, so both lists replay
// front to back.
func genSequencePatches(sc *scope, path []any, base, copy []any, assigned map[any]bool) {
	swapped := false
	if len(copy) < len(base) {
		base, copy = copy, base
		swapped = true
	}

	emit := func(fwd, inv Patch) {
		if swapped {
			sc.addPatch(inv, fwd)
		} else {
			sc.addPatch(fwd, inv)
		}
	}

	n := len(base)
	if len(copy) < n {
		n = len(copy)
	}
	for i := 0; i < n; i++ {
		if !assigned[i] {
			continue
		}
		if valuesEqual(base[i], copy[i]) {
			continue
		}
		p := appendPath(path, i)
		emit(
			Patch{Op: PatchReplace, Path: p, Value: copy[i]},
			Patch{Op: PatchReplace, Path: p, Value: base[i]},
		)
	}

	// The tail holds every index copy has that base doesn't. Replaying an
	// Add there must go ascending (growing past the array's current
	// length one slot at a time); replaying a Remove must go descending
	// (removeAt shifts everything after the removed index left, so taking
	// the highest index first keeps every remaining index valid). Which
	// buffer (forward or inverse) ends up holding which op depends on
	// swapped, but the two orderings never change, so each is built as
	// its own pass rather than one emit() shared between them.
	addPatches := make([]Patch, 0, len(copy)-len(base))
	for i := len(base); i < len(copy); i++ {
		p := appendPath(path, i)
		addPatches = append(addPatches, Patch{Op: PatchAdd, Path: p, Value: copy[i]})
	}
	removePatches := make([]Patch, 0, len(copy)-len(base))
	for i := len(copy) - 1; i >= len(base); i-- {
		p := appendPath(path, i)
		removePatches = append(removePatches, Patch{Op: PatchRemove, Path: p})
	}
	if swapped {
		sc.appendPatches(removePatches, addPatches)
	} else {
		sc.appendPatches(addPatches, removePatches)
	}
}

// genDictPatches mirrors genRecordPatches against Dict's arbitrary keys.
func genDictPatches(sc *scope, path []any, base, copy *Dict, assigned map[any]bool) {
	for key, present := range assigned {
		p := appendPath(path, key)
		if present {
			v, _ := copy.Get(key)
			op := PatchReplace
			if !base.Has(key) {
				op = PatchAdd
			}
			var inv Patch
			if op == PatchAdd {
				inv = Patch{Op: PatchRemove, Path: p}
			} else {
				bv, _ := base.Get(key)
				inv = Patch{Op: PatchReplace, Path: p, Value: bv}
			}
			sc.addPatch(Patch{Op: op, Path: p, Value: v}, inv)
		} else {
			bv, _ := base.Get(key)
			sc.addPatch(
				Patch{Op: PatchRemove, Path: p},
				Patch{Op: PatchAdd, Path: p, Value: bv},
			)
		}
	}
}

// genSetPatches implements the UniqueSet patch rule: a set difference between
// base and copy. Added elements become forward add/inverse remove; removed
// elements become forward remove/inverse add, with the inverse prepended
// so replaying it restores the original insertion order. A set has no key
// to extend path with, so each emitted patch instead gets its own running
// index counter appended to path, keeping every membership change at a
// distinct, addressable Path rather than several patches sharing one.
func genSetPatches(sc *scope, path []any, base, copy *Set) {
	idx := 0
	for _, v := range copy.Values() {
		if !base.Has(v) {
			p := appendPath(path, idx)
			idx++
			sc.addPatch(
				Patch{Op: PatchAdd, Path: p, Value: v},
				Patch{Op: PatchRemove, Path: p, Value: v},
			)
		}
	}
	for _, v := range base.Values() {
		if !copy.Has(v) {
			p := appendPath(path, idx)
			idx++
			sc.prependForward(Patch{Op: PatchRemove, Path: p, Value: v})
			sc.prependInverse(Patch{Op: PatchAdd, Path: p, Value: v})
		}
	}
}
