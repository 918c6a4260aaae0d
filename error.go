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

// NotDraftableError is returned when Run, CreateManualDraft, or ApplyPatches
// is given a base value that cannot be classified into any of the four
// container kinds and is not a registered class instance.
type NotDraftableError struct {
	Value any
	Site  string
}

func (e *NotDraftableError) Error() string {
	return fmt.Sprintf("draft: %T is not draftable (at %s)", e.Value, e.Site)
}

// FrozenMutationError is raised (as a plain panic) by Dict.Set/Delete and
// Set.Add/Delete once freeze has marked that Dict or Set frozen. Drafting a
// frozen value does not raise it: draft writes go to an unfrozen copy.
type FrozenMutationError struct {
	Op string
}

func (e *FrozenMutationError) Error() string {
	return fmt.Sprintf("draft: cannot %s a frozen value", e.Op)
}

// ProxyRevokedError is raised by any operation on a draft whose owning
// scope has already ended, by finalization or by abort. The operation
// panics with it; Run returns it as an error when that happens inside a
// recipe.
type ProxyRevokedError struct {
	DraftID string
}

func (e *ProxyRevokedError) Error() string {
	return fmt.Sprintf("draft: cannot perform operation on revoked draft %s", e.DraftID)
}

// ModifiedAndReturnedError is returned when a recipe both mutates the root
// draft and returns a distinct replacement value.
type ModifiedAndReturnedError struct{}

func (e *ModifiedAndReturnedError) Error() string {
	return "draft: recipe both mutated the root draft and returned a value; a producer cannot do both"
}

// CircularReferenceError is returned when finalization detects a value
// that contains itself.
type CircularReferenceError struct {
	Path []any
}

func (e *CircularReferenceError) Error() string {
	return fmt.Sprintf("draft: circular reference detected at path %v", e.Path)
}

// BadArgumentError covers malformed calls: nil recipes, FinishManualDraft
// on a non-manual draft, and similar caller mistakes.
type BadArgumentError struct {
	Message string
}

func (e *BadArgumentError) Error() string {
	return "draft: " + e.Message
}

// UnsupportedOperationError covers operations this package explicitly forbids:
// a patch replace against a UniqueSet, a root-level patch other than
// replace, or an unrecognized patch op.
type UnsupportedOperationError struct {
	Op string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("draft: unsupported operation %q", e.Op)
}

// PathUnresolvedError is returned by ApplyPatches when a patch path walks
// into a non-container value or a forbidden segment.
type PathUnresolvedError struct {
	Path    []any
	Segment any
}

func (e *PathUnresolvedError) Error() string {
	return fmt.Sprintf("draft: patch path %v could not be resolved at segment %v", e.Path, e.Segment)
}

// errWrapf mirrors dig's helper of the same name: it prefixes msg
// (formatted with args, if any) to err using %w so errors.Is/errors.As
// still see through to the wrapped error.
func errWrapf(err error, msg string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
