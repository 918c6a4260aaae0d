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
	"sync"

	"github.com/google/uuid"
	"go.uber.org/atomic"
)

// Engine owns a scope stack and the configuration (auto-freeze,
// shallow-copy strictness) that governs every Run/CreateManualDraft it
// services. It plays the role dig's Container plays for Provide/Invoke:
// the caller rarely needs more than one, so Default backs the package-level
// free functions, but nothing stops a caller from constructing independent
// Engines with different configurations.
type Engine struct {
	autoFreeze        atomic.Bool
	strictShallowCopy ShallowCopyMode
	skipper           FrameSkipper

	mu      sync.Mutex
	current *scope
}

// New constructs an Engine with the documented defaults: auto-freeze on,
// strict-shallow-copy limited to registered class instances.
func New(opts ...Option) *Engine {
	e := &Engine{
		strictShallowCopy: ShallowCopyClassOnly,
		skipper:           defaultFrameSkipper,
	}
	e.autoFreeze.Store(true)
	for _, opt := range opts {
		opt.apply(e)
	}
	return e
}

// Default is the package-wide Engine backing Run, RunWithPatches,
// CreateManualDraft, FinishManualDraft, and ApplyPatches. Snapshot uses no
// Engine.
var Default = New()

// scope is the context object that owns every draft
// created during one Run (or one manual-draft lifetime), decides whether
// auto-freeze is still permitted for its output, and holds the forward and
// inverse patch buffers when a patch sink is active.
type scope struct {
	id     uuid.UUID
	engine *Engine
	parent *scope

	drafts []Draft

	autoFreezeAllowed atomic.Bool
	unfinalizedCount  atomic.Int64

	patchesEnabled bool
	forward        []Patch
	inverse        []Patch
}

func newScope(e *Engine, parent *scope) *scope {
	s := &scope{
		id:     uuid.New(),
		engine: e,
		parent: parent,
	}
	s.autoFreezeAllowed.Store(true)
	return s
}

// enter pushes a fresh scope onto e's stack and returns it, analogous to dig's
// Enter().
func (e *Engine) enter() *scope {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := newScope(e, e.current)
	e.current = s
	return s
}

// revoke pops s if it is the top of e's stack (a scope below the top is left
// in place and the current scope is unchanged) and permanently invalidates
// every draft it owns,
// analogous to dig's Scope teardown, following this engine's
// cooperative-invalidation cancellation model. Both the success and the
// abort path end a scope by revoking it: a draft is equally unusable after
// a clean finalize (its value has already been computed into the result)
// as after an abort, so unlike dig's Scope, which keeps Leave and Revoke
// distinct for successful-teardown-without-invalidation semantics, this
// engine collapses them into the one operation every Run/FinishManualDraft
// path calls.
func (e *Engine) revoke(s *scope) {
	e.mu.Lock()
	if e.current == s {
		e.current = s.parent
	}
	e.mu.Unlock()

	for _, d := range s.drafts {
		d.state().revoked.Store(true)
	}
}

func (s *scope) addDraft(d Draft) {
	s.drafts = append(s.drafts, d)
}

// disableAutoFreeze clears autoFreezeAllowed: set when
// finalization discovers a draft belonging to a different, still-live
// scope reachable from this scope's output.
func (s *scope) disableAutoFreeze() {
	s.autoFreezeAllowed.Store(false)
}

func (s *scope) addPatch(fwd, inv Patch) {
	if !s.patchesEnabled {
		return
	}
	s.forward = append(s.forward, fwd)
	s.inverse = append(s.inverse, inv)
}

// appendPatches appends a whole batch to the forward and inverse buffers
// in the order given, for callers (the Sequence tail generator) that need
// each buffer's internal ordering to differ from the other's rather than
// pairing one fwd/inv Patch at a time.
func (s *scope) appendPatches(fwd, inv []Patch) {
	if !s.patchesEnabled {
		return
	}
	s.forward = append(s.forward, fwd...)
	s.inverse = append(s.inverse, inv...)
}

// prependInverse pushes an inverse patch to the front of the inverse list,
// used by the UniqueSet patch generator so replaying the inverse
// list in order restores original element ordering.
func (s *scope) prependInverse(p Patch) {
	if !s.patchesEnabled {
		return
	}
	s.inverse = append([]Patch{p}, s.inverse...)
}

func (s *scope) prependForward(p Patch) {
	if !s.patchesEnabled {
		return
	}
	s.forward = append([]Patch{p}, s.forward...)
}
