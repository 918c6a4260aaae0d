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

// Option configures an Engine. It's included for future functionality the
// same way dig's Option is used for its own knobs: currently WithAutoFreeze,
// WithStrictShallowCopy and WithFrameSkipper are the only implementations.
type Option interface {
	apply(*Engine)
}

type optionFunc func(*Engine)

func (f optionFunc) apply(e *Engine) { f(e) }

// WithAutoFreeze toggles whether a successful root-scope Run deep-freezes
// its result (subject to the autoFreezeAllowed escape hatch). Enabled
// by default.
func WithAutoFreeze(enabled bool) Option {
	return optionFunc(func(e *Engine) {
		e.autoFreeze.Store(enabled)
	})
}

// WithStrictShallowCopy selects the Record shallow-copy discipline.
// Defaults to ShallowCopyClassOnly.
func WithStrictShallowCopy(mode ShallowCopyMode) Option {
	return optionFunc(func(e *Engine) {
		e.strictShallowCopy = mode
	})
}

// WithFrameSkipper overrides which stack frames are considered "inside the
// library" when computing a diagnostic call site, mirroring dig's
// WithFrameSkipper — useful when Run is wrapped by another framework.
func WithFrameSkipper(s FrameSkipper) Option {
	return optionFunc(func(e *Engine) {
		e.skipper = s
	})
}
