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
	"fmt"
	"runtime"
	"strings"
)

// FrameSkipper allows fine-grained configuration of which stack frames are
// ignored when computing the true caller of Run/CreateManualDraft, the
// same knob dig exposes for Provide/Invoke.
type FrameSkipper func(f runtime.Frame) bool

func defaultFrameSkipper(f runtime.Frame) bool {
	if strings.Contains(f.File, "_test.go") {
		return false
	}
	if strings.Contains(f.File, "draftkit/draft") {
		return true
	}
	return false
}

// callerSite returns a formatted function name and line number identifying
// the entry-point call site, for inclusion in NotDraftableError and
// similar diagnostics — the same role frame.go's getCaller plays for dig's
// Provide/Invoke error messages.
func callerSite(skipper FrameSkipper) string {
	pcs := make([]uintptr, 8)
	n := runtime.Callers(2, pcs)
	if n > 0 {
		frames := runtime.CallersFrames(pcs)
		for f, more := frames.Next(); more; f, more = frames.Next() {
			if skipper(f) {
				continue
			}
			return fmt.Sprintf("%s:%d", f.Function, f.Line)
		}
	}
	return "n/a"
}
