// Copyright 2024 by the Authors
// This file is part of the go-core library.
//
// The go-core library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-core library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR ANY PURPOSE. See the GNU Lesser General Public
// License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-core library. If not, see <http://www.gnu.org/licenses/>.

package jshost

import (
	"runtime"

	"github.com/dop251/goja"
)

// heapGuard approximates a near-heap-limit callback.
// goja, unlike V8, exposes no native per-isolate heap accounting, so this
// measures process-wide Go heap growth against a baseline that checkBefore
// records at the start of each Apply; poll interrupts the runtime via
// goja's Interrupt once growth exceeds softLimit+headroom. Nothing in this
// package calls poll, so Apply never interrupts a running call and never
// returns a *TerminatedError.
type heapGuard struct {
	rt         *goja.Runtime
	baseline   uint64
	softLimit  uint64
	headroom   uint64
	tripped    bool
	trippedAt  uint64
}

func newHeapGuard(rt *goja.Runtime, softLimit, headroom uint64) *heapGuard {
	return &heapGuard{rt: rt, softLimit: softLimit, headroom: headroom}
}

func (h *heapGuard) checkBefore() error {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	h.baseline = stats.HeapAlloc
	return nil
}

// grown returns how many bytes the Go heap has grown since checkBefore
// was last called.
func (h *heapGuard) grown() uint64 {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	if stats.HeapAlloc <= h.baseline {
		return 0
	}
	return stats.HeapAlloc - h.baseline
}

// poll interrupts the runtime once grown() exceeds softLimit+headroom,
// at most once per guard. It has no caller in this package.
func (h *heapGuard) poll() {
	grown := h.grown()
	if grown > h.softLimit+h.headroom && !h.tripped {
		h.tripped = true
		h.trippedAt = grown
		h.rt.Interrupt("heap limit exceeded")
	}
}

func (h *heapGuard) exceeded() bool { return h.tripped }

func (h *heapGuard) currentBytes() uint64 {
	if h.tripped {
		return h.trippedAt
	}
	return h.grown()
}
