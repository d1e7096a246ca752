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
	"fmt"

	"github.com/dop251/goja"
)

// noopProgram is re-run between polls of a still-pending promise to force
// goja to drain any queued microtask jobs; this engine exposes no real
// asynchronous I/O, so a handful of drains is always enough in practice.
var noopProgram = goja.MustCompile("file:///drain.js", "void 0;", false)

// drainPromise forces the runtime's job queue to completion and reads the
// settled value of v, which must be either an immediate value (a contract
// that returned synchronously) or a goja Promise. It never returns with a
// pending promise: the host must drive the event loop to
// completion before reading a result.
func drainPromise(rt *goja.Runtime, v goja.Value) (goja.Value, error, error) {
	promise, ok := v.Export().(*goja.Promise)
	if !ok {
		// handle() returned a plain value (or nothing); not a thenable.
		return v, nil, nil
	}

	const maxDrainAttempts = 1000
	for i := 0; i < maxDrainAttempts && promise.State() == goja.PromiseStatePending; i++ {
		if _, err := rt.RunProgram(noopProgram); err != nil {
			return nil, nil, fmt.Errorf("jshost: draining event loop: %w", err)
		}
	}

	switch promise.State() {
	case goja.PromiseStateFulfilled:
		return promise.Result(), nil, nil
	case goja.PromiseStateRejected:
		return nil, fmt.Errorf("%v", promise.Result()), nil
	default:
		return nil, nil, fmt.Errorf("jshost: handle() promise never settled")
	}
}
