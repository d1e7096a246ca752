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

package wasmhost

import (
	"encoding/json"
	"fmt"

	"github.com/smartweave-go/evaluator/model"
)

// CallInput mirrors jshost.CallInput: the `{input, caller}` object built
// by the replay engine for every interaction.
type CallInput struct {
	Input  interface{} `json:"input"`
	Caller string      `json:"caller"`
}

// Apply runs one interaction through the guest's handle export per
// the per-interaction call protocol: serialise state/action/info to
// JSON, copy each into a fresh guest allocation, invoke handle, and read
// back get_len()/the result bytes as the new state. A guest trap is
// returned as an error; the caller treats it identically to a JS
// throw — the interaction is invalid, state is unchanged.
func (h *Host) Apply(state json.RawMessage, input CallInput, ctx model.InteractionContext) ([]byte, error) {
	stateBytes := state
	if len(stateBytes) == 0 {
		stateBytes = []byte("null")
	}
	actionBytes, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("wasmhost: encoding action: %w", err)
	}
	infoBytes, err := json.Marshal(ctx)
	if err != nil {
		return nil, fmt.Errorf("wasmhost: encoding info: %w", err)
	}

	statePtr, stateLen, err := h.copyIn(stateBytes)
	if err != nil {
		return nil, err
	}
	actionPtr, actionLen, err := h.copyIn(actionBytes)
	if err != nil {
		return nil, err
	}
	infoPtr, infoLen, err := h.copyIn(infoBytes)
	if err != nil {
		return nil, err
	}

	handleFn := h.module.ExportedFunction("handle")
	results, err := handleFn.Call(h.ctx,
		uint64(statePtr), uint64(stateLen),
		uint64(actionPtr), uint64(actionLen),
		uint64(infoPtr), uint64(infoLen),
	)
	if err != nil {
		return nil, fmt.Errorf("wasmhost: guest trap: %w", err)
	}
	resultPtr := uint32(results[0])

	getLenFn := h.module.ExportedFunction("get_len")
	lenResults, err := getLenFn.Call(h.ctx)
	if err != nil {
		return nil, fmt.Errorf("wasmhost: guest trap reading get_len: %w", err)
	}
	resultLen := uint32(lenResults[0])

	resultBytes, ok := h.module.Memory().Read(resultPtr, resultLen)
	if !ok {
		return nil, fmt.Errorf("wasmhost: result window [%d,%d) out of bounds", resultPtr, resultPtr+resultLen)
	}

	out := make([]byte, len(resultBytes))
	copy(out, resultBytes)
	return out, nil
}

// copyIn allocates len(data) bytes in guest memory via _alloc and copies
// data into it, returning the pointer and length.
func (h *Host) copyIn(data []byte) (uint32, uint32, error) {
	ptr, err := h.alloc(h.ctx, uint32(len(data)))
	if err != nil {
		return 0, 0, fmt.Errorf("wasmhost: _alloc(%d): %w", len(data), err)
	}
	if len(data) > 0 && !h.module.Memory().Write(ptr, data) {
		return 0, 0, fmt.Errorf("wasmhost: writing %d bytes at %d out of bounds", len(data), ptr)
	}
	return ptr, uint32(len(data)), nil
}
