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
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartweave-go/evaluator/model"
)

// TestJSCounter is end-to-end scenario 1: two interactions increment a
// counter field from 0 to 2.
func TestJSCounter(t *testing.T) {
	src := []byte(`export async function handle(s,a){ return { state: { counter: s.counter+1 } } }`)
	h, err := New(src, model.ContractInfo{}, Options{})
	require.NoError(t, err)

	state := json.RawMessage(`{"counter":0}`)
	for i := 0; i < 2; i++ {
		res, err := h.Apply(state, CallInput{Input: map[string]interface{}{}, Caller: "owner"}, model.InteractionContext{})
		require.NoError(t, err)
		require.True(t, res.HasState)
		state = res.State
	}

	var decoded struct {
		Counter int `json:"counter"`
	}
	require.NoError(t, json.Unmarshal(state, &decoded))
	assert.Equal(t, 2, decoded.Counter)
}

// TestJSException is end-to-end scenario 2: handle throws on even
// invocations; validity reflects only the successful, odd ones.
func TestJSException(t *testing.T) {
	src := []byte(`
export async function handle(s, a) {
  if ((a.input.attempt + 1) % 2 === 0) { throw new Error("boom"); }
  return { state: { calls: s.calls + 1 } };
}`)
	h, err := New(src, model.ContractInfo{}, Options{})
	require.NoError(t, err)

	state := json.RawMessage(`{"calls":0}`)
	var validity []bool
	for attempt := 0; attempt < 3; attempt++ {
		input := map[string]interface{}{"attempt": attempt}
		res, err := h.Apply(state, CallInput{Input: input}, model.InteractionContext{})
		if err != nil {
			validity = append(validity, false)
			continue
		}
		validity = append(validity, true)
		if res.HasState {
			state = res.State
		}
	}

	assert.Equal(t, []bool{true, false, true}, validity)
}

func TestOwnerToAddress(t *testing.T) {
	addr, err := ownerToAddress("AQAB")
	require.NoError(t, err)
	assert.NotEmpty(t, addr)
}
