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

package replay

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartweave-go/evaluator/model"
)

// TestEvaluateLocalJSCounter is scenario 1 run through the full orchestrator
// (filter/sort/replay) rather than directly against jshost, exercising
// EvaluateLocal the way a dry-run caller would.
func TestEvaluateLocalJSCounter(t *testing.T) {
	src := `export async function handle(state, action) {
		return { state: { counter: state.counter + 1 } };
	}`
	contract := &model.Contract{
		ID:          "dryrun",
		Type:        model.ContractTypeJS,
		SourceBytes: []byte(src),
		InitState:   json.RawMessage(`{"counter":0}`),
	}
	interactions := []model.Interaction{
		{ID: "id1", OwnerAddress: "owner", Tags: []model.Tag{{Name: "Input", Value: "null"}}, Block: model.Block{Height: 1, IndepHash: "a"}},
		{ID: "id2", OwnerAddress: "owner", Tags: []model.Tag{{Name: "Input", Value: "null"}}, Block: model.Block{Height: 2, IndepHash: "b"}},
	}

	var eng Engine
	result, err := eng.EvaluateLocal(context.Background(), contract, model.ContractInfo{}, interactions)
	require.NoError(t, err)

	var state struct {
		Counter int `json:"counter"`
	}
	require.NoError(t, json.Unmarshal(result.State, &state))
	assert.Equal(t, 2, state.Counter)

	ok1, present1 := result.Validity.Get("id1")
	ok2, present2 := result.Validity.Get("id2")
	assert.True(t, present1 && ok1)
	assert.True(t, present2 && ok2)
}

// TestEvaluateLocalFiltersBundleChildren checks that interactions whose
// parent.id or bundled_in.id is set are filtered out before replay".
func TestEvaluateLocalFiltersBundleChildren(t *testing.T) {
	src := `export async function handle(state, action) {
		return { state: { counter: state.counter + 1 } };
	}`
	contract := &model.Contract{
		ID:          "dryrun",
		Type:        model.ContractTypeJS,
		SourceBytes: []byte(src),
		InitState:   json.RawMessage(`{"counter":0}`),
	}
	interactions := []model.Interaction{
		{ID: "id1", Tags: []model.Tag{{Name: "Input", Value: "null"}}, Block: model.Block{Height: 1, IndepHash: "a"}},
		{ID: "id2", Tags: []model.Tag{{Name: "Input", Value: "null"}}, Block: model.Block{Height: 2, IndepHash: "b"}, Parent: &model.Ref{ID: "bundle"}},
	}

	var eng Engine
	result, err := eng.EvaluateLocal(context.Background(), contract, model.ContractInfo{}, interactions)
	require.NoError(t, err)

	var state struct {
		Counter int `json:"counter"`
	}
	require.NoError(t, json.Unmarshal(result.State, &state))
	assert.Equal(t, 1, state.Counter)
	assert.Equal(t, 1, result.Validity.Len())
}

// TestEvaluateLocalEvm runs scenario 5's PUSH/ADD program end-to-end
// through VM selection rather than constructing an *evm.Machine directly.
func TestEvaluateLocalEvm(t *testing.T) {
	code := []byte{0x60, 0x01, 0x60, 0x02, 0x01} // PUSH1 1, PUSH1 2, ADD
	contract := &model.Contract{
		ID:          "dryrun-evm",
		Type:        model.ContractTypeEvm,
		SourceBytes: code,
		InitState:   json.RawMessage(`""`),
	}
	interactions := []model.Interaction{
		{ID: "id1", Block: model.Block{Height: 1, IndepHash: "a"}},
	}

	var eng Engine
	result, err := eng.EvaluateLocal(context.Background(), contract, model.ContractInfo{}, interactions)
	require.NoError(t, err)

	ok, present := result.Validity.Get("id1")
	assert.True(t, present)
	assert.True(t, ok)
}
