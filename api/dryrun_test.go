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

package api

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartweave-go/evaluator/model"
	"github.com/smartweave-go/evaluator/replay"
)

// TestEvaluateDryRunJSException is scenario 2: a contract that throws on
// even invocations, verified through the dry-run file format end to
// end (source read from disk, not constructed in-process).
func TestEvaluateDryRunJSException(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "contract.js")
	src := `export async function handle(state, action) {
		if ((action.input.attempt + 1) % 2 === 0) {
			throw new Error("even invocation");
		}
		return { state: { calls: state.calls + 1 } };
	}`
	require.NoError(t, os.WriteFile(srcPath, []byte(src), 0o644))

	spec := DryRunSpec{
		ContractType:   model.ContractTypeJS,
		ContractSource: srcPath,
		InitialState:   json.RawMessage(`{"calls":0}`),
	}
	for attempt := 0; attempt < 3; attempt++ {
		input, err := json.Marshal(map[string]int{"attempt": attempt})
		require.NoError(t, err)
		spec.Interactions = append(spec.Interactions, DryRunInteraction{
			ID:          []string{"id1", "id2", "id3"}[attempt],
			Caller:      "owner",
			Input:       input,
			BlockHeight: int64(attempt + 1),
		})
	}

	result, err := EvaluateDryRun(context.Background(), spec)
	require.NoError(t, err)

	want := []bool{true, false, true}
	for idx, id := range []string{"id1", "id2", "id3"} {
		ok, present := result.Validity.Get(id)
		assert.True(t, present)
		assert.Equal(t, want[idx], ok)
	}
}

// TestResponseOmitsValidityByDefault checks the response-body shape:
// {state} unless showValidity was requested.
func TestResponseOmitsValidityByDefault(t *testing.T) {
	validity := model.NewValidityTable()
	validity.Set("id1", true)
	result := &replay.Result{State: json.RawMessage(`{"ok":true}`), Validity: validity}

	resp := Response(result, false)
	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "validity")

	resp = Response(result, true)
	raw, err = json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "validity")
}
