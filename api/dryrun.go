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
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/smartweave-go/evaluator/model"
	"github.com/smartweave-go/evaluator/replay"
)

// DryRunSpec is the dry-run file format: a contract plus a synthetic
// interaction list, evaluated with no gateway involved.
type DryRunSpec struct {
	ContractType   model.ContractType  `json:"contractType"`
	ContractSource string              `json:"contractSource"`
	InitialState   json.RawMessage     `json:"initialState"`
	Interactions   []DryRunInteraction `json:"interactions"`
}

// DryRunInteraction is one synthetic interaction; fields left at their
// zero value fall back to sensible defaults (sequential heights, tag-less
// Input).
type DryRunInteraction struct {
	ID             string          `json:"id"`
	Caller         string          `json:"caller"`
	Input          json.RawMessage `json:"input"`
	BlockID        string          `json:"blockId,omitempty"`
	BlockHeight    int64           `json:"blockHeight,omitempty"`
	BlockTimestamp int64           `json:"blockTimestamp,omitempty"`
	Quantity       string          `json:"quantity,omitempty"`
	Reward         string          `json:"reward,omitempty"`
	Recipient      string          `json:"recipient,omitempty"`
	Tags           []model.Tag     `json:"tags,omitempty"`
}

// EvaluateDryRun loads spec.ContractSource from disk, builds a model.Contract
// and model.Interaction list directly (bypassing the gateway entirely), and runs
// the replay loop against them.
func EvaluateDryRun(ctx context.Context, spec DryRunSpec) (*replay.Result, error) {
	sourceBytes, err := os.ReadFile(spec.ContractSource)
	if err != nil {
		return nil, fmt.Errorf("api: reading contract source: %w", err)
	}

	if spec.ContractType == model.ContractTypeEvm {
		decoded, err := hex.DecodeString(trimHexPrefix(string(sourceBytes)))
		if err != nil {
			return nil, fmt.Errorf("api: decoding EVM bytecode: %w", err)
		}
		sourceBytes = decoded
	}

	initState := spec.InitialState
	if len(initState) == 0 {
		if spec.ContractType == model.ContractTypeEvm {
			initState, _ = json.Marshal("")
		} else {
			initState = json.RawMessage("null")
		}
	}

	contract := &model.Contract{
		ID:          "dryrun",
		Type:        spec.ContractType,
		SourceBytes: sourceBytes,
		InitState:   initState,
	}

	interactions := make([]model.Interaction, 0, len(spec.Interactions))
	for idx, in := range spec.Interactions {
		inputTag := "null"
		if len(in.Input) > 0 {
			inputTag = string(in.Input)
		}
		tags := append([]model.Tag{{Name: "Input", Value: inputTag}}, in.Tags...)

		height := in.BlockHeight
		if height == 0 {
			height = int64(idx + 1)
		}
		interactions = append(interactions, model.Interaction{
			ID:           in.ID,
			OwnerAddress: in.Caller,
			Recipient:    in.Recipient,
			Quantity:     in.Quantity,
			Reward:       in.Reward,
			Tags:         tags,
			Block: model.Block{
				Height:    height,
				IndepHash: in.BlockID,
				Timestamp: in.BlockTimestamp,
			},
		})
	}

	var eng replay.Engine
	return eng.EvaluateLocal(ctx, contract, model.ContractInfo{}, interactions)
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}
