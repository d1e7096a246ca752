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

	"github.com/dop251/goja"
)

// parseApplyResult decodes handle()'s return value: undefined
// means "no-op, keep prior state"; otherwise an object carrying an
// optional `state` (a canEvolve/evolve pair signals contract evolution)
// and an optional out-of-band `result`.
func parseApplyResult(v goja.Value) (ApplyResult, error) {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return ApplyResult{}, nil
	}

	exported := v.Export()
	raw, err := json.Marshal(exported)
	if err != nil {
		return ApplyResult{}, err
	}

	var shape struct {
		State  json.RawMessage `json:"state"`
		Result interface{}     `json:"result"`
	}
	if err := json.Unmarshal(raw, &shape); err != nil {
		return ApplyResult{}, err
	}

	res := ApplyResult{Result: shape.Result}
	if len(shape.State) == 0 || string(shape.State) == "null" {
		return res, nil
	}
	res.HasState = true
	res.State = shape.State

	var evolveShape struct {
		CanEvolve bool   `json:"canEvolve"`
		Evolve    string `json:"evolve"`
	}
	if err := json.Unmarshal(shape.State, &evolveShape); err == nil && evolveShape.CanEvolve {
		res.CanEvolve = true
		res.Evolve = evolveShape.Evolve
	}

	return res, nil
}
