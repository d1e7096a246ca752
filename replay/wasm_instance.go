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
	"encoding/json"

	"github.com/smartweave-go/evaluator/model"
	"github.com/smartweave-go/evaluator/vm/wasmhost"
)

// wasmInstance adapts a *wasmhost.Host to Instance. A guest trap keeps
// the prior state: on trap, keep the previous state.
type wasmInstance struct {
	host  *wasmhost.Host
	state json.RawMessage
}

func newWASMInstance(host *wasmhost.Host, initState json.RawMessage) *wasmInstance {
	return &wasmInstance{host: host, state: initState}
}

func (w *wasmInstance) Apply(i model.Interaction) error {
	var input interface{}
	if raw := i.InputTag(); raw != "" {
		if err := json.Unmarshal([]byte(raw), &input); err != nil {
			return err
		}
	}

	newState, err := w.host.Apply(w.state, wasmhost.CallInput{Input: input, Caller: i.OwnerAddress}, model.InteractionContext{
		Transaction: i,
		Block:       i.Block,
	})
	if err != nil {
		return err
	}
	w.state = newState
	return nil
}

func (w *wasmInstance) State() (json.RawMessage, error) { return w.state, nil }

func (w *wasmInstance) Evolved() (string, bool) { return "", false }
