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
	"github.com/smartweave-go/evaluator/vm/jshost"
)

// jsInstance adapts a *jshost.Host to Instance.
type jsInstance struct {
	host     *jshost.Host
	state    json.RawMessage
	evolve   string
	evolving bool
	exm      bool
}

func newJSInstance(host *jshost.Host, initState json.RawMessage, exmMode bool) *jsInstance {
	return &jsInstance{host: host, state: initState, exm: exmMode}
}

func (j *jsInstance) Apply(i model.Interaction) error {
	var input interface{}
	if raw := i.InputTag(); raw != "" {
		if err := json.Unmarshal([]byte(raw), &input); err != nil {
			return err
		}
	}

	res, err := j.host.Apply(j.state, jshost.CallInput{Input: input, Caller: i.OwnerAddress}, model.InteractionContext{
		Transaction: i,
		Block:       i.Block,
	})
	if err != nil {
		return err
	}

	if res.HasState {
		j.state = res.State
	}
	if res.CanEvolve && !j.exm {
		j.evolve = res.Evolve
		j.evolving = true
	}
	return nil
}

func (j *jsInstance) State() (json.RawMessage, error) { return j.state, nil }

func (j *jsInstance) Evolved() (string, bool) {
	if !j.evolving {
		return "", false
	}
	j.evolving = false
	return j.evolve, true
}
