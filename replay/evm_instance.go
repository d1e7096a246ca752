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
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/smartweave-go/evaluator/model"
	"github.com/smartweave-go/evaluator/vm/evm"
)

// evmInstance adapts the evm package's Storage/Machine pair to Instance.
// There is no persistent "VM" object between calls the way jshost/wasmhost
// keep one: each Apply constructs a fresh *evm.Machine scoped to the
// instance's current storage, per machine.go's "Machine is a single
// execution context" contract.
type evmInstance struct {
	owner   evm.Word
	code    []byte
	storage *evm.Storage
	block   evm.BlockContext
	host    evm.Host
}

func newEVMInstance(owner evm.Word, code []byte, storage *evm.Storage, block evm.BlockContext, host evm.Host) *evmInstance {
	return &evmInstance{owner: owner, code: code, storage: storage, block: block, host: host}
}

// Apply hex-decodes the Input tag as call data and interprets it against
// the instance's bytecode and storage. On each call:
// on StateOk the new storage is adopted and the interaction recorded
// valid; on StateRevert/StateAbort storage is left untouched and an error
// is returned so the replay loop marks the interaction invalid.
func (e *evmInstance) Apply(i model.Interaction) error {
	raw := i.InputTag()
	data, err := hex.DecodeString(trimHexPrefix(raw))
	if err != nil {
		return fmt.Errorf("replay: evm: decoding Input tag: %w", err)
	}

	// Run against a copy so a reverted or aborted call leaves e.storage
	// as it was.
	working, err := evm.StorageFromRaw(e.storage.Raw())
	if err != nil {
		return err
	}
	m := evm.NewMachine(e.owner, working, data, e.block, e.host)
	m.Code = e.code

	res, err := m.Run()
	if err != nil {
		return err
	}
	switch res.State {
	case evm.StateOk:
		e.storage = m.Storage
		return nil
	case evm.StateRevert:
		return fmt.Errorf("replay: evm: execution reverted")
	default:
		return fmt.Errorf("replay: evm: aborted: %s", res.Abort)
	}
}

// State renders the instance's storage through the flat storage codec so
// the cache and the public API see the same hex dump a
// contract's init_state would carry.
func (e *evmInstance) State() (json.RawMessage, error) {
	raw := e.storage.Raw()
	encoded, err := json.Marshal(hex.EncodeToString(raw))
	if err != nil {
		return nil, err
	}
	return encoded, nil
}

func (e *evmInstance) Evolved() (string, bool) { return "", false }

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}
