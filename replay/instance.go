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

// Package replay is the orchestrator: it loads a contract and its
// interaction history, canonically orders them, replays each against one
// of the three VM families, and records a validity table.
package replay

import (
	"encoding/json"

	"github.com/smartweave-go/evaluator/model"
)

// Instance is the tagged-variant capability set used in place of a
// class hierarchy: {Js, Wasm, Evm} each implement Apply/State/Evolved.
// Exactly one Instance exists per evaluation and it is fed interactions
// strictly in sort-key order; it owns its state and is never shared
// across goroutines.
type Instance interface {
	// Apply runs one interaction against the instance's current state. A
	// non-nil error means the interaction is invalid: state MUST be left
	// exactly as it was before the call (validity isolation).
	Apply(i model.Interaction) error

	// State returns the current state as JSON: the contract state for
	// JS/WASM instances, or a JSON string holding the hex of the EVM
	// storage codec's raw bytes for an EVM instance.
	State() (json.RawMessage, error)

	// Evolved reports a pending contract-source migration requested by
	// the most recent successful Apply; JS-only, always ("", false)
	// elsewhere or in EXM mode.
	Evolved() (txid string, ok bool)
}
