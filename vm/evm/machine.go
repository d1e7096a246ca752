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

// Package evm implements the stack/word/memory/storage machine over a
// subset of EVM opcodes. It has no notion of accounts,
// balances, gas markets or precompiles: those concerns belong to a chain
// client, not a deterministic contract-replay evaluator.
package evm

import "github.com/core-coin/uint256"

// ExecutionState is the outcome of a Run call.
type ExecutionState int

const (
	// StateOk means RETURN or STOP was reached, or execution ran past the
	// end of the code; Result holds the returned bytes (empty unless RETURN).
	StateOk ExecutionState = iota
	// StateRevert means REVERT or INVALID was reached; state changes made
	// during this run must still be discarded by the caller.
	StateRevert
	// StateAbort means an unrecoverable fault occurred (bad opcode,
	// division by zero); Result.Abort names which.
	StateAbort
)

func (s ExecutionState) String() string {
	switch s {
	case StateOk:
		return "Ok"
	case StateRevert:
		return "Revert"
	case StateAbort:
		return "Abort"
	default:
		return "unknown"
	}
}

// Result is the outcome of a single Run call.
type Result struct {
	State  ExecutionState
	Return []byte
	Abort  AbortReason
	GasUsed uint64
}

// ContractSource is what a CALL/CALLCODE/DELEGATECALL target needs:
// existing storage to run against, and bytecode to interpret. A nil
// return means the address has no deployed contract.
type ContractSource struct {
	Storage  *Storage
	Bytecode []byte
}

// Host is the capability a Machine needs to resolve cross-contract calls.
// It is supplied by the replay engine, which in turn may consult the
// interaction cache or the gateway to answer it.
type Host interface {
	FetchContract(addr Word) (*ContractSource, bool)
}

// nopHost answers every FetchContract with "not found"; used when a
// Machine is constructed without cross-contract call support (e.g. in
// isolated unit tests).
type nopHost struct{}

func (nopHost) FetchContract(Word) (*ContractSource, bool) { return nil, false }

// BlockContext carries the environment values the ADDRESS/TIMESTAMP/
// NUMBER/etc. family of opcodes read. It is supplied once per Run and
// never mutated by the interpreter.
type BlockContext struct {
	Number     uint64
	Timestamp  uint64
	Difficulty uint64
	GasLimit   uint64
}

// Machine is a single EVM execution context: stack, memory, storage, call
// data and the owner account that SLOAD/SSTORE operate against.
type Machine struct {
	stack   *Stack
	memory  *Memory
	Storage *Storage
	Data    []byte
	Code    []byte
	GasUsed uint64
	Owner   Word

	returnData []byte

	host  Host
	block BlockContext
	depth int
}

// NewMachine returns a Machine ready to Run bytecode against storage,
// scoped to owner, with call data data.
func NewMachine(owner Word, storage *Storage, data []byte, block BlockContext, host Host) *Machine {
	if host == nil {
		host = nopHost{}
	}
	if storage == nil {
		storage = NewStorage()
	}
	return &Machine{
		stack:   newStack(),
		memory:  newMemory(),
		Storage: storage,
		Data:    data,
		Owner:   owner,
		host:    host,
		block:   block,
	}
}

// subMachine constructs the sub-machine a CALL family opcode executes the
// callee in: it runs against the storage it is given (runCall passes the
// caller's storage when the owner stays the caller, the callee's
// otherwise) and shares the parent's host, but owns its own stack/memory,
// per the concurrency model's "owns its own stack/memory" rule.
func (m *Machine) subMachine(owner Word, storage *Storage, data []byte) *Machine {
	sub := NewMachine(owner, storage, data, m.block, m.host)
	sub.depth = m.depth + 1
	return sub
}

func wordFromUint256(v *uint256.Int) Word {
	b := v.Bytes32()
	return Word(b)
}
