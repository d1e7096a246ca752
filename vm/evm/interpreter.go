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

package evm

// maxCallDepth bounds CALL/CALLCODE/DELEGATECALL recursion; this machine
// carries no gas-metered call stack, so depth is the only thing stopping
// a pathological contract from recursing forever.
const maxCallDepth = 256

// gasPerOp is the nominal, unenforced per-instruction cost; gas is
// reported but not enforced" note asks for: callers can read Result.GasUsed
// for diagnostics, but Run never aborts on exhaustion.
const gasPerOp = 1

// Run executes m.Code from pc 0 until a halting opcode, a fault, or the
// code runs out, and returns the resulting Result. It never returns a bare
// Go error for an in-contract fault (bad opcode, stack fault, invalid
// jump, division by zero): those are folded into Result.State so that a
// crashed contract looks, to the replay engine, just like one that
// deliberately REVERTed.
func (m *Machine) Run() (*Result, error) {
	if m.depth > maxCallDepth {
		return &Result{State: StateAbort, Abort: InvalidOpcode}, nil
	}

	var pc uint64
	code := m.Code

	for {
		if pc >= uint64(len(code)) {
			return &Result{State: StateOk, GasUsed: m.GasUsed}, nil
		}

		op := OpCode(code[pc])
		operation := instructionSet[op]
		if operation == nil {
			return &Result{State: StateAbort, Abort: InvalidOpcode, GasUsed: m.GasUsed}, nil
		}

		if m.stack.len() < operation.minStack {
			return &Result{State: StateAbort, Abort: InvalidOpcode, GasUsed: m.GasUsed}, nil
		}
		if m.stack.len() > operation.maxStack {
			return &Result{State: StateAbort, Abort: InvalidOpcode, GasUsed: m.GasUsed}, nil
		}

		ret, err := operation.execute(&pc, m, m.stack, m.memory)
		m.GasUsed += gasPerOp

		if err != nil {
			switch err {
			case errDivByZero:
				return &Result{State: StateAbort, Abort: DivZero, GasUsed: m.GasUsed}, nil
			case errInvalidJump:
				return &Result{State: StateAbort, Abort: InvalidOpcode, GasUsed: m.GasUsed}, nil
			default:
				return &Result{State: StateAbort, Abort: InvalidOpcode, GasUsed: m.GasUsed}, nil
			}
		}

		if operation.halts {
			state := StateOk
			if operation.reverts {
				state = StateRevert
			}
			return &Result{State: state, Return: ret, GasUsed: m.GasUsed}, nil
		}

		if operation.returns {
			// CALL family: ret is unused (success flag already pushed by
			// the opcode itself), continue execution.
		}

		if !operation.jumps {
			pc++
		}
	}
}
