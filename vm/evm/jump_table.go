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

// executionFunc runs one opcode, returning opcode-produced bytes (only
// meaningful for RETURN/REVERT) and an error.
type executionFunc func(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error)

// operation is one jump-table entry, modelled on core/vm.operation but
// stripped of the energy/tracer/precompile fields this machine does not
// need.
type operation struct {
	execute  executionFunc
	minStack int
	maxStack int

	halts   bool // STOP/RETURN/REVERT/INVALID: execution ends here
	jumps   bool // JUMP/JUMPI: pc is set by the opcode, do not auto-increment
	reverts bool // REVERT/INVALID: halts with StateRevert
	returns bool // sets Result to the returned bytes
}

// JumpTable maps every possible opcode byte to its operation; nil entries
// are invalid opcodes.
type JumpTable [256]*operation

func minStack(pops, pushes int) int { return pops }
func maxStack(pops, pushes int) int { return stackLimit + pops - pushes }

// instructionSet is the single, fork-less opcode table this machine uses
// (no forks/hardforks here, unlike core/vm's per-CIP tables).
var instructionSet = newInstructionSet()

func newInstructionSet() JumpTable {
	var jt JumpTable

	set := func(op OpCode, o operation) { jt[op] = &o }

	set(STOP, operation{execute: opStop, minStack: minStack(0, 0), maxStack: maxStack(0, 0), halts: true})
	set(ADD, operation{execute: opAdd, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(MUL, operation{execute: opMul, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(SUB, operation{execute: opSub, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(DIV, operation{execute: opDiv, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(SDIV, operation{execute: opSdiv, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(MOD, operation{execute: opMod, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(SMOD, operation{execute: opSmod, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(ADDMOD, operation{execute: opAddMod, minStack: minStack(3, 1), maxStack: maxStack(3, 1)})
	set(MULMOD, operation{execute: opMulMod, minStack: minStack(3, 1), maxStack: maxStack(3, 1)})
	set(EXP, operation{execute: opExp, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(SIGNEXTEND, operation{execute: opSignExtend, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})

	set(LT, operation{execute: opLt, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(GT, operation{execute: opGt, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(SLT, operation{execute: opSlt, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(SGT, operation{execute: opSgt, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(EQ, operation{execute: opEq, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(ISZERO, operation{execute: opIsZero, minStack: minStack(1, 1), maxStack: maxStack(1, 1)})
	set(AND, operation{execute: opAnd, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(OR, operation{execute: opOr, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(XOR, operation{execute: opXor, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(NOT, operation{execute: opNot, minStack: minStack(1, 1), maxStack: maxStack(1, 1)})
	set(BYTE, operation{execute: opByte, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(SHL, operation{execute: opSHL, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(SHR, operation{execute: opSHR, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})
	set(SAR, operation{execute: opSAR, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})

	set(KECCAK256, operation{execute: opKeccak256, minStack: minStack(2, 1), maxStack: maxStack(2, 1)})

	set(ADDRESS, operation{execute: opAddress, minStack: minStack(0, 1), maxStack: maxStack(0, 1)})
	set(CALLVALUE, operation{execute: opCallValue, minStack: minStack(0, 1), maxStack: maxStack(0, 1)})
	set(CALLDATALOAD, operation{execute: opCallDataLoad, minStack: minStack(1, 1), maxStack: maxStack(1, 1)})
	set(CALLDATASIZE, operation{execute: opCallDataSize, minStack: minStack(0, 1), maxStack: maxStack(0, 1)})
	set(CALLDATACOPY, operation{execute: opCallDataCopy, minStack: minStack(3, 0), maxStack: maxStack(3, 0)})
	set(CODESIZE, operation{execute: opCodeSize, minStack: minStack(0, 1), maxStack: maxStack(0, 1)})
	set(CODECOPY, operation{execute: opCodeCopy, minStack: minStack(3, 0), maxStack: maxStack(3, 0)})
	set(RETURNDATASIZE, operation{execute: opReturnDataSize, minStack: minStack(0, 1), maxStack: maxStack(0, 1)})
	set(RETURNDATACOPY, operation{execute: opReturnDataCopy, minStack: minStack(3, 0), maxStack: maxStack(3, 0)})

	for _, op := range []OpCode{BALANCE, ORIGIN, GASPRICE, COINBASE, MSIZE, GAS, EXTCODESIZE} {
		set(op, operation{execute: opPushZero, minStack: minStack(0, 1), maxStack: maxStack(0, 1)})
	}
	set(EXTCODECOPY, operation{execute: opNoopQuad, minStack: minStack(4, 0), maxStack: maxStack(4, 0)})

	set(BLOCKHASH, operation{execute: opBlockhash, minStack: minStack(1, 1), maxStack: maxStack(1, 1)})
	set(TIMESTAMP, operation{execute: opTimestamp, minStack: minStack(0, 1), maxStack: maxStack(0, 1)})
	set(NUMBER, operation{execute: opNumber, minStack: minStack(0, 1), maxStack: maxStack(0, 1)})
	set(DIFFICULTY, operation{execute: opDifficulty, minStack: minStack(0, 1), maxStack: maxStack(0, 1)})
	set(GASLIMIT, operation{execute: opGasLimit, minStack: minStack(0, 1), maxStack: maxStack(0, 1)})

	set(POP, operation{execute: opPop, minStack: minStack(1, 0), maxStack: maxStack(1, 0)})
	set(MLOAD, operation{execute: opMload, minStack: minStack(1, 1), maxStack: maxStack(1, 1)})
	set(MSTORE, operation{execute: opMstore, minStack: minStack(2, 0), maxStack: maxStack(2, 0)})
	set(MSTORE8, operation{execute: opMstore8, minStack: minStack(2, 0), maxStack: maxStack(2, 0)})
	set(SLOAD, operation{execute: opSload, minStack: minStack(1, 1), maxStack: maxStack(1, 1)})
	set(SSTORE, operation{execute: opSstore, minStack: minStack(2, 0), maxStack: maxStack(2, 0)})
	set(JUMP, operation{execute: opJump, minStack: minStack(1, 0), maxStack: maxStack(1, 0), jumps: true})
	set(JUMPI, operation{execute: opJumpi, minStack: minStack(2, 0), maxStack: maxStack(2, 0), jumps: true})
	set(PC, operation{execute: opPc, minStack: minStack(0, 1), maxStack: maxStack(0, 1)})
	set(JUMPDEST, operation{execute: opJumpdest, minStack: minStack(0, 0), maxStack: maxStack(0, 0)})

	set(CALL, operation{execute: opCall, minStack: minStack(7, 1), maxStack: maxStack(7, 1), returns: true})
	set(CALLCODE, operation{execute: opCallCode, minStack: minStack(7, 1), maxStack: maxStack(7, 1), returns: true})
	set(DELEGATECALL, operation{execute: opDelegateCall, minStack: minStack(6, 1), maxStack: maxStack(6, 1), returns: true})

	set(RETURN, operation{execute: opReturn, minStack: minStack(2, 0), maxStack: maxStack(2, 0), halts: true, returns: true})
	set(REVERT, operation{execute: opRevert, minStack: minStack(2, 0), maxStack: maxStack(2, 0), halts: true, reverts: true, returns: true})
	set(INVALID, operation{execute: opInvalid, minStack: minStack(0, 0), maxStack: maxStack(0, 0), halts: true, reverts: true})

	set(PUSH0, operation{execute: opPush0, minStack: minStack(0, 1), maxStack: maxStack(0, 1)})
	for i := 0; i < 32; i++ {
		op := PUSH1 + OpCode(i)
		n := i + 1
		set(op, operation{execute: makePush(uint64(n)), minStack: minStack(0, 1), maxStack: maxStack(0, 1)})
	}
	for i := 1; i <= 16; i++ {
		op := DUP1 + OpCode(i-1)
		n := i
		set(op, operation{execute: makeDup(n), minStack: minStack(n, n+1), maxStack: maxStack(n, n+1)})
	}
	for i := 1; i <= 16; i++ {
		op := SWAP1 + OpCode(i-1)
		n := i + 1
		set(op, operation{execute: makeSwap(n), minStack: minStack(n, n), maxStack: maxStack(n, n)})
	}
	for i := 0; i <= 4; i++ {
		op := LOG0 + OpCode(i)
		n := i
		set(op, operation{execute: makeLog(n), minStack: minStack(2+n, 0), maxStack: maxStack(2+n, 0)})
	}

	return jt
}
