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

import (
	"github.com/core-coin/uint256"
	"golang.org/x/crypto/sha3"
)

func opStop(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	return nil, nil
}

func opAdd(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	x, y := stack.pop(), stack.peek()
	y.Add(&x, y)
	return nil, nil
}

func opSub(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	x, y := stack.pop(), stack.peek()
	y.Sub(&x, y)
	return nil, nil
}

func opMul(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	x, y := stack.pop(), stack.peek()
	y.Mul(&x, y)
	return nil, nil
}

// opDiv is the one arithmetic opcode this machine treats specially: a zero
// divisor is an Abort(DivZero), not EVM's usual "yields zero".
func opDiv(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	x, y := stack.pop(), stack.peek()
	if y.IsZero() {
		return nil, errDivByZero
	}
	y.Div(&x, y)
	return nil, nil
}

func opSdiv(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	x, y := stack.pop(), stack.peek()
	y.SDiv(&x, y)
	return nil, nil
}

func opMod(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	x, y := stack.pop(), stack.peek()
	y.Mod(&x, y)
	return nil, nil
}

func opSmod(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	x, y := stack.pop(), stack.peek()
	y.SMod(&x, y)
	return nil, nil
}

func opAddMod(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	x, y, z := stack.pop(), stack.pop(), stack.peek()
	if z.IsZero() {
		z.Clear()
	} else {
		z.AddMod(&x, &y, z)
	}
	return nil, nil
}

func opMulMod(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	x, y, z := stack.pop(), stack.pop(), stack.peek()
	z.MulMod(&x, &y, z)
	return nil, nil
}

func opExp(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	base, exponent := stack.pop(), stack.peek()
	exponent.Exp(&base, exponent)
	return nil, nil
}

func opSignExtend(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	back, num := stack.pop(), stack.peek()
	num.ExtendSign(num, &back)
	return nil, nil
}

func opLt(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	x, y := stack.pop(), stack.peek()
	if x.Lt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opGt(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	x, y := stack.pop(), stack.peek()
	if x.Gt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opSlt(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	x, y := stack.pop(), stack.peek()
	if x.Slt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opSgt(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	x, y := stack.pop(), stack.peek()
	if x.Sgt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opEq(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	x, y := stack.pop(), stack.peek()
	if x.Eq(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opIsZero(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	x := stack.peek()
	if x.IsZero() {
		x.SetOne()
	} else {
		x.Clear()
	}
	return nil, nil
}

func opAnd(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	x, y := stack.pop(), stack.peek()
	y.And(&x, y)
	return nil, nil
}

func opOr(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	x, y := stack.pop(), stack.peek()
	y.Or(&x, y)
	return nil, nil
}

func opXor(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	x, y := stack.pop(), stack.peek()
	y.Xor(&x, y)
	return nil, nil
}

func opNot(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	x := stack.peek()
	x.Not(x)
	return nil, nil
}

func opByte(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	th, val := stack.pop(), stack.peek()
	val.Byte(&th)
	return nil, nil
}

func opSHL(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	shift, value := stack.pop(), stack.peek()
	if shift.LtUint64(256) {
		value.Lsh(value, uint(shift.Uint64()))
	} else {
		value.Clear()
	}
	return nil, nil
}

func opSHR(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	shift, value := stack.pop(), stack.peek()
	if shift.LtUint64(256) {
		value.Rsh(value, uint(shift.Uint64()))
	} else {
		value.Clear()
	}
	return nil, nil
}

func opSAR(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	shift, value := stack.pop(), stack.peek()
	if shift.GtUint64(256) {
		if value.Sign() >= 0 {
			value.Clear()
		} else {
			value.SetAllOne()
		}
		return nil, nil
	}
	value.SRsh(value, uint(shift.Uint64()))
	return nil, nil
}

func opKeccak256(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	offset, size := stack.pop(), stack.peek()
	data := memory.GetPtr(int64(offset.Uint64()), int64(size.Uint64()))
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	size.SetBytes(h.Sum(nil))
	return nil, nil
}

func opAddress(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	stack.push(new(uint256.Int).SetBytes(m.Owner[:]))
	return nil, nil
}

func opCallValue(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	stack.push(new(uint256.Int))
	return nil, nil
}

func opCallDataLoad(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	x := stack.peek()
	x.SetBytes(getData(m.Data, x.Uint64(), 32))
	return nil, nil
}

func opCallDataSize(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	stack.push(new(uint256.Int).SetUint64(uint64(len(m.Data))))
	return nil, nil
}

func opCallDataCopy(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	memOffset, dataOffset, length := stack.pop(), stack.pop(), stack.pop()
	data := getData(m.Data, dataOffset.Uint64(), length.Uint64())
	memory.Set(memOffset.Uint64(), length.Uint64(), data)
	return nil, nil
}

func opCodeSize(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	stack.push(new(uint256.Int).SetUint64(uint64(len(m.Code))))
	return nil, nil
}

func opCodeCopy(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	memOffset, codeOffset, length := stack.pop(), stack.pop(), stack.pop()
	data := getData(m.Code, codeOffset.Uint64(), length.Uint64())
	memory.Set(memOffset.Uint64(), length.Uint64(), data)
	return nil, nil
}

func opReturnDataSize(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	stack.push(new(uint256.Int).SetUint64(uint64(len(m.returnData))))
	return nil, nil
}

func opReturnDataCopy(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	memOffset, dataOffset, length := stack.pop(), stack.pop(), stack.pop()
	data := getData(m.returnData, dataOffset.Uint64(), length.Uint64())
	memory.Set(memOffset.Uint64(), length.Uint64(), data)
	return nil, nil
}

// opPushZero implements every environment query this machine leaves unimplemented
// (BALANCE, ORIGIN, GASPRICE, COINBASE, MSIZE, GAS, EXTCODESIZE): push 0.
func opPushZero(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	stack.push(new(uint256.Int))
	return nil, nil
}

// opNoopQuad discards EXTCODECOPY's four operands without touching memory.
func opNoopQuad(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	stack.pop()
	stack.pop()
	stack.pop()
	stack.pop()
	return nil, nil
}

func opBlockhash(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	stack.pop()
	stack.push(new(uint256.Int))
	return nil, nil
}

func opTimestamp(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	stack.push(new(uint256.Int).SetUint64(m.block.Timestamp))
	return nil, nil
}

func opNumber(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	stack.push(new(uint256.Int).SetUint64(m.block.Number))
	return nil, nil
}

func opDifficulty(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	stack.push(new(uint256.Int).SetUint64(m.block.Difficulty))
	return nil, nil
}

func opGasLimit(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	stack.push(new(uint256.Int).SetUint64(m.block.GasLimit))
	return nil, nil
}

func opPop(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	stack.pop()
	return nil, nil
}

// opMload is an aligned 32-byte read with zero-fill beyond memory length,
// deliberately, rather than leaving a work-in-progress MLOAD.
func opMload(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	v := stack.peek()
	offset := int64(v.Uint64())
	v.SetBytes(memory.GetPtr(offset, 32))
	return nil, nil
}

func opMstore(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	mStart, val := stack.pop(), stack.pop()
	memory.Set32(mStart.Uint64(), &val)
	return nil, nil
}

func opMstore8(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	off, val := stack.pop(), stack.pop()
	memory.Set8(off.Uint64(), byte(val.Uint64()))
	return nil, nil
}

func opSload(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	loc := stack.peek()
	val := m.Storage.Get(m.Owner, wordFromUint256(loc))
	loc.SetBytes(val[:])
	return nil, nil
}

func opSstore(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	loc := stack.pop()
	val := stack.pop()
	m.Storage.Set(m.Owner, wordFromUint256(&loc), wordFromUint256(&val))
	return nil, nil
}

func opJump(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	pos := stack.pop()
	dest := pos.Uint64()
	if !validJumpdest(m.Code, dest) {
		return nil, errInvalidJump
	}
	*pc = dest
	return nil, nil
}

func opJumpi(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	pos, cond := stack.pop(), stack.pop()
	if !cond.IsZero() {
		dest := pos.Uint64()
		if !validJumpdest(m.Code, dest) {
			return nil, errInvalidJump
		}
		*pc = dest
	} else {
		*pc++
	}
	return nil, nil
}

func opPc(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	stack.push(new(uint256.Int).SetUint64(*pc))
	return nil, nil
}

func opJumpdest(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	return nil, nil
}

func opReturn(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	offset, size := stack.pop(), stack.pop()
	return memory.GetCopy(int64(offset.Uint64()), int64(size.Uint64())), nil
}

func opRevert(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	offset, size := stack.pop(), stack.pop()
	return memory.GetCopy(int64(offset.Uint64()), int64(size.Uint64())), nil
}

func opInvalid(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	return nil, nil
}

func opPush0(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	stack.push(new(uint256.Int))
	return nil, nil
}

// opCall pops gas, addr, value, in_off, in_len, out_off, out_len (in that
// EVM order), runs addr's contract in a sub-machine owned by addr, and
// copies its return data into [out_off, out_off+out_len) of the caller's
// memory. CALL's sub-machine owner is the callee.
func opCall(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	gas := stack.pop()
	addr := stack.pop()
	value := stack.pop()
	_ = value
	inOffset, inSize := stack.pop(), stack.pop()
	outOffset, outSize := stack.pop(), stack.pop()

	ret := stack.peek()
	runCall(m, memory, wordFromUint256(&addr), wordFromUint256(&addr), gas, inOffset, inSize, outOffset, outSize, ret)
	return nil, nil
}

// opCallCode is like opCall but the callee's code runs against the
// caller's own storage: the sub-machine owner stays m.Owner.
func opCallCode(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	gas := stack.pop()
	addr := stack.pop()
	value := stack.pop()
	_ = value
	inOffset, inSize := stack.pop(), stack.pop()
	outOffset, outSize := stack.pop(), stack.pop()

	ret := stack.peek()
	runCall(m, memory, wordFromUint256(&addr), m.Owner, gas, inOffset, inSize, outOffset, outSize, ret)
	return nil, nil
}

// opDelegateCall is opCallCode without a value operand; owner likewise
// stays the caller's.
func opDelegateCall(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
	gas := stack.pop()
	addr := stack.pop()
	inOffset, inSize := stack.pop(), stack.pop()
	outOffset, outSize := stack.pop(), stack.pop()

	ret := stack.peek()
	runCall(m, memory, wordFromUint256(&addr), m.Owner, gas, inOffset, inSize, outOffset, outSize, ret)
	return nil, nil
}

// runCall resolves addr's contract source through the host, runs it in a
// sub-machine scoped to owner, and writes the [0,1] success flag to
// success while copying the callee's returned bytes into the caller's
// memory output window. A missing contract or an aborted/reverted callee
// is reported as failure (0) without aborting the caller.
func runCall(m *Machine, memory *Memory, addr, owner Word, gas uint256.Int, inOffset, inSize, outOffset, outSize uint256.Int, success *uint256.Int) {
	source, ok := m.host.FetchContract(addr)
	if !ok {
		success.Clear()
		return
	}
	input := memory.GetCopy(int64(inOffset.Uint64()), int64(inSize.Uint64()))
	storage := source.Storage
	if owner == m.Owner {
		// CALLCODE/DELEGATECALL keep the caller as owner and run the
		// callee's code against the caller's storage.
		storage = m.Storage
	}
	sub := m.subMachine(owner, storage, input)
	sub.Code = source.Bytecode
	res, err := sub.Run()
	if err != nil || res.State != StateOk {
		success.Clear()
		return
	}
	m.returnData = res.Return
	memory.Set(outOffset.Uint64(), outSize.Uint64(), res.Return)
	success.SetOne()
}

// makePush returns the execution function for PUSHn, n in [1,32].
func makePush(size uint64) executionFunc {
	return func(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
		codeLen := uint64(len(m.Code))
		start := *pc + 1
		if start > codeLen {
			start = codeLen
		}
		end := start + size
		if end > codeLen {
			end = codeLen
		}
		integer := new(uint256.Int)
		stack.push(integer.SetBytes(rightPad(m.Code[start:end], int(size))))
		*pc += size
		return nil, nil
	}
}

func makeDup(n int) executionFunc {
	return func(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
		stack.dup(n)
		return nil, nil
	}
}

func makeSwap(n int) executionFunc {
	return func(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
		stack.swap(n)
		return nil, nil
	}
}

// makeLog accepts and discards its topics/data: LOGn is
// side-effect-free in this engine.
func makeLog(n int) executionFunc {
	return func(pc *uint64, m *Machine, stack *Stack, memory *Memory) ([]byte, error) {
		stack.pop() // mStart
		stack.pop() // mSize
		for i := 0; i < n; i++ {
			stack.pop()
		}
		return nil, nil
	}
}

// getData returns size bytes of src starting at offset, zero-padded past
// the end of src, mirroring CALLDATACOPY/CODECOPY's out-of-bounds
// behaviour.
func getData(src []byte, offset, size uint64) []byte {
	out := make([]byte, size)
	if offset >= uint64(len(src)) {
		return out
	}
	end := offset + size
	if end > uint64(len(src)) {
		end = uint64(len(src))
	}
	copy(out, src[offset:end])
	return out
}

func rightPad(b []byte, size int) []byte {
	if len(b) >= size {
		return b[:size]
	}
	out := make([]byte, size)
	copy(out, b)
	return out
}

// validJumpdest reports whether dest indexes a JUMPDEST byte in code that
// is not itself inside a PUSH argument.
func validJumpdest(code []byte, dest uint64) bool {
	if dest >= uint64(len(code)) {
		return false
	}
	if OpCode(code[dest]) != JUMPDEST {
		return false
	}
	// Walk from the start to make sure dest isn't a push-data byte being
	// misread as an opcode.
	for i := uint64(0); i < dest; {
		op := OpCode(code[i])
		if op >= PUSH1 && op <= PUSH32 {
			i += uint64(op-PUSH1+1) + 1
			continue
		}
		i++
	}
	return i == dest
}
