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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEvmAdd is end-to-end scenario 5: PUSH1 1 PUSH1 2 ADD leaves 3 on top
// of the stack and halts Ok.
func TestEvmAdd(t *testing.T) {
	code := []byte{byte(PUSH1), 0x01, byte(PUSH1), 0x02, byte(ADD), byte(STOP)}
	m := NewMachine(Word{}, nil, nil, BlockContext{}, nil)
	m.Code = code

	res, err := m.Run()
	require.NoError(t, err)
	assert.Equal(t, StateOk, res.State)
	assert.Equal(t, uint64(3), m.stack.peek().Uint64())
}

// TestEvmStorageRoundtrip is end-to-end scenario 6: SSTORE(0, 0x42) then
// RETURN; the stored value survives a Raw/StorageFromRaw round trip.
func TestEvmStorageRoundtrip(t *testing.T) {
	owner := Word{0x01}
	code := []byte{
		byte(PUSH1), 0x42, // value
		byte(PUSH1), 0x00, // key
		byte(SSTORE),
		byte(PUSH1), 0x00, // size
		byte(PUSH1), 0x00, // offset
		byte(RETURN),
	}
	storage := NewStorage()
	m := NewMachine(owner, storage, nil, BlockContext{}, nil)
	m.Code = code

	res, err := m.Run()
	require.NoError(t, err)
	assert.Equal(t, StateOk, res.State)

	var key Word
	got := storage.Get(owner, key)
	assert.Equal(t, byte(0x42), got[31])

	raw := storage.Raw()
	decoded, err := StorageFromRaw(raw)
	require.NoError(t, err)
	assert.Equal(t, storage.Get(owner, key), decoded.Get(owner, key))
}

func TestEvmDivByZeroAborts(t *testing.T) {
	code := []byte{byte(PUSH1), 0x00, byte(PUSH1), 0x05, byte(DIV)}
	m := NewMachine(Word{}, nil, nil, BlockContext{}, nil)
	m.Code = code

	res, err := m.Run()
	require.NoError(t, err)
	assert.Equal(t, StateAbort, res.State)
	assert.Equal(t, DivZero, res.Abort)
}

func TestEvmInvalidOpcodeAborts(t *testing.T) {
	code := []byte{0x0c} // unassigned opcode
	m := NewMachine(Word{}, nil, nil, BlockContext{}, nil)
	m.Code = code

	res, err := m.Run()
	require.NoError(t, err)
	assert.Equal(t, StateAbort, res.State)
	assert.Equal(t, InvalidOpcode, res.Abort)
}

func TestEvmRevert(t *testing.T) {
	code := []byte{
		byte(PUSH1), 0x00,
		byte(PUSH1), 0x00,
		byte(REVERT),
	}
	m := NewMachine(Word{}, nil, nil, BlockContext{}, nil)
	m.Code = code

	res, err := m.Run()
	require.NoError(t, err)
	assert.Equal(t, StateRevert, res.State)
}

func TestEvmMloadZeroFillsBeyondMemory(t *testing.T) {
	code := []byte{byte(PUSH1), 0x00, byte(MLOAD)}
	m := NewMachine(Word{}, nil, nil, BlockContext{}, nil)
	m.Code = code

	res, err := m.Run()
	require.NoError(t, err)
	assert.Equal(t, StateOk, res.State)
	assert.True(t, m.stack.peek().IsZero())
}

func TestStorageRawRoundTripEmpty(t *testing.T) {
	s := NewStorage()
	decoded, err := StorageFromRaw(s.Raw())
	require.NoError(t, err)
	assert.Empty(t, decoded.Accounts())
}
