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

import "github.com/core-coin/uint256"

// Memory is byte-addressable and grows, in 32-byte aligned words, whenever
// a range is written or read through GetPtr (MLOAD, KECCAK256, RETURN),
// matching a byte-addressable, word-grown memory model.
type Memory struct {
	store []byte
}

func newMemory() *Memory {
	return &Memory{}
}

// Len returns the current size of the memory, in bytes.
func (m *Memory) Len() int { return len(m.store) }

// Resize grows the memory to size bytes if it is smaller. It never
// shrinks.
func (m *Memory) Resize(size uint64) {
	if uint64(len(m.store)) < size {
		m.store = append(m.store, make([]byte, size-uint64(len(m.store)))...)
	}
}

// toWordSize returns the number of 32-byte words needed to hold size
// bytes, rounding up.
func toWordSize(size uint64) uint64 {
	if size > (1<<64-1)-31 {
		return (1<<64 - 1) / 32
	}
	return (size + 31) / 32
}

// resizeFor grows the memory, in 32-byte words, so that [offset, offset+n)
// is addressable.
func (m *Memory) resizeFor(offset, n uint64) {
	if n == 0 {
		return
	}
	needed := toWordSize(offset+n) * 32
	m.Resize(needed)
}

// Set32 writes val, big-endian, into 32 bytes starting at offset.
func (m *Memory) Set32(offset uint64, val *uint256.Int) {
	m.resizeFor(offset, 32)
	b := val.Bytes32()
	copy(m.store[offset:offset+32], b[:])
}

// Set8 writes the low byte of val at offset (MSTORE8).
func (m *Memory) Set8(offset uint64, val byte) {
	m.resizeFor(offset, 1)
	m.store[offset] = val
}

// Set writes data into memory starting at offset, growing as needed. Only
// the first size bytes of data are copied; the remainder is zero-filled
// if data is shorter than size.
func (m *Memory) Set(offset, size uint64, data []byte) {
	if size == 0 {
		return
	}
	m.resizeFor(offset, size)
	end := size
	if uint64(len(data)) < end {
		end = uint64(len(data))
	}
	copy(m.store[offset:offset+end], data[:end])
}

// GetPtr returns a view over [offset, offset+size). It zero-fills and
// grows the backing memory if the window extends past the current
// length, so reads past the high-water mark behave like untouched memory
// rather than panicking (EVM memory reads never fail).
func (m *Memory) GetPtr(offset, size int64) []byte {
	if size == 0 {
		return nil
	}
	m.resizeFor(uint64(offset), uint64(size))
	return m.store[offset : offset+size]
}

// GetCopy is GetPtr but returns an independent copy, for callers that must
// not alias the underlying store (CALL input windows, RETURN/REVERT data).
func (m *Memory) GetCopy(offset, size int64) []byte {
	if size == 0 {
		return nil
	}
	cp := make([]byte, size)
	copy(cp, m.GetPtr(offset, size))
	return cp
}
