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
	"encoding/binary"
	"fmt"
)

// Word is a 32-byte value used as account address, storage key, or stored
// value.
type Word [32]byte

// Storage is the EVM state: a mapping from 32-byte account address to a
// mapping from 32-byte key to 32-byte value.
type Storage struct {
	accounts map[Word]map[Word]Word
}

// NewStorage returns an empty Storage.
func NewStorage() *Storage {
	return &Storage{accounts: make(map[Word]map[Word]Word)}
}

// Get returns the value stored under (account, key), or the zero word if
// absent.
func (s *Storage) Get(account, key Word) Word {
	acct, ok := s.accounts[account]
	if !ok {
		return Word{}
	}
	return acct[key]
}

// Set stores value under (account, key).
func (s *Storage) Set(account, key, value Word) {
	acct, ok := s.accounts[account]
	if !ok {
		acct = make(map[Word]Word)
		s.accounts[account] = acct
	}
	acct[key] = value
}

// Accounts returns every account address with at least one stored key, in
// no particular order; callers that need a stable order (e.g. Raw) sort
// it themselves.
func (s *Storage) Accounts() []Word {
	out := make([]Word, 0, len(s.accounts))
	for a := range s.accounts {
		out = append(out, a)
	}
	return out
}

// Fetchable reports whether account has an entry in the storage.
func (s *Storage) Fetchable(account Word) bool {
	_, ok := s.accounts[account]
	return ok
}

// Raw serialises the storage to the flat byte stream format:
//
//	[ account(32) | key_count(32, u256 big-endian) | (key(32) | value(32))* ]*
//
// Account order is the order returned by a map iteration captured once at
// call time; two Storage values with the same contents may serialise to
// different bytes, but decoding any such stream always reconstructs an
// equal map (only from_raw(s.raw()) == s is required, not byte-stability
// across instances).
func (s *Storage) Raw() []byte {
	var out []byte
	for account, kv := range s.accounts {
		out = append(out, account[:]...)
		out = append(out, encodeU256(uint64(len(kv)))...)
		// Stable per-account key order so repeated calls on the same
		// Storage value (no intervening mutation) are reproducible.
		keys := make([]Word, 0, len(kv))
		for k := range kv {
			keys = append(keys, k)
		}
		sortWords(keys)
		for _, k := range keys {
			out = append(out, k[:]...)
			v := kv[k]
			out = append(out, v[:]...)
		}
	}
	return out
}

// StorageFromRaw decodes the byte stream produced by Raw.
func StorageFromRaw(raw []byte) (*Storage, error) {
	s := NewStorage()
	pos := 0
	for pos < len(raw) {
		if pos+64 > len(raw) {
			return nil, fmt.Errorf("evm: truncated storage stream at offset %d", pos)
		}
		var account Word
		copy(account[:], raw[pos:pos+32])
		pos += 32
		count := decodeU256(raw[pos : pos+32])
		pos += 32
		for i := uint64(0); i < count; i++ {
			if pos+64 > len(raw) {
				return nil, fmt.Errorf("evm: truncated storage entry at offset %d", pos)
			}
			var key, value Word
			copy(key[:], raw[pos:pos+32])
			pos += 32
			copy(value[:], raw[pos:pos+32])
			pos += 32
			s.Set(account, key, value)
		}
	}
	return s, nil
}

// encodeU256 renders n as a 32-byte big-endian word.
func encodeU256(n uint64) []byte {
	var buf [32]byte
	binary.BigEndian.PutUint64(buf[24:], n)
	return buf[:]
}

// decodeU256 reads the low 8 bytes of a 32-byte big-endian word; storage
// key counts never approach 2^64 in practice.
func decodeU256(b []byte) uint64 {
	return binary.BigEndian.Uint64(b[24:32])
}

// sortWords sorts words lexicographically in place (simple insertion sort;
// per-account key counts are small in practice and this avoids pulling in
// sort.Slice's reflection overhead for a 32-byte fixed-size key).
func sortWords(words []Word) {
	for i := 1; i < len(words); i++ {
		for j := i; j > 0 && lessWord(words[j], words[j-1]); j-- {
			words[j], words[j-1] = words[j-1], words[j]
		}
	}
}

func lessWord(a, b Word) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
