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

// stackLimit is the maximum number of 256-bit words the interpreter's
// stack may hold at once.
const stackLimit = 1024

// Stack is a simple LIFO of 256-bit words, modelled on the jump-table
// driven interpreter's stack (push/pop/peek/dup/swap by name).
type Stack struct {
	data []uint256.Int
}

func newStack() *Stack {
	return &Stack{data: make([]uint256.Int, 0, 16)}
}

func (s *Stack) push(d *uint256.Int) {
	s.data = append(s.data, *d)
}

func (s *Stack) pop() (ret uint256.Int) {
	ret = s.data[len(s.data)-1]
	s.data = s.data[:len(s.data)-1]
	return
}

func (s *Stack) len() int { return len(s.data) }

func (s *Stack) swap(n int) {
	s.data[s.len()-n], s.data[s.len()-1] = s.data[s.len()-1], s.data[s.len()-n]
}

func (s *Stack) dup(n int) {
	s.push(&s.data[s.len()-n])
}

func (s *Stack) peek() *uint256.Int {
	return &s.data[s.len()-1]
}

// Back returns the n'th item from the top of the stack, 0-indexed.
func (s *Stack) Back(n int) *uint256.Int {
	return &s.data[s.len()-n-1]
}
