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

package jshost

import "fmt"

// CompileError means the contract source failed to parse or did not
// export an async function handle; fatal for the whole evaluation (the
// contract itself, not a single interaction, is malformed).
type CompileError struct {
	Err error
}

func (e *CompileError) Error() string { return fmt.Sprintf("jshost: compile: %v", e.Err) }
func (e *CompileError) Unwrap() error { return e.Err }

// ThrownError means handle() threw synchronously or its returned promise
// rejected. This is recorded as validity=false for the single
// interaction; it is not propagated to the caller.
type ThrownError struct {
	Err error
}

func (e *ThrownError) Error() string { return fmt.Sprintf("jshost: thrown: %v", e.Err) }
func (e *ThrownError) Unwrap() error { return e.Err }

// TerminatedError means the near-heap-limit callback fired mid-call; this
// is the VmTerminated case, distinct from a contract-level
// rejection and fatal for the whole evaluation.
type TerminatedError struct {
	Bytes uint64
}

func (e *TerminatedError) Error() string {
	return fmt.Sprintf("jshost: heap limit exceeded (%d bytes)", e.Bytes)
}
