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

// Package gateway is the GraphQL/REST client against the content-addressed
// chain's gateway: transaction metadata, bundled-contract fetch, and
// interaction pagination.
package gateway

import "fmt"

// NetworkError wraps a transport-level failure the caller may retry; the
// client itself never retries.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("gateway: %s: %v", e.Op, e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

// BundleMissing means a bundled contract was requested but the gateway
// did not serve it; fatal for that evaluation.
type BundleMissing struct {
	TxID string
}

func (e *BundleMissing) Error() string {
	return fmt.Sprintf("gateway: bundled contract %s not served", e.TxID)
}

// ContractMalformed means a source tag was missing, init state unreadable,
// or hex invalid; fatal.
type ContractMalformed struct {
	Reason string
}

func (e *ContractMalformed) Error() string { return fmt.Sprintf("gateway: contract malformed: %s", e.Reason) }
