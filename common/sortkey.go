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

package common

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// SortKey returns the canonical total order used by the replay engine:
//
//	pad12(height) + "," + hex(sha256(b64dec(blockIndepHash) || b64dec(txID)))
//
// pad12 renders height as decimal, prepends six zeros, and takes the last
// 12 characters, so keys sort lexicographically in height order.
func SortKey(height int64, blockIndepHash, txID string) string {
	padded := "000000" + strconv.FormatInt(height, 10)
	pad12 := padded[len(padded)-12:]

	blockBytes, err := B64URLDecode(blockIndepHash)
	if err != nil {
		// A malformed block id cannot be hashed meaningfully; fall back to
		// the raw string bytes so ordering stays deterministic rather than
		// panicking on gateway data we do not control.
		blockBytes = []byte(blockIndepHash)
	}
	txBytes, err := B64URLDecode(txID)
	if err != nil {
		txBytes = []byte(txID)
	}

	h := sha256.New()
	h.Write(blockBytes)
	h.Write(txBytes)
	digest := h.Sum(nil)

	return fmt.Sprintf("%s,%s", pad12, hex.EncodeToString(digest))
}

// LessSortKey reports whether a orders before b, i.e. whether
// sort_key(a) < sort_key(b) lexicographically.
func LessSortKey(a, b string) bool {
	return strings.Compare(a, b) < 0
}
