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
	"testing"
)

func TestSortKeyShape(t *testing.T) {
	const blockID = "abcdefghijklmnopqrstuvwxyz0123456789ABCDEFGHIJKLMNOPQRSTUV"
	const txID = "zyxwvutsrqponmlkjihgfedcba9876543210ZYXWVUTSRQPONMLKJIHGFE"

	key := SortKey(42, blockID, txID)

	blockBytes, err := B64URLDecode(blockID)
	if err != nil {
		t.Fatalf("decode block id: %v", err)
	}
	txBytes, err := B64URLDecode(txID)
	if err != nil {
		t.Fatalf("decode tx id: %v", err)
	}
	h := sha256.New()
	h.Write(blockBytes)
	h.Write(txBytes)
	want := "000000000042," + hex.EncodeToString(h.Sum(nil))

	if key != want {
		t.Fatalf("SortKey() = %q, want %q", key, want)
	}
}

func TestSortKeyHeightPadding(t *testing.T) {
	key := SortKey(5, "YQ", "YQ")
	if len(key) < 12 || key[:12] != "000000000005" {
		t.Fatalf("expected 12-char zero-padded height prefix, got %q", key)
	}
}

func TestSortKeyOrdering(t *testing.T) {
	a := SortKey(1, "YQ", "YQ")
	b := SortKey(2, "YQ", "Yg")
	if !LessSortKey(a, b) {
		t.Fatalf("expected key at height 1 to sort before height 2")
	}
}

func TestB64URLRoundTrip(t *testing.T) {
	data := []byte{0, 1, 2, 3, 250, 251, 252, 253, 254, 255}
	enc := B64URLEncode(data)
	dec, err := B64URLDecode(enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(dec) != string(data) {
		t.Fatalf("round trip mismatch: got %x want %x", dec, data)
	}
}
