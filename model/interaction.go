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

package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Ref identifies a parent/bundle relationship by transaction id.
type Ref struct {
	ID string `json:"id"`
}

// Interaction is a single recorded action against a contract: a
// transaction whose Input tag names the action payload.
type Interaction struct {
	ID           string `json:"id"`
	OwnerAddress string `json:"owner"`
	Recipient    string `json:"recipient,omitempty"`
	Quantity     string `json:"quantity,omitempty"`
	Reward       string `json:"reward,omitempty"`
	Tags         []Tag  `json:"tags"`
	Block        Block  `json:"block"`
	Parent       *Ref   `json:"parent,omitempty"`
	BundledIn    *Ref   `json:"bundledIn,omitempty"`
}

// RefID returns the referenced id, or "" if ref is nil.
func RefID(ref *Ref) string {
	if ref == nil {
		return ""
	}
	return ref.ID
}

// GetTag returns the decoded value of the first tag matching name.
func (i *Interaction) GetTag(name string) (string, bool) {
	for _, tag := range i.Tags {
		if tag.Name == name {
			return tag.Value, true
		}
	}
	return "", false
}

// InputTag returns the raw JSON text carried by the "Input" tag, or the
// empty string if the interaction carries none.
func (i *Interaction) InputTag() string {
	v, ok := i.GetTag("Input")
	if !ok {
		return ""
	}
	return v
}

// IsBundleChild reports whether this interaction is a child of a bundle or
// another transaction, and therefore not a top-level action.
func (i *Interaction) IsBundleChild() bool {
	return i.Parent != nil || i.BundledIn != nil
}

// InteractionContext is the per-interaction read-only view handed to a
// guest VM: the current interaction transaction and the block it landed
// in.
type InteractionContext struct {
	Transaction Interaction `json:"transaction"`
	Block       Block       `json:"currentBlock"`
}

// ValidityTable is an ordered mapping from interaction id to whether it
// applied successfully. Insertion order equals replay order and is
// observable by iterating Order.
type ValidityTable struct {
	Order  []string
	values map[string]bool
}

// NewValidityTable returns an empty, ready-to-use validity table.
func NewValidityTable() *ValidityTable {
	return &ValidityTable{values: make(map[string]bool)}
}

// Set records the outcome of interaction id, preserving insertion order.
func (v *ValidityTable) Set(id string, ok bool) {
	if v.values == nil {
		v.values = make(map[string]bool)
	}
	if _, exists := v.values[id]; !exists {
		v.Order = append(v.Order, id)
	}
	v.values[id] = ok
}

// Get returns the recorded validity for id, and whether it was recorded.
func (v *ValidityTable) Get(id string) (bool, bool) {
	ok, present := v.values[id]
	return ok, present
}

// Len reports how many interactions have been recorded.
func (v *ValidityTable) Len() int { return len(v.Order) }

// MarshalJSON renders the table as an object whose key order follows the
// insertion order, matching how callers observe interaction ordering.
func (v *ValidityTable) MarshalJSON() ([]byte, error) {
	buf := make([]byte, 0, 32*len(v.Order))
	buf = append(buf, '{')
	for idx, id := range v.Order {
		if idx > 0 {
			buf = append(buf, ',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		buf = append(buf, key...)
		buf = append(buf, ':')
		if v.values[id] {
			buf = append(buf, 't', 'r', 'u', 'e')
		} else {
			buf = append(buf, 'f', 'a', 'l', 's', 'e')
		}
	}
	buf = append(buf, '}')
	return buf, nil
}

// UnmarshalJSON reconstructs a ValidityTable from the object MarshalJSON
// produces, preserving key order via a token-by-token decode (map
// unmarshalling would discard it).
func (v *ValidityTable) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("model: ValidityTable: expected object, got %v", tok)
	}

	*v = ValidityTable{values: make(map[string]bool)}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("model: ValidityTable: expected string key, got %v", keyTok)
		}
		var val bool
		if err := dec.Decode(&val); err != nil {
			return err
		}
		v.Set(key, val)
	}
	return nil
}
