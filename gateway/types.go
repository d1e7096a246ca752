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

package gateway

import "github.com/smartweave-go/evaluator/model"

// NetworkInfo is the decoded response of GET /info.
type NetworkInfo struct {
	Height  int64 `json:"height"`
	Current string `json:"current"`
}

// TransactionMeta is the decoded response of GET /tx/{id}.
type TransactionMeta struct {
	Format   int         `json:"format"`
	ID       string      `json:"id"`
	Owner    string      `json:"owner"`
	TagList  []rawTag    `json:"tags"`
	Target   string      `json:"target"`
	Quantity string      `json:"quantity"`
	Data     string      `json:"data"`
	Reward   string      `json:"reward"`
	DataSize string      `json:"data_size"`
	DataRoot string      `json:"data_root"`
}

type rawTag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// GetTag base64url-encodes name, searches for an exact tag-name match, and
// base64url-decodes the matching value, matching how on-chain tags are encoded.
func (t *TransactionMeta) GetTag(name string) (string, bool) {
	encName := b64Encode([]byte(name))
	for _, tag := range t.TagList {
		if tag.Name == encName {
			val, err := b64Decode(tag.Value)
			if err != nil {
				continue
			}
			return string(val), true
		}
	}
	return "", false
}

// Tags returns every tag with its name/value base64url-decoded.
func (t *TransactionMeta) Tags() []model.Tag {
	out := make([]model.Tag, 0, len(t.TagList))
	for _, raw := range t.TagList {
		name, err := b64Decode(raw.Name)
		if err != nil {
			continue
		}
		value, err := b64Decode(raw.Value)
		if err != nil {
			continue
		}
		out = append(out, model.Tag{Name: string(name), Value: string(value)})
	}
	return out
}

// TxStatus is the decoded response of GET /tx/{id}/status.
type TxStatus struct {
	BlockIndepHash string `json:"block_indep_hash"`
}

// BlockInfo is the decoded response of GET /block/hash/{h}.
type BlockInfo struct {
	Timestamp int64  `json:"timestamp"`
	Diff      string `json:"diff"`
	IndepHash string `json:"indep_hash"`
	Height    int64  `json:"height"`
}

// BundledContract is the decoded response of GET /{id} for a bundled
// contract source.
type BundledContract struct {
	ContractSrc   string `json:"contractSrc"`
	ContentType   string `json:"contentType"`
	InitState     string `json:"initState"`
	ContractOwner string `json:"contractOwner"`
}
