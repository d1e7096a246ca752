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

// ResolveContentType picks the VM family using the content-type
// resolution rule: the first non-empty of (override, source tx
// Content-Type tag, contract tx Content-Type tag), mapped to a
// ContractType, defaulting to JAVASCRIPT.
func ResolveContentType(override, sourceTag, contractTag string) model.ContractType {
	for _, ct := range []string{override, sourceTag, contractTag} {
		if ct == "" {
			continue
		}
		return mapContentType(ct)
	}
	return model.ContractTypeJS
}

func mapContentType(ct string) model.ContractType {
	switch ct {
	case "application/javascript":
		return model.ContractTypeJS
	case "application/wasm":
		return model.ContractTypeWasm
	case "application/octet-stream":
		return model.ContractTypeEvm
	default:
		return model.ContractTypeJS
	}
}
