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

// Package cache persists loaded contracts, interaction lists, and computed
// states keyed by contract id, serving as a resume point for the replay
// engine.
package cache

import (
	"encoding/json"
	"sync"

	"github.com/smartweave-go/evaluator/model"
)

// State is what the cache stores per contract: the last replayed height, the
// state value (opaque JSON for JS/WASM, hex for EVM storage), and the
// validity table as it stood at that height.
type State struct {
	Height   int64           `json:"height"`
	Value    json.RawMessage `json:"value"`
	Validity *model.ValidityTable `json:"validity"`
}

// Cache is the capability set the replay engine needs: find/cache for contracts,
// interaction lists, and computed states, all keyed by contract id.
type Cache interface {
	FindContract(id string) (*model.Contract, bool)
	CacheContract(id string, c *model.Contract)

	FindInteractions(id string) ([]model.Interaction, bool)
	CacheInteractions(id string, interactions []model.Interaction)

	FindState(id string) (*State, bool)
	CacheState(id string, s *State)
}

var (
	globalMu    sync.Mutex
	globalCache Cache
	globalSet   bool
)

// SetGlobalCache installs the process-wide cache handle once. A second
// call returns an error rather than silently replacing it, since an
// implementer should... refuse a second initialisation" design note.
func SetGlobalCache(c Cache) error {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalSet {
		return errAlreadySet
	}
	globalCache = c
	globalSet = true
	return nil
}

// Global returns the process-wide cache handle, or nil if none was set.
// Prefer constructor injection (passing a Cache explicitly to the replay
// engine) over this accessor; it exists for callers that cannot thread a
// handle through.
func Global() Cache {
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalCache
}

var errAlreadySet = cacheError("cache: global cache already set")

type cacheError string

func (e cacheError) Error() string { return string(e) }
