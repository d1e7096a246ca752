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

package cache

import (
	lru "github.com/hashicorp/golang-lru"

	"github.com/smartweave-go/evaluator/model"
)

// memCache is the in-memory LRU implementation of Cache. Three independent
// LRUs back the three capability pairs so that eviction pressure on one
// (say, large interaction lists) does not starve the others.
type memCache struct {
	contracts    *lru.Cache
	interactions *lru.Cache
	states       *lru.Cache
}

// NewMemCache returns an in-memory Cache whose three LRUs each hold up to
// size entries. A size of 0 is treated as effectively unbounded (the
// unbounded variant acceptable for correctness tests.
func NewMemCache(size int) Cache {
	if size <= 0 {
		size = 1 << 20
	}
	contracts, _ := lru.New(size)
	interactions, _ := lru.New(size)
	states, _ := lru.New(size)
	return &memCache{contracts: contracts, interactions: interactions, states: states}
}

func (m *memCache) FindContract(id string) (*model.Contract, bool) {
	v, ok := m.contracts.Get(id)
	if !ok {
		return nil, false
	}
	return v.(*model.Contract), true
}

func (m *memCache) CacheContract(id string, c *model.Contract) {
	m.contracts.Add(id, c)
}

func (m *memCache) FindInteractions(id string) ([]model.Interaction, bool) {
	v, ok := m.interactions.Get(id)
	if !ok {
		return nil, false
	}
	return v.([]model.Interaction), true
}

func (m *memCache) CacheInteractions(id string, interactions []model.Interaction) {
	m.interactions.Add(id, interactions)
}

func (m *memCache) FindState(id string) (*State, bool) {
	v, ok := m.states.Get(id)
	if !ok {
		return nil, false
	}
	return v.(*State), true
}

func (m *memCache) CacheState(id string, s *State) {
	m.states.Add(id, s)
}
