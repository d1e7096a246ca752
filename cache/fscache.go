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
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/smartweave-go/evaluator/model"
)

// fsEntry is the on-disk shape of one contract id's cache file.
type fsEntry struct {
	Contract     *model.Contract       `json:"contract,omitempty"`
	Interactions []model.Interaction   `json:"interactions,omitempty"`
	State        *State                `json:"state,omitempty"`
}

// fsCache is the filesystem implementation of Cache: one JSON file per
// contract id under dir. A mutex serialises read-modify-write cycles;
// correctness, not throughput, is the goal here.
type fsCache struct {
	mu  sync.Mutex
	dir string
}

// NewFSCache returns a Cache backed by one file per contract id under
// dir. The directory is created if it does not exist.
func NewFSCache(dir string) (Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &fsCache{dir: dir}, nil
}

func (f *fsCache) path(id string) string {
	return filepath.Join(f.dir, id+".json")
}

func (f *fsCache) read(id string) (fsEntry, bool) {
	var entry fsEntry
	data, err := os.ReadFile(f.path(id))
	if err != nil {
		return entry, false
	}
	if err := json.Unmarshal(data, &entry); err != nil {
		return entry, false
	}
	return entry, true
}

func (f *fsCache) write(id string, entry fsEntry) {
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	_ = os.WriteFile(f.path(id), data, 0o644)
}

func (f *fsCache) FindContract(id string) (*model.Contract, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.read(id)
	if !ok || entry.Contract == nil {
		return nil, false
	}
	return entry.Contract, true
}

func (f *fsCache) CacheContract(id string, c *model.Contract) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, _ := f.read(id)
	entry.Contract = c
	f.write(id, entry)
}

func (f *fsCache) FindInteractions(id string) ([]model.Interaction, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.read(id)
	if !ok || entry.Interactions == nil {
		return nil, false
	}
	return entry.Interactions, true
}

func (f *fsCache) CacheInteractions(id string, interactions []model.Interaction) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, _ := f.read(id)
	entry.Interactions = interactions
	f.write(id, entry)
}

func (f *fsCache) FindState(id string) (*State, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.read(id)
	if !ok || entry.State == nil {
		return nil, false
	}
	return entry.State, true
}

func (f *fsCache) CacheState(id string, s *State) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, _ := f.read(id)
	entry.State = s
	f.write(id, entry)
}
