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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartweave-go/evaluator/model"
)

func TestMemCacheRoundTrip(t *testing.T) {
	c := NewMemCache(0)

	contract := &model.Contract{ID: "abc", Type: model.ContractTypeJS}
	c.CacheContract("abc", contract)
	got, ok := c.FindContract("abc")
	require.True(t, ok)
	assert.Equal(t, contract, got)

	_, ok = c.FindContract("missing")
	assert.False(t, ok)
}

func TestFSCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	c, err := NewFSCache(dir)
	require.NoError(t, err)

	table := model.NewValidityTable()
	table.Set("tx1", true)
	table.Set("tx2", false)

	state := &State{Height: 10, Validity: table}
	c.CacheState("abc", state)

	got, ok := c.FindState("abc")
	require.True(t, ok)
	assert.Equal(t, int64(10), got.Height)
	assert.Equal(t, []string{"tx1", "tx2"}, got.Validity.Order)
	ok1, _ := got.Validity.Get("tx1")
	assert.True(t, ok1)
	ok2, _ := got.Validity.Get("tx2")
	assert.False(t, ok2)
}

func TestSetGlobalCacheRefusesSecondCall(t *testing.T) {
	globalMu.Lock()
	globalCache = nil
	globalSet = false
	globalMu.Unlock()

	require.NoError(t, SetGlobalCache(NewMemCache(0)))
	assert.Error(t, SetGlobalCache(NewMemCache(0)))
}
