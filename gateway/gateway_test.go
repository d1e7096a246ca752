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

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/smartweave-go/evaluator/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveContentType(t *testing.T) {
	assert.Equal(t, model.ContractTypeEvm, ResolveContentType("application/octet-stream", "", ""))
	assert.Equal(t, model.ContractTypeWasm, ResolveContentType("", "application/wasm", ""))
	assert.Equal(t, model.ContractTypeJS, ResolveContentType("", "", ""))
	assert.Equal(t, model.ContractTypeEvm, ResolveContentType("", "", "application/octet-stream"))
}

func TestGetTagDecoding(t *testing.T) {
	meta := &TransactionMeta{
		TagList: []rawTag{
			{Name: b64Encode([]byte("Content-Type")), Value: b64Encode([]byte("application/javascript"))},
		},
	}
	val, ok := meta.GetTag("Content-Type")
	require.True(t, ok)
	assert.Equal(t, "application/javascript", val)

	_, ok = meta.GetTag("Missing")
	assert.False(t, ok)
}

func TestGetNetworkInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/info", r.URL.Path)
		_ = json.NewEncoder(w).Encode(NetworkInfo{Height: 100, Current: "abc"})
	}))
	defer srv.Close()

	c := NewClient(parseTestConfig(srv.URL), srv.Client())
	info, err := c.GetNetworkInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(100), info.Height)
}

func TestGetBundledContractMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(parseTestConfig(srv.URL), srv.Client())
	_, err := c.GetBundledContract(context.Background(), "abc")
	require.Error(t, err)
	var missing *BundleMissing
	assert.ErrorAs(t, err, &missing)
}

// parseTestConfig builds a Config pointing at an httptest server's URL
// (always http, host:port).
func parseTestConfig(rawURL string) Config {
	// rawURL is "http://127.0.0.1:PORT"
	host := rawURL[len("http://"):]
	return Config{Protocol: "http", Host: splitHost(host), Port: splitPort(host)}
}

func splitHost(hostport string) string {
	for i := len(hostport) - 1; i >= 0; i-- {
		if hostport[i] == ':' {
			return hostport[:i]
		}
	}
	return hostport
}

func splitPort(hostport string) int {
	for i := len(hostport) - 1; i >= 0; i-- {
		if hostport[i] == ':' {
			port := 0
			for _, c := range hostport[i+1:] {
				port = port*10 + int(c-'0')
			}
			return port
		}
	}
	return 80
}
