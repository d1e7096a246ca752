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

package jshost

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"sync"
)

// FetchRecord is one recorded request/response pair, keyed by
// hex(sha256(url)) in ExmContext.Requests, for deterministic fetch
// design note.
type FetchRecord struct {
	URL        string            `json:"url"`
	Status     int               `json:"status"`
	StatusText string            `json:"statusText"`
	Headers    map[string]string `json:"headers"`
	Vector     []byte            `json:"vector"`
}

// ExmContext is the deterministic-fetch record/replay ledger threaded
// through an evaluation. When constructed fresh it records every fetch it
// serves over the network; when seeded with prior Requests (a replay) it
// never performs network I/O, serving strictly from the map.
type ExmContext struct {
	mu       sync.Mutex
	Requests map[string]FetchRecord `json:"requests"`
	replay   bool
	client   *http.Client
}

// NewExmContext returns an empty, recording ExmContext.
func NewExmContext() *ExmContext {
	return &ExmContext{Requests: make(map[string]FetchRecord), client: http.DefaultClient}
}

// NewReplayExmContext returns an ExmContext seeded with prior recordings;
// it never issues a network call: on replay the VM reads from
// the mapping; it never issues a network call when a context is
// provided."
func NewReplayExmContext(requests map[string]FetchRecord) *ExmContext {
	return &ExmContext{Requests: requests, replay: true}
}

func exmKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

// Fetch resolves url, either by consulting the replay map or by
// performing a real GET and recording the result, then returns the
// settled FetchRecord.
func (e *ExmContext) Fetch(url string) (FetchRecord, error) {
	key := exmKey(url)

	e.mu.Lock()
	rec, ok := e.Requests[key]
	e.mu.Unlock()
	if ok {
		return rec, nil
	}
	if e.replay {
		return FetchRecord{}, fmt.Errorf("jshost: EXM replay: no recorded response for %s", url)
	}

	resp, err := e.client.Get(url)
	if err != nil {
		return FetchRecord{}, fmt.Errorf("jshost: EXM fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return FetchRecord{}, fmt.Errorf("jshost: EXM fetch %s: reading body: %w", url, err)
	}

	headers := make(map[string]string, len(resp.Header))
	for k := range resp.Header {
		headers[k] = resp.Header.Get(k)
	}

	rec = FetchRecord{
		URL:        url,
		Status:     resp.StatusCode,
		StatusText: resp.Status,
		Headers:    headers,
		Vector:     body,
	}

	e.mu.Lock()
	e.Requests[key] = rec
	e.mu.Unlock()

	return rec, nil
}
