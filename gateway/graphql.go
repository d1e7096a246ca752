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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// transactionsQuery is the bit-exact GraphQL body the gateway expects. It is
// sent verbatim; do not reformat it, since some gateways compare query
// text byte-for-byte against an allowlist.
const transactionsQuery = `query Transactions($tags:[TagFilter!]!,$blockFilter:BlockFilter!,$first:Int!,$after:String){
  transactions(tags:$tags,block:$blockFilter,first:$first,sort:HEIGHT_ASC,after:$after){
    pageInfo{hasNextPage}
    edges{
      node{id owner{address} recipient tags{name value}
           block{height id timestamp} fee{winston} quantity{winston}
           parent{id}}
      cursor}}}`

// maxRequest is the page size cap the gateway enforces per request.
const maxRequest = 100

type tagFilter struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type blockFilter struct {
	Max int64 `json:"max"`
}

type graphqlRequest struct {
	Query     string          `json:"query"`
	Variables graphqlVariables `json:"variables"`
}

type graphqlVariables struct {
	Tags        []tagFilter `json:"tags"`
	BlockFilter blockFilter `json:"blockFilter"`
	First       int         `json:"first"`
	After       *string     `json:"after"`
}

type graphqlResponse struct {
	Data struct {
		Transactions struct {
			PageInfo struct {
				HasNextPage bool `json:"hasNextPage"`
			} `json:"pageInfo"`
			Edges []Edge `json:"edges"`
		} `json:"transactions"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Edge is one GraphQL transactions edge: a node plus its pagination cursor.
type Edge struct {
	Node struct {
		ID    string `json:"id"`
		Owner struct {
			Address string `json:"address"`
		} `json:"owner"`
		Recipient string `json:"recipient"`
		Tags      []rawTag `json:"tags"`
		Block     struct {
			Height    int64  `json:"height"`
			ID        string `json:"id"`
			Timestamp int64  `json:"timestamp"`
		} `json:"block"`
		Fee struct {
			Winston string `json:"winston"`
		} `json:"fee"`
		Quantity struct {
			Winston string `json:"winston"`
		} `json:"quantity"`
		Parent *struct {
			ID string `json:"id"`
		} `json:"parent"`
	} `json:"node"`
	Cursor string `json:"cursor"`
}

// queryPage issues one GraphQL request for contractID's interactions up
// to maxHeight, returning up to first edges starting after the given
// cursor (nil for the first page).
func (c *Client) queryPage(ctx context.Context, contractID string, maxHeight int64, first int, after *string) ([]Edge, bool, error) {
	reqBody := graphqlRequest{
		Query: transactionsQuery,
		Variables: graphqlVariables{
			Tags: []tagFilter{
				{Name: "App-Name", Values: []string{"SmartWeaveAction"}},
				{Name: "Contract", Values: []string{contractID}},
			},
			BlockFilter: blockFilter{Max: maxHeight},
			First:       first,
			After:       after,
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, false, &NetworkError{Op: "encode graphql body", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL()+"/graphql", bytes.NewReader(payload))
	if err != nil {
		return nil, false, &NetworkError{Op: "build graphql request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, false, &NetworkError{Op: "POST /graphql", Err: err}
	}
	defer resp.Body.Close()

	var decoded graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, false, &ContractMalformed{Reason: fmt.Sprintf("decoding graphql response: %v", err)}
	}
	if len(decoded.Errors) > 0 {
		return nil, false, &NetworkError{Op: "POST /graphql", Err: fmt.Errorf("graphql error: %s", decoded.Errors[0].Message)}
	}

	return decoded.Data.Transactions.Edges, decoded.Data.Transactions.PageInfo.HasNextPage, nil
}
