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

// Package api is the public surface of the evaluator: "evaluate a
// contract at a height" against a live gateway, and "evaluate a synthetic
// interaction list against a locally supplied contract" (dry-run). It
// stays deliberately small; the CLI flag parser and the local HTTP
// server that expose these over a process boundary are out of scope.
package api

import (
	"context"
	"encoding/json"

	"github.com/smartweave-go/evaluator/cache"
	"github.com/smartweave-go/evaluator/gateway"
	"github.com/smartweave-go/evaluator/model"
	"github.com/smartweave-go/evaluator/replay"
)

// EvaluateRequest names one live evaluation: the `GET /evaluate/:contractId`
// query parameters, minus the ones the HTTP collaborator owns directly.
type EvaluateRequest struct {
	ContractID          string
	Height              *int64
	ContentTypeOverride string
	Cache               cache.Cache
	Gateway             *gateway.Client
}

// EvaluateResponse is the `{ state }` or `{ state, validity }` body
// describes; Validity is omitted from JSON unless ShowValidity was set by
// the caller building the response.
type EvaluateResponse struct {
	State    json.RawMessage      `json:"state"`
	Validity *model.ValidityTable `json:"validity,omitempty"`
}

// Evaluate runs a full gateway-backed evaluation and returns the final
// state plus validity table.
func Evaluate(ctx context.Context, req EvaluateRequest) (*replay.Result, error) {
	var eng replay.Engine
	return eng.Evaluate(ctx, replay.Options{
		ContractID:          req.ContractID,
		Height:              req.Height,
		ContentTypeOverride: req.ContentTypeOverride,
		Cache:               req.Cache,
		Gateway:             req.Gateway,
	})
}

// EvaluateState is Evaluate trimmed to just the final state, for callers
// that never asked for showValidity.
func EvaluateState(ctx context.Context, req EvaluateRequest) (json.RawMessage, error) {
	result, err := Evaluate(ctx, req)
	if err != nil {
		return nil, err
	}
	return result.State, nil
}

// Response renders a replay.Result as the response body, including the
// validity table only when showValidity is true.
func Response(result *replay.Result, showValidity bool) EvaluateResponse {
	resp := EvaluateResponse{State: result.State}
	if showValidity {
		resp.Validity = result.Validity
	}
	return resp
}
