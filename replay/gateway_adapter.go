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

package replay

import (
	"context"

	"github.com/smartweave-go/evaluator/gateway"
)

// jsGatewayAdapter satisfies jshost.GatewayClient by delegating to a
// *gateway.Client, backing SmartWeave.unsafeClient.transactions.{get,
// getData}.
type jsGatewayAdapter struct {
	client *gateway.Client
}

func newJSGatewayAdapter(client *gateway.Client) *jsGatewayAdapter {
	return &jsGatewayAdapter{client: client}
}

func (a *jsGatewayAdapter) GetTransactionSource(txid string) ([]byte, error) {
	return a.client.GetTransactionData(context.Background(), txid)
}

func (a *jsGatewayAdapter) GetTransactionJSON(txid string) (interface{}, error) {
	meta, err := a.client.GetTransaction(context.Background(), txid)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"id":     meta.ID,
		"owner":  meta.Owner,
		"target": meta.Target,
		"tags":   meta.Tags(),
	}, nil
}

// HostURL satisfies jshost's optional hostURLer interface, backing
// SMARTWEAVE_HOST().
func (a *jsGatewayAdapter) HostURL() string {
	return a.client.HostURL()
}
