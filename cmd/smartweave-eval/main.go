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

// smartweave-eval is a thin CLI wrapper around the evaluator: fetch
// and replay a contract against a live gateway, or dry-run a locally
// supplied contract and synthetic interaction list. The REST server that
// would normally front this evaluator is out of scope here.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/urfave/cli.v1"

	"github.com/smartweave-go/evaluator/api"
	"github.com/smartweave-go/evaluator/cache"
	"github.com/smartweave-go/evaluator/gateway"
)

var (
	gatewayHostFlag = cli.StringFlag{Name: "gateway-host", Usage: "gateway hostname", Value: "arweave.net"}
	gatewayPortFlag = cli.IntFlag{Name: "gateway-port", Usage: "gateway port", Value: 443}
	gatewayProtoFlag = cli.StringFlag{Name: "gateway-protocol", Usage: "gateway protocol", Value: "https"}
	heightFlag      = cli.Int64Flag{Name: "height", Usage: "evaluate as of this block height (default: current tip)"}
	cacheDirFlag    = cli.StringFlag{Name: "cache-dir", Usage: "enable the filesystem cache at this directory"}
	showValidityFlag = cli.BoolFlag{Name: "show-validity", Usage: "include the validity table in the response"}
	contentTypeFlag = cli.StringFlag{Name: "content-type", Usage: "override the resolved contract content type"}
	specFlag        = cli.StringFlag{Name: "spec", Usage: "path to a dry-run spec JSON file"}
)

func main() {
	app := cli.NewApp()
	app.Name = "smartweave-eval"
	app.Usage = "deterministic contract replay evaluator"
	app.Commands = []cli.Command{
		{
			Name:      "evaluate",
			Usage:     "evaluate a contract against a live gateway",
			ArgsUsage: "<contractId>",
			Flags:     []cli.Flag{gatewayHostFlag, gatewayPortFlag, gatewayProtoFlag, heightFlag, cacheDirFlag, showValidityFlag, contentTypeFlag},
			Action:    evaluateAction,
		},
		{
			Name:   "dryrun",
			Usage:  "evaluate a locally supplied contract and interaction list",
			Flags:  []cli.Flag{specFlag},
			Action: dryRunAction,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func evaluateAction(ctx *cli.Context) error {
	contractID := ctx.Args().First()
	if contractID == "" {
		return cli.NewExitError("evaluate requires a contract id argument", 1)
	}

	gw := gateway.NewClient(gateway.Config{
		Protocol: ctx.String(gatewayProtoFlag.Name),
		Host:     ctx.String(gatewayHostFlag.Name),
		Port:     ctx.Int(gatewayPortFlag.Name),
	}, nil)

	var c cache.Cache
	if dir := ctx.String(cacheDirFlag.Name); dir != "" {
		fsCache, err := cache.NewFSCache(dir)
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		c = fsCache
	}

	var height *int64
	if ctx.IsSet(heightFlag.Name) {
		h := ctx.Int64(heightFlag.Name)
		height = &h
	}

	result, err := api.Evaluate(context.Background(), api.EvaluateRequest{
		ContractID:          contractID,
		Height:              height,
		ContentTypeOverride: ctx.String(contentTypeFlag.Name),
		Cache:               c,
		Gateway:             gw,
	})
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	return printResponse(api.Response(result, ctx.Bool(showValidityFlag.Name)))
}

func dryRunAction(ctx *cli.Context) error {
	specPath := ctx.String(specFlag.Name)
	if specPath == "" {
		return cli.NewExitError("dryrun requires --spec", 1)
	}

	raw, err := os.ReadFile(specPath)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	var spec api.DryRunSpec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	result, err := api.EvaluateDryRun(context.Background(), spec)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	return printResponse(api.Response(result, true))
}

func printResponse(resp api.EvaluateResponse) error {
	out, err := json.Marshal(resp)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	fmt.Println(string(out))
	return nil
}
