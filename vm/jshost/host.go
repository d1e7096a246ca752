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

// Package jshost runs contract source as an async handler inside a
// deterministic goja runtime: fixed PRNG seed, host-provided gateway
// primitives, a heap-limit approximation, and the EXM deterministic-fetch
// extension.
package jshost

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/dop251/goja"

	"github.com/smartweave-go/evaluator/model"
)

// topLevelExport matches a top-level `export` keyword at the start of a
// line. Contract source is mandated in ES Module form
// (`export async function handle(state, action) {...}`), but goja.Compile
// here runs it as Script grammar, where `export` is only legal as a
// top-level Module statement; stripping it is the same trick a
// CommonJS/Script-mode shim uses to host ESM-shaped source.
var topLevelExport = regexp.MustCompile(`(?m)^(\s*)export\s+`)

func stripModuleExports(src []byte) []byte {
	return topLevelExport.ReplaceAll(src, []byte("$1"))
}

// Host is a single JS VM instance: exactly one per evaluation, matching the
// "Exactly one VM instance exists per evaluation" invariant.
type Host struct {
	rt       *goja.Runtime
	heap     *heapGuard
	gw       GatewayClient
	exm      *ExmContext
	txDate   *int64
	info     model.ContractInfo
	handleFn goja.Callable
}

// GatewayClient is the subset of the gateway client the JS globals need:
// SmartWeave.unsafeClient.transactions.
type GatewayClient interface {
	GetTransactionSource(txid string) ([]byte, error)
	GetTransactionJSON(txid string) (interface{}, error)
}

// Options configures a Host.
type Options struct {
	HeapSoftLimitBytes uint64 // default 5 MiB
	HeapHeadroomBytes  uint64 // default 5 MiB
	TxDate             *int64 // fixed Date.now()/EXM.getDate() value, if set
	Exm                *ExmContext
	Gateway            GatewayClient
}

// New constructs a Host around contract source src, evaluating it as the
// single in-memory module file:///main.js, and installs every host global
// the contract runtime needs.
func New(src []byte, info model.ContractInfo, opts Options) (*Host, error) {
	rt := goja.New()
	rt.SetRandSource(fixedRandSource())

	if opts.HeapSoftLimitBytes == 0 {
		opts.HeapSoftLimitBytes = 5 * 1024 * 1024
	}
	if opts.HeapHeadroomBytes == 0 {
		opts.HeapHeadroomBytes = 5 * 1024 * 1024
	}

	h := &Host{
		rt:     rt,
		heap:   newHeapGuard(rt, opts.HeapSoftLimitBytes, opts.HeapHeadroomBytes),
		gw:     opts.Gateway,
		exm:    opts.Exm,
		txDate: opts.TxDate,
		info:   info,
	}

	if h.exm == nil {
		h.exm = NewExmContext()
	}

	if err := installGlobals(rt, h); err != nil {
		return nil, err
	}

	wrapped := fmt.Sprintf("(function(){\n%s\nreturn typeof handle === 'function' ? handle : undefined;\n})()", string(stripModuleExports(src)))
	prog, err := goja.Compile("file:///main.js", wrapped, false)
	if err != nil {
		return nil, &CompileError{Err: err}
	}
	v, err := rt.RunProgram(prog)
	if err != nil {
		return nil, &CompileError{Err: err}
	}
	handleFn, ok := goja.AssertFunction(v)
	if !ok {
		return nil, &CompileError{Err: fmt.Errorf("module does not export async function handle")}
	}
	h.handleFn = handleFn

	return h, nil
}

// Apply runs one interaction through handle(state, callInput), draining
// the runtime's job queue before returning: the host must drive
// the engine's event loop to completion before reading the result".
// Because this engine exposes no real asynchronous I/O (EXM fetches and
// gateway reads are answered synchronously from Go), goja resolves every
// promise chain registered with .then/.catch by the time RunProgram/the
// call returns; there is no separate loop to pump.
func (h *Host) Apply(state json.RawMessage, callInput CallInput, ctx model.InteractionContext) (ApplyResult, error) {
	if err := h.heap.checkBefore(); err != nil {
		return ApplyResult{}, err
	}

	h.rt.Set("currentInteraction", ctx)
	h.rt.Set("exmContext", h.exm)

	stateVal := h.rt.ToValue(mustJSONValue(state))
	inputVal := h.rt.ToValue(map[string]interface{}{
		"input":  callInput.Input,
		"caller": callInput.Caller,
	})

	promiseVal, err := h.handleFn(goja.Undefined(), stateVal, inputVal)
	if err != nil {
		return ApplyResult{}, &ThrownError{Err: err}
	}

	result, thrown, err := drainPromise(h.rt, promiseVal)
	if err != nil {
		if h.heap.exceeded() {
			return ApplyResult{}, &TerminatedError{Bytes: h.heap.currentBytes()}
		}
		return ApplyResult{}, err
	}
	if thrown != nil {
		return ApplyResult{}, &ThrownError{Err: thrown}
	}

	return parseApplyResult(result)
}

// CallInput is the `{ input, caller }` object the replay engine builds
// for each interaction.
type CallInput struct {
	Input  interface{} `json:"input"`
	Caller string      `json:"caller"`
}

// ApplyResult is the decoded handle() return value.
type ApplyResult struct {
	HasState  bool
	State     json.RawMessage
	Result    interface{}
	Evolve    string
	CanEvolve bool
}

func mustJSONValue(raw json.RawMessage) interface{} {
	if len(raw) == 0 {
		return nil
	}
	var v interface{}
	_ = json.Unmarshal(raw, &v)
	return v
}
