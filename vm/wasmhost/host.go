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

// Package wasmhost instantiates guest WASM modules and drives the
// linear-memory ABI between host and guest: a shared
// memory buffer, an _alloc export, the handle entry point, and a
// cross-contract state-read import.
package wasmhost

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// StateReader answers the 3em.smartweave_read_state import: the cached
// evaluated state for another contract, as JSON bytes.
type StateReader interface {
	ReadState(txID string) ([]byte, bool)
}

// Host is a single WASM VM instance wrapping one guest module instance;
// exactly one per evaluation.
type Host struct {
	ctx      context.Context
	runtime  wazero.Runtime
	module   api.Module
	cost     uint64
	reader   StateReader
}

// New compiles and instantiates the guest module in code against a fresh
// wazero runtime with the host imports the guest module needs, and validates the
// presence of every required guest export.
func New(ctx context.Context, code []byte, reader StateReader) (*Host, error) {
	runtime := wazero.NewRuntime(ctx)

	h := &Host{ctx: ctx, runtime: runtime, reader: reader}

	if err := h.instantiateHostModules(ctx); err != nil {
		runtime.Close(ctx)
		return nil, err
	}

	compiled, err := runtime.CompileModule(ctx, code)
	if err != nil {
		runtime.Close(ctx)
		return nil, fmt.Errorf("wasmhost: compiling guest module: %w", err)
	}

	mod, err := runtime.InstantiateModule(ctx, compiled, wazero.NewModuleConfig())
	if err != nil {
		runtime.Close(ctx)
		return nil, fmt.Errorf("wasmhost: instantiating guest module: %w", err)
	}
	h.module = mod

	for _, name := range []string{"memory", "_alloc", "handle", "get_len"} {
		if name == "memory" {
			if mod.Memory() == nil {
				return nil, fmt.Errorf("wasmhost: guest module exports no memory")
			}
			continue
		}
		if mod.ExportedFunction(name) == nil {
			return nil, fmt.Errorf("wasmhost: guest module missing required export %q", name)
		}
	}

	return h, nil
}

// Close releases the runtime and every module instantiated against it.
func (h *Host) Close() error {
	return h.runtime.Close(h.ctx)
}

// instantiateHostModules wires the 3em, env, and wasi_snapshot_preview1
// namespaces the guest module needs, before the guest module (which imports from
// them) is instantiated.
func (h *Host) instantiateHostModules(ctx context.Context) error {
	_, err := h.runtime.NewHostModuleBuilder("3em").
		NewFunctionBuilder().
		WithFunc(h.smartweaveReadState).
		Export("smartweave_read_state").
		NewFunctionBuilder().
		WithFunc(h.consumeGas).
		Export("consumeGas").
		Instantiate(ctx)
	if err != nil {
		return fmt.Errorf("wasmhost: instantiating 3em host module: %w", err)
	}

	_, err = h.runtime.NewHostModuleBuilder("env").
		NewFunctionBuilder().
		WithFunc(func(ctx context.Context, m api.Module, a, b, c, d uint32) {}).
		Export("abort").
		Instantiate(ctx)
	if err != nil {
		return fmt.Errorf("wasmhost: instantiating env host module: %w", err)
	}

	_, err = h.runtime.NewHostModuleBuilder("wasi_snapshot_preview1").
		NewFunctionBuilder().
		WithFunc(func(ctx context.Context, m api.Module, fd uint32) uint32 { return 0 }).
		Export("fd_close").
		NewFunctionBuilder().
		WithFunc(func(ctx context.Context, m api.Module, fd uint32, offset uint64, whence uint32, resultPtr uint32) uint32 { return 0 }).
		Export("fd_seek").
		NewFunctionBuilder().
		WithFunc(func(ctx context.Context, m api.Module, fd, iovs, iovsLen, resultPtr uint32) uint32 { return 0 }).
		Export("fd_write").
		Instantiate(ctx)
	if err != nil {
		return fmt.Errorf("wasmhost: instantiating wasi_snapshot_preview1 host module: %w", err)
	}

	return nil
}

// smartweaveReadState implements 3em.smartweave_read_state: read the raw
// tx id bytes from guest memory, resolve its cached state through
// StateReader, write the JSON bytes into a fresh guest allocation, write
// the little-endian length into len_ptr, and return the pointer.
func (h *Host) smartweaveReadState(ctx context.Context, m api.Module, txPtr, txLen, lenPtr uint32) uint32 {
	txBytes, ok := m.Memory().Read(txPtr, txLen)
	if !ok {
		return 0
	}
	if h.reader == nil {
		return 0
	}
	data, ok := h.reader.ReadState(string(txBytes))
	if !ok {
		data = []byte("null")
	}

	ptr, err := h.alloc(ctx, uint32(len(data)))
	if err != nil {
		return 0
	}
	if !m.Memory().Write(ptr, data) {
		return 0
	}

	lenBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(lenBuf, uint32(len(data)))
	m.Memory().Write(lenPtr, lenBuf)

	return ptr
}

// consumeGas adds n to the observational COST counter; it does not
// enforce a limit.
func (h *Host) consumeGas(ctx context.Context, m api.Module, n uint32) {
	h.cost += uint64(n)
}

// Cost reports the accumulated consumeGas total for diagnostics.
func (h *Host) Cost() uint64 { return h.cost }

func (h *Host) alloc(ctx context.Context, n uint32) (uint32, error) {
	allocFn := h.module.ExportedFunction("_alloc")
	res, err := allocFn.Call(ctx, uint64(n))
	if err != nil {
		return 0, err
	}
	return uint32(res[0]), nil
}
