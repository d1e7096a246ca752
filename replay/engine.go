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
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/smartweave-go/evaluator/cache"
	"github.com/smartweave-go/evaluator/common"
	"github.com/smartweave-go/evaluator/gateway"
	"github.com/smartweave-go/evaluator/internal/evmlog"
	"github.com/smartweave-go/evaluator/model"
	"github.com/smartweave-go/evaluator/vm/evm"
	"github.com/smartweave-go/evaluator/vm/jshost"
	"github.com/smartweave-go/evaluator/vm/wasmhost"
)

var engineLog = evmlog.Root().New("module", "replay")

// Options configures one evaluation; it is the Go shape of the input
// tuple (contract_id, height?, cache_enabled, show_errors).
type Options struct {
	ContractID string
	// Height pins the evaluation to a block height; nil means "current
	// tip", resolved via GetNetworkInfo.
	Height *int64
	// ContentTypeOverride wins over every tag-derived content type in the
	// resolution order.
	ContentTypeOverride string
	Cache               cache.Cache
	Gateway             *gateway.Client
	// Exm, when non-nil, puts the JS host in record/replay mode and
	// disables evolve.
	Exm    *jshost.ExmContext
	TxDate *int64
}

// Result is the outcome of one evaluation: the final state and the full
// per-interaction validity table.
type Result struct {
	State    json.RawMessage
	Validity *model.ValidityTable
}

// Engine runs Evaluate; it holds nothing but what Options supplies, so a
// single Engine value may be reused (but never shared across concurrent
// Evaluate calls — VM instances are single-owner).
type Engine struct{}

// Evaluate runs the full replay pipeline: load, sort, filter, resume,
// VM-select, replay, cache.
func (Engine) Evaluate(ctx context.Context, opts Options) (*Result, error) {
	if opts.Gateway == nil {
		return nil, fmt.Errorf("replay: Options.Gateway is required")
	}

	height, err := resolveHeight(ctx, opts)
	if err != nil {
		return nil, err
	}

	var (
		contract     *model.Contract
		info         model.ContractInfo
		interactions []model.Interaction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var loadErr error
		contract, info, loadErr = loadContract(gctx, opts)
		return loadErr
	})
	g.Go(func() error {
		var loadErr error
		interactions, loadErr = loadInteractions(gctx, opts, height)
		return loadErr
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	filtered := filterTopLevel(interactions)
	sortInteractions(filtered)

	var cached *cache.State
	if opts.Cache != nil {
		if s, ok := opts.Cache.FindState(opts.ContractID); ok {
			cached = s
		}
	}

	resumeFrom := 0
	validity := model.NewValidityTable()
	state := contract.InitState

	if cached != nil && cached.Height <= height {
		resumeFrom = cached.Validity.Len()
		if resumeFrom <= len(filtered) {
			validity = cached.Validity
			state = cached.Value
		} else {
			resumeFrom = 0
		}
	}
	engineLog.Debug("resolved resume point", "contract", opts.ContractID, "height", height, "total", len(filtered), "resumeFrom", resumeFrom)

	if resumeFrom == len(filtered) {
		engineLog.Debug("cached state already covers height, skipping replay", "contract", opts.ContractID)
		return &Result{State: state, Validity: validity}, nil
	}

	inst, err := newInstance(ctx, contract, info, state, opts)
	if err != nil {
		return nil, err
	}

	result, err := replayLoop(ctx, inst, filtered[resumeFrom:], validity, opts, info)
	if err != nil {
		return nil, err
	}

	if opts.Cache != nil {
		opts.Cache.CacheState(opts.ContractID, &cache.State{Height: height, Value: result.State, Validity: result.Validity})
	}

	return result, nil
}

// replayLoop runs interactions (already sorted and filtered) against inst
// in order, recording validity and handling JS evolve.
func replayLoop(ctx context.Context, inst Instance, interactions []model.Interaction, validity *model.ValidityTable, opts Options, info model.ContractInfo) (*Result, error) {
	for _, interaction := range interactions {
		applyErr := inst.Apply(interaction)
		validity.Set(interaction.ID, applyErr == nil)
		if applyErr != nil {
			engineLog.Debug("interaction rejected", "id", interaction.ID, "err", applyErr)
		}

		if applyErr == nil && opts.Exm == nil {
			if evolveTxID, ok := inst.Evolved(); ok {
				engineLog.Info("evolve requested", "id", interaction.ID, "newSource", evolveTxID)
				evolved, evolveErr := evolveInstance(ctx, opts, evolveTxID, inst, info)
				if evolveErr == nil {
					inst = evolved
				} else {
					engineLog.Warn("evolve target unreadable, keeping current instance", "newSource", evolveTxID, "err", evolveErr)
				}
				// An unreadable evolve target leaves the current
				// instance in place; the interaction that requested it
				// still records valid (the handle call itself
				// succeeded).
			}
		}
	}

	finalState, err := inst.State()
	if err != nil {
		return nil, err
	}
	return &Result{State: finalState, Validity: validity}, nil
}

// EvaluateLocal runs the replay loop against a locally supplied contract
// and interaction list, with no gateway and no cache — the dry-run path
// the public API exposes for "evaluate a synthetic interaction list against
// a locally supplied contract".
func (Engine) EvaluateLocal(ctx context.Context, contract *model.Contract, info model.ContractInfo, interactions []model.Interaction) (*Result, error) {
	filtered := filterTopLevel(interactions)
	sortInteractions(filtered)

	inst, err := newInstance(ctx, contract, info, contract.InitState, Options{})
	if err != nil {
		return nil, err
	}

	return replayLoop(ctx, inst, filtered, model.NewValidityTable(), Options{}, info)
}

func resolveHeight(ctx context.Context, opts Options) (int64, error) {
	if opts.Height != nil {
		return *opts.Height, nil
	}
	info, err := opts.Gateway.GetNetworkInfo(ctx)
	if err != nil {
		return 0, err
	}
	return info.Height, nil
}

func filterTopLevel(interactions []model.Interaction) []model.Interaction {
	out := make([]model.Interaction, 0, len(interactions))
	for _, i := range interactions {
		if i.IsBundleChild() {
			continue
		}
		out = append(out, i)
	}
	return out
}

func sortInteractions(interactions []model.Interaction) {
	keys := make([]string, len(interactions))
	for idx, i := range interactions {
		keys[idx] = common.SortKey(i.Block.Height, i.Block.IndepHash, i.ID)
	}
	sort.SliceStable(interactions, func(a, b int) bool {
		return common.LessSortKey(keys[a], keys[b])
	})
}

func loadContract(ctx context.Context, opts Options) (*model.Contract, model.ContractInfo, error) {
	if opts.Cache != nil {
		if c, ok := opts.Cache.FindContract(opts.ContractID); ok {
			info, err := fetchContractInfo(ctx, opts, c)
			return c, info, err
		}
	}

	meta, err := opts.Gateway.GetTransaction(ctx, opts.ContractID)
	if err != nil {
		return nil, model.ContractInfo{}, err
	}
	bundled, err := opts.Gateway.GetBundledContract(ctx, opts.ContractID)
	if err != nil {
		return nil, model.ContractInfo{}, err
	}

	contractTag, _ := meta.GetTag("Content-Type")
	ctype := gateway.ResolveContentType(opts.ContentTypeOverride, bundled.ContentType, contractTag)

	source, err := decodeSource(ctype, bundled.ContractSrc)
	if err != nil {
		return nil, model.ContractInfo{}, err
	}
	initState, err := decodeInitState(ctype, bundled.InitState)
	if err != nil {
		return nil, model.ContractInfo{}, err
	}

	contract := &model.Contract{
		ID:          opts.ContractID,
		Type:        ctype,
		SourceBytes: source,
		InitState:   initState,
		Transaction: model.ContractTransaction{
			ID:       meta.ID,
			Owner:    meta.Owner,
			Tags:     meta.Tags(),
			Target:   meta.Target,
			Quantity: meta.Quantity,
			Reward:   meta.Reward,
		},
	}

	if opts.Cache != nil {
		opts.Cache.CacheContract(opts.ContractID, contract)
	}

	info, err := fetchContractInfo(ctx, opts, contract)
	return contract, info, err
}

// fetchContractInfo builds the ContractInfo view handed to the VM hosts: the
// contract's own transaction plus the block it was mined in.
func fetchContractInfo(ctx context.Context, opts Options, c *model.Contract) (model.ContractInfo, error) {
	status, err := opts.Gateway.GetTransactionStatus(ctx, c.ID)
	if err != nil {
		return model.ContractInfo{}, err
	}
	block, err := opts.Gateway.GetBlockByHash(ctx, status.BlockIndepHash)
	if err != nil {
		return model.ContractInfo{}, err
	}
	return model.ContractInfo{
		ContractTransaction: c.Transaction,
		ContractBlock: model.Block{
			Height:    block.Height,
			IndepHash: block.IndepHash,
			Timestamp: block.Timestamp,
		},
	}, nil
}

func decodeSource(ctype model.ContractType, src string) ([]byte, error) {
	switch ctype {
	case model.ContractTypeJS:
		return []byte(src), nil
	case model.ContractTypeWasm:
		return decodeBase64OrRaw(src)
	case model.ContractTypeEvm:
		decoded, err := hex.DecodeString(trimHexPrefix(src))
		if err != nil {
			return nil, &gateway.ContractMalformed{Reason: fmt.Sprintf("decoding EVM bytecode: %v", err)}
		}
		return decoded, nil
	default:
		return []byte(src), nil
	}
}

func decodeInitState(ctype model.ContractType, initState string) (json.RawMessage, error) {
	if initState == "" {
		if ctype == model.ContractTypeEvm {
			return json.Marshal("")
		}
		return json.RawMessage("null"), nil
	}
	if ctype == model.ContractTypeEvm {
		if _, err := hex.DecodeString(trimHexPrefix(initState)); err != nil {
			return nil, &gateway.ContractMalformed{Reason: fmt.Sprintf("decoding EVM init storage: %v", err)}
		}
		return json.Marshal(initState)
	}
	if !json.Valid([]byte(initState)) {
		return nil, &gateway.ContractMalformed{Reason: "initState is not valid JSON"}
	}
	return json.RawMessage(initState), nil
}

func decodeBase64OrRaw(s string) ([]byte, error) {
	decoded, err := common.B64URLDecode(s)
	if err == nil {
		return decoded, nil
	}
	return []byte(s), nil
}

// loadInteractions fetches every interaction up to height. An incremental
// fetch keyed off a cached tail cursor is possible, but this engine always
// refetches the full list and leans on the state-level cache (Evaluate's
// resumeFrom logic) instead — documented as a deliberate simplification.
func loadInteractions(ctx context.Context, opts Options, height int64) ([]model.Interaction, error) {
	edges, err := opts.Gateway.GetInteractions(ctx, opts.ContractID, height, nil)
	if err != nil {
		return nil, err
	}
	interactions := edgesToInteractions(edges)
	if opts.Cache != nil {
		opts.Cache.CacheInteractions(opts.ContractID, interactions)
	}
	return interactions, nil
}

func edgesToInteractions(edges []gateway.Edge) []model.Interaction {
	out := make([]model.Interaction, 0, len(edges))
	for _, e := range edges {
		var parent *model.Ref
		if e.Node.Parent != nil {
			parent = &model.Ref{ID: e.Node.Parent.ID}
		}
		tags := make([]model.Tag, 0, len(e.Node.Tags))
		for _, t := range e.Node.Tags {
			name, err := common.B64URLDecode(t.Name)
			if err != nil {
				name = []byte(t.Name)
			}
			value, err := common.B64URLDecode(t.Value)
			if err != nil {
				value = []byte(t.Value)
			}
			tags = append(tags, model.Tag{Name: string(name), Value: string(value)})
		}
		out = append(out, model.Interaction{
			ID:           e.Node.ID,
			OwnerAddress: e.Node.Owner.Address,
			Recipient:    e.Node.Recipient,
			Quantity:     e.Node.Quantity.Winston,
			Reward:       e.Node.Fee.Winston,
			Tags:         tags,
			Block: model.Block{
				Height:    e.Node.Block.Height,
				IndepHash: e.Node.Block.ID,
				Timestamp: e.Node.Block.Timestamp,
			},
			Parent: parent,
		})
	}
	return out
}

func newInstance(ctx context.Context, contract *model.Contract, info model.ContractInfo, state json.RawMessage, opts Options) (Instance, error) {
	switch contract.Type {
	case model.ContractTypeJS:
		return newJSInstanceFor(contract, info, state, opts)
	case model.ContractTypeWasm:
		return newWASMInstanceFor(ctx, contract, state, opts)
	case model.ContractTypeEvm:
		return newEVMInstanceFor(contract, state, info)
	default:
		return nil, fmt.Errorf("replay: unknown contract type %q", contract.Type)
	}
}

func newJSInstanceFor(contract *model.Contract, info model.ContractInfo, state json.RawMessage, opts Options) (*jsInstance, error) {
	host, err := jshost.New(contract.SourceBytes, info, jshost.Options{
		TxDate:  opts.TxDate,
		Exm:     opts.Exm,
		Gateway: newJSGatewayAdapter(opts.Gateway),
	})
	if err != nil {
		return nil, err
	}
	return newJSInstance(host, state, opts.Exm != nil), nil
}

func newWASMInstanceFor(ctx context.Context, contract *model.Contract, state json.RawMessage, opts Options) (*wasmInstance, error) {
	var reader wasmhost.StateReader
	if opts.Cache != nil {
		reader = cacheStateReader{cache: opts.Cache}
	}
	host, err := wasmhost.New(ctx, contract.SourceBytes, reader)
	if err != nil {
		return nil, err
	}
	return newWASMInstance(host, state), nil
}

func newEVMInstanceFor(contract *model.Contract, state json.RawMessage, info model.ContractInfo) (*evmInstance, error) {
	var hexState string
	if err := json.Unmarshal(state, &hexState); err != nil {
		return nil, &gateway.ContractMalformed{Reason: fmt.Sprintf("decoding EVM state: %v", err)}
	}
	raw, err := hex.DecodeString(trimHexPrefix(hexState))
	if err != nil {
		return nil, &gateway.ContractMalformed{Reason: fmt.Sprintf("decoding EVM state hex: %v", err)}
	}
	storage, err := evm.StorageFromRaw(raw)
	if err != nil {
		return nil, err
	}
	owner := ownerWord(contract.ID)
	block := evm.BlockContext{
		Number:     uint64(info.ContractBlock.Height),
		Timestamp:  uint64(info.ContractBlock.Timestamp),
		Difficulty: 0,
		GasLimit:   0,
	}
	return newEVMInstance(owner, contract.SourceBytes, storage, block, nil), nil
}

// ownerWord derives the 256-bit EVM owner identifier from a contract id;
// there is no wallet keypair in this engine's scope, so the contract's own
// content-addressed id stands in for an address.
func ownerWord(contractID string) evm.Word {
	sum := sha256.Sum256([]byte(contractID))
	return evm.Word(sum)
}

func evolveInstance(ctx context.Context, opts Options, evolveTxID string, current Instance, info model.ContractInfo) (Instance, error) {
	j, ok := current.(*jsInstance)
	if !ok {
		return nil, fmt.Errorf("replay: evolve requested by a non-JS instance")
	}
	source, err := opts.Gateway.GetTransactionData(ctx, evolveTxID)
	if err != nil {
		return nil, err
	}
	state, err := j.State()
	if err != nil {
		return nil, err
	}
	host, err := jshost.New(source, info, jshost.Options{
		TxDate:  opts.TxDate,
		Exm:     opts.Exm,
		Gateway: newJSGatewayAdapter(opts.Gateway),
	})
	if err != nil {
		return nil, err
	}
	return newJSInstance(host, state, opts.Exm != nil), nil
}

// cacheStateReader answers wasmhost's cross-contract smartweave_read_state
// import from the process cache rather than a network round trip.
type cacheStateReader struct {
	cache cache.Cache
}

func (r cacheStateReader) ReadState(txID string) ([]byte, bool) {
	s, ok := r.cache.FindState(txID)
	if !ok {
		return nil, false
	}
	return s.Value, true
}
