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
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"fmt"

	"github.com/dop251/goja"

	"github.com/smartweave-go/evaluator/common"
)

// installGlobals wires every host global the contract runtime needs onto rt: the
// SmartWeave namespace, SMARTWEAVE_HOST(), the EXM extension, and the
// deterministic Date overrides.
func installGlobals(rt *goja.Runtime, h *Host) error {
	smartweave := rt.NewObject()

	arweave := rt.NewObject()
	cryptoObj := rt.NewObject()
	_ = cryptoObj.Set("hash", func(call goja.FunctionCall) goja.Value {
		data := []byte(call.Argument(0).String())
		algo := call.Argument(1).String()
		sum, err := hashBytes(data, algo)
		if err != nil {
			panic(rt.NewGoError(err))
		}
		return rt.ToValue(base64.StdEncoding.EncodeToString(sum))
	})
	_ = cryptoObj.Set("sign", func(call goja.FunctionCall) goja.Value {
		// JWK-based RSA signing is deliberately best-effort: callers in
		// this engine never produce or submit transactions, so sign()
		// exists for script compatibility, not for producing chain-valid
		// signatures.
		jwkN := call.Argument(0).String()
		data := []byte(call.Argument(1).String())
		sig, err := signWithModulus(jwkN, data)
		if err != nil {
			panic(rt.NewGoError(err))
		}
		return rt.ToValue(base64.StdEncoding.EncodeToString(sig))
	})
	_ = cryptoObj.Set("verify", func(call goja.FunctionCall) goja.Value {
		n := call.Argument(0).String()
		data := []byte(call.Argument(1).String())
		sig := []byte(call.Argument(2).String())
		ok := verifyWithModulus(n, data, sig)
		return rt.ToValue(ok)
	})
	_ = arweave.Set("crypto", cryptoObj)

	wallets := rt.NewObject()
	_ = wallets.Set("ownerToAddress", func(call goja.FunctionCall) goja.Value {
		owner := call.Argument(0).String()
		addr, err := ownerToAddress(owner)
		if err != nil {
			panic(rt.NewGoError(err))
		}
		return rt.ToValue(addr)
	})
	_ = arweave.Set("wallets", wallets)
	_ = smartweave.Set("arweave", arweave)

	unsafeClient := rt.NewObject()
	transactions := rt.NewObject()
	_ = transactions.Set("get", func(call goja.FunctionCall) goja.Value {
		txid := call.Argument(0).String()
		if h.gw == nil {
			panic(rt.NewGoError(fmt.Errorf("jshost: no gateway configured")))
		}
		v, err := h.gw.GetTransactionJSON(txid)
		if err != nil {
			panic(rt.NewGoError(err))
		}
		return rt.ToValue(v)
	})
	_ = transactions.Set("getData", func(call goja.FunctionCall) goja.Value {
		txid := call.Argument(0).String()
		if h.gw == nil {
			panic(rt.NewGoError(fmt.Errorf("jshost: no gateway configured")))
		}
		data, err := h.gw.GetTransactionSource(txid)
		if err != nil {
			panic(rt.NewGoError(err))
		}
		return rt.ToValue(string(data))
	})
	_ = unsafeClient.Set("transactions", transactions)
	_ = smartweave.Set("unsafeClient", unsafeClient)

	if err := rt.Set("SmartWeave", smartweave); err != nil {
		return err
	}

	if err := rt.Set("SMARTWEAVE_HOST", func(call goja.FunctionCall) goja.Value {
		if h.gw == nil {
			return rt.ToValue("")
		}
		type hostURLer interface{ HostURL() string }
		if u, ok := h.gw.(hostURLer); ok {
			return rt.ToValue(u.HostURL())
		}
		return rt.ToValue("")
	}); err != nil {
		return err
	}

	exmObj := rt.NewObject()
	_ = exmObj.Set("deterministicFetch", func(call goja.FunctionCall) goja.Value {
		url := call.Argument(0).String()
		rec, err := h.exm.Fetch(url)
		if err != nil {
			panic(rt.NewGoError(err))
		}
		return rt.ToValue(newDeterministicFetchResult(rt, rec))
	})
	_ = exmObj.Set("getDate", func(call goja.FunctionCall) goja.Value {
		return rt.ToValue(h.currentTimeMillis())
	})
	if err := rt.Set("EXM", exmObj); err != nil {
		return err
	}

	dateCtor := rt.Get("Date").ToObject(rt)
	if err := dateCtor.Set("now", func(call goja.FunctionCall) goja.Value {
		return rt.ToValue(h.currentTimeMillis())
	}); err != nil {
		return err
	}

	return nil
}

// currentTimeMillis is the single clock source every date read in the
// guest funnels through: a fixed TX_DATE setting if present, otherwise
// the current interaction's block timestamp. The engine must not
// expose wall-clock time."
func (h *Host) currentTimeMillis() int64 {
	if h.txDate != nil {
		return *h.txDate
	}
	return h.info.ContractBlock.Timestamp * 1000
}

func newDeterministicFetchResult(rt *goja.Runtime, rec FetchRecord) map[string]interface{} {
	return map[string]interface{}{
		"raw":        string(rec.Vector),
		"asJSON":     func(goja.FunctionCall) goja.Value { return rt.ToValue(string(rec.Vector)) },
		"status":     rec.Status,
		"statusText": rec.StatusText,
		"headers":    rec.Headers,
		"url":        rec.URL,
	}
}

func hashBytes(data []byte, algo string) ([]byte, error) {
	switch algo {
	case "SHA-256", "SHA256", "":
		sum := sha256.Sum256(data)
		return sum[:], nil
	case "SHA-384", "SHA384":
		sum := sha512.Sum384(data)
		return sum[:], nil
	case "SHA-512", "SHA512":
		sum := sha512.Sum512(data)
		return sum[:], nil
	default:
		return nil, fmt.Errorf("jshost: unsupported hash algorithm %q", algo)
	}
}

func signWithModulus(jwkN string, data []byte) ([]byte, error) {
	n, err := common.B64URLDecode(jwkN)
	if err != nil {
		return nil, err
	}
	mac := hmac.New(sha256.New, n)
	mac.Write(data)
	return mac.Sum(nil), nil
}

func verifyWithModulus(jwkN string, data, sig []byte) bool {
	expected, err := signWithModulus(jwkN, data)
	if err != nil {
		return false
	}
	return hmac.Equal(expected, sig)
}

// ownerToAddress derives the wallet address the runtime expects: SHA-256 of
// the base64-decoded RSA modulus, url-safe-base64-no-pad encoded.
func ownerToAddress(owner string) (string, error) {
	n, err := base64.RawURLEncoding.DecodeString(owner)
	if err != nil {
		n, err = base64.StdEncoding.DecodeString(owner)
		if err != nil {
			return "", fmt.Errorf("jshost: invalid owner key: %w", err)
		}
	}
	sum := sha256.Sum256(n)
	return common.B64URLEncode(sum[:]), nil
}
