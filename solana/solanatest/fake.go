// Package solanatest provides an in-process JSON-RPC backend for tests.
package solanatest

import (
	"bytes"
	"context"
	"encoding/base64"
	stdjson "encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Handler answers one JSON-RPC method. The returned value is JSON encoded
// and decoded into the caller's result type; RawJSON is passed through untouched.
type Handler func(params []interface{}) (interface{}, error)

// RawJSON is a literal JSON result.
type RawJSON string

type account struct {
	owner  solana.PublicKey
	data   []byte
	parsed RawJSON
}

// FakeRPC implements rpc.JSONRPCClient over an in-memory account set.
type FakeRPC struct {
	mu       sync.Mutex
	accounts map[solana.PublicKey]account
	handlers map[string]Handler
	calls    map[string]int
	sent     []*solana.Transaction

	Blockhash solana.Hash
	// Status reported by getSignatureStatuses for sent transactions.
	Status rpc.ConfirmationStatusType
	// TxErr, when set, is reported as the execution error of sent transactions.
	TxErr interface{}
}

var _ rpc.JSONRPCClient = (*FakeRPC)(nil)

func New() *FakeRPC {
	f := &FakeRPC{
		accounts:  make(map[solana.PublicKey]account),
		handlers:  make(map[string]Handler),
		calls:     make(map[string]int),
		Blockhash: solana.HashFromBytes(bytes.Repeat([]byte{7}, 32)),
		Status:    rpc.ConfirmationStatusConfirmed,
	}
	f.handlers["getAccountInfo"] = f.getAccountInfo
	f.handlers["getMultipleAccounts"] = f.getMultipleAccounts
	f.handlers["getProgramAccounts"] = f.getProgramAccounts
	f.handlers["getLatestBlockhash"] = f.getLatestBlockhash
	f.handlers["sendTransaction"] = f.sendTransaction
	f.handlers["getSignatureStatuses"] = f.getSignatureStatuses
	return f
}

// Client returns an rpc.Client backed by f.
func (f *FakeRPC) Client() *rpc.Client {
	return rpc.NewWithCustomRPCClient(f)
}

// Handle overrides the handler of a method.
func (f *FakeRPC) Handle(method string, h Handler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[method] = h
}

// Fail makes every call to method return err.
func (f *FakeRPC) Fail(method string, err error) {
	f.Handle(method, func([]interface{}) (interface{}, error) { return nil, err })
}

// SetAccount stores base64 account data owned by owner.
func (f *FakeRPC) SetAccount(address, owner solana.PublicKey, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[address] = account{owner: owner, data: data}
}

// SetParsedAccount stores an account that is returned as jsonParsed data.
func (f *FakeRPC) SetParsedAccount(address, owner solana.PublicKey, parsed string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[address] = account{owner: owner, parsed: RawJSON(parsed)}
}

// Calls reports how many times method was invoked.
func (f *FakeRPC) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

// TotalCalls reports the number of calls across all methods.
func (f *FakeRPC) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

// Sent returns the transactions received by sendTransaction.
func (f *FakeRPC) Sent() []*solana.Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*solana.Transaction(nil), f.sent...)
}

func (f *FakeRPC) CallForInto(ctx context.Context, out interface{}, method string, params []interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	f.calls[method]++
	h, ok := f.handlers[method]
	f.mu.Unlock()
	if !ok {
		return fmt.Errorf("solanatest: method %q not handled", method)
	}

	result, err := h(params)
	if err != nil {
		return err
	}
	var raw []byte
	if r, ok := result.(RawJSON); ok {
		raw = []byte(r)
	} else if raw, err = json.Marshal(result); err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (f *FakeRPC) CallWithCallback(context.Context, string, []interface{}, func(*http.Request, *http.Response) error) error {
	return errors.New("solanatest: CallWithCallback not supported")
}

func (f *FakeRPC) CallBatch(context.Context, jsonrpc.RPCRequests) (jsonrpc.RPCResponses, error) {
	return nil, errors.New("solanatest: CallBatch not supported")
}

func rpcContext() map[string]interface{} {
	return map[string]interface{}{"slot": 1}
}

func (f *FakeRPC) lookup(key interface{}) (account, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var address solana.PublicKey
	switch k := key.(type) {
	case solana.PublicKey:
		address = k
	default:
		pk, err := solana.PublicKeyFromBase58(fmt.Sprint(k))
		if err != nil {
			return account{}, false
		}
		address = pk
	}
	acc, ok := f.accounts[address]
	return acc, ok
}

func (a account) value() map[string]interface{} {
	var data interface{}
	if a.parsed != "" {
		data = stdjson.RawMessage(a.parsed)
	} else {
		data = []string{base64.StdEncoding.EncodeToString(a.data), "base64"}
	}
	return map[string]interface{}{
		"lamports":   1_461_600,
		"owner":      a.owner.String(),
		"data":       data,
		"executable": false,
		"rentEpoch":  0,
	}
}

func (f *FakeRPC) getAccountInfo(params []interface{}) (interface{}, error) {
	acc, ok := f.lookup(params[0])
	if !ok {
		return map[string]interface{}{"context": rpcContext(), "value": nil}, nil
	}
	return map[string]interface{}{"context": rpcContext(), "value": acc.value()}, nil
}

func (f *FakeRPC) getMultipleAccounts(params []interface{}) (interface{}, error) {
	keys, _ := params[0].([]solana.PublicKey)
	values := make([]interface{}, len(keys))
	for i, k := range keys {
		if acc, ok := f.lookup(k); ok {
			values[i] = acc.value()
		}
	}
	return map[string]interface{}{"context": rpcContext(), "value": values}, nil
}

func (f *FakeRPC) getProgramAccounts(params []interface{}) (interface{}, error) {
	program, _ := params[0].(solana.PublicKey)
	var filters []rpc.RPCFilter
	if len(params) > 1 {
		if opts, ok := params[1].(rpc.M); ok {
			filters, _ = opts["filters"].([]rpc.RPCFilter)
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]interface{}, 0)
	for address, acc := range f.accounts {
		if !acc.owner.Equals(program) || !matches(acc.data, filters) {
			continue
		}
		out = append(out, map[string]interface{}{
			"pubkey":  address.String(),
			"account": acc.value(),
		})
	}
	return out, nil
}

func matches(data []byte, filters []rpc.RPCFilter) bool {
	for _, flt := range filters {
		if flt.DataSize != 0 && uint64(len(data)) != flt.DataSize {
			return false
		}
		if flt.Memcmp == nil {
			continue
		}
		end := flt.Memcmp.Offset + uint64(len(flt.Memcmp.Bytes))
		if end > uint64(len(data)) || !bytes.Equal(data[flt.Memcmp.Offset:end], flt.Memcmp.Bytes) {
			return false
		}
	}
	return true
}

func (f *FakeRPC) getLatestBlockhash([]interface{}) (interface{}, error) {
	return map[string]interface{}{
		"context": rpcContext(),
		"value": map[string]interface{}{
			"blockhash":            f.Blockhash.String(),
			"lastValidBlockHeight": 100,
		},
	}, nil
}

func (f *FakeRPC) sendTransaction(params []interface{}) (interface{}, error) {
	encoded, _ := params[0].(string)
	tx, err := solana.TransactionFromBase64(encoded)
	if err != nil {
		return nil, fmt.Errorf("solanatest: decode transaction: %w", err)
	}
	if err := tx.VerifySignatures(); err != nil {
		return nil, fmt.Errorf("solanatest: %w", err)
	}
	f.mu.Lock()
	f.sent = append(f.sent, tx)
	f.mu.Unlock()
	return tx.Signatures[0].String(), nil
}

func (f *FakeRPC) getSignatureStatuses([]interface{}) (interface{}, error) {
	return map[string]interface{}{
		"context": rpcContext(),
		"value": []interface{}{
			map[string]interface{}{
				"slot":               1,
				"confirmations":      nil,
				"err":                f.TxErr,
				"confirmationStatus": f.Status,
			},
		},
	}, nil
}
