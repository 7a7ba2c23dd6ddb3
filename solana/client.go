package solana

import (
	"context"
	"net/http"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"golang.org/x/time/rate"
)

// CallObserver receives one event per JSON-RPC call.
type CallObserver interface {
	ObserveRPC(method string, took time.Duration, err error)
}

// NewRPCClient returns a client limited to rps requests per second (0 disables the limit).
// Calls are reported to observer when it is not nil.
func NewRPCClient(endpoint string, rps int, observer CallObserver) *rpc.Client {
	var inner rpc.JSONRPCClient
	if rps > 0 {
		inner = rpc.NewWithLimiter(endpoint, rate.Limit(rps), 1)
	} else {
		inner = jsonrpc.NewClient(endpoint)
	}
	return WrapJSONRPC(inner, observer)
}

// WrapJSONRPC builds an rpc.Client over any transport, instrumenting it when observer is set.
func WrapJSONRPC(inner rpc.JSONRPCClient, observer CallObserver) *rpc.Client {
	if observer == nil {
		return rpc.NewWithCustomRPCClient(inner)
	}
	return rpc.NewWithCustomRPCClient(&observedClient{inner: inner, observer: observer})
}

type observedClient struct {
	inner    rpc.JSONRPCClient
	observer CallObserver
}

var _ rpc.JSONRPCClient = (*observedClient)(nil)

func (c *observedClient) CallForInto(ctx context.Context, out interface{}, method string, params []interface{}) error {
	start := time.Now()
	err := c.inner.CallForInto(ctx, out, method, params)
	c.observer.ObserveRPC(method, time.Since(start), err)
	return err
}

func (c *observedClient) CallWithCallback(ctx context.Context, method string, params []interface{}, callback func(*http.Request, *http.Response) error) error {
	start := time.Now()
	err := c.inner.CallWithCallback(ctx, method, params, callback)
	c.observer.ObserveRPC(method, time.Since(start), err)
	return err
}

func (c *observedClient) CallBatch(ctx context.Context, requests jsonrpc.RPCRequests) (jsonrpc.RPCResponses, error) {
	start := time.Now()
	out, err := c.inner.CallBatch(ctx, requests)
	c.observer.ObserveRPC("batch", time.Since(start), err)
	return out, err
}

func (c *observedClient) Close() error {
	if closer, ok := c.inner.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
