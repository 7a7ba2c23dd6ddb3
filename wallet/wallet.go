package wallet

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

var (
	ErrNotConnected = errors.New("wallet not connected")
	ErrNoKeypair    = errors.New("no keypair configured")
)

// Signer is the signing identity a connected wallet exposes.
type Signer interface {
	PublicKey() solana.PublicKey
	// SignTransaction adds the signer's signature, leaving other signatures intact.
	SignTransaction(ctx context.Context, tx *solana.Transaction) error
}

// Backend produces a Signer when the wallet connects.
type Backend func(ctx context.Context) (Signer, error)

// State is a read-only snapshot of a wallet context.
type State struct {
	Connected bool
	Address   solana.PublicKey
}

// Context holds the connection handle and the current signing identity.
// It is safe for concurrent use.
type Context struct {
	backend Backend
	logger  *zap.Logger

	mu          sync.RWMutex
	initialized bool
	signer      Signer
}

type Option func(*Context)

func WithLogger(logger *zap.Logger) Option {
	return func(c *Context) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func NewContext(backend Backend, opts ...Option) *Context {
	c := &Context{backend: backend, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect asks the backend for a signer. Connecting twice keeps the first signer.
func (c *Context) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.signer != nil {
		return nil
	}
	if c.backend == nil {
		return ErrNoKeypair
	}
	signer, err := c.backend(ctx)
	if err != nil {
		c.logger.Warn("wallet connect failed", zap.Error(err))
		return fmt.Errorf("connect wallet: %w", err)
	}
	c.initialized = true
	c.signer = signer
	c.logger.Info("wallet connected", zap.Stringer("address", signer.PublicKey()))
	return nil
}

func (c *Context) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.signer != nil {
		c.logger.Info("wallet disconnected", zap.Stringer("address", c.signer.PublicKey()))
	}
	c.signer = nil
}

// State reports false until the context has been connected once.
func (c *Context) State() (State, bool) {
	if c == nil {
		return State{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.initialized {
		return State{}, false
	}
	st := State{Connected: c.signer != nil}
	if c.signer != nil {
		st.Address = c.signer.PublicKey()
	}
	return st, true
}

func (c *Context) Connected() bool {
	st, _ := c.State()
	return st.Connected
}

// Address returns the connected public key.
func (c *Context) Address() (solana.PublicKey, bool) {
	st, _ := c.State()
	return st.Address, st.Connected
}

// Signer returns the current signing identity or ErrNotConnected.
func (c *Context) Signer() (Signer, error) {
	if c == nil {
		return nil, ErrNotConnected
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.signer == nil {
		return nil, ErrNotConnected
	}
	return c.signer, nil
}

func (c *Context) Sign(ctx context.Context, tx *solana.Transaction) error {
	signer, err := c.Signer()
	if err != nil {
		return err
	}
	return signer.SignTransaction(ctx, tx)
}
