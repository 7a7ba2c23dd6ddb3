package memetoken

import (
	"errors"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
	"go.uber.org/zap"

	memetokens "github.com/krazyTry/meme-tokens-go/gen/meme_tokens"
	solanago "github.com/krazyTry/meme-tokens-go/solana"
	"github.com/krazyTry/meme-tokens-go/wallet"
)

// TokenMetadataAuthorityOffset locates the authority key inside a TokenMetadata account.
const TokenMetadataAuthorityOffset = memetokens.TokenMetadataAuthorityOffset

var (
	ErrNotConnected    = wallet.ErrNotConnected
	ErrInvalidName     = errors.New("invalid token name")
	ErrInvalidDecimals = errors.New("invalid decimals")
	ErrInvalidSupply   = errors.New("invalid supply")
)

// TokenMetadata is the decoded on-chain metadata of one meme token.
type TokenMetadata = memetokens.TokenMetadata

type ProgramAccount[T any] struct {
	Pubkey  solana.PublicKey
	Account *T
}

// CreateTokenResult describes a confirmed create_token transaction.
type CreateTokenResult struct {
	Signature    solana.Signature
	Mint         solana.PublicKey
	TokenAccount solana.PublicKey
	Metadata     solana.PublicKey
}

// Observer is told about every facade operation.
type Observer interface {
	ObserveOperation(op string, took time.Duration, err error)
}

// MemeToken is the client of the meme_tokens program.
type MemeToken struct {
	RPC        *rpc.Client
	WS         *ws.Client
	Commitment rpc.CommitmentType
	ProgramID  solana.PublicKey

	wallet   *wallet.Context
	logger   *zap.Logger
	observer Observer
}

type Option func(*MemeToken)

// WithWebsocket enables signature subscriptions for confirmation.
func WithWebsocket(wsClient *ws.Client) Option {
	return func(m *MemeToken) {
		m.WS = wsClient
	}
}

func WithCommitment(commitment rpc.CommitmentType) Option {
	return func(m *MemeToken) {
		if commitment != "" {
			m.Commitment = commitment
		}
	}
}

func WithProgramID(programID solana.PublicKey) Option {
	return func(m *MemeToken) {
		if !programID.IsZero() {
			m.ProgramID = programID
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(m *MemeToken) {
		if logger != nil {
			m.logger = logger
		}
	}
}

func WithObserver(observer Observer) Option {
	return func(m *MemeToken) {
		m.observer = observer
	}
}

// NewMemeToken binds a client to the program. w may be nil for read-only use.
func NewMemeToken(rpcClient *rpc.Client, w *wallet.Context, opts ...Option) *MemeToken {
	m := &MemeToken{
		RPC:        rpcClient,
		Commitment: solanago.DefaultCommitment,
		ProgramID:  memetokens.ProgramID,
		wallet:     w,
		logger:     zap.NewNop(),
	}
	for _, fn := range opts {
		fn(m)
	}
	return m
}

// Wallet returns the wallet context the client signs with.
func (m *MemeToken) Wallet() *wallet.Context {
	return m.wallet
}

func (m *MemeToken) observe(op string, start time.Time, err error) {
	if m.observer != nil {
		m.observer.ObserveOperation(op, time.Since(start), err)
	}
}
