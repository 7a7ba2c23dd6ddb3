package view

import (
	"context"
	"errors"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/krazyTry/meme-tokens-go/helpers"
	"github.com/krazyTry/meme-tokens-go/memetoken"
)

// Status is the lifecycle of one form instance.
type Status int

const (
	Idle Status = iota
	Submitting
	Succeeded
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

var ErrBusy = errors.New("an operation is already in progress")

const (
	MsgConnectWallet  = "Please connect your wallet first"
	MsgCreated        = "Token created successfully!"
	MsgCreateFailed   = "Failed to create token"
	MsgNotFound       = "Token not found or not yet created"
	MsgFetchFailed    = "Failed to fetch token metadata"
	StatusInitialized = "Initialized"
	StatusPending     = "Not Initialized"
)

// CreatedToken is what the create form shows after a successful submission.
type CreatedToken struct {
	Signature    string
	Mint         string
	TokenAccount string
	Metadata     string
}

// Facade is the part of the program client the forms drive.
type Facade interface {
	CreateToken(ctx context.Context, name string, supply uint64, decimals uint8) (*CreatedToken, error)
	GetTokenMetadata(ctx context.Context, name string) (*memetoken.TokenMetadata, error)
}

// Connection reports whether a signing identity is available.
type Connection interface {
	Connected() bool
}

type memeTokenFacade struct {
	client *memetoken.MemeToken
}

// Adapt exposes a MemeToken client as a Facade.
func Adapt(client *memetoken.MemeToken) Facade {
	return memeTokenFacade{client: client}
}

func (f memeTokenFacade) CreateToken(ctx context.Context, name string, supply uint64, decimals uint8) (*CreatedToken, error) {
	res, err := f.client.CreateToken(ctx, name, supply, decimals)
	if err != nil {
		return nil, err
	}
	return &CreatedToken{
		Signature:    res.Signature.String(),
		Mint:         res.Mint.String(),
		TokenAccount: res.TokenAccount.String(),
		Metadata:     res.Metadata.String(),
	}, nil
}

func (f memeTokenFacade) GetTokenMetadata(ctx context.Context, name string) (*memetoken.TokenMetadata, error) {
	return f.client.GetTokenMetadata(ctx, name)
}

// Explorer builds links to the block explorer.
type Explorer struct {
	BaseURL string
	Cluster string
}

func DefaultExplorer() Explorer {
	return Explorer{BaseURL: helpers.DefaultExplorerURL, Cluster: "devnet"}
}

func (e Explorer) Tx(signature string) string {
	return helpers.ExplorerTxURL(e.BaseURL, signature, e.Cluster)
}

func (e Explorer) Address(address string) string {
	return helpers.ExplorerAddressURL(e.BaseURL, address, e.Cluster)
}

type options struct {
	explorer Explorer
	logger   *zap.Logger
	decimals uint8
}

type Option func(*options)

func WithExplorer(e Explorer) Option {
	return func(o *options) {
		o.explorer = e
	}
}

// WithDefaultDecimals sets the decimals a create form starts and resets with.
func WithDefaultDecimals(decimals uint8) Option {
	return func(o *options) {
		if helpers.ValidateDecimals(decimals) == nil {
			o.decimals = decimals
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func newOptions(opts []Option) options {
	o := options{explorer: DefaultExplorer(), logger: zap.NewNop(), decimals: helpers.DefaultDecimals}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

func shortKey(key solana.PublicKey) string {
	return helpers.TruncateAddress(key.String(), 8)
}
