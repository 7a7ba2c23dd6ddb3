package memetokens

import (
	"context"

	"github.com/gagliardetto/solana-go/rpc/ws"
	"go.uber.org/zap"

	"github.com/krazyTry/meme-tokens-go/config"
	"github.com/krazyTry/meme-tokens-go/memetoken"
	"github.com/krazyTry/meme-tokens-go/metrics"
	solanago "github.com/krazyTry/meme-tokens-go/solana"
	"github.com/krazyTry/meme-tokens-go/wallet"
)

// NewClient creates a new meme token client.
//
// Example:
//
// w := wallet.NewContext(wallet.KeypairFile("~/.config/solana/id.json"))
//
// client := NewClient(rpcClient, w, memetoken.WithWebsocket(wsClient))
//
// client.CreateToken(ctx, "DogeMoon", 1_000_000_000_000_000, 9)
//
// client.GetTokenMetadata(ctx, "DogeMoon")
var NewClient = memetoken.NewMemeToken

// Session bundles a client with the connections it owns.
type Session struct {
	Client *memetoken.MemeToken
	Wallet *wallet.Context
	WS     *ws.Client
}

// Close releases the websocket connection, if any.
func (s *Session) Close() {
	if s.WS != nil {
		s.WS.Close()
	}
}

// Open builds a client from cfg. m may be nil. A websocket that cannot be dialled is
// logged and skipped; confirmation then falls back to polling.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var rpcObserver solanago.CallObserver
	opts := []memetoken.Option{
		memetoken.WithCommitment(cfg.Commitment),
		memetoken.WithProgramID(cfg.ProgramID),
		memetoken.WithLogger(logger.Named("memetoken")),
	}
	if m != nil {
		rpcObserver = m
		opts = append(opts, memetoken.WithObserver(m))
	}
	rpcClient := solanago.NewRPCClient(cfg.RPCEndpoint, cfg.RPCRPS, rpcObserver)

	s := &Session{
		Wallet: wallet.NewContext(wallet.KeypairFile(cfg.Keypair), wallet.WithLogger(logger.Named("wallet"))),
	}
	if cfg.WSEndpoint != "" {
		wsClient, err := ws.Connect(ctx, cfg.WSEndpoint)
		if err != nil {
			logger.Warn("websocket unavailable, polling for confirmations",
				zap.String("endpoint", cfg.WSEndpoint),
				zap.Error(err),
			)
		} else {
			s.WS = wsClient
			opts = append(opts, memetoken.WithWebsocket(wsClient))
		}
	}
	s.Client = NewClient(rpcClient, s.Wallet, opts...)
	return s, nil
}
