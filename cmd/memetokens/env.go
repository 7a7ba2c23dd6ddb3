package main

import (
	"context"
	"flag"
	"io"

	"go.uber.org/zap"

	memetokens "github.com/krazyTry/meme-tokens-go"
	"github.com/krazyTry/meme-tokens-go/config"
	"github.com/krazyTry/meme-tokens-go/logging"
	"github.com/krazyTry/meme-tokens-go/metrics"
	"github.com/krazyTry/meme-tokens-go/view"
)

// flag name -> config key
var configFlags = map[string]string{
	"network":         "NETWORK",
	"rpc":             "RPC_ENDPOINT",
	"ws":              "WS_ENDPOINT",
	"program-id":      "PROGRAM_ID",
	"keypair":         "KEYPAIR",
	"commitment":      "COMMITMENT",
	"rps":             "RPC_RPS",
	"confirm-timeout": "CONFIRM_TIMEOUT",
	"log-level":       "LOG_LEVEL",
	"explorer":        "EXPLORER_URL",
}

type globalFlags struct {
	envFile string
	dev     bool
}

func bindGlobalFlags(fs *flag.FlagSet) *globalFlags {
	g := &globalFlags{}
	fs.StringVar(&g.envFile, "env", ".env", "dotenv file to load if present")
	fs.BoolVar(&g.dev, "dev", false, "human readable development logs")
	fs.String("network", "", "cluster: devnet, testnet, mainnet-beta or localnet (MEMETOKENS_NETWORK)")
	fs.String("rpc", "", "JSON-RPC endpoint (MEMETOKENS_RPC_ENDPOINT)")
	fs.String("ws", "", "websocket endpoint (MEMETOKENS_WS_ENDPOINT)")
	fs.String("program-id", "", "meme_tokens program id (MEMETOKENS_PROGRAM_ID)")
	fs.String("keypair", "", "solana-keygen keypair file (MEMETOKENS_KEYPAIR)")
	fs.String("commitment", "", "processed, confirmed or finalized (MEMETOKENS_COMMITMENT)")
	fs.String("rps", "", "JSON-RPC requests per second, 0 for unlimited (MEMETOKENS_RPC_RPS)")
	fs.String("confirm-timeout", "", "how long to wait for confirmation (MEMETOKENS_CONFIRM_TIMEOUT)")
	fs.String("log-level", "", "debug, info, warn or error (MEMETOKENS_LOG_LEVEL)")
	fs.String("explorer", "", "block explorer base url (MEMETOKENS_EXPLORER_URL)")
	return g
}

type cliEnv struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
	stdout  io.Writer
	stderr  io.Writer
	session *memetokens.Session

	listen   string
	name     string
	supply   string
	decimals uint8
	mine     bool
	owner    string
}

func newCLIEnv(g *globalFlags, fs *flag.FlagSet, stdout, stderr io.Writer) (*cliEnv, error) {
	overrides := map[string]string{}
	fs.Visit(func(f *flag.Flag) {
		if key, ok := configFlags[f.Name]; ok {
			overrides[key] = f.Value.String()
		}
	})
	cfg, err := config.LoadWith(g.envFile, overrides)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.LogLevel, g.dev)
	if err != nil {
		return nil, err
	}
	return &cliEnv{
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics.New(""),
		stdout:   stdout,
		stderr:   stderr,
		decimals: cfg.DefaultDecimals,
	}, nil
}

// open dials the cluster on first use.
func (e *cliEnv) open(ctx context.Context) (*memetokens.Session, error) {
	if e.session != nil {
		return e.session, nil
	}
	s, err := memetokens.Open(ctx, e.cfg, e.logger, e.metrics)
	if err != nil {
		return nil, err
	}
	e.session = s
	return s, nil
}

func (e *cliEnv) explorer() view.Explorer {
	return view.Explorer{BaseURL: e.cfg.ExplorerURL, Cluster: e.cfg.Cluster()}
}

func (e *cliEnv) close() {
	if e.session != nil {
		e.session.Close()
	}
	_ = e.logger.Sync()
}
