package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/joho/godotenv"

	memetokens "github.com/krazyTry/meme-tokens-go/gen/meme_tokens"
	"github.com/krazyTry/meme-tokens-go/helpers"
)

const envPrefix = "MEMETOKENS_"

const (
	DefaultNetwork        = "devnet"
	DefaultCommitment     = rpc.CommitmentConfirmed
	DefaultRPCRPS         = 10
	DefaultListenAddr     = ":8080"
	DefaultLogLevel       = "info"
	DefaultConfirmTimeout = 90 * time.Second
)

var clusters = map[string]rpc.Cluster{
	rpc.DevNet.Name:      rpc.DevNet,
	rpc.TestNet.Name:     rpc.TestNet,
	rpc.MainNetBeta.Name: rpc.MainNetBeta,
	rpc.LocalNet.Name:    rpc.LocalNet,
}

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Network         string
	RPCEndpoint     string
	WSEndpoint      string
	ProgramID       solana.PublicKey
	ExplorerURL     string
	Keypair         string
	Commitment      rpc.CommitmentType
	RPCRPS          int
	ConfirmTimeout  time.Duration
	ListenAddr      string
	LogLevel        string
	DefaultDecimals uint8
}

// Load reads envFile when it exists and then the process environment.
// Variables already set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	return LoadWith(envFile, nil)
}

// LoadWith is Load with overrides (keys without the MEMETOKENS_ prefix) taking
// precedence over the environment, as command line flags do.
func LoadWith(envFile string, overrides map[string]string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	return FromLookup(func(key string) (string, bool) {
		if v, ok := overrides[strings.TrimPrefix(key, envPrefix)]; ok {
			return v, true
		}
		return os.LookupEnv(key)
	})
}

// FromLookup builds a Config from lookup, filling defaults for unset keys.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(envPrefix + key); ok && v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Network:     get("NETWORK", DefaultNetwork),
		ExplorerURL: get("EXPLORER_URL", helpers.DefaultExplorerURL),
		Commitment:  rpc.CommitmentType(get("COMMITMENT", string(DefaultCommitment))),
		ListenAddr:  get("LISTEN_ADDR", DefaultListenAddr),
		LogLevel:    get("LOG_LEVEL", DefaultLogLevel),
	}

	cluster, known := clusters[cfg.Network]
	cfg.RPCEndpoint = get("RPC_ENDPOINT", cluster.RPC)
	wsDefault := ""
	if known && cfg.RPCEndpoint == cluster.RPC {
		wsDefault = cluster.WS
	}
	cfg.WSEndpoint = get("WS_ENDPOINT", wsDefault)

	keypair := get("KEYPAIR", "")
	if keypair == "" {
		if home, err := os.UserHomeDir(); err == nil {
			keypair = filepath.Join(home, ".config", "solana", "id.json")
		}
	}
	cfg.Keypair = keypair

	programID, err := solana.PublicKeyFromBase58(get("PROGRAM_ID", memetokens.ProgramID.String()))
	if err != nil {
		return nil, fmt.Errorf("%w: %sPROGRAM_ID: %w", ErrInvalid, envPrefix, err)
	}
	cfg.ProgramID = programID

	rps, err := strconv.Atoi(get("RPC_RPS", strconv.Itoa(DefaultRPCRPS)))
	if err != nil {
		return nil, fmt.Errorf("%w: %sRPC_RPS: %w", ErrInvalid, envPrefix, err)
	}
	cfg.RPCRPS = rps

	timeout, err := time.ParseDuration(get("CONFIRM_TIMEOUT", DefaultConfirmTimeout.String()))
	if err != nil {
		return nil, fmt.Errorf("%w: %sCONFIRM_TIMEOUT: %w", ErrInvalid, envPrefix, err)
	}
	cfg.ConfirmTimeout = timeout

	decimals, err := strconv.ParseUint(get("DEFAULT_DECIMALS", strconv.Itoa(helpers.DefaultDecimals)), 10, 8)
	if err != nil {
		return nil, fmt.Errorf("%w: %sDEFAULT_DECIMALS: %w", ErrInvalid, envPrefix, err)
	}
	cfg.DefaultDecimals = uint8(decimals)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, ok := clusters[c.Network]; !ok {
		return fmt.Errorf("%w: unknown network %q", ErrInvalid, c.Network)
	}
	if err := checkURL(c.RPCEndpoint, "http", "https"); err != nil {
		return fmt.Errorf("%w: rpc endpoint: %w", ErrInvalid, err)
	}
	if c.WSEndpoint != "" {
		if err := checkURL(c.WSEndpoint, "ws", "wss"); err != nil {
			return fmt.Errorf("%w: ws endpoint: %w", ErrInvalid, err)
		}
	}
	if c.ProgramID.IsZero() {
		return fmt.Errorf("%w: program id is empty", ErrInvalid)
	}
	switch c.Commitment {
	case rpc.CommitmentProcessed, rpc.CommitmentConfirmed, rpc.CommitmentFinalized:
	default:
		return fmt.Errorf("%w: unknown commitment %q", ErrInvalid, c.Commitment)
	}
	if c.RPCRPS < 0 {
		return fmt.Errorf("%w: rpc rps must not be negative", ErrInvalid)
	}
	if c.ConfirmTimeout <= 0 {
		return fmt.Errorf("%w: confirm timeout must be positive", ErrInvalid)
	}
	if err := helpers.ValidateDecimals(c.DefaultDecimals); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Cluster is the cluster name used in explorer links.
func (c *Config) Cluster() string {
	return c.Network
}

func checkURL(raw string, schemes ...string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	for _, s := range schemes {
		if u.Scheme == s && u.Host != "" {
			return nil
		}
	}
	return fmt.Errorf("%q is not a %v url", raw, schemes)
}
