package solana

import (
	"context"
	"errors"
	"fmt"

	binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/tidwall/gjson"
)

// Token represents a Solana token with mint information and owner
type Token struct {
	token.Mint
	// Owner account of the token
	Owner solana.PublicKey
}

// TokenLayout provides methods for decoding token data
type TokenLayout struct {
}

func (l *TokenLayout) Decode(data []byte) (*Token, error) {
	mint := token.Mint{}
	if err := mint.UnmarshalWithDecoder(binary.NewBinDecoder(data)); err != nil {
		return nil, err
	}
	return &Token{Mint: mint}, nil
}

// GetMultipleToken decodes mints in request order; missing accounts stay nil.
func GetMultipleToken(ctx context.Context, rpcClient *rpc.Client, commitment rpc.CommitmentType, tokens ...solana.PublicKey) ([]*Token, error) {
	outs, err := GetMultipleAccountInfo(ctx, rpcClient, tokens, commitment)
	if err != nil {
		return nil, err
	}
	list := make([]*Token, len(tokens))
	for i, out := range outs.Value {
		if out == nil || i >= len(list) {
			continue
		}

		t, err := new(TokenLayout).Decode(out.Data.GetBinary())
		if err != nil {
			return nil, fmt.Errorf("decode mint %s: %w", tokens[i], err)
		}
		t.Owner = out.Owner

		list[i] = t
	}
	return list, nil
}

// ParsedMint is the jsonParsed view of an SPL mint.
type ParsedMint struct {
	Address         solana.PublicKey
	Supply          uint64
	Decimals        uint8
	IsInitialized   bool
	MintAuthority   *solana.PublicKey
	FreezeAuthority *solana.PublicKey
}

// GetParsedMint reads a mint with jsonParsed encoding. A missing account yields nil, nil.
func GetParsedMint(ctx context.Context, rpcClient *rpc.Client, mint solana.PublicKey, commitment rpc.CommitmentType) (*ParsedMint, error) {
	out, err := rpcClient.GetAccountInfoWithOpts(ctx, mint, &rpc.GetAccountInfoOpts{
		Commitment: commitmentOr(commitment),
		Encoding:   solana.EncodingJSONParsed,
	})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parseMintJSON(mint, out.Value.Data.GetRawJSON())
}

func parseMintJSON(mint solana.PublicKey, raw []byte) (*ParsedMint, error) {
	if kind := gjson.GetBytes(raw, "parsed.type").String(); kind != "mint" {
		return nil, fmt.Errorf("account %s is not a mint (type %q)", mint, kind)
	}
	info := gjson.GetBytes(raw, "parsed.info")

	parsed := &ParsedMint{
		Address:       mint,
		Supply:        info.Get("supply").Uint(),
		Decimals:      uint8(info.Get("decimals").Uint()),
		IsInitialized: info.Get("isInitialized").Bool(),
	}
	var err error
	if parsed.MintAuthority, err = optionalKey(info.Get("mintAuthority")); err != nil {
		return nil, fmt.Errorf("mint authority: %w", err)
	}
	if parsed.FreezeAuthority, err = optionalKey(info.Get("freezeAuthority")); err != nil {
		return nil, fmt.Errorf("freeze authority: %w", err)
	}
	return parsed, nil
}

func optionalKey(v gjson.Result) (*solana.PublicKey, error) {
	if !v.Exists() || v.Type == gjson.Null || v.String() == "" {
		return nil, nil
	}
	key, err := solana.PublicKeyFromBase58(v.String())
	if err != nil {
		return nil, err
	}
	return &key, nil
}
