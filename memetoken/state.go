package memetoken

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	memetokens "github.com/krazyTry/meme-tokens-go/gen/meme_tokens"
	"github.com/krazyTry/meme-tokens-go/helpers"
	solanago "github.com/krazyTry/meme-tokens-go/solana"
)

const accountKeyTokenMetadata = "TokenMetadata"

// GetTokenMetadata looks up the metadata of the token called name.
// A token that does not exist, or whose account cannot be decoded, yields nil, nil.
func (m *MemeToken) GetTokenMetadata(ctx context.Context, name string) (out *TokenMetadata, err error) {
	start := time.Now()
	defer func() { m.observe("get_token_metadata", start, err) }()

	address, _, err := DeriveTokenMetadataAddress(name, m.ProgramID)
	if err != nil {
		return nil, err
	}
	return m.getTokenMetadata(ctx, address)
}

// GetTokenMetadataByAddress reads a metadata account directly. Missing accounts yield nil, nil.
func (m *MemeToken) GetTokenMetadataByAddress(ctx context.Context, address solana.PublicKey) (out *TokenMetadata, err error) {
	start := time.Now()
	defer func() { m.observe("get_token_metadata", start, err) }()
	return m.getTokenMetadata(ctx, address)
}

func (m *MemeToken) getTokenMetadata(ctx context.Context, address solana.PublicKey) (*TokenMetadata, error) {
	acc, err := solanago.GetAccountInfo(ctx, m.RPC, address, m.Commitment)
	if err != nil {
		return nil, err
	}
	if acc == nil || acc.Value == nil {
		return nil, nil
	}
	if !acc.Value.Owner.Equals(m.ProgramID) {
		m.logger.Warn("metadata account has unexpected owner",
			zap.Stringer("address", address),
			zap.Stringer("owner", acc.Value.Owner),
		)
		return nil, nil
	}
	parsed, err := memetokens.ParseAccount_TokenMetadata(acc.Value.Data.GetBinary())
	if err != nil {
		m.logger.Warn("decode token metadata", zap.Stringer("address", address), zap.Error(err))
		return nil, nil
	}
	return parsed, nil
}

// GetTokens lists every TokenMetadata account of the program, ordered by name.
func (m *MemeToken) GetTokens(ctx context.Context) ([]ProgramAccount[TokenMetadata], error) {
	return m.getTokens(ctx, nil)
}

// GetTokensByAuthority lists the tokens created by authority.
func (m *MemeToken) GetTokensByAuthority(ctx context.Context, authority solana.PublicKey) ([]ProgramAccount[TokenMetadata], error) {
	return m.getTokens(ctx, &solanago.Filter{Owner: authority, Offset: TokenMetadataAuthorityOffset})
}

func (m *MemeToken) getTokens(ctx context.Context, filter *solanago.Filter) (out []ProgramAccount[TokenMetadata], err error) {
	start := time.Now()
	defer func() { m.observe("get_tokens", start, err) }()

	accounts, err := solanago.GetProgramAccounts(ctx, m.RPC, m.ProgramID, accountKeyTokenMetadata, filter, m.Commitment)
	if err != nil {
		return nil, err
	}
	out = make([]ProgramAccount[TokenMetadata], 0, len(accounts))
	for _, acc := range accounts {
		if acc == nil || acc.Account == nil {
			continue
		}
		parsed, err := memetokens.ParseAccount_TokenMetadata(acc.Account.Data.GetBinary())
		if err != nil {
			m.logger.Debug("skip undecodable account", zap.Stringer("address", acc.Pubkey), zap.Error(err))
			continue
		}
		out = append(out, ProgramAccount[TokenMetadata]{Pubkey: acc.Pubkey, Account: parsed})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Account.MemeName < out[j].Account.MemeName
	})
	return out, nil
}

// GetMintInfo reads the SPL mint behind a token. Missing mints yield nil, nil.
func (m *MemeToken) GetMintInfo(ctx context.Context, mint solana.PublicKey) (out *solanago.ParsedMint, err error) {
	start := time.Now()
	defer func() { m.observe("get_mint_info", start, err) }()
	return solanago.GetParsedMint(ctx, m.RPC, mint, m.Commitment)
}

// TokenBalance is the holding of one owner in one mint.
type TokenBalance struct {
	TokenAccount solana.PublicKey
	Amount       uint64
	Decimals     uint8
}

// UIAmount renders the balance in whole tokens.
func (b TokenBalance) UIAmount() string {
	return helpers.FormatTokenAmount(b.Amount, b.Decimals)
}

// GetTokenBalance reads owner's associated token account for mint.
// A missing token account is a zero balance.
func (m *MemeToken) GetTokenBalance(ctx context.Context, owner, mint solana.PublicKey) (out *TokenBalance, err error) {
	start := time.Now()
	defer func() { m.observe("get_token_balance", start, err) }()

	ata, err := DeriveTokenAccount(owner, mint)
	if err != nil {
		return nil, err
	}
	mints, err := solanago.GetMultipleToken(ctx, m.RPC, m.Commitment, mint)
	if err != nil {
		return nil, err
	}
	if len(mints) != 1 || mints[0] == nil {
		return nil, fmt.Errorf("mint %s not found", mint)
	}
	if !mints[0].Owner.Equals(solana.TokenProgramID) {
		return nil, fmt.Errorf("mint %s is owned by %s, not the token program", mint, mints[0].Owner)
	}

	out = &TokenBalance{TokenAccount: ata, Decimals: mints[0].Decimals}
	info, err := solanago.GetAccountInfo(ctx, m.RPC, ata, m.Commitment)
	if err != nil {
		return nil, err
	}
	if info == nil || info.Value == nil {
		return out, nil
	}
	account, err := new(solanago.AccountLayout).Decode(info.Value.Data.GetBinary())
	if err != nil {
		return nil, fmt.Errorf("decode token account %s: %w", ata, err)
	}
	out.Amount = account.Amount
	return out, nil
}
