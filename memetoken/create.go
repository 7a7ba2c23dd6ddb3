package memetoken

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	memetokens "github.com/krazyTry/meme-tokens-go/gen/meme_tokens"
	"github.com/krazyTry/meme-tokens-go/helpers"
	solanago "github.com/krazyTry/meme-tokens-go/solana"
)

// CreateTokenInstruction builds the create_token instruction for a new mint owned by payer.
// It returns the instruction together with the derived token account and metadata PDA.
func CreateTokenInstruction(
	programID solana.PublicKey,
	payer solana.PublicKey,
	mint solana.PublicKey,
	name string,
	supply uint64,
	decimals uint8,
) (solana.Instruction, solana.PublicKey, solana.PublicKey, error) {
	if err := helpers.ValidateTokenName(name); err != nil {
		return nil, solana.PublicKey{}, solana.PublicKey{}, fmt.Errorf("%w: %w", ErrInvalidName, err)
	}
	if err := helpers.ValidateDecimals(decimals); err != nil {
		return nil, solana.PublicKey{}, solana.PublicKey{}, fmt.Errorf("%w: %w", ErrInvalidDecimals, err)
	}
	if supply == 0 {
		return nil, solana.PublicKey{}, solana.PublicKey{}, fmt.Errorf("%w: %w", ErrInvalidSupply, helpers.ErrSupplyInvalid)
	}

	metadata, _, err := DeriveTokenMetadataAddress(name, programID)
	if err != nil {
		return nil, solana.PublicKey{}, solana.PublicKey{}, err
	}
	tokenAccount, err := DeriveTokenAccount(payer, mint)
	if err != nil {
		return nil, solana.PublicKey{}, solana.PublicKey{}, err
	}

	ix, err := memetokens.NewCreateTokenInstruction(
		name,
		supply,
		decimals,
		payer,
		mint,
		tokenAccount,
		metadata,
		solana.TokenProgramID,
		solana.SPLAssociatedTokenAccountProgramID,
		solana.SystemProgramID,
	)
	if err != nil {
		return nil, solana.PublicKey{}, solana.PublicKey{}, err
	}

	if !programID.Equals(memetokens.ProgramID) {
		data, err := ix.Data()
		if err != nil {
			return nil, solana.PublicKey{}, solana.PublicKey{}, err
		}
		ix = solana.NewInstruction(programID, ix.Accounts(), data)
	}
	return ix, tokenAccount, metadata, nil
}

// CreateToken mints a new meme token with supply base units and records its metadata.
// The connected wallet pays and becomes the authority; a fresh keypair becomes the mint.
func (m *MemeToken) CreateToken(
	ctx context.Context,
	name string,
	supply uint64,
	decimals uint8,
) (result *CreateTokenResult, err error) {
	start := time.Now()
	defer func() { m.observe("create_token", start, err) }()

	signer, err := m.wallet.Signer()
	if err != nil {
		return nil, err
	}
	payer := signer.PublicKey()
	mint := solana.NewWallet()

	ix, tokenAccount, metadata, err := CreateTokenInstruction(m.ProgramID, payer, mint.PublicKey(), name, supply, decimals)
	if err != nil {
		return nil, err
	}

	log := m.logger.With(
		zap.String("name", name),
		zap.Stringer("mint", mint.PublicKey()),
		zap.Stringer("payer", payer),
	)
	log.Debug("creating token",
		zap.Uint64("supply", supply),
		zap.Uint8("decimals", decimals),
		zap.Stringer("token_account", tokenAccount),
		zap.Stringer("metadata", metadata),
	)

	tx, err := solanago.NewTransaction(ctx, m.RPC, []solana.Instruction{ix}, payer, m.Commitment)
	if err != nil {
		return nil, err
	}

	if _, err = tx.PartialSign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(mint.PublicKey()) {
			return &mint.PrivateKey
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("sign with mint keypair: %w", err)
	}
	if err = signer.SignTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("wallet sign: %w", err)
	}

	sig, err := solanago.SendTransaction(ctx, m.RPC, m.WS, tx, m.Commitment)
	if err != nil {
		log.Warn("create token failed", zap.Stringer("signature", sig), zap.Error(err))
		return nil, err
	}

	log.Info("token created", zap.Stringer("signature", sig))
	return &CreateTokenResult{
		Signature:    sig,
		Mint:         mint.PublicKey(),
		TokenAccount: tokenAccount,
		Metadata:     metadata,
	}, nil
}
