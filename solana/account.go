package solana

import (
	binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
)

// TokenAccountSize is the length of an SPL token account.
const TokenAccountSize = 165

type Account struct {
	Address solana.PublicKey
	// Mint associated with the account
	Mint solana.PublicKey

	// Owner of the account
	Owner solana.PublicKey

	// Number of tokens the account holds
	Amount uint64

	// True if the account is initialized
	IsInitialized bool

	// True if the account is frozen
	IsFrozen bool
}

type AccountLayout struct {
}

func (l *AccountLayout) Decode(data []byte) (*Account, error) {
	raw := token.Account{}
	if err := raw.UnmarshalWithDecoder(binary.NewBinDecoder(data)); err != nil {
		return nil, err
	}
	return &Account{
		Mint:          raw.Mint,
		Owner:         raw.Owner,
		Amount:        raw.Amount,
		IsInitialized: raw.State != token.Uninitialized,
		IsFrozen:      raw.State == token.Frozen,
	}, nil
}
