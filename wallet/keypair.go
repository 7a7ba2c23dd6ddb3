package wallet

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// KeypairSigner signs with a local ed25519 key.
type KeypairSigner struct {
	key solana.PrivateKey
}

var _ Signer = (*KeypairSigner)(nil)

func NewKeypairSigner(key solana.PrivateKey) (*KeypairSigner, error) {
	if err := key.Validate(); err != nil {
		return nil, fmt.Errorf("invalid keypair: %w", err)
	}
	return &KeypairSigner{key: key}, nil
}

// LoadKeypair reads a solana-keygen JSON file.
func LoadKeypair(path string) (*KeypairSigner, error) {
	if path == "" {
		return nil, ErrNoKeypair
	}
	key, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		return nil, err
	}
	return NewKeypairSigner(key)
}

// KeypairFromBase58 decodes a base58 encoded 64-byte secret key.
func KeypairFromBase58(secret string) (*KeypairSigner, error) {
	key, err := solana.PrivateKeyFromBase58(secret)
	if err != nil {
		return nil, fmt.Errorf("decode keypair: %w", err)
	}
	return NewKeypairSigner(key)
}

func (k *KeypairSigner) PublicKey() solana.PublicKey {
	return k.key.PublicKey()
}

func (k *KeypairSigner) SignTransaction(_ context.Context, tx *solana.Transaction) error {
	if !tx.Message.IsSigner(k.PublicKey()) {
		return fmt.Errorf("%s is not a signer of the transaction", k.PublicKey())
	}
	_, err := tx.PartialSign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(k.PublicKey()) {
			return &k.key
		}
		return nil
	})
	return err
}

// KeypairFile connects by loading a solana-keygen file on first use.
func KeypairFile(path string) Backend {
	return func(context.Context) (Signer, error) {
		return LoadKeypair(path)
	}
}

// Static connects to an already constructed signer.
func Static(signer Signer) Backend {
	return func(context.Context) (Signer, error) {
		if signer == nil {
			return nil, ErrNoKeypair
		}
		return signer, nil
	}
}
