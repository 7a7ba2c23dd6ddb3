package memetoken

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

var seed = struct {
	TokenMetadata []byte
}{
	TokenMetadata: []byte("token_metadata"),
}

// DeriveTokenMetadataAddress returns the metadata PDA of name under programID.
// The address depends only on the program id and the UTF-8 bytes of the name.
func DeriveTokenMetadataAddress(name string, programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	if len(name) > solana.MaxSeedLength {
		return solana.PublicKey{}, 0, fmt.Errorf("%w: name is %d bytes, seeds are limited to %d", ErrInvalidName, len(name), solana.MaxSeedLength)
	}
	return solana.FindProgramAddress([][]byte{seed.TokenMetadata, []byte(name)}, programID)
}

// DeriveTokenAccount returns the associated token account of owner for mint.
func DeriveTokenAccount(owner, mint solana.PublicKey) (solana.PublicKey, error) {
	ata, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return ata, nil
}
