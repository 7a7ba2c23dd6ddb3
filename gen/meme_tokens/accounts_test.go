package memetokens

import (
	"testing"

	binary "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscriminatorsMatchSighash(t *testing.T) {
	assert.Equal(t, binary.SighashAccount("TokenMetadata"), Account_TokenMetadata[:])
	assert.Equal(t, binary.SighashInstruction("create_token"), Instruction_CreateToken[:])
}

func TestTokenMetadataLayout(t *testing.T) {
	mint := solanago.NewWallet().PublicKey()
	authority := solanago.NewWallet().PublicKey()

	meta := TokenMetadata{
		Mint:          mint,
		Authority:     authority,
		Supply:        1_000_000_000_000_000,
		Decimals:      9,
		IsInitialized: true,
		Bump:          254,
		MintAuthority: authority,
		MemeName:      "DogeMoon",
	}
	data, err := meta.Marshal()
	require.NoError(t, err)

	// discriminator + 2 keys + u64 + 3 bytes + key + u32 length + name
	require.Len(t, data, 8+32+32+8+3+32+4+len("DogeMoon"))
	assert.Equal(t, mint[:], data[TokenMetadataMintOffset:TokenMetadataMintOffset+32])
	assert.Equal(t, authority[:], data[TokenMetadataAuthorityOffset:TokenMetadataAuthorityOffset+32])

	got, err := ParseAccount_TokenMetadata(data)
	require.NoError(t, err)
	assert.Equal(t, meta, *got)

	parsed, err := ParseAnyAccount(data)
	require.NoError(t, err)
	assert.IsType(t, &TokenMetadata{}, parsed)
}

func TestTokenMetadataWrongDiscriminator(t *testing.T) {
	data, err := TokenMetadata{MemeName: "x"}.Marshal()
	require.NoError(t, err)
	data[0] ^= 0xff

	_, err = ParseAccount_TokenMetadata(data)
	assert.ErrorContains(t, err, "wrong discriminator")

	_, err = ParseAnyAccount(data)
	assert.ErrorContains(t, err, "unknown discriminator")

	_, err = ParseAnyAccount(data[:4])
	assert.Error(t, err)
}

func TestTokenMetadataTruncated(t *testing.T) {
	data, err := TokenMetadata{MemeName: "Pepe"}.Marshal()
	require.NoError(t, err)

	_, err = ParseAccount_TokenMetadata(data[:len(data)-2])
	assert.Error(t, err)
}
