// This file contains parsers for the accounts defined in the IDL.

package memetokens

import (
	"bytes"
	"fmt"

	binary "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"
)

// TokenMetadata is the on-chain record stored at the metadata PDA of a meme token.
type TokenMetadata struct {
	Mint          solanago.PublicKey `json:"mint"`
	Authority     solanago.PublicKey `json:"authority"`
	Supply        uint64             `json:"supply"`
	Decimals      uint8              `json:"decimals"`
	IsInitialized bool               `json:"isInitialized"`
	Bump          uint8              `json:"bump"`
	MintAuthority solanago.PublicKey `json:"mintAuthority"`
	MemeName      string             `json:"memeName"`
}

// Byte offsets of fixed-position fields inside a TokenMetadata account.
const (
	TokenMetadataMintOffset      = 8
	TokenMetadataAuthorityOffset = 40
)

func (obj TokenMetadata) MarshalWithEncoder(encoder *binary.Encoder) (err error) {
	if err = encoder.WriteBytes(Account_TokenMetadata[:], false); err != nil {
		return err
	}
	// Serialize `Mint`:
	if err = encoder.WriteBytes(obj.Mint[:], false); err != nil {
		return fmt.Errorf("error while marshaling Mint:%w", err)
	}
	// Serialize `Authority`:
	if err = encoder.WriteBytes(obj.Authority[:], false); err != nil {
		return fmt.Errorf("error while marshaling Authority:%w", err)
	}
	// Serialize `Supply`:
	if err = encoder.WriteUint64(obj.Supply, binary.LE); err != nil {
		return fmt.Errorf("error while marshaling Supply:%w", err)
	}
	// Serialize `Decimals`:
	if err = encoder.WriteUint8(obj.Decimals); err != nil {
		return fmt.Errorf("error while marshaling Decimals:%w", err)
	}
	// Serialize `IsInitialized`:
	if err = encoder.WriteBool(obj.IsInitialized); err != nil {
		return fmt.Errorf("error while marshaling IsInitialized:%w", err)
	}
	// Serialize `Bump`:
	if err = encoder.WriteUint8(obj.Bump); err != nil {
		return fmt.Errorf("error while marshaling Bump:%w", err)
	}
	// Serialize `MintAuthority`:
	if err = encoder.WriteBytes(obj.MintAuthority[:], false); err != nil {
		return fmt.Errorf("error while marshaling MintAuthority:%w", err)
	}
	// Serialize `MemeName`:
	if err = encoder.WriteString(obj.MemeName); err != nil {
		return fmt.Errorf("error while marshaling MemeName:%w", err)
	}
	return nil
}

func (obj TokenMetadata) Marshal() ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	encoder := binary.NewBorshEncoder(buf)
	if err := obj.MarshalWithEncoder(encoder); err != nil {
		return nil, fmt.Errorf("error while encoding TokenMetadata: %w", err)
	}
	return buf.Bytes(), nil
}

func (obj *TokenMetadata) UnmarshalWithDecoder(decoder *binary.Decoder) (err error) {
	{
		discriminator, err := decoder.ReadNBytes(8)
		if err != nil {
			return fmt.Errorf("failed to read account discriminator: %w", err)
		}
		if !bytes.Equal(discriminator, Account_TokenMetadata[:]) {
			return fmt.Errorf("wrong discriminator: wanted %v, got %v", Account_TokenMetadata, discriminator)
		}
	}
	if err = readPublicKey(decoder, &obj.Mint); err != nil {
		return fmt.Errorf("error while unmarshaling Mint:%w", err)
	}
	if err = readPublicKey(decoder, &obj.Authority); err != nil {
		return fmt.Errorf("error while unmarshaling Authority:%w", err)
	}
	if obj.Supply, err = decoder.ReadUint64(binary.LE); err != nil {
		return fmt.Errorf("error while unmarshaling Supply:%w", err)
	}
	if obj.Decimals, err = decoder.ReadUint8(); err != nil {
		return fmt.Errorf("error while unmarshaling Decimals:%w", err)
	}
	if obj.IsInitialized, err = decoder.ReadBool(); err != nil {
		return fmt.Errorf("error while unmarshaling IsInitialized:%w", err)
	}
	if obj.Bump, err = decoder.ReadUint8(); err != nil {
		return fmt.Errorf("error while unmarshaling Bump:%w", err)
	}
	if err = readPublicKey(decoder, &obj.MintAuthority); err != nil {
		return fmt.Errorf("error while unmarshaling MintAuthority:%w", err)
	}
	if obj.MemeName, err = decoder.ReadString(); err != nil {
		return fmt.Errorf("error while unmarshaling MemeName:%w", err)
	}
	return nil
}

func (obj *TokenMetadata) Unmarshal(buf []byte) error {
	if err := obj.UnmarshalWithDecoder(binary.NewBorshDecoder(buf)); err != nil {
		return fmt.Errorf("error while unmarshaling TokenMetadata: %w", err)
	}
	return nil
}

func UnmarshalTokenMetadata(buf []byte) (*TokenMetadata, error) {
	obj := new(TokenMetadata)
	if err := obj.Unmarshal(buf); err != nil {
		return nil, err
	}
	return obj, nil
}

func readPublicKey(decoder *binary.Decoder, out *solanago.PublicKey) error {
	raw, err := decoder.ReadNBytes(solanago.PublicKeyLength)
	if err != nil {
		return err
	}
	copy(out[:], raw)
	return nil
}

// ParseAnyAccount dispatches on the 8-byte account discriminator.
func ParseAnyAccount(accountData []byte) (any, error) {
	if len(accountData) < 8 {
		return nil, fmt.Errorf("account data too short: %d bytes", len(accountData))
	}
	var discriminator [8]byte
	copy(discriminator[:], accountData[:8])
	switch discriminator {
	case Account_TokenMetadata:
		return UnmarshalTokenMetadata(accountData)
	default:
		return nil, fmt.Errorf("unknown discriminator: %s", binary.FormatDiscriminator(discriminator))
	}
}

func ParseAccount_TokenMetadata(accountData []byte) (*TokenMetadata, error) {
	return UnmarshalTokenMetadata(accountData)
}
