// This file contains instructions and instruction parsers.

package memetokens

import (
	"bytes"
	"errors"
	"fmt"

	binary "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"
)

// Builds a "create_token" instruction.
func NewCreateTokenInstruction(
	// Params:
	memeNameParam string,
	supplyParam uint64,
	decimalsParam uint8,

	// Accounts:
	payerAccount solanago.PublicKey,
	mintAccount solanago.PublicKey,
	tokenAccountAccount solanago.PublicKey,
	tokenMetadataAccount solanago.PublicKey,
	tokenProgramAccount solanago.PublicKey,
	associatedTokenProgramAccount solanago.PublicKey,
	systemProgramAccount solanago.PublicKey,
) (solanago.Instruction, error) {
	buf__ := new(bytes.Buffer)
	enc__ := binary.NewBorshEncoder(buf__)

	// Encode the instruction discriminator.
	if err := enc__.WriteBytes(Instruction_CreateToken[:], false); err != nil {
		return nil, fmt.Errorf("failed to write instruction discriminator: %w", err)
	}
	{
		// Serialize `memeNameParam`:
		if err := enc__.WriteString(memeNameParam); err != nil {
			return nil, errors.New("error while marshaling memeNameParam:" + err.Error())
		}
		// Serialize `supplyParam`:
		if err := enc__.WriteUint64(supplyParam, binary.LE); err != nil {
			return nil, errors.New("error while marshaling supplyParam:" + err.Error())
		}
		// Serialize `decimalsParam`:
		if err := enc__.WriteUint8(decimalsParam); err != nil {
			return nil, errors.New("error while marshaling decimalsParam:" + err.Error())
		}
	}
	accounts__ := solanago.AccountMetaSlice{}

	// Add the accounts to the instruction.
	{
		// Account 0 "payer": Writable, Signer, Required
		accounts__.Append(solanago.NewAccountMeta(payerAccount, true, true))
		// Account 1 "mint": Writable, Signer, Required
		accounts__.Append(solanago.NewAccountMeta(mintAccount, true, true))
		// Account 2 "token_account": Writable, Non-signer, Required
		accounts__.Append(solanago.NewAccountMeta(tokenAccountAccount, true, false))
		// Account 3 "token_metadata": Writable, Non-signer, Required
		accounts__.Append(solanago.NewAccountMeta(tokenMetadataAccount, true, false))
		// Account 4 "token_program": Read-only, Non-signer, Required
		accounts__.Append(solanago.NewAccountMeta(tokenProgramAccount, false, false))
		// Account 5 "associated_token_program": Read-only, Non-signer, Required
		accounts__.Append(solanago.NewAccountMeta(associatedTokenProgramAccount, false, false))
		// Account 6 "system_program": Read-only, Non-signer, Required
		accounts__.Append(solanago.NewAccountMeta(systemProgramAccount, false, false))
	}

	// Create the instruction.
	return solanago.NewInstruction(
		ProgramID,
		accounts__,
		buf__.Bytes(),
	), nil
}

// CreateTokenArgs holds the decoded arguments of a "create_token" instruction.
type CreateTokenArgs struct {
	MemeName string `json:"memeName"`
	Supply   uint64 `json:"supply"`
	Decimals uint8  `json:"decimals"`
}

// ParseInstruction_CreateToken decodes the data of a "create_token" instruction.
func ParseInstruction_CreateToken(data []byte) (*CreateTokenArgs, error) {
	dec := binary.NewBorshDecoder(data)
	discriminator, err := dec.ReadNBytes(8)
	if err != nil {
		return nil, fmt.Errorf("failed to read instruction discriminator: %w", err)
	}
	if !bytes.Equal(discriminator, Instruction_CreateToken[:]) {
		return nil, fmt.Errorf("wrong discriminator: wanted %v, got %v", Instruction_CreateToken, discriminator)
	}
	args := new(CreateTokenArgs)
	if args.MemeName, err = dec.ReadString(); err != nil {
		return nil, fmt.Errorf("error while unmarshaling memeName:%w", err)
	}
	if args.Supply, err = dec.ReadUint64(binary.LE); err != nil {
		return nil, fmt.Errorf("error while unmarshaling supply:%w", err)
	}
	if args.Decimals, err = dec.ReadUint8(); err != nil {
		return nil, fmt.Errorf("error while unmarshaling decimals:%w", err)
	}
	return args, nil
}
