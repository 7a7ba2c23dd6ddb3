package solana

import (
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// DefaultCommitment is used when a caller does not pick one.
const DefaultCommitment = rpc.CommitmentConfirmed

// Filter narrows a program account scan to accounts holding Owner at Offset.
type Filter struct {
	Owner  solana.PublicKey // Key to match
	Offset uint64           // Byte offset of the key inside the account data
}

func commitmentOr(c rpc.CommitmentType) rpc.CommitmentType {
	if c == "" {
		return DefaultCommitment
	}
	return c
}
