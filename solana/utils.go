package solana

import (
	"context"
	"errors"

	binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

func GetLatestBlockhash(ctx context.Context, rpcClient *rpc.Client, commitment rpc.CommitmentType) (solana.Hash, error) {
	recent, err := rpcClient.GetLatestBlockhash(ctx, commitmentOr(commitment))
	if err != nil {
		return solana.Hash{}, err
	}
	if recent == nil || recent.Value == nil {
		return solana.Hash{}, errors.New("empty blockhash response")
	}
	return recent.Value.Blockhash, nil
}

// Discriminator returns the Anchor account discriminator for an account type name.
func Discriminator(name string) []byte {
	return binary.SighashAccount(name)
}

func GenProgramAccountFilter(key string, filter *Filter, commitment rpc.CommitmentType) *rpc.GetProgramAccountsOpts {
	opt := &rpc.GetProgramAccountsOpts{
		Commitment: commitmentOr(commitment),
		Encoding:   solana.EncodingBase64,
		Filters: []rpc.RPCFilter{
			{
				Memcmp: &rpc.RPCFilterMemcmp{
					Offset: 0,
					Bytes:  Discriminator(key),
				},
			},
		},
	}
	if filter == nil || filter.Owner.IsZero() {
		return opt
	}

	opt.Filters = append(opt.Filters, rpc.RPCFilter{
		Memcmp: &rpc.RPCFilterMemcmp{
			Offset: filter.Offset,
			Bytes:  filter.Owner[:],
		},
	})
	return opt
}

// GetAccountInfo returns nil, nil when the account does not exist.
func GetAccountInfo(ctx context.Context, rpcClient *rpc.Client, account solana.PublicKey, commitment rpc.CommitmentType) (*rpc.GetAccountInfoResult, error) {
	out, err := rpcClient.GetAccountInfoWithOpts(ctx, account, &rpc.GetAccountInfoOpts{
		Commitment: commitmentOr(commitment),
		Encoding:   solana.EncodingBase64,
	})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return out, nil
}

func GetMultipleAccountInfo(ctx context.Context, rpcClient *rpc.Client, accounts []solana.PublicKey, commitment rpc.CommitmentType) (*rpc.GetMultipleAccountsResult, error) {
	return rpcClient.GetMultipleAccountsWithOpts(ctx, accounts, &rpc.GetMultipleAccountsOpts{
		Commitment: commitmentOr(commitment),
		Encoding:   solana.EncodingBase64,
	})
}

func GetProgramAccounts(ctx context.Context, rpcClient *rpc.Client, programID solana.PublicKey, key string, filter *Filter, commitment rpc.CommitmentType) (rpc.GetProgramAccountsResult, error) {
	return rpcClient.GetProgramAccountsWithOpts(ctx, programID, GenProgramAccountFilter(key, filter, commitment))
}
