package solana

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	sendandconfirmtransaction "github.com/gagliardetto/solana-go/rpc/sendAndConfirmTransaction"
	"github.com/gagliardetto/solana-go/rpc/ws"
)

// DefaultPollInterval is the signature status polling period used without a websocket.
var DefaultPollInterval = 2 * time.Second

// errSignatureUnknown marks a signature the cluster has no status for yet.
var errSignatureUnknown = errors.New("transaction not found (maybe dropped)")

// NewTransaction builds an unsigned transaction over a fresh blockhash.
func NewTransaction(
	ctx context.Context,
	rpcClient *rpc.Client,
	instructions []solana.Instruction,
	payer solana.PublicKey,
	commitment rpc.CommitmentType,
) (*solana.Transaction, error) {
	latestBlockhash, err := GetLatestBlockhash(ctx, rpcClient, commitment)
	if err != nil {
		return nil, fmt.Errorf("get latest blockhash: %w", err)
	}
	return solana.NewTransaction(instructions, latestBlockhash, solana.TransactionPayer(payer))
}

// SendTransaction submits a fully signed transaction and waits until it reaches commitment.
func SendTransaction(
	ctx context.Context,
	rpcClient *rpc.Client,
	wsClient *ws.Client,
	tx *solana.Transaction,
	commitment rpc.CommitmentType,
) (solana.Signature, error) {
	sig, err := rpcClient.SendTransactionWithOpts(
		ctx,
		tx,
		rpc.TransactionOpts{
			SkipPreflight:       false,
			PreflightCommitment: commitmentOr(commitment),
		},
	)
	if err != nil {
		return solana.Signature{}, err
	}

	if err = WaitForSignature(ctx, rpcClient, wsClient, sig, commitment); err != nil {
		return sig, err
	}
	return sig, nil
}

// WaitForSignature blocks until sig reaches commitment, fails on chain or ctx ends.
// With a websocket client it subscribes first and falls back to status polling.
func WaitForSignature(
	ctx context.Context,
	rpcClient *rpc.Client,
	wsClient *ws.Client,
	sig solana.Signature,
	commitment rpc.CommitmentType,
) error {
	if wsClient != nil {
		confirmed, err := sendandconfirmtransaction.WaitForConfirmation(ctx, wsClient, sig, nil)
		if confirmed {
			if err != nil {
				return fmt.Errorf("transaction confirmed but failed: %w", err)
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
	}

	ticker := time.NewTicker(DefaultPollInterval)
	defer ticker.Stop()
	for {
		done, err := checkSignature(ctx, rpcClient, sig, commitment)
		if err != nil && !errors.Is(err, errSignatureUnknown) {
			return err
		}
		if done {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func checkSignature(
	ctx context.Context,
	rpcClient *rpc.Client,
	sig solana.Signature,
	commitment rpc.CommitmentType,
) (bool, error) {
	statusResp, err := rpcClient.GetSignatureStatuses(ctx, true, sig)
	if err != nil {
		return false, fmt.Errorf("rpc GetSignatureStatuses error: %w", err)
	}
	if statusResp == nil || len(statusResp.Value) == 0 || statusResp.Value[0] == nil {
		return false, errSignatureUnknown
	}
	status := statusResp.Value[0]
	if status.Err != nil {
		return false, fmt.Errorf("transaction confirmed but failed: %v", status.Err)
	}
	return reached(status.ConfirmationStatus, commitmentOr(commitment)), nil
}

func reached(status rpc.ConfirmationStatusType, want rpc.CommitmentType) bool {
	rank := func(s string) int {
		switch s {
		case string(rpc.ConfirmationStatusProcessed):
			return 1
		case string(rpc.ConfirmationStatusConfirmed):
			return 2
		case string(rpc.ConfirmationStatusFinalized):
			return 3
		}
		return 0
	}
	got := rank(string(status))
	return got > 0 && got >= rank(string(want))
}
