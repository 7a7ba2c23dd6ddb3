package memetoken

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memetokens "github.com/krazyTry/meme-tokens-go/gen/meme_tokens"
	"github.com/krazyTry/meme-tokens-go/helpers"
	"github.com/krazyTry/meme-tokens-go/solana/solanatest"
	"github.com/krazyTry/meme-tokens-go/wallet"
)

type opRecorder struct {
	ops  []string
	errs []error
}

func (r *opRecorder) ObserveOperation(op string, _ time.Duration, err error) {
	r.ops = append(r.ops, op)
	r.errs = append(r.errs, err)
}

func connectedWallet(t *testing.T) (*wallet.Context, solana.PrivateKey) {
	t.Helper()
	key := solana.NewWallet().PrivateKey
	signer, err := wallet.NewKeypairSigner(key)
	require.NoError(t, err)
	w := wallet.NewContext(wallet.Static(signer))
	require.NoError(t, w.Connect(context.Background()))
	return w, key
}

func metadataAccount(t *testing.T, meta TokenMetadata) []byte {
	t.Helper()
	data, err := meta.Marshal()
	require.NoError(t, err)
	return data
}

func TestDeriveTokenMetadataAddressDeterministic(t *testing.T) {
	a, bumpA, err := DeriveTokenMetadataAddress("tushar", memetokens.ProgramID)
	require.NoError(t, err)
	b, bumpB, err := DeriveTokenMetadataAddress("tushar", memetokens.ProgramID)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, bumpA, bumpB)

	want, _, err := solana.FindProgramAddress([][]byte{[]byte("token_metadata"), []byte("tushar")}, memetokens.ProgramID)
	require.NoError(t, err)
	assert.Equal(t, want, a)

	other, _, err := DeriveTokenMetadataAddress("tushar2", memetokens.ProgramID)
	require.NoError(t, err)
	assert.NotEqual(t, a, other)

	_, _, err = DeriveTokenMetadataAddress(string(bytes.Repeat([]byte("a"), 33)), memetokens.ProgramID)
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestCreateTokenInstructionAccounts(t *testing.T) {
	payer := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()

	ix, tokenAccount, metadata, err := CreateTokenInstruction(memetokens.ProgramID, payer, mint, "DogeMoon", 1_000, 9)
	require.NoError(t, err)

	wantATA, _, err := solana.FindAssociatedTokenAddress(payer, mint)
	require.NoError(t, err)
	assert.Equal(t, wantATA, tokenAccount)

	keys := make([]solana.PublicKey, 0, 7)
	for _, a := range ix.Accounts() {
		keys = append(keys, a.PublicKey)
	}
	assert.Equal(t, []solana.PublicKey{
		payer, mint, tokenAccount, metadata,
		solana.TokenProgramID, solana.SPLAssociatedTokenAccountProgramID, solana.SystemProgramID,
	}, keys)

	custom := solana.NewWallet().PublicKey()
	ix, _, customMetadata, err := CreateTokenInstruction(custom, payer, mint, "DogeMoon", 1_000, 9)
	require.NoError(t, err)
	assert.Equal(t, custom, ix.ProgramID())
	assert.NotEqual(t, metadata, customMetadata)
}

func TestCreateTokenInstructionValidation(t *testing.T) {
	payer := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()

	_, _, _, err := CreateTokenInstruction(memetokens.ProgramID, payer, mint, "bad name!", 1, 9)
	assert.ErrorIs(t, err, ErrInvalidName)
	assert.ErrorIs(t, err, helpers.ErrNameCharset)

	_, _, _, err = CreateTokenInstruction(memetokens.ProgramID, payer, mint, "doge\r\n", 1, 9)
	assert.ErrorIs(t, err, helpers.ErrNameCharset)

	_, _, _, err = CreateTokenInstruction(memetokens.ProgramID, payer, mint, "ok", 1, 7)
	assert.ErrorIs(t, err, ErrInvalidDecimals)

	_, _, _, err = CreateTokenInstruction(memetokens.ProgramID, payer, mint, "ok", 0, 9)
	assert.ErrorIs(t, err, ErrInvalidSupply)
}

func TestCreateToken(t *testing.T) {
	fake := solanatest.New()
	w, key := connectedWallet(t)
	rec := &opRecorder{}
	client := NewMemeToken(fake.Client(), w, WithObserver(rec))

	result, err := client.CreateToken(context.Background(), "DogeMoon", 1_000_000_000_000_000, 9)
	require.NoError(t, err)

	sent := fake.Sent()
	require.Len(t, sent, 1)
	tx := sent[0]
	assert.Equal(t, tx.Signatures[0], result.Signature)
	assert.Equal(t, fake.Blockhash, tx.Message.RecentBlockhash)
	assert.True(t, tx.Message.IsSigner(key.PublicKey()))
	assert.True(t, tx.Message.IsSigner(result.Mint))

	wantMetadata, _, err := DeriveTokenMetadataAddress("DogeMoon", memetokens.ProgramID)
	require.NoError(t, err)
	assert.Equal(t, wantMetadata, result.Metadata)
	wantATA, err := DeriveTokenAccount(key.PublicKey(), result.Mint)
	require.NoError(t, err)
	assert.Equal(t, wantATA, result.TokenAccount)

	require.Len(t, tx.Message.Instructions, 1)
	args, err := memetokens.ParseInstruction_CreateToken(tx.Message.Instructions[0].Data)
	require.NoError(t, err)
	assert.Equal(t, "DogeMoon", args.MemeName)
	assert.Equal(t, uint64(1_000_000_000_000_000), args.Supply)
	assert.Equal(t, uint8(9), args.Decimals)

	assert.Equal(t, []string{"create_token"}, rec.ops)
	assert.NoError(t, rec.errs[0])
}

func TestCreateTokenNotConnected(t *testing.T) {
	fake := solanatest.New()
	client := NewMemeToken(fake.Client(), wallet.NewContext(nil))

	_, err := client.CreateToken(context.Background(), "DogeMoon", 1, 9)
	assert.ErrorIs(t, err, ErrNotConnected)

	_, err = NewMemeToken(fake.Client(), nil).CreateToken(context.Background(), "DogeMoon", 1, 9)
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.Zero(t, fake.TotalCalls())
}

func TestCreateTokenRejectsBadInputWithoutNetwork(t *testing.T) {
	fake := solanatest.New()
	w, _ := connectedWallet(t)
	client := NewMemeToken(fake.Client(), w)

	_, err := client.CreateToken(context.Background(), string(bytes.Repeat([]byte("x"), 33)), 1, 9)
	assert.ErrorIs(t, err, helpers.ErrNameTooLong)
	_, err = client.CreateToken(context.Background(), "doge$", 1, 9)
	assert.ErrorIs(t, err, helpers.ErrNameCharset)
	assert.Zero(t, fake.TotalCalls())
}

func TestCreateTokenOnChainRejection(t *testing.T) {
	fake := solanatest.New()
	fake.Fail("sendTransaction", errors.New("custom program error: 0x0"))
	w, _ := connectedWallet(t)
	rec := &opRecorder{}
	client := NewMemeToken(fake.Client(), w, WithObserver(rec))

	_, err := client.CreateToken(context.Background(), "DogeMoon", 1, 9)
	assert.ErrorContains(t, err, "custom program error: 0x0")
	require.Len(t, rec.errs, 1)
	assert.Error(t, rec.errs[0])
}

func TestGetTokenMetadata(t *testing.T) {
	fake := solanatest.New()
	client := NewMemeToken(fake.Client(), nil)

	got, err := client.GetTokenMetadata(context.Background(), "nonexistent")
	require.NoError(t, err)
	assert.Nil(t, got)

	authority := solana.NewWallet().PublicKey()
	meta := TokenMetadata{
		Mint:          solana.NewWallet().PublicKey(),
		Authority:     authority,
		Supply:        1_000_000_000,
		Decimals:      9,
		IsInitialized: true,
		Bump:          253,
		MintAuthority: authority,
		MemeName:      "tushar",
	}
	address, _, err := DeriveTokenMetadataAddress("tushar", memetokens.ProgramID)
	require.NoError(t, err)
	fake.SetAccount(address, memetokens.ProgramID, metadataAccount(t, meta))

	got, err = client.GetTokenMetadata(context.Background(), "tushar")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, meta, *got)
	assert.Equal(t, "1", helpers.FormatTokenAmount(got.Supply, got.Decimals))

	byAddress, err := client.GetTokenMetadataByAddress(context.Background(), address)
	require.NoError(t, err)
	assert.Equal(t, meta, *byAddress)
}

func TestGetTokenMetadataNeverPartial(t *testing.T) {
	fake := solanatest.New()
	client := NewMemeToken(fake.Client(), nil)

	address, _, err := DeriveTokenMetadataAddress("broken", memetokens.ProgramID)
	require.NoError(t, err)
	data := metadataAccount(t, TokenMetadata{MemeName: "broken"})
	fake.SetAccount(address, memetokens.ProgramID, data[:50])

	got, err := client.GetTokenMetadata(context.Background(), "broken")
	require.NoError(t, err)
	assert.Nil(t, got)

	foreign, _, err := DeriveTokenMetadataAddress("foreign", memetokens.ProgramID)
	require.NoError(t, err)
	fake.SetAccount(foreign, solana.SystemProgramID, metadataAccount(t, TokenMetadata{MemeName: "foreign"}))
	got, err = client.GetTokenMetadata(context.Background(), "foreign")
	require.NoError(t, err)
	assert.Nil(t, got)

	fake.Fail("getAccountInfo", errors.New("429 Too Many Requests"))
	_, err = client.GetTokenMetadata(context.Background(), "broken")
	assert.ErrorContains(t, err, "429")
}

func TestGetTokensByAuthority(t *testing.T) {
	fake := solanatest.New()
	client := NewMemeToken(fake.Client(), nil)

	alice := solana.NewWallet().PublicKey()
	bob := solana.NewWallet().PublicKey()
	for _, tc := range []struct {
		name      string
		authority solana.PublicKey
	}{{"zeta", alice}, {"alpha", alice}, {"bob coin", bob}} {
		address, _, err := DeriveTokenMetadataAddress(tc.name, memetokens.ProgramID)
		require.NoError(t, err)
		fake.SetAccount(address, memetokens.ProgramID, metadataAccount(t, TokenMetadata{
			Mint:      solana.NewWallet().PublicKey(),
			Authority: tc.authority,
			Supply:    1,
			MemeName:  tc.name,
		}))
	}
	// an account of another type owned by the program is ignored
	fake.SetAccount(solana.NewWallet().PublicKey(), memetokens.ProgramID, []byte{1, 2, 3, 4, 5, 6, 7, 8, 9})

	all, err := client.GetTokens(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "alpha", all[0].Account.MemeName)
	assert.Equal(t, "bob coin", all[1].Account.MemeName)

	mine, err := client.GetTokensByAuthority(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "alpha", mine[0].Account.MemeName)
	assert.Equal(t, "zeta", mine[1].Account.MemeName)
}

func TestGetTokenBalance(t *testing.T) {
	fake := solanatest.New()
	client := NewMemeToken(fake.Client(), nil)

	owner := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()

	buf := new(bytes.Buffer)
	require.NoError(t, token.Mint{Supply: 5_000_000_000, Decimals: 9, IsInitialized: true}.MarshalWithEncoder(binary.NewBinEncoder(buf)))
	fake.SetAccount(mint, solana.TokenProgramID, buf.Bytes())

	balance, err := client.GetTokenBalance(context.Background(), owner, mint)
	require.NoError(t, err)
	assert.Zero(t, balance.Amount)
	assert.Equal(t, uint8(9), balance.Decimals)

	ata, err := DeriveTokenAccount(owner, mint)
	require.NoError(t, err)
	buf.Reset()
	require.NoError(t, token.Account{Mint: mint, Owner: owner, Amount: 2_500_000_000, State: token.Initialized}.MarshalWithEncoder(binary.NewBinEncoder(buf)))
	fake.SetAccount(ata, solana.TokenProgramID, buf.Bytes())

	balance, err = client.GetTokenBalance(context.Background(), owner, mint)
	require.NoError(t, err)
	assert.Equal(t, ata, balance.TokenAccount)
	assert.Equal(t, "2.5", balance.UIAmount())

	assert.Equal(t, 2, fake.Calls("getMultipleAccounts"))
	assert.Equal(t, 2, fake.Calls("getAccountInfo"))

	_, err = client.GetTokenBalance(context.Background(), owner, solana.NewWallet().PublicKey())
	assert.ErrorContains(t, err, "not found")

	foreign := solana.NewWallet().PublicKey()
	buf.Reset()
	require.NoError(t, token.Mint{Supply: 1, Decimals: 0, IsInitialized: true}.MarshalWithEncoder(binary.NewBinEncoder(buf)))
	fake.SetAccount(foreign, solana.SystemProgramID, buf.Bytes())
	_, err = client.GetTokenBalance(context.Background(), owner, foreign)
	assert.ErrorContains(t, err, "not the token program")
}
