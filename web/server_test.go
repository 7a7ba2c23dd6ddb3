package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krazyTry/meme-tokens-go/memetoken"
	"github.com/krazyTry/meme-tokens-go/metrics"
	"github.com/krazyTry/meme-tokens-go/view"
	"github.com/krazyTry/meme-tokens-go/wallet"
)

type stubFacade struct {
	created *view.CreatedToken
	tokens  map[string]*memetoken.TokenMetadata
	err     error
}

func (f *stubFacade) CreateToken(context.Context, string, uint64, uint8) (*view.CreatedToken, error) {
	return f.created, f.err
}

func (f *stubFacade) GetTokenMetadata(_ context.Context, name string) (*memetoken.TokenMetadata, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.tokens[name], nil
}

func newTestServer(t *testing.T, facade view.Facade, backend wallet.Backend) (http.Handler, *wallet.Context) {
	t.Helper()
	w := wallet.NewContext(backend)
	s := NewServer(facade, w, WithMetrics(metrics.New("")))
	return s.Routes(), w
}

func staticBackend(t *testing.T) wallet.Backend {
	t.Helper()
	signer, err := wallet.NewKeypairSigner(solana.NewWallet().PrivateKey)
	require.NoError(t, err)
	return wallet.Static(signer)
}

func do(h http.Handler, method, target string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func tushar() *memetoken.TokenMetadata {
	return &memetoken.TokenMetadata{
		Mint:          solana.MustPublicKeyFromBase58("838to942ATb6jwyL9fbPxpHk33wfeckvkBhhK9iejhMp"),
		Authority:     solana.SystemProgramID,
		Supply:        1_000_000_000,
		Decimals:      9,
		IsInitialized: true,
		MemeName:      "tushar",
	}
}

func TestWalletConnectFlow(t *testing.T) {
	h, w := newTestServer(t, &stubFacade{}, staticBackend(t))

	rec := do(h, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Connect Wallet")
	assert.Contains(t, rec.Body.String(), "Connect your wallet to create a token")

	rec = do(h, http.MethodPost, "/wallet/connect", url.Values{})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.True(t, w.Connected())

	rec = do(h, http.MethodGet, "/", nil)
	assert.Contains(t, rec.Body.String(), "Disconnect")

	rec = do(h, http.MethodPost, "/wallet/disconnect", url.Values{})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.False(t, w.Connected())
}

func TestWalletConnectFailure(t *testing.T) {
	h, _ := newTestServer(t, &stubFacade{}, nil)
	rec := do(h, http.MethodPost, "/wallet/connect", url.Values{})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), wallet.ErrNoKeypair.Error())
}

func TestCreateRendersSuccess(t *testing.T) {
	facade := &stubFacade{created: &view.CreatedToken{Signature: "SIG123", Mint: "MINT456"}}
	h, w := newTestServer(t, facade, staticBackend(t))
	require.NoError(t, w.Connect(context.Background()))

	rec := do(h, http.MethodPost, "/create", url.Values{
		"name":     {"DogeMoon"},
		"supply":   {"1000000"},
		"decimals": {"9"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Token created successfully!")
	assert.Contains(t, body, "SIG123")
	assert.Contains(t, body, "MINT456")
	assert.Contains(t, body, "https://explorer.solana.com/tx/SIG123?cluster=devnet")
}

func TestCreateRequiresWallet(t *testing.T) {
	h, _ := newTestServer(t, &stubFacade{}, staticBackend(t))
	rec := do(h, http.MethodPost, "/create", url.Values{"name": {"DogeMoon"}, "supply": {"1"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), view.MsgConnectWallet)
}

func TestCreateRejectsBadDecimals(t *testing.T) {
	h, _ := newTestServer(t, &stubFacade{}, staticBackend(t))
	rec := do(h, http.MethodPost, "/create", url.Values{"name": {"DogeMoon"}, "supply": {"1"}, "decimals": {"4"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearch(t *testing.T) {
	facade := &stubFacade{tokens: map[string]*memetoken.TokenMetadata{"tushar": tushar()}}
	h, _ := newTestServer(t, facade, staticBackend(t))

	rec := do(h, http.MethodPost, "/search", url.Values{"name": {"tushar"}})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<dd>1</dd>")
	assert.Contains(t, body, "838to942...K9iejhMp")
	assert.Contains(t, body, "Initialized")

	rec = do(h, http.MethodPost, "/search", url.Values{"name": {"nonexistent"}})
	assert.Contains(t, rec.Body.String(), view.MsgNotFound)
}

func TestTokenAPI(t *testing.T) {
	facade := &stubFacade{tokens: map[string]*memetoken.TokenMetadata{"tushar": tushar()}}
	h, _ := newTestServer(t, facade, nil)

	rec := do(h, http.MethodGet, "/api/tokens/tushar", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got tokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "tushar", got.Name)
	assert.Equal(t, "1", got.UISupply)
	assert.Equal(t, uint64(1_000_000_000), got.Supply)
	address, _, err := memetoken.DeriveTokenMetadataAddress("tushar", solana.MustPublicKeyFromBase58("838to942ATb6jwyL9fbPxpHk33wfeckvkBhhK9iejhMp"))
	require.NoError(t, err)
	assert.Equal(t, address.String(), got.Address)

	rec = do(h, http.MethodGet, "/api/tokens/nonexistent", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), view.MsgNotFound)

	rec = do(h, http.MethodGet, "/api/tokens/"+strings.Repeat("a", 33), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	facade.err = errors.New("connection refused")
	rec = do(h, http.MethodGet, "/api/tokens/tushar", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), view.MsgFetchFailed)
}

func TestHealthAndMetrics(t *testing.T) {
	h, _ := newTestServer(t, &stubFacade{}, nil)

	rec := do(h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = do(h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `memetokens_http_requests_total{method="GET",route="/healthz",status="200"} 1`)
}
