package view

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/krazyTry/meme-tokens-go/helpers"
	"github.com/krazyTry/meme-tokens-go/memetoken"
)

// TokenDetails is the display form of TokenMetadata.
type TokenDetails struct {
	Name           string
	Mint           string
	MintShort      string
	MintURL        string
	Authority      string
	AuthorityShort string
	MintAuthority  string
	Supply         string
	Decimals       uint8
	Status         string
	Bump           uint8
}

func NewTokenDetails(meta *memetoken.TokenMetadata, explorer Explorer) *TokenDetails {
	status := StatusPending
	if meta.IsInitialized {
		status = StatusInitialized
	}
	return &TokenDetails{
		Name:           meta.MemeName,
		Mint:           meta.Mint.String(),
		MintShort:      shortKey(meta.Mint),
		MintURL:        explorer.Address(meta.Mint.String()),
		Authority:      meta.Authority.String(),
		AuthorityShort: shortKey(meta.Authority),
		MintAuthority:  meta.MintAuthority.String(),
		Supply:         helpers.FormatTokenAmount(meta.Supply, meta.Decimals),
		Decimals:       meta.Decimals,
		Status:         status,
		Bump:           meta.Bump,
	}
}

// SearchState is a snapshot of a SearchForm.
type SearchState struct {
	Status       Status
	Query        string
	Error        string
	Result       *TokenDetails
	SubmissionID string
}

func (s SearchState) Loading() bool {
	return s.Status == Submitting
}

// SearchForm looks up token metadata by name.
type SearchForm struct {
	facade Facade
	opts   options

	mu    sync.Mutex
	state SearchState
}

func NewSearchForm(facade Facade, opts ...Option) *SearchForm {
	return &SearchForm{facade: facade, opts: newOptions(opts)}
}

func (f *SearchForm) State() SearchState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Submit searches for name. A blank name is ignored and leaves the form untouched.
func (f *SearchForm) Submit(ctx context.Context, name string) (SearchState, error) {
	name = strings.TrimSpace(name)
	f.mu.Lock()
	if name == "" {
		defer f.mu.Unlock()
		return f.state, nil
	}
	if f.state.Status == Submitting {
		defer f.mu.Unlock()
		return f.state, ErrBusy
	}
	id := uuid.NewString()
	f.state = SearchState{Status: Submitting, Query: name, SubmissionID: id}
	f.mu.Unlock()

	meta, err := f.facade.GetTokenMetadata(ctx, name)

	f.mu.Lock()
	defer f.mu.Unlock()
	switch {
	case err != nil:
		f.opts.logger.Warn("fetch token metadata failed",
			zap.String("submission", id),
			zap.String("name", name),
			zap.Error(err),
		)
		f.state = SearchState{Status: Failed, Query: name, Error: fetchMessage(err), SubmissionID: id}
		return f.state, err
	case meta == nil:
		f.state = SearchState{Status: Failed, Query: name, Error: MsgNotFound, SubmissionID: id}
	default:
		f.state = SearchState{
			Status:       Succeeded,
			Query:        name,
			Result:       NewTokenDetails(meta, f.opts.explorer),
			SubmissionID: id,
		}
	}
	return f.state, nil
}

func fetchMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return MsgFetchFailed
}
