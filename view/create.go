package view

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/krazyTry/meme-tokens-go/helpers"
	"github.com/krazyTry/meme-tokens-go/memetoken"
)

// CreateInput holds the create form fields as typed by the user.
type CreateInput struct {
	Name     string
	Supply   string
	Decimals uint8
}

func DefaultCreateInput() CreateInput {
	return CreateInput{Decimals: helpers.DefaultDecimals}
}

// CreateSuccess is the rendered outcome of a successful creation.
type CreateSuccess struct {
	Message      string
	Signature    string
	Mint         string
	TokenAccount string
	Metadata     string
	TxURL        string
	MintURL      string
}

// CreateState is a snapshot of a CreateForm.
type CreateState struct {
	Status       Status
	Input        CreateInput
	Error        string
	Result       *CreateSuccess
	SubmissionID string
}

// Loading reports whether the submit button is disabled.
func (s CreateState) Loading() bool {
	return s.Status == Submitting
}

// CreateForm drives one create-token form.
type CreateForm struct {
	facade Facade
	conn   Connection
	opts   options

	mu    sync.Mutex
	state CreateState
}

// NewCreateForm returns an idle form. conn may be nil, in which case the facade
// alone decides whether a wallet is connected.
func NewCreateForm(facade Facade, conn Connection, opts ...Option) *CreateForm {
	f := &CreateForm{
		facade: facade,
		conn:   conn,
		opts:   newOptions(opts),
	}
	f.state = CreateState{Status: Idle, Input: f.defaultInput()}
	return f
}

func (f *CreateForm) defaultInput() CreateInput {
	return CreateInput{Decimals: f.opts.decimals}
}

func (f *CreateForm) State() CreateState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Reset returns the form to idle with default inputs.
func (f *CreateForm) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state.Status == Submitting {
		return ErrBusy
	}
	f.state = CreateState{Status: Idle, Input: f.defaultInput()}
	return nil
}

// Submit validates input and creates the token. It returns ErrBusy while a previous
// submission is in flight; otherwise the error of the attempt, which is also rendered
// into the returned state.
func (f *CreateForm) Submit(ctx context.Context, input CreateInput) (CreateState, error) {
	f.mu.Lock()
	if f.state.Status == Submitting {
		f.mu.Unlock()
		return f.State(), ErrBusy
	}
	id := uuid.NewString()
	f.state = CreateState{Status: Submitting, Input: input, SubmissionID: id}
	f.mu.Unlock()

	log := f.opts.logger.With(zap.String("submission", id), zap.String("name", input.Name))

	res, err := f.create(ctx, input)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		log.Warn("create token failed", zap.Error(err))
		f.state = CreateState{Status: Failed, Input: input, Error: createMessage(err), SubmissionID: id}
		return f.state, err
	}
	log.Info("token created", zap.String("signature", res.Signature), zap.String("mint", res.Mint))
	f.state = CreateState{
		Status: Succeeded,
		Input:  f.defaultInput(),
		Result: &CreateSuccess{
			Message:      MsgCreated,
			Signature:    res.Signature,
			Mint:         res.Mint,
			TokenAccount: res.TokenAccount,
			Metadata:     res.Metadata,
			TxURL:        f.opts.explorer.Tx(res.Signature),
			MintURL:      f.opts.explorer.Address(res.Mint),
		},
		SubmissionID: id,
	}
	return f.state, nil
}

func (f *CreateForm) create(ctx context.Context, input CreateInput) (*CreatedToken, error) {
	if f.conn != nil && !f.conn.Connected() {
		return nil, memetoken.ErrNotConnected
	}
	if err := helpers.ValidateTokenName(input.Name); err != nil {
		return nil, err
	}
	if err := helpers.ValidateSupply(input.Supply); err != nil {
		return nil, err
	}
	supply, err := helpers.ScaleSupply(input.Supply, input.Decimals)
	if err != nil {
		return nil, err
	}
	return f.facade.CreateToken(ctx, input.Name, supply, input.Decimals)
}

var userFacing = []error{
	helpers.ErrNameRequired,
	helpers.ErrNameTooLong,
	helpers.ErrNameCharset,
	helpers.ErrSupplyInvalid,
	helpers.ErrSupplyTooLarge,
	helpers.ErrDecimalsUnsupported,
}

func createMessage(err error) string {
	if errors.Is(err, memetoken.ErrNotConnected) {
		return MsgConnectWallet
	}
	for _, target := range userFacing {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return MsgCreateFailed
}

// ParseDecimals reads the decimals field of a submitted form; blank means the default.
func ParseDecimals(s string) (uint8, error) {
	if s == "" {
		return helpers.DefaultDecimals, nil
	}
	d, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, helpers.ErrDecimalsUnsupported
	}
	if err := helpers.ValidateDecimals(uint8(d)); err != nil {
		return 0, err
	}
	return uint8(d), nil
}
