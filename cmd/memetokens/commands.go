package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/gagliardetto/solana-go"

	"github.com/krazyTry/meme-tokens-go/helpers"
	"github.com/krazyTry/meme-tokens-go/memetoken"
	"github.com/krazyTry/meme-tokens-go/view"
	"github.com/krazyTry/meme-tokens-go/web"
)

func serveFlags(fs *flag.FlagSet) func(*cliEnv) error {
	listen := fs.String("listen", "", "http listen address (MEMETOKENS_LISTEN_ADDR)")
	return func(e *cliEnv) error {
		e.listen = e.cfg.ListenAddr
		if *listen != "" {
			e.listen = *listen
		}
		return nil
	}
}

func runServe(ctx context.Context, e *cliEnv, _ []string) error {
	s, err := e.open(ctx)
	if err != nil {
		return err
	}
	srv := web.NewServer(view.Adapt(s.Client), s.Wallet,
		web.WithLogger(e.logger.Named("web")),
		web.WithMetrics(e.metrics),
		web.WithExplorer(e.explorer()),
		web.WithProgramID(e.cfg.ProgramID),
		web.WithSubmitTimeout(e.cfg.ConfirmTimeout),
		web.WithDefaultDecimals(e.cfg.DefaultDecimals),
	)
	return srv.ListenAndServe(ctx, e.listen)
}

func createFlags(fs *flag.FlagSet) func(*cliEnv) error {
	name := fs.String("name", "", "token name")
	supply := fs.String("supply", "", "initial supply in whole tokens")
	decimals := fs.String("decimals", "", "decimals: 0, 2, 6, 8 or 9")
	return func(e *cliEnv) error {
		e.name, e.supply = *name, *supply
		if *decimals != "" {
			d, err := view.ParseDecimals(*decimals)
			if err != nil {
				return err
			}
			e.decimals = d
		}
		return nil
	}
}

func runCreate(ctx context.Context, e *cliEnv, _ []string) error {
	if e.name == "" || e.supply == "" {
		return errUsage
	}
	s, err := e.open(ctx)
	if err != nil {
		return err
	}
	if err := s.Wallet.Connect(ctx); err != nil {
		return err
	}

	form := view.NewCreateForm(view.Adapt(s.Client), s.Wallet,
		view.WithExplorer(e.explorer()),
		view.WithLogger(e.logger.Named("create")),
	)
	ctx, cancel := context.WithTimeout(ctx, e.cfg.ConfirmTimeout)
	defer cancel()
	state, err := form.Submit(ctx, view.CreateInput{Name: e.name, Supply: e.supply, Decimals: e.decimals})
	if err != nil {
		return errors.New(state.Error)
	}

	w := tabwriter.NewWriter(e.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, state.Result.Message)
	fmt.Fprintf(w, "signature\t%s\n", state.Result.Signature)
	fmt.Fprintf(w, "mint\t%s\n", state.Result.Mint)
	fmt.Fprintf(w, "token account\t%s\n", state.Result.TokenAccount)
	fmt.Fprintf(w, "metadata\t%s\n", state.Result.Metadata)
	fmt.Fprintf(w, "explorer\t%s\n", state.Result.TxURL)
	return w.Flush()
}

func runSearch(ctx context.Context, e *cliEnv, args []string) error {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return errUsage
	}
	s, err := e.open(ctx)
	if err != nil {
		return err
	}
	form := view.NewSearchForm(view.Adapt(s.Client), view.WithExplorer(e.explorer()), view.WithLogger(e.logger))
	state, err := form.Submit(ctx, name)
	if err != nil {
		return fmt.Errorf("search %q: %w", name, err)
	}
	if state.Result == nil {
		return errors.New(state.Error)
	}

	d := state.Result
	w := tabwriter.NewWriter(e.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "name\t%s\n", d.Name)
	fmt.Fprintf(w, "mint\t%s\n", d.Mint)
	fmt.Fprintf(w, "authority\t%s\n", d.Authority)
	fmt.Fprintf(w, "mint authority\t%s\n", d.MintAuthority)
	fmt.Fprintf(w, "supply\t%s\n", d.Supply)
	fmt.Fprintf(w, "decimals\t%d\n", d.Decimals)
	fmt.Fprintf(w, "status\t%s\n", d.Status)
	fmt.Fprintf(w, "explorer\t%s\n", d.MintURL)
	return w.Flush()
}

func listFlags(fs *flag.FlagSet) func(*cliEnv) error {
	authority := fs.String("authority", "", "only tokens created by this public key")
	mine := fs.Bool("mine", false, "only tokens created by the configured keypair")
	return func(e *cliEnv) error {
		e.owner, e.mine = *authority, *mine
		return nil
	}
}

func runList(ctx context.Context, e *cliEnv, _ []string) error {
	s, err := e.open(ctx)
	if err != nil {
		return err
	}

	var tokens []memetoken.ProgramAccount[memetoken.TokenMetadata]
	switch {
	case e.owner != "":
		authority, err := solana.PublicKeyFromBase58(e.owner)
		if err != nil {
			return fmt.Errorf("authority: %w", err)
		}
		tokens, err = s.Client.GetTokensByAuthority(ctx, authority)
		if err != nil {
			return err
		}
	case e.mine:
		if err := s.Wallet.Connect(ctx); err != nil {
			return err
		}
		authority, _ := s.Wallet.Address()
		tokens, err = s.Client.GetTokensByAuthority(ctx, authority)
	default:
		tokens, err = s.Client.GetTokens(ctx)
	}
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(e.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMINT\tSUPPLY\tDECIMALS\tAUTHORITY")
	for _, t := range tokens {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			t.Account.MemeName,
			t.Account.Mint,
			helpers.FormatTokenAmount(t.Account.Supply, t.Account.Decimals),
			t.Account.Decimals,
			helpers.TruncateAddress(t.Account.Authority.String(), 4),
		)
	}
	return w.Flush()
}

func runAddress(_ context.Context, e *cliEnv, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	address, bump, err := memetoken.DeriveTokenMetadataAddress(args[0], e.cfg.ProgramID)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "metadata\t%s\nbump\t%d\n", address, bump)
	return nil
}
