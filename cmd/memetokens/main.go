// Command memetokens creates and inspects meme tokens of the meme_tokens program.
//
// Usage:
//
//	memetokens serve   [-listen :8080]
//	memetokens create  -name DogeMoon -supply 1000000 [-decimals 9]
//	memetokens search  NAME
//	memetokens list    [-authority PUBKEY | -mine]
//	memetokens address NAME
//
// Every command reads MEMETOKENS_* variables (and a .env file); flags override them.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

var errUsage = errors.New("usage")

type command struct {
	name  string
	short string
	run   func(ctx context.Context, env *cliEnv, args []string) error
	flags func(fs *flag.FlagSet) func(*cliEnv) error
}

var commands = []command{
	{name: "serve", short: "run the web front end", run: runServe, flags: serveFlags},
	{name: "create", short: "create a meme token with the configured keypair", run: runCreate, flags: createFlags},
	{name: "search", short: "show the metadata of a token by name", run: runSearch},
	{name: "list", short: "list every token of the program", run: runList, flags: listFlags},
	{name: "address", short: "print the metadata address of a name (offline)", run: runAddress},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}
	var cmd *command
	for i := range commands {
		if commands[i].name == args[0] {
			cmd = &commands[i]
		}
	}
	if cmd == nil {
		fmt.Fprintf(stderr, "unknown command %q\n", args[0])
		usage(stderr)
		return 2
	}

	fs := flag.NewFlagSet(cmd.name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	global := bindGlobalFlags(fs)
	var apply func(*cliEnv) error
	if cmd.flags != nil {
		apply = cmd.flags(fs)
	}
	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}

	env, err := newCLIEnv(global, fs, stdout, stderr)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	defer env.close()

	if apply != nil {
		if err := apply(env); err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return 2
		}
	}
	if err := cmd.run(ctx, env, fs.Args()); err != nil {
		if errors.Is(err, errUsage) {
			fs.Usage()
			return 2
		}
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: memetokens <command> [flags] [args]")
	fmt.Fprintln(w)
	for _, c := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", c.name, c.short)
	}
}
