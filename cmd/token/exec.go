package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/pflow-xyz/go-token/dispatch"
	"github.com/pflow-xyz/go-token/token"
	"github.com/pflow-xyz/go-token/token/journal"
)

func exec(args []string) error {
	fs := flag.NewFlagSet("exec", flag.ExitOnError)
	dbPath := fs.String("db", "ledger.db", "Journal database path")
	stream := fs.String("stream", "ledger", "Journal stream name")
	caller := fs.String("caller", "", "Calling account (required)")
	verbose := fs.Bool("verbose", false, "Log each notification to stderr")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: token exec [options] <operation> [args...]

Replay the journal, apply one operation as --caller, and append it on
success.

Operations:
  transfer <to> <value>
  transfer_from <from> <to> <value>
  approve <spender> <value>
  increase_allowance <spender> <value>
  decrease_allowance <spender> <value>
  mint <value>
  burn <value>

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *caller == "" {
		fs.Usage()
		return fmt.Errorf("--caller is required")
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("an operation is required")
	}
	op := fs.Arg(0)
	opArgs, err := parseOpArgs(op, fs.Args()[1:])
	if err != nil {
		return err
	}

	store, err := journal.NewSQLiteStore(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	ledger, version, err := journal.Replay(ctx, store, *stream)
	if err != nil {
		return err
	}

	opts := []dispatch.Option{dispatch.WithJournal(store, *stream, version)}
	if *verbose {
		logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
		opts = append(opts, dispatch.WithObserver(dispatch.NewLogObserver(logger)))
	}
	d := dispatch.New(ledger, opts...)

	res, err := d.Call(ctx, token.Account(*caller), op, opArgs)
	if err != nil {
		return err
	}

	fmt.Printf("applied %s as version %d (call %s)\n", op, res.Version, res.CallID)
	for _, ev := range res.Events {
		switch e := ev.(type) {
		case token.Transfer:
			fmt.Printf("  transfer %s -> %s: %s\n", accountLabel(e.From, "mint"), accountLabel(e.To, "burn"), e.Value)
		case token.Approval:
			fmt.Printf("  approval %s allows %s: %s\n", e.Owner, e.Spender, e.Value)
		}
	}
	return nil
}

// parseOpArgs maps the positional arguments of each operation onto dispatch
// call arguments. The last positional is always the base-10 value.
func parseOpArgs(op string, args []string) (dispatch.Args, error) {
	want := map[string]int{
		journal.OpTransfer:          2,
		journal.OpTransferFrom:      3,
		journal.OpApprove:           2,
		journal.OpIncreaseAllowance: 2,
		journal.OpDecreaseAllowance: 2,
		journal.OpMint:              1,
		journal.OpBurn:              1,
	}
	n, ok := want[op]
	if !ok {
		return dispatch.Args{}, fmt.Errorf("unknown operation %q", op)
	}
	if len(args) != n {
		return dispatch.Args{}, fmt.Errorf("%s takes %d arguments, got %d", op, n, len(args))
	}

	value, err := token.ParseAmount(args[len(args)-1])
	if err != nil {
		return dispatch.Args{}, err
	}
	out := dispatch.Args{Value: value}
	switch op {
	case journal.OpTransfer:
		out.To = token.Account(args[0])
	case journal.OpTransferFrom:
		out.From = token.Account(args[0])
		out.To = token.Account(args[1])
	case journal.OpApprove, journal.OpIncreaseAllowance, journal.OpDecreaseAllowance:
		out.Spender = token.Account(args[0])
	}
	return out, nil
}

func accountLabel(a *token.Account, absent string) string {
	if a == nil {
		return "(" + absent + ")"
	}
	return string(*a)
}
