package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/pflow-xyz/go-token/token"
	"github.com/pflow-xyz/go-token/token/journal"
)

func account(s string) token.Account { return token.Account(s) }

func query(args []string) error {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	dbPath := fs.String("db", "ledger.db", "Journal database path")
	stream := fs.String("stream", "ledger", "Journal stream name")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: token query [options] <what> [args...]

Replay the journal and read ledger state.

Queries:
  supply
  balance <account>
  allowance <owner> <spender>
  meta

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("a query is required")
	}

	store, err := journal.NewSQLiteStore(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ledger, _, err := journal.Replay(context.Background(), store, *stream)
	if err != nil {
		return err
	}

	switch fs.Arg(0) {
	case "supply":
		fmt.Println(ledger.TotalSupply())
	case "balance":
		if fs.NArg() != 2 {
			return fmt.Errorf("balance takes one account")
		}
		fmt.Println(ledger.BalanceOf(account(fs.Arg(1))))
	case "allowance":
		if fs.NArg() != 3 {
			return fmt.Errorf("allowance takes an owner and a spender")
		}
		fmt.Println(ledger.Allowance(account(fs.Arg(1)), account(fs.Arg(2))))
	case "meta":
		name := ledger.Name()
		if name == "" {
			name = "(unset)"
		}
		symbol := ledger.Symbol()
		if symbol == "" {
			symbol = "(unset)"
		}
		fmt.Printf("name: %s\nsymbol: %s\ndecimals: %d\n", name, symbol, ledger.Decimals())
	default:
		return fmt.Errorf("unknown query %q", fs.Arg(0))
	}
	return nil
}
