package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/pflow-xyz/go-token/token/journal"
)

func verify(args []string) error {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	dbPath := fs.String("db", "ledger.db", "Journal database path")
	stream := fs.String("stream", "ledger", "Journal stream name")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: token verify [options]

Replay the journal and audit the ledger invariants: conservation of the
total supply and sparsity of the balance and allowance mappings.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := journal.NewSQLiteStore(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ledger, version, err := journal.Replay(context.Background(), store, *stream)
	if err != nil {
		return err
	}
	if err := ledger.CheckInvariants(); err != nil {
		return err
	}

	fmt.Printf("stream %q ok at version %d: total supply %s\n", *stream, version, ledger.TotalSupply())
	return nil
}
