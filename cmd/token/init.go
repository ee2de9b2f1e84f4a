package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/pflow-xyz/go-token/token"
	"github.com/pflow-xyz/go-token/token/journal"
)

func initLedger(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	configPath := fs.String("config", "", "Ledger config file (required)")
	dbPath := fs.String("db", "ledger.db", "Journal database path")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: token init [options]

Create a ledger from a YAML config and write its construction record. The
entire initial supply is credited to the configured creator.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Config format:
  name: MyToken          # optional display name
  symbol: MTK            # optional display symbol
  decimals: 18           # display scale factor
  initial_supply: "1000" # base-10, credited to creator
  creator: alice         # required
  stream: ledger         # journal stream name, default "ledger"
`)
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *configPath == "" {
		fs.Usage()
		return fmt.Errorf("--config is required")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	supply, err := token.ParseAmount(cfg.InitialSupply)
	if err != nil {
		return err
	}

	store, err := journal.NewSQLiteStore(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	rec := journal.InitRecord(token.Account(cfg.Creator), supply, token.Metadata{
		Name:     cfg.Name,
		Symbol:   cfg.Symbol,
		Decimals: cfg.Decimals,
	})
	if _, err := store.Append(context.Background(), cfg.Stream, -1, []journal.Record{rec}); err != nil {
		return err
	}

	fmt.Printf("initialized stream %q in %s: supply %s credited to %s\n",
		cfg.Stream, *dbPath, supply, cfg.Creator)
	return nil
}
