package main

import (
	"fmt"
	"os"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "init":
		if err := initLedger(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "exec":
		if err := exec(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "query":
		if err := query(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "verify":
		if err := verify(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Printf("token version %s\n", version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `token - fungible-token ledger

Usage: token <command> [options]

Commands:
  init     Create a ledger from a YAML config and open its journal
  exec     Apply one operation to a journaled ledger
  query    Read supply, balances, allowances or metadata
  verify   Replay the journal and audit the ledger invariants
  version  Print version
  help     Show this help

Run 'token <command> -h' for command options.

Examples:
  token init --config mytoken.yaml --db ledger.db
  token exec --db ledger.db --caller alice transfer bob 400
  token query --db ledger.db balance alice
  token verify --db ledger.db
`)
}
