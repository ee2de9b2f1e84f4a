// Package journal persists a ledger as an append-only log of its mutating
// operations. Each stream starts with one construction record followed by
// one record per successful call; replaying the stream re-executes the
// operations and rebuilds the ledger deterministically.
//
// The log records operations rather than the notifications they emit:
// notifications alone cannot reconstruct allowance state, because a
// delegated transfer decrements an allowance without emitting an Approval.
package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pflow-xyz/go-token/token"
)

// Operation names stored in records. These are the stable snake_case names
// of the token-standard surface; the dispatch package routes the same names.
const (
	OpInit              = "init"
	OpTransfer          = "transfer"
	OpTransferFrom      = "transfer_from"
	OpApprove           = "approve"
	OpIncreaseAllowance = "increase_allowance"
	OpDecreaseAllowance = "decrease_allowance"
	OpMint              = "mint"
	OpBurn              = "burn"
)

var (
	// ErrVersionConflict reports an Append whose expected version no longer
	// matches the stream head.
	ErrVersionConflict = errors.New("journal: version conflict")

	// ErrUnknownOp reports a record naming no known operation.
	ErrUnknownOp = errors.New("journal: unknown operation")

	// ErrEmptyStream reports a Replay of a stream with no records.
	ErrEmptyStream = errors.New("journal: empty stream")
)

// Record is one logged operation. Amounts are stored as base-10 strings so
// the full 256-bit range survives JSON. Which account fields are set
// depends on Op; unused fields stay empty and are omitted from the
// encoding.
type Record struct {
	Version int64  `json:"version"`
	Op      string `json:"op"`
	Caller  string `json:"caller"`
	From    string `json:"from,omitempty"`
	To      string `json:"to,omitempty"`
	Spender string `json:"spender,omitempty"`
	Value   string `json:"value"`

	// Construction fields, set only on OpInit records.
	Name     string `json:"name,omitempty"`
	Symbol   string `json:"symbol,omitempty"`
	Decimals uint8  `json:"decimals,omitempty"`

	Time time.Time `json:"time"`
}

// Store is an append-only record log with optimistic concurrency.
type Store interface {
	// Append atomically appends records to a stream. expectedVersion is the
	// version of the last record already in the stream, or -1 for a new
	// stream; on mismatch Append fails with ErrVersionConflict and writes
	// nothing. It assigns consecutive versions to the appended records and
	// returns the last one.
	Append(ctx context.Context, stream string, expectedVersion int64, recs []Record) (int64, error)

	// Read returns the records of a stream with version >= from, in
	// version order. A missing stream reads as empty.
	Read(ctx context.Context, stream string, from int64) ([]Record, error)

	// Close releases the store's resources.
	Close() error
}

// InitRecord builds the construction record opening a new stream.
func InitRecord(creator token.Account, initialSupply token.Amount, meta token.Metadata) Record {
	return Record{
		Op:       OpInit,
		Caller:   string(creator),
		Value:    initialSupply.String(),
		Name:     meta.Name,
		Symbol:   meta.Symbol,
		Decimals: meta.Decimals,
		Time:     time.Now().UTC(),
	}
}

// Apply re-executes a mutating operation record against the ledger. OpInit
// records construct ledgers and are handled by Replay, not Apply.
func Apply(l *token.Ledger, r Record) error {
	value, err := token.ParseAmount(r.Value)
	if err != nil {
		return err
	}
	caller := token.Account(r.Caller)

	switch r.Op {
	case OpTransfer:
		return l.Transfer(caller, token.Account(r.To), value)
	case OpTransferFrom:
		return l.TransferFrom(caller, token.Account(r.From), token.Account(r.To), value)
	case OpApprove:
		return l.Approve(caller, token.Account(r.Spender), value)
	case OpIncreaseAllowance:
		return l.IncreaseAllowance(caller, token.Account(r.Spender), value)
	case OpDecreaseAllowance:
		return l.DecreaseAllowance(caller, token.Account(r.Spender), value)
	case OpMint:
		return l.Mint(caller, value)
	case OpBurn:
		return l.Burn(caller, value)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOp, r.Op)
	}
}

// Replay rebuilds a ledger by re-executing every record of a stream. It
// returns the ledger and the version of the last applied record. A record
// that fails to re-apply marks a corrupt stream and aborts the replay.
func Replay(ctx context.Context, store Store, stream string) (*token.Ledger, int64, error) {
	recs, err := store.Read(ctx, stream, 0)
	if err != nil {
		return nil, 0, err
	}
	if len(recs) == 0 {
		return nil, 0, fmt.Errorf("%w: %q", ErrEmptyStream, stream)
	}

	first := recs[0]
	if first.Op != OpInit {
		return nil, 0, fmt.Errorf("journal: stream %q starts with %q, want %q", stream, first.Op, OpInit)
	}
	supply, err := token.ParseAmount(first.Value)
	if err != nil {
		return nil, 0, fmt.Errorf("journal: record %d: %w", first.Version, err)
	}
	l := token.NewLedger(token.Account(first.Caller), supply, token.Metadata{
		Name:     first.Name,
		Symbol:   first.Symbol,
		Decimals: first.Decimals,
	})
	l.DrainEvents()

	version := first.Version
	for _, r := range recs[1:] {
		if err := Apply(l, r); err != nil {
			return nil, 0, fmt.Errorf("journal: replaying record %d (%s): %w", r.Version, r.Op, err)
		}
		l.DrainEvents()
		version = r.Version
	}
	return l, version, nil
}
