// Package dispatch is the host-call boundary around a ledger. It routes the
// stable snake_case operation names of the token-standard surface, together
// with the authenticated caller identity supplied by the environment, into
// ledger methods; fans the emitted notifications out to observers; and
// appends every successful mutating call to an optional journal stream.
//
// The dispatcher serializes calls with a mutex so the ledger itself can stay
// single-threaded, matching its one-call-at-a-time execution model.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pflow-xyz/go-token/token"
	"github.com/pflow-xyz/go-token/token/journal"
)

// Query operation names. The mutating names are the journal.Op constants;
// queries are never journaled, so they live here.
const (
	OpTotalSupply   = "total_supply"
	OpBalanceOf     = "balance_of"
	OpAllowance     = "allowance"
	OpTokenName     = "token_name"
	OpTokenSymbol   = "token_symbol"
	OpTokenDecimals = "token_decimals"
)

// ErrUnknownOperation reports a call naming no known operation.
var ErrUnknownOperation = errors.New("dispatch: unknown operation")

// Args carries the operation-specific arguments of a call. Only the fields
// the routed operation reads are consulted; the rest are ignored.
type Args struct {
	Owner   token.Account // balance_of, allowance
	From    token.Account // transfer_from source
	To      token.Account // transfer, transfer_from recipient
	Spender token.Account // allowance, approve, increase/decrease_allowance
	Value   token.Amount  // every mutating operation
}

// Result is the outcome of a successful call.
type Result struct {
	// CallID uniquely identifies this call.
	CallID string

	// Amount is set for total_supply, balance_of and allowance.
	Amount token.Amount

	// Text is set for token_name and token_symbol.
	Text string

	// Decimals is set for token_decimals.
	Decimals uint8

	// Events are the notifications emitted by a mutating call, in emission
	// order. Queries emit none.
	Events []token.Event

	// Version is the journal version assigned to a journaled mutating
	// call, or -1 for queries and unjournaled dispatchers.
	Version int64
}

// Observer receives the notifications of successful mutating calls.
type Observer interface {
	ObserveTransfer(token.Transfer)
	ObserveApproval(token.Approval)
}

// Dispatcher wraps one ledger. Configure it with New and the With options.
type Dispatcher struct {
	mu        sync.Mutex
	ledger    *token.Ledger
	store     journal.Store
	stream    string
	version   int64
	observers []Observer
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithJournal appends every successful mutating call to stream on store.
// version must be the stream's current head version: the init record's
// version for a fresh stream, or the version returned by journal.Replay.
func WithJournal(store journal.Store, stream string, version int64) Option {
	return func(d *Dispatcher) {
		d.store = store
		d.stream = stream
		d.version = version
	}
}

// WithObserver registers an observer for change notifications.
func WithObserver(o Observer) Option {
	return func(d *Dispatcher) {
		d.observers = append(d.observers, o)
	}
}

// New creates a dispatcher around l.
func New(l *token.Ledger, opts ...Option) *Dispatcher {
	d := &Dispatcher{ledger: l, version: -1}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Call routes one named operation into the ledger on behalf of caller. The
// caller identity is trusted as already authenticated. Mutating calls are
// atomic: on error the ledger is unchanged, nothing is journaled and no
// observer is notified.
func (d *Dispatcher) Call(ctx context.Context, caller token.Account, op string, args Args) (Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	res := Result{CallID: uuid.New().String(), Version: -1}

	switch op {
	case OpTotalSupply:
		res.Amount = d.ledger.TotalSupply()
		return res, nil
	case OpBalanceOf:
		res.Amount = d.ledger.BalanceOf(args.Owner)
		return res, nil
	case OpAllowance:
		res.Amount = d.ledger.Allowance(args.Owner, args.Spender)
		return res, nil
	case OpTokenName:
		res.Text = d.ledger.Name()
		return res, nil
	case OpTokenSymbol:
		res.Text = d.ledger.Symbol()
		return res, nil
	case OpTokenDecimals:
		res.Decimals = d.ledger.Decimals()
		return res, nil
	}

	rec, err := record(caller, op, args)
	if err != nil {
		return Result{}, err
	}
	if err := journal.Apply(d.ledger, rec); err != nil {
		return Result{}, err
	}
	if d.store != nil {
		// Appended after the apply: a failed append surfaces as an error
		// with the in-memory state one call ahead of the log.
		version, err := d.store.Append(ctx, d.stream, d.version, []journal.Record{rec})
		if err != nil {
			return Result{}, fmt.Errorf("dispatch: journaling %s: %w", op, err)
		}
		d.version = version
		res.Version = version
	}
	res.Events = d.ledger.DrainEvents()
	d.notify(res.Events)
	return res, nil
}

// Version returns the journal version of the last journaled call.
func (d *Dispatcher) Version() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.version
}

// record builds the journal record for a mutating operation.
func record(caller token.Account, op string, args Args) (journal.Record, error) {
	rec := journal.Record{
		Op:     op,
		Caller: string(caller),
		Value:  args.Value.String(),
		Time:   time.Now().UTC(),
	}
	switch op {
	case journal.OpTransfer:
		rec.To = string(args.To)
	case journal.OpTransferFrom:
		rec.From = string(args.From)
		rec.To = string(args.To)
	case journal.OpApprove, journal.OpIncreaseAllowance, journal.OpDecreaseAllowance:
		rec.Spender = string(args.Spender)
	case journal.OpMint, journal.OpBurn:
	default:
		return journal.Record{}, fmt.Errorf("%w: %q", ErrUnknownOperation, op)
	}
	return rec, nil
}

func (d *Dispatcher) notify(events []token.Event) {
	for _, ev := range events {
		for _, o := range d.observers {
			switch e := ev.(type) {
			case token.Transfer:
				o.ObserveTransfer(e)
			case token.Approval:
				o.ObserveApproval(e)
			}
		}
	}
}
