package dispatch_test

import (
	"context"
	"errors"
	"testing"

	"github.com/pflow-xyz/go-token/dispatch"
	"github.com/pflow-xyz/go-token/token"
	"github.com/pflow-xyz/go-token/token/journal"
)

// recordingObserver collects everything it is notified of.
type recordingObserver struct {
	transfers []token.Transfer
	approvals []token.Approval
}

func (r *recordingObserver) ObserveTransfer(ev token.Transfer) { r.transfers = append(r.transfers, ev) }
func (r *recordingObserver) ObserveApproval(ev token.Approval) { r.approvals = append(r.approvals, ev) }

func newDispatcher(t *testing.T, supply uint64, opts ...dispatch.Option) *dispatch.Dispatcher {
	t.Helper()
	l := token.NewLedger("creator", token.NewAmount(supply), token.Metadata{Name: "MyToken", Symbol: "MTK", Decimals: 18})
	l.DrainEvents()
	return dispatch.New(l, opts...)
}

func TestCallQueries(t *testing.T) {
	d := newDispatcher(t, 1000)
	ctx := context.Background()

	res, err := d.Call(ctx, "anyone", dispatch.OpTotalSupply, dispatch.Args{})
	if err != nil {
		t.Fatalf("total_supply failed: %v", err)
	}
	if res.Amount.Cmp(token.NewAmount(1000)) != 0 {
		t.Errorf("total_supply = %s, want 1000", res.Amount)
	}
	if res.CallID == "" {
		t.Error("calls should be assigned an id")
	}
	if res.Version != -1 {
		t.Errorf("query version = %d, want -1", res.Version)
	}

	res, err = d.Call(ctx, "anyone", dispatch.OpBalanceOf, dispatch.Args{Owner: "creator"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Amount.Cmp(token.NewAmount(1000)) != 0 {
		t.Errorf("balance_of(creator) = %s, want 1000", res.Amount)
	}

	res, err = d.Call(ctx, "anyone", dispatch.OpTokenName, dispatch.Args{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Text != "MyToken" {
		t.Errorf("token_name = %q", res.Text)
	}

	res, err = d.Call(ctx, "anyone", dispatch.OpTokenDecimals, dispatch.Args{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Decimals != 18 {
		t.Errorf("token_decimals = %d", res.Decimals)
	}
}

func TestCallTransfer(t *testing.T) {
	obs := &recordingObserver{}
	d := newDispatcher(t, 1000, dispatch.WithObserver(obs))
	ctx := context.Background()

	res, err := d.Call(ctx, "creator", journal.OpTransfer, dispatch.Args{To: "alice", Value: token.NewAmount(400)})
	if err != nil {
		t.Fatalf("transfer failed: %v", err)
	}
	if len(res.Events) != 1 {
		t.Fatalf("transfer returned %d events, want 1", len(res.Events))
	}
	if len(obs.transfers) != 1 {
		t.Fatalf("observer saw %d transfers, want 1", len(obs.transfers))
	}
	if *obs.transfers[0].From != "creator" || *obs.transfers[0].To != "alice" {
		t.Errorf("observed transfer endpoints wrong: %+v", obs.transfers[0])
	}

	res, err = d.Call(ctx, "anyone", dispatch.OpBalanceOf, dispatch.Args{Owner: "alice"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Amount.Cmp(token.NewAmount(400)) != 0 {
		t.Errorf("balance_of(alice) = %s, want 400", res.Amount)
	}
}

func TestCallFailurePropagatesAndNotifiesNobody(t *testing.T) {
	obs := &recordingObserver{}
	d := newDispatcher(t, 100, dispatch.WithObserver(obs))

	_, err := d.Call(context.Background(), "creator", journal.OpTransfer,
		dispatch.Args{To: "alice", Value: token.NewAmount(500)})
	if !errors.Is(err, token.ErrInsufficientBalance) {
		t.Fatalf("err = %v, want ErrInsufficientBalance", err)
	}
	if len(obs.transfers) != 0 || len(obs.approvals) != 0 {
		t.Error("failed call must not notify observers")
	}
}

func TestCallApprovalObserved(t *testing.T) {
	obs := &recordingObserver{}
	d := newDispatcher(t, 100, dispatch.WithObserver(obs))

	_, err := d.Call(context.Background(), "creator", journal.OpApprove,
		dispatch.Args{Spender: "bob", Value: token.NewAmount(25)})
	if err != nil {
		t.Fatal(err)
	}
	if len(obs.approvals) != 1 {
		t.Fatalf("observer saw %d approvals, want 1", len(obs.approvals))
	}
	if obs.approvals[0].Owner != "creator" || obs.approvals[0].Spender != "bob" {
		t.Errorf("observed approval endpoints wrong: %+v", obs.approvals[0])
	}
}

func TestCallUnknownOperation(t *testing.T) {
	d := newDispatcher(t, 100)

	_, err := d.Call(context.Background(), "creator", "selfdestruct", dispatch.Args{})
	if !errors.Is(err, dispatch.ErrUnknownOperation) {
		t.Fatalf("err = %v, want ErrUnknownOperation", err)
	}
}

func TestJournaledCalls(t *testing.T) {
	ctx := context.Background()
	store := journal.NewMemoryStore()
	defer store.Close()

	meta := token.Metadata{Symbol: "MTK"}
	init := journal.InitRecord("creator", token.NewAmount(1000), meta)
	version, err := store.Append(ctx, "ledger", -1, []journal.Record{init})
	if err != nil {
		t.Fatal(err)
	}

	l := token.NewLedger("creator", token.NewAmount(1000), meta)
	l.DrainEvents()
	d := dispatch.New(l, dispatch.WithJournal(store, "ledger", version))

	res, err := d.Call(ctx, "creator", journal.OpTransfer, dispatch.Args{To: "alice", Value: token.NewAmount(400)})
	if err != nil {
		t.Fatal(err)
	}
	if res.Version != 1 {
		t.Errorf("first journaled call version = %d, want 1", res.Version)
	}
	res, err = d.Call(ctx, "alice", journal.OpApprove, dispatch.Args{Spender: "bob", Value: token.NewAmount(50)})
	if err != nil {
		t.Fatal(err)
	}
	if res.Version != 2 {
		t.Errorf("second journaled call version = %d, want 2", res.Version)
	}

	// Failed calls leave the journal untouched.
	if _, err := d.Call(ctx, "creator", journal.OpBurn, dispatch.Args{Value: token.NewAmount(9999)}); err == nil {
		t.Fatal("expected burn to fail")
	}
	if d.Version() != 2 {
		t.Errorf("journal head moved on failed call: %d", d.Version())
	}

	// The journaled stream replays to the same state.
	replayed, version, err := journal.Replay(ctx, store, "ledger")
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if version != 2 {
		t.Errorf("replay version = %d, want 2", version)
	}
	if replayed.BalanceOf("alice").Cmp(l.BalanceOf("alice")) != 0 {
		t.Error("replayed balance diverges from live ledger")
	}
	if replayed.Allowance("alice", "bob").Cmp(l.Allowance("alice", "bob")) != 0 {
		t.Error("replayed allowance diverges from live ledger")
	}
	if err := replayed.CheckInvariants(); err != nil {
		t.Errorf("invariants violated after replay: %v", err)
	}
}
