// Package token implements a fungible-token ledger: total supply, per-account
// balances, delegated spending allowances, and the transfer/approval protocol
// over them.
//
// The ledger is the settlement core behind a token-standard interface. Every
// mutating operation either fully succeeds (all writes committed, notifications
// emitted) or fully fails with a typed error and no visible state change.
// Conservation holds after every operation: the total supply equals the sum of
// all balances.
package token

import "fmt"

// Account identifies a party able to hold balance or act as a caller. It is
// opaque to the ledger: only equality and use as a map key are assumed. The
// empty string is the conventional null account; the ledger does not reject
// it (see ErrZeroSenderAddress).
type Account string

// allowanceKey is the composite map key for the (owner, spender) pair.
type allowanceKey struct {
	owner   Account
	spender Account
}

// Metadata carries the display fields fixed at construction. Name and Symbol
// are optional, with the empty string meaning unset. Decimals is purely
// informational and never enforced against amounts.
type Metadata struct {
	Name     string
	Symbol   string
	Decimals uint8
}

// Ledger tracks ownership of a divisible asset across accounts.
//
// Both mappings are sparse: an absent entry means zero, and entries are
// removed when they reach zero. The ledger is single-threaded and not safe
// for concurrent use; callers are serialized by the surrounding environment
// (see the dispatch package).
type Ledger struct {
	totalSupply Amount
	balances    map[Account]Amount
	allowances  map[allowanceKey]Amount
	meta        Metadata
	events      []Event
}

// NewLedger creates a ledger with the entire initial supply credited to
// creator, emitting the corresponding mint-origin Transfer notification.
func NewLedger(creator Account, initialSupply Amount, meta Metadata) *Ledger {
	l := &Ledger{
		totalSupply: initialSupply,
		balances:    make(map[Account]Amount),
		allowances:  make(map[allowanceKey]Amount),
		meta:        meta,
	}
	l.setBalance(creator, initialSupply)
	l.emitTransfer(nil, &creator, initialSupply)
	return l
}

// TotalSupply returns the current total supply.
func (l *Ledger) TotalSupply() Amount { return l.totalSupply }

// BalanceOf returns owner's balance. Absent accounts hold zero.
func (l *Ledger) BalanceOf(owner Account) Amount { return l.balances[owner] }

// Allowance returns how much spender may still withdraw from owner via
// TransferFrom. Absent pairs have zero allowance.
func (l *Ledger) Allowance(owner, spender Account) Amount {
	return l.allowances[allowanceKey{owner, spender}]
}

// Name returns the display name, or "" when unset.
func (l *Ledger) Name() string { return l.meta.Name }

// Symbol returns the display symbol, or "" when unset.
func (l *Ledger) Symbol() string { return l.meta.Symbol }

// Decimals returns the display scale factor.
func (l *Ledger) Decimals() uint8 { return l.meta.Decimals }

// Transfer moves value from caller to to. It fails with
// ErrInsufficientBalance when caller's balance is below value. A
// self-transfer is permitted: it nets to zero but still emits one Transfer
// notification.
func (l *Ledger) Transfer(caller, to Account, value Amount) error {
	return l.move(caller, to, value)
}

// TransferFrom moves value from from to to on behalf of caller, spending
// caller's allowance. The allowance is checked first and decremented only
// after the balance move succeeds, so a move that fails with
// ErrInsufficientBalance leaves the allowance untouched.
func (l *Ledger) TransferFrom(caller, from, to Account, value Amount) error {
	allowed := l.Allowance(from, caller)
	if allowed.Less(value) {
		return ErrInsufficientAllowance
	}
	if err := l.move(from, to, value); err != nil {
		return err
	}
	// Saturating, though the check above already excludes underflow.
	l.setAllowance(from, caller, allowed.Sub(value))
	return nil
}

// Approve overwrites the allowance granted by caller to spender and emits an
// Approval notification. The overwrite (not additive) semantics avoid the
// classic compounding-approvals race; use IncreaseAllowance and
// DecreaseAllowance for relative changes.
func (l *Ledger) Approve(caller, spender Account, value Amount) error {
	l.setAllowance(caller, spender, value)
	l.emit(Approval{Owner: caller, Spender: spender, Value: value})
	return nil
}

// IncreaseAllowance raises the allowance granted to spender by delta,
// saturating at MaxAmount, through the Approve path.
func (l *Ledger) IncreaseAllowance(caller, spender Account, delta Amount) error {
	return l.Approve(caller, spender, l.Allowance(caller, spender).Add(delta))
}

// DecreaseAllowance lowers the allowance granted to spender by delta through
// the Approve path. It fails with ErrInsufficientAllowance when the current
// allowance is below delta.
func (l *Ledger) DecreaseAllowance(caller, spender Account, delta Amount) error {
	allowed := l.Allowance(caller, spender)
	if allowed.Less(delta) {
		return ErrInsufficientAllowance
	}
	return l.Approve(caller, spender, allowed.Sub(delta))
}

// Mint credits value to caller and raises the total supply by the same
// amount, both saturating at MaxAmount. Any caller may mint; gating mint
// behind an access-control capability is left to the host.
func (l *Ledger) Mint(caller Account, value Amount) error {
	l.setBalance(caller, l.BalanceOf(caller).Add(value))
	l.totalSupply = l.totalSupply.Add(value)
	l.emitTransfer(nil, &caller, value)
	return nil
}

// Burn debits value from caller and lowers the total supply by the same
// amount. It fails with ErrInsufficientBalance when caller's balance is
// below value.
func (l *Ledger) Burn(caller Account, value Amount) error {
	balance := l.BalanceOf(caller)
	if balance.Less(value) {
		return ErrInsufficientBalance
	}
	l.setBalance(caller, balance.Sub(value))
	l.totalSupply = l.totalSupply.Sub(value)
	l.emitTransfer(&caller, nil, value)
	return nil
}

// DrainEvents returns the notifications emitted since the last drain and
// clears the queue. Failed operations contribute nothing.
func (l *Ledger) DrainEvents() []Event {
	evs := l.events
	l.events = nil
	return evs
}

// CheckInvariants verifies that the total supply equals the sum of all
// balances and that no zero-valued balance or allowance entry is
// materialized. It is never called implicitly; tests and hosts run it as a
// consistency audit.
func (l *Ledger) CheckInvariants() error {
	var sum Amount
	for acct, bal := range l.balances {
		if bal.IsZero() {
			return fmt.Errorf("%w: zero balance entry for %q", ErrInvariantViolated, string(acct))
		}
		next, overflow := sum.addOverflow(bal)
		if overflow {
			return fmt.Errorf("%w: balance sum overflows", ErrInvariantViolated)
		}
		sum = next
	}
	if sum.Cmp(l.totalSupply) != 0 {
		return fmt.Errorf("%w: balances sum to %s, total supply is %s",
			ErrInvariantViolated, sum, l.totalSupply)
	}
	for k, v := range l.allowances {
		if v.IsZero() {
			return fmt.Errorf("%w: zero allowance entry for %q -> %q",
				ErrInvariantViolated, string(k.owner), string(k.spender))
		}
	}
	return nil
}

// move is the balance-check-and-move shared by Transfer and TransferFrom.
// The recipient balance is read after the debit so a self-transfer sees the
// debited value and nets to zero.
func (l *Ledger) move(from, to Account, value Amount) error {
	fromBalance := l.BalanceOf(from)
	if fromBalance.Less(value) {
		return ErrInsufficientBalance
	}
	l.setBalance(from, fromBalance.Sub(value))
	l.setBalance(to, l.BalanceOf(to).Add(value))
	l.emitTransfer(&from, &to, value)
	return nil
}

// setBalance writes a balance, dropping the entry when it reaches zero so
// the mapping stays sparse.
func (l *Ledger) setBalance(a Account, v Amount) {
	if v.IsZero() {
		delete(l.balances, a)
		return
	}
	l.balances[a] = v
}

// setAllowance writes an allowance, dropping the entry when it reaches zero.
func (l *Ledger) setAllowance(owner, spender Account, v Amount) {
	k := allowanceKey{owner, spender}
	if v.IsZero() {
		delete(l.allowances, k)
		return
	}
	l.allowances[k] = v
}

func (l *Ledger) emitTransfer(from, to *Account, value Amount) {
	l.events = append(l.events, Transfer{From: from, To: to, Value: value})
}

func (l *Ledger) emit(e Event) {
	l.events = append(l.events, e)
}
