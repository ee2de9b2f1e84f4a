package token

// Event is a change notification emitted by a mutating ledger operation.
// Events accumulate on the ledger during each call and are collected with
// DrainEvents; dispatching them to observers is the host's job, not the
// ledger's.
type Event interface {
	event()
}

// Transfer reports a balance movement. A nil From marks tokens minted into
// existence; a nil To marks tokens burned out of existence.
type Transfer struct {
	From  *Account
	To    *Account
	Value Amount
}

func (Transfer) event() {}

// Approval reports an allowance overwrite.
type Approval struct {
	Owner   Account
	Spender Account
	Value   Amount
}

func (Approval) event() {}
