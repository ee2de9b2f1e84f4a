package token

import "errors"

var (
	// ErrInsufficientBalance reports a debit larger than the source
	// account's current balance.
	ErrInsufficientBalance = errors.New("token: insufficient balance")

	// ErrInsufficientAllowance reports a delegated transfer or allowance
	// decrease larger than the current allowance.
	ErrInsufficientAllowance = errors.New("token: insufficient allowance")

	// ErrZeroSenderAddress and ErrZeroRecipientAddress are part of the
	// error surface for rejecting the null account. No ledger operation
	// currently raises them: the reference contract behavior accepts the
	// null account everywhere, and the ledger matches it.
	ErrZeroSenderAddress    = errors.New("token: zero sender address")
	ErrZeroRecipientAddress = errors.New("token: zero recipient address")

	// ErrInvariantViolated is returned by Ledger.CheckInvariants.
	ErrInvariantViolated = errors.New("token: invariant violated")
)

// CustomError is a reserved extension kind for transfer-hook failures.
type CustomError struct {
	Msg string
}

func (e CustomError) Error() string { return "token: " + e.Msg }

// SafeTransferCheckError is a reserved extension kind reporting a failed
// safe-transfer check on the recipient.
type SafeTransferCheckError struct {
	Msg string
}

func (e SafeTransferCheckError) Error() string {
	return "token: safe transfer check failed: " + e.Msg
}
