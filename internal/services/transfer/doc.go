/*
Package transfer implements the transfer engine: the state machine that
moves funds between two accounts.

A SEND settles immediately and is recorded as APPROVED. A REQUEST is
recorded as PENDING with the party being asked to pay as the source; only
that party may approve or reject it, and both outcomes are terminal.

Settlement is debit-then-credit. The debit commits before the credit is
attempted, and for an approval the debit commits atomically with the
PENDING -> APPROVED flip so a transfer can settle at most once. A credit
that fails after a committed debit is surfaced as ErrSettlementIncomplete
and logged with a RECONCILE prefix for manual repair; the engine does not
compensate automatically.

Error handling:

	ErrTransferNotFound     unknown transfer id, or not visible to the caller
	ErrInvalidCounterparty  source and destination are the same user
	ErrInvalidAmount        amount is zero or negative
	ErrInsufficientFunds    debit would drive the balance negative
	ErrNotPending           decision on an already-terminal transfer
	ErrUnauthorized         decision by someone other than the payer
	ErrSettlementIncomplete committed debit, failed credit
*/
package transfer
