package transfer

import "errors"

// Service errors
var (
	ErrTransferNotFound    = errors.New("transfer not found")
	ErrInvalidCounterparty = errors.New("sender and recipient must be different users")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrNotPending          = errors.New("transfer is not pending")
	ErrUnauthorized        = errors.New("only the debited account holder may decide this transfer")
	ErrInvalidDecision     = errors.New("decision must be approve or reject")
	ErrStoreUnavailable    = errors.New("transfer store unavailable")

	// ErrSettlementIncomplete reports a committed debit whose matching
	// credit failed. The ledger is left short until the identifiers
	// logged alongside it are manually reconciled; the engine never
	// compensates on its own.
	ErrSettlementIncomplete = errors.New("settlement incomplete: debit committed but credit failed")
)
