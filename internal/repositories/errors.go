package repositories

import "errors"

// Repository errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrAccountNotFound    = errors.New("account not found")
	ErrTransferNotFound   = errors.New("transfer not found")
	ErrTransferNotPending = errors.New("transfer is not pending")
	ErrInsufficientFunds  = errors.New("insufficient funds")

	// ErrStoreUnavailable wraps driver and connection failures so
	// callers can tell a broken store apart from a business refusal.
	ErrStoreUnavailable = errors.New("store unavailable")
)
