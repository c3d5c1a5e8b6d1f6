package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transfer types
const (
	TransferTypeSend    = "SEND"
	TransferTypeRequest = "REQUEST"
)

// Transfer statuses. APPROVED and REJECTED are terminal; a transfer
// never leaves either state.
const (
	TransferStatusPending  = "PENDING"
	TransferStatusApproved = "APPROVED"
	TransferStatusRejected = "REJECTED"
)

// Transfer records a movement of funds between two distinct accounts.
// The primary key doubles as the system-wide transfer sequence: ids are
// assigned by the database and are strictly increasing in creation order.
type Transfer struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	Reference     string          `gorm:"uniqueIndex;not null" json:"reference"`
	Type          string          `gorm:"not null" json:"type"`
	Status        string          `gorm:"not null;default:'PENDING'" json:"status"`
	FromAccountID uint            `gorm:"not null;index" json:"from_account_id"`
	ToAccountID   uint            `gorm:"not null;index" json:"to_account_id"`
	Amount        decimal.Decimal `gorm:"type:numeric(19,4);not null" json:"amount"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"-"`
}

// Terminal reports whether the transfer can no longer change state.
func (t *Transfer) Terminal() bool {
	return t.Status == TransferStatusApproved || t.Status == TransferStatusRejected
}
