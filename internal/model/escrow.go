package model

import (
	"time"

	"gorm.io/gorm"
)

type EscrowSide string

const (
	EscrowSideSrc EscrowSide = "src"
	EscrowSideDst EscrowSide = "dst"
)

type EscrowStatus string

const (
	EscrowStatusCreated  EscrowStatus = "created"
	EscrowStatusFunded   EscrowStatus = "funded"
	EscrowStatusUnlocked EscrowStatus = "unlocked"
	EscrowStatusRefunded EscrowStatus = "refunded"
)

// Escrow tracks one side of an order's HTLC pair. Ref is the chain-specific
// handle (contract address on Ethereum, contract instance ID on Stellar).
type Escrow struct {
	gorm.Model
	OrderID       string       `gorm:"column:order_id;type:varchar(66);not null;uniqueIndex:idx_escrow_order_side,priority:1"`
	Side          EscrowSide   `gorm:"column:side;type:varchar(10);not null;uniqueIndex:idx_escrow_order_side,priority:2"`
	Chain         Chain        `gorm:"column:chain;not null"`
	Ref           string       `gorm:"column:ref;type:varchar(255)"`
	HashLock      string       `gorm:"column:hash_lock;type:varchar(66);not null"`
	TimeLock      time.Time    `gorm:"column:time_lock;not null"`
	Amount        string       `gorm:"column:amount;type:varchar(255);not null"`
	FundedAmount  string       `gorm:"column:funded_amount;type:varchar(255);default:'0'"`
	Status        EscrowStatus `gorm:"column:status;type:varchar(50);not null;default:'created'"`
	FundTxHash    string       `gorm:"column:fund_tx_hash;type:varchar(255)"`
	UnlockTxHash  string       `gorm:"column:unlock_tx_hash;type:varchar(255)"`
	RefundTxHash  string       `gorm:"column:refund_tx_hash;type:varchar(255)"`
	Confirmations uint64       `gorm:"column:confirmations;default:0"`
}

func (Escrow) TableName() string {
	return "escrows"
}

// FundingStatus is the eventually-consistent view an escrow adapter reports.
type FundingStatus struct {
	Confirmed     bool
	Confirmations uint64
	Amount        string
}
