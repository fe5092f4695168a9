package model

import (
	"time"

	"gorm.io/gorm"
)

type OrderState string

const (
	OrderStateCreated        OrderState = "created"
	OrderStateEscrowsPending OrderState = "escrows_pending"
	OrderStateEscrowsReady   OrderState = "escrows_ready"
	OrderStateSecretReceived OrderState = "secret_received"
	OrderStateFilled         OrderState = "filled"
	OrderStateExpired        OrderState = "expired"
	OrderStateRefunded       OrderState = "refunded"
	OrderStateRejected       OrderState = "rejected"
)

func (s OrderState) Terminal() bool {
	switch s {
	case OrderStateFilled, OrderStateRefunded, OrderStateRejected:
		return true
	default:
		return false
	}
}

var transitions = map[OrderState][]OrderState{
	OrderStateCreated:        {OrderStateEscrowsPending, OrderStateRejected},
	OrderStateEscrowsPending: {OrderStateEscrowsReady, OrderStateExpired},
	OrderStateEscrowsReady:   {OrderStateSecretReceived, OrderStateExpired},
	OrderStateSecretReceived: {OrderStateFilled},
	OrderStateExpired:        {OrderStateRefunded},
}

// CanTransition reports whether from -> to is a legal lifecycle edge.
// Terminal states have no outgoing edges.
func CanTransition(from, to OrderState) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// OrderRecord is the durable per-order state: the accepted order payload plus
// everything the resolver needs to resume escrow tracking after a restart.
type OrderRecord struct {
	gorm.Model
	OrderID       string     `gorm:"column:order_id;type:varchar(66);not null;uniqueIndex"`
	Payload       string     `gorm:"column:payload;type:text;not null"`
	SignerAddress string     `gorm:"column:signer_address;type:varchar(255);not null"`
	SrcChain      Chain      `gorm:"column:src_chain;not null"`
	DstChain      Chain      `gorm:"column:dst_chain;not null"`
	MakeAmount    string     `gorm:"column:make_amount;type:varchar(255);not null"`
	TakeAmount    string     `gorm:"column:take_amount;type:varchar(255);not null"`
	HashLock      string     `gorm:"column:hash_lock;type:varchar(66);not null"`
	Secret        *string    `gorm:"column:secret;type:varchar(66)"`
	State         OrderState `gorm:"column:state;type:varchar(50);not null;default:'created'"`
	SrcTimelock   *time.Time `gorm:"column:src_timelock"`
	DstTimelock   *time.Time `gorm:"column:dst_timelock"`
	RejectReason  string     `gorm:"column:reject_reason;type:text"`
}

func (OrderRecord) TableName() string {
	return "order_records"
}

// Expiry returns the earliest timelock of the pair; past this point the
// order can no longer be filled and must drain through Expired -> Refunded.
func (r *OrderRecord) Expiry() *time.Time {
	if r.DstTimelock != nil {
		return r.DstTimelock
	}
	return r.SrcTimelock
}
