package model

import "time"

// EscrowCreateParams is everything an escrow adapter needs to create and
// fund one side of the HTLC pair. CancellationStart is the escrow's time
// lock; WithdrawalStart gates how early a secret-reveal unlock may land.
type EscrowCreateParams struct {
	OrderID           string
	Side              EscrowSide
	HashLock          string
	Amount            *Amount
	WithdrawalStart   time.Time
	CancellationStart time.Time
	SafetyDeposit     string
}
