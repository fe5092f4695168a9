package resolver

import (
	"context"

	"github.com/0xGeorgii/interstellar/internal/model"
)

// IEscrowAdapter is the per-chain capability the resolver drives. All
// operations are opaque, retryable and eventually consistent; transient
// faults are reported as model.TransientError.
type IEscrowAdapter interface {
	Chain() model.Chain
	CreateAndFund(ctx context.Context, params model.EscrowCreateParams) (ref string, txHash string, err error)
	GetFundingStatus(ctx context.Context, escrow *model.Escrow) (*model.FundingStatus, error)
	Unlock(ctx context.Context, escrow *model.Escrow, secret []byte) (txHash string, err error)
	Refund(ctx context.Context, escrow *model.Escrow) (txHash string, err error)
	Health(ctx context.Context) error
}

type IResolver interface {
	OpenEscrows(ctx context.Context, order *model.Order) error
	PollEscrowStatus(ctx context.Context, orderID string) (model.OrderState, error)
	RevealSecret(ctx context.Context, orderID, secret string) (model.OrderState, error)
	Refund(ctx context.Context, orderID string) error
	Tick()
	Health(ctx context.Context) map[string]error
}
