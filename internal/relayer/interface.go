package relayer

import (
	"context"

	"github.com/0xGeorgii/interstellar/internal/model"
)

// IRelayer is the order intake surface: it verifies maker signatures,
// persists accepted orders and hands them to the resolver.
type IRelayer interface {
	SubmitOrder(ctx context.Context, order *model.Order) (string, error)
	GetStatus(ctx context.Context, orderID string) (model.OrderState, error)
	SubmitSecret(ctx context.Context, orderID, secret string) (model.OrderState, error)
}
