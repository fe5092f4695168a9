package soroban

import "context"

type IClient interface {
	GetHealth(ctx context.Context) error
	GetLatestLedger(ctx context.Context) (*LatestLedger, error)
	SimulateTransaction(ctx context.Context, txBase64 string) (*SimulateResult, error)
	SendTransaction(ctx context.Context, txBase64 string) (*SendResult, error)
	GetTransaction(ctx context.Context, hash string) (*TransactionResult, error)
}
