package monitoring

import (
	"context"
	"time"

	"github.com/sony/gobreaker"

	"github.com/0xGeorgii/interstellar/internal/model"
	"github.com/0xGeorgii/interstellar/internal/utils/logger"
)

// EscrowAdapter mirrors the adapter capability the resolver consumes so the
// wrapper can be dropped in front of any chain client.
type EscrowAdapter interface {
	Chain() model.Chain
	CreateAndFund(ctx context.Context, params model.EscrowCreateParams) (string, string, error)
	GetFundingStatus(ctx context.Context, escrow *model.Escrow) (*model.FundingStatus, error)
	Unlock(ctx context.Context, escrow *model.Escrow, secret []byte) (string, error)
	Refund(ctx context.Context, escrow *model.Escrow) (string, error)
	Health(ctx context.Context) error
}

type CircuitBreakerConfig struct {
	MaxRequests                 uint32
	Interval                    time.Duration
	Timeout                     time.Duration
	ConsecutiveFailureThreshold int
}

var DefaultCircuitBreakerConfig = CircuitBreakerConfig{
	MaxRequests:                 3,
	Interval:                    time.Minute,
	Timeout:                     30 * time.Second,
	ConsecutiveFailureThreshold: 5,
}

// CircuitBreakerAdapter shields the resolver from a flapping chain so a
// fault on one ledger cannot stall refund progress on the other.
type CircuitBreakerAdapter struct {
	wrapped        EscrowAdapter
	circuitBreaker *gobreaker.CircuitBreaker
	metrics        *SwapMetrics
	logger         *logger.Logger
}

func NewCircuitBreakerAdapter(wrapped EscrowAdapter, config CircuitBreakerConfig, metrics *SwapMetrics, logger *logger.Logger) *CircuitBreakerAdapter {
	chain := wrapped.Chain().String()

	settings := gobreaker.Settings{
		Name:        chain + "_escrow_adapter",
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(config.ConsecutiveFailureThreshold)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state change", map[string]string{
				"service": name,
				"from":    from.String(),
				"to":      to.String(),
			})
			if metrics != nil {
				metrics.UpdateCircuitBreakerState(chain, to)
			}
		},
	}

	return &CircuitBreakerAdapter{
		wrapped:        wrapped,
		circuitBreaker: gobreaker.NewCircuitBreaker(settings),
		metrics:        metrics,
		logger:         logger,
	}
}

func (cb *CircuitBreakerAdapter) Chain() model.Chain {
	return cb.wrapped.Chain()
}

func (cb *CircuitBreakerAdapter) CreateAndFund(ctx context.Context, params model.EscrowCreateParams) (string, string, error) {
	type result struct {
		ref    string
		txHash string
	}

	out, err := cb.execute("create_and_fund", func() (interface{}, error) {
		ref, txHash, err := cb.wrapped.CreateAndFund(ctx, params)
		return result{ref: ref, txHash: txHash}, err
	})
	if err != nil {
		return "", "", err
	}

	res := out.(result)
	return res.ref, res.txHash, nil
}

func (cb *CircuitBreakerAdapter) GetFundingStatus(ctx context.Context, escrow *model.Escrow) (*model.FundingStatus, error) {
	out, err := cb.execute("get_funding_status", func() (interface{}, error) {
		return cb.wrapped.GetFundingStatus(ctx, escrow)
	})
	if err != nil {
		return nil, err
	}
	return out.(*model.FundingStatus), nil
}

func (cb *CircuitBreakerAdapter) Unlock(ctx context.Context, escrow *model.Escrow, secret []byte) (string, error) {
	out, err := cb.execute("unlock", func() (interface{}, error) {
		return cb.wrapped.Unlock(ctx, escrow, secret)
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

func (cb *CircuitBreakerAdapter) Refund(ctx context.Context, escrow *model.Escrow) (string, error) {
	out, err := cb.execute("refund", func() (interface{}, error) {
		return cb.wrapped.Refund(ctx, escrow)
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

func (cb *CircuitBreakerAdapter) Health(ctx context.Context) error {
	_, err := cb.execute("health", func() (interface{}, error) {
		return nil, cb.wrapped.Health(ctx)
	})
	return err
}

func (cb *CircuitBreakerAdapter) execute(operation string, fn func() (interface{}, error)) (interface{}, error) {
	start := time.Now()
	chain := cb.wrapped.Chain().String()

	out, err := cb.circuitBreaker.Execute(fn)

	if cb.metrics != nil {
		cb.metrics.ObserveAdapterCall(chain, operation, time.Since(start).Seconds())
	}

	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return nil, model.Transient(err)
	}
	return out, err
}
