package monitoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xGeorgii/interstellar/internal/model"
	"github.com/0xGeorgii/interstellar/internal/types/environments"
	"github.com/0xGeorgii/interstellar/internal/utils/logger"
)

type stubAdapter struct {
	chain model.Chain
	err   error
	calls int
}

func (s *stubAdapter) Chain() model.Chain { return s.chain }

func (s *stubAdapter) CreateAndFund(context.Context, model.EscrowCreateParams) (string, string, error) {
	s.calls++
	return "ref", "0xtx", s.err
}

func (s *stubAdapter) GetFundingStatus(context.Context, *model.Escrow) (*model.FundingStatus, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &model.FundingStatus{Confirmed: true, Amount: "100"}, nil
}

func (s *stubAdapter) Unlock(context.Context, *model.Escrow, []byte) (string, error) {
	s.calls++
	return "0xunlock", s.err
}

func (s *stubAdapter) Refund(context.Context, *model.Escrow) (string, error) {
	s.calls++
	return "0xrefund", s.err
}

func (s *stubAdapter) Health(context.Context) error {
	s.calls++
	return s.err
}

func newTestBreaker(stub *stubAdapter) *CircuitBreakerAdapter {
	cfg := CircuitBreakerConfig{
		MaxRequests:                 1,
		Interval:                    time.Minute,
		Timeout:                     time.Minute,
		ConsecutiveFailureThreshold: 3,
	}
	return NewCircuitBreakerAdapter(stub, cfg, nil, logger.New(environments.Test))
}

func TestCircuitBreakerPassesThroughSuccess(t *testing.T) {
	stub := &stubAdapter{chain: model.ChainEthereum}
	cb := newTestBreaker(stub)

	status, err := cb.GetFundingStatus(context.Background(), &model.Escrow{})
	require.NoError(t, err)
	assert.True(t, status.Confirmed)
	assert.Equal(t, model.ChainEthereum, cb.Chain())
}

func TestCircuitBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	stub := &stubAdapter{chain: model.ChainStellar, err: errors.New("rpc down")}
	cb := newTestBreaker(stub)

	for i := 0; i < 3; i++ {
		err := cb.Health(context.Background())
		require.Error(t, err)
		assert.False(t, model.IsTransient(err))
	}

	// the breaker is open now; calls fail fast without reaching the adapter
	before := stub.calls
	err := cb.Health(context.Background())
	require.Error(t, err)
	assert.True(t, model.IsTransient(err))
	assert.Equal(t, before, stub.calls)
}

func TestCircuitBreakerRecovers(t *testing.T) {
	stub := &stubAdapter{chain: model.ChainEthereum, err: errors.New("rpc down")}

	cfg := CircuitBreakerConfig{
		MaxRequests:                 1,
		Interval:                    time.Minute,
		Timeout:                     10 * time.Millisecond,
		ConsecutiveFailureThreshold: 2,
	}
	cb := NewCircuitBreakerAdapter(stub, cfg, nil, logger.New(environments.Test))

	for i := 0; i < 2; i++ {
		require.Error(t, cb.Health(context.Background()))
	}
	require.True(t, model.IsTransient(cb.Health(context.Background())))

	// after the timeout the breaker half-opens and a success closes it
	stub.err = nil
	time.Sleep(20 * time.Millisecond)
	assert.NoError(t, cb.Health(context.Background()))
	assert.NoError(t, cb.Health(context.Background()))
}
