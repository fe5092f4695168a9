package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xGeorgii/interstellar/internal/model"
	"github.com/0xGeorgii/interstellar/internal/types/environments"
	"github.com/0xGeorgii/interstellar/internal/utils/config"
	"github.com/0xGeorgii/interstellar/internal/utils/logger"
)

type fakeAdapter struct {
	chain     model.Chain
	healthErr error
}

func (f *fakeAdapter) Chain() model.Chain { return f.chain }

func (f *fakeAdapter) CreateAndFund(context.Context, model.EscrowCreateParams) (string, string, error) {
	return "", "", nil
}

func (f *fakeAdapter) GetFundingStatus(context.Context, *model.Escrow) (*model.FundingStatus, error) {
	return nil, nil
}

func (f *fakeAdapter) Unlock(context.Context, *model.Escrow, []byte) (string, error) {
	return "", nil
}

func (f *fakeAdapter) Refund(context.Context, *model.Escrow) (string, error) {
	return "", nil
}

func (f *fakeAdapter) Health(context.Context) error { return f.healthErr }

func newTestHandler(adapters ...*fakeAdapter) IHealthHandler {
	gin.SetMode(gin.TestMode)

	cfg := &config.AppConfig{Environment: environments.Test}
	log := logger.New(cfg.Environment)

	h := &HealthHandler{
		config: cfg,
		logger: log,
	}
	for _, a := range adapters {
		h.adapters = append(h.adapters, a)
	}
	return h
}

func TestBasicHealthCheck(t *testing.T) {
	h := newTestHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/healthz", nil)

	h.Basic(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp BasicHealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Message)
}

func TestDatabaseHealthCheckWithoutConnection(t *testing.T) {
	h := newTestHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/health/db", nil)

	h.Database(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "unhealthy", resp.Status)
	assert.Contains(t, resp.Checks, "database")
}

func TestExternalHealthCheckAllHealthy(t *testing.T) {
	h := newTestHandler(
		&fakeAdapter{chain: model.ChainEthereum},
		&fakeAdapter{chain: model.ChainStellar},
	)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/health/external", nil)

	h.External(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Contains(t, resp.Checks, "ethereum_rpc")
	assert.Contains(t, resp.Checks, "stellar_rpc")
}

func TestExternalHealthCheckOneChainDown(t *testing.T) {
	h := newTestHandler(
		&fakeAdapter{chain: model.ChainEthereum},
		&fakeAdapter{chain: model.ChainStellar, healthErr: errors.New("connection refused")},
	)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/health/external", nil)

	h.External(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "unhealthy", resp.Status)
	assert.Equal(t, "healthy", resp.Checks["ethereum_rpc"].Status)
	assert.Equal(t, "unhealthy", resp.Checks["stellar_rpc"].Status)
}
