package soroban

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xGeorgii/interstellar/internal/types/environments"
	"github.com/0xGeorgii/interstellar/internal/utils/config"
	"github.com/0xGeorgii/interstellar/internal/utils/logger"
)

func newTestClient(url string) IClient {
	cfg := &config.AppConfig{Environment: environments.Test}
	cfg.Stellar.SorobanRPCURL = url
	return New(cfg, logger.New(cfg.Environment))
}

func rpcResult(t *testing.T, w http.ResponseWriter, result any) {
	t.Helper()

	raw, err := json.Marshal(result)
	require.NoError(t, err)
	resp := map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"result":  json.RawMessage(raw),
	}
	require.NoError(t, json.NewEncoder(w).Encode(resp))
}

func TestGetLatestLedger(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "getLatestLedger", req.Method)
		assert.Equal(t, "2.0", req.JSONRPC)

		rpcResult(t, w, LatestLedger{Sequence: 123456})
	}))
	defer server.Close()

	ledger, err := newTestClient(server.URL).GetLatestLedger(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint32(123456), ledger.Sequence)
}

func TestGetHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rpcResult(t, w, map[string]string{"status": "healthy"})
	}))
	defer server.Close()

	assert.NoError(t, newTestClient(server.URL).GetHealth(context.Background()))
}

func TestGetHealthUnhealthy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rpcResult(t, w, map[string]string{"status": "degraded"})
	}))
	defer server.Close()

	assert.Error(t, newTestClient(server.URL).GetHealth(context.Background()))
}

func TestSimulateTransactionPassesParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string            `json:"method"`
			Params map[string]string `json:"params"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "simulateTransaction", req.Method)
		assert.Equal(t, "AAAA", req.Params["transaction"])

		rpcResult(t, w, SimulateResult{
			TransactionData: "dGVzdA==",
			MinResourceFee:  "100",
		})
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).SimulateTransaction(context.Background(), "AAAA")
	require.NoError(t, err)
	assert.Equal(t, "dGVzdA==", result.TransactionData)
	assert.Equal(t, "100", result.MinResourceFee)
}

func TestSendTransaction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rpcResult(t, w, SendResult{Hash: "abc123", Status: TxStatusPending})
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).SendTransaction(context.Background(), "AAAA")
	require.NoError(t, err)
	assert.Equal(t, "abc123", result.Hash)
	assert.Equal(t, TxStatusPending, result.Status)
}

func TestGetTransaction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rpcResult(t, w, TransactionResult{
			Status:       TxStatusSuccess,
			Ledger:       100,
			LatestLedger: 105,
		})
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).GetTransaction(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, TxStatusSuccess, result.Status)
	assert.Equal(t, uint32(100), result.Ledger)
}

func TestCallRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		rpcResult(t, w, LatestLedger{Sequence: 7})
	}))
	defer server.Close()

	ledger, err := newTestClient(server.URL).GetLatestLedger(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint32(7), ledger.Sequence)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCallDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetLatestLedger(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCallSurfacesRPCError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"jsonrpc": "2.0",
			"id":      1,
			"error":   map[string]any{"code": -32600, "message": "invalid request"},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetLatestLedger(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid request")
}
